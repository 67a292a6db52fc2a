// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package handler - HTTP access to the RPC server
//
// POST /ashmaize/rpc carries one JSON-RPC request; GET
// /ashmaize/details returns Node.Info to addresses in the allow list
package handler

import (
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/rpc"
	"net/rpc/jsonrpc"
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/ashmaize/counter"
	"github.com/bitmark-inc/ashmaize/rpc/node"
)

// Informer - source of the details reply
type Informer interface {
	Info(*node.InfoArguments, *node.InfoReply) error
}

// Handler - the HTTP endpoints
type Handler interface {
	SetAllow(map[string][]*net.IPNet)
	RPC(http.ResponseWriter, *http.Request)
	Details(http.ResponseWriter, *http.Request)
	Root(http.ResponseWriter, *http.Request)
}

type handler struct {
	sync.RWMutex
	log                *logger.L
	server             *rpc.Server
	informer           Informer
	allow              map[string][]*net.IPNet
	connections        counter.Counter
	maximumConnections uint64
}

// type to allow rpc system to interface to http request
type internalConnection struct {
	in  io.Reader
	out io.Writer
}

func (c *internalConnection) Read(p []byte) (n int, err error) {
	return c.in.Read(p)
}
func (c *internalConnection) Write(d []byte) (n int, err error) {
	return c.out.Write(d)
}
func (c *internalConnection) Close() error {
	return nil
}

// New - handler limited to maximumConnections concurrent requests
func New(log *logger.L, server *rpc.Server, informer Informer, maximumConnections uint64) Handler {
	return &handler{
		log:                log,
		server:             server,
		informer:           informer,
		allow:              make(map[string][]*net.IPNet),
		maximumConnections: maximumConnections,
	}
}

// SetAllow - per endpoint address ranges
func (h *handler) SetAllow(allow map[string][]*net.IPNet) {
	h.Lock()
	h.allow = allow
	h.Unlock()
}

// Root - this matches anything not matched and returns error
func (h *handler) Root(w http.ResponseWriter, _ *http.Request) {
	sendNotFound(w)
}

// RPC - performs a call to any normal RPC
func (h *handler) RPC(w http.ResponseWriter, r *http.Request) {
	if http.MethodPost != r.Method {
		sendMethodNotAllowed(w)
		return
	}

	if !h.enter() {
		sendTooManyRequests(w)
		return
	}
	defer h.connections.Decrement()

	if nil == r.Body {
		sendInternalServerError(w)
		return
	}

	serverCodec := jsonrpc.NewServerCodec(&internalConnection{in: r.Body, out: w})
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	err := h.server.ServeRequest(serverCodec)
	if nil != err {
		h.log.Debugf("http rpc error: %s", err)
		sendInternalServerError(w)
		return
	}
}

// Details - GET form of Node.Info
func (h *handler) Details(w http.ResponseWriter, r *http.Request) {
	if http.MethodGet != r.Method {
		sendMethodNotAllowed(w)
		return
	}

	if !h.allowed("details", r.RemoteAddr) {
		h.log.Warnf("deny access: %q", r.RemoteAddr)
		sendForbidden(w)
		return
	}

	if !h.enter() {
		sendTooManyRequests(w)
		return
	}
	defer h.connections.Decrement()

	var reply node.InfoReply
	if err := h.informer.Info(&node.InfoArguments{}, &reply); nil != err {
		sendInternalServerError(w)
		return
	}
	sendReply(w, reply)
}

func (h *handler) enter() bool {
	if h.connections.Increment() > h.maximumConnections {
		h.connections.Decrement()
		return false
	}
	return true
}

func (h *handler) allowed(endpoint string, remoteAddr string) bool {
	host, _, err := net.SplitHostPort(remoteAddr)
	if nil != err {
		return false
	}
	ip := net.ParseIP(host)
	if nil == ip {
		return false
	}

	h.RLock()
	defer h.RUnlock()
	for _, n := range h.allow[endpoint] {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

// send an JSON encoded reply
func sendReply(w http.ResponseWriter, data interface{}) {
	text, err := json.Marshal(data)
	if nil != err {
		sendInternalServerError(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(text)
}

// selected errors as required above
func sendNotFound(w http.ResponseWriter) {
	sendError(w, "not found", http.StatusNotFound)
}
func sendMethodNotAllowed(w http.ResponseWriter) {
	sendError(w, "method not allowed", http.StatusMethodNotAllowed)
}
func sendForbidden(w http.ResponseWriter) {
	sendError(w, "forbidden", http.StatusForbidden)
}
func sendTooManyRequests(w http.ResponseWriter) {
	sendError(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
}
func sendInternalServerError(w http.ResponseWriter) {
	sendError(w, "internal server error", http.StatusInternalServerError)
}

// to compose JSON error messages
type eType struct {
	Code  int    `json:"code"`
	Error string `json:"error"`
}

// output an error with a JSON body
func sendError(w http.ResponseWriter, message string, code int) {
	text, err := json.Marshal(eType{
		Code:  code,
		Error: message,
	})
	if nil != err {
		// manually composed error just incase JSON fails
		http.Error(w, `{"code":500,"error":"Internal Server Error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(code)
	_, _ = w.Write(text)
}
