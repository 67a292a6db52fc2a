// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package handler_test

import (
	"bytes"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"net/rpc"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/ashmaize/cache"
	"github.com/bitmark-inc/ashmaize/counter"
	"github.com/bitmark-inc/ashmaize/fixtures"
	"github.com/bitmark-inc/ashmaize/rom"
	"github.com/bitmark-inc/ashmaize/rpc/handler"
	"github.com/bitmark-inc/ashmaize/rpc/hashing"
	"github.com/bitmark-inc/ashmaize/rpc/node"
)

// JSON error body
type errorBody struct {
	Code  int    `json:"code"`
	Error string `json:"error"`
}

// JSON-RPC 1.0 envelope
type request struct {
	ID     int           `json:"id"`
	Method string        `json:"method"`
	Params []interface{} `json:"params"`
}

type response struct {
	ID     int             `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  interface{}     `json:"error"`
}

func newHandler(maximumConnections uint64) handler.Handler {
	c := counter.Counter(0)
	n := node.New(logger.New(fixtures.LogCategory), time.Now(), "1.0", &c, nil)
	return handler.New(logger.New(fixtures.LogCategory), rpc.NewServer(), n, maximumConnections)
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorBody {
	var e errorBody
	err := json.NewDecoder(w.Result().Body).Decode(&e)
	assert.Nil(t, err, "error body")
	return e
}

func TestErrorResponses(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	_, denied, _ := net.ParseCIDR("10.0.0.0/8")

	items := []struct {
		name        string
		method      string
		connections uint64
		call        func(h handler.Handler) http.HandlerFunc
		code        int
		message     string
	}{
		{"root", http.MethodGet, 5, func(h handler.Handler) http.HandlerFunc { return h.Root }, http.StatusNotFound, "not found"},
		{"rpc by get", http.MethodGet, 5, func(h handler.Handler) http.HandlerFunc { return h.RPC }, http.StatusMethodNotAllowed, "method not allowed"},
		{"rpc over limit", http.MethodPost, 0, func(h handler.Handler) http.HandlerFunc { return h.RPC }, http.StatusTooManyRequests, "Too Many Requests"},
		{"details by post", http.MethodPost, 5, func(h handler.Handler) http.HandlerFunc { return h.Details }, http.StatusMethodNotAllowed, "method not allowed"},
		{"details denied", http.MethodGet, 5, func(h handler.Handler) http.HandlerFunc { return h.Details }, http.StatusForbidden, "forbidden"},
		{"details no allow list", http.MethodGet, 5, func(h handler.Handler) http.HandlerFunc {
			return h.Details
		}, http.StatusForbidden, "forbidden"},
	}

	for _, item := range items {
		h := newHandler(item.connections)
		if "details denied" == item.name {
			h.SetAllow(map[string][]*net.IPNet{"details": {denied}})
		}

		req := httptest.NewRequest(item.method, "http://localhost/", nil)
		w := httptest.NewRecorder()
		item.call(h)(w, req)

		assert.Equal(t, item.code, w.Code, "%s: status", item.name)
		e := decodeError(t, w)
		assert.Equal(t, item.code, e.Code, "%s: code", item.name)
		assert.Equal(t, item.message, e.Error, "%s: message", item.name)
	}
}

func TestRPCHashCompute(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	registry := cache.New(
		logger.New(fixtures.LogCategory),
		cache.Parameters{Size: fixtures.ROMSize, Generation: rom.FullRandom()},
		time.Minute,
	)
	defer registry.Flush()

	server := rpc.NewServer()
	err := server.Register(hashing.New(logger.New(fixtures.LogCategory), registry, fixtures.ROMKey))
	assert.Nil(t, err, "register")

	c := counter.Counter(0)
	n := node.New(logger.New(fixtures.LogCategory), time.Now(), "1.0", &c, nil)
	h := handler.New(logger.New(fixtures.LogCategory), server, n, 5)

	data, _ := json.Marshal(request{
		ID:     7,
		Method: "Hash.Compute",
		Params: []interface{}{hashing.ComputeArguments{Preimage: "over http"}},
	})
	req := httptest.NewRequest(http.MethodPost, "http://localhost/ashmaize/rpc", bytes.NewReader(data))
	w := httptest.NewRecorder()
	h.RPC(w, req)

	assert.Equal(t, http.StatusOK, w.Code, "status")
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"), "content type")

	var r response
	err = json.NewDecoder(w.Result().Body).Decode(&r)
	assert.Nil(t, err, "body")
	assert.Equal(t, 7, r.ID, "id")
	assert.Nil(t, r.Error, "rpc error")

	var reply hashing.ComputeReply
	err = json.Unmarshal(r.Result, &reply)
	assert.Nil(t, err, "result")

	direct, err := registry.Get(req.Context(), fixtures.ROMKey)
	assert.Nil(t, err, "rom")
	defer direct.Close()
	expected, err := direct.Hash("over http")
	assert.Nil(t, err, "hash")
	assert.Equal(t, expected, reply.Digest, "digest")
}

func TestRPCUnknownMethod(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	h := newHandler(5)

	data, _ := json.Marshal(request{ID: 1, Method: "Nothing.Here", Params: []interface{}{}})
	req := httptest.NewRequest(http.MethodPost, "http://localhost/ashmaize/rpc", bytes.NewReader(data))
	w := httptest.NewRecorder()
	h.RPC(w, req)

	var r response
	err := json.NewDecoder(w.Result().Body).Decode(&r)
	assert.Nil(t, err, "body")
	assert.Equal(t, 1, r.ID, "id")
	assert.NotNil(t, r.Error, "expected rpc error")
}

func TestRPCMalformed(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	h := newHandler(5)

	req := httptest.NewRequest(http.MethodPost, "http://localhost/ashmaize/rpc", bytes.NewReader([]byte("{")))
	w := httptest.NewRecorder()
	h.RPC(w, req)

	assert.Contains(t, w.Body.String(), "internal server error", "wrong response")
}

func TestDetailsAllowed(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	h := newHandler(5)

	_, allowed, _ := net.ParseCIDR("192.0.2.0/24")
	h.SetAllow(map[string][]*net.IPNet{
		"details": {allowed},
	})

	// httptest requests come from 192.0.2.1
	req := httptest.NewRequest(http.MethodGet, "http://localhost/ashmaize/details", nil)
	w := httptest.NewRecorder()
	h.Details(w, req)

	assert.Equal(t, http.StatusOK, w.Code, "status")

	var reply node.InfoReply
	err := json.NewDecoder(w.Result().Body).Decode(&reply)
	assert.Nil(t, err, "body")
	assert.Equal(t, "1.0", reply.Version, "version")
	assert.NotZero(t, reply.CPUs, "cpus")
}
