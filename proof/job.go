// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package proof

import (
	"encoding/json"
	"time"

	"github.com/bitmark-inc/ashmaize/difficulty"
	"github.com/bitmark-inc/ashmaize/digest"
	"github.com/bitmark-inc/ashmaize/fault"
)

// Job - one challenge to mine
type Job struct {
	ID             string          `json:"id"`
	Key            string          `json:"key"`
	PreimageStatic string          `json:"preimageStatic"`
	Mask           difficulty.Mask `json:"mask"`
	BatchSize      uint32          `json:"batchSize"`
}

// Validate - check required fields
func (job Job) Validate() error {
	if "" == job.ID {
		return fault.MissingParameters
	}
	if "" == job.Key {
		return fault.MissingROMKey
	}
	return nil
}

// Solution - a salt meeting a job's mask
type Solution struct {
	Job            string          `json:"job"`
	Key            string          `json:"key"`
	PreimageStatic string          `json:"preimageStatic"`
	Mask           difficulty.Mask `json:"mask"`
	Salt           string          `json:"salt"`
	Digest         digest.Digest   `json:"digest"`
	Timestamp      time.Time       `json:"timestamp"`
}

func decodeJob(data []byte) (Job, error) {
	var job Job
	if err := json.Unmarshal(data, &job); nil != err {
		return Job{}, err
	}
	if err := job.Validate(); nil != err {
		return Job{}, err
	}
	return job, nil
}
