// Copyright 2025 The Telecom Routing Server Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// See the License for the specific language governing permissions and
// limitations under the License.

package alrstore

import (
	"errors"
)

var (
	ErrArgsNotAvailable = errors.New("alrstore: args not available")
	ErrBadRecord        = errors.New("alrstore: stored record does not decode")
)

// Record is one subscriber-location registry entry.
type Record struct {
	Imsi       string `json:"imsi"`
	ServingMsc string `json:"serving_msc"`
	ServingVlr string `json:"serving_vlr"`
	Region     string `json:"region"`
}

// Store is the subscriber-location registry the FLX engine resolves
// against. Lookups are in-memory and O(1).
type Store interface {
	LookupMsisdn(msisdn string) (*Record, bool)
	Close() error
}
