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

package flxengine

import (
	"errors"
	"time"

	"github.com/Frederick75/Carrier-Grade-Telecom-Signalling-Routing-Server/conf"
)

type EngineConfig struct {

	// bound on the request-queue receive so the run flag gets
	// re-checked during shutdown
	RecvTimeout time.Duration
}

func NewEngineConfig() *EngineConfig {
	return &EngineConfig{
		RecvTimeout: conf.DefaultEngineRecvTimeout,
	}
}

func (cfg *EngineConfig) ValidateEngineConfig() error {
	if cfg.RecvTimeout <= 0 {
		return errors.New("RecvTimeout must be positive")
	}
	return nil
}
