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

package conf

import "time"

// bus defaults, shared by routing server and flx engine.
// the engine creates both queues, the routing server opens them.
const (
	DefaultReqQueueName  = "/tr_mq_req"
	DefaultRespQueueName = "/tr_mq_resp"

	DefaultQueueMaxMsgs = 2048
	DefaultQueueMsgSize = 8192
)

// routing server defaults
const (
	DefaultListenHost = "0.0.0.0"
	DefaultListenPort = 5555

	// backpressure: reject new lines with BUSY above this many
	// in-flight transactions
	DefaultPendingLimit = 100000

	// RequestTimeout and the send retry budget are siblings: the retry
	// window (attempts * interval) must stay below the end-to-end
	// timeout, otherwise a saturated bus eats the whole request budget
	// before the engine ever sees the frame.
	DefaultRequestTimeout    = 500 * time.Millisecond
	DefaultSendRetryAttempts = 1000
	DefaultSendRetryInterval = 200 * time.Microsecond

	// dispatcher poll interval when the response queue is empty
	DefaultDispatchIdleSleep = 500 * time.Microsecond

	// per-connection output queue depth; responses to a client that
	// stopped reading are dropped beyond this
	DefaultConnOutQueueSize = 256

	DefaultConnectionsMaxIdle = 10 * time.Minute
)

// flx engine defaults
const (
	// bounded receive so the run flag gets re-checked
	DefaultEngineRecvTimeout = 1 * time.Second
)

// put all the metrics config here,
// later can consider which need use whether dynamic mode
type MetricsConfig struct {

	// Duration for request latency summary on the routing server
	RouterRequestLatencySummaryDuration time.Duration

	// Duration for pending-table wait summary
	RouterPendingWaitSummaryDuration time.Duration

	// Duration for FLX lookup latency summary
	EngineLookupLatencySummaryDuration time.Duration
}

var (
	DefaultMetricsConfig = &MetricsConfig{
		RouterRequestLatencySummaryDuration: 2 * time.Second,
		RouterPendingWaitSummaryDuration:    2 * time.Second,
		EngineLookupLatencySummaryDuration:  2 * time.Second,
	}
)
