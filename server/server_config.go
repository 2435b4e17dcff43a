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

package server

import (
	"errors"
	"net"
	"net/url"
	"runtime"
	"time"

	"github.com/golang/glog"

	"github.com/Frederick75/Carrier-Grade-Telecom-Signalling-Routing-Server/conf"
)

type ServerConfig struct {

	// client listener address
	ClientListenerAddress string

	// metrics listener address, empty disables the listener
	MetricsListenerAddress string

	// bus message size cap, frames above it are rejected before send
	QueueMsgSize int

	// backpressure ceiling on in-flight transactions
	PendingLimit int

	// end-to-end budget a worker waits on one pending slot
	RequestTimeout time.Duration

	// send retry budget against a full request queue; the product
	// of the two must stay below RequestTimeout
	SendRetryAttempts int
	SendRetryInterval time.Duration

	// dispatcher sleep between empty response-queue polls
	DispatchIdleSleep time.Duration

	// fixed worker pool size
	WorkerCount int

	// per-connection output queue depth
	ConnOutQueueSize int

	// Millisecond for idle connections timeout
	ConnectionsMaxIdle time.Duration
}

func NewServerConfig() *ServerConfig {
	return &ServerConfig{
		QueueMsgSize:       conf.DefaultQueueMsgSize,
		PendingLimit:       conf.DefaultPendingLimit,
		RequestTimeout:     conf.DefaultRequestTimeout,
		SendRetryAttempts:  conf.DefaultSendRetryAttempts,
		SendRetryInterval:  conf.DefaultSendRetryInterval,
		DispatchIdleSleep:  conf.DefaultDispatchIdleSleep,
		WorkerCount:        defaultWorkerCount(),
		ConnOutQueueSize:   conf.DefaultConnOutQueueSize,
		ConnectionsMaxIdle: conf.DefaultConnectionsMaxIdle,
	}
}

func defaultWorkerCount() int {
	n := runtime.GOMAXPROCS(0)
	if n < 2 {
		n = 2
	}
	return n
}

func (conf *ServerConfig) ValidateServerConfig() error {

	_, err := net.ResolveTCPAddr("tcp", conf.ClientListenerAddress)
	if err != nil {
		return err
	}

	if len(conf.MetricsListenerAddress) != 0 {
		metricsListenerUrl, err := url.Parse(conf.MetricsListenerAddress)
		if err != nil {
			return err
		}
		if metricsListenerUrl.Scheme != "http" {
			return errors.New("MetricsListenerAddress should be http")
		}
	}

	if conf.QueueMsgSize <= 0 {
		return errors.New("QueueMsgSize must be positive")
	}
	if conf.PendingLimit <= 0 {
		return errors.New("PendingLimit must be positive")
	}
	if conf.RequestTimeout <= 0 {
		return errors.New("RequestTimeout must be positive")
	}
	if conf.SendRetryAttempts <= 0 || conf.SendRetryInterval <= 0 {
		return errors.New("send retry budget must be positive")
	}
	if conf.WorkerCount <= 0 {
		return errors.New("WorkerCount must be positive")
	}
	if conf.ConnOutQueueSize <= 0 {
		return errors.New("ConnOutQueueSize must be positive")
	}
	if conf.ConnectionsMaxIdle <= 0 {
		return errors.New("ConnectionsMaxIdle must be positive")
	}

	retryWindow := time.Duration(conf.SendRetryAttempts) * conf.SendRetryInterval
	if retryWindow >= conf.RequestTimeout {
		glog.Warningf("[server_config.go-ValidateServerConfig]:send retry window %.0fms >= request timeout %.0fms, a saturated bus eats the whole request budget",
			float64(retryWindow)/float64(time.Millisecond), float64(conf.RequestTimeout)/float64(time.Millisecond))
	}
	return nil
}
