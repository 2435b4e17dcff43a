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

package enginemetrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Frederick75/Carrier-Grade-Telecom-Signalling-Routing-Server/conf"
)

var (
	MetricsFlxReqTps = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "flx",
		Subsystem: "route",
		Name:      "req_tps",
		Help:      "flx engine received route request count",
	})

	MetricsFlxRespTps = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "flx",
		Subsystem: "route",
		Name:      "resp_tps",
		Help:      "flx engine sent route response count",
	})

	MetricsFlxNotFound = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "flx",
		Subsystem: "route",
		Name:      "not_found",
		Help:      "lookups for subscribers missing from the alr",
	})

	MetricsFlxMalformedReq = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "flx",
		Subsystem: "route",
		Name:      "malformed_req",
		Help:      "request payloads that do not parse as json",
	})

	MetricsFlxBadFrame = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "flx",
		Subsystem: "bus",
		Name:      "bad_frame",
		Help:      "frames dropped for bad magic, version, type or length",
	})

	MetricsFlxRespSendFail = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "flx",
		Subsystem: "bus",
		Name:      "resp_send_fail",
		Help:      "responses dropped because the response queue send failed",
	})

	MetricsFlxLookupLatency = prometheus.NewSummary(prometheus.SummaryOpts{
		Namespace:  "flx",
		Subsystem:  "route",
		Name:       "lookup_latency",
		Help:       "flx engine lookup and decision latency",
		MaxAge:     conf.DefaultMetricsConfig.EngineLookupLatencySummaryDuration,
		Objectives: map[float64]float64{0.99: 0.001},
	})
)

func init() {
	prometheus.MustRegister(MetricsFlxReqTps)
	prometheus.MustRegister(MetricsFlxRespTps)
	prometheus.MustRegister(MetricsFlxNotFound)
	prometheus.MustRegister(MetricsFlxMalformedReq)
	prometheus.MustRegister(MetricsFlxBadFrame)
	prometheus.MustRegister(MetricsFlxRespSendFail)
	prometheus.MustRegister(MetricsFlxLookupLatency)
}
