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

package routermetrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Frederick75/Carrier-Grade-Telecom-Signalling-Routing-Server/conf"
)

var (
	MetricsRsConnectTimes = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "rs",
		Subsystem: "conn",
		Name:      "connect_times",
		Help:      "routing server accept client connect times",
	})

	MetricsRsOnlineConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "rs",
		Subsystem: "conn",
		Name:      "online_connections",
		Help:      "routing server online client connects",
	})

	MetricsRsReqTps = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "rs",
		Subsystem: "route",
		Name:      "req_tps",
		Help:      "routing server accepted request lines",
	})

	MetricsRsRespTps = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "rs",
		Subsystem: "route",
		Name:      "resp_tps",
		Help:      "routing server response lines enqueued to clients",
	})

	MetricsRsBusyTps = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "rs",
		Subsystem: "route",
		Name:      "busy_tps",
		Help:      "lines rejected with BUSY above the pending ceiling",
	})

	MetricsRsTimeoutTps = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "rs",
		Subsystem: "route",
		Name:      "timeout_tps",
		Help:      "requests answered TIMEOUT after no flx response",
	})

	MetricsRsMqFullTps = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "rs",
		Subsystem: "route",
		Name:      "mq_full_tps",
		Help:      "requests answered ERROR after the send retry budget",
	})

	MetricsRsMqSendRetry = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "rs",
		Subsystem: "bus",
		Name:      "mq_send_retry",
		Help:      "request queue send retries on would-block",
	})

	MetricsRsBadFrame = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "rs",
		Subsystem: "bus",
		Name:      "bad_frame",
		Help:      "response frames dropped for bad magic, version, type or length",
	})

	MetricsRsLateResp = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "rs",
		Subsystem: "bus",
		Name:      "late_resp",
		Help:      "responses whose pending slot was already gone",
	})

	MetricsRsDroppedResp = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "rs",
		Subsystem: "conn",
		Name:      "dropped_resp",
		Help:      "responses dropped on a closed or unread connection",
	})

	MetricsRsPendingSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "rs",
		Subsystem: "route",
		Name:      "pending_size",
		Help:      "in-flight transactions in the pending table",
	})

	MetricsRsRequestLatency = prometheus.NewSummary(prometheus.SummaryOpts{
		Namespace:  "rs",
		Subsystem:  "route",
		Name:       "request_latency",
		Help:       "routing server per-request latency, line accept to response enqueue",
		MaxAge:     conf.DefaultMetricsConfig.RouterRequestLatencySummaryDuration,
		Objectives: map[float64]float64{0.99: 0.001},
	})

	MetricsRsPendingWait = prometheus.NewSummaryVec(prometheus.SummaryOpts{
		Namespace:  "rs",
		Subsystem:  "route",
		Name:       "pending_wait",
		Help:       "time a transaction spends in the pending table",
		MaxAge:     conf.DefaultMetricsConfig.RouterPendingWaitSummaryDuration,
		Objectives: map[float64]float64{0.99: 0.001},
	}, []string{"stage"})
)

func init() {
	prometheus.MustRegister(MetricsRsConnectTimes)
	prometheus.MustRegister(MetricsRsOnlineConnections)
	prometheus.MustRegister(MetricsRsReqTps)
	prometheus.MustRegister(MetricsRsRespTps)
	prometheus.MustRegister(MetricsRsBusyTps)
	prometheus.MustRegister(MetricsRsTimeoutTps)
	prometheus.MustRegister(MetricsRsMqFullTps)
	prometheus.MustRegister(MetricsRsMqSendRetry)
	prometheus.MustRegister(MetricsRsBadFrame)
	prometheus.MustRegister(MetricsRsLateResp)
	prometheus.MustRegister(MetricsRsDroppedResp)
	prometheus.MustRegister(MetricsRsPendingSize)
	prometheus.MustRegister(MetricsRsRequestLatency)
	prometheus.MustRegister(MetricsRsPendingWait)
}
