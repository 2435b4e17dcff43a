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
	"time"

	"github.com/golang/glog"

	"github.com/Frederick75/Carrier-Grade-Telecom-Signalling-Routing-Server/ipc"
	"github.com/Frederick75/Carrier-Grade-Telecom-Signalling-Routing-Server/protocol"
	"github.com/Frederick75/Carrier-Grade-Telecom-Signalling-Routing-Server/server/routermetrics"
)

// dispatchLoop drains the response queue and completes pending slots.
// Completion is a one-shot channel send, so the dispatcher never
// blocks on slot consumers.
func (s *RoutingServer) dispatchLoop() {
	defer s.Wg.Done()

	buf := make([]byte, s.respQueue.MsgSize())
	for {
		select {
		case <-s.ShutdownCh:
			return
		default:
		}

		n, err := s.respQueue.Receive(buf)
		if err != nil {
			if err == ipc.ErrWouldBlock {
				time.Sleep(s.cfg.DispatchIdleSleep)
				continue
			}
			if err == ipc.ErrClosed {
				return
			}
			glog.Errorf("[dispatcher.go-dispatchLoop]:resp mq recv:%s", err.Error())
			time.Sleep(10 * time.Millisecond)
			continue
		}
		if n <= 0 {
			continue
		}

		hdr, payload, uerr := protocol.Unpack(buf[:n])
		if uerr != nil {
			routermetrics.MetricsRsBadFrame.Inc()
			glog.Warningf("[dispatcher.go-dispatchLoop]:bad frame dropped,err=%s", uerr.Error())
			continue
		}
		if hdr.Type != protocol.RouteResp {
			routermetrics.MetricsRsBadFrame.Inc()
			glog.Warningf("[dispatcher.go-dispatchLoop]:unexpected msg type %d", hdr.Type)
			continue
		}

		// the receive buffer is reused, the slot gets its own copy
		body := make([]byte, len(payload))
		copy(body, payload)

		if !s.pending.Trigger(hdr.CorrID, body) {
			routermetrics.MetricsRsLateResp.Inc()
			if glog.V(1) {
				glog.Infof("D:[dispatcher.go-dispatchLoop]:late response dropped,corr_id=%d", hdr.CorrID)
			}
		}
	}
}
