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

// task is one accepted request line bound to its connection and its
// pending slot.
type task struct {
	conn   *serverConn
	corrID uint64
	respCh <-chan interface{}
	line   []byte
	start  time.Time
}

// workerLoop confines the blocking work — bus send retries and the
// slot wait — so the connection loops never block on IPC.
func (s *RoutingServer) workerLoop() {
	defer s.Wg.Done()
	for {
		select {
		case <-s.ShutdownCh:
			s.drainTasks()
			return
		case t := <-s.taskCh:
			s.processTask(t)
		}
	}
}

// drainTasks answers whatever the readers already handed off before
// the pool joins.
func (s *RoutingServer) drainTasks() {
	for {
		select {
		case t := <-s.taskCh:
			s.pending.Trigger(t.corrID, nil)
			t.conn.enqueue(protocol.ServerErrorLine(protocol.StatusError, protocol.ReasonServerShutdown))
		default:
			return
		}
	}
}

func (s *RoutingServer) processTask(t *task) {
	frame, err := protocol.Pack(protocol.RouteReq, t.corrID, t.line, s.cfg.QueueMsgSize)
	if err != nil {
		// over the bus cap, rejected before send
		s.pending.Trigger(t.corrID, nil)
		s.finish(t, protocol.ServerErrorLine(protocol.StatusError, protocol.ReasonRequestTooLarge))
		return
	}

	if !s.sendWithRetry(t, frame) {
		return
	}

	// Await the slot. Whoever completes first wins; the losing
	// completer observes a missing entry and is a no-op.
	var body []byte
	timer := time.NewTimer(s.cfg.RequestTimeout)
	select {
	case x := <-t.respCh:
		timer.Stop()
		payload, ok := x.([]byte)
		if !ok {
			// evicted during shutdown handoff
			return
		}
		body = payload
	case <-timer.C:
		routermetrics.MetricsRsTimeoutTps.Inc()
		s.pending.Trigger(t.corrID, nil)
		body = protocol.ServerErrorLine(protocol.StatusTimeout, protocol.ReasonNoResponse)
	case <-s.ShutdownCh:
		timer.Stop()
		s.pending.Trigger(t.corrID, nil)
		body = protocol.ServerErrorLine(protocol.StatusError, protocol.ReasonServerShutdown)
	}
	s.finish(t, body)
}

// sendWithRetry pushes the frame onto the request queue, backing off
// briefly while the bus is full. Exhausting the budget answers the
// client ERROR/mq_full; a fatal bus error abandons the task and the
// client observes its own timeout.
func (s *RoutingServer) sendWithRetry(t *task, frame []byte) bool {
	for k := 0; k < s.cfg.SendRetryAttempts; k++ {
		err := s.reqQueue.Send(frame, 0)
		if err == nil {
			return true
		}
		if err == ipc.ErrWouldBlock {
			routermetrics.MetricsRsMqSendRetry.Inc()
			select {
			case <-s.ShutdownCh:
				s.pending.Trigger(t.corrID, nil)
				s.finish(t, protocol.ServerErrorLine(protocol.StatusError, protocol.ReasonServerShutdown))
				return false
			default:
			}
			time.Sleep(s.cfg.SendRetryInterval)
			continue
		}
		glog.Errorf("[worker.go-sendWithRetry]:mq send error,corr_id=%d,err=%s", t.corrID, err.Error())
		s.pending.Trigger(t.corrID, nil)
		return false
	}
	routermetrics.MetricsRsMqFullTps.Inc()
	s.pending.Trigger(t.corrID, nil)
	s.finish(t, protocol.ServerErrorLine(protocol.StatusError, protocol.ReasonMqFull))
	return false
}

func (s *RoutingServer) finish(t *task, body []byte) {
	t.conn.enqueue(body)
	routermetrics.MetricsRsPendingSize.Set(float64(s.pending.Size()))
	routermetrics.MetricsRsRequestLatency.Observe(float64(time.Since(t.start)) / float64(time.Millisecond))
}
