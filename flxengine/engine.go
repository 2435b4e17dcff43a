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
	"sync"
	"time"

	"github.com/golang/glog"

	"github.com/Frederick75/Carrier-Grade-Telecom-Signalling-Routing-Server/alrstore"
	"github.com/Frederick75/Carrier-Grade-Telecom-Signalling-Routing-Server/flxengine/enginemetrics"
	"github.com/Frederick75/Carrier-Grade-Telecom-Signalling-Routing-Server/ipc"
	"github.com/Frederick75/Carrier-Grade-Telecom-Signalling-Routing-Server/pkg/jsonutil"
	"github.com/Frederick75/Carrier-Grade-Telecom-Signalling-Routing-Server/protocol"
)

// Engine is the routing-decision back end: a single goroutine draining
// the request queue and answering on the response queue. The registry
// is in-memory and O(1), so one consumer keeps per-request work bounded
// and the shutdown model simple.
type Engine struct {
	cfg *EngineConfig
	alr alrstore.Store

	reqQueue  ipc.Queue
	respQueue ipc.Queue

	ShutdownCh chan struct{}
	closeOnce  sync.Once
	stopped    chan struct{}
}

func NewEngine(cfg *EngineConfig, alr alrstore.Store, reqQueue, respQueue ipc.Queue) (*Engine, error) {
	if err := cfg.ValidateEngineConfig(); err != nil {
		return nil, err
	}
	return &Engine{
		cfg:        cfg,
		alr:        alr,
		reqQueue:   reqQueue,
		respQueue:  respQueue,
		ShutdownCh: make(chan struct{}),
		stopped:    make(chan struct{}),
	}, nil
}

// Run drains the request queue until Stop. Receive errors are logged
// and the loop continues; only the caller's queues failing at open are
// fatal, and that happens before Run.
func (e *Engine) Run() error {
	defer close(e.stopped)

	glog.Infof("[engine.go-Run]: flx engine started,recvTimeout=%.2fs", e.cfg.RecvTimeout.Seconds())

	buf := make([]byte, e.reqQueue.MsgSize())
	for {
		select {
		case <-e.ShutdownCh:
			glog.Infof("[engine.go-Run]: flx engine stopping")
			return nil
		default:
		}

		n, err := e.reqQueue.ReceiveTimeout(buf, e.cfg.RecvTimeout)
		if err != nil {
			if err == ipc.ErrTimeout {
				continue
			}
			if err == ipc.ErrClosed {
				glog.Infof("[engine.go-Run]: request queue closed")
				return nil
			}
			glog.Errorf("[engine.go-Run]:mq recv error:%s", err.Error())
			continue
		}
		if n <= 0 {
			continue
		}
		e.handle(buf[:n])
	}
}

// Stop breaks the run loop; the loop wakes from its bounded receive and
// re-checks the shutdown channel.
func (e *Engine) Stop() {
	e.closeOnce.Do(func() { close(e.ShutdownCh) })
	<-e.stopped
}

func (e *Engine) handle(frame []byte) {
	hdr, payload, err := protocol.Unpack(frame)
	if err != nil {
		enginemetrics.MetricsFlxBadFrame.Inc()
		glog.Warningf("[engine.go-handle]:bad message received,err=%s", err.Error())
		return
	}
	if hdr.Type != protocol.RouteReq {
		enginemetrics.MetricsFlxBadFrame.Inc()
		glog.Warningf("[engine.go-handle]:unexpected msg type %d", hdr.Type)
		return
	}
	enginemetrics.MetricsFlxReqTps.Inc()

	if glog.V(1) {
		glog.Infof("D:[engine.go-handle]:route request,corr_id=%d,payload=%s", hdr.CorrID, string(payload))
	}

	t0 := time.Now()
	resp := &protocol.RouteResponse{
		CorrID: hdr.CorrID,
		Op:     protocol.DefaultOp,
	}

	req, perr := protocol.ParseRouteRequest(payload)
	if perr != nil {
		enginemetrics.MetricsFlxMalformedReq.Inc()
		glog.Warningf("[engine.go-handle]:malformed request,corr_id=%d,err=%s", hdr.CorrID, perr.Error())
		resp.Status = protocol.StatusError
		resp.Reason = protocol.ReasonMalformedJSON
	} else {
		resp.Op = req.Op
		resp.Msisdn = req.Msisdn

		rec, ok := e.alr.LookupMsisdn(req.Msisdn)
		if !ok {
			enginemetrics.MetricsFlxNotFound.Inc()
			resp.Status = protocol.StatusNotFound
			resp.Reason = protocol.ReasonNotInAlr
		} else {
			resp.Status = protocol.StatusOK
			resp.Imsi = rec.Imsi
			resp.ServingMsc = rec.ServingMsc
			resp.ServingVlr = rec.ServingVlr
			resp.RouteGroup = alrstore.RoutePolicy(rec)
		}
	}

	elapsed := time.Since(t0)
	resp.FlxLatencyMs = uint64(elapsed / time.Millisecond)
	enginemetrics.MetricsFlxLookupLatency.Observe(float64(elapsed) / float64(time.Millisecond))

	out, err := protocol.Pack(protocol.RouteResp, hdr.CorrID, jsonutil.MustMarshal(resp), e.respQueue.MsgSize())
	if err != nil {
		glog.Errorf("[engine.go-handle]:pack response error,corr_id=%d,err=%s", hdr.CorrID, err.Error())
		return
	}
	// a failed send is dropped, the server observes a timeout
	if err := e.respQueue.Send(out, 0); err != nil {
		enginemetrics.MetricsFlxRespSendFail.Inc()
		glog.Errorf("[engine.go-handle]:mq send error,corr_id=%d,err=%s", hdr.CorrID, err.Error())
		return
	}
	enginemetrics.MetricsFlxRespTps.Inc()
}
