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
	"encoding/json"
	"testing"
	"time"

	"github.com/Frederick75/Carrier-Grade-Telecom-Signalling-Routing-Server/alrstore"
	"github.com/Frederick75/Carrier-Grade-Telecom-Signalling-Routing-Server/ipc"
	"github.com/Frederick75/Carrier-Grade-Telecom-Signalling-Routing-Server/protocol"
)

func newTestEngine(t *testing.T) (*Engine, ipc.Queue, ipc.Queue) {
	reqQueue := ipc.NewMemQueue(ipc.Config{Name: "/test_req", MaxMsgs: 16, MsgSize: 8192})
	respQueue := ipc.NewMemQueue(ipc.Config{Name: "/test_resp", MaxMsgs: 16, MsgSize: 8192})

	cfg := NewEngineConfig()
	cfg.RecvTimeout = 50 * time.Millisecond

	engine, err := NewEngine(cfg, alrstore.NewMemStore(), reqQueue, respQueue)
	if err != nil {
		t.Fatalf("NewEngine error:%s", err.Error())
	}
	return engine, reqQueue, respQueue
}

func testSendRequest(t *testing.T, reqQueue ipc.Queue, corrID uint64, line string) {
	frame, err := protocol.Pack(protocol.RouteReq, corrID, []byte(line), reqQueue.MsgSize())
	if err != nil {
		t.Fatalf("Pack error:%s", err.Error())
	}
	if err := reqQueue.Send(frame, 0); err != nil {
		t.Fatalf("Send error:%s", err.Error())
	}
}

func testRecvResponse(t *testing.T, respQueue ipc.Queue, wantCorrID uint64) *protocol.RouteResponse {
	buf := make([]byte, respQueue.MsgSize())
	n, err := respQueue.ReceiveTimeout(buf, 2*time.Second)
	if err != nil {
		t.Fatalf("ReceiveTimeout error:%s", err.Error())
	}
	hdr, payload, err := protocol.Unpack(buf[:n])
	if err != nil {
		t.Fatalf("Unpack error:%s", err.Error())
	}
	if hdr.Type != protocol.RouteResp {
		t.Fatalf("expect RouteResp,got %d", hdr.Type)
	}
	if hdr.CorrID != wantCorrID {
		t.Fatalf("corr id mismatch,expect %d,got %d", wantCorrID, hdr.CorrID)
	}
	resp := new(protocol.RouteResponse)
	if err := json.Unmarshal(payload, resp); err != nil {
		t.Fatalf("Unmarshal error:%s,payload=%s", err.Error(), string(payload))
	}
	if resp.CorrID != wantCorrID {
		t.Fatalf("payload corr id mismatch,expect %d,got %d", wantCorrID, resp.CorrID)
	}
	return resp
}

func testNoResponse(t *testing.T, respQueue ipc.Queue) {
	buf := make([]byte, respQueue.MsgSize())
	if n, err := respQueue.ReceiveTimeout(buf, 100*time.Millisecond); err != ipc.ErrTimeout {
		t.Fatalf("expect silence,got n=%d err=%v", n, err)
	}
}

func TestEngineRouteKnownSubscriber(t *testing.T) {
	engine, reqQueue, respQueue := newTestEngine(t)
	go engine.Run()
	defer engine.Stop()

	testSendRequest(t, reqQueue, 42, `{"msisdn":"+14085551234","op":"route"}`)
	resp := testRecvResponse(t, respQueue, 42)

	if resp.Status != protocol.StatusOK {
		t.Fatalf("expect OK,got %s (%s)", resp.Status, resp.Reason)
	}
	if resp.Msisdn != "+14085551234" || resp.Op != "route" {
		t.Fatalf("request fields not echoed:%+v", resp)
	}
	if resp.Imsi != "310150123456789" || resp.ServingMsc != "MSC_DALLAS_01" ||
		resp.ServingVlr != "VLR_DAL_01" || resp.RouteGroup != alrstore.RouteGroupSouth {
		t.Fatalf("unexpected routing record:%+v", resp)
	}
}

func TestEngineRouteGroups(t *testing.T) {
	engine, reqQueue, respQueue := newTestEngine(t)
	go engine.Run()
	defer engine.Stop()

	cases := []struct {
		msisdn string
		group  string
	}{
		{"+12125550123", alrstore.RouteGroupEast},
		{"+14085551234", alrstore.RouteGroupSouth},
		{"+442079460123", alrstore.RouteGroupIntl},
	}
	for i, c := range cases {
		testSendRequest(t, reqQueue, uint64(i+1), `{"msisdn":"`+c.msisdn+`"}`)
		resp := testRecvResponse(t, respQueue, uint64(i+1))
		if resp.RouteGroup != c.group {
			t.Fatalf("msisdn %s expect %s,got %s", c.msisdn, c.group, resp.RouteGroup)
		}
		if resp.Op != protocol.DefaultOp {
			t.Fatalf("missing op should default to %q,got %q", protocol.DefaultOp, resp.Op)
		}
	}
}

func TestEngineUnknownSubscriber(t *testing.T) {
	engine, reqQueue, respQueue := newTestEngine(t)
	go engine.Run()
	defer engine.Stop()

	testSendRequest(t, reqQueue, 7, `{"msisdn":"+19999999999"}`)
	resp := testRecvResponse(t, respQueue, 7)

	if resp.Status != protocol.StatusNotFound {
		t.Fatalf("expect NOT_FOUND,got %s", resp.Status)
	}
	if resp.Reason != protocol.ReasonNotInAlr {
		t.Fatalf("expect reason %s,got %s", protocol.ReasonNotInAlr, resp.Reason)
	}
	if resp.Imsi != "" || resp.RouteGroup != "" {
		t.Fatalf("NOT_FOUND must carry an empty record:%+v", resp)
	}
}

func TestEngineMissingMsisdn(t *testing.T) {
	engine, reqQueue, respQueue := newTestEngine(t)
	go engine.Run()
	defer engine.Stop()

	testSendRequest(t, reqQueue, 8, `{"op":"route"}`)
	resp := testRecvResponse(t, respQueue, 8)

	if resp.Status != protocol.StatusNotFound {
		t.Fatalf("missing msisdn should be NOT_FOUND,got %s", resp.Status)
	}
	if resp.Msisdn != "" {
		t.Fatalf("echoed msisdn should be empty,got %q", resp.Msisdn)
	}
}

func TestEngineMalformedJSON(t *testing.T) {
	engine, reqQueue, respQueue := newTestEngine(t)
	go engine.Run()
	defer engine.Stop()

	testSendRequest(t, reqQueue, 9, `{"msisdn": oops`)
	resp := testRecvResponse(t, respQueue, 9)

	if resp.Status != protocol.StatusError {
		t.Fatalf("expect ERROR,got %s", resp.Status)
	}
	if resp.Reason != protocol.ReasonMalformedJSON {
		t.Fatalf("expect reason %s,got %s", protocol.ReasonMalformedJSON, resp.Reason)
	}
}

func TestEngineDropsWrongType(t *testing.T) {
	engine, reqQueue, respQueue := newTestEngine(t)
	go engine.Run()
	defer engine.Stop()

	frame, err := protocol.Pack(protocol.RouteResp, 10, []byte(`{}`), reqQueue.MsgSize())
	if err != nil {
		t.Fatalf("Pack error:%s", err.Error())
	}
	if err := reqQueue.Send(frame, 0); err != nil {
		t.Fatalf("Send error:%s", err.Error())
	}
	testNoResponse(t, respQueue)
}

func TestEngineDropsBadFrame(t *testing.T) {
	engine, reqQueue, respQueue := newTestEngine(t)
	go engine.Run()
	defer engine.Stop()

	frame, err := protocol.Pack(protocol.RouteReq, 11, []byte(`{"msisdn":"+14085551234"}`), reqQueue.MsgSize())
	if err != nil {
		t.Fatalf("Pack error:%s", err.Error())
	}
	frame[0] ^= 0xff
	if err := reqQueue.Send(frame, 0); err != nil {
		t.Fatalf("Send error:%s", err.Error())
	}
	// dropped on magic check, and the loop keeps serving
	testNoResponse(t, respQueue)

	testSendRequest(t, reqQueue, 12, `{"msisdn":"+14085551234"}`)
	resp := testRecvResponse(t, respQueue, 12)
	if resp.Status != protocol.StatusOK {
		t.Fatalf("engine should survive a bad frame,got %s", resp.Status)
	}
}

func TestEngineStop(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	done := make(chan struct{})
	go func() {
		engine.Run()
		close(done)
	}()

	engine.Stop()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("engine did not stop")
	}
}
