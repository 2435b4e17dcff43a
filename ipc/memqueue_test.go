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

package ipc

import (
	"bytes"
	"testing"
	"time"
)

func newTestQueue(maxMsgs int, nonblock bool) Queue {
	return NewMemQueue(Config{
		Name:     "/test_mq",
		MaxMsgs:  maxMsgs,
		MsgSize:  64,
		Nonblock: nonblock,
	})
}

func TestMemQueueRoundTrip(t *testing.T) {
	q := newTestQueue(4, false)
	defer q.Close()

	msgs := [][]byte{[]byte("one"), []byte("two"), {}, []byte("four")}
	for _, m := range msgs {
		if err := q.Send(m, 0); err != nil {
			t.Fatalf("Send error:%s", err.Error())
		}
	}
	buf := make([]byte, q.MsgSize())
	for _, m := range msgs {
		n, err := q.Receive(buf)
		if err != nil {
			t.Fatalf("Receive error:%s", err.Error())
		}
		// message boundaries are preserved, one send is one receive
		if !bytes.Equal(buf[:n], m) {
			t.Fatalf("message mismatch,expect %q,got %q", m, buf[:n])
		}
	}
}

func TestMemQueueWouldBlockOnFull(t *testing.T) {
	q := newTestQueue(1, true)
	defer q.Close()

	if err := q.Send([]byte("a"), 0); err != nil {
		t.Fatalf("Send error:%s", err.Error())
	}
	if err := q.Send([]byte("b"), 0); err != ErrWouldBlock {
		t.Fatalf("expect ErrWouldBlock,got %v", err)
	}
}

func TestMemQueueWouldBlockOnEmpty(t *testing.T) {
	q := newTestQueue(1, true)
	defer q.Close()

	buf := make([]byte, q.MsgSize())
	if _, err := q.Receive(buf); err != ErrWouldBlock {
		t.Fatalf("expect ErrWouldBlock,got %v", err)
	}
}

func TestMemQueueReceiveTimeout(t *testing.T) {
	q := newTestQueue(1, false)
	defer q.Close()

	buf := make([]byte, q.MsgSize())
	start := time.Now()
	if _, err := q.ReceiveTimeout(buf, 20*time.Millisecond); err != ErrTimeout {
		t.Fatalf("expect ErrTimeout,got %v", err)
	}
	if time.Since(start) < 20*time.Millisecond {
		t.Fatalf("ReceiveTimeout returned before the bound")
	}
}

func TestMemQueueMsgTooLarge(t *testing.T) {
	q := newTestQueue(1, false)
	defer q.Close()

	big := make([]byte, q.MsgSize()+1)
	if err := q.Send(big, 0); err != ErrMsgTooLarge {
		t.Fatalf("expect ErrMsgTooLarge,got %v", err)
	}
}

func TestMemQueueBufferTooSmall(t *testing.T) {
	q := newTestQueue(1, false)
	defer q.Close()

	small := make([]byte, q.MsgSize()-1)
	if _, err := q.Receive(small); err != ErrBufferTooSmall {
		t.Fatalf("expect ErrBufferTooSmall,got %v", err)
	}
}

func TestMemQueueClose(t *testing.T) {
	q := newTestQueue(1, false)
	if err := q.Close(); err != nil {
		t.Fatalf("Close error:%s", err.Error())
	}
	// double close and unlink are no-ops
	if err := q.Close(); err != nil {
		t.Fatalf("second Close error:%s", err.Error())
	}
	if err := q.Unlink(); err != nil {
		t.Fatalf("Unlink error:%s", err.Error())
	}

	if err := q.Send([]byte("x"), 0); err != ErrClosed {
		t.Fatalf("expect ErrClosed,got %v", err)
	}
	buf := make([]byte, q.MsgSize())
	if _, err := q.Receive(buf); err != ErrClosed {
		t.Fatalf("expect ErrClosed,got %v", err)
	}
}

func TestMemQueueSenderDoesNotAliasCaller(t *testing.T) {
	q := newTestQueue(1, false)
	defer q.Close()

	msg := []byte("stable")
	if err := q.Send(msg, 0); err != nil {
		t.Fatalf("Send error:%s", err.Error())
	}
	copy(msg, "mutate")

	buf := make([]byte, q.MsgSize())
	n, err := q.Receive(buf)
	if err != nil {
		t.Fatalf("Receive error:%s", err.Error())
	}
	if string(buf[:n]) != "stable" {
		t.Fatalf("queued message aliases the caller buffer:%q", buf[:n])
	}
}
