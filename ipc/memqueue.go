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
	"sync"
	"time"
)

// memQueue is the channel-backed Queue. Same bounded, message-oriented
// semantics as the POSIX adapter, minus the host namespace; priorities
// are accepted and ignored. Single-process deployments and tests use it
// in place of the kernel queue.
type memQueue struct {
	cfg       Config
	ch        chan []byte
	closeCh   chan struct{}
	closeOnce sync.Once
}

func NewMemQueue(cfg Config) Queue {
	return &memQueue{
		cfg:     cfg,
		ch:      make(chan []byte, cfg.MaxMsgs),
		closeCh: make(chan struct{}),
	}
}

func (q *memQueue) Send(p []byte, prio uint) error {
	if len(p) > q.cfg.MsgSize {
		return ErrMsgTooLarge
	}
	msg := make([]byte, len(p))
	copy(msg, p)

	// a closed queue refuses sends even when the buffer has room
	select {
	case <-q.closeCh:
		return ErrClosed
	default:
	}
	if q.cfg.Nonblock {
		select {
		case <-q.closeCh:
			return ErrClosed
		case q.ch <- msg:
			return nil
		default:
			return ErrWouldBlock
		}
	}
	select {
	case <-q.closeCh:
		return ErrClosed
	case q.ch <- msg:
		return nil
	}
}

func (q *memQueue) Receive(p []byte) (int, error) {
	if len(p) < q.cfg.MsgSize {
		return 0, ErrBufferTooSmall
	}
	if q.cfg.Nonblock {
		select {
		case msg := <-q.ch:
			return copy(p, msg), nil
		case <-q.closeCh:
			return 0, ErrClosed
		default:
			return 0, ErrWouldBlock
		}
	}
	select {
	case msg := <-q.ch:
		return copy(p, msg), nil
	case <-q.closeCh:
		return 0, ErrClosed
	}
}

func (q *memQueue) ReceiveTimeout(p []byte, d time.Duration) (int, error) {
	if len(p) < q.cfg.MsgSize {
		return 0, ErrBufferTooSmall
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case msg := <-q.ch:
		return copy(p, msg), nil
	case <-q.closeCh:
		return 0, ErrClosed
	case <-t.C:
		return 0, ErrTimeout
	}
}

func (q *memQueue) Close() error {
	q.closeOnce.Do(func() { close(q.closeCh) })
	return nil
}

func (q *memQueue) Unlink() error {
	// nothing registered in a host namespace
	return nil
}

func (q *memQueue) MsgSize() int {
	return q.cfg.MsgSize
}
