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
	"errors"
	"time"
)

var (
	// ErrWouldBlock reports a full queue on send or an empty queue on
	// receive when the queue is nonblocking.
	ErrWouldBlock = errors.New("ipc: operation would block")

	// ErrTimeout reports an expired bounded receive.
	ErrTimeout = errors.New("ipc: operation timed out")

	ErrClosed         = errors.New("ipc: queue is closed")
	ErrMsgTooLarge    = errors.New("ipc: message exceeds queue message size")
	ErrBufferTooSmall = errors.New("ipc: receive buffer smaller than queue message size")
)

// Config describes one named, bounded, message-oriented channel.
type Config struct {
	// host namespace name, e.g. /tr_mq_req
	Name string

	// maximum queued messages
	MaxMsgs int

	// maximum message size; must fit header+payload
	MsgSize int

	// create the channel instead of attaching to an existing one
	Create bool

	// fail sends/receives with ErrWouldBlock instead of blocking
	Nonblock bool
}

// Queue is a typed, bounded, message-oriented channel. Implementations
// are safe for concurrent use.
type Queue interface {
	// Send enqueues one whole message. Outcomes: nil (delivered),
	// ErrWouldBlock (nonblocking and full), or a fatal error.
	Send(p []byte, prio uint) error

	// Receive dequeues one whole message into p, which must be at
	// least MsgSize bytes. Outcomes: byte count, ErrWouldBlock, or a
	// fatal error.
	Receive(p []byte) (int, error)

	// ReceiveTimeout blocks at most d, then returns ErrTimeout so the
	// caller can re-check its run flag.
	ReceiveTimeout(p []byte, d time.Duration) (int, error)

	// Close releases the handle.
	Close() error

	// Unlink removes the name from the host namespace. Unlinking a
	// name that is already gone is a no-op.
	Unlink() error

	MsgSize() int
}
