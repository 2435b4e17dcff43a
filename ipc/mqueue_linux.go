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

//go:build linux

package ipc

import (
	"sync"
	"time"
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// x/sys/unix carries the mq_* syscall numbers but no wrappers, so the
// adapter goes through Syscall6 directly. mqd_t is a file descriptor on
// linux; mq_close(3) is close(2).
type mqAttr struct {
	Flags   int64
	Maxmsg  int64
	Msgsize int64
	Curmsgs int64
	_       [4]int64
}

type posixMq struct {
	mu     sync.Mutex
	fd     int
	cfg    Config
	closed bool
}

// OpenPosixMq acquires a POSIX message queue per cfg. With cfg.Create
// the queue is created with cfg.MaxMsgs/cfg.MsgSize; otherwise the
// attach fails if the name does not exist.
func OpenPosixMq(cfg Config) (Queue, error) {
	namep, err := unix.BytePtrFromString(cfg.Name)
	if err != nil {
		return nil, errors.Wrapf(err, "mq name %q", cfg.Name)
	}

	oflag := unix.O_RDWR
	if cfg.Create {
		oflag |= unix.O_CREAT
	}
	if cfg.Nonblock {
		oflag |= unix.O_NONBLOCK
	}

	var attrp unsafe.Pointer
	if cfg.Create {
		attr := &mqAttr{
			Maxmsg:  int64(cfg.MaxMsgs),
			Msgsize: int64(cfg.MsgSize),
		}
		if cfg.Nonblock {
			attr.Flags = unix.O_NONBLOCK
		}
		attrp = unsafe.Pointer(attr)
	}

	fd, _, errno := unix.Syscall6(unix.SYS_MQ_OPEN,
		uintptr(unsafe.Pointer(namep)), uintptr(oflag), uintptr(0o660),
		uintptr(attrp), 0, 0)
	if errno != 0 {
		return nil, errors.Wrapf(errno, "mq_open failed for %s", cfg.Name)
	}

	return &posixMq{fd: int(fd), cfg: cfg}, nil
}

func (q *posixMq) handle() (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return -1, ErrClosed
	}
	return q.fd, nil
}

func (q *posixMq) Send(p []byte, prio uint) error {
	fd, err := q.handle()
	if err != nil {
		return err
	}
	if len(p) > q.cfg.MsgSize {
		return ErrMsgTooLarge
	}
	var ptr unsafe.Pointer
	if len(p) > 0 {
		ptr = unsafe.Pointer(&p[0])
	}
	for {
		// NULL abs_timeout makes mq_timedsend behave as mq_send
		_, _, errno := unix.Syscall6(unix.SYS_MQ_TIMEDSEND,
			uintptr(fd), uintptr(ptr), uintptr(len(p)), uintptr(prio), 0, 0)
		switch errno {
		case 0:
			return nil
		case unix.EINTR:
			continue
		case unix.EAGAIN:
			return ErrWouldBlock
		default:
			return errors.Wrapf(errno, "mq_send failed for %s", q.cfg.Name)
		}
	}
}

func (q *posixMq) Receive(p []byte) (int, error) {
	return q.receive(p, nil)
}

func (q *posixMq) ReceiveTimeout(p []byte, d time.Duration) (int, error) {
	// mq_timedreceive takes an absolute CLOCK_REALTIME deadline
	ts := unix.NsecToTimespec(time.Now().Add(d).UnixNano())
	return q.receive(p, &ts)
}

func (q *posixMq) receive(p []byte, ts *unix.Timespec) (int, error) {
	fd, err := q.handle()
	if err != nil {
		return 0, err
	}
	if len(p) < q.cfg.MsgSize {
		return 0, ErrBufferTooSmall
	}
	var tsp unsafe.Pointer
	if ts != nil {
		tsp = unsafe.Pointer(ts)
	}
	for {
		n, _, errno := unix.Syscall6(unix.SYS_MQ_TIMEDRECEIVE,
			uintptr(fd), uintptr(unsafe.Pointer(&p[0])), uintptr(len(p)),
			0, uintptr(tsp), 0)
		switch errno {
		case 0:
			return int(n), nil
		case unix.EINTR:
			continue
		case unix.EAGAIN:
			return 0, ErrWouldBlock
		case unix.ETIMEDOUT:
			return 0, ErrTimeout
		default:
			return 0, errors.Wrapf(errno, "mq_receive failed for %s", q.cfg.Name)
		}
	}
}

func (q *posixMq) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil
	}
	q.closed = true
	return unix.Close(q.fd)
}

func (q *posixMq) Unlink() error {
	namep, err := unix.BytePtrFromString(q.cfg.Name)
	if err != nil {
		return err
	}
	_, _, errno := unix.Syscall(unix.SYS_MQ_UNLINK,
		uintptr(unsafe.Pointer(namep)), 0, 0)
	if errno != 0 && errno != unix.ENOENT {
		return errors.Wrapf(errno, "mq_unlink failed for %s", q.cfg.Name)
	}
	return nil
}

func (q *posixMq) MsgSize() int {
	return q.cfg.MsgSize
}
