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
	"bytes"
	"io"
	"net"
	"sync"
	"time"

	"github.com/golang/glog"

	"github.com/Frederick75/Carrier-Grade-Telecom-Signalling-Routing-Server/protocol"
	"github.com/Frederick75/Carrier-Grade-Telecom-Signalling-Routing-Server/server/routermetrics"
)

const (
	// bound on the blocking read so shutdown and idle get re-checked
	readPollInterval = 1 * time.Second

	writeTimeout = 5 * time.Second

	readChunkSize = 2048
)

// serverConn is one client connection: a reader goroutine splitting
// lines and handing requests off, and a writer goroutine draining the
// bounded output queue. Workers reach the connection only through
// enqueue; the socket itself is touched by the two loops alone.
type serverConn struct {
	srv *RoutingServer
	rwc net.Conn

	outCh     chan []byte
	closeCh   chan struct{}
	closeOnce sync.Once
}

func newServerConn(srv *RoutingServer, rwc net.Conn) *serverConn {
	return &serverConn{
		srv:     srv,
		rwc:     rwc,
		outCh:   make(chan []byte, srv.cfg.ConnOutQueueSize),
		closeCh: make(chan struct{}),
	}
}

// close marks the connection dead. The socket itself is closed by the
// writer after it flushed what was already queued.
func (c *serverConn) close() {
	c.closeOnce.Do(func() {
		close(c.closeCh)
		routermetrics.MetricsRsOnlineConnections.Dec()
	})
}

// enqueue hands one response body to the writer; the trailing newline
// is added on the wire. Reports false when the connection is closed or
// its output queue is full (client stopped reading) and the response
// was dropped.
func (c *serverConn) enqueue(line []byte) bool {
	select {
	case <-c.closeCh:
		routermetrics.MetricsRsDroppedResp.Inc()
		return false
	default:
	}
	select {
	case c.outCh <- line:
		routermetrics.MetricsRsRespTps.Inc()
		return true
	default:
		routermetrics.MetricsRsDroppedResp.Inc()
		if glog.V(1) {
			glog.Infof("D:[conn.go-enqueue]:output queue full,response dropped,conn.RemoteAddr=%s",
				c.rwc.RemoteAddr().String())
		}
		return false
	}
}

func (c *serverConn) readLoop() {
	defer c.srv.Wg.Done()
	defer c.close()

	buf := make([]byte, readChunkSize)
	var inbuf []byte
	lastActive := time.Now()

	for {
		select {
		case <-c.srv.ShutdownCh:
			return
		case <-c.closeCh:
			return
		default:
		}

		if err := c.rwc.SetReadDeadline(time.Now().Add(readPollInterval)); err != nil {
			glog.Errorf("[conn.go-readLoop]:conn SetReadDeadline error:%s", err.Error())
			return
		}

		n, err := c.rwc.Read(buf)
		if n > 0 {
			lastActive = time.Now()
			inbuf = append(inbuf, buf[:n]...)
			inbuf = c.splitLines(inbuf)
		}
		if err != nil {
			if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
				if time.Since(lastActive) > c.srv.cfg.ConnectionsMaxIdle {
					glog.Infof("[conn.go-readLoop]:read time out,conn.RemoteAddr=%s", c.rwc.RemoteAddr().String())
					return
				}
				continue
			}
			if err == io.EOF {
				if glog.V(1) {
					glog.Infof("D:[conn.go-readLoop]:client closed this connection,conn.RemoteAddr=%s",
						c.rwc.RemoteAddr().String())
				}
				return
			}
			select {
			case <-c.closeCh:
			default:
				glog.Errorf("[conn.go-readLoop]:read error:%s", err.Error())
			}
			return
		}
	}
}

// splitLines consumes complete lines from inbuf and returns the
// unconsumed tail. Trailing carriage returns are stripped, empty lines
// skipped.
func (c *serverConn) splitLines(inbuf []byte) []byte {
	for {
		i := bytes.IndexByte(inbuf, '\n')
		if i < 0 {
			return inbuf
		}
		line := inbuf[:i]
		inbuf = inbuf[i+1:]
		for len(line) > 0 && (line[len(line)-1] == '\r' || line[len(line)-1] == '\n') {
			line = line[:len(line)-1]
		}
		if len(line) == 0 {
			continue
		}
		// tasks outlive this buffer
		stable := make([]byte, len(line))
		copy(stable, line)
		c.acceptLine(stable)
	}
}

// acceptLine is the request path per complete line: backpressure
// check, correlation id, pending slot, worker handoff. It never blocks
// on IPC; the handoff does block while the bounded task channel is
// full, until a worker frees a place or the server shuts down.
func (c *serverConn) acceptLine(line []byte) {
	routermetrics.MetricsRsReqTps.Inc()

	if c.srv.pending.Size() >= c.srv.cfg.PendingLimit {
		routermetrics.MetricsRsBusyTps.Inc()
		c.enqueue(protocol.ServerErrorLine(protocol.StatusBusy, protocol.ReasonOverload))
		return
	}

	corrID := c.srv.idGen.Next()
	respCh := c.srv.pending.Register(corrID)
	routermetrics.MetricsRsPendingSize.Set(float64(c.srv.pending.Size()))

	t := &task{
		conn:   c,
		corrID: corrID,
		respCh: respCh,
		line:   line,
		start:  time.Now(),
	}
	select {
	case c.srv.taskCh <- t:
	case <-c.srv.ShutdownCh:
		c.srv.pending.Trigger(corrID, nil)
		c.enqueue(protocol.ServerErrorLine(protocol.StatusError, protocol.ReasonServerShutdown))
	}
}

func (c *serverConn) writeLoop() {
	defer c.srv.Wg.Done()
	defer c.rwc.Close()
	defer c.close()
	for {
		select {
		case <-c.closeCh:
			// flush what the workers already enqueued
			for {
				select {
				case line := <-c.outCh:
					if !c.write(line) {
						return
					}
				default:
					return
				}
			}
		case line := <-c.outCh:
			if !c.write(line) {
				c.close()
				return
			}
		}
	}
}

func (c *serverConn) write(line []byte) bool {
	if err := c.rwc.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return false
	}
	// line bodies are never shared, the newline can go in place
	if _, err := c.rwc.Write(append(line, '\n')); err != nil {
		select {
		case <-c.closeCh:
		default:
			glog.Errorf("[conn.go-write]:write error:%s", err.Error())
		}
		return false
	}
	return true
}
