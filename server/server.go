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
	"io/ioutil"
	defaultLog "log"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/coreos/etcd/pkg/idutil"
	"github.com/golang/glog"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Frederick75/Carrier-Grade-Telecom-Signalling-Routing-Server/ipc"
	"github.com/Frederick75/Carrier-Grade-Telecom-Signalling-Routing-Server/pkg/wait"
	"github.com/Frederick75/Carrier-Grade-Telecom-Signalling-Routing-Server/server/routermetrics"
)

// RoutingServer is the TCP front end: accept loop, per-connection
// reader/writer pipelines, a fixed worker pool driving requests through
// the bus, and one response dispatcher completing pending slots.
type RoutingServer struct {
	cfg *ServerConfig

	Ln *net.TCPListener

	// listen url for metrics
	MetricsListener net.Listener
	metricsClose    func() error

	reqQueue  ipc.Queue
	respQueue ipc.Queue

	// pending-transaction table, corr_id -> one-shot slot
	pending wait.Wait

	// correlation id generator, strictly increasing in-process
	idGen *idutil.Generator

	taskCh chan *task

	// chan for shutdown
	ShutdownCh chan struct{}

	// use to stop method to close once
	closeOnce sync.Once

	// wait group for shutdown
	Wg sync.WaitGroup
}

func NewRoutingServer(cfg *ServerConfig, reqQueue, respQueue ipc.Queue) (*RoutingServer, error) {
	if err := cfg.ValidateServerConfig(); err != nil {
		return nil, err
	}
	return &RoutingServer{
		cfg:        cfg,
		reqQueue:   reqQueue,
		respQueue:  respQueue,
		pending:    wait.NewWithStats(routermetrics.MetricsRsPendingWait, "route"),
		idGen:      idutil.NewGenerator(0, time.Now()),
		taskCh:     make(chan *task, cfg.WorkerCount*2),
		ShutdownCh: make(chan struct{}),
	}, nil
}

// Start binds the client listener, starts the metrics listener when
// configured, and launches the dispatcher and the worker pool. It does
// not accept; Serve does.
func (s *RoutingServer) Start() error {
	addr, err := net.ResolveTCPAddr("tcp", s.cfg.ClientListenerAddress)
	if err != nil {
		glog.Errorf("[server.go-Start]:ResolveTCPAddr error,addr=%s,error=%s", s.cfg.ClientListenerAddress, err.Error())
		return err
	}

	ln, err := net.ListenTCP("tcp", addr)
	if err != nil {
		glog.Errorf("[server.go-Start]:ListenTCP error,error=%s", err.Error())
		return err
	}
	s.Ln = ln

	if err := s.startMetricsListener(); err != nil {
		s.Ln.Close()
		return err
	}

	s.Wg.Add(1)
	go s.dispatchLoop()

	for i := 0; i < s.cfg.WorkerCount; i++ {
		s.Wg.Add(1)
		go s.workerLoop()
	}

	glog.Infof("[server.go-Start]: routing server start,addr=%s,workers=%d,pendingLimit=%d,requestTimeout=%.0fms",
		s.cfg.ClientListenerAddress, s.cfg.WorkerCount, s.cfg.PendingLimit,
		float64(s.cfg.RequestTimeout)/float64(time.Millisecond))
	return nil
}

// Serve runs the accept loop until Stop.
func (s *RoutingServer) Serve() error {
	for {
		select {
		case <-s.ShutdownCh:
			glog.Infof("[server.go-Serve]: server closed")
			return nil
		default:
			conn, err := s.Ln.Accept()
			if err != nil {
				select {
				case <-s.ShutdownCh:
					glog.Infof("[server.go-Serve]: server closed")
					return nil
				default:
				}
				glog.Infof("[server.go-Serve]:listener accept failed: %v", err)
				continue
			}
			if glog.V(1) {
				glog.Infof("D:accept a connection, from %v", conn.RemoteAddr())
			}
			routermetrics.MetricsRsConnectTimes.Inc()
			routermetrics.MetricsRsOnlineConnections.Inc()

			c := newServerConn(s, conn)
			s.Wg.Add(2)
			go c.readLoop()
			go c.writeLoop()
		}
	}
}

// Stop is called from the kill signal handler. In-flight slots drain
// with a synthetic ERROR response before the workers join.
func (s *RoutingServer) Stop() {
	s.closeOnce.Do(func() {
		close(s.ShutdownCh)
		if s.Ln != nil {
			s.Ln.Close()
		}
		if s.metricsClose != nil {
			if err := s.metricsClose(); err != nil {
				glog.Warningf("can not close MetricsListener [%s]", s.cfg.MetricsListenerAddress)
			}
		}
	})
	s.Wg.Wait()
	glog.Flush()
}

func (s *RoutingServer) startMetricsListener() (err error) {

	if len(s.cfg.MetricsListenerAddress) == 0 {
		return nil
	}

	metricsListenerUrl, _ := url.Parse(s.cfg.MetricsListenerAddress)

	var metricsListener net.Listener
	if metricsListener, err = net.Listen("tcp", metricsListenerUrl.Host); err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Handler:     mux,
		ReadTimeout: 5 * time.Minute,
		ErrorLog:    defaultLog.New(ioutil.Discard, "", 0), // do not log user error
	}

	s.MetricsListener = metricsListener
	s.metricsClose = server.Close

	glog.Info("listening for metrics requests on ", metricsListenerUrl.Host)

	s.Wg.Add(1)
	go func() {
		server.Serve(metricsListener)
		s.Wg.Done()
	}()

	return nil
}
