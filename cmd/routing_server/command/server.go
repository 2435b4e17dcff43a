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

package command

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/coreos/etcd/pkg/osutil"
	"github.com/golang/glog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Frederick75/Carrier-Grade-Telecom-Signalling-Routing-Server/cmd/cmdutil"
	"github.com/Frederick75/Carrier-Grade-Telecom-Signalling-Routing-Server/conf"
	"github.com/Frederick75/Carrier-Grade-Telecom-Signalling-Routing-Server/ipc"
	"github.com/Frederick75/Carrier-Grade-Telecom-Signalling-Routing-Server/server"
	"github.com/Frederick75/Carrier-Grade-Telecom-Signalling-Routing-Server/version"
)

var ConfigFile string

func StartFunc(cmd *cobra.Command, args []string) {

	if len(ConfigFile) != 0 {
		viper.SetConfigFile(ConfigFile)
		if err := viper.ReadInConfig(); err != nil {
			cmdutil.ExitWithError(cmdutil.ExitError, err)
		}
	}

	if err := cmdutil.InitGlog(viper.GetString("glog-dir"), viper.GetBool("debug")); err != nil {
		cmdutil.ExitWithError(cmdutil.ExitError, err)
	}
	defer glog.Flush()

	host := conf.DefaultListenHost
	port := conf.DefaultListenPort
	if len(viper.GetString("listen-host")) != 0 {
		host = viper.GetString("listen-host")
	}
	if viper.GetInt("listen-port") != 0 {
		port = viper.GetInt("listen-port")
	}
	if len(args) >= 1 {
		host = args[0]
	}
	if len(args) >= 2 {
		p, err := strconv.Atoi(args[1])
		if err != nil || p <= 0 || p > 65535 {
			cmdutil.ExitWithError(cmdutil.ExitBadArgs, fmt.Errorf("port must be 1..65535, got %q", args[1]))
		}
		port = p
	}

	serverConfig := server.NewServerConfig()
	serverConfig.ClientListenerAddress = net.JoinHostPort(host, strconv.Itoa(port))
	serverConfig.MetricsListenerAddress = viper.GetString("listen-metrics-url")
	if viper.GetInt("queue-msg-size") != 0 {
		serverConfig.QueueMsgSize = viper.GetInt("queue-msg-size")
	}
	if viper.GetInt("pending-limit") != 0 {
		serverConfig.PendingLimit = viper.GetInt("pending-limit")
	}
	if viper.GetInt64("request-timeout") != 0 {
		serverConfig.RequestTimeout = time.Duration(viper.GetInt64("request-timeout")) * time.Millisecond
	}
	if viper.GetInt("send-retry-attempts") != 0 {
		serverConfig.SendRetryAttempts = viper.GetInt("send-retry-attempts")
	}
	if viper.GetInt64("send-retry-interval") != 0 {
		serverConfig.SendRetryInterval = time.Duration(viper.GetInt64("send-retry-interval")) * time.Microsecond
	}
	if viper.GetInt("workers") != 0 {
		serverConfig.WorkerCount = viper.GetInt("workers")
	}
	if viper.GetInt("conn-out-queue-size") != 0 {
		serverConfig.ConnOutQueueSize = viper.GetInt("conn-out-queue-size")
	}
	if viper.GetInt64("connections-max-idle") != 0 {
		serverConfig.ConnectionsMaxIdle = time.Duration(viper.GetInt64("connections-max-idle")) * time.Millisecond
	}

	if err := serverConfig.ValidateServerConfig(); err != nil {
		cmdutil.ExitWithError(cmdutil.ExitBadConfig, err)
	}

	reqName := conf.DefaultReqQueueName
	respName := conf.DefaultRespQueueName
	if len(viper.GetString("req-queue-name")) != 0 {
		reqName = viper.GetString("req-queue-name")
	}
	if len(viper.GetString("resp-queue-name")) != 0 {
		respName = viper.GetString("resp-queue-name")
	}
	maxMsgs := conf.DefaultQueueMaxMsgs
	if viper.GetInt("queue-max-msgs") != 0 {
		maxMsgs = viper.GetInt("queue-max-msgs")
	}

	// the engine creates the queues, the server only attaches.
	// nonblock helps under load: the workers retry with backoff and
	// the dispatcher polls.
	reqQueue, err := ipc.OpenPosixMq(ipc.Config{
		Name:     reqName,
		MaxMsgs:  maxMsgs,
		MsgSize:  serverConfig.QueueMsgSize,
		Create:   false,
		Nonblock: true,
	})
	if err != nil {
		cmdutil.ExitWithError(cmdutil.ExitError, err)
	}
	respQueue, err := ipc.OpenPosixMq(ipc.Config{
		Name:     respName,
		MaxMsgs:  maxMsgs,
		MsgSize:  serverConfig.QueueMsgSize,
		Create:   false,
		Nonblock: true,
	})
	if err != nil {
		reqQueue.Close()
		cmdutil.ExitWithError(cmdutil.ExitError, err)
	}

	routingServer, err := server.NewRoutingServer(serverConfig, reqQueue, respQueue)
	if err != nil {
		cmdutil.ExitWithError(cmdutil.ExitBadConfig, err)
	}

	glog.Infof("[server.go-StartFunc]: routing server version %s", version.Version)

	if err := routingServer.Start(); err != nil {
		cmdutil.ExitWithError(cmdutil.ExitError, err)
	}

	osutil.RegisterInterruptHandler(func() {
		routingServer.Stop()
		reqQueue.Close()
		respQueue.Close()
	})
	osutil.HandleInterrupts()

	if err := routingServer.Serve(); err != nil {
		cmdutil.ExitWithError(cmdutil.ExitError, err)
	}
	glog.Flush()
}
