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
	"net/http"
	"net/url"
	"time"

	"github.com/coreos/etcd/pkg/osutil"
	"github.com/golang/glog"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Frederick75/Carrier-Grade-Telecom-Signalling-Routing-Server/alrstore"
	"github.com/Frederick75/Carrier-Grade-Telecom-Signalling-Routing-Server/cmd/cmdutil"
	"github.com/Frederick75/Carrier-Grade-Telecom-Signalling-Routing-Server/conf"
	"github.com/Frederick75/Carrier-Grade-Telecom-Signalling-Routing-Server/flxengine"
	"github.com/Frederick75/Carrier-Grade-Telecom-Signalling-Routing-Server/ipc"
	"github.com/Frederick75/Carrier-Grade-Telecom-Signalling-Routing-Server/version"
)

var (
	ConfigFile string
	AlrDBDir   string
)

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

	reqName := conf.DefaultReqQueueName
	respName := conf.DefaultRespQueueName
	if len(viper.GetString("req-queue-name")) != 0 {
		reqName = viper.GetString("req-queue-name")
	}
	if len(viper.GetString("resp-queue-name")) != 0 {
		respName = viper.GetString("resp-queue-name")
	}
	maxMsgs := conf.DefaultQueueMaxMsgs
	msgSize := conf.DefaultQueueMsgSize
	if viper.GetInt("queue-max-msgs") != 0 {
		maxMsgs = viper.GetInt("queue-max-msgs")
	}
	if viper.GetInt("queue-msg-size") != 0 {
		msgSize = viper.GetInt("queue-msg-size")
	}

	// Engine creates queues (server opens without create). A failed
	// create aborts the process, nothing can run without the bus.
	reqQueue, err := ipc.OpenPosixMq(ipc.Config{
		Name:    reqName,
		MaxMsgs: maxMsgs,
		MsgSize: msgSize,
		Create:  true,
	})
	if err != nil {
		cmdutil.ExitWithError(cmdutil.ExitError, err)
	}
	respQueue, err := ipc.OpenPosixMq(ipc.Config{
		Name:    respName,
		MaxMsgs: maxMsgs,
		MsgSize: msgSize,
		Create:  true,
	})
	if err != nil {
		reqQueue.Close()
		reqQueue.Unlink()
		cmdutil.ExitWithError(cmdutil.ExitError, err)
	}

	var alr alrstore.Store
	if len(AlrDBDir) != 0 {
		boltStore, err := alrstore.NewBoltStore(&alrstore.BoltStoreConfig{Dir: AlrDBDir})
		if err != nil {
			cmdutil.ExitWithError(cmdutil.ExitError, err)
		}
		alr = boltStore
	} else {
		alr = alrstore.NewMemStore()
	}

	engineConfig := flxengine.NewEngineConfig()
	if viper.GetInt64("recv-timeout") != 0 {
		engineConfig.RecvTimeout = time.Duration(viper.GetInt64("recv-timeout")) * time.Millisecond
	}

	engine, err := flxengine.NewEngine(engineConfig, alr, reqQueue, respQueue)
	if err != nil {
		cmdutil.ExitWithError(cmdutil.ExitBadConfig, err)
	}

	startMetricsListener()

	glog.Infof("[engine.go-StartFunc]: FLX engine version %s. MQ REQ=%s RESP=%s", version.Version, reqName, respName)

	osutil.RegisterInterruptHandler(func() {
		engine.Stop()
		reqQueue.Close()
		respQueue.Close()
		// either side may unlink, a second unlink is a no-op
		reqQueue.Unlink()
		respQueue.Unlink()
		alr.Close()
		glog.Flush()
	})
	osutil.HandleInterrupts()

	if err := engine.Run(); err != nil {
		cmdutil.ExitWithError(cmdutil.ExitError, err)
	}
	glog.Flush()
}

func startMetricsListener() {
	metricsURL := viper.GetString("listen-metrics-url")
	if len(metricsURL) == 0 {
		return
	}
	u, err := url.Parse(metricsURL)
	if err != nil {
		cmdutil.ExitWithError(cmdutil.ExitBadConfig, err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	glog.Info("listening for metrics requests on ", u.Host)
	go func() {
		if err := http.ListenAndServe(u.Host, mux); err != nil {
			glog.Errorf("[engine.go-startMetricsListener]:metrics listener error:%s", err.Error())
		}
	}()
}
