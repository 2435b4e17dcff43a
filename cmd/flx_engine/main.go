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

package main

import (
	"github.com/spf13/cobra"

	"github.com/Frederick75/Carrier-Grade-Telecom-Signalling-Routing-Server/cmd/cmdutil"
	"github.com/Frederick75/Carrier-Grade-Telecom-Signalling-Routing-Server/cmd/flx_engine/command"
)

const (
	cliName        = "flx_engine"
	cliDescription = "FLX routing-decision engine."
)

var (
	rootCmd = &cobra.Command{
		Use:   cliName,
		Short: cliDescription,
		Args:  cobra.NoArgs,
		Run:   command.StartFunc,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&command.ConfigFile, "config", "", "optional config file with the bus tunables")
	rootCmd.PersistentFlags().StringVar(&command.AlrDBDir, "alr-db", "", "optional boltdb dir for the subscriber registry, defaults to the built-in memory seed")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		cmdutil.ExitWithError(cmdutil.ExitError, err)
	}
}
