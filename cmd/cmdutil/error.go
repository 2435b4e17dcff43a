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

package cmdutil

import (
	"fmt"
	"os"

	"github.com/golang/glog"
)

const (
	ExitSuccess = iota
	ExitError
	ExitBadArgs
	ExitBadConfig
)

func ExitWithError(code int, err error) {
	fmt.Fprintln(os.Stderr, "Error: ", err)
	glog.Flush()
	os.Exit(code)
}
