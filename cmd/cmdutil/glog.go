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
	"flag"
	"os"
)

// InitGlog points glog at dir, or stderr when dir is empty, and turns
// on V(1) debug logging when debug is set. glog reads stdlib flags, so
// the flag set gets parsed here once, before any logging happens.
func InitGlog(dir string, debug bool) error {
	if !flag.Parsed() {
		flag.CommandLine.Parse([]string{})
	}
	if len(dir) == 0 {
		flag.Set("logtostderr", "true")
	} else {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return err
		}
		flag.Set("log_dir", dir)
	}
	if debug {
		flag.Set("v", "1")
	}
	return nil
}
