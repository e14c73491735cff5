// Copyright 2024 StatsFlow Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"fmt"
	"runtime"
)

// GlobalConfig represents global configurations of the plugin system.
type GlobalConfig struct {
	InputIntervalMs        int
	AggregateIntervalMs    int
	FlushIntervalMs        int
	DefaultRecordQueueSize int
	DefaultGroupQueueSize  int
	Tags                   map[string]string
	// Directory to store statsflow data, such as checkpoints.
	StatsFlowDataDir string
	// Directory to store statsflow logs.
	StatsFlowLogDir string
	Hostname        string
	DelayStopSec    int
}

// StatsFlowGlobalConfig is the singleton instance of GlobalConfig.
var StatsFlowGlobalConfig = newGlobalConfig()

var BaseVersion = "0.1.0" // overwritten through ldflags at compile time
var UserAgent = fmt.Sprintf("statsflow/%v (%v)", BaseVersion, runtime.GOOS)

func newGlobalConfig() (cfg GlobalConfig) {
	cfg = GlobalConfig{
		InputIntervalMs:        1000,
		AggregateIntervalMs:    3000,
		FlushIntervalMs:        3000,
		DefaultRecordQueueSize: 1000,
		DefaultGroupQueueSize:  4,
		StatsFlowDataDir:       "./data/",
		StatsFlowLogDir:        "./log/",
		DelayStopSec:           300,
	}
	return
}
