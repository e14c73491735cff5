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

package pluginmanager

import (
	"context"
	"errors"
	"runtime"
	"sync"

	"github.com/statsflow/statsflow/pkg/logger"
)

// ErrConfigNotFound is returned when a start request names an unloaded
// config.
var ErrConfigNotFound = errors.New("config not found")

// PipelineConfigs holds every loaded pipeline by config name. Exported so
// that tests of the main package can reference them.
var PipelineConfigs = make(map[string]*PipelineConfig)

var pluginManagerMutex sync.Mutex

func panicRecover(pluginType string) {
	if err := recover(); err != nil {
		trace := make([]byte, 2048)
		runtime.Stack(trace, true)
		logger.Error(context.Background(), "PLUGIN_RUNTIME_ALARM", "plugin", pluginType, "panicked", err, "stack", string(trace))
	}
}

// Init initializes the plugin manager.
func Init() error {
	return CheckPointManager.Init()
}

// Start starts the named pipeline, or every loaded pipeline when name is
// empty.
func Start(name string) error {
	pluginManagerMutex.Lock()
	defer pluginManagerMutex.Unlock()
	if name != "" {
		if pc, ok := PipelineConfigs[name]; ok {
			pc.Start()
			return nil
		}
		return ErrConfigNotFound
	}
	for _, pc := range PipelineConfigs {
		pc.Start()
	}
	return nil
}

// StopAll stops every running pipeline; exitFlag marks process exit so
// flushers can release buffered data urgently.
func StopAll(exitFlag bool) error {
	pluginManagerMutex.Lock()
	defer pluginManagerMutex.Unlock()
	for name, pc := range PipelineConfigs {
		if err := pc.Stop(exitFlag); err != nil {
			logger.Error(context.Background(), "CONFIG_STOP_ALARM", "stop config error", name, err)
		}
		delete(PipelineConfigs, name)
	}
	if exitFlag {
		CheckPointManager.Close()
		logger.Flush()
	}
	return nil
}
