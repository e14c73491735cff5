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

package flags

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
)

const defaultPluginConfig = `{"inputs":[{"type":"metric_mock","detail":{"Tags":{"source":"default"},"OpenWave":true}}],"flushers":[{"type":"flusher_stdout","detail":{"OnlyStdout":true}}]}`

// flags used to control statsflow.
var (
	PluginConfig = flag.String("plugin", "./plugin.json", "pipeline config file, json or yaml.")
	ConfigName   = flag.String("config-name", "default", "name of the loaded pipeline config.")
	PipelineName = flag.String("pipeline", "statsflow", "pipeline name reported in logs.")
)

// LoadConfig reads the pipeline config file. A missing file falls back to
// the built-in mock config so a bare binary still produces output.
func LoadConfig() (name, content string, yamlFormat bool, err error) {
	name = *ConfigName
	data, errRead := os.ReadFile(*PluginConfig)
	if errRead != nil {
		return name, defaultPluginConfig, false, nil
	}
	switch filepath.Ext(*PluginConfig) {
	case ".yaml", ".yml":
		return name, string(data), true, nil
	default:
		if !json.Valid(data) {
			return "", "", false, fmt.Errorf("illegal input plugin config: %s", *PluginConfig)
		}
		return name, string(data), false, nil
	}
}
