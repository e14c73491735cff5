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

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/statsflow/statsflow/pkg/logger"
	"github.com/statsflow/statsflow/plugin_main/flags"
	"github.com/statsflow/statsflow/pluginmanager"
	_ "github.com/statsflow/statsflow/plugins/all"
)

func main() {
	flag.Parse()
	logger.Init()
	defer logger.Flush()

	fmt.Println("cpu num:", runtime.NumCPU(), " GOMAXPROCS:", runtime.GOMAXPROCS(0))

	if err := pluginmanager.Init(); err != nil {
		logger.Error(context.Background(), "START_PLUGIN_ALARM", "init plugin manager error", err)
		return
	}

	name, content, yamlFormat, err := flags.LoadConfig()
	if err != nil {
		logger.Error(context.Background(), "START_PLUGIN_ALARM", "load config error", err)
		return
	}
	if yamlFormat {
		err = pluginmanager.LoadPipelineConfigYAML(*flags.PipelineName, name, []byte(content))
	} else {
		err = pluginmanager.LoadPipelineConfig(*flags.PipelineName, name, content)
	}
	if err != nil {
		logger.Error(context.Background(), "START_PLUGIN_ALARM", "config", name, "start fail, error", err)
		return
	}
	if err = pluginmanager.Start(name); err != nil {
		logger.Error(context.Background(), "START_PLUGIN_ALARM", "config", name, "start fail, error", err)
		return
	}

	// handle the first shutdown signal gracefully
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	<-shutdown
	logger.Info(context.Background(), "########################## exit process begin ##########################")
	_ = pluginmanager.StopAll(true)
	logger.Info(context.Background(), "########################## exit process done ##########################")
}
