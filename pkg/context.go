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

package pkg

import (
	"context"
)

const StatsFlowMeta MetaKey = "StatsFlowContextMeta"

type MetaKey string

// ContextMeta stores the metadata of one pipeline config and is propagated
// within context.Context so that log lines carry the owning config.
type ContextMeta struct {
	pipeline     string
	configName   string
	loggerHeader string
}

// NewContextMeta creates a ContextMeta instance bound to a fresh context.
func NewContextMeta(pipeline, configName string) (context.Context, *ContextMeta) {
	meta := &ContextMeta{
		pipeline:   pipeline,
		configName: configName,
	}
	if len(pipeline) == 0 {
		meta.loggerHeader = "[" + configName + "]\t"
	} else {
		meta.loggerHeader = "[" + configName + "," + pipeline + "]\t"
	}
	ctx := context.WithValue(context.Background(), StatsFlowMeta, meta)
	return ctx, meta
}

func (c *ContextMeta) LoggerHeader() string {
	return c.loggerHeader
}

func (c *ContextMeta) GetPipeline() string {
	return c.pipeline
}

func (c *ContextMeta) GetConfigName() string {
	return c.configName
}
