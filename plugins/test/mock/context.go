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

package mock

import (
	"context"

	jsoniter "github.com/json-iterator/go"

	"github.com/statsflow/statsflow/pkg"
)

// NewEmptyContext builds a pipeline.Context backed by an in-memory
// checkpoint map for plugin tests.
func NewEmptyContext(pipelineName, configName string) *EmptyContext {
	ctx, c := pkg.NewContextMeta(pipelineName, configName)
	return &EmptyContext{
		ctx:        ctx,
		common:     c,
		checkpoint: make(map[string][]byte),
	}
}

type EmptyContext struct {
	common      *pkg.ContextMeta
	ctx         context.Context
	checkpoint  map[string][]byte
	pluginNames string
}

func (p *EmptyContext) InitContext(pipelineName, configName string) {
	p.ctx, p.common = pkg.NewContextMeta(pipelineName, configName)
}

func (p *EmptyContext) GetConfigName() string {
	return p.common.GetConfigName()
}

func (p *EmptyContext) GetPipeline() string {
	return p.common.GetPipeline()
}

func (p *EmptyContext) GetRuntimeContext() context.Context {
	return p.ctx
}

func (p *EmptyContext) AddPlugin(name string) {
	if len(p.pluginNames) != 0 {
		p.pluginNames += "," + name
	} else {
		p.pluginNames = name
	}
}

func (p *EmptyContext) SaveCheckPoint(key string, value []byte) error {
	p.checkpoint[key] = value
	return nil
}

func (p *EmptyContext) GetCheckPoint(key string) (value []byte, exist bool) {
	value, exist = p.checkpoint[key]
	return value, exist
}

func (p *EmptyContext) SaveCheckPointObject(key string, obj interface{}) error {
	val, err := jsoniter.Marshal(obj)
	if err != nil {
		return err
	}
	return p.SaveCheckPoint(key, val)
}

func (p *EmptyContext) GetCheckPointObject(key string, obj interface{}) (exist bool) {
	val, ok := p.GetCheckPoint(key)
	if !ok {
		return false
	}
	return jsoniter.Unmarshal(val, obj) == nil
}
