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

	jsoniter "github.com/json-iterator/go"

	"github.com/statsflow/statsflow/pkg"
	"github.com/statsflow/statsflow/pkg/logger"
)

// ContextImp is the pipeline.Context implementation handed to every
// plugin of a config.
type ContextImp struct {
	ctx         context.Context
	common      *pkg.ContextMeta
	pluginNames string
}

func (p *ContextImp) InitContext(pipeline, configName string) {
	p.ctx, p.common = pkg.NewContextMeta(pipeline, configName)
}

func (p *ContextImp) GetConfigName() string {
	return p.common.GetConfigName()
}

func (p *ContextImp) GetPipeline() string {
	return p.common.GetPipeline()
}

func (p *ContextImp) GetRuntimeContext() context.Context {
	return p.ctx
}

func (p *ContextImp) AddPlugin(name string) {
	if len(p.pluginNames) != 0 {
		p.pluginNames += "," + name
	} else {
		p.pluginNames = name
	}
}

func (p *ContextImp) SaveCheckPoint(key string, value []byte) error {
	logger.Debug(p.GetRuntimeContext(), "save checkpoint, key", key, "value", string(value))
	return CheckPointManager.SaveCheckpoint(p.GetConfigName(), key, value)
}

func (p *ContextImp) GetCheckPoint(key string) (value []byte, exist bool) {
	value, err := CheckPointManager.GetCheckpoint(p.GetConfigName(), key)
	logger.Debug(p.GetRuntimeContext(), "get checkpoint, key", key, "value", string(value), "error", err)
	return value, value != nil
}

func (p *ContextImp) SaveCheckPointObject(key string, obj interface{}) error {
	val, err := jsoniter.Marshal(obj)
	if err != nil {
		logger.Error(p.GetRuntimeContext(), "CHECKPOINT_INVALID_ALARM", "save checkpoint error, invalid object, key", key, "error", err)
		return err
	}
	return p.SaveCheckPoint(key, val)
}

func (p *ContextImp) GetCheckPointObject(key string, obj interface{}) (exist bool) {
	val, ok := p.GetCheckPoint(key)
	if !ok {
		return false
	}
	if err := jsoniter.Unmarshal(val, obj); err != nil {
		logger.Error(p.GetRuntimeContext(), "CHECKPOINT_INVALID_ALARM", "get checkpoint error, invalid object, key", key, "value", string(val), "error", err)
		return false
	}
	return true
}
