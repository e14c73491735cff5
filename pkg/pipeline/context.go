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

package pipeline

import (
	"context"
)

// Context holds the metadata of one pipeline config and exposes the
// checkpoint store to plugins. Every plugin instance receives the context
// of the config that owns it in Init.
type Context interface {
	InitContext(pipeline, configName string)

	GetConfigName() string
	GetPipeline() string
	GetRuntimeContext() context.Context

	// Checkpoint access, keyed per config. Values survive restarts.
	SaveCheckPoint(key string, value []byte) error
	GetCheckPoint(key string) (value []byte, exist bool)
	SaveCheckPointObject(key string, obj interface{}) error
	GetCheckPointObject(key string, obj interface{}) (exist bool)

	AddPlugin(name string)
}
