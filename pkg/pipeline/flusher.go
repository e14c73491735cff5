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

import "github.com/statsflow/statsflow/pkg/models"

// Flusher sends aggregated groups to a destination.
type Flusher interface {
	// Init called for init some system resources, like socket, mutex...
	Init(Context) error

	// Description returns a one-sentence description on the flusher.
	Description() string

	// Flush the group list to the destination. It is expected to return no
	// error at most time because IsReady will be called before it to make
	// sure there is space for next data.
	Flush(configName string, groups []*models.RecordGroup) error

	// IsReady checks if flusher is ready to accept more data.
	// Note: if SetUrgent is called, IsReady should return true in time so
	// the config instance can be stopped gracefully.
	IsReady(configName string) bool

	// SetUrgent indicates the flusher that it will be destroyed soon.
	// @flag indicates whether the program exits after this.
	SetUrgent(flag bool)

	// Stop stops flusher and releases resources. Cached but unflushed data
	// must be exported here, otherwise it is lost.
	Stop() error
}
