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

// Aggregator is an interface for implementing an aggregator plugin.
// Add, Flush, and Reset can not be called concurrently, so locking is not
// required when implementing one.
type Aggregator interface {
	// Init called for init some system resources, like socket, mutex...
	// return flush interval(ms) and error flag, if interval is 0, use default interval.
	// que is a transfer channel for flushing groups early when the cache
	// reaches its limits.
	Init(Context, RecordGroupQueue) (int, error)

	// Description returns a one-sentence description on the aggregator.
	Description() string

	// Add a record to the aggregator.
	Add(record *models.Record) error

	// Flush returns the groups aggregated since the previous flush.
	Flush() []*models.RecordGroup

	// Reset drops the aggregator's caches and aggregates.
	Reset()
}
