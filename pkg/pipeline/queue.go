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
	"time"

	"github.com/statsflow/statsflow/pkg/models"
)

// RecordGroupQueue lets an aggregator push a full group downstream before
// the next periodic flush. Add is non-blocking and returns an error when
// the queue is full.
type RecordGroupQueue interface {
	// no blocking
	Add(group *models.RecordGroup) error
	AddWithWait(group *models.RecordGroup, duration time.Duration) error
}
