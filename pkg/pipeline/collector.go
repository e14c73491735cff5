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

// Collector is the sink inputs write into.
type Collector interface {
	// AddFields adds one record built from raw textual fields.
	AddFields(tags map[string]string, fields map[string]string, t ...time.Time)

	// AddValues adds one record built from numeric values.
	AddValues(tags map[string]string, values map[string]float64, t ...time.Time)

	// AddRawRecord adds a record as-is.
	AddRawRecord(record *models.Record)
}
