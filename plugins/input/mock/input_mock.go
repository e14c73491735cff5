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
	"math"

	"github.com/statsflow/statsflow/pkg/pipeline"
)

// InputMock emits synthetic samples on every collect round: a
// monotonically increasing index plus an optional sine wave, handy for
// exercising a pipeline without a real source.
type InputMock struct {
	Tags       map[string]string
	Values     map[string]float64
	OpenWave   bool
	WavePeriod int64
	Index      int64

	context pipeline.Context
}

func (r *InputMock) Init(context pipeline.Context) (int, error) {
	r.context = context
	if r.WavePeriod <= 0 {
		r.WavePeriod = 60
	}
	return 0, nil
}

func (r *InputMock) Description() string {
	return "mock input plugin for statsflow"
}

func (r *InputMock) Collect(collector pipeline.Collector) error {
	r.Index++
	values := make(map[string]float64)
	values["Index"] = float64(r.Index)
	if r.OpenWave {
		values["Wave"] = math.Sin(2 * math.Pi * float64(r.Index) / float64(r.WavePeriod))
	}
	for k, v := range r.Values {
		values[k] = v
	}
	collector.AddValues(r.Tags, values)
	return nil
}

func init() {
	pipeline.AddMetricCreator("metric_mock", func() pipeline.MetricInput {
		return &InputMock{
			Tags:   make(map[string]string),
			Values: make(map[string]float64),
		}
	})
}
