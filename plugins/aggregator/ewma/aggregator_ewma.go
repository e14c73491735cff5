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

package ewma

import (
	"fmt"
	"sort"
	"sync"

	"github.com/statsflow/statsflow/pkg/models"
	"github.com/statsflow/statsflow/pkg/pipeline"
	"github.com/statsflow/statsflow/plugins/aggregator/baseagg"
	"github.com/statsflow/statsflow/plugins/aggregator/movavg"
)

// AggregatorEWMA smooths values with an exponentially weighted moving
// average. Alpha overrides the weight directly, otherwise it derives from
// Span as 2/(span+1). The first sample of a series seeds the average.
type AggregatorEWMA struct {
	Alpha     float64
	Span      int
	ValueKeys []string
	Topic     string

	averages map[string]float64
	alpha    float64
	base     *baseagg.AggregatorBase
	lock     *sync.Mutex
	context  pipeline.Context
}

func (p *AggregatorEWMA) Init(context pipeline.Context, que pipeline.RecordGroupQueue) (int, error) {
	p.context = context
	switch {
	case p.Alpha != 0:
		if p.Alpha < 0 || p.Alpha > 1 {
			return 0, fmt.Errorf("alpha out of range: %v", p.Alpha)
		}
		p.alpha = p.Alpha
	case p.Span >= 1:
		p.alpha = 2.0 / (float64(p.Span) + 1.0)
	default:
		return 0, fmt.Errorf("either Alpha or Span must be set")
	}
	p.averages = make(map[string]float64)
	p.base = &baseagg.AggregatorBase{}
	p.base.InitInner(true, context.GetConfigName(), p.lock, p.Topic, baseagg.MaxRecordCount, 4)
	return p.base.Init(context, que)
}

func (*AggregatorEWMA) Description() string {
	return "exponentially weighted moving average aggregator for statsflow"
}

func (p *AggregatorEWMA) Add(record *models.Record) error {
	p.lock.Lock()
	seriesPrefix := movavg.SeriesKey(record.Tags)
	keys := p.ValueKeys
	if len(keys) == 0 {
		keys = make([]string, 0, len(record.Values))
		for k := range record.Values {
			keys = append(keys, k)
		}
		sort.Strings(keys)
	}
	for _, key := range keys {
		value, ok := record.Values[key]
		if !ok {
			continue
		}
		avg, seen := p.averages[seriesPrefix+key]
		if !seen {
			avg = value
		} else {
			avg = p.alpha*value + (1-p.alpha)*avg
		}
		p.averages[seriesPrefix+key] = avg
		record.SetValue(key, avg)
	}
	p.lock.Unlock()
	return p.base.Add(record)
}

func (p *AggregatorEWMA) Flush() []*models.RecordGroup {
	return p.base.Flush()
}

func (p *AggregatorEWMA) Reset() {
	p.lock.Lock()
	p.averages = make(map[string]float64)
	p.lock.Unlock()
	p.base.Reset()
}

func init() {
	pipeline.AddAggregatorCreator("aggregator_ewma", func() pipeline.Aggregator {
		return &AggregatorEWMA{
			Span: 10,
			lock: &sync.Mutex{},
		}
	})
}
