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

package movavg

import (
	"sort"
	"strings"
	"sync"

	"github.com/statsflow/statsflow/pkg/models"
	"github.com/statsflow/statsflow/pkg/pipeline"
	"github.com/statsflow/statsflow/pkg/window"
	"github.com/statsflow/statsflow/plugins/aggregator/baseagg"
)

// AggregatorMovAvg smooths numeric values with a sliding-window mean.
// Every incoming record produces exactly one outgoing record whose
// selected values are replaced by the mean of the last WindowSize samples
// of the same series; during warm-up the mean covers the samples seen so
// far. Series are keyed by the record's sorted tag pairs plus the value
// key.
type AggregatorMovAvg struct {
	WindowSize int      // sample count of the sliding window, at least 1
	ValueKeys  []string // value keys to smooth, empty means every value
	KeepRaw    bool     // keep the raw value under <key>_raw
	Topic      string

	windows map[string]*window.Window
	base    *baseagg.AggregatorBase
	lock    *sync.Mutex
	context pipeline.Context
}

func (p *AggregatorMovAvg) Init(context pipeline.Context, que pipeline.RecordGroupQueue) (int, error) {
	p.context = context
	if p.WindowSize < 1 {
		return 0, window.ErrInvalidWindowSize
	}
	p.windows = make(map[string]*window.Window)
	p.base = &baseagg.AggregatorBase{}
	p.base.InitInner(true, context.GetConfigName(), p.lock, p.Topic, baseagg.MaxRecordCount, 4)
	return p.base.Init(context, que)
}

func (*AggregatorMovAvg) Description() string {
	return "moving average aggregator for statsflow"
}

func (p *AggregatorMovAvg) Add(record *models.Record) error {
	p.lock.Lock()
	seriesPrefix := SeriesKey(record.Tags)
	for _, key := range p.valueKeys(record) {
		value, ok := record.Values[key]
		if !ok {
			continue
		}
		w, ok := p.windows[seriesPrefix+key]
		if !ok {
			w, _ = window.NewWindow(p.WindowSize)
			p.windows[seriesPrefix+key] = w
		}
		w.Push(value)
		if p.KeepRaw {
			record.SetValue(key+"_raw", value)
		}
		record.SetValue(key, w.Mean())
	}
	p.lock.Unlock()
	return p.base.Add(record)
}

func (p *AggregatorMovAvg) valueKeys(record *models.Record) []string {
	if len(p.ValueKeys) > 0 {
		return p.ValueKeys
	}
	keys := make([]string, 0, len(record.Values))
	for k := range record.Values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (p *AggregatorMovAvg) Flush() []*models.RecordGroup {
	return p.base.Flush()
}

// Reset drops both the batched groups and the window state, a fresh
// stream starts its warm-up from scratch.
func (p *AggregatorMovAvg) Reset() {
	p.lock.Lock()
	p.windows = make(map[string]*window.Window)
	p.lock.Unlock()
	p.base.Reset()
}

// SeriesKey builds a stable identity string from sorted tag pairs.
func SeriesKey(tags map[string]string) string {
	if len(tags) == 0 {
		return "^"
	}
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(tags[k])
		b.WriteByte('^')
	}
	return b.String()
}

func init() {
	pipeline.AddAggregatorCreator("aggregator_movavg", func() pipeline.Aggregator {
		return &AggregatorMovAvg{
			WindowSize: 5,
			lock:       &sync.Mutex{},
		}
	})
}
