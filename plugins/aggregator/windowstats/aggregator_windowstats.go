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

package windowstats

import (
	"sort"
	"strings"
	"sync"

	"github.com/statsflow/statsflow/pkg/models"
	"github.com/statsflow/statsflow/pkg/pipeline"
	"github.com/statsflow/statsflow/pkg/window"
)

// AggregatorWindowStats keeps a sliding window of recent samples per
// series and emits one snapshot record per series on every flush, with
// min, max, mean, stddev and count over the window. Unlike the moving
// average aggregator it condenses instead of smoothing, many inputs
// become one output per interval.
type AggregatorWindowStats struct {
	WindowSize int
	ValueKeys  []string
	Topic      string

	series  map[string]*seriesState
	lock    sync.Mutex
	context pipeline.Context
}

type seriesState struct {
	tags    map[string]string
	windows map[string]*window.Window
}

func (p *AggregatorWindowStats) Init(context pipeline.Context, que pipeline.RecordGroupQueue) (int, error) {
	p.context = context
	if p.WindowSize < 1 {
		return 0, window.ErrInvalidWindowSize
	}
	p.series = make(map[string]*seriesState)
	return 0, nil
}

func (*AggregatorWindowStats) Description() string {
	return "window statistics aggregator for statsflow"
}

func (p *AggregatorWindowStats) Add(record *models.Record) error {
	p.lock.Lock()
	defer p.lock.Unlock()
	key := seriesKey(record.Tags)
	state, ok := p.series[key]
	if !ok {
		state = &seriesState{
			tags:    record.Tags,
			windows: make(map[string]*window.Window),
		}
		p.series[key] = state
	}
	keys := p.ValueKeys
	if len(keys) == 0 {
		keys = make([]string, 0, len(record.Values))
		for k := range record.Values {
			keys = append(keys, k)
		}
	}
	for _, valueKey := range keys {
		value, ok := record.Values[valueKey]
		if !ok {
			continue
		}
		w, ok := state.windows[valueKey]
		if !ok {
			w, _ = window.NewWindow(p.WindowSize)
			state.windows[valueKey] = w
		}
		w.Push(value)
	}
	return nil
}

func (p *AggregatorWindowStats) Flush() []*models.RecordGroup {
	p.lock.Lock()
	defer p.lock.Unlock()
	if len(p.series) == 0 {
		return nil
	}
	group := &models.RecordGroup{
		Topic:   p.Topic,
		Source:  p.context.GetConfigName(),
		Tags:    make(map[string]string),
		Records: make([]*models.Record, 0, len(p.series)),
	}
	seriesKeys := make([]string, 0, len(p.series))
	for k := range p.series {
		seriesKeys = append(seriesKeys, k)
	}
	sort.Strings(seriesKeys)
	for _, sk := range seriesKeys {
		state := p.series[sk]
		record := models.NewRecord()
		for k, v := range state.tags {
			record.SetTag(k, v)
		}
		valueKeys := make([]string, 0, len(state.windows))
		for k := range state.windows {
			valueKeys = append(valueKeys, k)
		}
		sort.Strings(valueKeys)
		empty := true
		for _, vk := range valueKeys {
			w := state.windows[vk]
			if w.Len() == 0 {
				continue
			}
			empty = false
			record.SetValue(vk+"_min", w.Min())
			record.SetValue(vk+"_max", w.Max())
			record.SetValue(vk+"_avg", w.Mean())
			record.SetValue(vk+"_stddev", w.StdDev())
			record.SetValue(vk+"_count", float64(w.Len()))
		}
		if !empty {
			group.AddRecord(record)
		}
	}
	if len(group.Records) == 0 {
		return nil
	}
	return []*models.RecordGroup{group}
}

func (p *AggregatorWindowStats) Reset() {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.series = make(map[string]*seriesState)
}

func seriesKey(tags map[string]string) string {
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
	pipeline.AddAggregatorCreator("aggregator_windowstats", func() pipeline.Aggregator {
		return &AggregatorWindowStats{
			WindowSize: 60,
		}
	})
}
