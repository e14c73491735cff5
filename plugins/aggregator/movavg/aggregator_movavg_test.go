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
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statsflow/statsflow/pkg/logger"
	"github.com/statsflow/statsflow/pkg/models"
	"github.com/statsflow/statsflow/pkg/window"
	"github.com/statsflow/statsflow/plugins/test/mock"
)

func init() {
	logger.InitTestLogger()
}

type sliceQueue struct {
	groups []*models.RecordGroup
}

func (q *sliceQueue) Add(group *models.RecordGroup) error {
	q.groups = append(q.groups, group)
	return nil
}

func (q *sliceQueue) AddWithWait(group *models.RecordGroup, duration time.Duration) error {
	return q.Add(group)
}

func newMovAvg(t *testing.T, agg *AggregatorMovAvg) *AggregatorMovAvg {
	agg.lock = &sync.Mutex{}
	_, err := agg.Init(mock.NewEmptyContext("p", "test_config"), &sliceQueue{})
	require.NoError(t, err)
	return agg
}

func flushValues(t *testing.T, agg *AggregatorMovAvg, key string) []float64 {
	groups := agg.Flush()
	var out []float64
	for _, group := range groups {
		for _, record := range group.Records {
			value, ok := record.Values[key]
			require.True(t, ok)
			out = append(out, value)
		}
	}
	return out
}

func TestMovAvgWarmUpThenSlide(t *testing.T) {
	agg := newMovAvg(t, &AggregatorMovAvg{WindowSize: 3})
	for _, v := range []float64{1, 2, 3, 4, 5, 6, 7} {
		require.NoError(t, agg.Add(models.NewRecord().SetValue("volume", v)))
	}
	assert.Equal(t, []float64{1.0, 1.5, 2.0, 3.0, 4.0, 5.0, 6.0}, flushValues(t, agg, "volume"))
}

func TestMovAvgOneOutputPerInput(t *testing.T) {
	agg := newMovAvg(t, &AggregatorMovAvg{WindowSize: 4})
	for i := 0; i < 100; i++ {
		require.NoError(t, agg.Add(models.NewRecord().SetValue("v", float64(i))))
	}
	assert.Len(t, flushValues(t, agg, "v"), 100)
}

func TestMovAvgInvalidWindowSize(t *testing.T) {
	agg := &AggregatorMovAvg{WindowSize: 0, lock: &sync.Mutex{}}
	_, err := agg.Init(mock.NewEmptyContext("p", "test_config"), &sliceQueue{})
	assert.ErrorIs(t, err, window.ErrInvalidWindowSize)
}

func TestMovAvgSeparateSeriesPerTags(t *testing.T) {
	agg := newMovAvg(t, &AggregatorMovAvg{WindowSize: 2})
	add := func(host string, v float64) {
		record := models.NewRecord().SetTag("host", host).SetValue("v", v)
		require.NoError(t, agg.Add(record))
	}
	add("a", 10)
	add("b", 100)
	add("a", 20)
	add("b", 200)

	groups := agg.Flush()
	require.Len(t, groups, 1)
	records := groups[0].Records
	require.Len(t, records, 4)
	assert.Equal(t, 10.0, records[0].Values["v"])
	assert.Equal(t, 100.0, records[1].Values["v"])
	assert.Equal(t, 15.0, records[2].Values["v"])
	assert.Equal(t, 150.0, records[3].Values["v"])
}

func TestMovAvgSelectedKeysAndKeepRaw(t *testing.T) {
	agg := newMovAvg(t, &AggregatorMovAvg{WindowSize: 2, ValueKeys: []string{"v"}, KeepRaw: true})
	require.NoError(t, agg.Add(models.NewRecord().SetValue("v", 1).SetValue("other", 7)))
	require.NoError(t, agg.Add(models.NewRecord().SetValue("v", 3).SetValue("other", 9)))

	groups := agg.Flush()
	require.Len(t, groups, 1)
	records := groups[0].Records
	require.Len(t, records, 2)
	assert.Equal(t, 2.0, records[1].Values["v"])
	assert.Equal(t, 3.0, records[1].Values["v_raw"])
	assert.Equal(t, 9.0, records[1].Values["other"])
}

func TestMovAvgResetClearsWarmUp(t *testing.T) {
	agg := newMovAvg(t, &AggregatorMovAvg{WindowSize: 3})
	require.NoError(t, agg.Add(models.NewRecord().SetValue("v", 10)))
	require.NoError(t, agg.Add(models.NewRecord().SetValue("v", 20)))
	agg.Reset()
	require.NoError(t, agg.Add(models.NewRecord().SetValue("v", 5)))
	assert.Equal(t, []float64{5.0}, flushValues(t, agg, "v"))
}
