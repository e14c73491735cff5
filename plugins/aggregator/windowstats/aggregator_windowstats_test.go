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
	"testing"

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

func newStats(t *testing.T, agg *AggregatorWindowStats) *AggregatorWindowStats {
	_, err := agg.Init(mock.NewEmptyContext("p", "test_config"), nil)
	require.NoError(t, err)
	return agg
}

func TestWindowStatsSnapshot(t *testing.T) {
	agg := newStats(t, &AggregatorWindowStats{WindowSize: 10})
	for _, v := range []float64{2, 4, 6, 8} {
		require.NoError(t, agg.Add(models.NewRecord().SetValue("latency", v)))
	}

	groups := agg.Flush()
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Records, 1)
	values := groups[0].Records[0].Values
	assert.Equal(t, 2.0, values["latency_min"])
	assert.Equal(t, 8.0, values["latency_max"])
	assert.Equal(t, 5.0, values["latency_avg"])
	assert.Equal(t, 4.0, values["latency_count"])
	assert.InDelta(t, 2.23606, values["latency_stddev"], 1e-4)
}

func TestWindowStatsSlidesOverOldSamples(t *testing.T) {
	agg := newStats(t, &AggregatorWindowStats{WindowSize: 2})
	for _, v := range []float64{100, 1, 3} {
		require.NoError(t, agg.Add(models.NewRecord().SetValue("v", v)))
	}

	groups := agg.Flush()
	require.Len(t, groups, 1)
	values := groups[0].Records[0].Values
	assert.Equal(t, 1.0, values["v_min"])
	assert.Equal(t, 3.0, values["v_max"])
	assert.Equal(t, 2.0, values["v_avg"])
}

func TestWindowStatsPerSeries(t *testing.T) {
	agg := newStats(t, &AggregatorWindowStats{WindowSize: 10})
	require.NoError(t, agg.Add(models.NewRecord().SetTag("host", "a").SetValue("v", 1)))
	require.NoError(t, agg.Add(models.NewRecord().SetTag("host", "b").SetValue("v", 9)))

	groups := agg.Flush()
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Records, 2)
	assert.Equal(t, "a", groups[0].Records[0].Tags["host"])
	assert.Equal(t, 1.0, groups[0].Records[0].Values["v_avg"])
	assert.Equal(t, "b", groups[0].Records[1].Tags["host"])
	assert.Equal(t, 9.0, groups[0].Records[1].Values["v_avg"])
}

func TestWindowStatsEmptyFlush(t *testing.T) {
	agg := newStats(t, &AggregatorWindowStats{WindowSize: 5})
	assert.Nil(t, agg.Flush())
}

func TestWindowStatsInvalidWindowSize(t *testing.T) {
	agg := &AggregatorWindowStats{WindowSize: 0}
	_, err := agg.Init(mock.NewEmptyContext("p", "test_config"), nil)
	assert.ErrorIs(t, err, window.ErrInvalidWindowSize)
}
