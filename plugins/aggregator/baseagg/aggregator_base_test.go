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

package baseagg

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statsflow/statsflow/pkg/logger"
	"github.com/statsflow/statsflow/pkg/models"
	"github.com/statsflow/statsflow/pkg/util"
	"github.com/statsflow/statsflow/plugins/test/mock"
)

func init() {
	logger.InitTestLogger()
}

type sliceQueue struct {
	groups []*models.RecordGroup
	full   bool
}

func (q *sliceQueue) Add(group *models.RecordGroup) error {
	if q.full {
		return fmt.Errorf("group queue is full")
	}
	q.groups = append(q.groups, group)
	return nil
}

func (q *sliceQueue) AddWithWait(group *models.RecordGroup, duration time.Duration) error {
	return q.Add(group)
}

func newBase(t *testing.T, queue *sliceQueue, maxRecord, maxGroup int) *AggregatorBase {
	agg := &AggregatorBase{
		MaxRecordCount: maxRecord,
		MaxGroupCount:  maxGroup,
		PackFlag:       true,
		Lock:           &sync.Mutex{},
	}
	_, err := agg.Init(mock.NewEmptyContext("p", "test_config"), queue)
	require.NoError(t, err)
	return agg
}

func addRecords(t *testing.T, agg *AggregatorBase, count int) {
	for i := 0; i < count; i++ {
		record := models.NewRecord().SetValue("v", float64(i))
		require.NoError(t, agg.Add(record))
	}
}

func TestBaseFlushReturnsBatchedGroups(t *testing.T) {
	queue := &sliceQueue{}
	agg := newBase(t, queue, 10, 4)
	addRecords(t, agg, 25)

	groups := agg.Flush()
	require.Len(t, groups, 3)
	assert.Len(t, groups[0].Records, 10)
	assert.Len(t, groups[1].Records, 10)
	assert.Len(t, groups[2].Records, 5)
	assert.Empty(t, queue.groups)
	assert.Nil(t, agg.Flush())
}

func TestBaseQuickFlushWhenGroupCountExceeded(t *testing.T) {
	queue := &sliceQueue{}
	agg := newBase(t, queue, 10, 2)
	addRecords(t, agg, 21)

	require.Len(t, queue.groups, 1)
	assert.Len(t, queue.groups[0].Records, 10)
	groups := agg.Flush()
	require.Len(t, groups, 2)
}

func TestBaseAddFailsWhenQueueFull(t *testing.T) {
	queue := &sliceQueue{full: true}
	agg := newBase(t, queue, 1, 1)
	require.NoError(t, agg.Add(models.NewRecord().SetValue("v", 1)))
	assert.Error(t, agg.Add(models.NewRecord().SetValue("v", 2)))
}

func TestBasePackIDStamped(t *testing.T) {
	queue := &sliceQueue{}
	agg := newBase(t, queue, 10, 4)
	addRecords(t, agg, 3)

	groups := agg.Flush()
	require.Len(t, groups, 1)
	packID, ok := groups[0].Tags[util.PackIDTagKey]
	require.True(t, ok)
	assert.NotEmpty(t, packID)
}

func TestBaseReset(t *testing.T) {
	queue := &sliceQueue{}
	agg := newBase(t, queue, 10, 4)
	addRecords(t, agg, 3)
	agg.Reset()
	assert.Nil(t, agg.Flush())
}
