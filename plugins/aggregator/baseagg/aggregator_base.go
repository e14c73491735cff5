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
	"strconv"
	"strings"
	"sync"

	"github.com/statsflow/statsflow/pkg/models"
	"github.com/statsflow/statsflow/pkg/pipeline"
	"github.com/statsflow/statsflow/pkg/util"
)

const (
	MaxRecordCount = 1024
)

// AggregatorBase batches records into record groups. Other aggregators can
// embed it as their batching layer.
//
// There is a quick flush design in AggregatorBase, implemented in the Add
// method (search p.queue.Add in current file), so not all groups are
// returned through Flush.
type AggregatorBase struct {
	MaxRecordCount int    // the maximum record count in a group
	MaxGroupCount  int    // the maximum group count to trigger quick flush
	PackFlag       bool   // whether to stamp groups with a pack id tag
	Topic          string // the output topic

	pack    string
	groups  []*models.RecordGroup
	packID  int64
	Lock    *sync.Mutex
	context pipeline.Context
	queue   pipeline.RecordGroupQueue
}

func (p *AggregatorBase) Init(context pipeline.Context, que pipeline.RecordGroupQueue) (int, error) {
	p.context = context
	p.queue = que
	if p.PackFlag {
		p.pack = util.NewPackIDPrefix(context.GetConfigName())
	}
	return 0, nil
}

func (*AggregatorBase) Description() string {
	return "base aggregator for statsflow"
}

// Add appends @record to the newest group. When that group is full a new
// one is allocated, and when the group count reaches MaxGroupCount the
// oldest group is quick-flushed through the queue so large bursts do not
// have to wait for the next interval. The returned error must be handled
// by callers, it signals a full queue.
func (p *AggregatorBase) Add(record *models.Record) error {
	p.Lock.Lock()
	defer p.Lock.Unlock()
	if len(p.groups) == 0 {
		p.groups = append(p.groups, p.newGroup())
	}
	nowGroup := p.groups[len(p.groups)-1]

	if len(nowGroup.Records) >= p.MaxRecordCount {
		if len(p.groups) == p.MaxGroupCount {
			p.stampPackID(p.groups[0])
			if err := p.queue.Add(p.groups[0]); err != nil {
				return err
			}
			p.groups = p.groups[1:]
		}
		p.groups = append(p.groups, p.newGroup())
		nowGroup = p.groups[len(p.groups)-1]
	}

	nowGroup.AddRecord(record)
	return nil
}

func (p *AggregatorBase) newGroup() *models.RecordGroup {
	return &models.RecordGroup{
		Topic:   p.Topic,
		Source:  p.context.GetConfigName(),
		Tags:    make(map[string]string),
		Records: make([]*models.Record, 0, p.MaxRecordCount),
	}
}

// stampPackID tags the group with a unique pack id if not stamped yet.
func (p *AggregatorBase) stampPackID(group *models.RecordGroup) {
	if !p.PackFlag {
		return
	}
	if _, ok := group.Tags[util.PackIDTagKey]; !ok {
		p.packID++
		group.Tags[util.PackIDTagKey] = p.pack + strings.ToUpper(strconv.FormatInt(p.packID, 16))
	}
}

func (p *AggregatorBase) Flush() []*models.RecordGroup {
	p.Lock.Lock()
	if len(p.groups) == 0 {
		p.Lock.Unlock()
		return nil
	}
	groupList := p.groups
	p.groups = make([]*models.RecordGroup, 0, p.MaxGroupCount)
	p.Lock.Unlock()

	for i, group := range groupList {
		if len(group.Records) == 0 {
			groupList = groupList[0:i]
			break
		}
		p.stampPackID(group)
	}
	return groupList
}

func (p *AggregatorBase) Reset() {
	p.Lock.Lock()
	defer p.Lock.Unlock()
	p.groups = make([]*models.RecordGroup, 0)
}

// InitInner initializes the instance for embedding aggregators.
func (p *AggregatorBase) InitInner(packFlag bool, packString string, lock *sync.Mutex, topic string, maxRecordCount, maxGroupCount int) {
	p.PackFlag = packFlag
	p.MaxRecordCount = maxRecordCount
	p.MaxGroupCount = maxGroupCount
	p.Lock = lock
	p.Topic = topic
	if p.PackFlag {
		p.pack = util.NewPackIDPrefix(packString)
	}
}

func init() {
	pipeline.AddAggregatorCreator("aggregator_base", func() pipeline.Aggregator {
		return &AggregatorBase{
			MaxRecordCount: MaxRecordCount,
			MaxGroupCount:  4,
			PackFlag:       true,
			Lock:           &sync.Mutex{},
		}
	})
}
