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

package checker

import (
	"fmt"
	"sync"

	"github.com/statsflow/statsflow/pkg/models"
	"github.com/statsflow/statsflow/pkg/pipeline"
)

// FlusherChecker collects flushed records in memory so that tests can
// assert on pipeline output. Block makes IsReady report false to exercise
// back-pressure paths.
type FlusherChecker struct {
	Block bool

	Records []*models.Record
	Groups  []*models.RecordGroup
	Lock    sync.RWMutex

	context pipeline.Context
}

func (p *FlusherChecker) Init(context pipeline.Context) error {
	p.context = context
	return nil
}

func (*FlusherChecker) Description() string {
	return "checking flusher for statsflow"
}

func (p *FlusherChecker) GetRecordCount() int {
	p.Lock.RLock()
	defer p.Lock.RUnlock()
	return len(p.Records)
}

func (p *FlusherChecker) Flush(configName string, groups []*models.RecordGroup) error {
	p.Lock.Lock()
	defer p.Lock.Unlock()
	for _, group := range groups {
		p.Groups = append(p.Groups, group)
		p.Records = append(p.Records, group.Records...)
	}
	return nil
}

// CheckValue reports whether any record carries @key with @value.
func (p *FlusherChecker) CheckValue(key string, value float64) error {
	p.Lock.RLock()
	defer p.Lock.RUnlock()
	for _, record := range p.Records {
		if v, ok := record.Values[key]; ok {
			if v == value {
				return nil
			}
		}
	}
	return fmt.Errorf("cannot find value key %v with value %v", key, value)
}

// CheckEveryRecord runs @checker over every collected record.
func (p *FlusherChecker) CheckEveryRecord(checker func(*models.Record) error) error {
	p.Lock.RLock()
	defer p.Lock.RUnlock()
	for _, record := range p.Records {
		if err := checker(record); err != nil {
			return err
		}
	}
	return nil
}

func (p *FlusherChecker) SetUrgent(flag bool) {
}

func (p *FlusherChecker) IsReady(configName string) bool {
	return !p.Block
}

func (p *FlusherChecker) Stop() error {
	return nil
}

func init() {
	pipeline.AddFlusherCreator("flusher_checker", func() pipeline.Flusher {
		return &FlusherChecker{}
	})
}
