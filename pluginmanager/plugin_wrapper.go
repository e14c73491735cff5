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

package pluginmanager

import (
	"fmt"
	"time"

	"github.com/statsflow/statsflow/pkg/logger"
	"github.com/statsflow/statsflow/pkg/models"
	"github.com/statsflow/statsflow/pkg/pipeline"
	"github.com/statsflow/statsflow/pkg/util"
)

// pipelineCollector is the pipeline.Collector implementation handed to
// inputs; it feeds the config's record channel and unblocks on shutdown
// so inputs never wedge a stopping config.
type pipelineCollector struct {
	recordsChan chan<- *models.Record
	shutdown    <-chan struct{}
}

func (c *pipelineCollector) AddFields(tags map[string]string, fields map[string]string, t ...time.Time) {
	record := models.NewRecord()
	if len(t) != 0 {
		record.Time = t[0].UnixNano()
	}
	for k, v := range tags {
		record.SetTag(k, v)
	}
	for k, v := range fields {
		record.SetField(k, v)
	}
	c.AddRawRecord(record)
}

func (c *pipelineCollector) AddValues(tags map[string]string, values map[string]float64, t ...time.Time) {
	record := models.NewRecord()
	if len(t) != 0 {
		record.Time = t[0].UnixNano()
	}
	for k, v := range tags {
		record.SetTag(k, v)
	}
	for k, v := range values {
		record.SetValue(k, v)
	}
	c.AddRawRecord(record)
}

func (c *pipelineCollector) AddRawRecord(record *models.Record) {
	select {
	case c.recordsChan <- record:
	case <-c.shutdown:
	}
}

// MetricWrapper runs an interval-driven input.
type MetricWrapper struct {
	Config    *PipelineConfig
	Input     pipeline.MetricInput
	Interval  time.Duration
	Collector pipeline.Collector
}

func (p *MetricWrapper) Run(cc *pipeline.AsyncControl) {
	logger.Info(p.Config.Context.GetRuntimeContext(), "metric input run", "start", "interval", p.Interval)
	defer panicRecover(p.Input.Description())
	for {
		exitFlag := util.RandomSleep(p.Interval, 0.1, cc.CancelToken())
		if err := p.Input.Collect(p.Collector); err != nil {
			logger.Error(p.Config.Context.GetRuntimeContext(), "INPUT_COLLECT_ALARM", "collect error", err)
		}
		if exitFlag {
			logger.Info(p.Config.Context.GetRuntimeContext(), "metric input run", "exit")
			return
		}
	}
}

// ServiceWrapper runs a self-driven input on its own goroutine.
type ServiceWrapper struct {
	Config    *PipelineConfig
	Input     pipeline.ServiceInput
	Collector pipeline.Collector
}

func (p *ServiceWrapper) Run(cc *pipeline.AsyncControl) {
	logger.Info(p.Config.Context.GetRuntimeContext(), "service input run", "start")
	defer panicRecover(p.Input.Description())
	if err := p.Input.Start(p.Collector); err != nil {
		logger.Error(p.Config.Context.GetRuntimeContext(), "INPUT_START_ALARM", "start service error", err)
	}
	logger.Info(p.Config.Context.GetRuntimeContext(), "service input run", "exit")
}

func (p *ServiceWrapper) Stop() error {
	return p.Input.Stop()
}

// ProcessorWrapper applies one processor inside the process loop.
type ProcessorWrapper struct {
	Config    *PipelineConfig
	Processor pipeline.Processor
	Priority  int
}

// AggregatorWrapper runs the periodic flush of one aggregator and doubles
// as its quick-flush queue.
type AggregatorWrapper struct {
	Config     *PipelineConfig
	Aggregator pipeline.Aggregator
	GroupsChan chan *models.RecordGroup
	Interval   time.Duration
}

// Add inserts a group into the flush channel without blocking; it returns
// an error when the channel is full so the aggregator keeps buffering.
func (p *AggregatorWrapper) Add(group *models.RecordGroup) error {
	select {
	case p.GroupsChan <- group:
		return nil
	default:
		return fmt.Errorf("group queue is full")
	}
}

// AddWithWait is Add with a bounded wait.
func (p *AggregatorWrapper) AddWithWait(group *models.RecordGroup, duration time.Duration) error {
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case p.GroupsChan <- group:
		return nil
	case <-timer.C:
		return fmt.Errorf("group queue is full")
	}
}

func (p *AggregatorWrapper) Run(cc *pipeline.AsyncControl) {
	defer panicRecover(p.Aggregator.Description())
	for {
		exitFlag := util.RandomSleep(p.Interval, 0.1, cc.CancelToken())
		// the flusher loop keeps consuming until every aggregator exited,
		// so a blocking send cannot wedge shutdown
		for _, group := range p.Aggregator.Flush() {
			p.GroupsChan <- group
		}
		if exitFlag {
			return
		}
	}
}

// FlusherWrapper binds one flusher to the group channel.
type FlusherWrapper struct {
	Config  *PipelineConfig
	Flusher pipeline.Flusher
}
