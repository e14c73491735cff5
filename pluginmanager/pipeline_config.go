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

	jsoniter "github.com/json-iterator/go"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/statsflow/statsflow/pkg/config"
	"github.com/statsflow/statsflow/pkg/logger"
	"github.com/statsflow/statsflow/pkg/models"
	"github.com/statsflow/statsflow/pkg/pipeline"
)

var maxFlushOutTime = 5

// PipelineConfig owns every plugin instance of one named pipeline and the
// channels between its stages: inputs feed RecordsChan, the process loop
// runs records through the processors and into the aggregators, the
// aggregators emit groups on GroupsChan, the flush loop hands them to the
// flushers.
type PipelineConfig struct {
	PipelineName string
	ConfigName   string

	MetricPlugins     []*MetricWrapper
	ServicePlugins    []*ServiceWrapper
	ProcessorPlugins  []*ProcessorWrapper
	AggregatorPlugins []*AggregatorWrapper
	FlusherPlugins    []*FlusherWrapper

	GlobalConfig *config.GlobalConfig
	Context      pipeline.Context

	RecordsChan chan *models.Record
	GroupsChan  chan *models.RecordGroup

	inputControl     *pipeline.AsyncControl
	processControl   *pipeline.AsyncControl
	aggregateControl *pipeline.AsyncControl
	flushControl     *pipeline.AsyncControl

	collectorShutdown chan struct{}
}

// Start spins up the stage goroutines: flush loop first so that nothing
// upstream can block, then aggregators, the process loop, and finally the
// inputs.
func (pc *PipelineConfig) Start() {
	logger.Info(pc.Context.GetRuntimeContext(), "config start", "begin")

	pc.flushControl.Reset()
	pc.flushControl.Run(pc.runFlushInternal)

	pc.aggregateControl.Reset()
	for _, agg := range pc.AggregatorPlugins {
		aw := agg
		pc.aggregateControl.Run(aw.Run)
	}

	pc.processControl.Reset()
	pc.processControl.Run(pc.runProcessInternal)

	pc.inputControl.Reset()
	for _, metric := range pc.MetricPlugins {
		mw := metric
		pc.inputControl.Run(mw.Run)
	}
	for _, service := range pc.ServicePlugins {
		sw := service
		pc.inputControl.Run(sw.Run)
	}

	logger.Info(pc.Context.GetRuntimeContext(), "config start", "success")
}

// Stop shuts the stages down in stream order so that everything already
// collected is processed, aggregated and flushed before the flushers are
// released. Records still in flight when exitFlag is set are flushed out,
// partial results stay valid.
func (pc *PipelineConfig) Stop(exitFlag bool) error {
	logger.Info(pc.Context.GetRuntimeContext(), "config stop", "begin", "exit", exitFlag)

	for _, service := range pc.ServicePlugins {
		if err := service.Stop(); err != nil {
			logger.Error(pc.Context.GetRuntimeContext(), "INPUT_STOP_ALARM", "stop service error", err)
		}
	}
	close(pc.collectorShutdown)
	pc.inputControl.WaitCancel()
	logger.Info(pc.Context.GetRuntimeContext(), "inputs stop", "done")

	pc.processControl.WaitCancel()
	logger.Info(pc.Context.GetRuntimeContext(), "process stop", "done")

	pc.aggregateControl.WaitCancel()
	// final drain of the aggregators after their loops exited
	for _, agg := range pc.AggregatorPlugins {
		for _, group := range agg.Aggregator.Flush() {
			agg.GroupsChan <- group
		}
	}
	logger.Info(pc.Context.GetRuntimeContext(), "aggregators stop", "done")

	pc.flushControl.WaitCancel()
	logger.Info(pc.Context.GetRuntimeContext(), "flushers stop", "done")

	for _, flusher := range pc.FlusherPlugins {
		flusher.Flusher.SetUrgent(exitFlag)
		if err := flusher.Flusher.Stop(); err != nil {
			logger.Error(pc.Context.GetRuntimeContext(), "FLUSHER_STOP_ALARM", "stop flusher error", err)
		}
	}
	logger.Info(pc.Context.GetRuntimeContext(), "config stop", "success")
	return nil
}

// runProcessInternal moves records from the inputs through the processor
// chain and into every aggregator.
func (pc *PipelineConfig) runProcessInternal(cc *pipeline.AsyncControl) {
	defer panicRecover(pc.ConfigName)
	for {
		select {
		case record := <-pc.RecordsChan:
			pc.processRecords([]*models.Record{record})
		case <-cc.CancelToken():
			// drain what the inputs already handed over
			for {
				select {
				case record := <-pc.RecordsChan:
					pc.processRecords([]*models.Record{record})
				default:
					return
				}
			}
		}
	}
}

func (pc *PipelineConfig) processRecords(records []*models.Record) {
	for _, wrapper := range pc.ProcessorPlugins {
		records = wrapper.Processor.ProcessRecords(records)
		if len(records) == 0 {
			return
		}
	}
	for _, record := range records {
		for _, agg := range pc.AggregatorPlugins {
			for tryCount := 1; ; tryCount++ {
				if err := agg.Aggregator.Add(record); err == nil {
					break
				}
				// wait until the aggregator has space, it will quick-flush
				// through its queue in the meantime
				if tryCount%100 == 0 {
					logger.Warning(pc.Context.GetRuntimeContext(), "AGGREGATOR_ADD_ALARM", "error", "add record error, retry", tryCount)
				}
				time.Sleep(time.Millisecond * 10)
			}
		}
	}
}

// runFlushInternal hands aggregated groups to every flusher.
func (pc *PipelineConfig) runFlushInternal(cc *pipeline.AsyncControl) {
	defer panicRecover(pc.ConfigName)
	for {
		select {
		case group := <-pc.GroupsChan:
			pc.flushGroups([]*models.RecordGroup{group})
		case <-cc.CancelToken():
			for {
				select {
				case group := <-pc.GroupsChan:
					pc.flushGroups([]*models.RecordGroup{group})
				default:
					return
				}
			}
		}
	}
}

func (pc *PipelineConfig) flushGroups(groups []*models.RecordGroup) {
	for _, wrapper := range pc.FlusherPlugins {
		for waitCount := 0; !wrapper.Flusher.IsReady(pc.ConfigName); waitCount++ {
			if waitCount > maxFlushOutTime*100 {
				logger.Error(pc.Context.GetRuntimeContext(), "DROP_DATA_ALARM", "flush out data timeout, drop groups", len(groups))
				return
			}
			time.Sleep(time.Duration(10) * time.Millisecond)
		}
		if err := wrapper.Flusher.Flush(pc.ConfigName, groups); err != nil {
			logger.Error(pc.Context.GetRuntimeContext(), "FLUSH_DATA_ALARM", "flush data error", pc.ConfigName, err)
		}
	}
}

type pluginEntry struct {
	Type   string                 `json:"type" yaml:"type"`
	Detail map[string]interface{} `json:"detail" yaml:"detail"`
}

type pipelinePlugins struct {
	Global      map[string]interface{} `json:"global" yaml:"global"`
	Inputs      []pluginEntry          `json:"inputs" yaml:"inputs"`
	Processors  []pluginEntry          `json:"processors" yaml:"processors"`
	Aggregators []pluginEntry          `json:"aggregators" yaml:"aggregators"`
	Flushers    []pluginEntry          `json:"flushers" yaml:"flushers"`
}

// LoadPipelineConfig parses a JSON config body and builds a ready-to-start
// PipelineConfig. The loaded config replaces a same-named one in
// PipelineConfigs (the caller must have stopped it first).
func LoadPipelineConfig(pipelineName, configName, jsonStr string) error {
	var plugins pipelinePlugins
	if err := jsoniter.UnmarshalFromString(jsonStr, &plugins); err != nil {
		return fmt.Errorf("config %v parse error: %w", configName, err)
	}
	return loadPipelineConfig(pipelineName, configName, &plugins)
}

// LoadPipelineConfigYAML is LoadPipelineConfig for a YAML config body.
func LoadPipelineConfigYAML(pipelineName, configName string, yamlStr []byte) error {
	var plugins pipelinePlugins
	if err := yaml.Unmarshal(yamlStr, &plugins); err != nil {
		return fmt.Errorf("config %v parse error: %w", configName, err)
	}
	return loadPipelineConfig(pipelineName, configName, &plugins)
}

func loadPipelineConfig(pipelineName, configName string, plugins *pipelinePlugins) error {
	contextImp := &ContextImp{}
	contextImp.InitContext(pipelineName, configName)
	logger.Info(contextImp.GetRuntimeContext(), "load config", configName)

	globalConfig := config.StatsFlowGlobalConfig
	if len(plugins.Global) > 0 {
		if err := decodeDetail(plugins.Global, &globalConfig); err != nil {
			return fmt.Errorf("config %v global section error: %w", configName, err)
		}
	}

	pc := &PipelineConfig{
		PipelineName:     pipelineName,
		ConfigName:       configName,
		GlobalConfig:     &globalConfig,
		Context:          contextImp,
		RecordsChan:      make(chan *models.Record, globalConfig.DefaultRecordQueueSize),
		GroupsChan:       make(chan *models.RecordGroup, globalConfig.DefaultGroupQueueSize),
		inputControl:     pipeline.NewAsyncControl(),
		processControl:   pipeline.NewAsyncControl(),
		aggregateControl: pipeline.NewAsyncControl(),
		flushControl:     pipeline.NewAsyncControl(),
	}
	pc.collectorShutdown = make(chan struct{})

	for _, entry := range plugins.Inputs {
		if err := loadInput(entry, pc); err != nil {
			return err
		}
	}
	for _, entry := range plugins.Processors {
		if err := loadProcessor(entry, pc); err != nil {
			return err
		}
	}
	for _, entry := range plugins.Aggregators {
		if err := loadAggregator(entry, pc); err != nil {
			return err
		}
	}
	if len(pc.AggregatorPlugins) == 0 {
		logger.Debug(contextImp.GetRuntimeContext(), "add default aggregator")
		if err := loadAggregator(pluginEntry{Type: "aggregator_base"}, pc); err != nil {
			return err
		}
	}
	for _, entry := range plugins.Flushers {
		if err := loadFlusher(entry, pc); err != nil {
			return err
		}
	}
	if len(pc.FlusherPlugins) == 0 {
		logger.Debug(contextImp.GetRuntimeContext(), "add default flusher")
		if err := loadFlusher(pluginEntry{Type: "flusher_stdout"}, pc); err != nil {
			return err
		}
	}

	PipelineConfigs[configName] = pc
	return nil
}

// decodeDetail decodes a config detail map into a plugin instance; weak
// typing keeps JSON/YAML numeric quirks out of plugin structs.
func decodeDetail(detail map[string]interface{}, out interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(detail)
}

func loadInput(entry pluginEntry, pc *PipelineConfig) error {
	if creator, ok := pipeline.MetricInputs[entry.Type]; ok {
		input := creator()
		if err := decodeDetail(entry.Detail, input); err != nil {
			return fmt.Errorf("input %v config error: %w", entry.Type, err)
		}
		interval, err := input.Init(pc.Context)
		if err != nil {
			return fmt.Errorf("input %v init error: %w", entry.Type, err)
		}
		if interval == 0 {
			interval = pc.GlobalConfig.InputIntervalMs
		}
		pc.Context.AddPlugin(entry.Type)
		pc.MetricPlugins = append(pc.MetricPlugins, &MetricWrapper{
			Config:    pc,
			Input:     input,
			Interval:  time.Duration(interval) * time.Millisecond,
			Collector: &pipelineCollector{recordsChan: pc.RecordsChan, shutdown: pc.collectorShutdown},
		})
		return nil
	}
	if creator, ok := pipeline.ServiceInputs[entry.Type]; ok {
		input := creator()
		if err := decodeDetail(entry.Detail, input); err != nil {
			return fmt.Errorf("input %v config error: %w", entry.Type, err)
		}
		if _, err := input.Init(pc.Context); err != nil {
			return fmt.Errorf("input %v init error: %w", entry.Type, err)
		}
		pc.Context.AddPlugin(entry.Type)
		pc.ServicePlugins = append(pc.ServicePlugins, &ServiceWrapper{
			Config:    pc,
			Input:     input,
			Collector: &pipelineCollector{recordsChan: pc.RecordsChan, shutdown: pc.collectorShutdown},
		})
		return nil
	}
	return fmt.Errorf("unknown input type: %v", entry.Type)
}

func loadProcessor(entry pluginEntry, pc *PipelineConfig) error {
	creator, ok := pipeline.Processors[entry.Type]
	if !ok {
		return fmt.Errorf("unknown processor type: %v", entry.Type)
	}
	processor := creator()
	if err := decodeDetail(entry.Detail, processor); err != nil {
		return fmt.Errorf("processor %v config error: %w", entry.Type, err)
	}
	if err := processor.Init(pc.Context); err != nil {
		return fmt.Errorf("processor %v init error: %w", entry.Type, err)
	}
	pc.Context.AddPlugin(entry.Type)
	pc.ProcessorPlugins = append(pc.ProcessorPlugins, &ProcessorWrapper{
		Config:    pc,
		Processor: processor,
		Priority:  len(pc.ProcessorPlugins),
	})
	return nil
}

func loadAggregator(entry pluginEntry, pc *PipelineConfig) error {
	creator, ok := pipeline.Aggregators[entry.Type]
	if !ok {
		return fmt.Errorf("unknown aggregator type: %v", entry.Type)
	}
	aggregator := creator()
	if err := decodeDetail(entry.Detail, aggregator); err != nil {
		return fmt.Errorf("aggregator %v config error: %w", entry.Type, err)
	}
	wrapper := &AggregatorWrapper{
		Config:     pc,
		Aggregator: aggregator,
		GroupsChan: pc.GroupsChan,
	}
	interval, err := aggregator.Init(pc.Context, wrapper)
	if err != nil {
		return fmt.Errorf("aggregator %v init error: %w", entry.Type, err)
	}
	if interval == 0 {
		interval = pc.GlobalConfig.AggregateIntervalMs
	}
	wrapper.Interval = time.Duration(interval) * time.Millisecond
	pc.Context.AddPlugin(entry.Type)
	pc.AggregatorPlugins = append(pc.AggregatorPlugins, wrapper)
	return nil
}

func loadFlusher(entry pluginEntry, pc *PipelineConfig) error {
	creator, ok := pipeline.Flushers[entry.Type]
	if !ok {
		return fmt.Errorf("unknown flusher type: %v", entry.Type)
	}
	flusher := creator()
	if err := decodeDetail(entry.Detail, flusher); err != nil {
		return fmt.Errorf("flusher %v config error: %w", entry.Type, err)
	}
	if err := flusher.Init(pc.Context); err != nil {
		return fmt.Errorf("flusher %v init error: %w", entry.Type, err)
	}
	pc.Context.AddPlugin(entry.Type)
	pc.FlusherPlugins = append(pc.FlusherPlugins, &FlusherWrapper{
		Config:  pc,
		Flusher: flusher,
	})
	return nil
}
