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

package system

import (
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/host"
	"github.com/shirou/gopsutil/load"
	"github.com/shirou/gopsutil/mem"

	"github.com/statsflow/statsflow/pkg/logger"
	"github.com/statsflow/statsflow/pkg/pipeline"
)

// InputSystem samples host metrics on every collect round. The emitted
// values are plain numbers, so any statistics aggregator downstream can
// smooth or condense them.
type InputSystem struct {
	CPU  bool
	Mem  bool
	Load bool

	hostname string
	context  pipeline.Context
}

func (r *InputSystem) Init(context pipeline.Context) (int, error) {
	r.context = context
	if info, err := host.Info(); err == nil {
		r.hostname = info.Hostname
	}
	return 0, nil
}

func (r *InputSystem) Description() string {
	return "system metric input plugin for statsflow"
}

func (r *InputSystem) Collect(collector pipeline.Collector) error {
	tags := map[string]string{"hostname": r.hostname}
	values := make(map[string]float64)

	if r.CPU {
		if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
			values["cpu_percent"] = percents[0]
		} else if err != nil {
			logger.Warning(r.context.GetRuntimeContext(), "INPUT_COLLECT_ALARM", "collect cpu error", err)
		}
	}
	if r.Mem {
		if vm, err := mem.VirtualMemory(); err == nil {
			values["mem_used_percent"] = vm.UsedPercent
			values["mem_used"] = float64(vm.Used)
			values["mem_total"] = float64(vm.Total)
		} else {
			logger.Warning(r.context.GetRuntimeContext(), "INPUT_COLLECT_ALARM", "collect mem error", err)
		}
	}
	if r.Load {
		if avg, err := load.Avg(); err == nil {
			values["load_1"] = avg.Load1
			values["load_5"] = avg.Load5
			values["load_15"] = avg.Load15
		} else {
			logger.Warning(r.context.GetRuntimeContext(), "INPUT_COLLECT_ALARM", "collect load error", err)
		}
	}

	if len(values) > 0 {
		collector.AddValues(tags, values)
	}
	return nil
}

func init() {
	pipeline.AddMetricCreator("metric_system", func() pipeline.MetricInput {
		return &InputSystem{
			CPU:  true,
			Mem:  true,
			Load: true,
		}
	})
}
