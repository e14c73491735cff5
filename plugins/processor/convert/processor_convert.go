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

package convert

import (
	"strconv"

	"github.com/statsflow/statsflow/pkg/logger"
	"github.com/statsflow/statsflow/pkg/models"
	"github.com/statsflow/statsflow/pkg/pipeline"
)

// ProcessorConvert parses string fields into numeric values so that the
// aggregators downstream can work on them. SourceKeys selects the fields
// to convert, an empty list converts every field.
type ProcessorConvert struct {
	SourceKeys       []string
	KeepSource       bool
	IgnoreParseError bool

	context pipeline.Context
}

func (p *ProcessorConvert) Init(context pipeline.Context) error {
	p.context = context
	return nil
}

func (*ProcessorConvert) Description() string {
	return "convert processor for statsflow, parses string fields into float64 values"
}

func (p *ProcessorConvert) ProcessRecords(records []*models.Record) []*models.Record {
	for _, record := range records {
		p.processRecord(record)
	}
	return records
}

func (p *ProcessorConvert) processRecord(record *models.Record) {
	keys := p.SourceKeys
	if len(keys) == 0 {
		keys = make([]string, 0, len(record.Fields))
		for k := range record.Fields {
			keys = append(keys, k)
		}
	}
	for _, key := range keys {
		raw, ok := record.Fields[key]
		if !ok {
			continue
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			if !p.IgnoreParseError {
				logger.Warning(p.context.GetRuntimeContext(), "CONVERT_FIELD_ALARM", "parse field error, key", key, "value", raw, "error", err)
			}
			continue
		}
		record.SetValue(key, value)
		if !p.KeepSource {
			delete(record.Fields, key)
		}
	}
}

func init() {
	pipeline.AddProcessorCreator("processor_convert", func() pipeline.Processor {
		return &ProcessorConvert{}
	})
}
