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

package csvfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/statsflow/statsflow/pkg/logger"
	"github.com/statsflow/statsflow/pkg/models"
	"github.com/statsflow/statsflow/pkg/pipeline"
	"github.com/statsflow/statsflow/pkg/window"
)

const checkpointKey = "csv_row_offset"

// ServiceCSVFile reads one numeric column out of a CSV file and emits a
// record per row. With SmoothingWindow > 0 the column is run through a
// sliding-window mean before it reaches the pipeline, one output per row
// with the mean of the rows seen so far during warm-up; the unsmoothed
// value travels along under <column>_raw. The row offset is
// checkpointed so a restarted config resumes instead of replaying the
// file.
type ServiceCSVFile struct {
	FilePath        string
	ValueColumn     string
	TagColumns      []string
	SmoothingWindow int
	SkipInvalid     bool
	Comma           string
	CheckpointStep  int

	shutdown  chan struct{}
	context   pipeline.Context
	collector pipeline.Collector
}

type checkpoint struct {
	Offset int `json:"offset"`
}

func (s *ServiceCSVFile) Init(context pipeline.Context) (int, error) {
	s.context = context
	if s.FilePath == "" {
		return 0, errors.New("FilePath is empty")
	}
	if s.ValueColumn == "" {
		return 0, errors.New("ValueColumn is empty")
	}
	if s.SmoothingWindow < 0 {
		return 0, window.ErrInvalidWindowSize
	}
	if s.CheckpointStep <= 0 {
		s.CheckpointStep = 100
	}
	s.shutdown = make(chan struct{})
	return 0, nil
}

func (*ServiceCSVFile) Description() string {
	return "csv file input for statsflow"
}

// columnStream pulls one value per call out of the csv reader. It is the
// upstream source of the smoothing chain and keeps the tag cells of the
// row it last returned.
type columnStream struct {
	reader      *csv.Reader
	valueIndex  int
	tagIndexes  map[string]int
	skipInvalid bool
	rowNumber   int
	tags        map[string]string
	raw         float64
	shutdown    <-chan struct{}
}

var errShutdown = errors.New("input stopped")

func (c *columnStream) Next() (float64, error) {
	for {
		select {
		case <-c.shutdown:
			return 0, errShutdown
		default:
		}
		row, err := c.reader.Read()
		if err != nil {
			return 0, err
		}
		c.rowNumber++
		if c.valueIndex >= len(row) {
			if c.skipInvalid {
				continue
			}
			return 0, fmt.Errorf("row %d misses column %d", c.rowNumber, c.valueIndex)
		}
		value, err := strconv.ParseFloat(row[c.valueIndex], 64)
		if err != nil {
			if c.skipInvalid {
				continue
			}
			return 0, fmt.Errorf("row %d: %w", c.rowNumber, err)
		}
		c.tags = make(map[string]string, len(c.tagIndexes))
		for name, idx := range c.tagIndexes {
			if idx < len(row) {
				c.tags[name] = row[idx]
			}
		}
		c.raw = value
		return value, nil
	}
}

func (s *ServiceCSVFile) Start(collector pipeline.Collector) error {
	s.collector = collector

	file, err := os.Open(s.FilePath)
	if err != nil {
		return fmt.Errorf("open %v: %w", s.FilePath, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	if len(s.Comma) > 0 {
		reader.Comma = rune(s.Comma[0])
	}

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil
		}
		return fmt.Errorf("read header: %w", err)
	}
	valueIndex := -1
	tagIndexes := make(map[string]int)
	for i, name := range header {
		if name == s.ValueColumn {
			valueIndex = i
		}
		for _, tag := range s.TagColumns {
			if name == tag {
				tagIndexes[tag] = i
			}
		}
	}
	if valueIndex < 0 {
		return fmt.Errorf("column %v not found in header %v", s.ValueColumn, header)
	}

	source := &columnStream{
		reader:      reader,
		valueIndex:  valueIndex,
		tagIndexes:  tagIndexes,
		skipInvalid: s.SkipInvalid,
		shutdown:    s.shutdown,
	}

	var cp checkpoint
	if s.context.GetCheckPointObject(checkpointKey, &cp) && cp.Offset > 0 {
		logger.Info(s.context.GetRuntimeContext(), "resume csv input, offset", cp.Offset)
		for skipped := 0; skipped < cp.Offset; skipped++ {
			if _, err := reader.Read(); err != nil {
				if err == io.EOF {
					return nil
				}
				return fmt.Errorf("skip to offset %d: %w", cp.Offset, err)
			}
			source.rowNumber++
		}
	}

	var stream window.Stream = source
	if s.SmoothingWindow > 0 {
		stream, err = window.NewMovingAverage(source, s.SmoothingWindow)
		if err != nil {
			return err
		}
	}

	emitted := cp.Offset
	for {
		value, err := stream.Next()
		if err != nil {
			if err == io.EOF || errors.Is(err, errShutdown) {
				break
			}
			logger.Error(s.context.GetRuntimeContext(), "INPUT_CSV_ALARM", "read csv error", err)
			return err
		}
		record := models.NewRecord().SetValue(s.ValueColumn, value)
		if s.SmoothingWindow > 0 {
			record.SetValue(s.ValueColumn+"_raw", source.raw)
		}
		for k, v := range source.tags {
			record.SetTag(k, v)
		}
		s.collector.AddRawRecord(record)
		emitted++
		if emitted%s.CheckpointStep == 0 {
			s.saveOffset(source.rowNumber)
		}
	}
	s.saveOffset(source.rowNumber)
	return nil
}

func (s *ServiceCSVFile) saveOffset(offset int) {
	if err := s.context.SaveCheckPointObject(checkpointKey, &checkpoint{Offset: offset}); err != nil {
		logger.Warning(s.context.GetRuntimeContext(), "CHECKPOINT_ALARM", "save csv offset error", err)
	}
}

func (s *ServiceCSVFile) Stop() error {
	close(s.shutdown)
	return nil
}

func init() {
	pipeline.AddServiceCreator("service_csvfile", func() pipeline.ServiceInput {
		return &ServiceCSVFile{}
	})
}
