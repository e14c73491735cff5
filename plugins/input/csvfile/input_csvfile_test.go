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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statsflow/statsflow/pkg/logger"
	"github.com/statsflow/statsflow/pkg/models"
	"github.com/statsflow/statsflow/plugins/test/mock"
)

func init() {
	logger.InitTestLogger()
}

type memCollector struct {
	records []*models.Record
}

func (c *memCollector) AddFields(tags map[string]string, fields map[string]string, t ...time.Time) {
	record := models.NewRecord()
	for k, v := range tags {
		record.SetTag(k, v)
	}
	for k, v := range fields {
		record.SetField(k, v)
	}
	c.records = append(c.records, record)
}

func (c *memCollector) AddValues(tags map[string]string, values map[string]float64, t ...time.Time) {
	record := models.NewRecord()
	for k, v := range tags {
		record.SetTag(k, v)
	}
	for k, v := range values {
		record.SetValue(k, v)
	}
	c.records = append(c.records, record)
}

func (c *memCollector) AddRawRecord(record *models.Record) {
	c.records = append(c.records, record)
}

func writeCSV(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "input.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func runInput(t *testing.T, input *ServiceCSVFile, ctx *mock.EmptyContext) (*memCollector, error) {
	_, err := input.Init(ctx)
	require.NoError(t, err)
	collector := &memCollector{}
	return collector, input.Start(collector)
}

func values(records []*models.Record, key string) []float64 {
	out := make([]float64, 0, len(records))
	for _, record := range records {
		out = append(out, record.Values[key])
	}
	return out
}

const volumeCSV = `time,symbol,volume
1,BTCUSD,1
2,BTCUSD,2
3,BTCUSD,3
4,BTCUSD,4
5,BTCUSD,5
6,BTCUSD,6
7,BTCUSD,7
`

func TestCSVFileRawColumn(t *testing.T) {
	input := &ServiceCSVFile{
		FilePath:    writeCSV(t, volumeCSV),
		ValueColumn: "volume",
		TagColumns:  []string{"symbol"},
	}
	collector, err := runInput(t, input, mock.NewEmptyContext("p", "test_config"))
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6, 7}, values(collector.records, "volume"))
	assert.Equal(t, "BTCUSD", collector.records[0].Tags["symbol"])
}

func TestCSVFileSmoothedColumn(t *testing.T) {
	input := &ServiceCSVFile{
		FilePath:        writeCSV(t, volumeCSV),
		ValueColumn:     "volume",
		SmoothingWindow: 3,
	}
	collector, err := runInput(t, input, mock.NewEmptyContext("p", "test_config"))
	require.NoError(t, err)
	assert.Equal(t, []float64{1.0, 1.5, 2.0, 3.0, 4.0, 5.0, 6.0}, values(collector.records, "volume"))
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6, 7}, values(collector.records, "volume_raw"))
}

func TestCSVFileEmptyFile(t *testing.T) {
	input := &ServiceCSVFile{
		FilePath:    writeCSV(t, ""),
		ValueColumn: "volume",
	}
	collector, err := runInput(t, input, mock.NewEmptyContext("p", "test_config"))
	require.NoError(t, err)
	assert.Empty(t, collector.records)
}

func TestCSVFileHeaderOnly(t *testing.T) {
	input := &ServiceCSVFile{
		FilePath:    writeCSV(t, "time,volume\n"),
		ValueColumn: "volume",
	}
	collector, err := runInput(t, input, mock.NewEmptyContext("p", "test_config"))
	require.NoError(t, err)
	assert.Empty(t, collector.records)
}

func TestCSVFileMissingColumn(t *testing.T) {
	input := &ServiceCSVFile{
		FilePath:    writeCSV(t, volumeCSV),
		ValueColumn: "price",
	}
	_, err := runInput(t, input, mock.NewEmptyContext("p", "test_config"))
	assert.Error(t, err)
}

func TestCSVFileInvalidCellPropagates(t *testing.T) {
	input := &ServiceCSVFile{
		FilePath:    writeCSV(t, "volume\n1\nbogus\n3\n"),
		ValueColumn: "volume",
	}
	collector, err := runInput(t, input, mock.NewEmptyContext("p", "test_config"))
	require.Error(t, err)
	assert.Equal(t, []float64{1}, values(collector.records, "volume"))
}

func TestCSVFileSkipInvalidCells(t *testing.T) {
	input := &ServiceCSVFile{
		FilePath:    writeCSV(t, "volume\n1\nbogus\n3\n"),
		ValueColumn: "volume",
		SkipInvalid: true,
	}
	collector, err := runInput(t, input, mock.NewEmptyContext("p", "test_config"))
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 3}, values(collector.records, "volume"))
}

func TestCSVFileResumeFromCheckpoint(t *testing.T) {
	ctx := mock.NewEmptyContext("p", "test_config")
	path := writeCSV(t, volumeCSV)

	first := &ServiceCSVFile{FilePath: path, ValueColumn: "volume", CheckpointStep: 1}
	collector, err := runInput(t, first, ctx)
	require.NoError(t, err)
	require.Len(t, collector.records, 7)

	// same context, the saved offset points past the consumed rows
	second := &ServiceCSVFile{FilePath: path, ValueColumn: "volume", CheckpointStep: 1}
	collector, err = runInput(t, second, ctx)
	require.NoError(t, err)
	assert.Empty(t, collector.records)
}

func TestCSVFileInvalidConfig(t *testing.T) {
	input := &ServiceCSVFile{ValueColumn: "volume"}
	_, err := input.Init(mock.NewEmptyContext("p", "test_config"))
	assert.Error(t, err)

	input = &ServiceCSVFile{FilePath: "x.csv"}
	_, err = input.Init(mock.NewEmptyContext("p", "test_config"))
	assert.Error(t, err)
}
