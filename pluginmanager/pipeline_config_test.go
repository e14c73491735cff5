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
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	_ "github.com/statsflow/statsflow/plugins/aggregator/baseagg"
	_ "github.com/statsflow/statsflow/plugins/aggregator/movavg"
	"github.com/statsflow/statsflow/plugins/flusher/checker"
	_ "github.com/statsflow/statsflow/plugins/flusher/stdout"
	_ "github.com/statsflow/statsflow/plugins/input/mock"
	_ "github.com/statsflow/statsflow/plugins/processor/convert"
)

const smoothingConfigJSON = `{
	"global": {
		"InputIntervalMs": 20,
		"AggregateIntervalMs": 50,
		"FlushIntervalMs": 50
	},
	"inputs": [
		{
			"type": "metric_mock",
			"detail": {
				"Tags": {"host": "test-host"}
			}
		}
	],
	"aggregators": [
		{
			"type": "aggregator_movavg",
			"detail": {"WindowSize": 3}
		}
	],
	"flushers": [
		{
			"type": "flusher_checker",
			"detail": null
		}
	]
}`

const smoothingConfigYAML = `
global:
  InputIntervalMs: 20
inputs:
  - type: metric_mock
    detail:
      Tags:
        host: yaml-host
flushers:
  - type: flusher_checker
`

func TestPipelineConfigSmoothing(t *testing.T) {
	Convey("Given a config with a mock input and a moving average aggregator", t, func() {
		So(LoadPipelineConfig("test", "smoothing_config", smoothingConfigJSON), ShouldBeNil)
		pc, ok := PipelineConfigs["smoothing_config"]
		So(ok, ShouldBeTrue)
		defer delete(PipelineConfigs, "smoothing_config")

		So(pc.MetricPlugins, ShouldHaveLength, 1)
		So(pc.AggregatorPlugins, ShouldHaveLength, 1)
		So(pc.FlusherPlugins, ShouldHaveLength, 1)
		check, ok := pc.FlusherPlugins[0].Flusher.(*checker.FlusherChecker)
		So(ok, ShouldBeTrue)

		Convey("When the pipeline runs and stops", func() {
			pc.Start()
			for i := 0; i < 300 && check.GetRecordCount() < 5; i++ {
				time.Sleep(10 * time.Millisecond)
			}
			So(pc.Stop(false), ShouldBeNil)

			Convey("Then the checker received smoothed records in order", func() {
				So(check.GetRecordCount(), ShouldBeGreaterThanOrEqualTo, 5)
				check.Lock.RLock()
				defer check.Lock.RUnlock()
				// mock index is 1,2,3,... so the window mean is strictly increasing
				last := 0.0
				for _, record := range check.Records {
					So(record.Tags["host"], ShouldEqual, "test-host")
					So(record.Values["Index"], ShouldBeGreaterThan, last)
					last = record.Values["Index"]
				}
				// warm-up of window size 3 over 1,2,3 gives 1, 1.5, 2
				So(check.Records[0].Values["Index"], ShouldEqual, 1.0)
				So(check.Records[1].Values["Index"], ShouldEqual, 1.5)
				So(check.Records[2].Values["Index"], ShouldEqual, 2.0)
			})
		})
	})
}

func TestPipelineConfigDefaults(t *testing.T) {
	Convey("Given a config without aggregators and flushers", t, func() {
		configJSON := `{"inputs":[{"type":"metric_mock","detail":null}]}`
		So(LoadPipelineConfig("test", "defaults_config", configJSON), ShouldBeNil)
		pc := PipelineConfigs["defaults_config"]
		defer delete(PipelineConfigs, "defaults_config")

		Convey("Then the default aggregator and flusher are injected", func() {
			So(pc.AggregatorPlugins, ShouldHaveLength, 1)
			So(pc.FlusherPlugins, ShouldHaveLength, 1)
			So(pc.AggregatorPlugins[0].Aggregator.Description(), ShouldContainSubstring, "base aggregator")
			So(pc.FlusherPlugins[0].Flusher.Description(), ShouldContainSubstring, "stdout flusher")
		})
	})
}

func TestPipelineConfigYAML(t *testing.T) {
	Convey("Given a YAML config body", t, func() {
		So(LoadPipelineConfigYAML("test", "yaml_config", []byte(smoothingConfigYAML)), ShouldBeNil)
		pc := PipelineConfigs["yaml_config"]
		defer delete(PipelineConfigs, "yaml_config")

		Convey("Then it loads the same way as JSON", func() {
			So(pc.MetricPlugins, ShouldHaveLength, 1)
			So(pc.FlusherPlugins, ShouldHaveLength, 1)
			So(pc.GlobalConfig.InputIntervalMs, ShouldEqual, 20)
		})
	})
}

func TestPipelineConfigUnknownPlugin(t *testing.T) {
	Convey("Given a config naming an unknown plugin type", t, func() {
		configJSON := `{"inputs":[{"type":"metric_missing","detail":null}]}`
		err := LoadPipelineConfig("test", "broken_config", configJSON)

		Convey("Then loading fails", func() {
			So(err, ShouldNotBeNil)
		})
	})
}
