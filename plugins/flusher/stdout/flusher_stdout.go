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

package stdout

import (
	"fmt"

	"github.com/cihub/seelog"
	jsoniter "github.com/json-iterator/go"

	"github.com/statsflow/statsflow/pkg/logger"
	"github.com/statsflow/statsflow/pkg/models"
	"github.com/statsflow/statsflow/pkg/pipeline"
)

const flushMsg = `
<seelog minlevel="info" >
<outputs formatid="common">
	 %s
 </outputs>
 <formats>
	 <format id="common" format="%%Date %%Time %%Msg%%n" />
 </formats>
</seelog>
`

// FlusherStdout writes record groups to the stdout or to a rolling file.
// When neither is configured the groups append to the global plugin log.
type FlusherStdout struct {
	FileName   string
	MaxSize    int
	MaxRolls   int
	Tags       bool
	OnlyStdout bool

	context   pipeline.Context
	outLogger seelog.LoggerInterface
}

// Init chooses the output channel.
func (p *FlusherStdout) Init(context pipeline.Context) error {
	p.context = context

	pattern := ""
	if p.OnlyStdout {
		pattern = "<console/>"
	} else if p.FileName != "" {
		pattern = `<rollingfile type="size" filename="%s" maxsize="%d" maxrolls="%d"/>`
		if p.MaxSize <= 0 {
			p.MaxSize = 1024 * 1024
		}
		if p.MaxRolls <= 0 {
			p.MaxRolls = 1
		}
		pattern = fmt.Sprintf(pattern, p.FileName, p.MaxSize, p.MaxRolls)
	}
	if pattern != "" {
		var err error
		p.outLogger, err = seelog.LoggerFromConfigAsString(fmt.Sprintf(flushMsg, pattern))
		if err != nil {
			logger.Error(p.context.GetRuntimeContext(), "FLUSHER_INIT_ALARM", "init stdout flusher fail, error", err)
			p.outLogger = seelog.Disabled
		}
	}
	return nil
}

func (*FlusherStdout) Description() string {
	return "stdout flusher for statsflow"
}

func (p *FlusherStdout) Flush(configName string, groups []*models.RecordGroup) error {
	for _, group := range groups {
		if p.Tags {
			if p.outLogger != nil {
				p.outLogger.Infof("[RecordGroup] topic %s, source %s, count %d, tags %v", group.Topic, group.Source, len(group.Records), group.Tags)
			} else {
				logger.Info(p.context.GetRuntimeContext(), "[RecordGroup] topic", group.Topic, "source", group.Source, "count", len(group.Records), "tags", group.Tags)
			}
		}
		for _, record := range group.Records {
			buf, err := jsoniter.Marshal(record)
			if err != nil {
				logger.Warning(p.context.GetRuntimeContext(), "FLUSHER_ENCODE_ALARM", "marshal record error", err)
				continue
			}
			if p.outLogger != nil {
				p.outLogger.Infof("%s", buf)
			} else {
				logger.Info(p.context.GetRuntimeContext(), string(buf))
			}
		}
	}
	return nil
}

func (p *FlusherStdout) SetUrgent(flag bool) {
}

// IsReady is always true for stdout.
func (p *FlusherStdout) IsReady(configName string) bool {
	return true
}

func (p *FlusherStdout) Stop() error {
	if p.outLogger != nil {
		p.outLogger.Flush()
	}
	return nil
}

func init() {
	pipeline.AddFlusherCreator("flusher_stdout", func() pipeline.Flusher {
		return &FlusherStdout{}
	})
}
