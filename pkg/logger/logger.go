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

package logger

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/cihub/seelog"

	"github.com/statsflow/statsflow/pkg"
	"github.com/statsflow/statsflow/pkg/util"
)

// seelog templates
const (
	asyncPattern = `
<seelog type="asynctimer" asyncinterval="500000" minlevel="%s" >
 <outputs formatid="common">
	 <rollingfile type="size" filename="%sstatsflow_plugin.LOG" maxsize="2097152" maxrolls="10"/>
	 %s
 </outputs>
 <formats>
	 <format id="common" format="%%Date %%Time [%%LEV] [%%File:%%Line] [%%FuncShort] %%Msg%%n" />
 </formats>
</seelog>
`
	syncPattern = `
<seelog type="sync" minlevel="%s" >
 <outputs formatid="common">
	 <rollingfile type="size" filename="%sstatsflow_plugin.LOG" maxsize="2097152" maxrolls="10"/>
	 %s
 </outputs>
 <formats>
	 <format id="common" format="%%Date %%Time [%%LEV] [%%File:%%Line] [%%FuncShort] %%Msg%%n" />
 </formats>
</seelog>
`
)

const (
	FlagLevelName   = "logger-level"
	FlagConsoleName = "logger-console"
	FlagRetainName  = "logger-retain"
)

// statsLogger is the global logger shared by the whole plugin system. When
// a ContextMeta is found in the context.Context, its header is prepended
// so that every line names the config it belongs to.
var statsLogger = seelog.Disabled

var (
	loggerLevel   = flag.String(FlagLevelName, "", "debug flag")
	loggerConsole = flag.String(FlagConsoleName, "", "debug flag")
	loggerRetain  = flag.String(FlagRetainName, "", "debug flag")
)

var (
	consoleFlag bool
	retainFlag  bool
	levelFlag   string
	debugFlag   int32

	template string
	once     sync.Once
)

func Init() {
	once.Do(func() {
		initLogger(defaultProductionOptions...)
	})
}

func InitTestLogger(options ...ConfigOption) {
	once.Do(func() {
		initLogger(append(append([]ConfigOption{}, defaultTestOptions...), options...)...)
	})
}

func initLogger(options ...ConfigOption) {
	for _, option := range options {
		option()
	}
	setLogConf(util.GetCurrentBinaryPath() + "plugin_logger.xml")
}

func DebugFlag() bool {
	return atomic.LoadInt32(&debugFlag) == 1
}

func Debug(ctx context.Context, kvPairs ...interface{}) {
	if !DebugFlag() {
		return
	}
	meta, ok := ctx.Value(pkg.StatsFlowMeta).(*pkg.ContextMeta)
	if ok {
		statsLogger.Debug(meta.LoggerHeader(), generateLog(kvPairs...))
	} else {
		statsLogger.Debug(generateLog(kvPairs...))
	}
}

func Debugf(ctx context.Context, format string, params ...interface{}) {
	if !DebugFlag() {
		return
	}
	meta, ok := ctx.Value(pkg.StatsFlowMeta).(*pkg.ContextMeta)
	if ok {
		statsLogger.Debugf(meta.LoggerHeader()+format, params...)
	} else {
		statsLogger.Debugf(format, params...)
	}
}

func Info(ctx context.Context, kvPairs ...interface{}) {
	meta, ok := ctx.Value(pkg.StatsFlowMeta).(*pkg.ContextMeta)
	if ok {
		statsLogger.Info(meta.LoggerHeader(), generateLog(kvPairs...))
	} else {
		statsLogger.Info(generateLog(kvPairs...))
	}
}

func Infof(ctx context.Context, format string, params ...interface{}) {
	meta, ok := ctx.Value(pkg.StatsFlowMeta).(*pkg.ContextMeta)
	if ok {
		statsLogger.Infof(meta.LoggerHeader()+format, params...)
	} else {
		statsLogger.Infof(format, params...)
	}
}

func Warning(ctx context.Context, alarmType string, kvPairs ...interface{}) {
	msg := generateLog(kvPairs...)
	meta, ok := ctx.Value(pkg.StatsFlowMeta).(*pkg.ContextMeta)
	if ok {
		_ = statsLogger.Warn(meta.LoggerHeader(), "AlarmType:", alarmType, "\t", msg)
	} else {
		_ = statsLogger.Warn("AlarmType:", alarmType, "\t", msg)
	}
}

func Warningf(ctx context.Context, alarmType string, format string, params ...interface{}) {
	msg := fmt.Sprintf(format, params...)
	meta, ok := ctx.Value(pkg.StatsFlowMeta).(*pkg.ContextMeta)
	if ok {
		_ = statsLogger.Warn(meta.LoggerHeader(), "AlarmType:", alarmType, "\t", msg)
	} else {
		_ = statsLogger.Warn("AlarmType:", alarmType, "\t", msg)
	}
}

func Error(ctx context.Context, alarmType string, kvPairs ...interface{}) {
	msg := generateLog(kvPairs...)
	meta, ok := ctx.Value(pkg.StatsFlowMeta).(*pkg.ContextMeta)
	if ok {
		_ = statsLogger.Error(meta.LoggerHeader(), "AlarmType:", alarmType, "\t", msg)
	} else {
		_ = statsLogger.Error("AlarmType:", alarmType, "\t", msg)
	}
}

func Errorf(ctx context.Context, alarmType string, format string, params ...interface{}) {
	msg := fmt.Sprintf(format, params...)
	meta, ok := ctx.Value(pkg.StatsFlowMeta).(*pkg.ContextMeta)
	if ok {
		_ = statsLogger.Error(meta.LoggerHeader(), "AlarmType:", alarmType, "\t", msg)
	} else {
		_ = statsLogger.Error("AlarmType:", alarmType, "\t", msg)
	}
}

// Flush logs to the output when using async logger.
func Flush() {
	statsLogger.Flush()
}

// Close the logger.
func Close() {
	statsLogger.Close()
}

func setLogConf(logConfig string) {
	if !retainFlag {
		_ = os.Remove(util.GetCurrentBinaryPath() + "plugin_logger.xml")
	}
	atomic.StoreInt32(&debugFlag, 0)
	statsLogger = seelog.Disabled
	path := filepath.Clean(logConfig)
	if _, err := os.Stat(path); err != nil {
		_ = os.WriteFile(path, []byte(generateDefaultConfig()), os.ModePerm)
	}
	logger, err := seelog.LoggerFromConfigAsFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "init logger error", err)
		return
	}
	if err := logger.SetAdditionalStackDepth(1); err != nil {
		fmt.Fprintf(os.Stderr, "cannot set logger stack depth: %v\n", err)
		return
	}
	statsLogger = logger
	dat, _ := os.ReadFile(path)
	if strings.Contains(string(dat), "minlevel=\"debug\"") {
		atomic.StoreInt32(&debugFlag, 1)
	}
}

func generateLog(kvPairs ...interface{}) string {
	var logString = ""
	pairLen := len(kvPairs) / 2
	for i := 0; i < pairLen; i++ {
		logString += fmt.Sprintf("%v:%v\t", kvPairs[i<<1], kvPairs[i<<1+1])
	}
	if len(kvPairs)&0x01 != 0 {
		logString += fmt.Sprintf("%v:\t", kvPairs[len(kvPairs)-1])
	}
	return logString
}

func generateDefaultConfig() string {
	consoleStr := ""
	if consoleFlag {
		consoleStr = "<console/>"
	}
	return fmt.Sprintf(template, levelFlag, util.GetCurrentBinaryPath(), consoleStr)
}
