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
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/statsflow/statsflow/pkg"
)

func TestGenerateLogPairs(t *testing.T) {
	assert.Equal(t, "key:val\t", generateLog("key", "val"))
	assert.Equal(t, "a:1\tb:2\t", generateLog("a", 1, "b", 2))
	// odd trailing key keeps an empty value slot
	assert.Equal(t, "a:1\tdangling:\t", generateLog("a", 1, "dangling"))
	assert.Equal(t, "", generateLog())
}

func TestLoggingWithContextMetaDoesNotPanic(t *testing.T) {
	InitTestLogger(OptionOpenConsole, OptionDebugLevel)
	ctx, meta := pkg.NewContextMeta("pipeline", "config")
	assert.Equal(t, "[config,pipeline]\t", meta.LoggerHeader())

	Info(ctx, "stage", "start")
	Debug(ctx, "detail", 42)
	Warning(ctx, "TEST_ALARM", "reason", "none")
	Error(context.Background(), "TEST_ALARM", "reason", "none")
	Flush()
}
