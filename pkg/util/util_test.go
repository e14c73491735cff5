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

package util

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCutString(t *testing.T) {
	assert.Equal(t, "abc", CutString("abc", 10))
	assert.Equal(t, "abcde", CutString("abcdefgh", 5))
}

func TestSleepShutdown(t *testing.T) {
	shutdown := make(chan struct{})
	close(shutdown)
	begin := time.Now()
	assert.True(t, Sleep(time.Minute, shutdown))
	assert.Less(t, time.Since(begin), time.Second)
}

func TestNewPackIDPrefix(t *testing.T) {
	prefix := NewPackIDPrefix("config-1")
	assert.True(t, strings.HasSuffix(prefix, "-"))
	assert.Greater(t, len(prefix), 1)
}

func TestPathExists(t *testing.T) {
	ok, err := PathExists(t.TempDir())
	assert.NoError(t, err)
	assert.True(t, ok)
	ok, err = PathExists("/definitely/not/here")
	assert.NoError(t, err)
	assert.False(t, ok)
}
