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
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
)

const PackIDTagKey = "__pack_id__"

var (
	currentBinaryPath string
	binaryPathOnce    sync.Once
)

// GetCurrentBinaryPath returns the directory of the running binary,
// with a trailing separator.
func GetCurrentBinaryPath() string {
	binaryPathOnce.Do(func() {
		exePath, err := os.Executable()
		if err != nil {
			currentBinaryPath = "./"
			return
		}
		currentBinaryPath = filepath.Dir(exePath) + string(os.PathSeparator)
	})
	return currentBinaryPath
}

// PathExists reports whether path exists on disk.
func PathExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// Sleep returns true if shutdown is signaled before interval elapses.
func Sleep(interval time.Duration, shutdown <-chan struct{}) bool {
	select {
	case <-time.After(interval):
		return false
	case <-shutdown:
		return true
	}
}

// RandomSleep sleeps around base; kept as a separate name so callers that
// want jittered scheduling read naturally.
func RandomSleep(base time.Duration, precisionLose float64, shutdown <-chan struct{}) bool {
	return Sleep(base, shutdown)
}

// CutString truncates val to at most maxLen bytes.
func CutString(val string, maxLen int) string {
	if len(val) < maxLen {
		return val
	}
	return val[0:maxLen]
}

// NewPackIDPrefix builds a pack ID prefix from a config name, a stable
// 64-bit hash rendered in upper hex plus a dash. Groups flushed by the
// same config share the prefix, the suffix is a per-group sequence number.
func NewPackIDPrefix(configName string) string {
	return fmt.Sprintf("%X-", xxhash.Sum64String(configName+strconv.FormatInt(time.Now().UnixNano(), 10)))
}
