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

	"github.com/statsflow/statsflow/pkg/config"
	"github.com/statsflow/statsflow/pkg/logger"
)

func init() {
	logger.InitTestLogger()
}

func initTestCheckpoint(t *testing.T) {
	config.StatsFlowGlobalConfig.StatsFlowDataDir = t.TempDir()
	CheckPointManager.Close()
	if err := CheckPointManager.Init(); err != nil {
		t.Fatalf("checkPointManager.Init() error = %v", err)
	}
	t.Cleanup(CheckPointManager.Close)
}

func Test_checkPointManager_SaveGetCheckpoint(t *testing.T) {
	initTestCheckpoint(t)
	tests := []string{"xx", "xx", "213##13143", "~/.."}
	for _, tt := range tests {
		t.Run(tt, func(t *testing.T) {
			if err := CheckPointManager.SaveCheckpoint("1", tt, []byte(tt)); err != nil {
				t.Errorf("checkPointManager.SaveCheckpoint() error = %v", err)
			}
			if data, err := CheckPointManager.GetCheckpoint("1", tt); err != nil || string(data) != tt {
				t.Errorf("checkPointManager.GetCheckpoint() error, %v %v", err, string(data))
			}
			if err := CheckPointManager.DeleteCheckpoint("1", tt); err != nil {
				t.Errorf("checkPointManager.DeleteCheckpoint() error, %v ", err)
			}
		})
	}
}

func Test_checkPointManager_KeysAreScopedByConfig(t *testing.T) {
	initTestCheckpoint(t)
	if err := CheckPointManager.SaveCheckpoint("config_a", "offset", []byte("10")); err != nil {
		t.Fatalf("save error = %v", err)
	}
	if err := CheckPointManager.SaveCheckpoint("config_b", "offset", []byte("99")); err != nil {
		t.Fatalf("save error = %v", err)
	}
	if data, err := CheckPointManager.GetCheckpoint("config_a", "offset"); err != nil || string(data) != "10" {
		t.Errorf("checkPointManager.GetCheckpoint() error, %v %v", err, string(data))
	}
	if data, err := CheckPointManager.GetCheckpoint("config_b", "offset"); err != nil || string(data) != "99" {
		t.Errorf("checkPointManager.GetCheckpoint() error, %v %v", err, string(data))
	}
}

func Test_checkPointManager_NotInit(t *testing.T) {
	CheckPointManager.Close()
	if err := CheckPointManager.SaveCheckpoint("1", "k", []byte("v")); err != ErrCheckPointNotInit {
		t.Errorf("expected ErrCheckPointNotInit, got %v", err)
	}
	if _, err := CheckPointManager.GetCheckpoint("1", "k"); err != ErrCheckPointNotInit {
		t.Errorf("expected ErrCheckPointNotInit, got %v", err)
	}
}
