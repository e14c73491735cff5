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
	"context"
	"errors"
	"flag"
	"os"
	"path/filepath"

	"github.com/syndtr/goleveldb/leveldb"

	"github.com/statsflow/statsflow/pkg/config"
	"github.com/statsflow/statsflow/pkg/logger"
)

var CheckPointFile = flag.String("CheckPointFile", "checkpoint", "checkpoint file name, base dir(data dir)")

type checkPointManager struct {
	db       *leveldb.DB
	initFlag bool
}

var CheckPointManager checkPointManager

var ErrCheckPointNotInit = errors.New("checkpoint db not init")

func (p *checkPointManager) Init() error {
	if p.initFlag {
		return nil
	}
	dataDir := config.StatsFlowGlobalConfig.StatsFlowDataDir
	if err := os.MkdirAll(dataDir, 0o750); err != nil {
		logger.Error(context.Background(), "CHECKPOINT_ALARM", "create data dir error", err, "dir", dataDir)
		return err
	}
	dbPath := filepath.Join(dataDir, *CheckPointFile)

	var err error
	p.db, err = leveldb.OpenFile(dbPath, nil)
	if err != nil {
		logger.Warning(context.Background(), "CHECKPOINT_ALARM", "open checkpoint error", err, "try recover db file", dbPath)
		p.db, err = leveldb.RecoverFile(dbPath, nil)
	}
	if err != nil {
		logger.Error(context.Background(), "CHECKPOINT_ALARM", "recover db file error", err)
		return err
	}
	p.initFlag = true
	logger.Info(context.Background(), "init checkpoint", "success")
	return nil
}

func (p *checkPointManager) Close() {
	if p.db == nil {
		return
	}
	_ = p.db.Close()
	p.db = nil
	p.initFlag = false
}

func (p *checkPointManager) SaveCheckpoint(configName, key string, value []byte) error {
	if p.db == nil {
		return ErrCheckPointNotInit
	}
	err := p.db.Put([]byte(configName+"^"+key), value, nil)
	if err != nil {
		logger.Error(context.Background(), "CHECKPOINT_SAVE_ALARM", "save checkpoint error, key", key, "error", err)
	}
	return err
}

func (p *checkPointManager) GetCheckpoint(configName, key string) ([]byte, error) {
	if p.db == nil {
		return nil, ErrCheckPointNotInit
	}
	val, err := p.db.Get([]byte(configName+"^"+key), nil)
	if err != nil && err != leveldb.ErrNotFound {
		logger.Error(context.Background(), "CHECKPOINT_GET_ALARM", "get checkpoint error, key", key, "error", err)
	}
	return val, err
}

func (p *checkPointManager) DeleteCheckpoint(configName, key string) error {
	if p.db == nil {
		return ErrCheckPointNotInit
	}
	return p.db.Delete([]byte(configName+"^"+key), nil)
}
