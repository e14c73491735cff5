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

package http

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	jsoniter "github.com/json-iterator/go"

	"github.com/statsflow/statsflow/pkg/logger"
	"github.com/statsflow/statsflow/pkg/models"
	"github.com/statsflow/statsflow/pkg/pipeline"
)

const defaultTimeout = time.Minute

type retryConfig struct {
	Enable       bool
	MaxCount     uint
	DefaultDelay time.Duration
}

// FlusherHTTP posts record groups as JSON to a remote endpoint. Server
// side errors are retried with backoff, client side errors are not.
type FlusherHTTP struct {
	RemoteURL string
	Headers   map[string]string
	Query     map[string]string
	Timeout   time.Duration
	Retry     retryConfig

	context pipeline.Context
	client  *http.Client
}

func (f *FlusherHTTP) Description() string {
	return "http flusher for statsflow"
}

func (f *FlusherHTTP) Init(context pipeline.Context) error {
	f.context = context
	if f.RemoteURL == "" {
		err := errors.New("remoteURL is empty")
		logger.Error(f.context.GetRuntimeContext(), "FLUSHER_INIT_ALARM", "http flusher init fail, error", err)
		return err
	}
	if f.Timeout <= 0 {
		f.Timeout = defaultTimeout
	}
	f.client = &http.Client{
		Timeout: f.Timeout,
	}
	return nil
}

var errNotRetryable = errors.New("request is not retryable")

func (f *FlusherHTTP) Flush(configName string, groups []*models.RecordGroup) error {
	for _, group := range groups {
		data, err := jsoniter.Marshal(group)
		if err != nil {
			logger.Error(f.context.GetRuntimeContext(), "FLUSHER_FLUSH_ALARM", "http flusher encode group fail, error", err)
			continue
		}
		attempts := uint(1)
		if f.Retry.Enable {
			attempts = f.Retry.MaxCount + 1
		}
		err = retry.Do(
			func() error { return f.flush(data) },
			retry.Attempts(attempts),
			retry.Delay(f.Retry.DefaultDelay),
			retry.LastErrorOnly(true),
			retry.RetryIf(func(err error) bool {
				return !errors.Is(err, errNotRetryable)
			}),
		)
		if err != nil {
			logger.Error(f.context.GetRuntimeContext(), "FLUSHER_FLUSH_ALARM", "http flusher send group fail, error", err)
		}
	}
	return nil
}

func (f *FlusherHTTP) flush(data []byte) error {
	req, err := http.NewRequest(http.MethodPost, f.RemoteURL, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %v: %w", err, errNotRetryable)
	}
	if len(f.Query) > 0 {
		values := req.URL.Query()
		for k, v := range f.Query {
			values.Add(k, v)
		}
		req.URL.RawQuery = values.Encode()
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range f.Headers {
		req.Header.Set(k, v)
	}
	response, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	body, err := io.ReadAll(response.Body)
	_ = response.Body.Close()
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	switch response.StatusCode / 100 {
	case 2:
		return nil
	case 5:
		return fmt.Errorf("server status returned: %v, body: %s", response.Status, body)
	default:
		return fmt.Errorf("status returned: %v, body: %s: %w", response.Status, body, errNotRetryable)
	}
}

func (f *FlusherHTTP) SetUrgent(flag bool) {
}

func (f *FlusherHTTP) IsReady(configName string) bool {
	return f.client != nil
}

func (f *FlusherHTTP) Stop() error {
	f.client.CloseIdleConnections()
	return nil
}

func init() {
	pipeline.AddFlusherCreator("flusher_http", func() pipeline.Flusher {
		return &FlusherHTTP{
			Retry: retryConfig{
				Enable:       true,
				MaxCount:     3,
				DefaultDelay: time.Second,
			},
		}
	})
}
