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
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/statsflow/statsflow/pkg/logger"
	"github.com/statsflow/statsflow/pkg/pipeline"
)

// ServiceHTTP accepts pushed samples over HTTP. A POST to /push carries a
// JSON body with tag strings and numeric values, each body becomes one
// record.
type ServiceHTTP struct {
	Address      string
	ReadTimeout  int
	MaxBodyBytes int64

	server    *http.Server
	context   pipeline.Context
	collector pipeline.Collector
}

type pushBody struct {
	Tags   map[string]string  `json:"tags"`
	Values map[string]float64 `json:"values"`
}

func (s *ServiceHTTP) Init(context pipeline.Context) (int, error) {
	s.context = context
	if s.Address == "" {
		s.Address = "127.0.0.1:18689"
	}
	if s.ReadTimeout <= 0 {
		s.ReadTimeout = 10
	}
	if s.MaxBodyBytes <= 0 {
		s.MaxBodyBytes = 4 * 1024 * 1024
	}
	return 0, nil
}

func (*ServiceHTTP) Description() string {
	return "http push input for statsflow"
}

func (s *ServiceHTTP) Start(collector pipeline.Collector) error {
	s.collector = collector

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.POST("/push", s.handlePush)
	router.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	s.server = &http.Server{
		Addr:        s.Address,
		Handler:     router,
		ReadTimeout: time.Duration(s.ReadTimeout) * time.Second,
	}
	logger.Info(s.context.GetRuntimeContext(), "http input listen", s.Address)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *ServiceHTTP) handlePush(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.MaxBodyBytes)
	var body pushBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(body.Values) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "values is empty"})
		return
	}
	s.collector.AddValues(body.Tags, body.Values)
	c.Status(http.StatusNoContent)
}

func (s *ServiceHTTP) Stop() error {
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func init() {
	pipeline.AddServiceCreator("service_http", func() pipeline.ServiceInput {
		return &ServiceHTTP{}
	})
}
