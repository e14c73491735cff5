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

package pipeline

// MetricInput is an input driven by the runner: Collect is called once
// per interval and adds whatever the input gathered to the collector.
type MetricInput interface {
	// Init called for init some system resources, like socket, mutex...
	// return call interval(ms) and error flag, if interval is 0, use default interval
	Init(Context) (int, error)

	// Description returns a one-sentence description on the input.
	Description() string

	// Collect adds gathered records to the collector. Called every interval.
	Collect(Collector) error
}

// ServiceInput is an input that drives itself: Start runs on its own
// goroutine and keeps collecting until Stop is called. Sources that read
// a stream to exhaustion (files, sockets) belong here.
type ServiceInput interface {
	// Init called for init some system resources, like socket, mutex...
	Init(Context) (int, error)

	// Description returns a one-sentence description on the input.
	Description() string

	// Start the service, whatever that may be. Blocks until the stream is
	// exhausted or Stop is called.
	Start(Collector) error

	// Stop stops the service and closes any necessary channels and connections.
	Stop() error
}
