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

package window

// MovingAverage smooths a Stream with a sliding window: every Next pulls
// exactly one sample from the upstream stream, appends it to the window
// and returns the mean of the samples currently buffered. The output
// sequence therefore has the same length as the input sequence, with the
// first size-1 outputs averaged over a partially filled window.
//
// Errors from the upstream stream, io.EOF included, pass through
// unchanged; values already emitted stay valid. MovingAverage is
// single-pass and not safe for concurrent use.
type MovingAverage struct {
	source Stream
	window *Window
}

// NewMovingAverage chains a moving-average filter of the given window
// size after source. It returns ErrInvalidWindowSize if size < 1; no
// sample is consumed until the first Next call.
func NewMovingAverage(source Stream, size int) (*MovingAverage, error) {
	return NewMovingAverageWithResync(source, size, DefaultResyncInterval)
}

// NewMovingAverageWithResync is NewMovingAverage with an explicit
// running-sum resynchronization interval, see NewWindowWithResync.
func NewMovingAverageWithResync(source Stream, size int, resyncInterval uint64) (*MovingAverage, error) {
	w, err := NewWindowWithResync(size, resyncInterval)
	if err != nil {
		return nil, err
	}
	return &MovingAverage{source: source, window: w}, nil
}

// Next pulls one sample from the upstream stream and returns the mean of
// the last Cap() samples seen, or of all samples seen while warming up.
func (m *MovingAverage) Next() (float64, error) {
	v, err := m.source.Next()
	if err != nil {
		return 0, err
	}
	m.window.Push(v)
	return m.window.Mean(), nil
}

// WindowLen reports how many samples the filter currently buffers.
func (m *MovingAverage) WindowLen() int { return m.window.Len() }
