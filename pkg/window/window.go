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

import (
	"errors"
	"math"
)

// ErrInvalidWindowSize is returned when a window is requested with a
// capacity below 1.
var ErrInvalidWindowSize = errors.New("window size must be at least 1")

// DefaultResyncInterval is the default number of pushes between exact
// recomputations of the running sum. Repeated add/subtract on float64
// accumulates rounding error on long streams; recomputing from the buffer
// bounds the drift while keeping the per-push cost amortized O(1).
const DefaultResyncInterval = 10000

// Window is a bounded FIFO buffer over the most recent samples of a
// stream. Push appends a sample and evicts the oldest one once the buffer
// is at capacity, keeping a running sum so that Mean is O(1).
//
// Window is not safe for concurrent use; every traversal of a stream is
// expected to create its own instance.
type Window struct {
	buf    []float64
	head   int // index of the oldest sample
	size   int
	sum    float64
	pushes uint64
	resync uint64
}

// NewWindow creates an empty window with capacity size.
// It returns ErrInvalidWindowSize if size < 1.
func NewWindow(size int) (*Window, error) {
	return NewWindowWithResync(size, DefaultResyncInterval)
}

// NewWindowWithResync creates an empty window that recomputes its running
// sum from the buffer every resyncInterval pushes. A resyncInterval of 0
// disables resynchronization.
func NewWindowWithResync(size int, resyncInterval uint64) (*Window, error) {
	if size < 1 {
		return nil, ErrInvalidWindowSize
	}
	return &Window{
		buf:    make([]float64, 0, size),
		resync: resyncInterval,
	}, nil
}

// Push appends v, evicting the oldest sample when the window is full.
// It returns the evicted sample and whether an eviction happened.
func (w *Window) Push(v float64) (evicted float64, ok bool) {
	if w.size < cap(w.buf) {
		w.buf = append(w.buf, v)
		w.size++
		w.sum += v
	} else {
		evicted = w.buf[w.head]
		w.buf[w.head] = v
		w.head = (w.head + 1) % w.size
		w.sum += v - evicted
		ok = true
	}
	w.pushes++
	if w.resync > 0 && w.pushes%w.resync == 0 {
		w.sum = w.Sum()
	}
	return evicted, ok
}

// Len returns the number of samples currently held.
func (w *Window) Len() int { return w.size }

// Cap returns the window capacity.
func (w *Window) Cap() int { return cap(w.buf) }

// Sum recomputes the exact sum of the buffered samples in O(len).
func (w *Window) Sum() float64 {
	var s float64
	for _, v := range w.buf {
		s += v
	}
	return s
}

// Mean returns the arithmetic mean of the buffered samples using the
// running sum. During warm-up the divisor is the current length, not the
// capacity. Mean over an empty window is NaN.
func (w *Window) Mean() float64 {
	if w.size == 0 {
		return math.NaN()
	}
	return w.sum / float64(w.size)
}

// Values copies the buffered samples out in arrival order.
func (w *Window) Values() []float64 {
	out := make([]float64, 0, w.size)
	for i := 0; i < w.size; i++ {
		out = append(out, w.buf[(w.head+i)%w.size])
	}
	return out
}

// Min returns the smallest buffered sample, or NaN when empty.
func (w *Window) Min() float64 {
	if w.size == 0 {
		return math.NaN()
	}
	m := w.buf[0]
	for _, v := range w.buf[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// Max returns the largest buffered sample, or NaN when empty.
func (w *Window) Max() float64 {
	if w.size == 0 {
		return math.NaN()
	}
	m := w.buf[0]
	for _, v := range w.buf[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// StdDev returns the population standard deviation of the buffered
// samples, or NaN when empty.
func (w *Window) StdDev() float64 {
	if w.size == 0 {
		return math.NaN()
	}
	mean := w.Sum() / float64(w.size)
	var acc float64
	for _, v := range w.buf {
		d := v - mean
		acc += d * d
	}
	return math.Sqrt(acc / float64(w.size))
}

// Reset empties the window without releasing the buffer.
func (w *Window) Reset() {
	w.buf = w.buf[:0]
	w.head = 0
	w.size = 0
	w.sum = 0
	w.pushes = 0
}
