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

import "io"

// Stream is a lazy sequence of numeric samples. Next returns the next
// sample, io.EOF when the sequence is exhausted, or any other error the
// underlying source hit while producing a value. A Stream is single-pass:
// once Next returned an error, further calls return the same error.
//
// Streams do not own the resources they read from. Whoever opened the
// file, socket or reader behind a Stream is responsible for closing it.
type Stream interface {
	Next() (float64, error)
}

// StreamFunc adapts a function to the Stream interface.
type StreamFunc func() (float64, error)

func (f StreamFunc) Next() (float64, error) {
	return f()
}

type sliceStream struct {
	values []float64
	pos    int
}

// FromSlice returns a Stream that replays values in order.
func FromSlice(values []float64) Stream {
	return &sliceStream{values: values}
}

func (s *sliceStream) Next() (float64, error) {
	if s.pos >= len(s.values) {
		return 0, io.EOF
	}
	v := s.values[s.pos]
	s.pos++
	return v, nil
}

// Drain pulls the stream until io.EOF and returns everything it produced.
// Any other error is returned together with the samples read so far.
func Drain(s Stream) ([]float64, error) {
	var out []float64
	for {
		v, err := s.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, v)
	}
}
