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

package models

import "time"

// Record is one observation flowing through a pipeline. Fields hold the
// raw textual values a source produced; Values hold numeric fields parsed
// from them (or emitted directly by numeric inputs). Processors may fill
// or rewrite either map, aggregators only look at Values.
type Record struct {
	Time   int64              `json:"time"`
	Tags   map[string]string  `json:"tags,omitempty"`
	Fields map[string]string  `json:"fields,omitempty"`
	Values map[string]float64 `json:"values,omitempty"`
}

// NewRecord creates an empty record stamped with now.
func NewRecord() *Record {
	return &Record{Time: time.Now().UnixNano()}
}

// SetField sets a raw textual field.
func (r *Record) SetField(key, value string) *Record {
	if r.Fields == nil {
		r.Fields = make(map[string]string)
	}
	r.Fields[key] = value
	return r
}

// SetValue sets a numeric field.
func (r *Record) SetValue(key string, value float64) *Record {
	if r.Values == nil {
		r.Values = make(map[string]float64)
	}
	r.Values[key] = value
	return r
}

// SetTag sets a tag.
func (r *Record) SetTag(key, value string) *Record {
	if r.Tags == nil {
		r.Tags = make(map[string]string)
	}
	r.Tags[key] = value
	return r
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	out := &Record{Time: r.Time}
	for k, v := range r.Tags {
		out.SetTag(k, v)
	}
	for k, v := range r.Fields {
		out.SetField(k, v)
	}
	for k, v := range r.Values {
		out.SetValue(k, v)
	}
	return out
}

// RecordGroup is a batch of records that share topic, source and tags.
// It is the unit flushers consume.
type RecordGroup struct {
	Topic   string            `json:"topic,omitempty"`
	Source  string            `json:"source,omitempty"`
	Tags    map[string]string `json:"tags,omitempty"`
	Records []*Record         `json:"records"`
}

// AddRecord appends a record to the group.
func (g *RecordGroup) AddRecord(r *Record) {
	g.Records = append(g.Records, r)
}
