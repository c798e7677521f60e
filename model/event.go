// Licensed to Elasticsearch B.V. under one or more contributor
// license agreements. See the NOTICE file distributed with
// this work for additional information regarding copyright
// ownership. Elasticsearch B.V. licenses this file to you under
// the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package model

import (
	"time"

	"go.elastic.co/fastjson"
)

const (
	// Platform is reported as the "platform" of every event.
	Platform = "go"

	// TimestampFormat is the layout of the "timestamp" field: ISO-8601, UTC,
	// without fractional seconds.
	TimestampFormat = "2006-01-02T15:04:05"
)

// Event holds a single reported error occurrence.
//
// An Event is created for one captured error, mutated by each Extension in
// turn, and then handed to an event capture. It is never reused.
type Event struct {
	ID        string
	Level     Level
	Timestamp time.Time
	Message   string

	// Transaction holds "<file>#<line>" of the throw site of the captured
	// error. It stands in for an operation name, which we don't know.
	Transaction string

	Platform    string
	Tags        map[string]string
	Exception   *ExceptionList
	Request     *Request
	User        UserInfo
	Contexts    map[string]Context
	Breadcrumbs []Breadcrumb
}

// NewEvent returns an Event with the given identity and message, at
// level error, for the Go platform.
func NewEvent(id string, timestamp time.Time, message string) *Event {
	return &Event{
		ID:        id,
		Level:     LevelError,
		Timestamp: timestamp,
		Message:   message,
		Platform:  Platform,
		Tags:      make(map[string]string),
		Contexts:  make(map[string]Context),
	}
}

// AddTag sets the tag name to value, replacing any previous value.
func (e *Event) AddTag(name, value string) {
	if e.Tags == nil {
		e.Tags = make(map[string]string)
	}
	e.Tags[name] = value
}

// AddContext adds c to the event, replacing any context of the same type.
func (e *Event) AddContext(c Context) {
	if e.Contexts == nil {
		e.Contexts = make(map[string]Context)
	}
	e.Contexts[c.Type()] = c
}

// Frames calls fn for each stack frame of each exception in e.
func (e *Event) Frames(fn func(*StacktraceFrame)) {
	if e.Exception == nil {
		return
	}
	for i := range e.Exception.Values {
		frames := e.Exception.Values[i].Stacktrace.Frames
		for j := range frames {
			fn(&frames[j])
		}
	}
}

// MarshalFastJSON writes the wire representation of e to w.
func (e *Event) MarshalFastJSON(w *fastjson.Writer) error {
	o := beginObject(w)
	o.maybeSetString("event_id", e.ID)
	o.maybeSetString("level", string(e.Level))
	if !e.Timestamp.IsZero() {
		o.key("timestamp")
		w.String(e.Timestamp.UTC().Format(TimestampFormat))
	}
	o.maybeSetString("message", e.Message)
	o.maybeSetString("transaction", e.Transaction)
	o.maybeSetString("platform", e.Platform)
	o.maybeSetStringMap("tags", e.Tags)
	if e.Exception != nil && len(e.Exception.Values) > 0 {
		o.key("exception")
		if err := e.Exception.MarshalFastJSON(w); err != nil {
			return err
		}
	}
	if e.Request != nil {
		o.key("request")
		if err := e.Request.MarshalFastJSON(w); err != nil {
			return err
		}
	}
	if !e.User.isZero() {
		o.key("user")
		if err := e.User.MarshalFastJSON(w); err != nil {
			return err
		}
	}
	if len(e.Contexts) > 0 {
		o.key("contexts")
		if err := marshalContexts(w, e.Contexts); err != nil {
			return err
		}
	}
	if len(e.Breadcrumbs) > 0 {
		o.key("breadcrumbs")
		w.RawString(`{"values":[`)
		for i := range e.Breadcrumbs {
			if i > 0 {
				w.RawByte(',')
			}
			if err := e.Breadcrumbs[i].MarshalFastJSON(w); err != nil {
				return err
			}
		}
		w.RawString("]}")
	}
	o.end()
	return nil
}

// MarshalJSON returns the wire representation of e.
func (e *Event) MarshalJSON() ([]byte, error) {
	var w fastjson.Writer
	if err := e.MarshalFastJSON(&w); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}
