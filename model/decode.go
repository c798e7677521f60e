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
	"io"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type wireEvent struct {
	EventID     string                            `json:"event_id"`
	Level       Level                             `json:"level"`
	Timestamp   string                            `json:"timestamp"`
	Message     string                            `json:"message"`
	Transaction string                            `json:"transaction"`
	Platform    string                            `json:"platform"`
	Tags        map[string]string                 `json:"tags"`
	Exception   *wireExceptionList                `json:"exception"`
	Request     *wireRequest                      `json:"request"`
	User        wireUser                          `json:"user"`
	Contexts    map[string]map[string]interface{} `json:"contexts"`
	Breadcrumbs *struct {
		Values []wireBreadcrumb `json:"values"`
	} `json:"breadcrumbs"`
}

type wireExceptionList struct {
	Values []struct {
		Type       string `json:"type"`
		Value      string `json:"value"`
		Stacktrace *struct {
			Frames        []wireFrame `json:"frames"`
			FramesOmitted *[2]int     `json:"frames_omitted"`
		} `json:"stacktrace"`
	} `json:"values"`
}

type wireFrame struct {
	Filename    string            `json:"filename"`
	AbsPath     string            `json:"abs_path"`
	Function    string            `json:"function"`
	Lineno      int               `json:"lineno"`
	ContextLine *string           `json:"context_line"`
	PreContext  []string          `json:"pre_context"`
	PostContext []string          `json:"post_context"`
	Vars        map[string]string `json:"vars"`
}

type wireRequest struct {
	URL         string            `json:"url"`
	Method      string            `json:"method"`
	QueryString string            `json:"query_string"`
	Cookies     map[string]string `json:"cookies"`
	Headers     map[string]string `json:"headers"`
	Data        interface{}       `json:"data"`
	Env         map[string]string `json:"env"`
}

type wireUser struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	IPAddress string `json:"ip_address"`
}

type wireBreadcrumb struct {
	Timestamp int64                  `json:"timestamp"`
	Level     Level                  `json:"level"`
	Message   string                 `json:"message"`
	Data      map[string]interface{} `json:"data"`
}

// DecodeEvent reads the wire representation of an event from r.
func DecodeEvent(r io.Reader) (*Event, error) {
	var in wireEvent
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, errors.Wrap(err, "failed to decode event")
	}
	event := &Event{
		ID:          in.EventID,
		Level:       in.Level,
		Message:     in.Message,
		Transaction: in.Transaction,
		Platform:    in.Platform,
		Tags:        in.Tags,
		User:        UserInfo(in.User),
		Contexts:    make(map[string]Context, len(in.Contexts)),
	}
	if event.Tags == nil {
		event.Tags = make(map[string]string)
	}
	if in.Timestamp != "" {
		ts, err := time.Parse(TimestampFormat, in.Timestamp)
		if err != nil {
			return nil, errors.Wrap(err, "invalid timestamp")
		}
		event.Timestamp = ts
	}
	if in.Exception != nil {
		event.Exception = &ExceptionList{}
		for _, v := range in.Exception.Values {
			info := ExceptionInfo{Type: v.Type, Value: v.Value}
			if v.Stacktrace != nil {
				info.Stacktrace.FramesOmitted = v.Stacktrace.FramesOmitted
				for _, f := range v.Stacktrace.Frames {
					info.Stacktrace.Frames = append(info.Stacktrace.Frames, StacktraceFrame(f))
				}
			}
			event.Exception.Values = append(event.Exception.Values, info)
		}
	}
	if in.Request != nil {
		req := Request(*in.Request)
		event.Request = &req
	}
	for t, fields := range in.Contexts {
		event.AddContext(decodeContext(t, fields))
	}
	if in.Breadcrumbs != nil {
		for _, b := range in.Breadcrumbs.Values {
			event.Breadcrumbs = append(event.Breadcrumbs, Breadcrumb{
				Timestamp: time.Unix(b.Timestamp, 0).UTC(),
				Level:     b.Level,
				Message:   b.Message,
				Data:      b.Data,
			})
		}
	}
	return event, nil
}

func decodeContext(t string, fields map[string]interface{}) Context {
	str := func(k string) string {
		s, _ := fields[k].(string)
		return s
	}
	switch t {
	case "browser":
		return &BrowserContext{Name: str("name"), Version: str("version")}
	case "os":
		return &OSContext{Name: str("name"), Version: str("version"), Build: str("build")}
	case "runtime":
		return &RuntimeContext{Name: str("name"), Version: str("version"), RawDescription: str("raw_description")}
	}
	return &CustomContext{Name: t, Fields: fields}
}
