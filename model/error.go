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
	"go.elastic.co/fastjson"
)

// ExceptionList holds a chain of exceptions, root cause first and the
// captured error last.
type ExceptionList struct {
	Values []ExceptionInfo
}

// ExceptionInfo holds a single link of an exception chain.
type ExceptionInfo struct {
	// Type holds the Go type of the error, e.g. "*fs.PathError".
	Type string

	// Value holds the error message.
	Value string

	Stacktrace Stacktrace
}

// MarshalFastJSON writes l to w.
func (l *ExceptionList) MarshalFastJSON(w *fastjson.Writer) error {
	w.RawString(`{"values":[`)
	for i := range l.Values {
		if i > 0 {
			w.RawByte(',')
		}
		if err := l.Values[i].MarshalFastJSON(w); err != nil {
			return err
		}
	}
	w.RawString("]}")
	return nil
}

// MarshalFastJSON writes e to w.
func (e *ExceptionInfo) MarshalFastJSON(w *fastjson.Writer) error {
	o := beginObject(w)
	o.maybeSetString("type", e.Type)
	o.maybeSetString("value", e.Value)
	if !e.Stacktrace.empty() {
		o.key("stacktrace")
		if err := e.Stacktrace.MarshalFastJSON(w); err != nil {
			return err
		}
	}
	o.end()
	return nil
}
