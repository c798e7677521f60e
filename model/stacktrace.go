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

// Stacktrace holds stack frames ordered from the oldest call to the most
// recent one, i.e. the throw site is the last frame.
type Stacktrace struct {
	Frames []StacktraceFrame

	// FramesOmitted holds the start and end index of frames removed from
	// the middle of a truncated stack trace, if any.
	FramesOmitted *[2]int
}

func (s *Stacktrace) empty() bool {
	return len(s.Frames) == 0 && s.FramesOmitted == nil
}

// MarshalFastJSON writes s to w.
func (s *Stacktrace) MarshalFastJSON(w *fastjson.Writer) error {
	o := beginObject(w)
	o.key("frames")
	w.RawByte('[')
	for i := range s.Frames {
		if i > 0 {
			w.RawByte(',')
		}
		if err := s.Frames[i].MarshalFastJSON(w); err != nil {
			return err
		}
	}
	w.RawByte(']')
	if s.FramesOmitted != nil {
		o.key("frames_omitted")
		w.RawByte('[')
		w.Int64(int64(s.FramesOmitted[0]))
		w.RawByte(',')
		w.Int64(int64(s.FramesOmitted[1]))
		w.RawByte(']')
	}
	o.end()
	return nil
}
