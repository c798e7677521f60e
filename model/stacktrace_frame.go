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

const (
	// NoFile is the filename of frames without a source location.
	NoFile = "{no file}"

	// FilteredFile replaces the context line of frames whose source file
	// matches a filter pattern.
	FilteredFile = "### FILTERED FILE ###"
)

// StacktraceFrame holds a single frame of a stack trace.
type StacktraceFrame struct {
	// Filename holds the path of the source file, relative to the root
	// path if one is configured, or NoFile.
	Filename string

	// AbsPath holds the absolute path of the source file, when Filename
	// has been made relative.
	AbsPath string

	Function string

	// Lineno holds the line number, or 0 when unknown.
	Lineno int

	// ContextLine holds the source line at Lineno, or nil when no source
	// context was loaded. A blank source line is a non-nil empty string.
	ContextLine *string
	PreContext  []string
	PostContext []string

	// Vars maps parameter names, or "#1", "#2", ... when the names are not
	// known, to formatted argument values.
	Vars map[string]string
}

// MarshalFastJSON writes f to w.
func (f *StacktraceFrame) MarshalFastJSON(w *fastjson.Writer) error {
	o := beginObject(w)
	o.maybeSetString("filename", f.Filename)
	o.maybeSetString("abs_path", f.AbsPath)
	o.maybeSetString("function", f.Function)
	o.maybeSetInt("lineno", f.Lineno)
	if f.ContextLine != nil {
		o.key("context_line")
		w.String(*f.ContextLine)
	}
	o.maybeSetStrings("pre_context", f.PreContext)
	o.maybeSetStrings("post_context", f.PostContext)
	o.maybeSetStringMap("vars", f.Vars)
	o.end()
	return nil
}
