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

package stacktrace

import (
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/crashpost/crashpost/model"
)

// Builder converts errors and their raw call stacks into reported
// exceptions and stack frames.
type Builder struct {
	// RootPath is stripped from the file names of frames under it. The
	// full path is kept in the frame's AbsPath.
	RootPath string

	// Formatter formats captured argument values.
	Formatter Formatter

	// Loader loads source context. If nil, no context is loaded.
	Loader *SourceLoader

	// Filter holds patterns of files whose context and arguments are not
	// reported.
	Filter Filter

	// Resolver resolves argument names. If nil, arguments are reported
	// by position.
	Resolver SignatureResolver
}

// ExceptionList returns the exceptions for err and the errors it wraps,
// root cause first, or nil if err is nil. Consecutive errors in the chain
// reporting the same message are reported as a single exception.
func (b *Builder) ExceptionList(err error) *model.ExceptionList {
	groups := groupChain(chain(err))
	if len(groups) == 0 {
		return nil
	}
	values := make([]model.ExceptionInfo, 0, len(groups))
	for _, group := range groups {
		values = append(values, b.exceptionInfo(group))
	}
	return &model.ExceptionList{Values: lo.Reverse(values)}
}

func (b *Builder) exceptionInfo(group []error) model.ExceptionInfo {
	info := model.ExceptionInfo{
		Type:  errorType(group),
		Value: group[0].Error(),
	}
	for _, err := range group {
		if throwSite, calls, ok := stackOf(err); ok {
			info.Stacktrace = b.Stacktrace(throwSite, calls)
			break
		}
	}
	return info
}

// Stacktrace returns the frames for an error created at throwSite while
// calls were active, oldest call first.
func (b *Builder) Stacktrace(throwSite Call, calls []Call) model.Stacktrace {
	frames := make([]model.StacktraceFrame, 0, len(calls)+1)
	frames = append(frames, b.Frame(throwSite))
	for _, c := range calls {
		frames = append(frames, b.Frame(c))
	}
	return model.Stacktrace{Frames: lo.Reverse(frames)}
}

// Frame returns the stack frame for a single call.
func (b *Builder) Frame(c Call) model.StacktraceFrame {
	frame := model.StacktraceFrame{
		Filename: c.File,
		Function: c.FunctionName(),
		Lineno:   c.Line,
	}
	if frame.Filename == "" {
		frame.Filename = model.NoFile
	}
	if root := b.rootPath(); root != "" && strings.HasPrefix(frame.Filename, root) {
		frame.AbsPath = frame.Filename
		frame.Filename = frame.Filename[len(root):]
	}

	if c.File != "" && b.Filter.Match(c.File) {
		filtered := model.FilteredFile
		frame.ContextLine = &filtered
		return frame
	}
	if c.File != "" && b.Loader != nil {
		b.Loader.Load(&frame, c.File, c.Line)
	}
	if c.Args != nil {
		frame.Vars = b.vars(c)
	}
	return frame
}

func (b *Builder) rootPath() string {
	root := strings.TrimRight(b.RootPath, `/\`)
	if root == "" {
		return ""
	}
	return root + "/"
}

func (b *Builder) vars(c Call) map[string]string {
	var names []string
	if b.Resolver != nil {
		names, _ = b.Resolver.ParamNames(c)
	}
	vars := make(map[string]string, len(c.Args))
	for i, arg := range c.Args {
		name := "#" + strconv.Itoa(i+1)
		if i < len(names) && names[i] != "" {
			name = names[i]
		}
		vars[name] = b.Formatter.FormatValue(arg)
	}
	return vars
}
