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

package modelprocessor

import (
	"context"
	"net/http"
	"strconv"

	"github.com/pkg/errors"

	"github.com/crashpost/crashpost/model"
	"github.com/crashpost/crashpost/stacktrace"
)

// DefaultErrorLevels returns the default mapping of error severities to
// event levels.
func DefaultErrorLevels() map[model.Severity]model.Level {
	return map[model.Severity]model.Level{
		model.SeverityDeprecated:       model.LevelWarning,
		model.SeverityUserDeprecated:   model.LevelWarning,
		model.SeverityWarning:          model.LevelWarning,
		model.SeverityUserWarning:      model.LevelWarning,
		model.SeverityRecoverableError: model.LevelWarning,
		model.SeverityError:            model.LevelFatal,
		model.SeverityParse:            model.LevelFatal,
		model.SeverityCoreError:        model.LevelFatal,
		model.SeverityCoreWarning:      model.LevelFatal,
		model.SeverityCompileError:     model.LevelFatal,
		model.SeverityCompileWarning:   model.LevelFatal,
		model.SeverityUserError:        model.LevelError,
		model.SeverityNotice:           model.LevelInfo,
		model.SeverityUserNotice:       model.LevelInfo,
		model.SeverityStrict:           model.LevelInfo,
	}
}

// ExceptionReporter is a model.Extension that reports the captured error
// chain as the event's exceptions.
//
// If the error carries a severity, the event level is set according to
// ErrorLevels, defaulting to model.LevelError for unmapped severities.
type ExceptionReporter struct {
	Builder *stacktrace.Builder

	// ErrorLevels maps severities to event levels. If nil,
	// DefaultErrorLevels is used.
	ErrorLevels map[model.Severity]model.Level
}

// NewExceptionReporter returns an ExceptionReporter building stack traces
// with builder.
func NewExceptionReporter(builder *stacktrace.Builder) *ExceptionReporter {
	return &ExceptionReporter{Builder: builder, ErrorLevels: DefaultErrorLevels()}
}

// Apply sets the exceptions, transaction and level of event.
func (r *ExceptionReporter) Apply(ctx context.Context, event *model.Event, err error, req *http.Request) {
	if err == nil {
		return
	}
	var carrier model.SeverityCarrier
	if errors.As(err, &carrier) {
		event.Level = r.level(carrier.Severity())
	}

	builder := r.Builder
	if builder == nil {
		builder = &stacktrace.Builder{}
	}
	event.Exception = builder.ExceptionList(err)
	event.Transaction = transaction(event.Exception)
}

func (r *ExceptionReporter) level(severity model.Severity) model.Level {
	levels := r.ErrorLevels
	if levels == nil {
		levels = DefaultErrorLevels()
	}
	if level, ok := levels[severity]; ok && level != "" {
		return level
	}
	return model.LevelError
}

// transaction returns "<file>#<line>" for the location where the last
// exception in list was created.
func transaction(list *model.ExceptionList) string {
	if list == nil || len(list.Values) == 0 {
		return ""
	}
	frames := list.Values[len(list.Values)-1].Stacktrace.Frames
	if len(frames) == 0 {
		return ""
	}
	frame := frames[len(frames)-1]
	file := frame.AbsPath
	if file == "" {
		file = frame.Filename
	}
	if file == model.NoFile {
		return ""
	}
	return file + "#" + strconv.Itoa(frame.Lineno)
}
