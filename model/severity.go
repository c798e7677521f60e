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
	"runtime"
	"strconv"

	"github.com/pkg/errors"
)

// Severity is a legacy numeric error severity code. The values are bit
// flags, so a table keyed by Severity may also be built from masks.
type Severity int

const (
	SeverityError            Severity = 1
	SeverityWarning          Severity = 2
	SeverityParse            Severity = 4
	SeverityNotice           Severity = 8
	SeverityCoreError        Severity = 16
	SeverityCoreWarning      Severity = 32
	SeverityCompileError     Severity = 64
	SeverityCompileWarning   Severity = 128
	SeverityUserError        Severity = 256
	SeverityUserWarning      Severity = 512
	SeverityUserNotice       Severity = 1024
	SeverityStrict           Severity = 2048
	SeverityRecoverableError Severity = 4096
	SeverityDeprecated       Severity = 8192
	SeverityUserDeprecated   Severity = 16384
)

var severityNames = map[Severity]string{
	SeverityError:            "error",
	SeverityWarning:          "warning",
	SeverityParse:            "parse",
	SeverityNotice:           "notice",
	SeverityCoreError:        "core_error",
	SeverityCoreWarning:      "core_warning",
	SeverityCompileError:     "compile_error",
	SeverityCompileWarning:   "compile_warning",
	SeverityUserError:        "user_error",
	SeverityUserWarning:      "user_warning",
	SeverityUserNotice:       "user_notice",
	SeverityStrict:           "strict",
	SeverityRecoverableError: "recoverable_error",
	SeverityDeprecated:       "deprecated",
	SeverityUserDeprecated:   "user_deprecated",
}

// String returns the name of s, such as "user_warning".
func (s Severity) String() string {
	if name, ok := severityNames[s]; ok {
		return name
	}
	return "severity(" + strconv.Itoa(int(s)) + ")"
}

// ParseSeverity returns the Severity with the given name.
func ParseSeverity(name string) (Severity, bool) {
	for s, n := range severityNames {
		if n == name {
			return s, true
		}
	}
	return 0, false
}

// SeverityCarrier is implemented by errors that carry a legacy severity code.
type SeverityCarrier interface {
	error
	Severity() Severity
}

// severityError is an error annotated with a severity code.
type severityError struct {
	err      error
	msg      string
	severity Severity
	stack    []uintptr
}

// NewSeverityError returns an error with the given message and severity,
// recording the stack of its caller.
func NewSeverityError(severity Severity, message string) error {
	pcs := make([]uintptr, 64)
	n := runtime.Callers(2, pcs)
	return &severityError{msg: message, severity: severity, stack: pcs[:n]}
}

// WithSeverity annotates err with severity. If err is nil, WithSeverity
// returns nil.
func WithSeverity(err error, severity Severity) error {
	if err == nil {
		return nil
	}
	return &severityError{err: err, severity: severity}
}

func (e *severityError) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	return e.msg
}

func (e *severityError) Severity() Severity { return e.severity }
func (e *severityError) Unwrap() error      { return e.err }

// StackTrace returns the stack recorded by NewSeverityError, if any.
func (e *severityError) StackTrace() errors.StackTrace {
	if len(e.stack) == 0 {
		return nil
	}
	st := make(errors.StackTrace, len(e.stack))
	for i, pc := range e.stack {
		st[i] = errors.Frame(pc)
	}
	return st
}
