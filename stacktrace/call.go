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
	"reflect"
	"runtime"

	"github.com/pkg/errors"
)

// Call is one entry of a raw call stack: a call to Function, currently
// executing at File:Line.
type Call struct {
	File     string
	Line     int
	Function string

	// Class holds the receiver type of a method call, if any.
	Class string

	// Static reports whether a method is called without an instance, as
	// with a method expression.
	Static bool

	// Closure reports whether the call is to an anonymous function
	// defined inside Function.
	Closure bool

	// Args holds the argument values, if they were captured.
	Args []interface{}
}

// FunctionName returns the reported function name of c: "Class->Function"
// for instance calls, "Class::Function" for static calls, and Function
// otherwise. Closures get a "{closure}" suffix.
func (c Call) FunctionName() string {
	name := c.Function
	if c.Closure {
		if name == "" {
			name = "{closure}"
		} else {
			name += ".{closure}"
		}
	}
	switch {
	case c.Class == "":
		return name
	case c.Static:
		return c.Class + "::" + name
	}
	return c.Class + "->" + name
}

// Thrower is implemented by errors that carry their own raw call stack.
type Thrower interface {
	error

	// ThrowSite returns the location where the error was created.
	ThrowSite() Call

	// Calls returns the calls active when the error was created, innermost
	// first, excluding the throw site.
	Calls() []Call
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// CallFromFrame returns the Call described by a runtime frame.
func CallFromFrame(frame runtime.Frame) Call {
	fn := parseFuncName(frame.Function)
	return Call{
		File:     frame.File,
		Line:     frame.Line,
		Function: fn.function,
		Class:    fn.class,
		Closure:  fn.closure,
	}
}

func resolveCalls(pcs []uintptr) []Call {
	if len(pcs) == 0 {
		return nil
	}
	var calls []Call
	frames := runtime.CallersFrames(pcs)
	for {
		frame, more := frames.Next()
		calls = append(calls, CallFromFrame(frame))
		if !more {
			break
		}
	}
	return calls
}

// stackOf returns the raw call stack carried by err itself, not by the
// errors it wraps.
func stackOf(err error) (throwSite Call, calls []Call, ok bool) {
	switch err := err.(type) {
	case Thrower:
		return err.ThrowSite(), err.Calls(), true
	case stackTracer:
		st := err.StackTrace()
		pcs := make([]uintptr, len(st))
		for i, frame := range st {
			pcs[i] = uintptr(frame)
		}
		resolved := resolveCalls(pcs)
		if len(resolved) == 0 {
			return Call{}, nil, false
		}
		return resolved[0], resolved[1:], true
	}
	return Call{}, nil, false
}

// HasStack reports whether err, or any error it wraps, carries a raw call
// stack.
func HasStack(err error) bool {
	for _, link := range chain(err) {
		if _, _, ok := stackOf(link); ok {
			return true
		}
	}
	return false
}

// WithCallers annotates err with the stack of the caller of WithCallers.
// The returned error reports the same message as err, and unwraps to it.
// WithCallers returns nil if err is nil.
func WithCallers(err error, skip int) error {
	if err == nil {
		return nil
	}
	pcs := make([]uintptr, 64)
	n := runtime.Callers(skip+2, pcs)
	return &callersError{error: err, pcs: pcs[:n]}
}

type callersError struct {
	error
	pcs []uintptr
}

func (e *callersError) Unwrap() error {
	return e.error
}

func (e *callersError) StackTrace() errors.StackTrace {
	st := make(errors.StackTrace, len(e.pcs))
	for i, pc := range e.pcs {
		st[i] = errors.Frame(pc)
	}
	return st
}

const maxChainLength = 100

// chain returns err followed by the errors it wraps, outermost first.
func chain(err error) []error {
	var links []error
	for err != nil && len(links) < maxChainLength {
		links = append(links, err)
		next := errors.Unwrap(err)
		if next == nil {
			if causer, ok := err.(interface{ Cause() error }); ok {
				if cause := causer.Cause(); cause != err {
					next = cause
				}
			}
		}
		err = next
	}
	return links
}

// groupChain splits the links of an error chain into runs of consecutive
// errors with identical messages.
func groupChain(links []error) [][]error {
	var groups [][]error
	for i, link := range links {
		if i > 0 && link.Error() == links[i-1].Error() {
			last := len(groups) - 1
			groups[last] = append(groups[last], link)
			continue
		}
		groups = append(groups, []error{link})
	}
	return groups
}

var decoratorPackages = map[string]bool{
	"github.com/pkg/errors":                  true,
	reflect.TypeOf(callersError{}).PkgPath(): true,
}

// errorType returns the reported type of a group of errors with the same
// message: the innermost error that is not a pure decorator.
func errorType(group []error) string {
	for i := len(group) - 1; i >= 0; i-- {
		if !decoratorPackages[derefType(group[i]).PkgPath()] {
			return typeName(group[i])
		}
	}
	return typeName(group[len(group)-1])
}

func derefType(v interface{}) reflect.Type {
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

func typeName(v interface{}) string {
	return derefType(v).String()
}
