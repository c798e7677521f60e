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
	"fmt"
	"math"
	"net"
	"os"
	"reflect"
	"runtime"
	"strconv"
	"strings"
	"unicode/utf8"
)

// DefaultMaxStringLength is the default length beyond which formatted
// strings are truncated.
const DefaultMaxStringLength = 200

const maxPointerDepth = 8

var slashes = strings.NewReplacer(`\`, `\\`, `"`, `\"`, `'`, `\'`, "\x00", `\0`)

// MethodRef pairs a receiver with a method name. Receiver is either an
// instance, or a string holding a type name.
type MethodRef struct {
	Receiver interface{}
	Method   string
}

// Formatter renders captured argument values as short strings.
type Formatter struct {
	// MaxStringLength is the length in bytes beyond which strings are
	// truncated. Zero means DefaultMaxStringLength.
	MaxStringLength int
}

// FormatValue returns a short, deterministic rendering of v.
// FormatValue never panics.
func (f Formatter) FormatValue(v interface{}) (formatted string) {
	defer func() {
		if r := recover(); r != nil {
			formatted = "{unknown type}"
		}
	}()
	return f.formatValue(v, 0)
}

func (f Formatter) formatValue(v interface{}, depth int) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case string:
		return f.formatString(v)
	case MethodRef:
		return formatMethodRef(v)
	case *MethodRef:
		if v == nil {
			return "null"
		}
		return formatMethodRef(*v)
	case *os.File:
		if v == nil {
			return "null"
		}
		if !fileOpen(v) {
			return "{unknown type}"
		}
		return "{stream}"
	case net.Conn:
		return "{socket}"
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32:
		return formatFloat(rv.Float(), 32)
	case reflect.Float64:
		return formatFloat(rv.Float(), 64)
	case reflect.String:
		return f.formatString(rv.String())
	case reflect.Slice, reflect.Array, reflect.Map:
		return "array[" + strconv.Itoa(rv.Len()) + "]"
	case reflect.Func:
		if rv.IsNil() {
			return "null"
		}
		return formatFunc(rv)
	case reflect.Struct:
		return formatType(rv.Type())
	case reflect.Ptr:
		if rv.IsNil() {
			return "null"
		}
		if elem := rv.Elem(); elem.Kind() == reflect.Struct {
			return formatType(elem.Type())
		}
		if depth >= maxPointerDepth {
			return "{" + rv.Kind().String() + "}"
		}
		return f.formatValue(rv.Elem().Interface(), depth+1)
	case reflect.Chan, reflect.Interface:
		if rv.IsNil() {
			return "null"
		}
	}
	return "{" + rv.Kind().String() + "}"
}

// fileOpen reports whether f has not been closed. Unlike f.Fd, it leaves
// the descriptor's blocking mode and deadlines untouched.
func fileOpen(f *os.File) bool {
	raw, err := f.SyscallConn()
	if err != nil {
		return false
	}
	return raw.Control(func(uintptr) {}) == nil
}

func (f Formatter) formatString(s string) string {
	max := f.MaxStringLength
	if max <= 0 {
		max = DefaultMaxStringLength
	}
	if len(s) > max {
		cut := max
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut] + "...[" + strconv.Itoa(len(s)) + "]"
	}
	return `"` + slashes.Replace(s) + `"`
}

// formatFloat formats v with 6 significant digits, prefixed with "~" if
// that loses precision.
func formatFloat(v float64, bitSize int) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	s := strconv.FormatFloat(v, 'g', 6, bitSize)
	parsed, err := strconv.ParseFloat(s, bitSize)
	if err == nil && parsed == v {
		return s
	}
	return "~" + s
}

func formatType(t reflect.Type) string {
	if t.Name() == "" {
		return "{object}"
	}
	return "{" + t.String() + "}"
}

func formatMethodRef(ref MethodRef) string {
	if class, ok := ref.Receiver.(string); ok {
		return class + "::" + ref.Method + "()"
	}
	t := reflect.TypeOf(ref.Receiver)
	if t == nil {
		return "null::" + ref.Method + "()"
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return "{" + t.String() + "}->" + ref.Method + "()"
}

func formatFunc(rv reflect.Value) string {
	fn := runtime.FuncForPC(rv.Pointer())
	if fn == nil {
		return "{func}"
	}
	name := fn.Name()
	if bound := strings.TrimSuffix(name, "-fm"); bound != name {
		fname := parseFuncName(bound)
		return "{" + fname.class + "}->" + fname.function + "()"
	}
	fname := parseFuncName(name)
	switch {
	case fname.closure:
		file, line := fn.FileLine(fn.Entry())
		return fmt.Sprintf("{Closure in %s(%d)}", file, line)
	case fname.class != "":
		return fname.class + "::" + fname.function + "()"
	}
	return fname.function + "()"
}
