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
	"regexp"
	"strings"
)

var closureSegment = regexp.MustCompile(`^(func\d+|\d+|gowrap\d+|deferwrap\d+)$`)

// funcName is a Go runtime function name decomposed into the parts
// reported in a stack frame.
type funcName struct {
	// pkg is the package name, without the import path.
	pkg string

	// class is "<pkg>.<Type>" for methods, and empty otherwise.
	class string

	// function is the method name for methods, and "<pkg>.<Func>"
	// otherwise. It is empty for package-level closures.
	function string

	closure bool
}

// parseFuncName decomposes a runtime function name, such as
// "github.com/a/b.(*T).Method.func1", into its parts. Dots in the last
// element of the import path are escaped by the runtime as "%2e".
func parseFuncName(name string) funcName {
	name = strings.ReplaceAll(name, "[...]", "")
	lastSlash := strings.LastIndexByte(name, '/')
	dot := strings.IndexByte(name[lastSlash+1:], '.')
	if dot < 0 {
		return funcName{function: name}
	}
	pkgEnd := lastSlash + 1 + dot
	fn := funcName{pkg: strings.ReplaceAll(name[lastSlash+1:pkgEnd], "%2e", ".")}

	var parts []string
	for _, part := range strings.Split(name[pkgEnd+1:], ".") {
		if part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) == 0 {
		fn.function = fn.pkg
		return fn
	}

	var rest []string
	switch {
	case strings.HasPrefix(parts[0], "(") && len(parts) > 1:
		recv := strings.TrimSuffix(strings.TrimPrefix(strings.TrimPrefix(parts[0], "("), "*"), ")")
		fn.class = fn.pkg + "." + recv
		fn.function = parts[1]
		rest = parts[2:]
	case parts[0] == "glob":
		rest = parts[1:]
	case len(parts) > 1 && !closureSegment.MatchString(parts[1]):
		fn.class = fn.pkg + "." + parts[0]
		fn.function = parts[1]
		rest = parts[2:]
	default:
		fn.function = fn.pkg + "." + parts[0]
		rest = parts[1:]
	}
	if parts[0] == "init" && fn.class == "" {
		return fn
	}
	for _, part := range rest {
		if closureSegment.MatchString(part) {
			fn.closure = true
			break
		}
	}
	return fn
}
