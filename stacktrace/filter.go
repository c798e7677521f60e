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
	glob "github.com/ryanuber/go-glob"
)

// Filter holds patterns of source files whose contents must not be
// reported. Patterns match absolute file names, and support the "*"
// wildcard matching any sequence of characters, including "/".
type Filter []string

// Match reports whether path matches any of the patterns in f.
func (f Filter) Match(path string) bool {
	for _, pattern := range f {
		if glob.Glob(pattern, path) {
			return true
		}
	}
	return false
}
