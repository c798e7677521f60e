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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFuncName(t *testing.T) {
	for _, test := range []struct {
		name     string
		expected funcName
		display  string
	}{{
		name:     "main.main",
		expected: funcName{pkg: "main", function: "main.main"},
		display:  "main.main",
	}, {
		name:     "github.com/a/b.Func",
		expected: funcName{pkg: "b", function: "b.Func"},
		display:  "b.Func",
	}, {
		name:     "github.com/a/b.(*Server).Serve",
		expected: funcName{pkg: "b", class: "b.Server", function: "Serve"},
		display:  "b.Server->Serve",
	}, {
		name:     "github.com/a/b.Point.String",
		expected: funcName{pkg: "b", class: "b.Point", function: "String"},
		display:  "b.Point->String",
	}, {
		name:     "github.com/a/b.Func.func1",
		expected: funcName{pkg: "b", function: "b.Func", closure: true},
		display:  "b.Func.{closure}",
	}, {
		name:     "github.com/a/b.(*Server).Serve.func2.1",
		expected: funcName{pkg: "b", class: "b.Server", function: "Serve", closure: true},
		display:  "b.Server->Serve.{closure}",
	}, {
		name:     "github.com/a/b.glob..func1",
		expected: funcName{pkg: "b", closure: true},
		display:  "{closure}",
	}, {
		name:     "gopkg.in/yaml%2ev2.Unmarshal",
		expected: funcName{pkg: "yaml.v2", function: "yaml.v2.Unmarshal"},
		display:  "yaml.v2.Unmarshal",
	}, {
		name:     "github.com/a/b.Map[...]",
		expected: funcName{pkg: "b", function: "b.Map"},
		display:  "b.Map",
	}, {
		name:     "github.com/a/b.init.0",
		expected: funcName{pkg: "b", function: "b.init"},
		display:  "b.init",
	}} {
		t.Run(test.name, func(t *testing.T) {
			fn := parseFuncName(test.name)
			assert.Equal(t, test.expected, fn)
			call := Call{Class: fn.class, Function: fn.function, Closure: fn.closure}
			assert.Equal(t, test.display, call.FunctionName())
		})
	}
}

func TestCallFunctionNameStatic(t *testing.T) {
	call := Call{Class: "pkg.Point", Function: "New", Static: true}
	assert.Equal(t, "pkg.Point::New", call.FunctionName())
}
