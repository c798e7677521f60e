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
	"go/ast"
	"go/parser"
	"go/token"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

// SignatureResolver resolves the declared parameter names of called
// functions, so that captured arguments can be reported by name.
type SignatureResolver interface {
	// ParamNames returns the parameter names of the function called in c,
	// in declaration order. Unnamed parameters have an empty name. ok is
	// false if the names cannot be determined.
	ParamNames(c Call) (names []string, ok bool)
}

// NoopResolver never resolves parameter names.
type NoopResolver struct{}

// ParamNames implements SignatureResolver.
func (NoopResolver) ParamNames(Call) ([]string, bool) {
	return nil, false
}

// SourceResolver resolves parameter names by parsing the Go source file
// declaring the called function.
type SourceResolver struct {
	cache  *gocache.Cache
	parses singleflight.Group
}

// NewSourceResolver returns a SourceResolver keeping parsed files for the
// given duration.
func NewSourceResolver(expiration time.Duration) *SourceResolver {
	return &SourceResolver{cache: gocache.New(expiration, 2*expiration)}
}

// ParamNames implements SignatureResolver.
func (r *SourceResolver) ParamNames(c Call) ([]string, bool) {
	if c.File == "" || c.Function == "" || c.Closure {
		return nil, false
	}
	key := c.Function[strings.LastIndexByte(c.Function, '.')+1:]
	if c.Class != "" {
		key = c.Class[strings.LastIndexByte(c.Class, '.')+1:] + "." + key
	}
	names, ok := r.declarations(c.File)[key]
	return names, ok
}

// declarations returns the parameter names of the functions declared in
// the file at path, keyed by "Func" or "Type.Method".
func (r *SourceResolver) declarations(path string) map[string][]string {
	if cached, ok := r.cache.Get(path); ok {
		return cached.(map[string][]string)
	}
	v, _, _ := r.parses.Do(path, func() (interface{}, error) {
		return r.parse(path), nil
	})
	return v.(map[string][]string)
}

func (r *SourceResolver) parse(path string) map[string][]string {
	decls := make(map[string][]string)
	file, err := parser.ParseFile(token.NewFileSet(), path, nil, parser.SkipObjectResolution)
	if err == nil {
		for _, decl := range file.Decls {
			fn, ok := decl.(*ast.FuncDecl)
			if !ok {
				continue
			}
			key := fn.Name.Name
			if fn.Recv != nil && len(fn.Recv.List) > 0 {
				key = receiverName(fn.Recv.List[0].Type) + "." + key
			}
			decls[key] = paramNames(fn.Type.Params)
		}
	}
	r.cache.Set(path, decls, gocache.DefaultExpiration)
	return decls
}

func receiverName(expr ast.Expr) string {
	switch expr := expr.(type) {
	case *ast.StarExpr:
		return receiverName(expr.X)
	case *ast.IndexExpr:
		return receiverName(expr.X)
	case *ast.IndexListExpr:
		return receiverName(expr.X)
	case *ast.Ident:
		return expr.Name
	}
	return ""
}

func paramNames(params *ast.FieldList) []string {
	if params == nil {
		return nil
	}
	var names []string
	for _, field := range params.List {
		if len(field.Names) == 0 {
			names = append(names, "")
			continue
		}
		for _, name := range field.Names {
			if name.Name == "_" {
				names = append(names, "")
			} else {
				names = append(names, name.Name)
			}
		}
	}
	return names
}
