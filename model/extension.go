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
	"context"
	"net/http"
)

// Extension enriches an event during capture. Extensions are applied in
// order, each one seeing the changes made by those before it.
//
// err is the captured error; req is the inbound request being served, and
// may be nil.
type Extension interface {
	Apply(ctx context.Context, event *Event, err error, req *http.Request)
}

// ExtensionFunc is a function type that implements Extension.
type ExtensionFunc func(ctx context.Context, event *Event, err error, req *http.Request)

// Apply calls f(ctx, event, err, req).
func (f ExtensionFunc) Apply(ctx context.Context, event *Event, err error, req *http.Request) {
	f(ctx, event, err, req)
}
