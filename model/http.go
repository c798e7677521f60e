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
	"go.elastic.co/fastjson"
)

// Request holds information about the inbound HTTP request being served
// when the error occurred.
type Request struct {
	URL         string
	Method      string
	QueryString string
	Cookies     map[string]string

	// Headers holds one value per header name; repeated headers are
	// joined with ", ".
	Headers map[string]string

	Data interface{}
	Env  map[string]string
}

// MarshalFastJSON writes r to w.
func (r *Request) MarshalFastJSON(w *fastjson.Writer) error {
	o := beginObject(w)
	o.maybeSetString("url", r.URL)
	o.maybeSetString("method", r.Method)
	o.maybeSetString("query_string", r.QueryString)
	o.maybeSetStringMap("cookies", r.Cookies)
	o.maybeSetStringMap("headers", r.Headers)
	if err := o.maybeSetValue("data", r.Data); err != nil {
		return err
	}
	o.maybeSetStringMap("env", r.Env)
	o.end()
	return nil
}
