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
	"net/url"
	"strings"

	"github.com/crashpost/crashpost/model"
	"github.com/crashpost/crashpost/utility"
)

// RequestReporter is a model.Extension that reports the inbound request,
// and its host name as the "site" tag.
type RequestReporter struct{}

// Apply sets event.Request from req.
func (RequestReporter) Apply(ctx context.Context, event *model.Event, err error, req *http.Request) {
	if req == nil {
		return
	}
	u := requestURL(req)
	event.AddTag("site", u.Hostname())

	r := &model.Request{
		URL:         u.String(),
		Method:      req.Method,
		QueryString: u.RawQuery,
		Headers:     make(map[string]string, len(req.Header)+1),
	}
	if req.Host != "" {
		r.Headers["Host"] = req.Host
	}
	for name, values := range req.Header {
		r.Headers[name] = strings.Join(values, ", ")
	}
	if cookies := req.Cookies(); len(cookies) > 0 {
		r.Cookies = make(map[string]string, len(cookies))
		for _, c := range cookies {
			r.Cookies[c.Name] = c.Value
		}
	}
	event.Request = r
}

// requestURL returns the absolute URL requested by the client.
func requestURL(req *http.Request) *url.URL {
	var u url.URL
	if req.URL != nil {
		u = *req.URL
	}
	if u.Host == "" {
		u.Host = req.Host
	}
	if u.Scheme == "" {
		switch proto := utility.ForwardedProto(req.Header); {
		case req.TLS != nil:
			u.Scheme = "https"
		case proto == "http" || proto == "https":
			u.Scheme = proto
		default:
			u.Scheme = "http"
		}
	}
	return &u
}
