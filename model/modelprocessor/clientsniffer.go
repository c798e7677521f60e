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
	"strings"

	"github.com/crashpost/crashpost/model"
	"github.com/crashpost/crashpost/utility"
)

// ClientSniffer is a model.Extension that reports the browser and OS of
// the client, as classified from the User-Agent request header.
type ClientSniffer struct{}

// Apply sets the browser context, and for recognized browsers the
// "browser.<name>" and "browser.os" tags.
func (ClientSniffer) Apply(ctx context.Context, event *model.Event, err error, req *http.Request) {
	if req == nil {
		return
	}
	values := req.Header.Values("User-Agent")
	if len(values) == 0 {
		return
	}
	userAgent := strings.Join(values, ", ")
	ua := utility.ParseUserAgent(userAgent)

	version := ua.Version
	if version == "" {
		version = "unknown"
	}
	if ua.Identified() {
		event.AddTag("browser."+ua.Browser, version)
		event.AddTag("browser.os", ua.OS)
	}

	switch {
	case ua.Browser == utility.BotBrowser:
		event.AddContext(&model.BrowserContext{Name: ua.Browser + "/" + version})
	case ua.Version == "":
		// Keep the raw header so that unrecognized clients can still be
		// identified by hand.
		event.AddContext(&model.BrowserContext{Name: ua.Browser, Version: userAgent})
	default:
		event.AddContext(&model.BrowserContext{Name: ua.Browser, Version: ua.Version + "/" + ua.OS})
	}
}
