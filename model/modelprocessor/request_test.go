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
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crashpost/crashpost/model"
	"github.com/crashpost/crashpost/utility"
)

func TestRequestReporter(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/orders/42?expand=items&page=2", nil)
	req.Host = "shop.example.com:8443"
	req.Header.Add("Accept", "text/html")
	req.Header.Add("Accept", "application/json")
	req.Header.Set("Cookie", "session=abc; theme=dark")

	event := testApply(t, RequestReporter{}, nil, req)
	assert.Equal(t, "shop.example.com", event.Tags["site"])
	require.NotNil(t, event.Request)
	assert.Equal(t, &model.Request{
		URL:         "http://shop.example.com:8443/orders/42?expand=items&page=2",
		Method:      http.MethodPost,
		QueryString: "expand=items&page=2",
		Cookies:     map[string]string{"session": "abc", "theme": "dark"},
		Headers: map[string]string{
			"Host":   "shop.example.com:8443",
			"Accept": "text/html, application/json",
			"Cookie": "session=abc; theme=dark",
		},
	}, event.Request)
}

func TestRequestReporterScheme(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Host = "example.com"
	req.TLS = &tls.ConnectionState{}
	event := testApply(t, RequestReporter{}, nil, req)
	assert.Equal(t, "https://example.com/", event.Request.URL)
	assert.Nil(t, event.Request.Cookies)

	req.TLS = nil
	req.Header.Set("X-Forwarded-Proto", "https")
	event = testApply(t, RequestReporter{}, nil, req)
	assert.Equal(t, "https://example.com/", event.Request.URL)

	req.Header.Set("X-Forwarded-Proto", "gopher")
	event = testApply(t, RequestReporter{}, nil, req)
	assert.Equal(t, "http://example.com/", event.Request.URL)
}

func TestRequestReporterNoRequest(t *testing.T) {
	event := testApply(t, RequestReporter{}, nil, nil)
	assert.Nil(t, event.Request)
	assert.Empty(t, event.Tags)
}

func TestClientSniffer(t *testing.T) {
	for name, test := range map[string]struct {
		userAgent string
		tags      map[string]string
		context   *model.BrowserContext
	}{
		"browser": {
			userAgent: "Mozilla/5.0 (X11; Ubuntu; Linux x86_64; rv:89.0) Gecko/20100101 Firefox/89.0",
			tags:      map[string]string{"browser.firefox": "89.0", "browser.os": "Linux"},
			context:   &model.BrowserContext{Name: "firefox", Version: "89.0/Linux"},
		},
		"chrome on linux": {
			userAgent: "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/50.0.2661.102 Safari/537.36",
			tags:      map[string]string{"browser.chrome": "50.0.2661.102", "browser.os": "Linux"},
			context:   &model.BrowserContext{Name: "chrome", Version: "50.0.2661.102/Linux"},
		},
		"unrecognized": {
			userAgent: "Snagglepuss",
			tags:      map[string]string{},
			context:   &model.BrowserContext{Name: "unknown", Version: "Snagglepuss"},
		},
		"bot": {
			userAgent: "Mozilla/5.0 (compatible; bingbot/2.0; +http://www.bing.com/bingbot.htm)",
			tags:      map[string]string{},
			context:   &model.BrowserContext{Name: "bot/bingbot"},
		},
		"unknown": {
			userAgent: "curl/7.68.0",
			tags:      map[string]string{},
			context:   &model.BrowserContext{Name: "unknown", Version: "curl/7.68.0"},
		},
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("User-Agent", test.userAgent)
			event := testApply(t, ClientSniffer{}, nil, req)
			assert.Equal(t, test.tags, event.Tags)
			assert.Equal(t, map[string]model.Context{"browser": test.context}, event.Contexts)
		})
	}
}

func TestClientSnifferNoUserAgent(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	event := testApply(t, ClientSniffer{}, nil, req)
	assert.Empty(t, event.Contexts)

	event = testApply(t, ClientSniffer{}, nil, nil)
	assert.Empty(t, event.Contexts)
}

func TestClientIPDetector(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	req.Header.Set("X-Forwarded-For", "198.51.100.4, 10.0.0.1")

	event := testApply(t, ClientIPDetector{}, nil, req)
	assert.Equal(t, "198.51.100.4", event.User.IPAddress)

	event = testApply(t, ClientIPDetector{Headers: []utility.IPHeader{}}, nil, req)
	assert.Equal(t, utility.UnknownIP, event.User.IPAddress)

	event = testApply(t, ClientIPDetector{}, nil, nil)
	assert.Empty(t, event.User.IPAddress)
}
