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

package utility_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crashpost/crashpost/utility"
)

func TestClientIP(t *testing.T) {
	headers := utility.DefaultIPHeaders()
	for name, test := range map[string]struct {
		remoteAddr string
		header     http.Header
		ip         string
	}{
		"remote addr": {
			remoteAddr: "203.0.113.9:1234",
			header:     http.Header{"X-Forwarded-For": {"198.51.100.1"}},
			ip:         "203.0.113.9",
		},
		"remote addr IPv6": {
			remoteAddr: "[2001:db8::1]:1234",
			ip:         "2001:db8::1",
		},
		"private remote addr falls back to headers": {
			remoteAddr: "10.0.0.1:1234",
			header:     http.Header{"X-Forwarded-For": {"198.51.100.1, 10.0.0.2"}},
			ip:         "198.51.100.1",
		},
		"IPv6 loopback remote addr falls back to headers": {
			remoteAddr: "[::1]:5000",
			header:     http.Header{"X-Forwarded-For": {"203.0.113.7"}},
			ip:         "203.0.113.7",
		},
		"X-Forwarded-For first token only": {
			header: http.Header{"X-Forwarded-For": {"10.1.1.1, 198.51.100.1"}},
			ip:     utility.UnknownIP,
		},
		"X-Forwarded-For with port": {
			header: http.Header{"X-Forwarded-For": {"198.51.100.1:8080"}},
			ip:     "198.51.100.1",
		},
		"Forwarded": {
			header: http.Header{"Forwarded": {`for="[2001:db8:cafe::17]:4711"`}},
			ip:     "2001:db8:cafe::17",
		},
		"Forwarded loopback": {
			header: http.Header{"Forwarded": {"for=127.0.0.1"}},
			ip:     utility.UnknownIP,
		},
		"Forwarded first valid with port": {
			header: http.Header{"Forwarded": {"for=192.0.2.43:81, for=198.51.100.17"}},
			ip:     "192.0.2.43",
		},
		"X-Forwarded-For garbage": {
			header: http.Header{"X-Forwarded-For": {"flurp"}},
			ip:     utility.UnknownIP,
		},
		"Forwarded skips invalid tokens": {
			header: http.Header{"Forwarded": {"for=_secret, for=192.168.1.1, For=198.51.100.7;proto=https"}},
			ip:     "198.51.100.7",
		},
		"X-Forwarded-For before Forwarded": {
			header: http.Header{
				"Forwarded":       {"for=198.51.100.7"},
				"X-Forwarded-For": {"198.51.100.1"},
			},
			ip: "198.51.100.1",
		},
		"invalid X-Forwarded-For falls through": {
			header: http.Header{
				"Forwarded":       {"for=198.51.100.7"},
				"X-Forwarded-For": {"client.invalid"},
			},
			ip: "198.51.100.7",
		},
		"nothing": {
			remoteAddr: "127.0.0.1:80",
			ip:         utility.UnknownIP,
		},
	} {
		t.Run(name, func(t *testing.T) {
			req := &http.Request{RemoteAddr: test.remoteAddr, Header: test.header}
			if req.Header == nil {
				req.Header = make(http.Header)
			}
			assert.Equal(t, test.ip, utility.ClientIP(req, headers))
		})
	}
}

func TestClientIPCustomHeaders(t *testing.T) {
	realIP, err := utility.NewIPHeader("x-real-ip", `(.+)`)
	require.NoError(t, err)

	req := &http.Request{Header: http.Header{
		"X-Real-Ip":       {"198.51.100.3"},
		"X-Forwarded-For": {"198.51.100.1"},
	}}
	assert.Equal(t, "198.51.100.3", utility.ClientIP(req, []utility.IPHeader{realIP}))
	assert.Equal(t, utility.UnknownIP, utility.ClientIP(req, nil))

	_, err = utility.NewIPHeader("X-Broken", `(`)
	assert.Error(t, err)
}
