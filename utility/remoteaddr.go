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

package utility

import (
	"net"
	"net/http"
	"strings"

	"github.com/dlclark/regexp2"
	"github.com/pkg/errors"
)

// UnknownIP is reported when no valid client IP address can be found.
const UnknownIP = "unknown"

// IPHeader names a request header that may carry the client IP address,
// and the pattern whose first capture group extracts candidates from it.
type IPHeader struct {
	Name    string
	Pattern *regexp2.Regexp
}

// NewIPHeader returns an IPHeader for the named header. The pattern is
// matched case-insensitively.
func NewIPHeader(name, pattern string) (IPHeader, error) {
	re, err := regexp2.Compile(pattern, regexp2.IgnoreCase)
	if err != nil {
		return IPHeader{}, errors.Wrapf(err, "invalid pattern for header %s", name)
	}
	return IPHeader{Name: http.CanonicalHeaderKey(name), Pattern: re}, nil
}

// DefaultIPHeaders returns the headers consulted by ClientIP by default:
// the first entry of X-Forwarded-For, then the "for" entries of Forwarded.
func DefaultIPHeaders() []IPHeader {
	return []IPHeader{
		mustIPHeader("X-Forwarded-For", `^([^,\s$]+)`),
		mustIPHeader("Forwarded", `for=([^;,]+)`),
	}
}

func mustIPHeader(name, pattern string) IPHeader {
	h, err := NewIPHeader(name, pattern)
	if err != nil {
		panic(err)
	}
	return h
}

// ClientIP returns the best-effort IP address of the client that sent req:
//   - the host portion of req.RemoteAddr, if it is a valid client IP;
//   - otherwise the first valid client IP extracted from the given headers,
//     in order;
//   - otherwise UnknownIP.
//
// The headers are under the client's control, so the result is suitable
// for diagnostics only.
func ClientIP(req *http.Request, headers []IPHeader) string {
	if host, _ := splitHost(req.RemoteAddr); IsValidClientIP(host) {
		return host
	}
	for _, h := range headers {
		values := req.Header.Values(h.Name)
		if len(values) == 0 {
			continue
		}
		for _, candidate := range submatches(h.Pattern, strings.Join(values, ", ")) {
			ip := strings.Trim(strings.TrimSpace(candidate), `"`)
			ip, _ = splitHost(ip)
			ip = strings.Trim(ip, "[]")
			if IsValidClientIP(ip) {
				return ip
			}
		}
	}
	return UnknownIP
}

// submatches returns the first capture group of each match of re in s.
func submatches(re *regexp2.Regexp, s string) []string {
	var out []string
	m, _ := re.FindStringMatch(s)
	for m != nil {
		if g := m.GroupByNumber(1); g != nil && len(g.Captures) > 0 {
			out = append(out, g.String())
		}
		m, _ = re.FindNextMatch(m)
	}
	return out
}

func splitHost(in string) (host, port string) {
	if strings.LastIndexByte(in, ':') == -1 {
		// In the common (relative to other "errors") case that
		// there is no colon, we can avoid allocations by not
		// calling SplitHostPort.
		return in, ""
	}
	host, port, err := net.SplitHostPort(in)
	if err != nil {
		return in, ""
	}
	return host, port
}
