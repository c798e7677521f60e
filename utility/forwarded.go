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
	"strings"
)

// forwardedProto returns the lowercased proto parameter of the first
// element of an RFC 7239 Forwarded header, or an empty string. Malformed
// fields are ignored.
func forwardedProto(f string) string {
	// Only the first comma-separated element is considered.
	if sep := strings.IndexRune(f, ','); sep >= 0 {
		f = f[:sep]
	}

	var proto string
	for f != "" {
		field := f
		if sep := strings.IndexRune(f, ';'); sep >= 0 {
			field, f = f[:sep], f[sep+1:]
		} else {
			f = ""
		}

		eq := strings.IndexRune(field, '=')
		if eq == -1 {
			continue
		}
		key := strings.TrimSpace(field[:eq])
		value := strings.TrimSpace(field[eq+1:])
		if len(value) > 0 && value[0] == '"' {
			if len(value) < 2 || value[len(value)-1] != '"' {
				continue
			}
			value = value[1 : len(value)-1]
		}
		if strings.EqualFold(key, "proto") {
			proto = strings.ToLower(value)
		}
	}
	return proto
}

// ForwardedProto returns the protocol the client used to reach the first
// proxy in front of the server, as reported by the Forwarded or
// X-Forwarded-Proto headers, or an empty string.
func ForwardedProto(header map[string][]string) string {
	if fwd := firstValue(header, "Forwarded"); fwd != "" {
		if proto := forwardedProto(fwd); proto != "" {
			return proto
		}
	}
	proto := firstValue(header, "X-Forwarded-Proto")
	if sep := strings.IndexRune(proto, ','); sep >= 0 {
		proto = proto[:sep]
	}
	return strings.ToLower(strings.TrimSpace(proto))
}

func firstValue(header map[string][]string, key string) string {
	if values := header[key]; len(values) > 0 {
		return values[0]
	}
	return ""
}
