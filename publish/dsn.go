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

package publish

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/crashpost/crashpost/version"
)

// DSN identifies a project on a collector, and the key used to submit
// events to it. A DSN has the form "<scheme>://<key>@<host>/<project>".
type DSN struct {
	Scheme string
	Key    string
	Host   string
	Path   string
}

// ParseDSN parses s as a DSN.
func ParseDSN(s string) (*DSN, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, errors.Wrap(err, "invalid DSN")
	}
	switch {
	case u.Scheme != "http" && u.Scheme != "https":
		return nil, errors.Errorf("invalid DSN: unsupported scheme %q", u.Scheme)
	case u.User == nil || u.User.Username() == "":
		return nil, errors.New("invalid DSN: missing key")
	case u.Host == "":
		return nil, errors.New("invalid DSN: missing host")
	case strings.Trim(u.Path, "/") == "":
		return nil, errors.New("invalid DSN: missing project")
	}
	return &DSN{
		Scheme: u.Scheme,
		Key:    u.User.Username(),
		Host:   u.Host,
		Path:   strings.TrimRight(u.Path, "/"),
	}, nil
}

// StoreURL returns the URL events are posted to.
func (d *DSN) StoreURL() string {
	return d.Scheme + "://" + d.Host + "/api" + d.Path + "/store/"
}

// AuthHeader returns the value of the X-Sentry-Auth header for a request
// sent at t.
func (d *DSN) AuthHeader(t time.Time) string {
	return fmt.Sprintf(
		"Sentry sentry_version=7, sentry_timestamp=%d, sentry_key=%s, sentry_client=%s",
		t.Unix(), d.Key, version.String(),
	)
}

// String returns d in DSN form.
func (d *DSN) String() string {
	return d.Scheme + "://" + d.Key + "@" + d.Host + d.Path
}
