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
	"runtime"
	"strings"

	"github.com/elastic/beats/v7/libbeat/logp"
	sysinfo "github.com/elastic/go-sysinfo"

	logs "github.com/crashpost/crashpost/log"
	"github.com/crashpost/crashpost/model"
)

// EnvironmentReporter is a model.Extension that reports the operating
// system and Go runtime of the process, and the host name as the
// "server_name" tag.
type EnvironmentReporter struct {
	OS         model.OSContext
	Runtime    model.RuntimeContext
	ServerName string
}

// NewEnvironmentReporter returns an EnvironmentReporter describing the
// current host and process. Host details that cannot be determined are
// left empty.
func NewEnvironmentReporter() *EnvironmentReporter {
	r := &EnvironmentReporter{
		OS:      model.OSContext{Name: runtime.GOOS},
		Runtime: runtimeContext(runtime.Version()),
	}
	host, err := sysinfo.Host()
	if err != nil {
		logp.NewLogger(logs.Reporter).Debugw("failed to read host info", "error", err)
		return r
	}
	info := host.Info()
	r.ServerName = info.Hostname
	r.OS.Build = info.KernelVersion
	if info.OS != nil {
		if info.OS.Name != "" {
			r.OS.Name = info.OS.Name
		}
		r.OS.Version = info.OS.Version
		if info.OS.Build != "" {
			r.OS.Build = info.OS.Build
		}
	}
	return r
}

// runtimeContext returns the runtime context for a Go version string as
// returned by runtime.Version, such as "go1.22.3".
func runtimeContext(raw string) model.RuntimeContext {
	version := strings.TrimPrefix(raw, "go")
	end := strings.IndexFunc(version, func(r rune) bool {
		return r != '.' && (r < '0' || r > '9')
	})
	if end >= 0 {
		version = version[:end]
	}
	return model.RuntimeContext{
		Name:           "go",
		Version:        strings.Trim(version, "."),
		RawDescription: raw,
	}
}

// Apply adds the OS and runtime contexts and the server_name tag to event.
func (r *EnvironmentReporter) Apply(ctx context.Context, event *model.Event, err error, req *http.Request) {
	osContext := r.OS
	rtContext := r.Runtime
	event.AddContext(&osContext)
	event.AddContext(&rtContext)
	if r.ServerName != "" {
		event.AddTag("server_name", r.ServerName)
	}
}
