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
)

// RootPathRemover is a model.Extension that makes the file names of
// stack frames under RootPath relative to it. The original file name is
// kept as the frame's absolute path.
//
// Frames that already have an absolute path are left untouched.
type RootPathRemover struct {
	RootPath string
}

// Apply rewrites the file names of the frames of event.
func (r RootPathRemover) Apply(ctx context.Context, event *model.Event, err error, req *http.Request) {
	root := strings.TrimRight(r.RootPath, `/\`)
	if root == "" {
		return
	}
	root += "/"
	event.Frames(func(frame *model.StacktraceFrame) {
		if frame.AbsPath == "" && strings.HasPrefix(frame.Filename, root) {
			frame.AbsPath = frame.Filename
			frame.Filename = frame.Filename[len(root):]
		}
	})
}
