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

	"github.com/crashpost/crashpost/model"
	"github.com/crashpost/crashpost/utility"
)

var defaultIPHeaders = utility.DefaultIPHeaders()

// ClientIPDetector is a model.Extension that sets the user IP address
// of events captured while serving a request.
type ClientIPDetector struct {
	// Headers lists the headers consulted when the remote address of the
	// request is not a valid client IP. If nil, utility.DefaultIPHeaders
	// is used.
	Headers []utility.IPHeader
}

// Apply sets event.User.IPAddress from req.
func (d ClientIPDetector) Apply(ctx context.Context, event *model.Event, err error, req *http.Request) {
	if req == nil {
		return
	}
	headers := d.Headers
	if headers == nil {
		headers = defaultIPHeaders
	}
	event.User.IPAddress = utility.ClientIP(req, headers)
}
