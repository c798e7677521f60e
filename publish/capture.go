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
	"context"

	"github.com/crashpost/crashpost/model"
)

// Capture receives fully assembled events.
//
// CaptureEvent must not return an error: failures to deliver an event are
// handled, typically by logging, by the implementation.
type Capture interface {
	CaptureEvent(ctx context.Context, event *model.Event)
}

// CaptureFunc is a function type that implements Capture.
type CaptureFunc func(ctx context.Context, event *model.Event)

// CaptureEvent calls f(ctx, event).
func (f CaptureFunc) CaptureEvent(ctx context.Context, event *model.Event) {
	f(ctx, event)
}
