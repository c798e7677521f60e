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
	"sync"

	"github.com/crashpost/crashpost/model"
)

// Buffered is a Capture that holds events in memory until Flush is
// called, so that sending them can be deferred until after the request
// being served has been responded to.
type Buffered struct {
	capture Capture

	mu     sync.Mutex
	events []*model.Event
}

// NewBuffered returns a Buffered that forwards flushed events to capture.
func NewBuffered(capture Capture) *Buffered {
	return &Buffered{capture: capture}
}

// CaptureEvent adds event to the buffer.
func (b *Buffered) CaptureEvent(ctx context.Context, event *model.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

// Flush forwards the buffered events in the order they were captured.
// The buffer is emptied before forwarding, so events captured while
// flushing are held for the next flush.
func (b *Buffered) Flush(ctx context.Context) {
	b.mu.Lock()
	events := b.events
	b.events = nil
	b.mu.Unlock()

	for _, event := range events {
		b.capture.CaptureEvent(ctx, event)
	}
}

// Len returns the number of buffered events.
func (b *Buffered) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.events)
}
