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

package publish_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/crashpost/crashpost/model"
	"github.com/crashpost/crashpost/publish"
)

func TestBuffered(t *testing.T) {
	var sent []string
	var buffered *publish.Buffered
	buffered = publish.NewBuffered(publish.CaptureFunc(func(ctx context.Context, event *model.Event) {
		sent = append(sent, event.ID)
		if event.ID == "b" {
			// Events captured during a flush wait for the next one.
			buffered.CaptureEvent(ctx, &model.Event{ID: "late"})
		}
	}))
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		buffered.CaptureEvent(ctx, &model.Event{ID: id})
	}
	assert.Equal(t, 3, buffered.Len())
	assert.Empty(t, sent)

	buffered.Flush(ctx)
	assert.Equal(t, []string{"a", "b", "c"}, sent)
	assert.Equal(t, 1, buffered.Len())

	buffered.Flush(ctx)
	assert.Equal(t, []string{"a", "b", "c", "late"}, sent)
	assert.Equal(t, 0, buffered.Len())

	buffered.Flush(ctx)
	assert.Len(t, sent, 4)
}
