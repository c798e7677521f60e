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

package breadcrumb

import (
	"sync"

	"github.com/crashpost/crashpost/model"
)

// Buffer accumulates breadcrumbs until they are drained. It is safe for
// concurrent use.
type Buffer struct {
	mu     sync.Mutex
	crumbs []model.Breadcrumb
}

// AddBreadcrumb appends b to the buffer.
func (b *Buffer) AddBreadcrumb(crumb model.Breadcrumb) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.crumbs = append(b.crumbs, crumb)
}

// Drain returns the buffered breadcrumbs in the order they were added,
// and empties the buffer.
func (b *Buffer) Drain() []model.Breadcrumb {
	b.mu.Lock()
	defer b.mu.Unlock()
	crumbs := b.crumbs
	b.crumbs = nil
	return crumbs
}

// Len returns the number of buffered breadcrumbs.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.crumbs)
}
