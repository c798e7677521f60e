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

package model

import (
	"time"

	"go.elastic.co/fastjson"
)

// Breadcrumb is a timestamped log entry recorded before an error, and
// attached to the next captured event.
type Breadcrumb struct {
	Timestamp time.Time
	Level     Level
	Message   string
	Data      map[string]interface{}
}

// MarshalFastJSON writes b to w. The timestamp is written as unix seconds.
func (b *Breadcrumb) MarshalFastJSON(w *fastjson.Writer) error {
	o := beginObject(w)
	if !b.Timestamp.IsZero() {
		o.key("timestamp")
		w.Int64(b.Timestamp.Unix())
	}
	o.maybeSetString("level", string(b.Level))
	o.maybeSetString("message", b.Message)
	if len(b.Data) > 0 {
		if err := o.maybeSetValue("data", b.Data); err != nil {
			return err
		}
	}
	o.end()
	return nil
}
