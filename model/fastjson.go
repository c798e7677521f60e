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
	"sort"

	"github.com/samber/lo"
	"go.elastic.co/fastjson"
)

// object writes a JSON object field by field, omitting empty values.
type object struct {
	w     *fastjson.Writer
	empty bool
}

func beginObject(w *fastjson.Writer) object {
	w.RawByte('{')
	return object{w: w, empty: true}
}

func (o *object) key(k string) {
	if !o.empty {
		o.w.RawByte(',')
	}
	o.empty = false
	o.w.String(k)
	o.w.RawByte(':')
}

func (o *object) end() {
	o.w.RawByte('}')
}

func (o *object) maybeSetString(k, v string) {
	if v != "" {
		o.key(k)
		o.w.String(v)
	}
}

func (o *object) maybeSetInt(k string, v int) {
	if v != 0 {
		o.key(k)
		o.w.Int64(int64(v))
	}
}

func (o *object) maybeSetStrings(k string, v []string) {
	if len(v) == 0 {
		return
	}
	o.key(k)
	o.w.RawByte('[')
	for i, s := range v {
		if i > 0 {
			o.w.RawByte(',')
		}
		o.w.String(s)
	}
	o.w.RawByte(']')
}

func (o *object) maybeSetStringMap(k string, m map[string]string) {
	if len(m) == 0 {
		return
	}
	o.key(k)
	inner := beginObject(o.w)
	for _, name := range sortedKeys(m) {
		inner.key(name)
		o.w.String(m[name])
	}
	inner.end()
}

func (o *object) maybeSetValue(k string, v interface{}) error {
	if v == nil {
		return nil
	}
	o.key(k)
	return fastjson.Marshal(o.w, v)
}

func sortedKeys(m map[string]string) []string {
	keys := lo.Keys(m)
	sort.Strings(keys)
	return keys
}
