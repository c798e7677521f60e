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

	"go.elastic.co/fastjson"
)

// Context is a typed bundle of environment facts attached to an event.
// Type returns the key under which the context is stored in Event.Contexts.
type Context interface {
	fastjson.Marshaler
	Type() string
}

// BrowserContext describes the browser that sent the inbound request.
type BrowserContext struct {
	Name    string
	Version string
}

// Type returns "browser".
func (*BrowserContext) Type() string { return "browser" }

// MarshalFastJSON writes c to w.
func (c *BrowserContext) MarshalFastJSON(w *fastjson.Writer) error {
	o := beginObject(w)
	o.maybeSetString("name", c.Name)
	o.maybeSetString("version", c.Version)
	o.end()
	return nil
}

// OSContext describes the operating system of the reporting host.
type OSContext struct {
	Name    string
	Version string
	Build   string
}

// Type returns "os".
func (*OSContext) Type() string { return "os" }

// MarshalFastJSON writes c to w.
func (c *OSContext) MarshalFastJSON(w *fastjson.Writer) error {
	o := beginObject(w)
	o.maybeSetString("name", c.Name)
	o.maybeSetString("version", c.Version)
	o.maybeSetString("build", c.Build)
	o.end()
	return nil
}

// RuntimeContext describes the language runtime of the reporting process.
type RuntimeContext struct {
	Name           string
	Version        string
	RawDescription string
}

// Type returns "runtime".
func (*RuntimeContext) Type() string { return "runtime" }

// MarshalFastJSON writes c to w.
func (c *RuntimeContext) MarshalFastJSON(w *fastjson.Writer) error {
	o := beginObject(w)
	o.maybeSetString("name", c.Name)
	o.maybeSetString("version", c.Version)
	o.maybeSetString("raw_description", c.RawDescription)
	o.end()
	return nil
}

// CustomContext is a context of any other type, holding free-form fields.
type CustomContext struct {
	Name   string
	Fields map[string]interface{}
}

// Type returns c.Name.
func (c *CustomContext) Type() string { return c.Name }

// MarshalFastJSON writes c.Fields to w, omitting nil values.
func (c *CustomContext) MarshalFastJSON(w *fastjson.Writer) error {
	names := make([]string, 0, len(c.Fields))
	for name := range c.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	o := beginObject(w)
	for _, name := range names {
		if err := o.maybeSetValue(name, c.Fields[name]); err != nil {
			return err
		}
	}
	o.end()
	return nil
}

func marshalContexts(w *fastjson.Writer, contexts map[string]Context) error {
	types := make([]string, 0, len(contexts))
	for t := range contexts {
		types = append(types, t)
	}
	sort.Strings(types)
	o := beginObject(w)
	for _, t := range types {
		o.key(t)
		if err := contexts[t].MarshalFastJSON(w); err != nil {
			return err
		}
	}
	o.end()
	return nil
}
