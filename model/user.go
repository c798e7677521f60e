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
	"go.elastic.co/fastjson"
)

// UserInfo holds what is known about the user affected by an event.
// All fields are optional, and filled in by extensions.
type UserInfo struct {
	ID        string
	Username  string
	Email     string
	IPAddress string
}

func (u *UserInfo) isZero() bool {
	return *u == UserInfo{}
}

// MarshalFastJSON writes u to w.
func (u *UserInfo) MarshalFastJSON(w *fastjson.Writer) error {
	o := beginObject(w)
	o.maybeSetString("id", u.ID)
	o.maybeSetString("username", u.Username)
	o.maybeSetString("email", u.Email)
	o.maybeSetString("ip_address", u.IPAddress)
	o.end()
	return nil
}
