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

package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crashpost/crashpost/version"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

type collector struct {
	*httptest.Server
	mu     sync.Mutex
	paths  []string
	bodies []map[string]interface{}
}

func newCollector(t *testing.T) *collector {
	c := &collector{}
	c.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		c.mu.Lock()
		c.paths = append(c.paths, r.URL.Path)
		c.bodies = append(c.bodies, body)
		c.mu.Unlock()
	}))
	t.Cleanup(c.Close)
	return c
}

func (c *collector) dsn() string {
	return "http://public@" + strings.TrimPrefix(c.URL, "http://") + "/7"
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, version.String()+" ("), out)
}

func TestValidateCmd(t *testing.T) {
	out, err := execute(t, "validate", "testdata/event.json")
	require.NoError(t, err)
	assert.Contains(t, out, "testdata/event.json: ok")

	out, err = execute(t, "validate", "testdata/event.json", "testdata/invalid.json", "testdata/missing.json")
	require.Error(t, err)
	assert.Contains(t, out, "testdata/event.json: ok")
	assert.Contains(t, err.Error(), "2 errors occurred")
	assert.Contains(t, err.Error(), "testdata/invalid.json")
	assert.Contains(t, err.Error(), "testdata/missing.json")
}

func TestReplayCmd(t *testing.T) {
	c := newCollector(t)
	out, err := execute(t, "replay", "--dsn", c.dsn(), "testdata/event.json")
	require.NoError(t, err)
	assert.Contains(t, out, "sent event fc6d8c0c43fc4630ad850ee518f1b9d0")

	require.Len(t, c.bodies, 1)
	assert.Equal(t, "/api/7/store/", c.paths[0])
	assert.Equal(t, "fc6d8c0c43fc4630ad850ee518f1b9d0", c.bodies[0]["event_id"])
	assert.Equal(t, "warning", c.bodies[0]["level"])
	assert.Equal(t, "/srv/app/db.go#42", c.bodies[0]["transaction"])
}

func TestReplayCmdInvalidEvent(t *testing.T) {
	c := newCollector(t)
	_, err := execute(t, "replay", "--dsn", c.dsn(), "testdata/invalid.json")
	require.Error(t, err)
	assert.Empty(t, c.bodies)
}

func TestReplayCmdNoDSN(t *testing.T) {
	_, err := execute(t, "replay", "testdata/event.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no dsn configured")
}

func TestTestCmd(t *testing.T) {
	c := newCollector(t)
	out, err := execute(t, "test", "--dsn", c.dsn(), "--message", "hello from tests")
	require.NoError(t, err)
	assert.Contains(t, out, "Sent test event ")

	require.Len(t, c.bodies, 1)
	assert.Equal(t, "hello from tests", c.bodies[0]["message"])
	assert.Contains(t, out, c.bodies[0]["event_id"].(string))
	assert.Contains(t, c.bodies[0], "exception")
}

func TestTestCmdConfigFile(t *testing.T) {
	_, err := execute(t, "test", "--config", "testdata/missing.yml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "testdata/missing.yml")
}
