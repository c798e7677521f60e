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
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/elastic/beats/v7/libbeat/logp"

	logs "github.com/crashpost/crashpost/log"
	"github.com/crashpost/crashpost/model"
)

type recordedRequest struct {
	method string
	path   string
	header http.Header
	body   []byte
}

func newCollector(t *testing.T, status int) (*httptest.Server, <-chan recordedRequest) {
	requests := make(chan recordedRequest, 10)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		requests <- recordedRequest{method: r.Method, path: r.URL.Path, header: r.Header, body: body}
		w.WriteHeader(status)
		w.Write([]byte(`{"id":"x"}`))
	}))
	t.Cleanup(srv.Close)
	return srv, requests
}

func newTestDirect(t *testing.T, srv *httptest.Server) *Direct {
	dsn, err := ParseDSN(strings.Replace(srv.URL, "://", "://public@", 1) + "/42")
	require.NoError(t, err)
	d := NewDirect(dsn, DirectConfig{Timeout: time.Second})
	d.now = func() time.Time { return time.Unix(1614834367, 0) }
	return d
}

func testEvent() *model.Event {
	event := model.NewEvent("0123456789abcdef0123456789abcdef", time.Date(2021, 3, 4, 5, 6, 7, 0, time.UTC), "boom")
	event.Exception = &model.ExceptionList{Values: []model.ExceptionInfo{{Type: "errors.errorString", Value: "boom"}}}
	return event
}

func TestDirectCaptureEvent(t *testing.T) {
	require.NoError(t, logp.DevelopmentSetup(logp.ToObserverOutput()))
	srv, requests := newCollector(t, http.StatusOK)
	newTestDirect(t, srv).CaptureEvent(context.Background(), testEvent())

	require.Len(t, requests, 1)
	req := <-requests
	assert.Equal(t, http.MethodPost, req.method)
	assert.Equal(t, "/api/42/store/", req.path)
	assert.Equal(t, "application/json", req.header.Get("Content-Type"))
	assert.Equal(t, "application/json", req.header.Get("Accept"))
	assert.Equal(t,
		"Sentry sentry_version=7, sentry_timestamp=1614834367, sentry_key=public, sentry_client=crashpost/1.2.0",
		req.header.Get("X-Sentry-Auth"),
	)
	require.NoError(t, model.ValidateJSON(req.body))

	decoded, err := model.DecodeEvent(strings.NewReader(string(req.body)))
	require.NoError(t, err)
	assert.Equal(t, "0123456789abcdef0123456789abcdef", decoded.ID)
	assert.Equal(t, "boom", decoded.Message)

	entries := captureLogs()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, "event sent", entries[0].Message)
}

func TestDirectCaptureEventRejected(t *testing.T) {
	require.NoError(t, logp.DevelopmentSetup(logp.ToObserverOutput()))
	srv, requests := newCollector(t, http.StatusTooManyRequests)
	newTestDirect(t, srv).CaptureEvent(context.Background(), testEvent())
	assert.Len(t, requests, 1)

	entries := captureLogs()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, "event rejected", entries[0].Message)
	fields := entries[0].ContextMap()
	assert.Equal(t, int64(http.StatusTooManyRequests), fields["status"])
	assert.Equal(t, "0123456789abcdef0123456789abcdef", fields["event_id"])
}

func TestDirectCaptureEventTransportError(t *testing.T) {
	require.NoError(t, logp.DevelopmentSetup(logp.ToObserverOutput()))
	srv, _ := newCollector(t, http.StatusOK)
	d := newTestDirect(t, srv)
	srv.Close()

	d.CaptureEvent(context.Background(), testEvent())

	entries := captureLogs()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, "failed to send event", entries[0].Message)
}

func captureLogs() []observer.LoggedEntry {
	var entries []observer.LoggedEntry
	for _, entry := range logp.ObserverLogs().TakeAll() {
		if entry.LoggerName == logs.Capture {
			entries = append(entries, entry)
		}
	}
	return entries
}
