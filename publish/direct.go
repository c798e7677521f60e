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
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-resty/resty/v2"
	"go.elastic.co/fastjson"

	"github.com/elastic/beats/v7/libbeat/logp"

	logs "github.com/crashpost/crashpost/log"
	"github.com/crashpost/crashpost/model"
)

// DefaultTimeout is the default timeout for sending an event.
const DefaultTimeout = 5 * time.Second

// Direct is a Capture that sends each event to the collector as it is
// captured. Delivery is attempted once; failures are logged and the event
// is dropped.
type Direct struct {
	dsn    *DSN
	client *resty.Client
	logger *logp.Logger
	now    func() time.Time
}

// DirectConfig holds optional settings for Direct.
type DirectConfig struct {
	// Timeout bounds the time taken to send an event. Zero means
	// DefaultTimeout.
	Timeout time.Duration

	// Proxy is the URL of an HTTP proxy to send events through.
	Proxy string

	// Transport is used for sending events, if non-nil.
	Transport http.RoundTripper
}

// NewDirect returns a Direct sending events to the project identified by
// dsn.
func NewDirect(dsn *DSN, cfg DirectConfig) *Direct {
	client := resty.New().
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json")
	if cfg.Transport != nil {
		client.SetTransport(cfg.Transport)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	client.SetTimeout(timeout)
	if cfg.Proxy != "" {
		client.SetProxy(cfg.Proxy)
	}
	return &Direct{
		dsn:    dsn,
		client: client,
		logger: logp.NewLogger(logs.Capture),
		now:    time.Now,
	}
}

// CaptureEvent sends event to the collector, blocking until the collector
// responds or the request fails.
func (d *Direct) CaptureEvent(ctx context.Context, event *model.Event) {
	var w fastjson.Writer
	if err := event.MarshalFastJSON(&w); err != nil {
		d.logger.Errorw("failed to encode event", "event_id", event.ID, "error", err)
		return
	}
	body := w.Bytes()

	resp, err := d.client.R().
		SetContext(ctx).
		SetHeader("X-Sentry-Auth", d.dsn.AuthHeader(d.now())).
		SetBody(body).
		Post(d.dsn.StoreURL())
	if err != nil {
		d.logger.Errorw("failed to send event", "event_id", event.ID, "error", err)
		return
	}
	if !resp.IsSuccess() {
		d.logger.Errorw("event rejected",
			"event_id", event.ID,
			"status", resp.StatusCode(),
			"response", resp.String(),
		)
		return
	}
	d.logger.Debugw("event sent", "event_id", event.ID, "size", humanize.Bytes(uint64(len(body))))
}
