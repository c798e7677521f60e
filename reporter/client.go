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

package reporter

import (
	"context"
	"math/rand"
	"net/http"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/time/rate"

	"github.com/elastic/beats/v7/libbeat/logp"

	"github.com/crashpost/crashpost/breadcrumb"
	logs "github.com/crashpost/crashpost/log"
	"github.com/crashpost/crashpost/model"
	"github.com/crashpost/crashpost/model/modelprocessor"
	"github.com/crashpost/crashpost/publish"
	"github.com/crashpost/crashpost/stacktrace"
)

// Client reports errors: it assembles an event for each captured error,
// runs the extensions over it, and hands it to a publish.Capture.
//
// A Client may be shared by concurrent HTTP handlers. Breadcrumbs are
// collected per client, so breadcrumbs recorded by one handler may be
// attached to an error captured by another.
type Client struct {
	capture     publish.Capture
	extensions  modelprocessor.Chained
	breadcrumbs breadcrumb.Buffer
	logger      *logp.Logger

	sampleRate float64
	limiter    *rate.Limiter
	tags       map[string]string
	random     func() float64
	now        func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithSampleRate sets the percentage, from 0 to 100, of captured errors
// that are reported. The default is 100.
func WithSampleRate(percent float64) Option {
	return func(c *Client) { c.sampleRate = percent }
}

// WithRateLimit limits the rate of reported events. Events over the limit
// are dropped.
func WithRateLimit(eventsPerSecond float64, burst int) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(eventsPerSecond), burst)
	}
}

// WithTag adds a tag to every event, before extensions are applied.
func WithTag(name, value string) Option {
	return func(c *Client) { c.tags[name] = value }
}

// WithRandom sets the source of uniform random numbers in [0, 1) used
// for sampling.
func WithRandom(random func() float64) Option {
	return func(c *Client) { c.random = random }
}

// WithClock sets the function returning the time events are captured at.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// New returns a Client handing events to capture, after applying the
// extensions in order.
func New(capture publish.Capture, extensions []model.Extension, opts ...Option) *Client {
	c := &Client{
		capture:    capture,
		extensions: modelprocessor.Chained(extensions),
		logger:     logp.NewLogger(logs.Reporter),
		sampleRate: 100,
		tags:       make(map[string]string),
		random:     rand.Float64,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CaptureException reports err, which was caught while serving req. req
// may be nil. It returns the ID of the reported event, or an empty string
// if err is nil or the event was dropped by sampling or rate limiting.
//
// CaptureException blocks until the event has been handed to the
// capture.
func (c *Client) CaptureException(ctx context.Context, err error, req *http.Request) string {
	if err == nil {
		return ""
	}
	if c.random()*100 >= c.sampleRate {
		c.logger.Debugw("event dropped by sampling", "sample_rate", c.sampleRate)
		return ""
	}
	if c.limiter != nil && !c.limiter.Allow() {
		c.logger.Debug("event dropped by rate limit")
		return ""
	}
	if !stacktrace.HasStack(err) {
		err = stacktrace.WithCallers(err, 1)
	}

	id, idErr := newEventID()
	if idErr != nil {
		c.logger.Errorw("failed to create event", "error", idErr)
		return ""
	}
	event := model.NewEvent(id, c.now().UTC(), err.Error())
	for name, value := range c.tags {
		event.AddTag(name, value)
	}
	event.Breadcrumbs = c.breadcrumbs.Drain()

	c.extensions.Apply(ctx, event, err, req)
	c.capture.CaptureEvent(ctx, event)
	return id
}

// AddBreadcrumb records a breadcrumb, to be attached to the next captured
// event.
func (c *Client) AddBreadcrumb(crumb model.Breadcrumb) {
	if crumb.Timestamp.IsZero() {
		crumb.Timestamp = c.now()
	}
	c.breadcrumbs.AddBreadcrumb(crumb)
}

// Logger returns a logger whose entries are also recorded as breadcrumbs.
func (c *Client) Logger(selector string) *logp.Logger {
	crumbs := breadcrumb.NewCore(c, zapcore.DebugLevel)
	return logp.NewLogger(selector, zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return zapcore.NewTee(core, crumbs)
	}))
}

// Flush sends buffered events, if the client's capture buffers them.
func (c *Client) Flush(ctx context.Context) {
	if f, ok := c.capture.(interface{ Flush(context.Context) }); ok {
		f.Flush(ctx)
	}
}
