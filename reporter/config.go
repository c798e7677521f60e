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
	"time"

	"github.com/pkg/errors"

	"github.com/elastic/beats/v7/libbeat/logp"

	"github.com/crashpost/crashpost/config"
	logs "github.com/crashpost/crashpost/log"
	"github.com/crashpost/crashpost/model"
	"github.com/crashpost/crashpost/model/modelprocessor"
	"github.com/crashpost/crashpost/publish"
	"github.com/crashpost/crashpost/stacktrace"
)

const signatureCacheExpiration = 5 * time.Minute

// NewFromConfig returns a Client with the built-in extensions, sending
// events to the collector identified by cfg.DSN. If cfg.DSN is empty,
// events are dropped after processing.
func NewFromConfig(cfg *config.Config) (*Client, error) {
	capture, err := newCapture(cfg)
	if err != nil {
		return nil, err
	}
	builder, err := NewBuilder(cfg)
	if err != nil {
		return nil, err
	}
	ipHeaders, err := cfg.IPHeaders()
	if err != nil {
		return nil, errors.Wrap(err, "invalid user_ip_headers")
	}

	exceptions := modelprocessor.NewExceptionReporter(builder)
	exceptions.ErrorLevels = cfg.Levels(modelprocessor.DefaultErrorLevels())
	extensions := []model.Extension{
		modelprocessor.NewEnvironmentReporter(),
		modelprocessor.RequestReporter{},
		exceptions,
		modelprocessor.ClientSniffer{},
		modelprocessor.ClientIPDetector{Headers: ipHeaders},
	}

	opts := []Option{WithSampleRate(cfg.SampleRate)}
	if cfg.RateLimit.EventsPerSecond > 0 {
		opts = append(opts, WithRateLimit(cfg.RateLimit.EventsPerSecond, cfg.RateLimit.Burst))
	}
	if cfg.Environment != "" {
		opts = append(opts, WithTag("environment", cfg.Environment))
	}
	if cfg.Release != "" {
		opts = append(opts, WithTag("release", cfg.Release))
	}
	return New(capture, extensions, opts...), nil
}

// NewBuilder returns the stack trace builder configured by cfg.
func NewBuilder(cfg *config.Config) (*stacktrace.Builder, error) {
	loader, err := stacktrace.NewSourceLoader(cfg.ContextLines, cfg.SourceCacheSize)
	if err != nil {
		return nil, err
	}
	return &stacktrace.Builder{
		RootPath:  cfg.RootPath,
		Formatter: stacktrace.Formatter{MaxStringLength: cfg.MaxStringLength},
		Loader:    loader,
		Filter:    stacktrace.Filter(cfg.Filters),
		Resolver:  stacktrace.NewSourceResolver(signatureCacheExpiration),
	}, nil
}

func newCapture(cfg *config.Config) (publish.Capture, error) {
	if cfg.DSN == "" {
		logger := logp.NewLogger(logs.Capture)
		return publish.CaptureFunc(func(ctx context.Context, event *model.Event) {
			logger.Debugw("no dsn configured, dropping event", "event_id", event.ID)
		}), nil
	}
	dsn, err := publish.ParseDSN(cfg.DSN)
	if err != nil {
		return nil, err
	}
	var capture publish.Capture = publish.NewDirect(dsn, publish.DirectConfig{
		Timeout: cfg.Timeout,
		Proxy:   cfg.Proxy,
	})
	if cfg.Buffered {
		capture = publish.NewBuffered(capture)
	}
	return capture, nil
}
