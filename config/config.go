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

package config

import (
	"fmt"
	"time"

	"github.com/elastic/go-ucfg"
	"github.com/elastic/go-ucfg/yaml"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/elastic/beats/v7/libbeat/logp"

	logs "github.com/crashpost/crashpost/log"
	"github.com/crashpost/crashpost/model"
	"github.com/crashpost/crashpost/utility"
)

var ucfgOptions = []ucfg.Option{
	ucfg.PathSep("."),
	ucfg.VarExp,
	ucfg.ResolveEnv,
}

// Config holds the client configuration.
type Config struct {
	// DSN identifies the project events are reported to.
	DSN string `config:"dsn"`

	// RootPath is stripped from the file names of reported frames.
	RootPath string `config:"root_path"`

	MaxStringLength int      `config:"max_string_length" validate:"min=1"`
	ContextLines    int      `config:"context_lines" validate:"min=0"`
	SourceCacheSize int      `config:"source_cache_size" validate:"min=0"`
	Filters         []string `config:"filters"`

	// SampleRate is the percentage of errors that are reported.
	SampleRate float64 `config:"sample_rate" validate:"min=0, max=100"`

	RateLimit RateLimitConfig `config:"rate_limit"`

	Timeout time.Duration `config:"timeout"`
	Proxy   string        `config:"proxy"`

	// Buffered defers sending events until the client is flushed.
	Buffered bool `config:"buffered"`

	// UserIPHeaders lists the request headers consulted for the client IP
	// address, in order. If empty, utility.DefaultIPHeaders is used.
	UserIPHeaders []IPHeaderConfig `config:"user_ip_headers"`

	// ErrorLevels maps severity names, such as "user_warning", to event
	// levels, overriding the defaults.
	ErrorLevels map[string]string `config:"error_levels"`

	Environment string `config:"environment"`
	Release     string `config:"release"`
}

// RateLimitConfig holds the client-side rate limit. The limit is disabled
// when EventsPerSecond is zero.
type RateLimitConfig struct {
	EventsPerSecond float64 `config:"events_per_second" validate:"min=0"`
	Burst           int     `config:"burst" validate:"min=0"`
}

// IPHeaderConfig names a request header that may hold the client IP
// address, and the pattern extracting it.
type IPHeaderConfig struct {
	Header  string `config:"header" validate:"required"`
	Pattern string `config:"pattern" validate:"required"`
}

// Validate checks that c is consistent, reporting all problems found.
func (c *Config) Validate() error {
	var result error
	if c.RateLimit.EventsPerSecond > 0 && c.RateLimit.Burst < 1 {
		result = multierror.Append(result, errors.New("rate_limit.burst must be at least 1 when rate_limit.events_per_second is set"))
	}
	for name, level := range c.ErrorLevels {
		if _, ok := model.ParseSeverity(name); !ok {
			result = multierror.Append(result, fmt.Errorf("error_levels: unknown severity %q", name))
		}
		if !model.Level(level).Valid() {
			result = multierror.Append(result, fmt.Errorf("error_levels: invalid level %q for %s", level, name))
		}
	}
	for i, h := range c.UserIPHeaders {
		if _, err := utility.NewIPHeader(h.Header, h.Pattern); err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "user_ip_headers.%d", i))
		}
	}
	return result
}

// IPHeaders returns the compiled UserIPHeaders, or nil if none are
// configured.
func (c *Config) IPHeaders() ([]utility.IPHeader, error) {
	if len(c.UserIPHeaders) == 0 {
		return nil, nil
	}
	headers := make([]utility.IPHeader, len(c.UserIPHeaders))
	for i, h := range c.UserIPHeaders {
		header, err := utility.NewIPHeader(h.Header, h.Pattern)
		if err != nil {
			return nil, err
		}
		headers[i] = header
	}
	return headers, nil
}

// Levels returns the severity to level mapping: the defaults, overridden
// by ErrorLevels.
func (c *Config) Levels(defaults map[model.Severity]model.Level) map[model.Severity]model.Level {
	levels := make(map[model.Severity]model.Level, len(defaults)+len(c.ErrorLevels))
	for s, l := range defaults {
		levels[s] = l
	}
	for name, level := range c.ErrorLevels {
		if s, ok := model.ParseSeverity(name); ok {
			levels[s] = model.Level(level)
		}
	}
	return levels
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		MaxStringLength: 200,
		ContextLines:    5,
		SourceCacheSize: 64,
		SampleRate:      100,
		Timeout:         5 * time.Second,
	}
}

// NewConfig unpacks cfg over the defaults and validates the result.
func NewConfig(cfg *ucfg.Config) (*Config, error) {
	c := DefaultConfig()
	if cfg != nil {
		if err := cfg.Unpack(c, ucfgOptions...); err != nil {
			return nil, errors.Wrap(err, "Error processing configuration")
		}
	} else if err := c.Validate(); err != nil {
		return nil, err
	}
	if c.DSN == "" {
		logp.NewLogger(logs.Config).Warn("No dsn configured, events will not be sent")
	}
	return c, nil
}

// LoadFile reads the YAML configuration file at path.
func LoadFile(path string) (*Config, error) {
	cfg, err := yaml.NewConfigWithFile(path, ucfgOptions...)
	if err != nil {
		return nil, errors.Wrapf(err, "Error reading configuration file %s", path)
	}
	return NewConfig(cfg)
}

// FromMap builds a Config from a map, as used in tests and for flags.
func FromMap(m map[string]interface{}) (*Config, error) {
	cfg, err := ucfg.NewFrom(m, ucfgOptions...)
	if err != nil {
		return nil, errors.Wrap(err, "Error processing configuration")
	}
	return NewConfig(cfg)
}
