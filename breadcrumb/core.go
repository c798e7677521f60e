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

package breadcrumb

import (
	"time"

	"go.uber.org/zap/zapcore"

	"github.com/crashpost/crashpost/model"
)

// Recorder records breadcrumbs.
type Recorder interface {
	AddBreadcrumb(model.Breadcrumb)
}

// NewCore returns a zapcore.Core that records each log entry enabled by
// enab as a breadcrumb. The breadcrumb message is "[<level>] <message>",
// and the entry's fields become the breadcrumb data.
func NewCore(recorder Recorder, enab zapcore.LevelEnabler) zapcore.Core {
	return &core{LevelEnabler: enab, recorder: recorder}
}

type core struct {
	zapcore.LevelEnabler
	recorder Recorder
	fields   []zapcore.Field
}

func (c *core) With(fields []zapcore.Field) zapcore.Core {
	clone := *c
	clone.fields = append(clone.fields[:len(clone.fields):len(clone.fields)], fields...)
	return &clone
}

func (c *core) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *core) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range c.fields {
		f.AddTo(enc)
	}
	for _, f := range fields {
		f.AddTo(enc)
	}
	crumb := model.Breadcrumb{
		Timestamp: ent.Time,
		Level:     Level(ent.Level),
		Message:   "[" + ent.Level.String() + "] " + ent.Message,
	}
	if crumb.Timestamp.IsZero() {
		crumb.Timestamp = time.Now()
	}
	if len(enc.Fields) > 0 {
		crumb.Data = enc.Fields
	}
	c.recorder.AddBreadcrumb(crumb)
	return nil
}

func (c *core) Sync() error {
	return nil
}

// Level returns the event level for a zap level.
func Level(l zapcore.Level) model.Level {
	switch {
	case l <= zapcore.DebugLevel:
		return model.LevelDebug
	case l == zapcore.InfoLevel:
		return model.LevelInfo
	case l == zapcore.WarnLevel:
		return model.LevelWarning
	case l == zapcore.ErrorLevel:
		return model.LevelError
	}
	return model.LevelFatal
}
