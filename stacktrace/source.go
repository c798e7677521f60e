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

package stacktrace

import (
	"bufio"
	"os"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"

	"github.com/elastic/beats/v7/libbeat/logp"

	logs "github.com/crashpost/crashpost/log"
	"github.com/crashpost/crashpost/model"
)

const (
	// DefaultContextLines is the default number of lines of context
	// loaded on each side of a frame's line.
	DefaultContextLines = 5

	// DefaultSourceCacheSize is the default number of source files kept
	// in memory.
	DefaultSourceCacheSize = 64

	maxLineLength = 1024 * 1024
)

// SourceLoader loads source lines around a frame's line.
type SourceLoader struct {
	contextLines int
	cache        *lru.Cache
	logger       *logp.Logger

	// reads collapses concurrent reads of the same file.
	reads singleflight.Group
}

type sourceFile struct {
	modTime time.Time
	size    int64
	lines   []string
}

// NewSourceLoader returns a SourceLoader that loads contextLines lines on
// each side of a frame's line, and keeps up to cacheSize files in memory.
// If cacheSize is zero, files are read on every load.
func NewSourceLoader(contextLines, cacheSize int) (*SourceLoader, error) {
	if contextLines < 0 {
		return nil, errors.Errorf("context lines must not be negative, got %d", contextLines)
	}
	loader := &SourceLoader{
		contextLines: contextLines,
		logger:       logp.NewLogger(logs.Stacktrace),
	}
	if cacheSize > 0 {
		cache, err := lru.New(cacheSize)
		if err != nil {
			return nil, errors.Wrap(err, "creating source cache")
		}
		loader.cache = cache
	}
	return loader, nil
}

// Load sets the context lines of frame from the file at path, around line
// lineno. Lines before lineno go to PreContext, lineno itself to
// ContextLine, and lines after it to PostContext. Frame is left untouched
// if the file cannot be read.
func (l *SourceLoader) Load(frame *model.StacktraceFrame, path string, lineno int) {
	if lineno < 1 || path == "" || path == model.NoFile {
		return
	}
	lines := l.lines(path)
	start := lineno - l.contextLines
	if start < 1 {
		start = 1
	}
	for n := start; n <= lineno+l.contextLines && n <= len(lines); n++ {
		line := lines[n-1]
		switch {
		case n < lineno:
			frame.PreContext = append(frame.PreContext, line)
		case n == lineno:
			frame.ContextLine = &line
		default:
			frame.PostContext = append(frame.PostContext, line)
		}
	}
}

func (l *SourceLoader) lines(path string) []string {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return nil
	}
	if l.cache != nil {
		if cached, ok := l.cache.Get(path); ok {
			file := cached.(*sourceFile)
			if file.modTime.Equal(info.ModTime()) && file.size == info.Size() {
				return file.lines
			}
		}
	}
	v, _, _ := l.reads.Do(path, func() (interface{}, error) {
		lines, err := readLines(path)
		if err != nil {
			l.logger.Debugw("failed to read source file", "path", path, "error", err)
		}
		if l.cache != nil {
			l.cache.Add(path, &sourceFile{modTime: info.ModTime(), size: info.Size(), lines: lines})
		}
		return lines, nil
	})
	return v.([]string)
}

// readLines returns the lines of the file at path without line endings.
// On a read error, the lines read so far are returned with the error.
func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 4096), maxLineLength)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}
