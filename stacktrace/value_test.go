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

package stacktrace_test

import (
	"bytes"
	"math"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crashpost/crashpost/stacktrace"
)

type point struct{ X, Y int }

type celsius float64

func TestFormatValue(t *testing.T) {
	var nilMap map[string]int
	var nilSlice []int
	var nilPtr *point
	var nilFunc func()
	var nilChan chan int
	seven := 7

	for name, test := range map[string]struct {
		value interface{}
		out   string
	}{
		"nil":            {value: nil, out: "null"},
		"true":           {value: true, out: "true"},
		"false":          {value: false, out: "false"},
		"int":            {value: -42, out: "-42"},
		"uint8":          {value: uint8(255), out: "255"},
		"float exact":    {value: 0.5, out: "0.5"},
		"float rounded":  {value: 1.0 / 3, out: "~0.333333"},
		"float digits":   {value: 0.12345678, out: "~0.123457"},
		"float64 exact":  {value: 0.42, out: "0.42"},
		"float32":        {value: float32(0.42), out: "0.42"},
		"named float":    {value: celsius(21.5), out: "21.5"},
		"float large":    {value: 1234567.0, out: "~1.23457e+06"},
		"NaN":            {value: math.NaN(), out: "NaN"},
		"string":         {value: "hello", out: `"hello"`},
		"escaped":        {value: `it's "quoted" \ ` + "\x00", out: `"it\'s \"quoted\" \\ \0"`},
		"slice":          {value: []int{1, 2, 3}, out: "array[3]"},
		"array":          {value: [2]string{"a", "b"}, out: "array[2]"},
		"map":            {value: map[string]int{"a": 1}, out: "array[1]"},
		"nil map":        {value: nilMap, out: "array[0]"},
		"nil slice":      {value: nilSlice, out: "array[0]"},
		"struct":         {value: point{1, 2}, out: "{stacktrace_test.point}"},
		"struct pointer": {value: &point{1, 2}, out: "{stacktrace_test.point}"},
		"anonymous":      {value: struct{ A int }{1}, out: "{object}"},
		"nil pointer":    {value: nilPtr, out: "null"},
		"int pointer":    {value: &seven, out: "7"},
		"nil func":       {value: nilFunc, out: "null"},
		"nil chan":       {value: nilChan, out: "null"},
		"chan":           {value: make(chan int), out: "{chan}"},
		"complex":        {value: complex(1, 2), out: "{complex128}"},
		"method ref":     {value: stacktrace.MethodRef{Receiver: &point{}, Method: "Move"}, out: "{stacktrace_test.point}->Move()"},
		"static ref":     {value: stacktrace.MethodRef{Receiver: "pkg.Point", Method: "New"}, out: "pkg.Point::New()"},
		"named func":     {value: strings.ToUpper, out: "strings.ToUpper()"},
		"method value":   {value: new(bytes.Buffer).String, out: "{bytes.Buffer}->String()"},
		"method expr":    {value: (*bytes.Buffer).String, out: "bytes.Buffer::String()"},
	} {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.out, stacktrace.Formatter{}.FormatValue(test.value))
		})
	}
}

func TestFormatValueClosure(t *testing.T) {
	fn := func() {}
	out := stacktrace.Formatter{}.FormatValue(fn)
	assert.Regexp(t, `^\{Closure in .*value_test\.go\(\d+\)\}$`, out)
}

func TestFormatValueTruncatesStrings(t *testing.T) {
	long := strings.Repeat("a", 250)
	out := stacktrace.Formatter{}.FormatValue(long)
	assert.Equal(t, `"`+strings.Repeat("a", 200)+`...[250]"`, out)

	out = stacktrace.Formatter{MaxStringLength: 10}.FormatValue(strings.Repeat("b", 10))
	assert.Equal(t, `"bbbbbbbbbb"`, out)

	// "é" is two bytes; truncation must not split it.
	out = stacktrace.Formatter{MaxStringLength: 4}.FormatValue("aaaéé")
	assert.Equal(t, `"aaa...[7]"`, out)
}

func TestFormatValueResources(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "stream"))
	require.NoError(t, err)
	assert.Equal(t, "{stream}", stacktrace.Formatter{}.FormatValue(f))
	require.NoError(t, f.Close())
	assert.Equal(t, "{unknown type}", stacktrace.Formatter{}.FormatValue(f))

	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer w.Close()
	assert.Equal(t, "{stream}", stacktrace.Formatter{}.FormatValue(r))
	require.NoError(t, r.SetReadDeadline(time.Now().Add(50*time.Millisecond)))
	readErr := make(chan error, 1)
	go func() {
		_, err := r.Read(make([]byte, 1))
		readErr <- err
	}()
	select {
	case err := <-readErr:
		assert.ErrorIs(t, err, os.ErrDeadlineExceeded)
	case <-time.After(2 * time.Second):
		t.Fatal("read deadline not honored after formatting the pipe")
	}
	require.NoError(t, r.Close())
	assert.Equal(t, "{unknown type}", stacktrace.Formatter{}.FormatValue(r))

	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()
	assert.Equal(t, "{socket}", stacktrace.Formatter{}.FormatValue(client))
}
