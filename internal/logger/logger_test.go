// Copyright 2026 The vfsemu Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package logger

import (
	"bytes"
	"log/slog"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

const (
	textErrorString = `severity=ERROR msg=www.errorExample.com`
	jsonErrorString = `"severity":"ERROR","msg":"www.errorExample.com"`
)

type LoggerTest struct {
	suite.Suite
}

func TestLoggerSuite(t *testing.T) {
	suite.Run(t, new(LoggerTest))
}

func redirectLogsToBuffer(buf *bytes.Buffer, level, format string) {
	defaultLoggerFactory.format = format
	defaultLogger = slog.New(defaultLoggerFactory.createJSONOrTextHandler(buf, programLevel(level), ""))
}

func (t *LoggerTest) TestLogLevelOffSuppressesEverything() {
	var buf bytes.Buffer
	redirectLogsToBuffer(&buf, OFF, "text")
	Errorf("www.errorExample.com")
	assert.Empty(t.T(), buf.String())
}

func (t *LoggerTest) TestTextFormatErrorLevel() {
	var buf bytes.Buffer
	redirectLogsToBuffer(&buf, ERROR, "text")
	Debugf("www.debugExample.com")
	assert.Empty(t.T(), buf.String())

	Errorf("www.errorExample.com")
	assert.Regexp(t.T(), regexp.MustCompile(textErrorString), buf.String())
}

func (t *LoggerTest) TestJSONFormatErrorLevel() {
	var buf bytes.Buffer
	redirectLogsToBuffer(&buf, ERROR, "json")
	Errorf("www.errorExample.com")
	assert.Regexp(t.T(), regexp.MustCompile(jsonErrorString), buf.String())
}

func (t *LoggerTest) TestSetLoggingLevel() {
	testData := []struct {
		input    string
		expected slog.Level
	}{
		{TRACE, LevelTrace},
		{DEBUG, LevelDebug},
		{INFO, LevelInfo},
		{WARNING, LevelWarn},
		{ERROR, LevelError},
		{OFF, LevelOff},
	}

	for _, test := range testData {
		lv := new(slog.LevelVar)
		setLoggingLevel(test.input, lv)
		assert.Equal(t.T(), test.expected, lv.Level())
	}
}

func (t *LoggerTest) TestSetLogFormat() {
	SetLogFormat("json")
	assert.Equal(t.T(), "json", defaultLoggerFactory.format)
	SetLogFormat("text")
	assert.Equal(t.T(), "text", defaultLoggerFactory.format)
}
