/*
Copyright © 2021 - 2025 SUSE LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package grubtypes

import (
	"bytes"
	"io"

	log "github.com/sirupsen/logrus"
)

// Logger is the interface every component in this module logs through, so
// callers can plug in whatever backend they want.
type Logger interface {
	Info(...interface{})
	Warn(...interface{})
	Debug(...interface{})
	Error(...interface{})
	Fatal(...interface{})
	Infof(string, ...interface{})
	Warnf(string, ...interface{})
	Debugf(string, ...interface{})
	Errorf(string, ...interface{})
	Fatalf(string, ...interface{})
	SetLevel(level log.Level)
	GetLevel() log.Level
	SetOutput(writer io.Writer)
	SetFormatter(formatter log.Formatter)
}

// NewLogger returns a real, stderr-backed logger.
func NewLogger() Logger {
	return log.New()
}

// NewNullLogger returns a logger that discards everything, used by library
// embedders that don't want log output and by tests that don't assert on it.
func NewNullLogger() Logger {
	logger := log.New()
	logger.SetOutput(io.Discard)
	return logger
}

// NewBufferLogger returns a logger that stores all logs in a buffer, used
// mainly for tests that assert on the log output.
func NewBufferLogger(b *bytes.Buffer) Logger {
	logger := log.New()
	logger.SetOutput(b)
	return logger
}

// DebugLevel returns the parsed logrus debug level, saving every caller from
// the ignored-error parse dance.
func DebugLevel() log.Level {
	l, _ := log.ParseLevel("debug")
	return l
}

// IsDebugLevel reports whether l is currently set to debug (or more verbose).
func IsDebugLevel(l Logger) bool {
	return l.GetLevel() >= DebugLevel()
}
