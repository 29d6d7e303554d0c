/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package lifecycle

import (
	"io"
	"sync/atomic"
	"time"

	"github.com/carverauto/hostsentry/pkg/logger"
	"github.com/rs/zerolog"
)

// LoggerImpl implements the logger.Logger interface without using global state.
// Loggers derived through ComponentLogger share the level of their parent, so
// SetLevel on any of them applies to the whole tree.
type LoggerImpl struct {
	base  zerolog.Logger
	level *atomic.Int32
}

func newLoggerImpl(base zerolog.Logger, level zerolog.Level) *LoggerImpl {
	shared := new(atomic.Int32)
	shared.Store(int32(level))

	return &LoggerImpl{base: base, level: shared}
}

// NewLoggerImpl creates a new logger implementation
func NewLoggerImpl(config *logger.Config) (*LoggerImpl, error) {
	if config == nil {
		config = logger.DefaultConfig()
	}

	level, err := logger.ParseLevel(config)
	if err != nil {
		return nil, err
	}

	timeFormat := time.RFC3339
	if config.TimeFormat != "" {
		timeFormat = config.TimeFormat
	}

	zerolog.TimeFieldFormat = timeFormat

	zlog := zerolog.New(logger.OutputFor(config)).
		With().
		Timestamp().
		Logger()

	return newLoggerImpl(zlog, level), nil
}

func (l *LoggerImpl) current() zerolog.Logger {
	return l.base.Level(zerolog.Level(l.level.Load()))
}

func (l *LoggerImpl) Trace() *zerolog.Event {
	zl := l.current()

	return zl.Trace()
}

func (l *LoggerImpl) Debug() *zerolog.Event {
	zl := l.current()

	return zl.Debug()
}

func (l *LoggerImpl) Info() *zerolog.Event {
	zl := l.current()

	return zl.Info()
}

func (l *LoggerImpl) Warn() *zerolog.Event {
	zl := l.current()

	return zl.Warn()
}

func (l *LoggerImpl) Error() *zerolog.Event {
	zl := l.current()

	return zl.Error()
}

func (l *LoggerImpl) Fatal() *zerolog.Event {
	zl := l.current()

	return zl.Fatal()
}

func (l *LoggerImpl) Panic() *zerolog.Event {
	zl := l.current()

	return zl.Panic()
}

func (l *LoggerImpl) With() zerolog.Context {
	return l.current().With()
}

func (l *LoggerImpl) WithComponent(component string) zerolog.Logger {
	return l.current().With().Str("component", component).Logger()
}

func (l *LoggerImpl) WithFields(fields map[string]interface{}) zerolog.Logger {
	ctx := l.current().With()
	for key, value := range fields {
		ctx = ctx.Interface(key, value)
	}

	return ctx.Logger()
}

func (l *LoggerImpl) SetLevel(level zerolog.Level) {
	l.level.Store(int32(level))
}

func (l *LoggerImpl) SetDebug(debug bool) {
	if debug {
		l.SetLevel(zerolog.DebugLevel)
	} else {
		l.SetLevel(zerolog.InfoLevel)
	}
}

// CreateLogger creates a new logger instance with the provided configuration.
// This returns a logger that can be injected into services.
func CreateLogger(config *logger.Config) (logger.Logger, error) {
	return NewLoggerImpl(config)
}

// CreateComponentLogger creates a logger for a specific component.
func CreateComponentLogger(component string, config *logger.Config) (logger.Logger, error) {
	loggerImpl, err := NewLoggerImpl(config)
	if err != nil {
		return nil, err
	}

	return ComponentLogger(loggerImpl, component), nil
}

// ComponentLogger derives a child logger tagged with the component name. A
// child of a LoggerImpl follows later SetLevel calls on its parent.
func ComponentLogger(parent logger.Logger, component string) logger.Logger {
	if impl, ok := parent.(*LoggerImpl); ok {
		return &LoggerImpl{
			base:  impl.base.With().Str("component", component).Logger(),
			level: impl.level,
		}
	}

	child := parent.WithComponent(component)

	return newLoggerImpl(child, child.GetLevel())
}

// NewWriterLogger returns a debug-level logger writing JSON lines to w.
func NewWriterLogger(w io.Writer) logger.Logger {
	return newLoggerImpl(zerolog.New(w), zerolog.DebugLevel)
}
