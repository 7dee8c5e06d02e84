// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Ryan Johnson

package vnc

import "go.uber.org/zap"

// ZapLogger adapts a *zap.Logger to the Logger interface so callers that
// already run zap elsewhere in their process can reuse it for this client
// instead of standing up a second logging backend.
type ZapLogger struct {
	logger *zap.Logger
}

// NewZapLogger wraps the given zap logger. A nil logger falls back to
// zap.NewNop() so callers never need a nil check.
func NewZapLogger(logger *zap.Logger) *ZapLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapLogger{logger: logger}
}

func toZapFields(fields []Field) []zap.Field {
	zf := make([]zap.Field, len(fields))
	for i, f := range fields {
		zf[i] = zap.Any(f.Key, f.Value)
	}
	return zf
}

// Debug logs a debug-level message via the wrapped zap logger.
func (l *ZapLogger) Debug(msg string, fields ...Field) {
	l.logger.Debug(msg, toZapFields(fields)...)
}

// Info logs an info-level message via the wrapped zap logger.
func (l *ZapLogger) Info(msg string, fields ...Field) {
	l.logger.Info(msg, toZapFields(fields)...)
}

// Warn logs a warning-level message via the wrapped zap logger.
func (l *ZapLogger) Warn(msg string, fields ...Field) {
	l.logger.Warn(msg, toZapFields(fields)...)
}

// Error logs an error-level message via the wrapped zap logger.
func (l *ZapLogger) Error(msg string, fields ...Field) {
	l.logger.Error(msg, toZapFields(fields)...)
}

// With returns a new ZapLogger with the given fields bound via zap's own
// With, so they are attached once rather than re-encoded per call.
func (l *ZapLogger) With(fields ...Field) Logger {
	return &ZapLogger{logger: l.logger.With(toZapFields(fields)...)}
}
