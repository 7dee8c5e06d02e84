// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Ryan Johnson

package vnc

import (
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedZapLogger() (*ZapLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return NewZapLogger(zap.New(core)), logs
}

func TestNewZapLogger_NilFallsBackToNop(t *testing.T) {
	logger := NewZapLogger(nil)
	if logger == nil {
		t.Fatal("NewZapLogger(nil) returned nil")
	}

	// Must not panic even though the wrapped logger discards everything.
	logger.Info("message", Field{Key: "k", Value: "v"})
}

func TestZapLogger_LevelsAndFields(t *testing.T) {
	logger, logs := newObservedZapLogger()

	logger.Debug("debug msg", Field{Key: "a", Value: 1})
	logger.Info("info msg", Field{Key: "b", Value: "two"})
	logger.Warn("warn msg")
	logger.Error("error msg", Field{Key: "c", Value: 3})

	all := logs.All()
	if len(all) != 4 {
		t.Fatalf("expected 4 log entries, got %d", len(all))
	}

	if all[0].Message != "debug msg" || all[0].Level != zap.DebugLevel {
		t.Errorf("unexpected debug entry: %+v", all[0])
	}
	if got := all[1].ContextMap()["b"]; got != "two" {
		t.Errorf("expected field b=two, got %v", got)
	}
	if all[2].Level != zap.WarnLevel {
		t.Errorf("expected warn level, got %v", all[2].Level)
	}
	if got := all[3].ContextMap()["c"]; got != int64(3) {
		t.Errorf("expected field c=3, got %v", got)
	}
}

func TestZapLogger_With(t *testing.T) {
	logger, logs := newObservedZapLogger()

	scoped := logger.With(Field{Key: "conn", Value: "test"})
	scoped.Info("scoped message")
	logger.Info("unscoped message")

	all := logs.All()
	if len(all) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(all))
	}
	if got := all[0].ContextMap()["conn"]; got != "test" {
		t.Errorf("expected bound field conn=test on scoped logger, got %v", got)
	}
	if _, ok := all[1].ContextMap()["conn"]; ok {
		t.Error("unscoped logger should not carry the bound field")
	}
}

func TestZapLogger_SatisfiesLoggerInterface(t *testing.T) {
	var _ Logger = NewZapLogger(zap.NewNop())
}

func TestToZapFields_PreservesKeysAndValues(t *testing.T) {
	fields := []Field{
		{Key: "x", Value: 1},
		{Key: "y", Value: "str"},
	}
	zf := toZapFields(fields)
	if len(zf) != len(fields) {
		t.Fatalf("expected %d zap fields, got %d", len(fields), len(zf))
	}
	for i, f := range zf {
		if !strings.EqualFold(f.Key, fields[i].Key) {
			t.Errorf("field %d key = %q, want %q", i, f.Key, fields[i].Key)
		}
	}
}
