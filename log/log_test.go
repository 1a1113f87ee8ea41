package log_test

import (
	"context"
	"testing"

	"github.com/creastat/docstore/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithContext(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)

	ctx := log.WithFields(context.Background(), zap.String("document", "dbs/a"))
	ctx = log.WithFields(ctx, zap.String("session", "s1"))

	log.WithContext(ctx, logger).Debug("hello")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	fields := entries[0].ContextMap()
	if fields["document"] != "dbs/a" || fields["session"] != "s1" {
		t.Fatalf("expected context fields on the entry, got %#v", fields)
	}
}

func TestLoggerFromContext(t *testing.T) {
	def := zap.NewNop()

	logger, ctx := log.LoggerFromContext(context.Background(), def)
	if logger != def {
		t.Fatalf("expected the default logger")
	}

	other := zap.NewExample()
	ctx = log.WithLogger(ctx, other)

	if logger, _ := log.LoggerFromContext(ctx, def); logger != other {
		t.Fatalf("expected the context logger")
	}
}
