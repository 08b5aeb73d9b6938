package otel_test

import (
	"context"
	"testing"

	"github.com/louisbranch/creature-arena/internal/platform/otel"
	"go.opentelemetry.io/otel/trace"
)

func TestSetupNoopWhenEndpointEmpty(t *testing.T) {
	t.Setenv("CREATURE_ARENA_OTEL_ENDPOINT", "")
	t.Setenv("CREATURE_ARENA_OTEL_ENABLED", "true")

	shutdown, err := otel.Setup(context.Background(), "test-service")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestSetupNoopWhenExplicitlyDisabled(t *testing.T) {
	t.Setenv("CREATURE_ARENA_OTEL_ENDPOINT", "http://localhost:4318")
	t.Setenv("CREATURE_ARENA_OTEL_ENABLED", "false")

	shutdown, err := otel.Setup(context.Background(), "test-service")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := shutdown(ctx); err != nil {
		t.Fatalf("noop shutdown should not error: %v", err)
	}
}

func TestSetupRejectsInvalidEnabledFlag(t *testing.T) {
	t.Setenv("CREATURE_ARENA_OTEL_ENABLED", "maybe")

	if _, err := otel.Setup(context.Background(), "test-service"); err == nil {
		t.Fatal("expected config error")
	}
}

func TestSetupCreatesProviderWhenEndpointSet(t *testing.T) {
	// Non-routable address; nothing is exported before shutdown.
	t.Setenv("CREATURE_ARENA_OTEL_ENDPOINT", "http://192.0.2.1:4318")
	t.Setenv("CREATURE_ARENA_OTEL_ENABLED", "true")

	shutdown, err := otel.Setup(context.Background(), "test-service")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestTraceID(t *testing.T) {
	if got := otel.TraceID(context.Background()); got != "" {
		t.Fatalf("TraceID(background) = %q, want empty", got)
	}

	traceID := trace.TraceID{0x01, 0x02}
	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: trace.SpanID{0x03}})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)
	if got := otel.TraceID(ctx); got != traceID.String() {
		t.Fatalf("TraceID = %q, want %q", got, traceID.String())
	}
}
