package telemetry_test

import (
	"context"
	"testing"

	"go.trai.ch/parc/internal/adapters/telemetry"
	"go.trai.ch/parc/internal/core/ports"
)

func TestNoOp(t *testing.T) {
	noop := telemetry.NewNoOp()

	ctx, vertex := noop.Record(context.Background(), "flush (3 units)")
	if vertex == nil {
		t.Fatal("expected a vertex, got nil")
	}

	if _, err := vertex.Stdout().Write([]byte("out")); err != nil {
		t.Errorf("unexpected stdout write error: %v", err)
	}
	if _, err := vertex.Stderr().Write([]byte("err")); err != nil {
		t.Errorf("unexpected stderr write error: %v", err)
	}
	vertex.Cached()
	vertex.Complete(nil)

	if err := noop.Close(); err != nil {
		t.Errorf("unexpected close error: %v", err)
	}

	// The context passes through unchanged.
	if ctx != context.Background() {
		t.Error("expected context to pass through untouched")
	}

	var _ ports.Telemetry = noop
}
