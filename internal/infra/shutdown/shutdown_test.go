// Package shutdown provides graceful shutdown handling.
package shutdown

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRun(t *testing.T) {
	t.Run("ReverseOrder", func(t *testing.T) {
		h := NewHandler(time.Second)

		var order []int
		h.OnShutdown(func(ctx context.Context) error {
			order = append(order, 1)
			return nil
		})
		h.OnShutdown(func(ctx context.Context) error {
			order = append(order, 2)
			return nil
		})

		if err := h.Run(); err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if len(order) != 2 || order[0] != 2 || order[1] != 1 {
			t.Errorf("expected reverse order [2 1], got %v", order)
		}
	})

	t.Run("ReturnsLastError", func(t *testing.T) {
		h := NewHandler(time.Second)
		wantErr := errors.New("close failed")

		h.OnShutdown(func(ctx context.Context) error { return wantErr })
		h.OnShutdown(func(ctx context.Context) error { return nil })

		if err := h.Run(); !errors.Is(err, wantErr) {
			t.Errorf("expected hook error, got %v", err)
		}
	})

	t.Run("DoneCloses", func(t *testing.T) {
		h := NewHandler(time.Second)
		_ = h.Run()

		select {
		case <-h.Done():
		default:
			t.Error("expected Done channel closed after Run")
		}
	})
}
