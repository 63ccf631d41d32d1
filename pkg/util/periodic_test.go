package util

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRunPeriodicallyRunsImmediately(t *testing.T) {
	var runs atomic.Int32

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		RunPeriodically(ctx, "test", time.Hour, 0, func(ctx context.Context) error {
			runs.Add(1)
			return nil
		})
		close(done)
	}()

	assert.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("loop did not stop on cancel")
	}
}

func TestRunPeriodicallyMaxOperation(t *testing.T) {
	var runs atomic.Int32

	done := make(chan struct{})
	go func() {
		RunPeriodically(context.Background(), "test", 10*time.Millisecond, 55*time.Millisecond, func(ctx context.Context) error {
			runs.Add(1)
			return errors.New("failures are only logged")
		})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop after its maximum operation time")
	}

	assert.GreaterOrEqual(t, runs.Load(), int32(3))
}
