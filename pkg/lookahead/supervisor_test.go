package lookahead

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countingMaintainer struct {
	generated atomic.Int32
	updated   atomic.Int32
}

func (c *countingMaintainer) GenerateTimetablesOfAllBusLines(ctx context.Context) error {
	c.generated.Add(1)
	return errors.New("generator failure is only logged")
}

func (c *countingMaintainer) UpdateTimetablesOfAllBusLines(ctx context.Context) error {
	c.updated.Add(1)
	return nil
}

func TestSupervisorStopsAfterMaxOperation(t *testing.T) {
	maintainer := &countingMaintainer{}
	supervisor := &Supervisor{
		Maintainer:            maintainer,
		GeneratorPeriod:       10 * time.Millisecond,
		GeneratorMaxOperation: 55 * time.Millisecond,
		UpdaterPeriod:         20 * time.Millisecond,
		UpdaterMaxOperation:   55 * time.Millisecond,
	}

	done := make(chan struct{})
	go func() {
		supervisor.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("supervisor did not stop")
	}

	assert.GreaterOrEqual(t, maintainer.generated.Load(), int32(3))
	assert.GreaterOrEqual(t, maintainer.updated.Load(), int32(2))
}

func TestSupervisorCancel(t *testing.T) {
	maintainer := &countingMaintainer{}
	supervisor := &Supervisor{
		Maintainer:      maintainer,
		GeneratorPeriod: time.Hour,
		UpdaterPeriod:   time.Hour,
	}

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		supervisor.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		return maintainer.generated.Load() == 1 && maintainer.updated.Load() == 1
	}, time.Second, 5*time.Millisecond)

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("supervisor did not stop on cancel")
	}
}
