package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeriodicRunsUntilStopped(t *testing.T) {
	var runs int32
	p := NewPeriodic("count", func(context.Context) error {
		atomic.AddInt32(&runs, 1)
		return nil
	}, PeriodicConfig{Interval: 5 * time.Millisecond})

	p.Start(context.Background())
	p.Start(context.Background())
	require.Eventually(t, func() bool { return atomic.LoadInt32(&runs) >= 2 }, time.Second, time.Millisecond)
	p.Stop()

	after := atomic.LoadInt32(&runs)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, atomic.LoadInt32(&runs))
	p.Stop()
}

func TestPeriodicRunOnceAppliesTimeout(t *testing.T) {
	p := NewPeriodic("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}, PeriodicConfig{Interval: time.Hour, Timeout: 10 * time.Millisecond})

	err := p.RunOnce(context.Background())
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}
