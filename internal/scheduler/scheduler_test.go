package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type countingMaintenance struct {
	calls int64
}

func (c *countingMaintenance) ClearCompletedSessions() (int, error) {
	atomic.AddInt64(&c.calls, 1)
	return 0, nil
}

func TestSchedulerRunsCleanup(t *testing.T) {
	m := &countingMaintenance{}
	s := New(m, 20*time.Millisecond, zap.NewNop().Sugar())

	s.Start()
	defer s.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for atomic.LoadInt64(&m.calls) == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	assert.Greater(t, atomic.LoadInt64(&m.calls), int64(0))
}

func TestSchedulerDefaultsInterval(t *testing.T) {
	s := New(&countingMaintenance{}, 0, zap.NewNop().Sugar())
	assert.Equal(t, DefaultCleanupInterval, s.interval)
}
