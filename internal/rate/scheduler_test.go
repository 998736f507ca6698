package rate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewScheduler_Constructs(t *testing.T) {
	s := NewScheduler(new(MockSyncRunner), "*/30 * * * *", "30 18 * * *", nil)
	require.NotNil(t, s)
	require.Nil(t, s.sched)
	require.Equal(t, time.Local, s.location)
}

func TestScheduler_Shutdown_NoScheduler_ReturnsNil(t *testing.T) {
	s := NewScheduler(new(MockSyncRunner), "*/30 * * * *", "30 18 * * *", time.UTC)
	err := s.Shutdown()
	require.NoError(t, err)
	require.Nil(t, s.sched)
}

func TestScheduler_Start_InvalidCron_ReturnsError(t *testing.T) {
	s := NewScheduler(new(MockSyncRunner), "not a cron", "30 18 * * *", time.UTC)

	err := s.Start(context.Background())
	require.Error(t, err)
	require.Nil(t, s.sched)
}

func TestScheduler_Start_And_ContextCancel_ShutsDown(t *testing.T) {
	s := NewScheduler(new(MockSyncRunner), "0 0 1 1 *", "0 0 1 1 *", time.UTC)
	ctx, cancel := context.WithCancel(context.Background())

	// Start scheduler
	require.NoError(t, s.Start(ctx))
	require.NotNil(t, s.sched)
	require.Len(t, s.sched.Jobs(), 2)

	// Cancel and ensure Shutdown is called by goroutine
	cancel()

	require.Eventually(t, func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.sched == nil
	}, 2*time.Second, 10*time.Millisecond,
		"expected scheduler to be shutdown after ctx cancel")
}

func TestScheduler_Shutdown_AfterStart_Idempotent(t *testing.T) {
	s := NewScheduler(new(MockSyncRunner), "0 0 1 1 *", "0 0 1 1 *", time.UTC)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, s.Start(ctx))
	require.NotNil(t, s.sched)

	// First shutdown should stop scheduler and set field to nil
	require.NoError(t, s.Shutdown())
	require.Nil(t, s.sched)

	// Second shutdown should be a no-op and return nil
	require.NoError(t, s.Shutdown())
}
