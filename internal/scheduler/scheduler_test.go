package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCronJob_InvalidCrontab(t *testing.T) {
	s := New()
	defer s.Stop()

	err := s.NewCronJob("broken", func(context.Context) error { return nil }, "not a cron", false)
	assert.Error(t, err)
}

func TestNewCronJob_StartImmediately(t *testing.T) {
	s := New()
	defer s.Stop()

	ran := make(chan struct{}, 1)
	err := s.NewCronJob("sweep", func(context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	}, "0 * * * *", true)
	require.NoError(t, err)

	s.Start()

	select {
	case <-ran:
	case <-time.After(5 * time.Second):
		t.Fatal("job did not start immediately")
	}
}

func TestTaskWithRecover_SwallowsPanic(t *testing.T) {
	s := New()
	defer s.Stop()

	task := s.taskWithRecover(func(context.Context) error { panic("boom") }, "panicky")
	assert.NotPanics(t, func() { task(context.Background()) })
}
