package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/translateme/translateme/history"
)

func TestBackgroundPruneHistory(t *testing.T) {
	store := history.NewStore(history.Config{})
	store.Add("idle", history.NewRecord("hello", "hola", "Spanish", time.Now()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- backgroundPruneHistory(ctx, store, time.Nanosecond, time.Millisecond, zaptest.NewLogger(t))
	}()

	assert.Eventually(t, func() bool { return store.Sessions() == 0 }, time.Second, time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestBackgroundPruneHistory_DisabledWaitsForCancel(t *testing.T) {
	store := history.NewStore(history.Config{})
	store.Add("s", history.NewRecord("a", "b", "French", time.Now()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	require.NoError(t, backgroundPruneHistory(ctx, store, 0, time.Millisecond, zaptest.NewLogger(t)))
	assert.Equal(t, 1, store.Sessions())
}
