package analysis

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettleAllKeepsOrderAndIsolatesFailures(t *testing.T) {
	boom := stderrors.New("boom")

	outcomes := SettleAll(context.Background(),
		func(context.Context) (string, error) {
			time.Sleep(20 * time.Millisecond)
			return "slow", nil
		},
		func(context.Context) (string, error) { return "", boom },
		func(context.Context) (string, error) { panic("kaboom") },
		func(context.Context) (string, error) { return "fast", nil },
	)

	require.Len(t, outcomes, 4)
	assert.Equal(t, Outcome[string]{Value: "slow"}, outcomes[0])
	assert.ErrorIs(t, outcomes[1].Err, boom)
	require.Error(t, outcomes[2].Err)
	assert.Contains(t, outcomes[2].Err.Error(), "kaboom")
	assert.Equal(t, "fast", outcomes[3].Value)
}

func TestSettleAllRunsConcurrently(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 3)
	task := func(context.Context) (int, error) {
		started <- struct{}{}
		<-release
		return 1, nil
	}

	done := make(chan []Outcome[int])
	go func() { done <- SettleAll(context.Background(), task, task, task) }()

	for i := 0; i < 3; i++ {
		select {
		case <-started:
		case <-time.After(time.Second):
			t.Fatal("tasks did not start concurrently")
		}
	}
	close(release)

	outcomes := <-done
	assert.Len(t, outcomes, 3)
}

func TestSettleAllEmpty(t *testing.T) {
	assert.Empty(t, SettleAll[int](context.Background()))
}
