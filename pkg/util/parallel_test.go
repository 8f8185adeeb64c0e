package util

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParallelVisitsAll(t *testing.T) {
	var sum atomic.Int64
	err := Parallel(context.Background(), []int{1, 2, 3, 4, 5}, 3, func(_ context.Context, n int) error {
		sum.Add(int64(n))
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(15), sum.Load())
}

func TestParallelStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	err := Parallel(context.Background(), []int{1, 2, 3}, 1, func(_ context.Context, n int) error {
		if n == 2 {
			return boom
		}
		return nil
	})

	assert.ErrorIs(t, err, boom)
}

func TestParallelEmptyAndCancelled(t *testing.T) {
	assert.NoError(t, Parallel(context.Background(), []int(nil), 2, func(context.Context, int) error { return nil }))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Parallel(ctx, []int{1, 2}, 0, func(context.Context, int) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}
