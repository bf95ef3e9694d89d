package search

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPoolRunsAllSubmittedWork(t *testing.T) {
	pool := NewPool(4)
	var count int64

	for i := 0; i < 100; i++ {
		pool.Submit(true, func() {
			atomic.AddInt64(&count, 1)
		})
	}
	pool.Wait()

	require.EqualValues(t, 100, atomic.LoadInt64(&count))
}

func TestPoolRunsInlineWhenSpawnFalse(t *testing.T) {
	pool := NewPool(4)
	ran := false
	pool.Submit(false, func() { ran = true })
	require.True(t, ran)
}

func TestPoolFallsBackToInlineWhenSlotsExhausted(t *testing.T) {
	pool := NewPool(1)
	block := make(chan struct{})
	var started int64

	pool.Submit(true, func() {
		atomic.AddInt64(&started, 1)
		<-block
	})

	ran := false
	pool.Submit(true, func() { ran = true })
	require.True(t, ran, "second submit should run inline once the single slot is occupied")

	close(block)
	pool.Wait()
}
