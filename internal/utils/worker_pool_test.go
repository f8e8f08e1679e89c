package utils

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tomb "gopkg.in/tomb.v2"
)

func TestWorkerPoolProcessesAllTasks(t *testing.T) {
	const taskCount = 50
	pool := NewWorkerPool(4)

	var mu sync.Mutex
	seen := make(map[int]bool)
	var wg sync.WaitGroup
	wg.Add(taskCount)

	tb, ctx := tomb.WithContext(context.Background())
	_ = ctx
	tb.Go(func() error {
		pool.Setup(tb, func(_ *tomb.Tomb, task any) error {
			n := task.(int)
			mu.Lock()
			seen[n] = true
			mu.Unlock()
			wg.Done()
			return nil
		})
		return nil
	})

	for i := 0; i < taskCount; i++ {
		pool.AddTask(i)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for tasks to be processed")
	}

	tb.Kill(nil)
	require.NoError(t, tb.Wait())

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, seen, taskCount)
}
