package ring

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTryPushTryPopFIFO(t *testing.T) {
	r := New[int](4)

	require.True(t, r.TryPush(1))
	require.True(t, r.TryPush(2))
	require.True(t, r.TryPush(3))

	v, ok := r.TryPop()
	require.True(t, ok)
	assert.Equal(t, 1, v)

	v, ok = r.TryPop()
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestFullRingRejectsPush(t *testing.T) {
	r := New[int](2)
	require.True(t, r.TryPush(1))
	require.True(t, r.TryPush(2))
	assert.False(t, r.TryPush(3))

	_, ok := r.TryPop()
	require.True(t, ok)
	assert.True(t, r.TryPush(3), "popping one slot must free exactly one push")
}

func TestEmptyRingRejectsPop(t *testing.T) {
	r := New[int](4)
	_, ok := r.TryPop()
	assert.False(t, ok)
}

// TestWrapAndDrain mirrors the seed scenario: capacity 4, push four,
// pop one, push one (wraps), pop the remaining four. The consumer must
// observe exactly the push order.
func TestWrapAndDrain(t *testing.T) {
	r := New[int](4)
	for i := 1; i <= 4; i++ {
		require.True(t, r.TryPush(i))
	}

	v, ok := r.TryPop()
	require.True(t, ok)
	assert.Equal(t, 1, v)

	require.True(t, r.TryPush(5))

	var drained []int
	for {
		v, ok := r.TryPop()
		if !ok {
			break
		}
		drained = append(drained, v)
	}
	assert.Equal(t, []int{2, 3, 4, 5}, drained)
}

func TestConcurrentSPSCPreservesOrder(t *testing.T) {
	const n = 50_000
	r := New[int](256)

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			for !r.TryPush(i) {
			}
		}
	}()

	received := make([]int, 0, n)
	go func() {
		defer wg.Done()
		for len(received) < n {
			if v, ok := r.TryPop(); ok {
				received = append(received, v)
			}
		}
	}()

	wg.Wait()
	require.Len(t, received, n)
	for i, v := range received {
		assert.Equal(t, i, v)
	}
}

func TestZeroValueClearedAfterPop(t *testing.T) {
	type box struct{ v int }
	r := New[*box](2)
	b := &box{v: 1}
	require.True(t, r.TryPush(b))

	out, ok := r.TryPop()
	require.True(t, ok)
	assert.Same(t, b, out)
	assert.Nil(t, r.buf[0], "popped slot must be reset to the zero value")
}
