package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrderRejectsZeroQuantity(t *testing.T) {
	_, err := newOrder(1, 0, 100, GoodTillCancel, Buy, 1)
	require.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestOrderFillTracksRemainingAndFilled(t *testing.T) {
	o, err := newOrder(1, 10, 100, GoodTillCancel, Buy, 1)
	require.NoError(t, err)

	require.NoError(t, o.fill(4))
	assert.Equal(t, uint32(6), o.RemainingQuantity())
	assert.Equal(t, uint32(4), o.Filled())
	assert.False(t, o.IsFullyFilled())

	require.NoError(t, o.fill(6))
	assert.Equal(t, uint32(0), o.RemainingQuantity())
	assert.True(t, o.IsFullyFilled())
}

func TestOrderFillRejectsOverfill(t *testing.T) {
	o, err := newOrder(1, 10, 100, GoodTillCancel, Buy, 1)
	require.NoError(t, err)

	err = o.fill(11)
	require.ErrorIs(t, err, ErrInvalidFill)
	assert.Equal(t, uint32(10), o.RemainingQuantity())
}

func TestOrderSnapshotIsDetachedFromMutation(t *testing.T) {
	o, err := newOrder(1, 10, 100, GoodTillCancel, Buy, 1)
	require.NoError(t, err)

	snap := o.Snapshot()
	require.NoError(t, o.fill(3))

	assert.Equal(t, uint32(10), snap.RemainingQuantity, "snapshot must not see later mutation")
	assert.Equal(t, uint32(7), o.RemainingQuantity())
}
