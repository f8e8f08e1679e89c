package wire

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lengthPrefixed(payload []byte) []byte {
	out := make([]byte, 4+len(payload))
	binary.LittleEndian.PutUint32(out[:4], uint32(len(payload)))
	copy(out[4:], payload)
	return out
}

func TestFramerSingleFrame(t *testing.T) {
	f := NewFramer()
	frames, err := f.Feed(lengthPrefixed([]byte("hello")))
	require.NoError(t, err)
	require.Len(t, frames, 1)
	assert.Equal(t, []byte("hello"), frames[0])
}

func TestFramerSplitAcrossReads(t *testing.T) {
	f := NewFramer()
	whole := lengthPrefixed([]byte("partial-frame"))

	frames, err := f.Feed(whole[:3])
	require.NoError(t, err)
	assert.Empty(t, frames)

	frames, err = f.Feed(whole[3:])
	require.NoError(t, err)
	require.Len(t, frames, 1)
	assert.Equal(t, []byte("partial-frame"), frames[0])
}

func TestFramerMultipleFramesInOneFeed(t *testing.T) {
	f := NewFramer()
	var batch []byte
	batch = append(batch, lengthPrefixed([]byte("one"))...)
	batch = append(batch, lengthPrefixed([]byte("two"))...)

	frames, err := f.Feed(batch)
	require.NoError(t, err)
	require.Len(t, frames, 2)
	assert.Equal(t, []byte("one"), frames[0])
	assert.Equal(t, []byte("two"), frames[1])
}

func TestFramerRejectsZeroLength(t *testing.T) {
	f := NewFramer()
	frame := make([]byte, 4)
	binary.LittleEndian.PutUint32(frame, 0)

	_, err := f.Feed(frame)
	assert.ErrorIs(t, err, ErrBadMessageLength)
}

func TestFramerRejectsOversizeLength(t *testing.T) {
	f := NewFramer()
	frame := make([]byte, 4)
	binary.LittleEndian.PutUint32(frame, MaxMessageLen+1)

	_, err := f.Feed(frame)
	assert.ErrorIs(t, err, ErrBadMessageLength)
}

func TestFramerResetsAfterBadLength(t *testing.T) {
	f := NewFramer()
	bad := make([]byte, 4)
	binary.LittleEndian.PutUint32(bad, 0)
	_, err := f.Feed(bad)
	require.ErrorIs(t, err, ErrBadMessageLength)

	frames, err := f.Feed(lengthPrefixed([]byte("resynced")))
	require.NoError(t, err)
	require.Len(t, frames, 1)
	assert.Equal(t, []byte("resynced"), frames[0])
}
