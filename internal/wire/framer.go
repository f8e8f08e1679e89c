package wire

import "encoding/binary"

// Framer accumulates bytes read off a connection and splits them into
// complete length-prefixed frames. A connection's reader goroutine owns
// exactly one Framer; it is not safe for concurrent use.
type Framer struct {
	buf []byte
}

// NewFramer constructs an empty Framer.
func NewFramer() *Framer {
	return &Framer{}
}

// Feed appends newly read bytes and returns every complete frame (with
// its length prefix already stripped) that can now be extracted. A
// length prefix outside [MinMessageLen, MaxMessageLen] discards all
// buffered bytes and returns ErrBadMessageLength — the caller is
// expected to report the failure and let the connection resynchronize
// on the next Feed call.
func (f *Framer) Feed(data []byte) ([][]byte, error) {
	f.buf = append(f.buf, data...)

	var frames [][]byte
	for {
		if len(f.buf) < LengthPrefixLen {
			break
		}
		length := binary.LittleEndian.Uint32(f.buf[:LengthPrefixLen])
		if length < MinMessageLen || length > MaxMessageLen {
			f.buf = f.buf[:0]
			return frames, ErrBadMessageLength
		}

		total := LengthPrefixLen + int(length)
		if len(f.buf) < total {
			break
		}

		frame := make([]byte, length)
		copy(frame, f.buf[LengthPrefixLen:total])
		frames = append(frames, frame)
		f.buf = f.buf[total:]
	}
	return frames, nil
}
