package wire

import (
	"encoding/binary"

	"matchbook/internal/engine"
)

// StatusCode is the 4-byte code that opens every response frame.
type StatusCode uint32

const (
	StatusSuccess        StatusCode = 200
	StatusBadMessageLength StatusCode = 400
	StatusSystemError    StatusCode = 500
)

const statusTextLen = 32

func (c StatusCode) text() string {
	switch c {
	case StatusSuccess:
		return "OK"
	case StatusBadMessageLength:
		return "BAD_MESSAGE_LENGTH"
	case StatusSystemError:
		return "SYSTEM_ERROR"
	default:
		return "UNKNOWN"
	}
}

// EncodeReport builds a full response frame: a 4-byte big-endian status
// code, a 32-byte NUL-padded ASCII status string, then the payload.
func EncodeReport(code StatusCode, payload []byte) []byte {
	out := make([]byte, 4+statusTextLen+len(payload))
	binary.BigEndian.PutUint32(out[0:4], uint32(code))
	copy(out[4:4+statusTextLen], code.text())
	copy(out[4+statusTextLen:], payload)
	return out
}

// appOutcome flags an application-level (engine) rejection inside an
// otherwise successfully framed and dispatched request. Framing-level
// failures get their own StatusCode; this byte distinguishes "admitted
// but rejected by book rules" from "admitted and processed" within a
// StatusSuccess report.
const (
	outcomeOK uint8 = iota
	outcomeRejected
)

// EncodeNewOrderPayload encodes the result of a successful dispatch of
// a NewOrder or ModifyOrder request.
func EncodeNewOrderPayload(orderID uint64, trades []engine.Trade) []byte {
	buf := make([]byte, 1+8+4+len(trades)*24)
	buf[0] = outcomeOK
	binary.BigEndian.PutUint64(buf[1:9], orderID)
	binary.BigEndian.PutUint32(buf[9:13], uint32(len(trades)))
	offset := 13
	for _, tr := range trades {
		binary.BigEndian.PutUint64(buf[offset:offset+8], tr.MakerOrderID)
		binary.BigEndian.PutUint64(buf[offset+8:offset+16], tr.TakerOrderID)
		binary.BigEndian.PutUint32(buf[offset+16:offset+20], tr.Quantity)
		binary.BigEndian.PutUint32(buf[offset+20:offset+24], uint32(tr.Price))
		offset += 24
	}
	return buf
}

// EncodeRejectionPayload encodes an application-level rejection — the
// request was framed and dispatched fine, but the book declined it
// (unknown order, invalid side, and so on).
func EncodeRejectionPayload(reason string) []byte {
	buf := make([]byte, 1+len(reason))
	buf[0] = outcomeRejected
	copy(buf[1:], reason)
	return buf
}

// EncodeCancelPayload encodes a successful CancelOrder dispatch.
func EncodeCancelPayload() []byte {
	return []byte{outcomeOK}
}

// EncodeDepthPayload encodes a LogBook response: bid count, bid levels,
// ask count, ask levels, each level as price/volume/order-count.
func EncodeDepthPayload(bids, asks []engine.DepthLevel) []byte {
	buf := make([]byte, 4+len(bids)*16+4+len(asks)*16)
	offset := 0
	binary.BigEndian.PutUint32(buf[offset:offset+4], uint32(len(bids)))
	offset += 4
	offset = encodeDepthLevels(buf, offset, bids)
	binary.BigEndian.PutUint32(buf[offset:offset+4], uint32(len(asks)))
	offset += 4
	encodeDepthLevels(buf, offset, asks)
	return buf
}

func encodeDepthLevels(buf []byte, offset int, levels []engine.DepthLevel) int {
	for _, lvl := range levels {
		binary.BigEndian.PutUint32(buf[offset:offset+4], uint32(lvl.Price))
		binary.BigEndian.PutUint64(buf[offset+4:offset+12], lvl.Volume)
		binary.BigEndian.PutUint32(buf[offset+12:offset+16], uint32(lvl.OrderCount))
		offset += 16
	}
	return offset
}
