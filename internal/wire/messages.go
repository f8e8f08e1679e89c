// Package wire implements the binary request/response framing at the
// boundary between client TCP connections and the matching core: the
// length-prefixed ingress format, the status-coded egress format, and
// the concrete encoding of the four request kinds the dispatcher
// understands (NewOrder, CancelOrder, ModifyOrder, LogBook).
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"

	"matchbook/internal/engine"

	"github.com/google/uuid"
)

var (
	// ErrBadMessageLength is returned by Framer.Feed when a frame's
	// length prefix falls outside [MinMessageLen, MaxMessageLen].
	ErrBadMessageLength = errors.New("bad message length")
	// ErrInvalidMessageType is returned by ParseRequest for an unknown
	// MessageType tag.
	ErrInvalidMessageType = errors.New("invalid message type")
	// ErrMessageTooShort is returned by ParseRequest when a payload is
	// shorter than its message type's fixed body length.
	ErrMessageTooShort = errors.New("message too short")
)

// MessageType tags the kind of request carried by a frame's first two
// bytes.
type MessageType uint16

const (
	NewOrder MessageType = iota
	CancelOrder
	ModifyOrder
	LogBook
)

// Wire size constants, per the core's configuration contract: these are
// construction parameters, not runtime-tunable state.
const (
	LengthPrefixLen   = 4
	MinMessageLen     = 1
	MaxMessageLen     = 4096
	typeTagLen        = 2
	newOrderBodyLen   = 2 + 1 + 1 + 4 + 4    // asset + type + side + price + qty
	cancelBodyLen     = 2 + 8                // asset + orderID
	modifyBodyLen     = 2 + 8 + 1 + 4 + 4 + 1 + 1
	logBookBodyLen    = 2 // asset
)

// modifyFieldMask bits, set when the corresponding Modification field
// was supplied on the wire.
const (
	modifyHasPrice uint8 = 1 << iota
	modifyHasQuantity
	modifyHasType
	modifyHasSide
)

// Request is implemented by every decoded request kind.
type Request interface {
	RequestID() uuid.UUID
}

type baseRequest struct {
	id uuid.UUID
}

func (b baseRequest) RequestID() uuid.UUID { return b.id }

// NewOrderRequest asks the book to admit a fresh order.
type NewOrderRequest struct {
	baseRequest
	Asset     engine.AssetType
	OrderType engine.OrderType
	Side      engine.Side
	Price     int32
	Quantity  uint32
}

// CancelOrderRequest asks the book to remove a resting order.
type CancelOrderRequest struct {
	baseRequest
	Asset   engine.AssetType
	OrderID uint64
}

// ModifyOrderRequest asks the book to cancel-then-readmit an order with
// the given field overrides.
type ModifyOrderRequest struct {
	baseRequest
	Asset   engine.AssetType
	OrderID uint64
	Mod     engine.Modification
}

// LogBookRequest asks for a full depth snapshot of both ladders.
type LogBookRequest struct {
	baseRequest
	Asset engine.AssetType
}

// ParseRequest decodes one framed payload (length prefix already
// stripped by Framer) into a concrete Request. Every request is stamped
// with a fresh correlation id for logging/tracing purposes — distinct
// from the engine's own internal uint64 order ids, which the book
// itself assigns on admission.
func ParseRequest(payload []byte) (Request, error) {
	if len(payload) < typeTagLen {
		return nil, ErrMessageTooShort
	}
	base := baseRequest{id: uuid.New()}
	msgType := MessageType(binary.BigEndian.Uint16(payload[0:2]))
	body := payload[typeTagLen:]

	switch msgType {
	case NewOrder:
		if len(body) < newOrderBodyLen {
			return nil, ErrMessageTooShort
		}
		return NewOrderRequest{
			baseRequest: base,
			Asset:       engine.AssetType(binary.BigEndian.Uint16(body[0:2])),
			OrderType:   engine.OrderType(body[2]),
			Side:        engine.Side(body[3]),
			Price:       int32(binary.BigEndian.Uint32(body[4:8])),
			Quantity:    binary.BigEndian.Uint32(body[8:12]),
		}, nil

	case CancelOrder:
		if len(body) < cancelBodyLen {
			return nil, ErrMessageTooShort
		}
		return CancelOrderRequest{
			baseRequest: base,
			Asset:       engine.AssetType(binary.BigEndian.Uint16(body[0:2])),
			OrderID:     binary.BigEndian.Uint64(body[2:10]),
		}, nil

	case ModifyOrder:
		if len(body) < modifyBodyLen {
			return nil, ErrMessageTooShort
		}
		asset := engine.AssetType(binary.BigEndian.Uint16(body[0:2]))
		orderID := binary.BigEndian.Uint64(body[2:10])
		mask := body[10]
		price := int32(binary.BigEndian.Uint32(body[11:15]))
		quantity := binary.BigEndian.Uint32(body[15:19])
		orderType := engine.OrderType(body[19])
		side := engine.Side(body[20])

		var mod engine.Modification
		if mask&modifyHasPrice != 0 {
			mod.Price = &price
		}
		if mask&modifyHasQuantity != 0 {
			mod.Quantity = &quantity
		}
		if mask&modifyHasType != 0 {
			mod.Type = &orderType
		}
		if mask&modifyHasSide != 0 {
			mod.Side = &side
		}
		return ModifyOrderRequest{baseRequest: base, Asset: asset, OrderID: orderID, Mod: mod}, nil

	case LogBook:
		if len(body) < logBookBodyLen {
			return nil, ErrMessageTooShort
		}
		return LogBookRequest{
			baseRequest: base,
			Asset:       engine.AssetType(binary.BigEndian.Uint16(body[0:2])),
		}, nil

	default:
		return nil, fmt.Errorf("%w: %d", ErrInvalidMessageType, msgType)
	}
}

// EncodeNewOrder serializes a NewOrderRequest into a framed payload
// (without the length prefix — Framer/the caller adds that). Exported
// for the CLI client and for tests.
func EncodeNewOrder(asset engine.AssetType, orderType engine.OrderType, side engine.Side, price int32, quantity uint32) []byte {
	buf := make([]byte, typeTagLen+newOrderBodyLen)
	binary.BigEndian.PutUint16(buf[0:2], uint16(NewOrder))
	binary.BigEndian.PutUint16(buf[2:4], uint16(asset))
	buf[4] = byte(orderType)
	buf[5] = byte(side)
	binary.BigEndian.PutUint32(buf[6:10], uint32(price))
	binary.BigEndian.PutUint32(buf[10:14], quantity)
	return buf
}

// EncodeCancelOrder serializes a CancelOrderRequest payload.
func EncodeCancelOrder(asset engine.AssetType, orderID uint64) []byte {
	buf := make([]byte, typeTagLen+cancelBodyLen)
	binary.BigEndian.PutUint16(buf[0:2], uint16(CancelOrder))
	binary.BigEndian.PutUint16(buf[2:4], uint16(asset))
	binary.BigEndian.PutUint64(buf[4:12], orderID)
	return buf
}

// EncodeModifyOrder serializes a ModifyOrderRequest payload.
func EncodeModifyOrder(asset engine.AssetType, orderID uint64, mod engine.Modification) []byte {
	buf := make([]byte, typeTagLen+modifyBodyLen)
	binary.BigEndian.PutUint16(buf[0:2], uint16(ModifyOrder))
	binary.BigEndian.PutUint16(buf[2:4], uint16(asset))
	binary.BigEndian.PutUint64(buf[4:12], orderID)

	var mask uint8
	if mod.Price != nil {
		mask |= modifyHasPrice
		binary.BigEndian.PutUint32(buf[13:17], uint32(*mod.Price))
	}
	if mod.Quantity != nil {
		mask |= modifyHasQuantity
		binary.BigEndian.PutUint32(buf[17:21], *mod.Quantity)
	}
	if mod.Type != nil {
		mask |= modifyHasType
		buf[21] = byte(*mod.Type)
	}
	if mod.Side != nil {
		mask |= modifyHasSide
		buf[22] = byte(*mod.Side)
	}
	buf[12] = mask
	return buf
}

// EncodeLogBook serializes a LogBookRequest payload.
func EncodeLogBook(asset engine.AssetType) []byte {
	buf := make([]byte, typeTagLen+logBookBodyLen)
	binary.BigEndian.PutUint16(buf[0:2], uint16(LogBook))
	binary.BigEndian.PutUint16(buf[2:4], uint16(asset))
	return buf
}
