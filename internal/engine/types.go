package engine

import "fmt"

// AssetType identifies the instrument an order belongs to at the wire
// boundary. The core itself serves exactly one instrument per Orderbook;
// routing between instruments is out of scope.
type AssetType uint16

const (
	Equities AssetType = iota
)

// Side identifies which side of the book an order rests on.
type Side uint8

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	switch s {
	case Buy:
		return "Buy"
	case Sell:
		return "Sell"
	default:
		return fmt.Sprintf("Side(%d)", uint8(s))
	}
}

// OrderType selects the admission policy a new order is processed under.
type OrderType uint8

const (
	// Market orders carry no limit price and match greedily until filled
	// or the opposite side is exhausted. Any remainder is discarded.
	Market OrderType = iota
	// GoodTillCancel orders rest on the book until explicitly cancelled.
	GoodTillCancel
	// GoodTillEOD is carried as a label only; the time-of-day evictor
	// that would act on it lives outside this module.
	GoodTillEOD
	// FillOrKill requires the full requested quantity to be fillable at
	// admission time, or nothing is matched and nothing rests.
	FillOrKill
	// FillAndKill matches whatever it can immediately and discards any
	// remainder instead of resting it.
	FillAndKill
)

func (t OrderType) String() string {
	switch t {
	case Market:
		return "Market"
	case GoodTillCancel:
		return "GoodTillCancel"
	case GoodTillEOD:
		return "GoodTillEOD"
	case FillOrKill:
		return "FillOrKill"
	case FillAndKill:
		return "FillAndKill"
	default:
		return fmt.Sprintf("OrderType(%d)", uint8(t))
	}
}

// DepthLevel is a read-only aggregate view of one price level, returned
// in matching-priority order by FullDepthBid/FullDepthAsk.
type DepthLevel struct {
	Price      int32
	Volume     uint64
	OrderCount int
}

// Modification carries the optional fields accepted by Orderbook.Modify.
// Unset fields default to the resting order's current values; Quantity,
// if unset, defaults to the order's *remaining* quantity, not its
// initial quantity.
type Modification struct {
	Price    *int32
	Quantity *uint32
	Type     *OrderType
	Side     *Side
}
