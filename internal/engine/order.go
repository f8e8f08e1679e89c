package engine

// MarketSentinelPrice is the price carried by Market orders. Market
// orders never compare it against a level's price during matching; it
// exists only so Order always reports a value from Price().
const MarketSentinelPrice int32 = 0

// Order is the immutable identity plus mutable fill progress of a single
// client order. Only Fill mutates it, and only by an amount that the
// caller (the Orderbook) has already clamped to the remaining quantity.
type Order struct {
	orderID           uint64
	initialQuantity   uint32
	remainingQuantity uint32
	price             int32
	orderType         OrderType
	side              Side
	openTime          int64 // microseconds, assigned by the book at admission
}

// newOrder constructs a resting/matching candidate. id and openTime are
// assigned by the Orderbook, never by the caller, so that both are
// strictly increasing across the book's lifetime.
func newOrder(id uint64, quantity uint32, price int32, orderType OrderType, side Side, openTime int64) (*Order, error) {
	if quantity == 0 {
		return nil, ErrInvalidQuantity
	}
	return &Order{
		orderID:           id,
		initialQuantity:   quantity,
		remainingQuantity: quantity,
		price:             price,
		orderType:         orderType,
		side:              side,
		openTime:          openTime,
	}, nil
}

func (o *Order) OrderID() uint64             { return o.orderID }
func (o *Order) InitialQuantity() uint32     { return o.initialQuantity }
func (o *Order) RemainingQuantity() uint32   { return o.remainingQuantity }
func (o *Order) Price() int32                { return o.price }
func (o *Order) Type() OrderType             { return o.orderType }
func (o *Order) Side() Side                  { return o.side }
func (o *Order) OpenTime() int64             { return o.openTime }
func (o *Order) Filled() uint32              { return o.initialQuantity - o.remainingQuantity }
func (o *Order) IsFullyFilled() bool         { return o.remainingQuantity == 0 }

// fill reduces the remaining quantity by amount. amount must never exceed
// remainingQuantity; matching always clamps to min(taker, maker), so this
// only guards against a caller violating that contract.
func (o *Order) fill(amount uint32) error {
	if amount > o.remainingQuantity {
		return ErrInvalidFill
	}
	o.remainingQuantity -= amount
	return nil
}

// Snapshot is an immutable, read-only copy of an Order's state, handed
// to callers outside the package so they cannot reach back into the
// book's internal mutable state.
type Snapshot struct {
	OrderID           uint64
	InitialQuantity   uint32
	RemainingQuantity uint32
	Price             int32
	Type              OrderType
	Side              Side
	OpenTime          int64
}

func (o *Order) Snapshot() Snapshot {
	return Snapshot{
		OrderID:           o.orderID,
		InitialQuantity:   o.initialQuantity,
		RemainingQuantity: o.remainingQuantity,
		Price:             o.price,
		Type:              o.orderType,
		Side:              o.side,
		OpenTime:          o.openTime,
	}
}
