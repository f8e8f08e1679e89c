package engine

import (
	"container/list"
	"time"

	"github.com/tidwall/btree"
)

// ladder is one side of the book: a price-ordered tree of priceLevel
// nodes. Bids are ordered descending (best bid first); asks ascending
// (best ask first) — see NewOrderBook.
type ladder = btree.BTreeG[*priceLevel]

// orderLocation is what the order index stores for a resting order: the
// order itself, the level it rests at, and a stable handle into that
// level's FIFO queue so Cancel can remove it in O(1).
type orderLocation struct {
	order *Order
	level *priceLevel
	elem  *list.Element
	side  Side
}

// OrderBook is a price-ordered ladder pair plus an order index and the
// matching algorithm over them. It is not safe for concurrent use: every
// method must be called from the single owning matching goroutine.
type OrderBook struct {
	bids *ladder
	asks *ladder
	index map[uint64]orderLocation

	nextOrderID uint64
	clock       int64 // strictly increasing open-time counter
}

// NewOrderBook constructs an empty book for one instrument.
func NewOrderBook() *OrderBook {
	bids := btree.NewBTreeG(func(a, b *priceLevel) bool { return a.price > b.price })
	asks := btree.NewBTreeG(func(a, b *priceLevel) bool { return a.price < b.price })
	return &OrderBook{
		bids:  bids,
		asks:  asks,
		index: make(map[uint64]orderLocation),
	}
}

func oppositeSide(s Side) Side {
	if s == Buy {
		return Sell
	}
	return Buy
}

// ladderFor panics on a Side value outside {Buy, Sell}: Add rejects any
// other Side with ErrInvalidSide before a ladder is looked up, so this
// is an internal invariant, not a client-attributable error (see the
// InvalidSide entry in the error taxonomy).
func (b *OrderBook) ladderFor(side Side) *ladder {
	switch side {
	case Buy:
		return b.bids
	case Sell:
		return b.asks
	default:
		panic(ErrInvalidSide)
	}
}

func (b *OrderBook) oppositeLadderFor(side Side) *ladder {
	return b.ladderFor(oppositeSide(side))
}

// clockEpoch anchors open times to the monotonic clock rather than the
// wall clock.
var clockEpoch = time.Now()

// nextOpenTime hands out the order's admission timestamp: microseconds
// elapsed on the monotonic clock since clockEpoch, bumped past the
// previous value when two admissions land in the same microsecond. That
// bump is what guarantees two orders never share an open time, which
// the spec requires for FIFO tie-breaking to be well defined.
func (b *OrderBook) nextOpenTime() int64 {
	now := time.Since(clockEpoch).Microseconds()
	if now <= b.clock {
		now = b.clock + 1
	}
	b.clock = now
	return b.clock
}

// BestBid returns the highest resting buy price, if any.
func (b *OrderBook) BestBid() (int32, bool) {
	level, ok := b.bids.Min()
	if !ok {
		return 0, false
	}
	return level.price, true
}

// BestAsk returns the lowest resting sell price, if any.
func (b *OrderBook) BestAsk() (int32, bool) {
	level, ok := b.asks.Min()
	if !ok {
		return 0, false
	}
	return level.price, true
}

// FullDepthBid returns the bid ladder, best price first.
func (b *OrderBook) FullDepthBid() []DepthLevel {
	return depthOf(b.bids)
}

// FullDepthAsk returns the ask ladder, best price first.
func (b *OrderBook) FullDepthAsk() []DepthLevel {
	return depthOf(b.asks)
}

func depthOf(l *ladder) []DepthLevel {
	items := l.Items()
	out := make([]DepthLevel, len(items))
	for i, lvl := range items {
		out[i] = DepthLevel{Price: lvl.price, Volume: lvl.data.Volume, OrderCount: lvl.data.OrderCount}
	}
	return out
}

// Order returns a read-only snapshot of a resting order, or false if it
// is not currently resting (never admitted, fully filled, or cancelled).
func (b *OrderBook) Order(orderID uint64) (Snapshot, bool) {
	loc, ok := b.index[orderID]
	if !ok {
		return Snapshot{}, false
	}
	return loc.order.Snapshot(), true
}

// crosses reports whether a limit price would immediately execute
// against the opposite side's best price.
func (b *OrderBook) crosses(side Side, price int32) bool {
	switch side {
	case Buy:
		ask, ok := b.asks.Min()
		return ok && price >= ask.price
	case Sell:
		bid, ok := b.bids.Min()
		return ok && price <= bid.price
	default:
		panic(ErrInvalidSide)
	}
}

// canBeFullyFilled walks the opposite ladder from its best price outward,
// accumulating volume at prices acceptable to side/price, until either
// the requested quantity is covered (true) or acceptable levels run out
// (false). O(k) in the number of acceptable levels.
func (b *OrderBook) canBeFullyFilled(side Side, price int32, quantity uint32) bool {
	if !b.crosses(side, price) {
		return false
	}

	var acc uint64
	ok := false
	b.oppositeLadderFor(side).Scan(func(level *priceLevel) bool {
		switch side {
		case Buy:
			if level.price > price {
				return false
			}
		case Sell:
			if level.price < price {
				return false
			}
		}
		acc += level.data.Volume
		if acc >= uint64(quantity) {
			ok = true
			return false
		}
		return true
	})
	return ok
}

// Add admits a new order under its type's admission policy (see the
// admission-by-type table) and returns the id assigned and the trades
// produced. No id is allocated when a FillAndKill/FillOrKill/Market
// pre-check fails — the caller gets (0, nil, nil) back in that case.
func (b *OrderBook) Add(quantity uint32, price int32, orderType OrderType, side Side) (uint64, []Trade, error) {
	if quantity == 0 {
		return 0, nil, ErrInvalidQuantity
	}
	if side != Buy && side != Sell {
		return 0, nil, ErrInvalidSide
	}

	switch orderType {
	case Market:
		if b.oppositeLadderFor(side).Len() == 0 {
			return 0, nil, nil
		}
		price = MarketSentinelPrice
	case FillAndKill:
		if !b.crosses(side, price) {
			return 0, nil, nil
		}
	case FillOrKill:
		if !b.canBeFullyFilled(side, price, quantity) {
			return 0, nil, nil
		}
	}

	b.nextOrderID++
	id := b.nextOrderID
	order, err := newOrder(id, quantity, price, orderType, side, b.nextOpenTime())
	if err != nil {
		b.nextOrderID--
		return 0, nil, err
	}

	trades := b.match(order)
	return id, trades, nil
}

// match runs the single-pass taker-initiated matching loop described in
// the design: sweep the opposite ladder from its best price outward,
// consuming FIFO within each level, until the taker is filled or the
// opposite side (or its acceptable prices) is exhausted. Any remainder
// is then either rested (GoodTillCancel/GoodTillEOD) or discarded.
func (b *OrderBook) match(order *Order) []Trade {
	var trades []Trade
	limited := order.Type() != Market
	opposite := b.oppositeLadderFor(order.Side())

	for order.RemainingQuantity() > 0 {
		level, ok := opposite.MinMut()
		if !ok {
			break
		}
		if limited {
			switch order.Side() {
			case Buy:
				if level.price > order.Price() {
					goto rest
				}
			case Sell:
				if level.price < order.Price() {
					goto rest
				}
			}
		}

		for !level.isEmpty() && order.RemainingQuantity() > 0 {
			elem := level.frontElement()
			maker := elem.Value.(*Order)

			fillQty := order.RemainingQuantity()
			if maker.RemainingQuantity() < fillQty {
				fillQty = maker.RemainingQuantity()
			}

			trades = append(trades, Trade{
				MakerOrderID: maker.OrderID(),
				TakerOrderID: order.OrderID(),
				Quantity:     fillQty,
				Price:        level.price,
			})

			_ = order.fill(fillQty)
			_ = maker.fill(fillQty)
			level.applyFill(fillQty)

			if maker.IsFullyFilled() {
				level.removeFilledElement(elem)
				delete(b.index, maker.OrderID())
			}
		}

		if level.data.empty() {
			opposite.Delete(level)
		}
	}

rest:
	if order.RemainingQuantity() > 0 && (order.Type() == GoodTillCancel || order.Type() == GoodTillEOD) {
		b.rest(order)
	}
	return trades
}

// rest inserts an order with remaining quantity into its own side's
// ladder, creating the price level lazily if this is the first resting
// order at that price.
func (b *OrderBook) rest(order *Order) {
	own := b.ladderFor(order.Side())
	level, ok := own.GetMut(&priceLevel{price: order.Price()})
	if !ok {
		level = newPriceLevel(order.Price())
		own.Set(level)
	}
	elem := level.pushBack(order)
	b.index[order.OrderID()] = orderLocation{order: order, level: level, elem: elem, side: order.Side()}
}

// Cancel removes a resting order from the book. Returns ErrUnknownOrder
// if the order is not currently resting.
func (b *OrderBook) Cancel(orderID uint64) error {
	loc, ok := b.index[orderID]
	if !ok {
		return ErrUnknownOrder
	}
	delete(b.index, orderID)

	loc.level.removeResting(loc.elem, loc.order.RemainingQuantity())
	if loc.level.data.empty() {
		b.ladderFor(loc.side).Delete(loc.level)
	}
	return nil
}

// Modify is semantically cancel-then-add: unspecified fields default to
// the existing order's current values (quantity defaults to the
// *remaining* quantity, not the initial one). The result is a fresh
// order id with fresh time priority, even if every field is unchanged —
// modify always costs priority in this book.
func (b *OrderBook) Modify(orderID uint64, mod Modification) (uint64, []Trade, error) {
	loc, ok := b.index[orderID]
	if !ok {
		return 0, nil, ErrUnknownOrder
	}
	existing := loc.order

	quantity := existing.RemainingQuantity()
	if mod.Quantity != nil {
		quantity = *mod.Quantity
	}
	price := existing.Price()
	if mod.Price != nil {
		price = *mod.Price
	}
	orderType := existing.Type()
	if mod.Type != nil {
		orderType = *mod.Type
	}
	side := existing.Side()
	if mod.Side != nil {
		side = *mod.Side
	}

	if err := b.Cancel(orderID); err != nil {
		return 0, nil, err
	}
	return b.Add(quantity, price, orderType, side)
}
