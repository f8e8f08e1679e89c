package engine

import "container/list"

// LevelData is the per-price aggregate: total resting volume and resting
// order count. volume == 0 iff orderCount == 0 iff the level has been
// erased from its ladder.
type LevelData struct {
	Volume     uint64
	OrderCount int
}

// addAt folds a newly-resting order's quantity into the level.
func (d *LevelData) addAt(quantity uint32) {
	d.Volume += uint64(quantity)
	d.OrderCount++
}

// removeAt folds a filled or cancelled order's remaining quantity back
// out of the level.
func (d *LevelData) removeAt(quantity uint32) {
	d.Volume -= uint64(quantity)
	d.OrderCount--
}

func (d LevelData) empty() bool { return d.OrderCount == 0 }

// priceLevel is one node of a price ladder: a price, its aggregate
// bookkeeping, and the FIFO queue of resting orders at that price.
//
// orders is a doubly-linked list rather than a slice so that Cancel can
// remove an order from the middle of a level in O(1) given the
// list.Element saved at insertion time (spec requires a stable in-queue
// position; a slice would make that an O(depth) shift).
type priceLevel struct {
	price  int32
	data   LevelData
	orders *list.List // of *Order, oldest (best time priority) at Front
}

func newPriceLevel(price int32) *priceLevel {
	return &priceLevel{price: price, orders: list.New()}
}

func (l *priceLevel) pushBack(o *Order) *list.Element {
	l.data.addAt(o.RemainingQuantity())
	return l.orders.PushBack(o)
}

// removeResting removes a still-untouched-by-this-call resting order
// (explicit cancel): the order's full current remaining quantity is
// folded back out of the level.
func (l *priceLevel) removeResting(e *list.Element, quantity uint32) {
	l.orders.Remove(e)
	l.data.removeAt(quantity)
}

// applyFill folds an executed quantity out of the level's volume as the
// match happens, independent of whether the maker at the front is fully
// filled yet.
func (l *priceLevel) applyFill(quantity uint32) {
	l.data.Volume -= uint64(quantity)
}

// removeFilledElement drops a fully-filled maker from the queue. Its
// volume contribution was already folded out by applyFill as each trade
// against it executed, so only the order count is adjusted here.
func (l *priceLevel) removeFilledElement(e *list.Element) {
	l.orders.Remove(e)
	l.data.OrderCount--
}

func (l *priceLevel) front() *Order {
	e := l.orders.Front()
	if e == nil {
		return nil
	}
	return e.Value.(*Order)
}

func (l *priceLevel) frontElement() *list.Element { return l.orders.Front() }

func (l *priceLevel) isEmpty() bool { return l.orders.Len() == 0 }
