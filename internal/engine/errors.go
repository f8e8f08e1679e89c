package engine

import "errors"

// Error taxonomy. Names denote categories (per the error-handling design),
// not concrete types: every public Orderbook operation returns one of
// these sentinels, wrapped with additional context via fmt.Errorf("%w", ...)
// where useful, never a bare string or a panic.
var (
	// ErrInvalidQuantity is returned when an order's quantity is zero.
	// A fill exceeding the remaining quantity reports ErrInvalidFill.
	ErrInvalidQuantity = errors.New("invalid quantity")
	// ErrInvalidSide is returned by Add for a Side value outside
	// {Buy, Sell}, before any matching takes place. Past that check such
	// a value is an internal invariant violation and panics.
	ErrInvalidSide = errors.New("invalid side")
	// ErrUnknownOrder is returned by Cancel/Modify when the order id is
	// not in the index: already filled, already cancelled, or never
	// admitted.
	ErrUnknownOrder = errors.New("unknown order")
	// ErrInvalidFill is returned when a fill amount would exceed an
	// order's remaining quantity. Matching clamps every fill to
	// min(taker.remaining, maker.remaining), so this should be
	// unreachable from the matching loop itself.
	ErrInvalidFill = errors.New("invalid fill")
)
