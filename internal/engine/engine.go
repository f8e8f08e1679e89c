package engine

// Engine owns one Orderbook per supported instrument. The core itself
// only ever serves a single instrument per Orderbook; Engine's map shape
// mirrors how the dispatcher addresses a book by AssetType at the wire
// boundary, but routing between multiple live instruments is explicitly
// out of scope — New is expected to be called with exactly one asset in
// this module's deployments.
type Engine struct {
	books map[AssetType]*OrderBook
}

// New constructs an Engine with one fresh Orderbook per supported asset.
func New(supportedAssets ...AssetType) *Engine {
	e := &Engine{books: make(map[AssetType]*OrderBook, len(supportedAssets))}
	for _, asset := range supportedAssets {
		e.books[asset] = NewOrderBook()
	}
	return e
}

// Book returns the Orderbook backing an instrument, if the engine was
// constructed with it.
func (e *Engine) Book(asset AssetType) (*OrderBook, bool) {
	book, ok := e.books[asset]
	return book, ok
}

// ErrUnknownAsset is returned by the AddOrder/CancelOrder/ModifyOrder
// convenience wrappers below when asked about an instrument the engine
// was not constructed with. Depth reports the same case with ok == false.
var ErrUnknownAsset = errUnknownAsset{}

type errUnknownAsset struct{}

func (errUnknownAsset) Error() string { return "unknown asset" }

// AddOrder routes a new order to its instrument's book.
func (e *Engine) AddOrder(asset AssetType, quantity uint32, price int32, orderType OrderType, side Side) (uint64, []Trade, error) {
	book, ok := e.books[asset]
	if !ok {
		return 0, nil, ErrUnknownAsset
	}
	return book.Add(quantity, price, orderType, side)
}

// CancelOrder routes a cancel to its instrument's book.
func (e *Engine) CancelOrder(asset AssetType, orderID uint64) error {
	book, ok := e.books[asset]
	if !ok {
		return ErrUnknownAsset
	}
	return book.Cancel(orderID)
}

// ModifyOrder routes a modify to its instrument's book.
func (e *Engine) ModifyOrder(asset AssetType, orderID uint64, mod Modification) (uint64, []Trade, error) {
	book, ok := e.books[asset]
	if !ok {
		return 0, nil, ErrUnknownAsset
	}
	return book.Modify(orderID, mod)
}

// Depth returns both ladders of an instrument's book, best price first.
func (e *Engine) Depth(asset AssetType) (bids, asks []DepthLevel, ok bool) {
	book, ok := e.books[asset]
	if !ok {
		return nil, nil, false
	}
	return book.FullDepthBid(), book.FullDepthAsk(), true
}
