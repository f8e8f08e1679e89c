package engine

// Trade is an immutable record of one match between a resting maker and
// an arriving taker. Trades are produced only inside the matching loop,
// in the order they execute.
type Trade struct {
	MakerOrderID uint64
	TakerOrderID uint64
	Quantity     uint32
	Price        int32 // always the maker's (resting) price, never the taker's limit
}
