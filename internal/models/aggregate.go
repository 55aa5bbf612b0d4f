package models

// TickerAggregate is a per-ticker rollup of holdings across accounts.
// Derived on every load; never persisted.
type TickerAggregate struct {
	Ticker    string
	Name      string
	AssetType AssetType // taken from the first constituent holding
	Holdings  []Holding // constituents, in input order

	CurrentValue  float64 // sum
	BookCost      float64 // sum
	Quantity      float64 // sum
	CurrentWeight float64 // sum
	TargetWeight  float64 // max across constituents, not sum
}

// MultiAccount reports whether this ticker is held in more than one account.
func (a *TickerAggregate) MultiAccount() bool {
	return len(a.Holdings) > 1
}

// UnitPrice returns the display price: the first holding's stored last price,
// or the aggregate value divided by the aggregate quantity when absent.
// Non-finite when quantity is zero; callers format that as "-".
func (a *TickerAggregate) UnitPrice() float64 {
	if len(a.Holdings) > 0 && a.Holdings[0].LastPrice > 0 {
		return a.Holdings[0].LastPrice
	}
	return a.CurrentValue / a.Quantity
}

// PLPct returns (currentValue - bookCost) / bookCost × 100, or 0 when the
// aggregate book cost is not positive.
func (a *TickerAggregate) PLPct() float64 {
	if a.BookCost <= 0 {
		return 0
	}
	return (a.CurrentValue - a.BookCost) / a.BookCost * 100
}
