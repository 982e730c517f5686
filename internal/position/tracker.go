package position

// Tracker records the price at which each symbol was last bought.
// It is the only writer of the underlying Store; the trading loop records a
// price exactly when a buy executes and clears it exactly when a sell
// executes. The tracker never re-verifies the stored price against the
// exchange's actual cost basis.
type Tracker struct {
	store Store
}

// NewTracker returns a Tracker backed by the given Store.
func NewTracker(store Store) *Tracker {
	return &Tracker{store: store}
}

// RecordPurchase persists price as the current purchase price for symbol.
func (t *Tracker) RecordPurchase(symbol string, price float64) error {
	return t.store.Write(symbol, price)
}

// ClearPurchase removes the persisted purchase price for symbol.
func (t *Tracker) ClearPurchase(symbol string) error {
	return t.store.Clear(symbol)
}

// ReadPurchase returns the recorded purchase price for symbol.
// ok is false when no price is recorded.
func (t *Tracker) ReadPurchase(symbol string) (price float64, ok bool, err error) {
	return t.store.Read(symbol)
}

// ProfitPercentage returns the percentage gain of currentPrice over the
// purchase price. An absent purchase price yields 0 by definition, so a held
// but untracked balance never looks profitable.
func ProfitPercentage(purchasePrice float64, ok bool, currentPrice float64) float64 {
	if !ok {
		return 0
	}
	return (currentPrice - purchasePrice) / purchasePrice * 100
}
