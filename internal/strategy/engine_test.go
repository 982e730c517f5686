package strategy

import (
	"errors"
	"testing"

	"binance-momentum-bot-go/internal/models"
	"binance-momentum-bot-go/internal/position"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubStore is an in-memory position.Store for engine tests.
type stubStore struct {
	prices  map[string]float64
	readErr error
}

func newStubStore() *stubStore {
	return &stubStore{prices: make(map[string]float64)}
}

func (s *stubStore) Write(symbol string, price float64) error {
	s.prices[symbol] = price
	return nil
}

func (s *stubStore) Read(symbol string) (float64, bool, error) {
	if s.readErr != nil {
		return 0, false, s.readErr
	}
	p, ok := s.prices[symbol]
	return p, ok, nil
}

func (s *stubStore) Clear(symbol string) error {
	delete(s.prices, symbol)
	return nil
}

func (s *stubStore) Close() error { return nil }

func testConfig() *models.Config {
	return &models.Config{
		RSIPeriod:       14,
		ProfitTargetPct: 2,
		TrailingStopPct: 1,
	}
}

// fallingCloses returns n closes descending by one per candle, ending at last.
func fallingCloses(n int, last float64) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = last + float64(n-1-i)
	}
	return closes
}

// steadyCloses returns n identical closes. A constant series has zero losses,
// so the RSI reports 100 and the entry rule can never fire.
func steadyCloses(n int, price float64) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = price
	}
	return closes
}

func newTestEngine(t *testing.T, store position.Store) *Engine {
	t.Helper()
	return NewEngine(testConfig(), position.NewTracker(store))
}

func TestEvaluateSellOnProfitTarget(t *testing.T) {
	store := newStubStore()
	require.NoError(t, store.Write("ETHUSDT", 100))
	engine := newTestEngine(t, store)

	snap := &models.MarketSnapshot{
		Symbol:      models.SymbolConfig{Symbol: "ETHUSDT", QuoteAsset: "USDT", NotionalAmount: 50},
		Price:       103,
		Closes:      steadyCloses(60, 103),
		FreeBalance: 2, // worth 206 USDT, well above dust
	}

	d, err := engine.Evaluate(snap)
	require.NoError(t, err)
	assert.Equal(t, models.ActionSell, d.Action)
	assert.Equal(t, 2.0, d.Quantity)
	assert.InDelta(t, 3.0, d.ProfitPct, 1e-9)
	assert.Equal(t, "profit target reached", d.Reason)
}

func TestEvaluateTakeProfitCheckedBeforeTrailingStop(t *testing.T) {
	// At exactly the target price both exit rules hold; the take-profit
	// check runs first and wins.
	store := newStubStore()
	require.NoError(t, store.Write("ETHUSDT", 100))
	engine := newTestEngine(t, store)

	snap := &models.MarketSnapshot{
		Symbol:      models.SymbolConfig{Symbol: "ETHUSDT", QuoteAsset: "USDT"},
		Price:       102,
		Closes:      steadyCloses(60, 102),
		FreeBalance: 1,
	}

	d, err := engine.Evaluate(snap)
	require.NoError(t, err)
	assert.Equal(t, models.ActionSell, d.Action)
	assert.Equal(t, "profit target reached", d.Reason)
}

func TestEvaluateHoldBelowTarget(t *testing.T) {
	store := newStubStore()
	require.NoError(t, store.Write("ETHUSDT", 100))
	engine := newTestEngine(t, store)

	snap := &models.MarketSnapshot{
		Symbol:      models.SymbolConfig{Symbol: "ETHUSDT", QuoteAsset: "USDT"},
		Price:       101,
		Closes:      steadyCloses(60, 101),
		FreeBalance: 1,
	}

	d, err := engine.Evaluate(snap)
	require.NoError(t, err)
	assert.Equal(t, models.ActionNone, d.Action)
	assert.Equal(t, "profit target not reached", d.Reason)
}

func TestEvaluateHeldWithoutPurchasePrice(t *testing.T) {
	// A balance worth 50 USDT with no recorded purchase price: no exit can
	// fire this cycle, and no buy either since the balance is not flat.
	engine := newTestEngine(t, newStubStore())

	snap := &models.MarketSnapshot{
		Symbol:      models.SymbolConfig{Symbol: "ETHUSDT", QuoteAsset: "USDT"},
		Price:       100,
		Closes:      fallingCloses(60, 100), // deeply oversold, RSI 0
		FreeBalance: 0.5,                    // worth 50 USDT
	}

	d, err := engine.Evaluate(snap)
	require.NoError(t, err)
	assert.Equal(t, models.ActionNone, d.Action)
	assert.False(t, d.HasPurchase)
	assert.Equal(t, 0.0, d.ProfitPct)
	assert.Equal(t, "held but no purchase price recorded", d.Reason)
}

func TestEvaluateBuyWhenFlatAndOversold(t *testing.T) {
	engine := newTestEngine(t, newStubStore())

	snap := &models.MarketSnapshot{
		Symbol: models.SymbolConfig{
			Symbol:         "ETHUSDT",
			QuoteAsset:     "USDT",
			NotionalAmount: 50,
			Rounding:       models.RoundingFloor,
		},
		Price:       90, // below the lower band of the trailing window
		Closes:      fallingCloses(60, 100),
		FreeBalance: 0.001, // worth well under a USDT, flat
	}

	d, err := engine.Evaluate(snap)
	require.NoError(t, err)
	assert.Equal(t, models.ActionBuy, d.Action)
	assert.Equal(t, 50.0, d.Notional)
	assert.Equal(t, models.RoundingFloor, d.Rounding)
	assert.Equal(t, 24, d.Signals.RSIThreshold, "price below the lower band selects the aggressive threshold")
}

func TestEvaluateNoBuyOnInsufficientHistory(t *testing.T) {
	engine := newTestEngine(t, newStubStore())

	snap := &models.MarketSnapshot{
		Symbol:      models.SymbolConfig{Symbol: "ETHUSDT", QuoteAsset: "USDT", NotionalAmount: 50},
		Price:       100,
		Closes:      fallingCloses(10, 100), // shorter than period+1 and window
		FreeBalance: 0,
	}

	d, err := engine.Evaluate(snap)
	require.NoError(t, err)
	assert.Equal(t, models.ActionNone, d.Action)
	assert.Equal(t, "insufficient history for rsi", d.Reason)
	assert.Equal(t, 27, d.Signals.RSIThreshold, "undefined bands fall through to the default threshold")
}

func TestEvaluateBalanceExactlyAtDustIsHeld(t *testing.T) {
	engine := newTestEngine(t, newStubStore())

	snap := &models.MarketSnapshot{
		Symbol:      models.SymbolConfig{Symbol: "ETHUSDT", QuoteAsset: "USDT", NotionalAmount: 50},
		Price:       100,
		Closes:      fallingCloses(60, 100),
		FreeBalance: 0.01, // worth exactly 1 USDT
	}

	d, err := engine.Evaluate(snap)
	require.NoError(t, err)
	assert.Equal(t, models.ActionNone, d.Action, "a balance at the dust threshold is held, so no buy")
}

func TestEvaluateIdempotent(t *testing.T) {
	store := newStubStore()
	require.NoError(t, store.Write("ETHUSDT", 100))
	engine := newTestEngine(t, store)

	snap := &models.MarketSnapshot{
		Symbol:      models.SymbolConfig{Symbol: "ETHUSDT", QuoteAsset: "USDT", NotionalAmount: 50},
		Price:       101,
		Closes:      steadyCloses(60, 101),
		FreeBalance: 1,
	}

	first, err := engine.Evaluate(snap)
	require.NoError(t, err)
	second, err := engine.Evaluate(snap)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEvaluatePersistenceError(t *testing.T) {
	store := newStubStore()
	store.readErr = errors.New("disk gone")
	engine := newTestEngine(t, store)

	snap := &models.MarketSnapshot{
		Symbol: models.SymbolConfig{Symbol: "ETHUSDT", QuoteAsset: "USDT"},
		Price:  100,
		Closes: steadyCloses(60, 100),
	}

	_, err := engine.Evaluate(snap)
	require.Error(t, err)

	var cerr *models.CycleError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, models.ErrKindPersistence, cerr.Kind)
}
