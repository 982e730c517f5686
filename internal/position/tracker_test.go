package position

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory Store implementation for testing.
type memStore struct {
	prices map[string]float64
	errOn  string // operation name that should fail, "" for none
}

func newMemStore() *memStore {
	return &memStore{prices: make(map[string]float64)}
}

func (m *memStore) Write(symbol string, price float64) error {
	if m.errOn == "write" {
		return errors.New("write failed")
	}
	m.prices[symbol] = price
	return nil
}

func (m *memStore) Read(symbol string) (float64, bool, error) {
	if m.errOn == "read" {
		return 0, false, errors.New("read failed")
	}
	p, ok := m.prices[symbol]
	return p, ok, nil
}

func (m *memStore) Clear(symbol string) error {
	if m.errOn == "clear" {
		return errors.New("clear failed")
	}
	delete(m.prices, symbol)
	return nil
}

func (m *memStore) Close() error { return nil }

func TestTrackerRoundTrip(t *testing.T) {
	tracker := NewTracker(newMemStore())

	_, ok, err := tracker.ReadPurchase("ETHUSDT")
	require.NoError(t, err)
	assert.False(t, ok, "a never-recorded symbol must read as absent")

	require.NoError(t, tracker.RecordPurchase("ETHUSDT", 1834.52))

	price, ok, err := tracker.ReadPurchase("ETHUSDT")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1834.52, price)

	require.NoError(t, tracker.ClearPurchase("ETHUSDT"))

	_, ok, err = tracker.ReadPurchase("ETHUSDT")
	require.NoError(t, err)
	assert.False(t, ok, "a cleared symbol must read as absent")
}

func TestTrackerOverwrite(t *testing.T) {
	tracker := NewTracker(newMemStore())

	require.NoError(t, tracker.RecordPurchase("BTCUSDT", 60000))
	require.NoError(t, tracker.RecordPurchase("BTCUSDT", 61000))

	price, ok, err := tracker.ReadPurchase("BTCUSDT")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 61000.0, price)
}

func TestTrackerSymbolsIndependent(t *testing.T) {
	tracker := NewTracker(newMemStore())

	require.NoError(t, tracker.RecordPurchase("ETHUSDT", 1800))
	require.NoError(t, tracker.RecordPurchase("BTCUSDT", 60000))
	require.NoError(t, tracker.ClearPurchase("ETHUSDT"))

	_, ok, err := tracker.ReadPurchase("ETHUSDT")
	require.NoError(t, err)
	assert.False(t, ok)

	price, ok, err := tracker.ReadPurchase("BTCUSDT")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 60000.0, price)
}

func TestTrackerPropagatesStoreErrors(t *testing.T) {
	store := newMemStore()
	store.errOn = "read"
	tracker := NewTracker(store)

	_, _, err := tracker.ReadPurchase("ETHUSDT")
	assert.Error(t, err)
}

func TestProfitPercentage(t *testing.T) {
	// An absent purchase price is a defined default of 0, not an error.
	assert.Equal(t, 0.0, ProfitPercentage(0, false, 123.45))
	assert.Equal(t, 0.0, ProfitPercentage(100, false, 200))

	assert.InDelta(t, 3.0, ProfitPercentage(100, true, 103), 1e-9)
	assert.InDelta(t, -2.0, ProfitPercentage(100, true, 98), 1e-9)
	assert.InDelta(t, 0.0, ProfitPercentage(100, true, 100), 1e-9)
}
