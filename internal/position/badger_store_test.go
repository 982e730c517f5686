package position

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) Store {
	t.Helper()
	store, err := NewBadgerStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestBadgerStoreRoundTrip(t *testing.T) {
	store := newTestStore(t)

	_, ok, err := store.Read("ETHUSDT")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Write("ETHUSDT", 1834.52))

	price, ok, err := store.Read("ETHUSDT")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1834.52, price)

	require.NoError(t, store.Clear("ETHUSDT"))

	_, ok, err = store.Read("ETHUSDT")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBadgerStoreClearAbsentKey(t *testing.T) {
	store := newTestStore(t)
	assert.NoError(t, store.Clear("NEVERSEEN"))
}

func TestBadgerStorePreservesPrecision(t *testing.T) {
	store := newTestStore(t)

	// Prices round-trip through decimal strings without loss.
	require.NoError(t, store.Write("SHIBUSDT", 0.00001234))

	price, ok, err := store.Read("SHIBUSDT")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 0.00001234, price)
}
