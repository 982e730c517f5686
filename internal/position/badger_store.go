package position

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/dgraph-io/badger/v3"
)

// badgerStore is the BadgerDB implementation of the Store.
type badgerStore struct {
	db *badger.DB
}

// NewBadgerStore opens (creating if necessary) a BadgerDB database at dbPath
// and returns a Store backed by it.
func NewBadgerStore(dbPath string) (Store, error) {
	opts := badger.DefaultOptions(dbPath)
	// Badger's own logging is noisy; errors still surface from DB operations.
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &badgerStore{db: db}, nil
}

func purchaseKey(symbol string) []byte {
	return []byte("purchase_price:" + symbol)
}

// Write persists the purchase price for symbol, overwriting any prior value.
func (s *badgerStore) Write(symbol string, price float64) error {
	val := strconv.FormatFloat(price, 'f', -1, 64)
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(purchaseKey(symbol), []byte(val))
	})
}

// Read returns the persisted purchase price for symbol.
// A missing key is the expected "never bought" case, not an error.
func (s *badgerStore) Read(symbol string) (float64, bool, error) {
	var price float64
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(purchaseKey(symbol))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			p, err := strconv.ParseFloat(string(val), 64)
			if err != nil {
				return fmt.Errorf("corrupt purchase price for %s: %w", symbol, err)
			}
			price = p
			return nil
		})
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return price, true, nil
}

// Clear removes the purchase price for symbol. Deleting an absent key is a
// no-op in Badger, which matches the Store contract.
func (s *badgerStore) Clear(symbol string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(purchaseKey(symbol))
	})
}

// Close gracefully closes the connection to the database.
func (s *badgerStore) Close() error {
	return s.db.Close()
}
