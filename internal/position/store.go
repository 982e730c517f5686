package position

// Store defines the interface for purchase price persistence.
// It abstracts the underlying storage mechanism (e.g., BadgerDB, in-memory)
// from the rest of the application. Records must survive process restarts.
type Store interface {
	// Write persists price as the purchase price for symbol, overwriting
	// any prior value.
	Write(symbol string, price float64) error

	// Read returns the persisted purchase price for symbol.
	// ok is false when no price was ever recorded or it has been cleared.
	Read(symbol string) (price float64, ok bool, err error)

	// Clear removes the persisted purchase price for symbol.
	// Clearing an absent record is not an error.
	Clear(symbol string) error

	// Close gracefully closes the connection to the database.
	Close() error
}
