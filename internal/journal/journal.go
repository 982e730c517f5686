// Package journal persists a history of every executed trade to SQLite so
// fills survive restarts and can be inspected with any sqlite client.
package journal

import (
	"database/sql"
	"fmt"

	"binance-momentum-bot-go/internal/models"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
)

// Journal is an append-only trade log backed by SQLite.
type Journal struct {
	db *sql.DB
}

// Open opens (creating if necessary) the journal database at dataSourceName.
func Open(dataSourceName string) (*Journal, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal database: %w", err)
	}

	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to journal database: %w", err)
	}

	if err = createTables(db); err != nil {
		return nil, fmt.Errorf("failed to create journal tables: %w", err)
	}

	return &Journal{db: db}, nil
}

func createTables(db *sql.DB) error {
	// One row per executed order. client_order_id is unique per submission,
	// which makes accidental double-recording visible as a constraint error.
	createTradesTableSQL := `
	CREATE TABLE IF NOT EXISTS trades (
		client_order_id TEXT PRIMARY KEY,
		exchange_order_id INTEGER,
		symbol TEXT NOT NULL,
		side TEXT NOT NULL,
		price REAL NOT NULL,
		quantity TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);`

	_, err := db.Exec(createTradesTableSQL)
	return err
}

// Record appends one executed trade to the journal.
func (j *Journal) Record(t *models.TradeRecord) error {
	query := `
	INSERT INTO trades (client_order_id, exchange_order_id, symbol, side, price, quantity, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := j.db.Exec(query,
		t.ClientOrderID, t.OrderID, t.Symbol, t.Side, t.Price, t.Quantity, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record trade %s: %w", t.ClientOrderID, err)
	}
	return nil
}

// RecentTrades returns up to limit trades for symbol, newest first.
func (j *Journal) RecentTrades(symbol string, limit int) ([]models.TradeRecord, error) {
	query := `
	SELECT client_order_id, exchange_order_id, symbol, side, price, quantity, created_at
	FROM trades
	WHERE symbol = ?
	ORDER BY created_at DESC
	LIMIT ?`

	rows, err := j.db.Query(query, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades: %w", err)
	}
	defer rows.Close()

	var trades []models.TradeRecord
	for rows.Next() {
		var t models.TradeRecord
		if err := rows.Scan(
			&t.ClientOrderID, &t.OrderID, &t.Symbol, &t.Side, &t.Price, &t.Quantity, &t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan trade row: %w", err)
		}
		trades = append(trades, t)
	}
	return trades, rows.Err()
}

// Close gracefully closes the journal database.
func (j *Journal) Close() error {
	return j.db.Close()
}
