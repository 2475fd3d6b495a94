// Package persistence provides SQLite-based storage for the traffic
// history, so a run's visits and sales survive the process.
package persistence

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/shopkeep/internal/shop"
	"github.com/talgya/shopkeep/internal/traffic"
)

// DB wraps a SQLite connection for traffic-history persistence. It
// implements traffic.RecordSink. The tables are append-only.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS visits (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		customer_id TEXT NOT NULL,
		customer_name TEXT NOT NULL,
		archetype TEXT NOT NULL,
		entered_at INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		made_purchase INTEGER NOT NULL,
		amount REAL NOT NULL,
		satisfaction TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS transactions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		slot_id INTEGER NOT NULL,
		item_name TEXT NOT NULL,
		category TEXT NOT NULL,
		quality INTEGER NOT NULL,
		price REAL NOT NULL,
		customer_id TEXT NOT NULL,
		sold_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_visits_entered ON visits(entered_at);
	CREATE INDEX IF NOT EXISTS idx_transactions_sold ON transactions(sold_at);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// AppendVisit writes one finished visit to the history.
func (db *DB) AppendVisit(rec traffic.Record) error {
	made := 0
	if rec.MadePurchase {
		made = 1
	}
	_, err := db.conn.Exec(`INSERT INTO visits
		(customer_id, customer_name, archetype, entered_at, duration_ms,
		 made_purchase, amount, satisfaction)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.CustomerID.String(), rec.CustomerName, rec.Archetype.Name(),
		rec.EnteredAt.UnixMilli(), rec.Duration.Milliseconds(),
		made, rec.Amount, rec.Satisfaction.Name(),
	)
	if err != nil {
		return fmt.Errorf("insert visit for %s: %w", rec.CustomerID, err)
	}
	return nil
}

// AppendTransaction writes one completed sale to the ledger table.
func (db *DB) AppendTransaction(tx shop.Transaction) error {
	_, err := db.conn.Exec(`INSERT INTO transactions
		(slot_id, item_name, category, quality, price, customer_id, sold_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		tx.SlotID, tx.Item.Name, shop.CategoryName(tx.Item.Category),
		tx.Item.Quality, tx.Price, tx.CustomerID.String(), tx.Timestamp.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert transaction for slot %d: %w", tx.SlotID, err)
	}
	return nil
}

// VisitRow is the stored shape of one visit.
type VisitRow struct {
	ID           int64   `db:"id"`
	CustomerID   string  `db:"customer_id"`
	CustomerName string  `db:"customer_name"`
	Archetype    string  `db:"archetype"`
	EnteredAt    int64   `db:"entered_at"`
	DurationMs   int64   `db:"duration_ms"`
	MadePurchase int     `db:"made_purchase"`
	Amount       float64 `db:"amount"`
	Satisfaction string  `db:"satisfaction"`
}

// RecentVisits returns the most recent N visits, newest first.
func (db *DB) RecentVisits(limit int) ([]VisitRow, error) {
	var rows []VisitRow
	err := db.conn.Select(&rows,
		"SELECT * FROM visits ORDER BY id DESC LIMIT ?", limit)
	return rows, err
}

// VisitsSince counts visits that entered after the given time.
func (db *DB) VisitsSince(t time.Time) (int, error) {
	var n int
	err := db.conn.Get(&n,
		"SELECT COUNT(*) FROM visits WHERE entered_at > ?", t.UnixMilli())
	return n, err
}
