package repository

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// InitDB opens (or creates) a SQLite database at the given path and ensures
// all required tables exist. Pass ":memory:" for an in-memory database.
func InitDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set wal mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return db, nil
}

func createTables(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS customers (
			id TEXT PRIMARY KEY,
			display_name TEXT NOT NULL,
			bank_alias TEXT NOT NULL DEFAULT '',
			disabled INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_customers_bank_alias ON customers(bank_alias)`,

		`CREATE TABLE IF NOT EXISTS suppliers (
			id TEXT PRIMARY KEY,
			display_name TEXT NOT NULL,
			bank_alias TEXT NOT NULL DEFAULT '',
			disabled INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_suppliers_bank_alias ON suppliers(bank_alias)`,

		`CREATE TABLE IF NOT EXISTS bank_accounts (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			iban TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_bank_accounts_iban ON bank_accounts(iban)`,

		`CREATE TABLE IF NOT EXISTS bank_transactions (
			id TEXT PRIMARY KEY,
			date TEXT NOT NULL,
			bank_account TEXT NOT NULL,
			deposit TEXT NOT NULL,
			withdrawal TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			reference_number TEXT NOT NULL DEFAULT '',
			party_type TEXT NOT NULL DEFAULT '',
			party TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			FOREIGN KEY (bank_account) REFERENCES bank_accounts(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_bank_transactions_reference ON bank_transactions(reference_number)`,
		`CREATE INDEX IF NOT EXISTS idx_bank_transactions_status ON bank_transactions(status)`,
		`CREATE INDEX IF NOT EXISTS idx_bank_transactions_account ON bank_transactions(bank_account)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:60], err)
		}
	}

	return nil
}
