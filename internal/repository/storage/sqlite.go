package storage

import (
	"context"
	"database/sql"
	"fmt"

	// import the SQLite driver to register it with the database/sql package.
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

type SQLiteStorage struct {
	Connection *sql.DB
	Path       string
}

func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("can't open database %s: %w", path, err)
	}

	if err = conn.Ping(); err != nil {
		return nil, fmt.Errorf("can't connect to database %s: %w", path, err)
	}

	return &SQLiteStorage{Connection: conn, Path: path}, nil
}

// Init creates the Q-value and snapshot tables.
func (that *SQLiteStorage) Init(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS qvalues (
			state  TEXT    NOT NULL,
			action INTEGER NOT NULL,
			value  REAL    NOT NULL,
			PRIMARY KEY (state, action)
		)`,
		`CREATE TABLE IF NOT EXISTS snapshots (
			id       INTEGER PRIMARY KEY AUTOINCREMENT,
			entries  INTEGER NOT NULL,
			saved_at TEXT    NOT NULL
		)`,
	}

	for _, query := range queries {
		if _, err := that.Connection.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("can't create table: %w", err)
		}
	}

	return nil
}

func (that *SQLiteStorage) Close() error {
	return that.Connection.Close()
}
