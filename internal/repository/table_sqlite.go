package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Roma10boss/Tic-Tac-Toe-With-AI/internal/apperror"
	"github.com/Roma10boss/Tic-Tac-Toe-With-AI/internal/entity"
	"github.com/Roma10boss/Tic-Tac-Toe-With-AI/internal/qtable"
)

type sqliteTable struct {
	conn *sql.DB
	path string
}

// NewSQLiteTableRepository expects a connection whose schema was created by
// storage.SQLiteStorage.Init.
func NewSQLiteTableRepository(conn *sql.DB, path string) TableRepository {
	return &sqliteTable{
		conn: conn,
		path: path,
	}
}

func (that *sqliteTable) Location() string {
	return "sqlite:" + that.path
}

func (that *sqliteTable) Load(ctx context.Context) (*qtable.Table, error) {
	var expected int

	query := `SELECT entries FROM snapshots ORDER BY id DESC LIMIT 1`
	err := that.conn.QueryRowContext(ctx, query).Scan(&expected)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", apperror.ErrTableNotFound, that.Location())
	}

	if err != nil {
		return nil, fmt.Errorf("can't read snapshot %s: %w", that.Location(), err)
	}

	rows, err := that.conn.QueryContext(ctx, `SELECT state, action, value FROM qvalues`)
	if err != nil {
		return nil, fmt.Errorf("can't read q-values %s: %w", that.Location(), err)
	}
	defer rows.Close()

	table := qtable.New()
	for rows.Next() {
		var (
			state  string
			action int
			value  float64
		)

		if err = rows.Scan(&state, &action, &value); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", apperror.ErrCorruptTable, that.Location(), err)
		}

		if err = validateEntry(entity.StateKey(state), action, value); err != nil {
			return nil, fmt.Errorf("%s: %w", that.Location(), err)
		}

		table.Update(entity.StateKey(state), action, value)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("can't read q-values %s: %w", that.Location(), err)
	}

	if table.Len() != expected {
		return nil, fmt.Errorf("%w: %s: expected %d entries, found %d", apperror.ErrCorruptTable, that.Location(), expected, table.Len())
	}

	return table, nil
}

func (that *sqliteTable) Save(ctx context.Context, table *qtable.Table) (err error) {
	tx, err := that.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("can't begin transaction %s: %w", that.Location(), err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM qvalues`); err != nil {
		return fmt.Errorf("can't clear q-values %s: %w", that.Location(), err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO qvalues (state, action, value) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("can't prepare insert %s: %w", that.Location(), err)
	}
	defer stmt.Close()

	for _, entry := range table.Entries() {
		if _, err = stmt.ExecContext(ctx, string(entry.State), entry.Action, entry.Value); err != nil {
			return fmt.Errorf("can't save q-value %s: %w", that.Location(), err)
		}
	}

	query := `INSERT INTO snapshots (entries, saved_at) VALUES (?, ?)`
	if _, err = tx.ExecContext(ctx, query, table.Len(), time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("can't save snapshot %s: %w", that.Location(), err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("can't commit q-table %s: %w", that.Location(), err)
	}

	return nil
}
