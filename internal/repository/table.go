package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/Roma10boss/Tic-Tac-Toe-With-AI/internal/apperror"
	"github.com/Roma10boss/Tic-Tac-Toe-With-AI/internal/entity"
	"github.com/Roma10boss/Tic-Tac-Toe-With-AI/internal/qtable"
)

// TableRepository persists a full Q-table snapshot. Load reads everything
// into memory and Save replaces whatever was stored before.
type TableRepository interface {
	Load(ctx context.Context) (*qtable.Table, error)
	Save(ctx context.Context, table *qtable.Table) error
	Location() string
}

// LoadOrEmpty is the cold-start path: a missing or corrupt table becomes an
// empty one. Any other failure is still returned.
func LoadOrEmpty(ctx context.Context, logger *slog.Logger, repo TableRepository) (*qtable.Table, error) {
	log := logger.With("method", "LoadOrEmpty", "location", repo.Location())

	table, err := repo.Load(ctx)
	switch {
	case err == nil:
		return table, nil
	case errors.Is(err, apperror.ErrTableNotFound):
		log.Warn("no q-table found, starting with an empty table")
		return qtable.New(), nil
	case errors.Is(err, apperror.ErrCorruptTable):
		log.Warn("q-table is corrupt, starting with an empty table", "error", err)
		return qtable.New(), nil
	default:
		return nil, err
	}
}

// validateEntry checks that a persisted pair could have been produced by
// training: a decodable state, an action on the board and an empty target cell.
func validateEntry(state entity.StateKey, action int, value float64) error {
	board, err := state.Board()
	if err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrCorruptTable, err)
	}

	if action < 0 || action >= entity.BoardSize {
		return fmt.Errorf("%w: action %d out of range for state %q", apperror.ErrCorruptTable, action, string(state))
	}

	if board[action] != entity.EmptyCell {
		return fmt.Errorf("%w: action %d targets an occupied cell in state %q", apperror.ErrCorruptTable, action, string(state))
	}

	if math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Errorf("%w: non-finite value for state %q action %d", apperror.ErrCorruptTable, string(state), action)
	}

	return nil
}
