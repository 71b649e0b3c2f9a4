package repository

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Roma10boss/Tic-Tac-Toe-With-AI/internal/apperror"
	"github.com/Roma10boss/Tic-Tac-Toe-With-AI/internal/entity"
	"github.com/Roma10boss/Tic-Tac-Toe-With-AI/internal/logger"
	"github.com/Roma10boss/Tic-Tac-Toe-With-AI/internal/qtable"
)

var errDiskOnFire = errors.New("disk on fire")

type stubRepo struct {
	table *qtable.Table
	err   error
}

func (that *stubRepo) Load(_ context.Context) (*qtable.Table, error) {
	return that.table, that.err
}

func (that *stubRepo) Save(_ context.Context, _ *qtable.Table) error {
	return nil
}

func (that *stubRepo) Location() string {
	return "stub"
}

// populatedTable returns values that are awkward to print exactly.
func populatedTable() *qtable.Table {
	table := qtable.New()
	table.Update(entity.Encode(entity.Board{}), 0, 0.1)
	table.Update(entity.Encode(entity.Board{}), 4, 1.0/3.0)
	table.Update("X        ", 4, -0.7290000000000001)
	table.Update("X   O    ", 8, 1e-300)
	table.Update("XX OO    ", 2, 1)
	table.Update("XX OO    ", 5, -2.5e-7)
	return table
}

func assertSameTable(t *testing.T, expected, actual *qtable.Table) {
	t.Helper()

	require.Equal(t, expected.Len(), actual.Len())
	for _, entry := range expected.Entries() {
		require.True(t, actual.Has(entry.State, entry.Action), "missing %q/%d", entry.State, entry.Action)
		// exact equality, not a delta: persistence must round-trip bit for bit
		require.Equal(t, entry.Value, actual.Get(entry.State, entry.Action), "value of %q/%d", entry.State, entry.Action)
	}
}

func TestLoadOrEmpty(t *testing.T) {
	ctx := context.Background()
	log := logger.New(&bytes.Buffer{}, "error")

	t.Run("Returns the stored table", func(t *testing.T) {
		stored := populatedTable()

		table, err := LoadOrEmpty(ctx, log, &stubRepo{table: stored})

		require.NoError(t, err)
		assert.Same(t, stored, table)
	})

	t.Run("Missing table becomes empty", func(t *testing.T) {
		table, err := LoadOrEmpty(ctx, log, &stubRepo{err: apperror.ErrTableNotFound})

		require.NoError(t, err)
		assert.Equal(t, 0, table.Len())
	})

	t.Run("Corrupt table becomes empty", func(t *testing.T) {
		table, err := LoadOrEmpty(ctx, log, &stubRepo{err: apperror.ErrCorruptTable})

		require.NoError(t, err)
		assert.Equal(t, 0, table.Len())
	})

	t.Run("Other errors are returned", func(t *testing.T) {
		_, err := LoadOrEmpty(ctx, log, &stubRepo{err: errDiskOnFire})

		assert.ErrorIs(t, err, errDiskOnFire)
	})
}

func TestValidateEntry(t *testing.T) {
	assert.NoError(t, validateEntry("X        ", 4, 0.5))
	assert.ErrorIs(t, validateEntry("X", 4, 0.5), apperror.ErrCorruptTable)
	assert.ErrorIs(t, validateEntry("X        ", 9, 0.5), apperror.ErrCorruptTable)
	assert.ErrorIs(t, validateEntry("X        ", 0, 0.5), apperror.ErrCorruptTable)
}
