package qtable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Roma10boss/Tic-Tac-Toe-With-AI/internal/entity"
)

func TestTable_Get(t *testing.T) {
	t.Run("Unseen pair returns the default", func(t *testing.T) {
		table := New()

		assert.InDelta(t, DefaultValue, table.Get("         ", 4), 0)
		assert.False(t, table.Has("         ", 4))
	})

	t.Run("Stored value is returned", func(t *testing.T) {
		// Given: a table with one stored value
		table := New()
		table.Update("X        ", 4, 0.25)

		// Then: the value is returned and other actions stay default
		assert.InDelta(t, 0.25, table.Get("X        ", 4), 0)
		assert.InDelta(t, DefaultValue, table.Get("X        ", 5), 0)
		assert.True(t, table.Has("X        ", 4))
	})
}

func TestTable_Update(t *testing.T) {
	// Given: an empty table
	table := New()

	// When: the same pair is written twice and another pair once
	table.Update("         ", 0, 0.5)
	table.Update("         ", 0, -0.75)
	table.Update("         ", 8, 1)

	// Then: the last write wins and the size counts pairs
	assert.InDelta(t, -0.75, table.Get("         ", 0), 0)
	assert.Equal(t, 2, table.Len())
	assert.Equal(t, 1, table.States())
}

func TestTable_BestAction(t *testing.T) {
	empty := entity.Encode(entity.Board{})

	t.Run("Fresh table on the empty board picks 0", func(t *testing.T) {
		table := New()

		action, ok := table.BestAction(empty, []int{0, 1, 2, 3, 4, 5, 6, 7, 8})

		require.True(t, ok)
		assert.Equal(t, 0, action)
	})

	t.Run("Highest value wins", func(t *testing.T) {
		// Given: different values for a few actions
		table := New()
		table.Update(empty, 0, -0.2)
		table.Update(empty, 4, 0.6)
		table.Update(empty, 8, 0.1)

		// When: asking for the best action
		action, ok := table.BestAction(empty, []int{0, 1, 2, 3, 4, 5, 6, 7, 8})

		// Then: the center is chosen
		require.True(t, ok)
		assert.Equal(t, 4, action)
	})

	t.Run("Ties go to the lowest index regardless of order", func(t *testing.T) {
		table := New()
		table.Update(empty, 2, 0.5)
		table.Update(empty, 7, 0.5)

		action, ok := table.BestAction(empty, []int{7, 2, 5})

		require.True(t, ok)
		assert.Equal(t, 2, action)
	})

	t.Run("All negative values still pick the maximum", func(t *testing.T) {
		table := New()
		table.Update(empty, 1, -0.9)
		table.Update(empty, 3, -0.1)
		table.Update(empty, 5, -0.5)

		action, ok := table.BestAction(empty, []int{1, 3, 5})

		require.True(t, ok)
		assert.Equal(t, 3, action)
	})

	t.Run("Completing a row is preferred when it carries the win reward", func(t *testing.T) {
		// Given: X to move on [X,X,_,O,O,_,_,_,_] and a win value on cell 2
		board := entity.Board{
			entity.PlayerX, entity.PlayerX, entity.EmptyCell,
			entity.PlayerO, entity.PlayerO, entity.EmptyCell,
			entity.EmptyCell, entity.EmptyCell, entity.EmptyCell,
		}
		state := entity.Encode(board)
		table := New()
		table.Update(state, 2, 1)
		table.Update(state, 5, 0.3)

		// When: asking for the best action
		action, ok := table.BestAction(state, []int{2, 5, 6, 7, 8})

		// Then: X completes the top row
		require.True(t, ok)
		assert.Equal(t, 2, action)
	})

	t.Run("No legal actions", func(t *testing.T) {
		table := New()

		_, ok := table.BestAction(empty, nil)

		assert.False(t, ok)
	})
}

func TestTable_MaxValue(t *testing.T) {
	table := New()
	table.Update("X        ", 1, 0.3)
	table.Update("X        ", 2, 0.7)

	assert.InDelta(t, 0.7, table.MaxValue("X        ", []int{1, 2, 3}), 0)
	assert.InDelta(t, DefaultValue, table.MaxValue("X        ", nil), 0)
	assert.InDelta(t, DefaultValue, table.MaxValue("O        ", []int{1, 2}), 0)
}

func TestTable_Entries(t *testing.T) {
	// Given: values written out of order
	table := New()
	table.Update("X        ", 3, 0.3)
	table.Update("         ", 8, 0.8)
	table.Update("X        ", 1, 0.1)

	// When: taking a snapshot
	entries := table.Entries()

	// Then: entries are ordered by state then action
	expected := []Entry{
		{State: "         ", Action: 8, Value: 0.8},
		{State: "X        ", Action: 1, Value: 0.1},
		{State: "X        ", Action: 3, Value: 0.3},
	}
	assert.Equal(t, expected, entries)
}
