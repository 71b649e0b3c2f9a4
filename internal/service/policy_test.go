package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"github.com/Roma10boss/Tic-Tac-Toe-With-AI/internal/apperror"
	"github.com/Roma10boss/Tic-Tac-Toe-With-AI/internal/entity"
	"github.com/Roma10boss/Tic-Tac-Toe-With-AI/internal/qtable"
)

const (
	x = entity.PlayerX
	o = entity.PlayerO
	e = entity.EmptyCell
)

type fixedEpsilon float64

func (that fixedEpsilon) Epsilon() float64 {
	return float64(that)
}

func TestGreedyPolicy_SelectAction(t *testing.T) {
	t.Run("Unseen state falls back to the lowest legal cell", func(t *testing.T) {
		// Given: an empty table and a board where cells 0 and 1 are taken
		policy := NewGreedyPolicy(x, qtable.New())
		board := entity.Board{x, o, e, e, e, e, e, e, e}

		// When: the policy picks a move
		action, err := policy.SelectAction(board)

		// Then: the first empty cell is chosen
		require.NoError(t, err)
		assert.Equal(t, 2, action)
	})

	t.Run("Fresh table on the empty board picks 0", func(t *testing.T) {
		action, err := NewGreedyPolicy(x, qtable.New()).SelectAction(entity.Board{})

		require.NoError(t, err)
		assert.Equal(t, 0, action)
	})

	t.Run("X completes the top row", func(t *testing.T) {
		// Given: the win reward stored on cell 2
		board := entity.Board{x, x, e, o, o, e, e, e, e}
		table := qtable.New()
		table.Update(entity.Encode(board), 2, 1)
		table.Update(entity.Encode(board), 5, 0.2)

		// When: the X policy picks a move
		action, err := NewGreedyPolicy(x, table).SelectAction(board)

		// Then: it plays 2
		require.NoError(t, err)
		assert.Equal(t, 2, action)
	})

	t.Run("Out of turn", func(t *testing.T) {
		_, err := NewGreedyPolicy(o, qtable.New()).SelectAction(entity.Board{})

		assert.ErrorIs(t, err, apperror.ErrNotYourTurn)
	})

	t.Run("Finished board", func(t *testing.T) {
		board := entity.Board{x, x, x, o, o, e, e, e, e}

		_, err := NewGreedyPolicy(o, qtable.New()).SelectAction(board)

		assert.ErrorIs(t, err, apperror.ErrGameFinished)
	})
}

func TestEpsilonGreedyPolicy_SelectAction(t *testing.T) {
	board := entity.Board{x, e, e, e, o, e, e, e, e}
	state := entity.Encode(board)

	table := qtable.New()
	table.Update(state, 8, 0.9)

	t.Run("Zero epsilon always exploits", func(t *testing.T) {
		policy := NewEpsilonGreedyPolicy(x, table, rand.New(rand.NewSource(1)), fixedEpsilon(0))

		for range 50 {
			action, err := policy.SelectAction(board)
			require.NoError(t, err)
			assert.Equal(t, 8, action)
		}
	})

	t.Run("Full epsilon explores every legal move", func(t *testing.T) {
		policy := NewEpsilonGreedyPolicy(x, table, rand.New(rand.NewSource(7)), fixedEpsilon(1))

		seen := make(map[int]int)
		for range 2000 {
			action, err := policy.SelectAction(board)
			require.NoError(t, err)
			require.Contains(t, []int{1, 2, 3, 5, 6, 7, 8}, action)
			seen[action]++
		}

		assert.Len(t, seen, 7)
	})

	t.Run("Same seed gives the same moves", func(t *testing.T) {
		first := NewEpsilonGreedyPolicy(x, table, rand.New(rand.NewSource(3)), fixedEpsilon(0.5))
		second := NewEpsilonGreedyPolicy(x, table, rand.New(rand.NewSource(3)), fixedEpsilon(0.5))

		for range 100 {
			a, err := first.SelectAction(board)
			require.NoError(t, err)
			b, err := second.SelectAction(board)
			require.NoError(t, err)
			require.Equal(t, a, b)
		}
	})

	t.Run("Mark is reported", func(t *testing.T) {
		policy := NewEpsilonGreedyPolicy(o, table, rand.New(rand.NewSource(1)), fixedEpsilon(0))

		assert.Equal(t, o, policy.Mark())
	})
}
