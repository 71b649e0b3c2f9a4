package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGame(t *testing.T) {
	// When: a match is created for a human playing O
	game := NewGame("123", PlayerO)

	// Then: X opens, the bot holds X and the board is empty
	expectedGame := &Game{
		ID:        "123",
		Board:     Board{},
		Turn:      PlayerX,
		Status:    StatusInProgress,
		HumanMark: PlayerO,
		BotMark:   PlayerX,
	}

	require.Equal(t, expectedGame, game)
	assert.True(t, game.IsBotTurn())
}

func TestGame_Reset(t *testing.T) {
	// Given: a finished match
	game := NewGame("123", PlayerX)
	game.Board = Board{PlayerX, PlayerX, PlayerX, PlayerO, PlayerO, EmptyCell, EmptyCell, EmptyCell, EmptyCell}
	game.Status = StatusXWins
	game.Winner = PlayerX
	game.Turn = ""

	// When: the match is reset
	game.Reset()

	// Then: it is back to the initial state with the same marks
	assert.Equal(t, Board{}, game.Board)
	assert.Equal(t, StatusInProgress, game.Status)
	assert.Equal(t, PlayerX, game.Turn)
	assert.Empty(t, game.Winner)
	assert.Equal(t, PlayerX, game.HumanMark)
}

func TestGame_Result(t *testing.T) {
	t.Run("Winner sees a win, loser sees a loss", func(t *testing.T) {
		game := &Game{Status: StatusOWins, Winner: PlayerO}

		result, err := game.Result(PlayerO)
		require.NoError(t, err)
		assert.Equal(t, ResultWin, result)

		result, err = game.Result(PlayerX)
		require.NoError(t, err)
		assert.Equal(t, ResultLose, result)
	})

	t.Run("Draw", func(t *testing.T) {
		game := &Game{Status: StatusDraw}

		result, err := game.Result(PlayerX)

		require.NoError(t, err)
		assert.Equal(t, ResultDraw, result)
	})

	t.Run("Returns error while in progress", func(t *testing.T) {
		game := &Game{Status: StatusInProgress}

		_, err := game.Result(PlayerX)

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnknownGameStatus)
	})
}

func TestOpponent(t *testing.T) {
	assert.Equal(t, PlayerO, Opponent(PlayerX))
	assert.Equal(t, PlayerX, Opponent(PlayerO))
}
