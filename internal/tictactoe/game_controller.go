package tictactoe

import (
	"fmt"

	"github.com/Roma10boss/Tic-Tac-Toe-With-AI/internal/apperror"
	"github.com/Roma10boss/Tic-Tac-Toe-With-AI/internal/entity"
)

// MakeTurn applies a move to the match and advances its state machine.
// On error the match is left untouched.
func MakeTurn(game *entity.Game, player string, cell int) error {
	if game.IsFinished() {
		return apperror.ErrGameFinished
	}

	if game.Turn != player {
		return apperror.ErrNotYourTurn
	}

	board, err := ApplyMove(game.Board, cell, player)
	if err != nil {
		return fmt.Errorf("invalid turn: %w", err)
	}

	game.Board = board
	updateGameStatus(game, player)

	return nil
}

// updateGameStatus - checks the game status after a move.
func updateGameStatus(game *entity.Game, player string) {
	if winner := Winner(game.Board); winner != "" {
		game.Winner = winner
		game.Status = entity.WinStatus(winner)
		game.Turn = ""
		return
	}

	if IsDraw(game.Board) {
		game.Status = entity.StatusDraw
		game.Turn = ""
		return
	}

	game.Status = entity.StatusInProgress
	game.Turn = ToggleMark(player)
}
