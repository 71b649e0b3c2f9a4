package tictactoe

import (
	"errors"
	"fmt"

	"github.com/Roma10boss/Tic-Tac-Toe-With-AI/internal/apperror"
	"github.com/Roma10boss/Tic-Tac-Toe-With-AI/internal/entity"
)

var (
	ErrCellOccupied = errors.New("cell is already occupied")
	ErrInvalidCell  = errors.New("invalid cell index")
	ErrInvalidMark  = errors.New("invalid mark")
)

// LegalMoves returns the indices of all empty cells in ascending order.
func LegalMoves(board entity.Board) []int {
	moves := make([]int, 0, len(board))
	for i, cell := range board {
		if cell == entity.EmptyCell {
			moves = append(moves, i)
		}
	}
	return moves
}

// ApplyMove returns a copy of board with mark placed on cell.
// The given board is never modified.
func ApplyMove(board entity.Board, cell int, mark string) (entity.Board, error) {
	if err := validateMove(board, cell, mark); err != nil {
		return board, fmt.Errorf("%w: %w", apperror.ErrInvalidMove, err)
	}

	next := board
	next[cell] = mark

	return next, nil
}

// validateMove - checks if the move is valid.
func validateMove(board entity.Board, cell int, mark string) error {
	if cell < 0 || cell >= len(board) {
		return fmt.Errorf("%w: cell %d", ErrInvalidCell, cell)
	}

	if !entity.IsMark(mark) {
		return fmt.Errorf("%w: %q", ErrInvalidMark, mark)
	}

	if board[cell] != entity.EmptyCell {
		return fmt.Errorf("%w: cell %d", ErrCellOccupied, cell)
	}

	return nil
}

// Winner returns the mark that owns a full line, or an empty string.
func Winner(board entity.Board) string {
	for _, combo := range entity.WinCombos {
		a, b, c := board[combo[0]], board[combo[1]], board[combo[2]]
		if a != entity.EmptyCell && a == b && b == c {
			return a
		}
	}

	return ""
}

// IsDraw reports a full board without a winner.
func IsDraw(board entity.Board) bool {
	for _, cell := range board {
		if cell == entity.EmptyCell {
			return false
		}
	}

	return Winner(board) == ""
}

func IsTerminal(board entity.Board) bool {
	return Winner(board) != "" || IsDraw(board)
}

// NextMark returns the mark to move. X always opens, so X moves whenever
// both marks have been played the same number of times.
func NextMark(board entity.Board) string {
	if board.Count(entity.PlayerX) > board.Count(entity.PlayerO) {
		return entity.PlayerO
	}
	return entity.PlayerX
}

func ToggleMark(currentMark string) string {
	return entity.Opponent(currentMark)
}
