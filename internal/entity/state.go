package entity

import (
	"errors"
	"fmt"
	"strings"
)

const emptyKeyCell = ' '

var ErrInvalidStateKey = errors.New("invalid state key")

// StateKey is the canonical text form of a Board used to index the Q-table.
// One character per cell: 'X', 'O' or ' ' for an empty cell.
type StateKey string

// Encode turns a board into its StateKey. The key depends only on the cell
// contents, never on whose turn it is.
func Encode(board Board) StateKey {
	var b strings.Builder
	b.Grow(BoardSize)

	for _, cell := range board {
		switch cell {
		case PlayerX:
			b.WriteByte('X')
		case PlayerO:
			b.WriteByte('O')
		default:
			b.WriteByte(emptyKeyCell)
		}
	}

	return StateKey(b.String())
}

// Board decodes the key back into a board.
func (that StateKey) Board() (Board, error) {
	var board Board

	if len(that) != BoardSize {
		return board, fmt.Errorf("%w: %q has length %d", ErrInvalidStateKey, string(that), len(that))
	}

	for i := 0; i < BoardSize; i++ {
		switch that[i] {
		case 'X':
			board[i] = PlayerX
		case 'O':
			board[i] = PlayerO
		case emptyKeyCell:
			board[i] = EmptyCell
		default:
			return board, fmt.Errorf("%w: %q has unexpected cell %q", ErrInvalidStateKey, string(that), that[i])
		}
	}

	return board, nil
}
