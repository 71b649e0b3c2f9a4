package entity

import (
	"errors"
	"fmt"
)

const (
	StatusInProgress = "in_progress"
	StatusXWins      = "x_wins"
	StatusOWins      = "o_wins"
	StatusDraw       = "draw"

	PlayerX = "X"
	PlayerO = "O"

	EmptyCell = ""
)

const (
	ResultWin  = "win"
	ResultLose = "lose"
	ResultDraw = "draw"
)

const BoardSize = 9

var (
	ErrUnknownGameStatus = errors.New("unknown game status")

	WinCombos = [][3]int{
		{0, 1, 2},
		{3, 4, 5},
		{6, 7, 8},
		{0, 3, 6},
		{1, 4, 7},
		{2, 5, 8},
		{0, 4, 8},
		{2, 4, 6},
	}
)

// Board is the 3x3 grid in row-major order.
type Board [BoardSize]string

// Count returns how many cells hold the given mark.
func (that Board) Count(mark string) int {
	n := 0
	for _, cell := range that {
		if cell == mark {
			n++
		}
	}
	return n
}

// Game is a single human versus bot match.
type Game struct {
	ID        string `json:"id"`
	Board     Board  `json:"board"`
	Turn      string `json:"player_turn"`
	Winner    string `json:"winner"`
	Status    string `json:"status"`
	HumanMark string `json:"human_mark"`
	BotMark   string `json:"bot_mark"`
}

func NewGame(id, humanMark string) *Game {
	return &Game{
		ID:        id,
		Board:     Board{},
		Turn:      PlayerX,
		Status:    StatusInProgress,
		HumanMark: humanMark,
		BotMark:   Opponent(humanMark),
	}
}

// Reset puts the match back to an empty board with X to move.
func (that *Game) Reset() {
	that.Board = Board{}
	that.Turn = PlayerX
	that.Winner = ""
	that.Status = StatusInProgress
}

func (that *Game) IsFinished() bool {
	switch that.Status {
	case StatusXWins, StatusOWins, StatusDraw:
		return true
	default:
		return false
	}
}

func (that *Game) IsInProgress() bool {
	return that.Status == StatusInProgress
}

func (that *Game) IsBotTurn() bool {
	return that.IsInProgress() && that.Turn == that.BotMark
}

// Result reports the finished match from the point of view of mark.
func (that *Game) Result(mark string) (string, error) {
	switch that.Status {
	case StatusDraw:
		return ResultDraw, nil
	case StatusXWins, StatusOWins:
		if that.Winner == mark {
			return ResultWin, nil
		}
		return ResultLose, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownGameStatus, that.Status)
	}
}

// Opponent returns the other mark.
func Opponent(mark string) string {
	if mark == PlayerX {
		return PlayerO
	}
	return PlayerX
}

func IsMark(mark string) bool {
	return mark == PlayerX || mark == PlayerO
}

// WinStatus maps a winning mark to the terminal status it produces.
func WinStatus(mark string) string {
	if mark == PlayerX {
		return StatusXWins
	}
	return StatusOWins
}
