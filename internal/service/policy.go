package service

import (
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/Roma10boss/Tic-Tac-Toe-With-AI/internal/apperror"
	"github.com/Roma10boss/Tic-Tac-Toe-With-AI/internal/entity"
	"github.com/Roma10boss/Tic-Tac-Toe-With-AI/internal/qtable"
	"github.com/Roma10boss/Tic-Tac-Toe-With-AI/internal/tictactoe"
)

// Policy picks a move for the mark it controls. Implementations keep no
// per-game state; everything they know comes from the board and the table.
type Policy interface {
	Mark() string
	SelectAction(board entity.Board) (int, error)
}

type exploration interface {
	Epsilon() float64
}

type greedyPolicy struct {
	mark  string
	table *qtable.Table
}

// NewGreedyPolicy returns the inference policy: the legal move with the highest
// Q-value, ties and unseen states going to the lowest cell index.
func NewGreedyPolicy(mark string, table *qtable.Table) Policy {
	return &greedyPolicy{
		mark:  mark,
		table: table,
	}
}

func (that *greedyPolicy) Mark() string {
	return that.mark
}

func (that *greedyPolicy) SelectAction(board entity.Board) (int, error) {
	legal, err := movesFor(board, that.mark)
	if err != nil {
		return 0, err
	}

	action, _ := that.table.BestAction(entity.Encode(board), legal)

	return action, nil
}

type epsilonGreedyPolicy struct {
	mark     string
	table    *qtable.Table
	rng      *rand.Rand
	schedule exploration
}

// NewEpsilonGreedyPolicy returns the training policy: a uniformly random legal
// move with probability schedule.Epsilon(), the greedy move otherwise.
func NewEpsilonGreedyPolicy(mark string, table *qtable.Table, rng *rand.Rand, schedule exploration) Policy {
	return &epsilonGreedyPolicy{
		mark:     mark,
		table:    table,
		rng:      rng,
		schedule: schedule,
	}
}

func (that *epsilonGreedyPolicy) Mark() string {
	return that.mark
}

func (that *epsilonGreedyPolicy) SelectAction(board entity.Board) (int, error) {
	legal, err := movesFor(board, that.mark)
	if err != nil {
		return 0, err
	}

	if that.rng.Float64() < that.schedule.Epsilon() {
		return legal[that.rng.Intn(len(legal))], nil
	}

	action, _ := that.table.BestAction(entity.Encode(board), legal)

	return action, nil
}

func movesFor(board entity.Board, mark string) ([]int, error) {
	if tictactoe.IsTerminal(board) {
		return nil, apperror.ErrGameFinished
	}

	if next := tictactoe.NextMark(board); next != mark {
		return nil, fmt.Errorf("%w: %s to move, policy plays %s", apperror.ErrNotYourTurn, next, mark)
	}

	legal := tictactoe.LegalMoves(board)
	if len(legal) == 0 {
		return nil, apperror.ErrNoLegalMoves
	}

	return legal, nil
}
