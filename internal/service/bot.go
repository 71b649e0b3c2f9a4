package service

import (
	"fmt"

	"github.com/Roma10boss/Tic-Tac-Toe-With-AI/internal/entity"
	"github.com/Roma10boss/Tic-Tac-Toe-With-AI/internal/qtable"
	"github.com/Roma10boss/Tic-Tac-Toe-With-AI/internal/tictactoe"
)

type BotService interface {
	MakeTurn(game *entity.Game) (int, error)
}

type botService struct {
	table *qtable.Table
}

func NewBotService(table *qtable.Table) BotService {
	return &botService{
		table: table,
	}
}

// MakeTurn plays the bot's greedy move and returns the chosen cell.
func (that *botService) MakeTurn(game *entity.Game) (int, error) {
	policy := NewGreedyPolicy(game.BotMark, that.table)

	cell, err := policy.SelectAction(game.Board)
	if err != nil {
		return 0, fmt.Errorf("bot failed to select a move: %w", err)
	}

	if err = tictactoe.MakeTurn(game, game.BotMark, cell); err != nil {
		return 0, fmt.Errorf("bot failed to make turn: %w", err)
	}

	return cell, nil
}
