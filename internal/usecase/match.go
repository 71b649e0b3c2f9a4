package usecase

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Roma10boss/Tic-Tac-Toe-With-AI/internal/apperror"
	"github.com/Roma10boss/Tic-Tac-Toe-With-AI/internal/entity"
	"github.com/Roma10boss/Tic-Tac-Toe-With-AI/internal/tictactoe"
)

type botService interface {
	MakeTurn(game *entity.Game) (int, error)
}

// MatchManager drives one human versus bot match at a time.
type MatchManager struct {
	logger *slog.Logger
	bot    botService

	game *entity.Game
}

func NewMatchManager(logger *slog.Logger, bot botService) *MatchManager {
	return &MatchManager{
		logger: logger,
		bot:    bot,
	}
}

// Start opens a new match. When the bot holds X it moves right away.
func (that *MatchManager) Start(humanMark string) (*entity.Game, error) {
	if !entity.IsMark(humanMark) {
		return nil, fmt.Errorf("%w: %q", tictactoe.ErrInvalidMark, humanMark)
	}

	that.game = entity.NewGame(uuid.NewString(), humanMark)
	that.logger.Info("match started", "method", "Start", "match_id", that.game.ID, "human_mark", humanMark)

	if err := that.botReply(); err != nil {
		return that.game, err
	}

	return that.game, nil
}

// MakeTurn applies the human move and, if the match goes on, the bot reply.
// A rejected move leaves the match unchanged. When the bot reply fails the
// human move stays applied and the match is returned with the error.
func (that *MatchManager) MakeTurn(cell int) (*entity.Game, error) {
	if that.game == nil {
		return nil, apperror.ErrMatchNotStarted
	}

	if err := tictactoe.MakeTurn(that.game, that.game.HumanMark, cell); err != nil {
		return that.game, fmt.Errorf("failed make turn: %w", err)
	}

	if err := that.botReply(); err != nil {
		return that.game, err
	}

	if that.game.IsFinished() {
		that.logger.Info("match finished", "method", "MakeTurn", "match_id", that.game.ID, "status", that.game.Status)
	}

	return that.game, nil
}

// Restart clears the board and keeps the same marks.
func (that *MatchManager) Restart() (*entity.Game, error) {
	if that.game == nil {
		return nil, apperror.ErrMatchNotStarted
	}

	that.game.Reset()
	that.logger.Info("match restarted", "method", "Restart", "match_id", that.game.ID)

	if err := that.botReply(); err != nil {
		return that.game, err
	}

	return that.game, nil
}

func (that *MatchManager) Game() *entity.Game {
	return that.game
}

func (that *MatchManager) botReply() error {
	if !that.game.IsBotTurn() {
		return nil
	}

	cell, err := that.bot.MakeTurn(that.game)
	if err != nil {
		return fmt.Errorf("failed bot turn: %w", err)
	}

	that.logger.Debug("bot moved", "method", "botReply", "match_id", that.game.ID, "cell", cell)

	return nil
}
