package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/rand"

	"github.com/Roma10boss/Tic-Tac-Toe-With-AI/internal/config"
	"github.com/Roma10boss/Tic-Tac-Toe-With-AI/internal/entity"
	"github.com/Roma10boss/Tic-Tac-Toe-With-AI/internal/qtable"
	"github.com/Roma10boss/Tic-Tac-Toe-With-AI/internal/service"
	"github.com/Roma10boss/Tic-Tac-Toe-With-AI/internal/tictactoe"
)

const (
	rewardWin  = 1.0
	rewardLoss = -1.0
	rewardDraw = 0.0
	rewardStep = 0.0
)

// WindowStats summarizes a block of consecutive episodes.
type WindowStats struct {
	Episode  int     `json:"episode"`
	XWinRate float64 `json:"x_win_rate"`
	OWinRate float64 `json:"o_win_rate"`
	DrawRate float64 `json:"draw_rate"`
	Epsilon  float64 `json:"epsilon"`
}

type Stats struct {
	RunID       string
	Episodes    int
	XWins       int
	OWins       int
	Draws       int
	Epsilon     float64
	States      int
	Entries     int
	Interrupted bool
	Windows     []WindowStats
}

type Trainer struct {
	logger *slog.Logger
	table  *qtable.Table
	conf   config.Train

	schedule *Schedule
	players  map[string]service.Policy
}

// NewTrainer prepares a self-play run over table. Both marks share the table,
// the random source and the exploration schedule.
func NewTrainer(logger *slog.Logger, table *qtable.Table, conf config.Train) (*Trainer, error) {
	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate training config: %w", err)
	}

	schedule, err := NewSchedule(conf.Decay, conf.EpsilonStart, conf.EpsilonEnd, conf.Episodes)
	if err != nil {
		return nil, fmt.Errorf("failed to create schedule: %w", err)
	}

	seed := conf.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewSource(seed))

	return &Trainer{
		logger:   logger,
		table:    table,
		conf:     conf,
		schedule: schedule,
		players: map[string]service.Policy{
			entity.PlayerX: service.NewEpsilonGreedyPolicy(entity.PlayerX, table, rng, schedule),
			entity.PlayerO: service.NewEpsilonGreedyPolicy(entity.PlayerO, table, rng, schedule),
		},
	}, nil
}

// Train plays the configured number of episodes. A canceled context stops the
// run between episodes; the partial stats are returned without error so the
// caller can still persist the table.
func (that *Trainer) Train(ctx context.Context) (*Stats, error) {
	stats := &Stats{RunID: uuid.NewString()}
	log := that.logger.With("method", "Train", "run_id", stats.RunID)

	log.Info("training started",
		"episodes", that.conf.Episodes,
		"alpha", that.conf.Alpha,
		"gamma", that.conf.Gamma,
		"decay", that.schedule.Kind(),
		"table_entries", that.table.Len(),
	)

	var window WindowStats
	windowSize := 0

	for episode := 1; episode <= that.conf.Episodes; episode++ {
		if ctx.Err() != nil {
			stats.Interrupted = true
			log.Warn("training interrupted", "completed", stats.Episodes)
			break
		}

		played, err := that.playEpisode()
		if err != nil {
			return stats, fmt.Errorf("failed to play episode %d: %w", episode, err)
		}

		stats.Episodes++
		windowSize++

		switch played.Winner {
		case entity.PlayerX:
			stats.XWins++
			window.XWinRate++
		case entity.PlayerO:
			stats.OWins++
			window.OWinRate++
		default:
			stats.Draws++
			window.DrawRate++
		}

		that.schedule.Advance()

		if that.conf.ChartWindow > 0 && windowSize == that.conf.ChartWindow {
			stats.Windows = append(stats.Windows, closeWindow(window, windowSize, episode, that.schedule.Epsilon()))
			window, windowSize = WindowStats{}, 0
		}

		if that.conf.LogEvery > 0 && episode%that.conf.LogEvery == 0 {
			log.Info("training progress",
				"episode", episode,
				"epsilon", that.schedule.Epsilon(),
				"x_wins", stats.XWins,
				"o_wins", stats.OWins,
				"draws", stats.Draws,
				"states", that.table.States(),
			)
		}
	}

	if windowSize > 0 && that.conf.ChartWindow > 0 {
		stats.Windows = append(stats.Windows, closeWindow(window, windowSize, stats.Episodes, that.schedule.Epsilon()))
	}

	stats.Epsilon = that.schedule.Epsilon()
	stats.States = that.table.States()
	stats.Entries = that.table.Len()

	log.Info("training finished",
		"completed", stats.Episodes,
		"x_wins", stats.XWins,
		"o_wins", stats.OWins,
		"draws", stats.Draws,
		"epsilon", stats.Epsilon,
		"states", stats.States,
		"interrupted", stats.Interrupted,
	)

	return stats, nil
}

type pendingMove struct {
	state  entity.StateKey
	action int
}

// playEpisode runs one self-play game. A player's move is learned once the
// opponent has replied, toward the state that player has to move in next.
// The final move of each player is learned with the terminal reward.
func (that *Trainer) playEpisode() (entity.Episode, error) {
	var (
		episode entity.Episode
		board   entity.Board
	)

	pending := make(map[string]*pendingMove, 2)
	mark := entity.PlayerX

	for {
		state := entity.Encode(board)

		if last := pending[mark]; last != nil {
			episode.Transitions = append(episode.Transitions, that.learn(entity.Transition{
				Mark:   mark,
				State:  last.state,
				Action: last.action,
				Reward: rewardStep,
				Next:   state,
			}, tictactoe.LegalMoves(board)))
		}

		action, err := that.players[mark].SelectAction(board)
		if err != nil {
			return episode, fmt.Errorf("failed to select action for %s: %w", mark, err)
		}

		next, err := tictactoe.ApplyMove(board, action, mark)
		if err != nil {
			return episode, fmt.Errorf("failed to apply action %d for %s: %w", action, mark, err)
		}

		episode.Moves++
		pending[mark] = &pendingMove{state: state, action: action}
		nextState := entity.Encode(next)

		winner := tictactoe.Winner(next)
		if winner == "" && !tictactoe.IsDraw(next) {
			board = next
			mark = entity.Opponent(mark)
			continue
		}

		own, opponent := rewardDraw, rewardDraw
		if winner != "" {
			own, opponent = rewardWin, rewardLoss
		}

		episode.Winner = winner
		episode.Transitions = append(episode.Transitions, that.learn(entity.Transition{
			Mark:   mark,
			State:  state,
			Action: action,
			Reward: own,
			Next:   nextState,
			Done:   true,
		}, nil))

		if last := pending[entity.Opponent(mark)]; last != nil {
			episode.Transitions = append(episode.Transitions, that.learn(entity.Transition{
				Mark:   entity.Opponent(mark),
				State:  last.state,
				Action: last.action,
				Reward: opponent,
				Next:   nextState,
				Done:   true,
			}, nil))
		}

		return episode, nil
	}
}

// learn applies Q(s,a) += alpha * (r + gamma * max Q(s',a') - Q(s,a)).
func (that *Trainer) learn(transition entity.Transition, legalNext []int) entity.Transition {
	future := 0.0
	if !transition.Done {
		future = that.table.MaxValue(transition.Next, legalNext)
	}

	current := that.table.Get(transition.State, transition.Action)
	target := transition.Reward + that.conf.Gamma*future

	that.table.Update(transition.State, transition.Action, current+that.conf.Alpha*(target-current))

	return transition
}

func closeWindow(window WindowStats, size, episode int, epsilon float64) WindowStats {
	total := float64(size)

	return WindowStats{
		Episode:  episode,
		XWinRate: window.XWinRate / total,
		OWinRate: window.OWinRate / total,
		DrawRate: window.DrawRate / total,
		Epsilon:  epsilon,
	}
}
