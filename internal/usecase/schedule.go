package usecase

import (
	"fmt"
	"math"

	"github.com/Roma10boss/Tic-Tac-Toe-With-AI/internal/config"
)

// Schedule is the per-episode exploration rate. It starts at start and reaches
// end after the configured number of episodes, never going below end.
type Schedule struct {
	kind     string
	start    float64
	end      float64
	episodes int

	epsilon float64
	decay   float64
	step    int
}

func NewSchedule(kind string, start, end float64, episodes int) (*Schedule, error) {
	if kind != config.DecayExponential && kind != config.DecayLinear {
		return nil, fmt.Errorf("%w: unknown decay %q", config.ErrInvalidConfig, kind)
	}

	if episodes <= 0 {
		return nil, fmt.Errorf("%w: episodes must be positive, got %d", config.ErrInvalidConfig, episodes)
	}

	schedule := &Schedule{
		kind:     kind,
		start:    start,
		end:      end,
		episodes: episodes,
		epsilon:  start,
	}

	// (end/start)^(1/N) is undefined for a zero bound; fall back to a straight line.
	if kind == config.DecayExponential && (start <= 0 || end <= 0) {
		schedule.kind = config.DecayLinear
	}

	if schedule.kind == config.DecayExponential {
		schedule.decay = math.Pow(end/start, 1/float64(episodes))
	}

	return schedule, nil
}

func (that *Schedule) Epsilon() float64 {
	return that.epsilon
}

func (that *Schedule) Kind() string {
	return that.kind
}

// Advance moves the schedule one episode forward.
func (that *Schedule) Advance() {
	that.step++

	switch that.kind {
	case config.DecayExponential:
		that.epsilon = math.Max(that.end, that.epsilon*that.decay)
	default:
		progress := math.Min(1, float64(that.step)/float64(that.episodes))
		that.epsilon = math.Max(that.end, that.start-(that.start-that.end)*progress)
	}
}
