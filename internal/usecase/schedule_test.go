package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Roma10boss/Tic-Tac-Toe-With-AI/internal/config"
)

func TestSchedule_Advance(t *testing.T) {
	t.Run("Exponential decay reaches the end value", func(t *testing.T) {
		// Given: the default schedule shortened to 100 episodes
		schedule, err := NewSchedule(config.DecayExponential, 1.0, 0.01, 100)
		require.NoError(t, err)

		// When: every episode is played
		previous := schedule.Epsilon()
		for range 100 {
			schedule.Advance()
			assert.Less(t, schedule.Epsilon(), previous)
			previous = schedule.Epsilon()
		}

		// Then: epsilon ends at the floor
		assert.InDelta(t, 0.01, schedule.Epsilon(), 1e-9)
	})

	t.Run("Exponential decay never drops below the floor", func(t *testing.T) {
		schedule, err := NewSchedule(config.DecayExponential, 1.0, 0.1, 10)
		require.NoError(t, err)

		for range 50 {
			schedule.Advance()
		}

		assert.GreaterOrEqual(t, schedule.Epsilon(), 0.1)
		assert.InDelta(t, 0.1, schedule.Epsilon(), 1e-9)
	})

	t.Run("Linear decay is halfway after half the episodes", func(t *testing.T) {
		schedule, err := NewSchedule(config.DecayLinear, 1.0, 0.0, 10)
		require.NoError(t, err)

		for range 5 {
			schedule.Advance()
		}
		assert.InDelta(t, 0.5, schedule.Epsilon(), 1e-9)

		for range 10 {
			schedule.Advance()
		}
		assert.InDelta(t, 0.0, schedule.Epsilon(), 1e-9)
	})

	t.Run("Exponential with a zero floor decays linearly", func(t *testing.T) {
		schedule, err := NewSchedule(config.DecayExponential, 1.0, 0.0, 4)
		require.NoError(t, err)

		schedule.Advance()

		assert.Equal(t, config.DecayLinear, schedule.Kind())
		assert.InDelta(t, 0.75, schedule.Epsilon(), 1e-9)
	})

	t.Run("Constant epsilon", func(t *testing.T) {
		schedule, err := NewSchedule(config.DecayExponential, 0.3, 0.3, 10)
		require.NoError(t, err)

		schedule.Advance()

		assert.InDelta(t, 0.3, schedule.Epsilon(), 1e-9)
	})
}

func TestNewSchedule_Invalid(t *testing.T) {
	_, err := NewSchedule("cosine", 1, 0, 10)
	require.ErrorIs(t, err, config.ErrInvalidConfig)

	_, err = NewSchedule(config.DecayLinear, 1, 0, 0)
	require.ErrorIs(t, err, config.ErrInvalidConfig)
}
