package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/Roma10boss/Tic-Tac-Toe-With-AI/internal/apperror"
	"github.com/Roma10boss/Tic-Tac-Toe-With-AI/internal/entity"
	"github.com/Roma10boss/Tic-Tac-Toe-With-AI/internal/qtable"
)

const tableFileMode = 0o644

// fileTable stores the table as JSON: {"<state>": {"<action>": value}}.
type fileTable struct {
	path string
}

func NewFileTableRepository(path string) TableRepository {
	return &fileTable{
		path: path,
	}
}

func (that *fileTable) Location() string {
	return that.path
}

func (that *fileTable) Load(_ context.Context) (*qtable.Table, error) {
	data, err := os.ReadFile(that.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", apperror.ErrTableNotFound, that.path)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read q-table %s: %w", that.path, err)
	}

	// pointers so that a JSON null is told apart from a stored 0
	var raw map[string]map[string]*float64
	if err = json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", apperror.ErrCorruptTable, that.path, err)
	}

	if raw == nil {
		return nil, fmt.Errorf("%w: %s: null table", apperror.ErrCorruptTable, that.path)
	}

	table := qtable.New()
	for state, actions := range raw {
		if actions == nil {
			return nil, fmt.Errorf("%w: %s: null actions for state %q", apperror.ErrCorruptTable, that.path, state)
		}

		for actionStr, value := range actions {
			action, err := strconv.Atoi(actionStr)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: action %q is not a number", apperror.ErrCorruptTable, that.path, actionStr)
			}

			if value == nil {
				return nil, fmt.Errorf("%w: %s: null value for state %q action %d", apperror.ErrCorruptTable, that.path, state, action)
			}

			if err = validateEntry(entity.StateKey(state), action, *value); err != nil {
				return nil, fmt.Errorf("%s: %w", that.path, err)
			}

			table.Update(entity.StateKey(state), action, *value)
		}
	}

	return table, nil
}

// Save writes to a temporary file next to the target and renames it, so a
// failed save never leaves a half-written table behind.
func (that *fileTable) Save(_ context.Context, table *qtable.Table) error {
	raw := make(map[string]map[string]float64, table.States())
	for _, entry := range table.Entries() {
		state := string(entry.State)
		if _, ok := raw[state]; !ok {
			raw[state] = make(map[string]float64)
		}
		raw[state][strconv.Itoa(entry.Action)] = entry.Value
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("could not marshal q-table: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(that.path), ".qtable-*.json")
	if err != nil {
		return fmt.Errorf("failed to save q-table %s: %w", that.path, err)
	}

	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to save q-table %s: %w", that.path, err)
	}

	if err = tmp.Chmod(tableFileMode); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to save q-table %s: %w", that.path, err)
	}

	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to save q-table %s: %w", that.path, err)
	}

	if err = os.Rename(tmp.Name(), that.path); err != nil {
		return fmt.Errorf("failed to save q-table %s: %w", that.path, err)
	}

	return nil
}
