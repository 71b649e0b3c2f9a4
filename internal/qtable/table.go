// Package qtable holds the in-memory Q-value store shared by training and play.
//
// A Table is not safe for concurrent mutation. Training owns it as the single
// writer; during play it is only read.
package qtable

import (
	"sort"

	"github.com/Roma10boss/Tic-Tac-Toe-With-AI/internal/entity"
)

// DefaultValue is returned for (state, action) pairs that were never updated.
const DefaultValue = 0.0

// Entry is one stored Q-value.
type Entry struct {
	State  entity.StateKey
	Action int
	Value  float64
}

type Table struct {
	values map[entity.StateKey]map[int]float64
	size   int
}

func New() *Table {
	return &Table{
		values: make(map[entity.StateKey]map[int]float64),
	}
}

// Get returns the stored value or DefaultValue.
func (that *Table) Get(state entity.StateKey, action int) float64 {
	if actions, ok := that.values[state]; ok {
		if value, ok := actions[action]; ok {
			return value
		}
	}

	return DefaultValue
}

// Has reports whether the pair was ever stored.
func (that *Table) Has(state entity.StateKey, action int) bool {
	_, ok := that.values[state][action]
	return ok
}

// Update overwrites or inserts the value for the pair.
func (that *Table) Update(state entity.StateKey, action int, value float64) {
	actions, ok := that.values[state]
	if !ok {
		actions = make(map[int]float64)
		that.values[state] = actions
	}

	if _, exists := actions[action]; !exists {
		that.size++
	}

	actions[action] = value
}

// BestAction returns the legal action with the highest value. Ties go to the
// lowest action index, so an unseen state yields its lowest legal action.
// The boolean is false only when legal is empty.
func (that *Table) BestAction(state entity.StateKey, legal []int) (int, bool) {
	if len(legal) == 0 {
		return 0, false
	}

	best := legal[0]
	bestValue := that.Get(state, best)

	for _, action := range legal[1:] {
		value := that.Get(state, action)
		if value > bestValue || (value == bestValue && action < best) {
			best = action
			bestValue = value
		}
	}

	return best, true
}

// MaxValue returns the highest value among legal actions, or DefaultValue when
// there are none.
func (that *Table) MaxValue(state entity.StateKey, legal []int) float64 {
	action, ok := that.BestAction(state, legal)
	if !ok {
		return DefaultValue
	}

	return that.Get(state, action)
}

// Len returns the number of stored (state, action) pairs.
func (that *Table) Len() int {
	return that.size
}

// States returns the number of distinct states with at least one value.
func (that *Table) States() int {
	return len(that.values)
}

// Entries returns a snapshot ordered by state then action.
func (that *Table) Entries() []Entry {
	entries := make([]Entry, 0, that.size)

	for state, actions := range that.values {
		for action, value := range actions {
			entries = append(entries, Entry{State: state, Action: action, Value: value})
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].State != entries[j].State {
			return entries[i].State < entries[j].State
		}
		return entries[i].Action < entries[j].Action
	})

	return entries
}
