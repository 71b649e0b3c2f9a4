package entity

// Transition is one Q-learning update applied during self-play. Reward is
// seen from the point of view of Mark, the player that took Action in State.
type Transition struct {
	Mark   string
	State  StateKey
	Action int
	Reward float64
	Next   StateKey
	Done   bool
}

// Episode is one self-play game in the order its updates were applied.
// Winner is empty for a draw.
type Episode struct {
	Transitions []Transition
	Winner      string
	Moves       int
}
