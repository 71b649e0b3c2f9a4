package apperror

import "errors"

var (
	ErrInvalidMove   = errors.New("invalid move")
	ErrGameFinished  = errors.New("game is already finished")
	ErrNotYourTurn   = errors.New("it's not your turn")
	ErrNoLegalMoves  = errors.New("no legal moves")
	ErrCorruptTable  = errors.New("q-table is corrupt")
	ErrTableNotFound = errors.New("q-table not found")

	ErrMatchNotStarted = errors.New("match is not started")
)
