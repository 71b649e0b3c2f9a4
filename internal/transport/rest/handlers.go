package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/Roma10boss/Tic-Tac-Toe-With-AI/internal/apperror"
	"github.com/Roma10boss/Tic-Tac-Toe-With-AI/internal/entity"
	"github.com/Roma10boss/Tic-Tac-Toe-With-AI/internal/qtable"
	"github.com/Roma10boss/Tic-Tac-Toe-With-AI/internal/service"
	"github.com/Roma10boss/Tic-Tac-Toe-With-AI/internal/tictactoe"
)

const headerRequestID = "X-Request-ID"

var ErrInvalidBoard = errors.New("invalid board")

type Handlers interface {
	PingHandler(w http.ResponseWriter, _ *http.Request)
	MoveHandler(w http.ResponseWriter, r *http.Request)
}

type moveRequest struct {
	Board [entity.BoardSize]string `json:"board"`
}

type moveResponse struct {
	Action int     `json:"action"`
	Mark   string  `json:"mark"`
	Value  float64 `json:"value"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type handlers struct {
	logger   *slog.Logger
	table    *qtable.Table
	policies map[string]service.Policy
}

// NewHandlers serves moves from a table that is never mutated afterwards, so
// handlers may run concurrently.
func NewHandlers(logger *slog.Logger, table *qtable.Table) Handlers {
	return &handlers{
		logger: logger,
		table:  table,
		policies: map[string]service.Policy{
			entity.PlayerX: service.NewGreedyPolicy(entity.PlayerX, table),
			entity.PlayerO: service.NewGreedyPolicy(entity.PlayerO, table),
		},
	}
}

func (that *handlers) PingHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

// MoveHandler answers with the greedy move for the side to move on the board.
func (that *handlers) MoveHandler(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()
	w.Header().Set(headerRequestID, requestID)

	log := that.logger.With("method", "MoveHandler", "request_id", requestID)

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		that.writeJSON(w, log, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}

	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.writeJSON(w, log, http.StatusBadRequest, errorResponse{Error: "failed to decode request"})
		return
	}

	board, err := parseBoard(req.Board)
	if err != nil {
		that.writeJSON(w, log, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	mark := tictactoe.NextMark(board)

	action, err := that.policies[mark].SelectAction(board)
	switch {
	case errors.Is(err, apperror.ErrGameFinished):
		that.writeJSON(w, log, http.StatusConflict, errorResponse{Error: err.Error()})
		return
	case err != nil:
		log.Error("failed to select move", "error", err)
		that.writeJSON(w, log, http.StatusInternalServerError, errorResponse{Error: "failed to select move"})
		return
	}

	resp := moveResponse{
		Action: action,
		Mark:   mark,
		Value:  that.table.Get(entity.Encode(board), action),
	}

	log.Debug("move selected", "state", string(entity.Encode(board)), "action", action, "mark", mark)
	that.writeJSON(w, log, http.StatusOK, resp)
}

func (that *handlers) writeJSON(w http.ResponseWriter, log *slog.Logger, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error("failed to write response", "error", err)
	}
}

// parseBoard accepts "" or " " for an empty cell and marks in any case.
func parseBoard(cells [entity.BoardSize]string) (entity.Board, error) {
	var board entity.Board

	for i, cell := range cells {
		cell = strings.ToUpper(strings.TrimSpace(cell))
		if cell != entity.EmptyCell && !entity.IsMark(cell) {
			return board, fmt.Errorf("%w: cell %d holds %q", ErrInvalidBoard, i, cells[i])
		}
		board[i] = cell
	}

	diff := board.Count(entity.PlayerX) - board.Count(entity.PlayerO)
	if diff != 0 && diff != 1 {
		return board, fmt.Errorf("%w: X must have as many marks as O or one more", ErrInvalidBoard)
	}

	return board, nil
}
