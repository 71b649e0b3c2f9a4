package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/logrusorgru/aurora"

	"github.com/Roma10boss/Tic-Tac-Toe-With-AI/internal/apperror"
	"github.com/Roma10boss/Tic-Tac-Toe-With-AI/internal/entity"
)

const (
	commandQuit    = "q"
	commandRestart = "r"
)

type matchManager interface {
	Start(humanMark string) (*entity.Game, error)
	MakeTurn(cell int) (*entity.Game, error)
	Restart() (*entity.Game, error)
}

// Console plays matches over a line based terminal.
type Console struct {
	logger  *slog.Logger
	manager matchManager

	in     *bufio.Scanner
	out    io.Writer
	colors aurora.Aurora

	zeroBased bool
}

func NewConsole(logger *slog.Logger, manager matchManager, in io.Reader, out io.Writer, zeroBased, colored bool) *Console {
	return &Console{
		logger:    logger,
		manager:   manager,
		in:        bufio.NewScanner(in),
		out:       out,
		colors:    aurora.NewAurora(colored),
		zeroBased: zeroBased,
	}
}

// Run plays until the user quits, the input ends or ctx is canceled.
func (that *Console) Run(ctx context.Context, humanMark string) error {
	log := that.logger.With("method", "Run")

	game, err := that.manager.Start(humanMark)
	if err != nil {
		return fmt.Errorf("failed to start match: %w", err)
	}

	that.printf("You play %s. %s\n", that.mark(game.HumanMark), that.help())
	that.render(game)

	stop := make(chan struct{})
	defer close(stop)

	lines, readErr := that.readLines(stop)

	for {
		that.prompt(game)

		var line string
		select {
		case <-ctx.Done():
			that.printf("\nInterrupted.\n")
			log.Info("play interrupted")
			return nil
		case next, ok := <-lines:
			if !ok {
				if err = <-readErr; err != nil {
					return fmt.Errorf("failed to read input: %w", err)
				}
				return nil
			}
			line = next
		}

		input := strings.ToLower(strings.TrimSpace(line))

		switch input {
		case "":
			continue
		case commandQuit:
			that.printf("Bye.\n")
			return nil
		case commandRestart:
			if game, err = that.manager.Restart(); err != nil {
				return fmt.Errorf("failed to restart match: %w", err)
			}
			that.render(game)
			continue
		}

		cell, ok := that.parseCell(input)
		if !ok {
			that.printf("%s\n", that.help())
			continue
		}

		next, err := that.manager.MakeTurn(cell)
		switch {
		case errors.Is(err, apperror.ErrInvalidMove):
			that.printf("%s\n", that.colors.Yellow("That cell is not available, try again."))
			continue
		case errors.Is(err, apperror.ErrGameFinished):
			that.printf("The match is over. %s\n", that.help())
			continue
		case err != nil:
			return fmt.Errorf("failed to make turn: %w", err)
		}

		game = next
		that.render(game)

		if game.IsFinished() {
			that.announce(game)
			log.Debug("match finished", "status", game.Status)
		}
	}
}

// readLines feeds input lines to the play loop so it can also wait on ctx.
// lines is closed at end of input, after the scanner error is sent.
func (that *Console) readLines(stop <-chan struct{}) (<-chan string, <-chan error) {
	lines := make(chan string)
	readErr := make(chan error, 1)

	go func() {
		defer close(lines)

		for that.in.Scan() {
			select {
			case lines <- that.in.Text():
			case <-stop:
				return
			}
		}

		readErr <- that.in.Err()
	}()

	return lines, readErr
}

func (that *Console) parseCell(input string) (int, bool) {
	n, err := strconv.Atoi(input)
	if err != nil {
		return 0, false
	}

	if !that.zeroBased {
		n--
	}

	return n, true
}

func (that *Console) help() string {
	first, last := 1, entity.BoardSize
	if that.zeroBased {
		first, last = 0, entity.BoardSize-1
	}

	return fmt.Sprintf("Enter a cell %d-%d, %s to restart or %s to quit.", first, last, commandRestart, commandQuit)
}

func (that *Console) prompt(game *entity.Game) {
	if game.IsFinished() {
		that.printf("Press %s to play again or %s to quit: ", commandRestart, commandQuit)
		return
	}

	that.printf("Your move: ")
}

func (that *Console) announce(game *entity.Game) {
	result, err := game.Result(game.HumanMark)
	if err != nil {
		that.logger.Error("failed to read match result", "error", err)
		return
	}

	switch result {
	case entity.ResultWin:
		that.printf("%s\n", that.colors.Green("You win!").Bold())
	case entity.ResultLose:
		that.printf("%s\n", that.colors.Red("You lose!").Bold())
	default:
		that.printf("%s\n", that.colors.Cyan("It's a draw!").Bold())
	}
}

func (that *Console) render(game *entity.Game) {
	var b strings.Builder

	b.WriteString("\n")
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			cell := row*3 + col

			b.WriteString(" ")
			b.WriteString(that.cell(game.Board, cell))
			b.WriteString(" ")

			if col < 2 {
				b.WriteString("|")
			}
		}

		b.WriteString("\n")
		if row < 2 {
			b.WriteString("---+---+---\n")
		}
	}
	b.WriteString("\n")

	that.printf("%s", b.String())
}

func (that *Console) cell(board entity.Board, cell int) string {
	if board[cell] != entity.EmptyCell {
		return that.mark(board[cell])
	}

	label := cell
	if !that.zeroBased {
		label++
	}

	return that.colors.Gray(12, strconv.Itoa(label)).String()
}

func (that *Console) mark(mark string) string {
	if mark == entity.PlayerX {
		return that.colors.Red(mark).Bold().String()
	}

	return that.colors.Blue(mark).Bold().String()
}

func (that *Console) printf(format string, args ...any) {
	if _, err := fmt.Fprintf(that.out, format, args...); err != nil {
		that.logger.Error("failed to write output", "error", err)
	}
}
