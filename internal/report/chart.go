package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/Roma10boss/Tic-Tac-Toe-With-AI/internal/usecase"
)

var ErrNoData = errors.New("no training windows to plot")

// RenderTrainingChart writes an HTML page with the outcome rates and the
// exploration rate of every training window.
func RenderTrainingChart(w io.Writer, runID string, windows []usecase.WindowStats) error {
	if len(windows) == 0 {
		return ErrNoData
	}

	episodes := make([]string, 0, len(windows))
	xWins := make([]opts.LineData, 0, len(windows))
	oWins := make([]opts.LineData, 0, len(windows))
	draws := make([]opts.LineData, 0, len(windows))
	epsilon := make([]opts.LineData, 0, len(windows))

	for _, window := range windows {
		episodes = append(episodes, strconv.Itoa(window.Episode))
		xWins = append(xWins, opts.LineData{Value: window.XWinRate})
		oWins = append(oWins, opts.LineData{Value: window.OWinRate})
		draws = append(draws, opts.LineData{Value: window.DrawRate})
		epsilon = append(epsilon, opts.LineData{Value: window.Epsilon})
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Self-play outcomes",
			Subtitle: "run " + runID,
		}),
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Q-learning training",
			Theme:     "shine",
		}),
	)

	line.SetXAxis(episodes).
		AddSeries("X wins", xWins).
		AddSeries("O wins", oWins).
		AddSeries("draws", draws).
		AddSeries("epsilon", epsilon)

	page := components.NewPage()
	page.AddCharts(line)

	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}

	return nil
}

// WriteTrainingChart renders the chart into path, creating its directory.
func WriteTrainingChart(path, runID string, windows []usecase.WindowStats) (err error) {
	if err = os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create chart directory for %s: %w", path, err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart %s: %w", path, err)
	}

	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close chart %s: %w", path, closeErr)
		}
	}()

	if err = RenderTrainingChart(file, runID, windows); err != nil {
		return fmt.Errorf("failed to write chart %s: %w", path, err)
	}

	return nil
}
