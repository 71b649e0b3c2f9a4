package main

import (
	"flag"
	"fmt"
	"os"

	app "github.com/Roma10boss/Tic-Tac-Toe-With-AI/internal"
	"github.com/Roma10boss/Tic-Tac-Toe-With-AI/internal/config"
	"github.com/Roma10boss/Tic-Tac-Toe-With-AI/internal/logger"
)

// main - trains the Q-table by self-play and saves it to the configured storage.
func main() {
	defer func() {
		if err := recover(); err != nil {
			fmt.Fprintf(os.Stderr, "recovered from panic: %v\n", err)
			os.Exit(1)
		}
	}()

	configPath := flag.String("config", "config.yml", "path to the config file")
	episodes := flag.Int("episodes", 0, "number of self-play episodes")
	alpha := flag.Float64("alpha", 0, "learning rate")
	gamma := flag.Float64("gamma", 0, "discount factor")
	epsilonStart := flag.Float64("epsilon-start", 0, "initial exploration rate")
	epsilonEnd := flag.Float64("epsilon-end", 0, "final exploration rate")
	decay := flag.String("decay", "", "epsilon decay: exponential or linear")
	seed := flag.Uint64("seed", 0, "random seed, 0 picks one from the clock")
	out := flag.String("out", "", "where to save the table (file path, sqlite path or redis key)")
	chart := flag.String("chart", "", "write an HTML training chart to this path")
	resume := flag.Bool("resume", false, "continue from the stored table")
	flag.Parse()

	conf := config.MustLoad(*configPath)

	// only flags given on the command line override the config file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "episodes":
			conf.Train.Episodes = *episodes
		case "alpha":
			conf.Train.Alpha = *alpha
		case "gamma":
			conf.Train.Gamma = *gamma
		case "epsilon-start":
			conf.Train.EpsilonStart = *epsilonStart
		case "epsilon-end":
			conf.Train.EpsilonEnd = *epsilonEnd
		case "decay":
			conf.Train.Decay = *decay
		case "seed":
			conf.Train.Seed = *seed
		case "out":
			conf.SetTableLocation(*out)
		case "chart":
			conf.Train.ChartPath = *chart
		case "resume":
			conf.Train.Resume = *resume
		}
	})

	log := logger.New(os.Stdout, conf.LogLevel)

	if err := app.RunTraining(log, conf); err != nil {
		panic(fmt.Errorf("training failed: %w", err))
	}
}
