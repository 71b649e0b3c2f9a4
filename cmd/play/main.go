package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	app "github.com/Roma10boss/Tic-Tac-Toe-With-AI/internal"
	"github.com/Roma10boss/Tic-Tac-Toe-With-AI/internal/config"
	"github.com/Roma10boss/Tic-Tac-Toe-With-AI/internal/logger"
)

// main - plays against the trained table in the terminal.
func main() {
	defer func() {
		if err := recover(); err != nil {
			fmt.Fprintf(os.Stderr, "recovered from panic: %v\n", err)
			os.Exit(1)
		}
	}()

	configPath := flag.String("config", "config.yml", "path to the config file")
	table := flag.String("table", "", "table to load (file path, sqlite path or redis key)")
	mark := flag.String("mark", "", "your mark: X or O")
	coldStart := flag.Bool("cold-start", false, "play with an empty table when none is stored")
	zeroBased := flag.Bool("zero", false, "number cells 0-8 instead of 1-9")
	noColor := flag.Bool("no-color", false, "disable colored output")
	flag.Parse()

	conf := config.MustLoad(*configPath)

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "table":
			conf.SetTableLocation(*table)
		case "mark":
			conf.Play.HumanMark = *mark
		case "cold-start":
			conf.Play.RequireTable = !*coldStart
		case "zero":
			conf.Play.ZeroBased = *zeroBased
		case "no-color":
			conf.Play.Colors = !*noColor
		}
	})

	// the board owns stdout
	log := logger.New(os.Stderr, conf.LogLevel)

	if err := app.RunPlay(log, conf, os.Stdin, os.Stdout); err != nil {
		if errors.Is(err, app.ErrTableRequired) {
			fmt.Fprintf(os.Stderr, "%v\nrun the train command first or start with -cold-start\n", err)
			os.Exit(1)
		}
		panic(fmt.Errorf("play failed: %w", err))
	}
}
