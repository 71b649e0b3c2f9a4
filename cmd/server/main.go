package main

import (
	"flag"
	"fmt"
	"os"

	app "github.com/Roma10boss/Tic-Tac-Toe-With-AI/internal"
	"github.com/Roma10boss/Tic-Tac-Toe-With-AI/internal/config"
	"github.com/Roma10boss/Tic-Tac-Toe-With-AI/internal/logger"
)

// main - serves the trained table over HTTP.
func main() {
	defer func() {
		if err := recover(); err != nil {
			fmt.Fprintf(os.Stderr, "recovered from panic: %v\n", err)
			os.Exit(1)
		}
	}()

	configPath := flag.String("config", "config.yml", "path to the config file")
	flag.Parse()

	conf := config.MustLoad(*configPath)
	log := logger.New(os.Stdout, conf.LogLevel)

	if err := app.RunServer(log, conf); err != nil {
		panic(fmt.Errorf("app run failed: %w", err))
	}
}
