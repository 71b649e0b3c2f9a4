package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Roma10boss/Tic-Tac-Toe-With-AI/internal/config"
	"github.com/Roma10boss/Tic-Tac-Toe-With-AI/internal/qtable"
	"github.com/Roma10boss/Tic-Tac-Toe-With-AI/internal/report"
	"github.com/Roma10boss/Tic-Tac-Toe-With-AI/internal/repository"
	"github.com/Roma10boss/Tic-Tac-Toe-With-AI/internal/repository/storage"
	"github.com/Roma10boss/Tic-Tac-Toe-With-AI/internal/service"
	"github.com/Roma10boss/Tic-Tac-Toe-With-AI/internal/transport/cli"
	"github.com/Roma10boss/Tic-Tac-Toe-With-AI/internal/transport/rest"
	"github.com/Roma10boss/Tic-Tac-Toe-With-AI/internal/usecase"
)

var (
	ErrAddrNotFound  = errors.New("redis address string is empty")
	ErrTableRequired = errors.New("a trained q-table is required")
)

// RunTraining runs self-play and persists the table. An interrupted run still
// saves what was learned; a failed save is returned.
func RunTraining(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "train")

	if err := conf.Storage.Validate(); err != nil {
		return fmt.Errorf("failed to validate storage config: %w", err)
	}

	ctx, cancel := signalContext(log)
	defer cancel()

	repo, closeRepo, err := openTableRepository(ctx, conf)
	if err != nil {
		return err
	}
	defer closeRepo(log)

	table := qtable.New()
	if conf.Train.Resume {
		if table, err = repository.LoadOrEmpty(ctx, logger, repo); err != nil {
			return fmt.Errorf("failed to load table to resume from %s: %w", repo.Location(), err)
		}
		log.Info("resuming training", "location", repo.Location(), "entries", table.Len())
	}

	trainer, err := usecase.NewTrainer(logger, table, conf.Train)
	if err != nil {
		return fmt.Errorf("failed to create trainer: %w", err)
	}

	stats, err := trainer.Train(ctx)
	if err != nil {
		return fmt.Errorf("failed to train: %w", err)
	}

	// the run context is canceled after an interrupt, the save must still happen
	saveCtx := context.WithoutCancel(ctx)
	if err = repo.Save(saveCtx, table); err != nil {
		return fmt.Errorf("failed to save table: %w", err)
	}

	log.Info("table saved", "location", repo.Location(), "entries", table.Len(), "run_id", stats.RunID)

	if conf.Train.ChartPath != "" {
		if err = report.WriteTrainingChart(conf.Train.ChartPath, stats.RunID, stats.Windows); err != nil {
			log.Warn("failed to write training chart", "path", conf.Train.ChartPath, "error", err)
		} else {
			log.Info("training chart written", "path", conf.Train.ChartPath)
		}
	}

	return nil
}

// RunPlay runs the terminal match loop against the trained table.
func RunPlay(logger *slog.Logger, conf *config.Config, in io.Reader, out io.Writer) error {
	log := logger.With("component", "play")

	if err := conf.Play.Validate(); err != nil {
		return fmt.Errorf("failed to validate play config: %w", err)
	}

	ctx, cancel := signalContext(log)
	defer cancel()

	table, closeRepo, err := loadTable(ctx, logger, conf)
	if err != nil {
		return err
	}
	defer closeRepo(log)

	manager := usecase.NewMatchManager(logger, service.NewBotService(table))
	console := cli.NewConsole(logger, manager, in, out, conf.Play.ZeroBased, conf.Play.Colors)

	if err = console.Run(ctx, conf.Play.HumanMark); err != nil {
		return fmt.Errorf("play session failed: %w", err)
	}

	return nil
}

// RunServer serves the HTTP move API until a signal arrives.
func RunServer(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "server")

	ctx, cancel := signalContext(log)
	defer cancel()

	table, closeRepo, err := loadTable(ctx, logger, conf)
	if err != nil {
		return err
	}
	defer closeRepo(log)

	server := rest.NewServer(logger, conf.HTTPPort, rest.NewHandlers(logger, table))

	log.Info("Starting HTTP server", "port", conf.HTTPPort, "entries", table.Len())
	if err = server.Start(ctx); err != nil {
		return fmt.Errorf("HTTP server error: %w", err)
	}

	return nil
}

func loadTable(ctx context.Context, logger *slog.Logger, conf *config.Config) (*qtable.Table, func(*slog.Logger), error) {
	if err := conf.Storage.Validate(); err != nil {
		return nil, nil, fmt.Errorf("failed to validate storage config: %w", err)
	}

	repo, closeRepo, err := openTableRepository(ctx, conf)
	if err != nil {
		return nil, nil, err
	}

	var table *qtable.Table
	if conf.Play.RequireTable {
		table, err = repo.Load(ctx)
		if err != nil {
			err = fmt.Errorf("%w: %s: %w", ErrTableRequired, repo.Location(), err)
		}
	} else {
		table, err = repository.LoadOrEmpty(ctx, logger, repo)
	}

	if err != nil {
		closeRepo(logger)
		return nil, nil, err
	}

	logger.Info("q-table loaded", "location", repo.Location(), "entries", table.Len(), "states", table.States())

	return table, closeRepo, nil
}

func openTableRepository(ctx context.Context, conf *config.Config) (repository.TableRepository, func(*slog.Logger), error) {
	switch conf.Storage.Driver {
	case config.DriverRedis:
		addr := conf.Redis.GetRedisAddr()
		if conf.Redis.Host == "" {
			return nil, nil, ErrAddrNotFound
		}

		client, err := storage.NewRedisStorage(ctx, addr, conf.Redis.DB)
		if err != nil {
			return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
		}

		closeRepo := func(log *slog.Logger) {
			if err := client.Close(); err != nil {
				log.Error("could not close redis storage", "error", err)
			}
		}

		return repository.NewRedisTableRepository(client, conf.Redis.Key), closeRepo, nil
	case config.DriverSQLite:
		db, err := storage.NewSQLiteStorage(conf.Storage.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("could not open sqlite storage: %w", err)
		}

		closeRepo := func(log *slog.Logger) {
			if err := db.Close(); err != nil {
				log.Error("could not close sqlite storage", "error", err)
			}
		}

		if err = db.Init(ctx); err != nil {
			closeRepo(slog.Default())
			return nil, nil, fmt.Errorf("could not init sqlite storage: %w", err)
		}

		return repository.NewSQLiteTableRepository(db.Connection, db.Path), closeRepo, nil
	default:
		return repository.NewFileTableRepository(conf.Storage.FilePath), func(*slog.Logger) {}, nil
	}
}

func signalContext(log *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigs:
			log.Info("Received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigs)
	}()

	return ctx, cancel
}
