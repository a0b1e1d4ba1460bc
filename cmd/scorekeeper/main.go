// Command scorekeeper keeps domino scores at the terminal.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"dominoscore/internal/app"
	"dominoscore/internal/config"
	"dominoscore/internal/console"
	"dominoscore/internal/ports"
	"dominoscore/internal/storage/jsonl"
	"dominoscore/internal/storage/postgres"
	"dominoscore/internal/storage/redisstore"

	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "scorekeeper:", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is fine; the process environment still applies.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load .env: %w", err)
	}

	env, err := config.DecodeEnv(config.ProcessEnv())
	if err != nil {
		return err
	}
	if err := env.Validate(); err != nil {
		return err
	}

	logger := console.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))
	if err := config.LoadGameConfig(env.ConfigPath); err != nil {
		logger.Debug("scorekeeper: Using default game config: %v", err)
	}

	ctx := context.Background()
	store, closeStore, err := openStore(ctx, env)
	if err != nil {
		return err
	}
	defer closeStore()

	target := env.TargetScore
	if target <= 0 {
		target = config.DefaultTargetScore()
	}

	gateway := app.NewHistoryGateway(store, env.OwnerID, logger)
	svc := app.NewService(nil, nil).WithDefaultTarget(target)
	c := console.New(ctx, svc, gateway, os.Stdout)
	return c.Run(ctx, os.Stdin)
}

func openStore(ctx context.Context, env config.Env) (ports.HistoryStore, func(), error) {
	switch env.HistoryBackend {
	case config.BackendPostgres:
		s, err := postgres.Connect(ctx, env.PostgresURL)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case config.BackendRedis:
		s, err := redisstore.Connect(ctx, env.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	default:
		s, err := jsonl.NewStore(env.HistoryFile)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil
	}
}
