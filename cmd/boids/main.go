package main

import (
	"context"
	"flag"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/lao-tseu-is-alive/go-boids-3d/pkg/logging"
	"github.com/lao-tseu-is-alive/go-boids-3d/pkg/simulation"
	"github.com/tochemey/goakt/v3/actor"
	golog "github.com/tochemey/goakt/v3/log"
	"go.uber.org/zap"
)

func main() {
	configFile := flag.String("config", "configs/boids.yaml", "JSON or YAML configuration file")
	schemaFile := flag.String("schema", "configs/boids.schema.json", "JSON schema validating the configuration")
	logLevel := flag.String("log-level", "info", "debug, info, warn or error")
	flag.Parse()

	logger := logging.Must(*logLevel)
	defer func() { _ = logger.Sync() }()

	cfg, err := simulation.LoadConfig(*configFile, *schemaFile)
	if err != nil {
		logger.Fatal("failed to load config", zap.String("file", *configFile), zap.Error(err))
	}

	ctx := context.Background()

	// actor logs are only useful while debugging the tick loop
	var actorLogger golog.Logger = golog.DiscardLogger
	if *logLevel == "debug" {
		actorLogger = golog.DefaultLogger
	}
	system, err := actor.NewActorSystem("BoidsWorld",
		actor.WithLogger(actorLogger),
		actor.WithActorInitMaxRetries(3))
	if err != nil {
		logger.Fatal("failed to create actor system", zap.Error(err))
	}
	if err := system.Start(ctx); err != nil {
		logger.Fatal("failed to start actor system", zap.Error(err))
	}
	defer func() {
		if err := system.Stop(ctx); err != nil {
			logger.Warn("actor system did not stop cleanly", zap.Error(err))
		}
	}()

	game, err := simulation.NewGame(ctx, cfg, system)
	if err != nil {
		logger.Fatal("failed to create game", zap.Error(err))
	}
	logger.Info("starting viewer",
		zap.Int("boids", cfg.NumBoids),
		zap.String("boundary", cfg.BoundaryPolicy),
		zap.Int("tickRate", cfg.TickRate))

	ebiten.SetWindowSize(cfg.ScreenWidth, cfg.ScreenHeight)
	ebiten.SetWindowTitle("Boids 3D")
	ebiten.SetTPS(cfg.TickRate)
	if err := ebiten.RunGame(game); err != nil {
		logger.Error("game stopped", zap.Error(err))
	}
}
