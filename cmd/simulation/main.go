package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/lao-tseu-is-alive/go-boids-3d/pkg/logging"
	"github.com/lao-tseu-is-alive/go-boids-3d/pkg/simulation"
	"go.uber.org/zap"
)

func main() {
	configFile := flag.String("config", "", "JSON or YAML configuration file (defaults are used when empty)")
	schemaFile := flag.String("schema", "configs/boids.schema.json", "JSON schema validating the configuration")
	ticks := flag.Uint64("ticks", 1000, "number of ticks to simulate")
	every := flag.Uint64("progress", 100, "log progress every n ticks (0 disables)")
	logLevel := flag.String("log-level", "info", "debug, info, warn or error")
	flag.Parse()

	logger := logging.Must(*logLevel)
	defer func() { _ = logger.Sync() }()

	cfg := simulation.DefaultConfig()
	if *configFile != "" {
		var err error
		cfg, err = simulation.LoadConfig(*configFile, *schemaFile)
		if err != nil {
			logger.Fatal("failed to load config", zap.String("file", *configFile), zap.Error(err))
		}
	}

	f, err := simulation.NewFlock(cfg)
	if err != nil {
		logger.Fatal("failed to create flock", zap.Error(err))
	}
	logger.Info("flock created",
		zap.Int("boids", f.Len()),
		zap.Uint64("seed", f.Seed()),
		zap.Stringer("boundary", f.Params().Boundary),
		zap.Stringer("order", f.Params().Order),
		zap.Stringer("exclusion", f.Params().Exclusion))

	start := time.Now()
	for f.Ticks() < *ticks {
		n := f.Tick()
		if *every > 0 && n%*every == 0 {
			logger.Debug("progress", zap.Uint64("tick", n), zap.Uint64("fingerprint", f.Fingerprint()))
		}
	}
	elapsed := time.Since(start)

	logger.Info("simulation done",
		zap.Uint64("ticks", f.Ticks()),
		zap.Duration("elapsed", elapsed),
		zap.Float64("ticksPerSecond", float64(f.Ticks())/max(elapsed.Seconds(), 1e-9)))
	fmt.Printf("%016x\n", f.Fingerprint())
}
