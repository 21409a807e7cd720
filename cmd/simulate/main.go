// Command simulate plays a match headless with the autopilot at a fixed
// step, optionally streaming it to spectators.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/milk9111/mawarena/config"
	"github.com/milk9111/mawarena/input"
	"github.com/milk9111/mawarena/observability"
	"github.com/milk9111/mawarena/prefabs"
	"github.com/milk9111/mawarena/scene"
	"github.com/milk9111/mawarena/spectator"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file")
	frames := flag.Int("frames", -1, "frames to simulate (overrides sim.frames)")
	seed := flag.Int64("seed", -1, "rng seed (overrides sim.seed)")
	serve := flag.Bool("serve", false, "run the spectator server in real time")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("reading .env: %v", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *frames >= 0 {
		cfg.Sim.Frames = *frames
	}
	if *seed >= 0 {
		cfg.Sim.Seed = uint64(*seed)
	}
	if *serve {
		cfg.Spectator.Enabled = true
		cfg.Sim.RealTime = true
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("simulation failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	loader := prefabs.Loader{Dir: cfg.Prefabs.Dir}
	catalog, err := prefabs.LoadCatalog(loader)
	if err != nil {
		return err
	}

	metrics := observability.NewMetrics()
	arena, err := scene.New(scene.Options{
		Catalog: catalog,
		Logger:  logger,
		Metrics: metrics,
		Seed:    cfg.Sim.Seed,
	})
	if err != nil {
		return err
	}

	var reloader *scene.TuningReloader
	if cfg.Prefabs.HotReload {
		if reloader, err = scene.NewTuningReloader(loader, logger); err != nil {
			logger.Warn("hot reload disabled", zap.Error(err))
		} else {
			defer reloader.Close()
		}
	}

	var pub *spectator.Publisher
	if cfg.Spectator.Enabled {
		hub := spectator.NewHub(cfg.Spectator.CORSOrigins, logger, metrics)
		go hub.Run(ctx)
		pub = spectator.NewPublisher(hub, cfg.Spectator.BroadcastHz)
		router := spectator.NewRouter(spectator.Options{
			Publisher:   pub,
			Hub:         hub,
			Metrics:     metrics.Handler(),
			CORSOrigins: cfg.Spectator.CORSOrigins,
		})
		go func() {
			if err := spectator.Serve(ctx, cfg.Spectator.Addr, router, logger); err != nil {
				logger.Error("spectator server stopped", zap.Error(err))
			}
		}()
	}

	dt := cfg.Sim.Dt()
	bot := input.NewAutopilot()
	var tick *time.Ticker
	if cfg.Sim.RealTime {
		tick = time.NewTicker(time.Duration(dt * float64(time.Second)))
		defer tick.Stop()
	}

	start := time.Now()
	for i := 0; cfg.Sim.Frames == 0 || i < cfg.Sim.Frames; i++ {
		if arena.Over() {
			break
		}
		if tick != nil {
			select {
			case <-ctx.Done():
				return nil
			case <-tick.C:
			}
		} else if ctx.Err() != nil {
			break
		}

		if reloader != nil {
			reloader.Poll(arena)
		}
		if cfg.Sim.Autopilot {
			bot.Drive(arena.Input(), arena.Observe(), dt)
		}
		arena.Update(dt)

		if pub != nil {
			if _, err := pub.Publish(arena.Snapshot()); err != nil {
				logger.Warn("publish failed", zap.Error(err))
			}
		}
	}

	final := arena.Snapshot()
	if pub != nil {
		_ = pub.Flush(final)
	}
	fields := []zap.Field{
		zap.String("match", final.MatchID),
		zap.String("phase", string(final.Phase)),
		zap.String("outcome", string(final.Outcome)),
		zap.Uint64("frames", final.Frame),
		zap.Float64("sim_seconds", final.Time),
		zap.Duration("wall", time.Since(start)),
		zap.Int("player_hp", final.Player.HP),
	}
	if final.Boss != nil {
		fields = append(fields, zap.Int("boss_hp", final.Boss.HP))
	}
	logger.Info("simulation finished", fields...)
	return nil
}
