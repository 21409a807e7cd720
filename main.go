package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/milk9111/mawarena/config"
	"github.com/milk9111/mawarena/observability"
	"github.com/milk9111/mawarena/prefabs"
	"github.com/milk9111/mawarena/scene"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file")
	seed := flag.Int64("seed", -1, "rng seed (overrides sim.seed)")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *seed >= 0 {
		cfg.Sim.Seed = uint64(*seed)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	loader := prefabs.Loader{Dir: cfg.Prefabs.Dir}
	catalog, err := prefabs.LoadCatalog(loader)
	if err != nil {
		logger.Fatal("loading prefabs", zap.Error(err))
	}

	arena, err := scene.New(scene.Options{Catalog: catalog, Logger: logger, Seed: cfg.Sim.Seed})
	if err != nil {
		logger.Fatal("building arena", zap.Error(err))
	}

	game := NewGame(arena, cfg, logger)
	if cfg.Prefabs.HotReload {
		r, err := scene.NewTuningReloader(loader, logger)
		if err != nil {
			logger.Warn("hot reload disabled", zap.Error(err))
		} else {
			defer r.Close()
			game.reloader = r
		}
	}

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetTPS(cfg.Sim.TickRate)
	ebiten.SetCursorMode(ebiten.CursorModeCaptured)

	if err := ebiten.RunGame(game); err != nil {
		logger.Fatal("game loop", zap.Error(err))
	}
}
