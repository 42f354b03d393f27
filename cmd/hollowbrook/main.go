package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/hollowbrook/engine/internal/assets"
	"github.com/hollowbrook/engine/internal/component"
	"github.com/hollowbrook/engine/internal/config"
	"github.com/hollowbrook/engine/internal/core/event"
	coresys "github.com/hollowbrook/engine/internal/core/system"
	"github.com/hollowbrook/engine/internal/data"
	"github.com/hollowbrook/engine/internal/scripting"
	"github.com/hollowbrook/engine/internal/spatial"
	"github.com/hollowbrook/engine/internal/stream"
	"github.com/hollowbrook/engine/internal/system"
	"github.com/hollowbrook/engine/internal/world"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfgPath := "config/engine.toml"
	if p := os.Getenv("HOLLOWBROOK_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	defs, err := data.LoadDefinitions(data.DefinitionPaths{
		RegionList:     cfg.World.RegionList,
		ConnectionList: cfg.World.ConnectionList,
		TilesetList:    cfg.World.TilesetList,
		AnimationList:  cfg.World.AnimationList,
		LayerDir:       cfg.World.LayerDir,
	})
	if err != nil {
		return fmt.Errorf("load definitions: %w", err)
	}
	log.Info("definitions loaded",
		zap.Int("regions", defs.RegionCount()),
		zap.Int("connections", defs.ConnectionCount()),
		zap.Int("tilesets", defs.TilesetCount()),
		zap.Int("animations", defs.Frames().Count()))

	scripts, err := scripting.NewEngine(cfg.World.ScriptDir, log)
	if err != nil {
		return fmt.Errorf("lua engine: %w", err)
	}
	defer scripts.Close()

	ws := world.NewState(cfg.Streaming.TilePoolCap)
	textures := assets.NewRegistry(cfg.World.TextureDir, log)
	index := spatial.NewStaticIndex(ws, int32(cfg.Streaming.IndexCellPx))
	batcher := stream.NewBatcher(index)
	resources := stream.NewResourceTable(log)
	directory := stream.NewDirectory()
	prefetch := stream.NewPrefetcher(defs, cfg.World.TextureDir,
		cfg.Streaming.PrefetchCap, cfg.Streaming.PrefetchTTL, log)
	bus := event.NewBus()

	coord := stream.NewCoordinator(ws, directory, defs, prefetch, batcher, bus,
		stream.CoordinatorConfig{
			RegionBudget:  cfg.Streaming.RegionBudget,
			KeepConnected: cfg.Streaming.KeepConnected,
		}, log)

	lm := stream.NewLifecycle(stream.LifecycleDeps{
		World:     ws,
		Defs:      defs,
		Assets:    textures,
		Resources: resources,
		Prefetch:  prefetch,
		Scripts:   scripts,
		Index:     index,
		Batcher:   batcher,
		Directory: directory,
		Bus:       bus,
		Log:       log,
	})
	coord.SetLifecycleManager(lm)

	event.Subscribe(bus, func(ev event.RegionEntered) {
		log.Info("entered region",
			zap.String("from", ev.From), zap.String("to", ev.To),
			zap.String("name", ev.DisplayName))
	})

	runner := coresys.NewRunner()
	runner.Register(system.NewEventDispatchSystem(bus))
	runner.Register(system.NewStreamingSystem(coord))
	runner.Register(system.NewAnimationSystem(ws, defs.Frames()))
	runner.Register(system.NewCleanupSystem(ws))

	// Seed the primary agent in the configured start region.
	agentID := ws.CreateEntity()
	ws.Transforms.Set(agentID, &component.Transform{X: 0, Y: 0})
	ws.Agents.Set(agentID, component.NewStreamingAgent())
	if cfg.World.StartRegion != "" {
		if err := coord.Enter(agentID, cfg.World.StartRegion, 0, 0); err != nil {
			return fmt.Errorf("enter start region: %w", err)
		}
	}

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.World.TickRate)
	defer ticker.Stop()

	log.Info("world loop started",
		zap.Duration("tick", cfg.World.TickRate),
		zap.String("start_region", cfg.World.StartRegion))

	for {
		select {
		case <-ticker.C:
			runner.Tick(cfg.World.TickRate)
		case sig := <-shutdownCh:
			log.Info("shutdown signal", zap.String("signal", sig.String()))
			lm.UnloadAll()
			return nil
		}
	}
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	return zapCfg.Build()
}
