package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	World     WorldConfig     `toml:"world"`
	Streaming StreamingConfig `toml:"streaming"`
	Logging   LoggingConfig   `toml:"logging"`
}

type WorldConfig struct {
	TickRate       time.Duration `toml:"tick_rate"`
	RegionList     string        `toml:"region_list"`
	ConnectionList string        `toml:"connection_list"`
	TilesetList    string        `toml:"tileset_list"`
	AnimationList  string        `toml:"animation_list"`
	LayerDir       string        `toml:"layer_dir"`
	TextureDir     string        `toml:"texture_dir"`
	ScriptDir      string        `toml:"script_dir"`
	StartRegion    string        `toml:"start_region"`
}

type StreamingConfig struct {
	// RegionBudget is the loaded-region count above which eviction runs.
	// Tuned for degree-4 connectivity: current + neighbours + slack.
	RegionBudget int `toml:"region_budget"`
	// KeepConnected keeps the current region's direct connections loaded
	// during eviction.
	KeepConnected bool          `toml:"keep_connected"`
	TilePoolCap   int           `toml:"tile_pool_cap"`
	PrefetchCap   int           `toml:"prefetch_cap"`
	PrefetchTTL   time.Duration `toml:"prefetch_ttl"`
	IndexCellPx   int           `toml:"index_cell_px"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		World: WorldConfig{
			TickRate:       50 * time.Millisecond,
			RegionList:     "data/region_list.yaml",
			ConnectionList: "data/connection_list.yaml",
			TilesetList:    "data/tileset_list.yaml",
			AnimationList:  "data/animation_list.yaml",
			LayerDir:       "data/layers",
			TextureDir:     "assets/textures",
			ScriptDir:      "scripts",
		},
		Streaming: StreamingConfig{
			RegionBudget:  8,
			KeepConnected: true,
			TilePoolCap:   4096,
			PrefetchCap:   16,
			PrefetchTTL:   30 * time.Second,
			IndexCellPx:   128,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
