package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RegionDef is the immutable definition of one rectangular region: a fixed
// tile grid plus the tileset it renders from. Loaded once at boot from
// region_list.yaml, referenced but never mutated at runtime.
type RegionDef struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Width    int32  `yaml:"width"`     // tiles
	Height   int32  `yaml:"height"`    // tiles
	TileSize int32  `yaml:"tile_size"` // pixels
	Tileset  string `yaml:"tileset"`   // key into tileset_list.yaml
	Script   string `yaml:"script"`    // optional lua behavior script name
}

// WidthPx and HeightPx are the region's pixel dimensions.
func (d *RegionDef) WidthPx() int32  { return d.Width * d.TileSize }
func (d *RegionDef) HeightPx() int32 { return d.Height * d.TileSize }

type regionListFile struct {
	Regions []RegionDef `yaml:"regions"`
}

// LoadRegionList loads region_list.yaml into an id-keyed table.
func LoadRegionList(path string) (map[string]*RegionDef, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read region list %s: %w", path, err)
	}
	var file regionListFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse region list: %w", err)
	}
	table := make(map[string]*RegionDef, len(file.Regions))
	for i := range file.Regions {
		def := &file.Regions[i]
		if def.Width <= 0 || def.Height <= 0 || def.TileSize <= 0 {
			return nil, fmt.Errorf("region %s: non-positive dimensions", def.ID)
		}
		table[def.ID] = def
	}
	return table, nil
}
