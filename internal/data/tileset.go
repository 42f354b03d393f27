package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// TilesetDef describes one tileset texture and the per-metatile behavior
// flags baked into it. Columns is the number of metatiles per texture row,
// used to derive a tile's source rectangle from its metatile id.
type TilesetDef struct {
	Key       string            `yaml:"key"`
	Texture   string            `yaml:"texture"` // path relative to texture dir
	Columns   int32             `yaml:"columns"`
	Behaviors map[uint16]uint16 `yaml:"behaviors"` // metatile id -> terrain flags
	Anims     map[uint16]string `yaml:"anims"`     // metatile id -> frame set key
}

const defaultTilesetColumns = 16

type tilesetListFile struct {
	Tilesets []TilesetDef `yaml:"tilesets"`
}

// LoadTilesetList loads tileset_list.yaml into a key-indexed table.
func LoadTilesetList(path string) (map[string]*TilesetDef, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tileset list %s: %w", path, err)
	}
	var file tilesetListFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse tileset list: %w", err)
	}
	table := make(map[string]*TilesetDef, len(file.Tilesets))
	for i := range file.Tilesets {
		def := &file.Tilesets[i]
		if def.Columns <= 0 {
			def.Columns = defaultTilesetColumns
		}
		table[def.Key] = def
	}
	return table, nil
}

// SrcRect returns the pixel source rectangle for a metatile id within the
// tileset texture.
func (d *TilesetDef) SrcRect(metatile uint16, tileSize int32) (x, y int32) {
	id := int32(metatile)
	return (id % d.Columns) * tileSize, (id / d.Columns) * tileSize
}
