package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Direction is a compass edge of a region.
type Direction uint8

const (
	North Direction = iota
	South
	East
	West
)

func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case South:
		return "south"
	case East:
		return "east"
	case West:
		return "west"
	}
	return "invalid"
}

// ParseDirection maps the yaml spelling to a Direction.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "north", "up":
		return North, nil
	case "south", "down":
		return South, nil
	case "east", "right":
		return East, nil
	case "west", "left":
		return West, nil
	}
	return North, fmt.Errorf("unknown direction %q", s)
}

// ConnectionDef is a directed adjacency edge between two regions. The lateral
// offset shifts the target along the shared edge: horizontally (in tiles) for
// north/south edges, vertically for east/west edges. Authored alongside the
// region list, read-only at runtime.
type ConnectionDef struct {
	From        string
	Dir         Direction
	To          string
	OffsetTiles int32
}

type connectionYAML struct {
	From   string `yaml:"from"`
	Dir    string `yaml:"dir"`
	To     string `yaml:"to"`
	Offset int32  `yaml:"offset"`
}

type connectionListFile struct {
	Connections []connectionYAML `yaml:"connections"`
}

// LoadConnectionList loads connection_list.yaml keyed by source region.
func LoadConnectionList(path string) (map[string][]ConnectionDef, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read connection list %s: %w", path, err)
	}
	var file connectionListFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse connection list: %w", err)
	}
	table := make(map[string][]ConnectionDef, len(file.Connections))
	for _, c := range file.Connections {
		dir, err := ParseDirection(c.Dir)
		if err != nil {
			return nil, fmt.Errorf("connection %s -> %s: %w", c.From, c.To, err)
		}
		table[c.From] = append(table[c.From], ConnectionDef{
			From:        c.From,
			Dir:         dir,
			To:          c.To,
			OffsetTiles: c.Offset,
		})
	}
	return table, nil
}
