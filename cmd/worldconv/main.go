// worldconv converts a Tiled-style .world file (maps placed at absolute
// pixel coordinates) into region_list.yaml and connection_list.yaml.
// Adjacency is recovered from the placements: two maps sharing an edge with
// overlapping extent become a directed connection pair.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

type worldFile struct {
	Maps []worldMap `json:"maps"`
}

type worldMap struct {
	FileName string `json:"fileName"`
	X        int32  `json:"x"`
	Y        int32  `json:"y"`
	Width    int32  `json:"width"`  // pixels
	Height   int32  `json:"height"` // pixels
}

type regionYAML struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Width    int32  `yaml:"width"`
	Height   int32  `yaml:"height"`
	TileSize int32  `yaml:"tile_size"`
	Tileset  string `yaml:"tileset"`
}

type connectionYAML struct {
	From   string `yaml:"from"`
	Dir    string `yaml:"dir"`
	To     string `yaml:"to"`
	Offset int32  `yaml:"offset"`
}

func main() {
	tileSize := flag.Int("tile", 16, "tile size in pixels")
	tileset := flag.String("tileset", "overworld", "tileset key for every region")
	outDir := flag.String("out", ".", "output directory")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: worldconv [flags] <world.json>")
		os.Exit(1)
	}

	raw, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	var world worldFile
	if err := json.Unmarshal(raw, &world); err != nil {
		fmt.Fprintf(os.Stderr, "parse %s: %v\n", flag.Arg(0), err)
		os.Exit(1)
	}

	tile := int32(*tileSize)
	regions := make([]regionYAML, 0, len(world.Maps))
	for _, m := range world.Maps {
		id := strings.TrimSuffix(filepath.Base(m.FileName), filepath.Ext(m.FileName))
		regions = append(regions, regionYAML{
			ID:       id,
			Name:     displayName(id),
			Width:    m.Width / tile,
			Height:   m.Height / tile,
			TileSize: tile,
			Tileset:  *tileset,
		})
	}
	sort.Slice(regions, func(i, j int) bool { return regions[i].ID < regions[j].ID })

	connections := deriveConnections(world.Maps, tile)

	if err := writeYAML(filepath.Join(*outDir, "region_list.yaml"),
		map[string]any{"regions": regions}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := writeYAML(filepath.Join(*outDir, "connection_list.yaml"),
		map[string]any{"connections": connections}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("wrote %d regions, %d connections\n", len(regions), len(connections))
}

// deriveConnections emits a directed edge for every pair of maps that share
// an edge. The lateral offset is the perpendicular displacement of the
// target relative to the source, in tiles.
func deriveConnections(maps []worldMap, tile int32) []connectionYAML {
	var conns []connectionYAML
	id := func(m worldMap) string {
		return strings.TrimSuffix(filepath.Base(m.FileName), filepath.Ext(m.FileName))
	}
	for _, a := range maps {
		for _, b := range maps {
			if a.FileName == b.FileName {
				continue
			}
			switch {
			case b.Y+b.Height == a.Y && spansOverlap(a.X, a.Width, b.X, b.Width):
				conns = append(conns, connectionYAML{
					From: id(a), Dir: "north", To: id(b), Offset: (b.X - a.X) / tile,
				})
			case a.Y+a.Height == b.Y && spansOverlap(a.X, a.Width, b.X, b.Width):
				conns = append(conns, connectionYAML{
					From: id(a), Dir: "south", To: id(b), Offset: (b.X - a.X) / tile,
				})
			case a.X+a.Width == b.X && spansOverlap(a.Y, a.Height, b.Y, b.Height):
				conns = append(conns, connectionYAML{
					From: id(a), Dir: "east", To: id(b), Offset: (b.Y - a.Y) / tile,
				})
			case b.X+b.Width == a.X && spansOverlap(a.Y, a.Height, b.Y, b.Height):
				conns = append(conns, connectionYAML{
					From: id(a), Dir: "west", To: id(b), Offset: (b.Y - a.Y) / tile,
				})
			}
		}
	}
	sort.Slice(conns, func(i, j int) bool {
		if conns[i].From != conns[j].From {
			return conns[i].From < conns[j].From
		}
		return conns[i].To < conns[j].To
	})
	return conns
}

func spansOverlap(aStart, aLen, bStart, bLen int32) bool {
	return aStart < bStart+bLen && bStart < aStart+aLen
}

// displayName turns "littleroot_town" into "Littleroot Town".
func displayName(id string) string {
	parts := strings.Split(id, "_")
	for i, p := range parts {
		if len(p) > 0 {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, " ")
}

func writeYAML(path string, doc any) error {
	raw, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0644)
}
