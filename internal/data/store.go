package data

import "fmt"

// Definitions is the loaded definition store: every authored table the
// runtime consults, loaded once at boot and read-only afterwards. Tile
// layers are the exception: they are large, so they are read per region on
// demand (by the prefetcher or the lifecycle manager).
type Definitions struct {
	regions     map[string]*RegionDef
	connections map[string][]ConnectionDef
	tilesets    map[string]*TilesetDef
	frames      *FrameTable
	layerDir    string
}

// DefinitionPaths names the authored files backing a Definitions store.
// AnimationList may be empty when the world has no animated tiles.
type DefinitionPaths struct {
	RegionList     string
	ConnectionList string
	TilesetList    string
	AnimationList  string
	LayerDir       string
}

// LoadDefinitions loads every definition table.
func LoadDefinitions(paths DefinitionPaths) (*Definitions, error) {
	regions, err := LoadRegionList(paths.RegionList)
	if err != nil {
		return nil, err
	}
	connections, err := LoadConnectionList(paths.ConnectionList)
	if err != nil {
		return nil, err
	}
	tilesets, err := LoadTilesetList(paths.TilesetList)
	if err != nil {
		return nil, err
	}
	frames := &FrameTable{sets: map[string]*FrameSet{}}
	if paths.AnimationList != "" {
		frames, err = LoadFrameTable(paths.AnimationList)
		if err != nil {
			return nil, err
		}
	}
	for _, c := range connections {
		for _, conn := range c {
			if _, ok := regions[conn.To]; !ok {
				// Dangling edges are tolerated at runtime (skipped with a
				// warning) but flagged at load so authors see them early.
				return nil, fmt.Errorf("connection %s -> %s: unknown target region", conn.From, conn.To)
			}
		}
	}
	return &Definitions{
		regions:     regions,
		connections: connections,
		tilesets:    tilesets,
		frames:      frames,
		layerDir:    paths.LayerDir,
	}, nil
}

// NewDefinitions builds an in-memory store, used by tests and tools.
func NewDefinitions(regions map[string]*RegionDef, connections map[string][]ConnectionDef, tilesets map[string]*TilesetDef, layerDir string) *Definitions {
	if regions == nil {
		regions = map[string]*RegionDef{}
	}
	if connections == nil {
		connections = map[string][]ConnectionDef{}
	}
	if tilesets == nil {
		tilesets = map[string]*TilesetDef{}
	}
	return &Definitions{
		regions:     regions,
		connections: connections,
		tilesets:    tilesets,
		frames:      &FrameTable{sets: map[string]*FrameSet{}},
		layerDir:    layerDir,
	}
}

func (d *Definitions) Region(id string) (*RegionDef, bool) {
	r, ok := d.regions[id]
	return r, ok
}

func (d *Definitions) Connections(id string) []ConnectionDef {
	return d.connections[id]
}

func (d *Definitions) Tileset(key string) (*TilesetDef, bool) {
	t, ok := d.tilesets[key]
	return t, ok
}

// Layer reads and decodes a region's tile layer from disk.
func (d *Definitions) Layer(id string) ([]TileCell, error) {
	def, ok := d.regions[id]
	if !ok {
		return nil, fmt.Errorf("layer for unknown region %s", id)
	}
	return LoadTileLayer(d.layerDir, id, def.Width, def.Height)
}

func (d *Definitions) Frames() *FrameTable { return d.frames }

func (d *Definitions) RegionCount() int  { return len(d.regions) }
func (d *Definitions) TilesetCount() int { return len(d.tilesets) }

func (d *Definitions) ConnectionCount() int {
	n := 0
	for _, c := range d.connections {
		n += len(c)
	}
	return n
}
