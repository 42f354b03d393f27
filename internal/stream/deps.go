package stream

import (
	"github.com/hollowbrook/engine/internal/data"
)

// Collaborator interfaces consumed by the streaming core. The concrete
// implementations live in internal/data, internal/assets, internal/spatial
// and internal/scripting; tests substitute fakes.

// DefinitionStore resolves authored region data. Read-only after boot.
type DefinitionStore interface {
	Region(id string) (*data.RegionDef, bool)
	Connections(id string) []data.ConnectionDef
	Tileset(key string) (*data.TilesetDef, bool)
	Layer(id string) ([]data.TileCell, error)
}

// AssetProvider registers and releases textures. Mutated only on the game
// loop goroutine.
type AssetProvider interface {
	LoadTexture(key, path string) error
	LoadTextureBytes(key string, data []byte) error
	HasTexture(key string) bool
	UnregisterTexture(key string) bool
}

// SpatialIndex is the derived index rebuilt after region set changes.
type SpatialIndex interface {
	InvalidateRegion(regionID string)
	RebuildStatic()
}

// ScriptHooks receives region lifecycle notifications for behavior scripts.
// Implementations must contain their own failures; hooks are best-effort.
type ScriptHooks interface {
	RegionLoaded(regionID string)
	RegionUnloaded(regionID string)
}

// RegionInstance is a region definition placed in world space. Exactly one
// live instance exists per region id; created and destroyed only by the
// lifecycle manager.
type RegionInstance struct {
	Def     *data.RegionDef
	OriginX int32
	OriginY int32
}

// Contains reports whether a world-space pixel position falls inside the
// instance. The right and bottom edges are exclusive, so adjacent regions
// with zero gap never both claim a point.
func (ri *RegionInstance) Contains(px, py int32) bool {
	return px >= ri.OriginX && px < ri.OriginX+ri.Def.WidthPx() &&
		py >= ri.OriginY && py < ri.OriginY+ri.Def.HeightPx()
}

// LocalGrid converts a world-space pixel position to tile coordinates
// relative to the instance origin.
func (ri *RegionInstance) LocalGrid(px, py int32) (gx, gy int32) {
	return (px - ri.OriginX) / ri.Def.TileSize, (py - ri.OriginY) / ri.Def.TileSize
}
