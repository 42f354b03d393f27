package component

// Components attached to static tile entities. One entity per placed tile.
// All fields are plain data; systems mutate them in place through the stores.

// Transform is the entity's world-space pixel position.
type Transform struct {
	X int32
	Y int32
}

// TileSprite names the texture a tile renders from and the source rectangle
// within it. Survives pooled release: rebinding a sprite is the expensive
// part of tile spawning, so recycled tiles keep theirs until overwritten.
type TileSprite struct {
	TextureKey string
	SrcX       int32
	SrcY       int32
	SrcW       int32
	SrcH       int32
}

// Elevation is the render-sort layer. Stripped on pooled release.
type Elevation struct {
	Level int16
}

// Terrain carries the walk-behavior flags for a tile (grass, water, ledge
// direction and so on). Stripped on pooled release.
type Terrain struct {
	Flags uint16
}

// Collision marks a tile impassable. Stripped on pooled release.
type Collision struct {
	Solid bool
}

// RegionTag binds an entity to the region that spawned it. The lifecycle
// manager uses it to find non-pooled dynamic entities during unload.
type RegionTag struct {
	RegionID string
}

// TileAnim drives frame cycling for animated tiles (water, flowers). The
// FrameSet indexes into the animation table. Stripped on pooled release.
type TileAnim struct {
	FrameSet  string
	Frame     int
	ElapsedMs int64
}
