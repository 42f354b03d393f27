package stream

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/hollowbrook/engine/internal/component"
	"github.com/hollowbrook/engine/internal/core/ecs"
	"github.com/hollowbrook/engine/internal/core/event"
	"github.com/hollowbrook/engine/internal/data"
	"github.com/hollowbrook/engine/internal/world"
)

// LifecycleDeps wires the lifecycle manager's collaborators. Prefetch,
// Scripts and Bus are optional.
type LifecycleDeps struct {
	World     *world.State
	Defs      DefinitionStore
	Assets    AssetProvider
	Resources *ResourceTable
	Prefetch  *Prefetcher
	Scripts   ScriptHooks
	Index     SpatialIndex
	Batcher   *Batcher
	Directory *Directory
	Bus       *event.Bus
	Log       *zap.Logger
}

// Lifecycle owns the authoritative live region set. It is the only component
// that creates or destroys RegionInstances, spawns or recycles their tile
// entities, and moves resource refcounts. All of it runs synchronously on
// the game loop goroutine; a load or unload is atomic from the tick's
// perspective.
type Lifecycle struct {
	deps LifecycleDeps

	instances map[string]*RegionInstance
	tileCache map[string][]ecs.EntityID
}

func NewLifecycle(deps LifecycleDeps) *Lifecycle {
	lm := &Lifecycle{
		deps:      deps,
		instances: make(map[string]*RegionInstance, 16),
		tileCache: make(map[string][]ecs.EntityID, 16),
	}
	deps.Directory.SetLifecycleManager(lm)
	return lm
}

// Load instantiates a region at the given world offset. When the prefetcher
// already prepared the region the commit is O(spawn); otherwise parsing and
// texture reads happen inline. Loading an already-live region returns the
// existing instance.
func (l *Lifecycle) Load(regionID string, offsetX, offsetY int32) (*RegionInstance, error) {
	if ri, ok := l.instances[regionID]; ok {
		return ri, nil
	}

	var (
		def     *data.RegionDef
		cells   []data.TileCell
		tileset *data.TilesetDef
		texture []byte
	)

	if l.deps.Prefetch != nil {
		if pr, ok := l.deps.Prefetch.Take(regionID); ok {
			def, cells, tileset, texture = pr.Def, pr.Cells, pr.Tileset, pr.TextureData
		}
	}
	if def == nil {
		d, ok := l.deps.Defs.Region(regionID)
		if !ok {
			return nil, fmt.Errorf("load %s: no definition", regionID)
		}
		def = d
		c, err := l.deps.Defs.Layer(regionID)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", regionID, err)
		}
		cells = c
		tileset, _ = l.deps.Defs.Tileset(def.Tileset)
	}
	if tileset == nil {
		// Region stays loadable without its tileset; tiles render blank.
		l.deps.Log.Warn("region has no tileset definition",
			zap.String("region", regionID), zap.String("tileset", def.Tileset))
	}

	l.acquireTileset(def, tileset, texture)

	ri := &RegionInstance{Def: def, OriginX: offsetX, OriginY: offsetY}
	l.spawnTiles(ri, cells, tileset)
	l.instances[regionID] = ri
	l.deps.Directory.InvalidateCache()

	if l.deps.Scripts != nil {
		l.deps.Scripts.RegionLoaded(regionID)
	}
	if l.deps.Bus != nil {
		event.Emit(l.deps.Bus, event.RegionLoaded{ID: regionID})
	}
	l.deps.Log.Info("region loaded",
		zap.String("region", regionID),
		zap.Int32("x", offsetX), zap.Int32("y", offsetY),
		zap.Int("tiles", len(l.tileCache[regionID])))
	return ri, nil
}

// acquireTileset bumps the texture refcount and, on first reference, loads
// the texture, from prefetched bytes when available, else from disk. A
// failed texture load degrades to blank tiles, never fails the region load.
func (l *Lifecycle) acquireTileset(def *data.RegionDef, tileset *data.TilesetDef, texture []byte) {
	if tileset == nil {
		return
	}
	if !l.deps.Resources.Acquire(tileset.Key) {
		return
	}
	var err error
	if len(texture) > 0 {
		err = l.deps.Assets.LoadTextureBytes(tileset.Key, texture)
	} else {
		err = l.deps.Assets.LoadTexture(tileset.Key, tileset.Texture)
	}
	if err != nil {
		l.deps.Log.Warn("tileset texture load failed",
			zap.String("region", def.ID), zap.String("tileset", tileset.Key), zap.Error(err))
	}
}

// spawnTiles creates one entity per layer cell, recycling pooled tiles, and
// records the handles in the region tile cache so unload never needs a
// graph traversal.
func (l *Lifecycle) spawnTiles(ri *RegionInstance, cells []data.TileCell, tileset *data.TilesetDef) {
	def := ri.Def
	ids := make([]ecs.EntityID, 0, len(cells))
	ws := l.deps.World

	for gy := int32(0); gy < def.Height; gy++ {
		for gx := int32(0); gx < def.Width; gx++ {
			cell := cells[gy*def.Width+gx]
			e, _ := ws.AcquireTile()

			ws.Transforms.Set(e, &component.Transform{
				X: ri.OriginX + gx*def.TileSize,
				Y: ri.OriginY + gy*def.TileSize,
			})
			ws.RegionTags.Set(e, &component.RegionTag{RegionID: def.ID})
			ws.Elevations.Set(e, &component.Elevation{Level: int16(cell.Elevation)})
			ws.Collisions.Set(e, &component.Collision{Solid: cell.Collision != 0})

			if tileset != nil {
				sx, sy := tileset.SrcRect(cell.Metatile, def.TileSize)
				ws.Sprites.Set(e, &component.TileSprite{
					TextureKey: tileset.Key,
					SrcX:       sx,
					SrcY:       sy,
					SrcW:       def.TileSize,
					SrcH:       def.TileSize,
				})
				if flags, ok := tileset.Behaviors[cell.Metatile]; ok {
					ws.Terrains.Set(e, &component.Terrain{Flags: flags})
				}
				if frameSet, ok := tileset.Anims[cell.Metatile]; ok {
					ws.Anims.Set(e, &component.TileAnim{FrameSet: frameSet})
				}
			}
			ids = append(ids, e)
		}
	}
	l.tileCache[def.ID] = ids
}

// Unload tears down a live region: recycles its cached tile entities,
// destroys its dynamic entities, releases its resources and drops it from
// the directory. A failure on one entity is logged and skipped; a single
// bad entity must not abort the rest of the unload.
func (l *Lifecycle) Unload(regionID string) {
	ri, ok := l.instances[regionID]
	if !ok {
		l.deps.Log.Debug("unload of region not loaded", zap.String("region", regionID))
		return
	}

	for _, e := range l.tileCache[regionID] {
		l.releaseTileSafe(regionID, e)
	}
	delete(l.tileCache, regionID)

	l.destroyDynamic(regionID)

	if tileset, ok := l.deps.Defs.Tileset(ri.Def.Tileset); ok {
		if l.deps.Resources.Release(tileset.Key) {
			if !l.deps.Assets.UnregisterTexture(tileset.Key) {
				l.deps.Log.Debug("texture already unregistered", zap.String("key", tileset.Key))
			}
		}
	}

	if l.deps.Scripts != nil {
		l.deps.Scripts.RegionUnloaded(regionID)
	}

	delete(l.instances, regionID)
	l.deps.Directory.InvalidateCache()
	l.deps.Index.InvalidateRegion(regionID)

	if l.deps.Bus != nil {
		event.Emit(l.deps.Bus, event.RegionUnloaded{ID: regionID})
	}
	l.deps.Log.Info("region unloaded", zap.String("region", regionID))
}

// releaseTileSafe recycles one tile entity, containing any panic or error so
// the unload loop keeps going.
func (l *Lifecycle) releaseTileSafe(regionID string, e ecs.EntityID) {
	defer func() {
		if r := recover(); r != nil {
			l.deps.Log.Error("tile cleanup panic",
				zap.String("region", regionID), zap.Uint64("entity", uint64(e)), zap.Any("panic", r))
		}
	}()
	if _, err := l.deps.World.ReleaseTile(e); err != nil {
		l.deps.Log.Warn("tile cleanup failed",
			zap.String("region", regionID), zap.Error(err))
	}
}

// destroyDynamic removes non-pooled entities recorded against the region
// (spawned props, loose items) but never a streaming agent. Tiles are
// already stripped of their region tag by this point.
func (l *Lifecycle) destroyDynamic(regionID string) {
	ws := l.deps.World
	var doomed []ecs.EntityID
	ws.RegionTags.Each(func(e ecs.EntityID, tag *component.RegionTag) {
		if tag.RegionID == regionID && !ws.Agents.Has(e) {
			doomed = append(doomed, e)
		}
	})
	for _, e := range doomed {
		ws.DestroyNow(e)
	}
}

// UnloadAll clears the whole live set, used before a non-boundary teleport.
// Every agent goes idle: a loaded set left pointing at dead regions would
// suppress reloads after the teleport. Because no further loads land this
// tick, the spatial index is rebuilt immediately instead of batched.
func (l *Lifecycle) UnloadAll() {
	for _, id := range l.LoadedIDs() {
		l.Unload(id)
	}
	l.deps.World.Agents.Each(func(_ ecs.EntityID, agent *component.StreamingAgent) {
		agent.CurrentRegion = ""
		for id := range agent.Loaded {
			delete(agent.Loaded, id)
		}
	})
	l.deps.Batcher.FlushNow()
}

// ForceCleanup unloads everything except the given region. Emergency memory
// valve, not part of steady-state streaming. Agents drop the dead regions
// from their loaded sets so later ticks reload them.
func (l *Lifecycle) ForceCleanup(keepRegionID string) {
	for _, id := range l.LoadedIDs() {
		if id != keepRegionID {
			l.Unload(id)
		}
	}
	l.deps.World.Agents.Each(func(_ ecs.EntityID, agent *component.StreamingAgent) {
		for id := range agent.Loaded {
			if id != keepRegionID {
				delete(agent.Loaded, id)
			}
		}
	})
	l.deps.Batcher.FlushNow()
}

// Instance returns the live instance for a region id.
func (l *Lifecycle) Instance(regionID string) (*RegionInstance, bool) {
	ri, ok := l.instances[regionID]
	return ri, ok
}

// EachInstance visits every live instance.
func (l *Lifecycle) EachInstance(fn func(*RegionInstance)) {
	for _, ri := range l.instances {
		fn(ri)
	}
}

// LoadedIDs returns the ids of all live regions.
func (l *Lifecycle) LoadedIDs() []string {
	ids := make([]string, 0, len(l.instances))
	for id := range l.instances {
		ids = append(ids, id)
	}
	return ids
}

// LoadedCount returns the number of live regions.
func (l *Lifecycle) LoadedCount() int {
	return len(l.instances)
}

// GetRegionTiles returns the cached tile entities for a live region.
func (l *Lifecycle) GetRegionTiles(regionID string) []ecs.EntityID {
	return l.tileCache[regionID]
}
