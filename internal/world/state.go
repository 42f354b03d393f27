package world

import (
	"fmt"

	"github.com/hollowbrook/engine/internal/component"
	"github.com/hollowbrook/engine/internal/core/ecs"
)

// State is the live entity registry: the ECS world plus one typed store per
// component, and the tile entity pool. Accessed only from the game loop
// goroutine, so no locks.
type State struct {
	ecs *ecs.World

	Transforms *ecs.Store[component.Transform]
	Sprites    *ecs.Store[component.TileSprite]
	Elevations *ecs.Store[component.Elevation]
	Terrains   *ecs.Store[component.Terrain]
	Collisions *ecs.Store[component.Collision]
	RegionTags *ecs.Store[component.RegionTag]
	Anims      *ecs.Store[component.TileAnim]
	Agents     *ecs.Store[component.StreamingAgent]

	tilePool    []ecs.EntityID
	tilePoolCap int
}

// DefaultTilePoolCap bounds parked tile entities; one mid-sized region's
// worth is enough to absorb a load/unload cycle without thrashing.
const DefaultTilePoolCap = 4096

func NewState(tilePoolCap int) *State {
	if tilePoolCap <= 0 {
		tilePoolCap = DefaultTilePoolCap
	}
	s := &State{
		ecs:         ecs.NewWorld(),
		Transforms:  ecs.NewStore[component.Transform](),
		Sprites:     ecs.NewStore[component.TileSprite](),
		Elevations:  ecs.NewStore[component.Elevation](),
		Terrains:    ecs.NewStore[component.Terrain](),
		Collisions:  ecs.NewStore[component.Collision](),
		RegionTags:  ecs.NewStore[component.RegionTag](),
		Anims:       ecs.NewStore[component.TileAnim](),
		Agents:      ecs.NewStore[component.StreamingAgent](),
		tilePool:    make([]ecs.EntityID, 0, tilePoolCap),
		tilePoolCap: tilePoolCap,
	}
	reg := s.ecs.Registry()
	reg.Register(s.Transforms)
	reg.Register(s.Sprites)
	reg.Register(s.Elevations)
	reg.Register(s.Terrains)
	reg.Register(s.Collisions)
	reg.Register(s.RegionTags)
	reg.Register(s.Anims)
	reg.Register(s.Agents)
	return s
}

func (s *State) ECS() *ecs.World { return s.ecs }

func (s *State) CreateEntity() ecs.EntityID { return s.ecs.CreateEntity() }
func (s *State) Alive(id ecs.EntityID) bool { return s.ecs.Alive(id) }

// DestroyNow removes all components and frees the entity immediately.
func (s *State) DestroyNow(id ecs.EntityID) { s.ecs.DestroyNow(id) }

// MarkForDestruction defers destruction to the cleanup phase.
func (s *State) MarkForDestruction(id ecs.EntityID) { s.ecs.MarkForDestruction(id) }

// AcquireTile returns a tile entity, reusing a pooled one when available.
// Pooled tiles keep their TileSprite from their previous life; every other
// component was stripped on release, so the caller must set the full set.
func (s *State) AcquireTile() (id ecs.EntityID, reused bool) {
	if n := len(s.tilePool); n > 0 {
		id = s.tilePool[n-1]
		s.tilePool = s.tilePool[:n-1]
		return id, true
	}
	return s.ecs.CreateEntity(), false
}

// tileStripSet is the per-region component set removed on pooled release so
// stale data cannot leak into a reused tile: elevation, animation frame
// source, the world-space offset, terrain flags, collision flags, and the
// region binding. The sprite stays; rebinding it is the expensive part.
func (s *State) stripTile(id ecs.EntityID) {
	s.Elevations.Remove(id)
	s.Anims.Remove(id)
	s.Transforms.Remove(id)
	s.Terrains.Remove(id)
	s.Collisions.Remove(id)
	s.RegionTags.Remove(id)
}

// ReleaseTile strips a tile entity's per-region components and parks it for
// reuse. Returns pooled=false when the pool is full, in which case the
// entity was hard-destroyed instead of leaked in a half-stripped state.
func (s *State) ReleaseTile(id ecs.EntityID) (pooled bool, err error) {
	if !s.ecs.Alive(id) {
		return false, fmt.Errorf("release tile %d: entity not alive", id)
	}
	s.stripTile(id)
	if len(s.tilePool) >= s.tilePoolCap {
		s.ecs.DestroyNow(id)
		return false, nil
	}
	s.tilePool = append(s.tilePool, id)
	return true, nil
}

// PooledTiles returns the number of parked tile entities.
func (s *State) PooledTiles() int {
	return len(s.tilePool)
}
