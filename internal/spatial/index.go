package spatial

import (
	"github.com/hollowbrook/engine/internal/component"
	"github.com/hollowbrook/engine/internal/core/ecs"
	"github.com/hollowbrook/engine/internal/world"
)

// StaticIndex is a cell-keyed grid over static tile entities, the derived
// structure movement and rendering query instead of scanning every tile.
// Cell size is in pixels and should cover a few tiles so a 3x3 neighbourhood
// query spans the interaction range. Accessed only from the game loop
// goroutine, so no locks.
type StaticIndex struct {
	cellPx   int32
	world    *world.State
	cells    map[cellKey]map[ecs.EntityID]struct{}
	byRegion map[string][]ecs.EntityID
	rebuilds int
}

type cellKey struct {
	cx int32
	cy int32
}

const DefaultCellPx = 128

func NewStaticIndex(ws *world.State, cellPx int32) *StaticIndex {
	if cellPx <= 0 {
		cellPx = DefaultCellPx
	}
	return &StaticIndex{
		cellPx:   cellPx,
		world:    ws,
		cells:    make(map[cellKey]map[ecs.EntityID]struct{}),
		byRegion: make(map[string][]ecs.EntityID),
	}
}

func (x *StaticIndex) cellCoord(v int32) int32 {
	if v < 0 {
		return (v - x.cellPx + 1) / x.cellPx
	}
	return v / x.cellPx
}

func (x *StaticIndex) key(px, py int32) cellKey {
	return cellKey{cx: x.cellCoord(px), cy: x.cellCoord(py)}
}

// RebuildStatic rebuilds the whole index from the region-tagged entities
// that have a world position. Called at most once per tick by the
// invalidation batcher.
func (x *StaticIndex) RebuildStatic() {
	x.cells = make(map[cellKey]map[ecs.EntityID]struct{}, len(x.cells))
	x.byRegion = make(map[string][]ecs.EntityID, len(x.byRegion))
	ecs.Each2(x.world.RegionTags, x.world.Transforms, func(id ecs.EntityID, tag *component.RegionTag, tf *component.Transform) {
		x.insert(id, tf.X, tf.Y)
		x.byRegion[tag.RegionID] = append(x.byRegion[tag.RegionID], id)
	})
	x.rebuilds++
}

func (x *StaticIndex) insert(id ecs.EntityID, px, py int32) {
	k := x.key(px, py)
	cell := x.cells[k]
	if cell == nil {
		cell = make(map[ecs.EntityID]struct{}, 64)
		x.cells[k] = cell
	}
	cell[id] = struct{}{}
}

// InvalidateRegion drops a region's entries immediately, keeping queries
// from returning entities of a region that was unloaded earlier this tick.
// The batched rebuild still runs once at tick end.
func (x *StaticIndex) InvalidateRegion(regionID string) {
	ids := x.byRegion[regionID]
	if ids == nil {
		return
	}
	for _, id := range ids {
		if tf, ok := x.world.Transforms.Get(id); ok {
			k := x.key(tf.X, tf.Y)
			if cell := x.cells[k]; cell != nil {
				delete(cell, id)
				if len(cell) == 0 {
					delete(x.cells, k)
				}
			}
			continue
		}
		// Transform already stripped: scan cells for the stale handle.
		for k, cell := range x.cells {
			if _, ok := cell[id]; ok {
				delete(cell, id)
				if len(cell) == 0 {
					delete(x.cells, k)
				}
				break
			}
		}
	}
	delete(x.byRegion, regionID)
}

// Nearby returns all indexed entities in the 3x3 cell neighbourhood around a
// world position. Callers do fine-grained filtering.
func (x *StaticIndex) Nearby(px, py int32) []ecs.EntityID {
	cx := x.cellCoord(px)
	cy := x.cellCoord(py)
	var out []ecs.EntityID
	for dx := int32(-1); dx <= 1; dx++ {
		for dy := int32(-1); dy <= 1; dy++ {
			for id := range x.cells[cellKey{cx: cx + dx, cy: cy + dy}] {
				out = append(out, id)
			}
		}
	}
	return out
}

// Rebuilds returns how many full rebuilds have run.
func (x *StaticIndex) Rebuilds() int {
	return x.rebuilds
}
