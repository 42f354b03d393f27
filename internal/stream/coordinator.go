package stream

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/hollowbrook/engine/internal/component"
	"github.com/hollowbrook/engine/internal/core/ecs"
	"github.com/hollowbrook/engine/internal/core/event"
	"github.com/hollowbrook/engine/internal/world"
)

// CoordinatorConfig carries the tunables the eviction policy depends on.
// The defaults suit a connectivity degree of four (compass directions):
// current region + direct neighbours + slack so walking back and forth over
// one boundary never thrashes load/unload.
type CoordinatorConfig struct {
	// RegionBudget is the loaded-region count above which eviction runs.
	RegionBudget int
	// KeepConnected keeps the current region's direct connections in the
	// keep set during eviction.
	KeepConnected bool
}

const DefaultRegionBudget = 8

// Coordinator evaluates every streaming agent once per tick: it loads the
// current region's connected neighbours, detects boundary crossings, evicts
// beyond the region budget, and defers the spatial index rebuild to the
// batcher, flushed exactly once per tick.
type Coordinator struct {
	world    *world.State
	dir      *Directory
	defs     DefinitionStore
	prefetch *Prefetcher
	batcher  *Batcher
	bus      *event.Bus
	log      *zap.Logger
	cfg      CoordinatorConfig

	lm *Lifecycle
}

func NewCoordinator(ws *world.State, dir *Directory, defs DefinitionStore, prefetch *Prefetcher, batcher *Batcher, bus *event.Bus, cfg CoordinatorConfig, log *zap.Logger) *Coordinator {
	if cfg.RegionBudget <= 0 {
		cfg.RegionBudget = DefaultRegionBudget
	}
	return &Coordinator{
		world:    ws,
		dir:      dir,
		defs:     defs,
		prefetch: prefetch,
		batcher:  batcher,
		bus:      bus,
		log:      log,
		cfg:      cfg,
	}
}

// SetLifecycleManager wires the lifecycle manager. Late-bound: the lifecycle
// manager is constructed after the coordinator's other collaborators.
func (c *Coordinator) SetLifecycleManager(lm *Lifecycle) {
	c.lm = lm
}

// Enter places an agent into a region from a non-boundary transition (world
// entry, teleport): loads the region at the given offset, reseeds the
// agent's loaded set from scratch and forces an immediate index rebuild
// since no tick-batched flush follows. The recorded offset comes from the
// returned instance, which wins when the region was already live elsewhere.
func (c *Coordinator) Enter(agentID ecs.EntityID, regionID string, offsetX, offsetY int32) error {
	if c.lm == nil {
		return fmt.Errorf("enter %s: lifecycle manager not wired", regionID)
	}
	agent, ok := c.world.Agents.Get(agentID)
	if !ok {
		return nil
	}
	ri, err := c.lm.Load(regionID, offsetX, offsetY)
	if err != nil {
		return err
	}
	agent.CurrentRegion = regionID
	agent.Loaded = map[string]component.Offset{
		regionID: {X: ri.OriginX, Y: ri.OriginY},
	}
	if tf, ok := c.world.Transforms.Get(agentID); ok {
		agent.GridX, agent.GridY = ri.LocalGrid(tf.X, tf.Y)
	}
	c.batcher.FlushNow()
	return nil
}

// Tick processes every agent, then flushes the batcher exactly once. All
// loads commit before eviction is evaluated and eviction before the flush,
// so the rebuilt index always reflects the tick's final region set.
func (c *Coordinator) Tick() {
	if c.lm == nil {
		return
	}
	ecs.Each2(c.world.Agents, c.world.Transforms, func(id ecs.EntityID, agent *component.StreamingAgent, tf *component.Transform) {
		c.tickAgent(id, agent, tf)
	})
	c.batcher.Flush()
}

func (c *Coordinator) tickAgent(agentID ecs.EntityID, agent *component.StreamingAgent, tf *component.Transform) {
	// Idle agents (mid-transition, world cleared) are skipped entirely.
	if len(agent.Loaded) == 0 {
		return
	}
	// A region with no streaming connections reached by teleport has no
	// instance requirement on neighbours; nothing to do.
	current, ok := c.dir.Lookup(agent.CurrentRegion)
	if !ok {
		return
	}

	c.loadNeighbours(agent, current)

	if !current.Contains(tf.X, tf.Y) {
		current = c.crossBoundary(agent, current, tf)
	}

	c.evict(agentID, agent)
}

// loadNeighbours loads every outgoing connection of the current region that
// the agent does not already hold.
func (c *Coordinator) loadNeighbours(agent *component.StreamingAgent, current *RegionInstance) {
	for _, conn := range c.defs.Connections(agent.CurrentRegion) {
		if _, loaded := agent.Loaded[conn.To]; loaded {
			continue
		}
		adj, ok := c.defs.Region(conn.To)
		if !ok {
			c.log.Warn("connection references unknown region",
				zap.String("from", conn.From), zap.String("to", conn.To))
			continue
		}
		x, y := ResolvePlacement(current, conn, adj, c.log)
		c.prefetch.Prepare(conn.To, x, y)
		ri, err := c.lm.Load(conn.To, x, y)
		if err != nil {
			c.log.Warn("neighbour load failed", zap.String("region", conn.To), zap.Error(err))
			continue
		}
		// The instance origin wins over the computed placement when the
		// region was already live at another agent's offset.
		agent.Loaded[conn.To] = component.Offset{X: ri.OriginX, Y: ri.OriginY}
		c.batcher.MarkDirty()
	}
}

// crossBoundary finds the loaded region now containing the agent, updates
// its current region and local grid coordinates, and publishes the
// transition. Returns the (possibly unchanged) current instance.
func (c *Coordinator) crossBoundary(agent *component.StreamingAgent, current *RegionInstance, tf *component.Transform) *RegionInstance {
	for id := range agent.Loaded {
		if id == agent.CurrentRegion {
			continue
		}
		ri, ok := c.dir.Lookup(id)
		if !ok || !ri.Contains(tf.X, tf.Y) {
			continue
		}
		from := agent.CurrentRegion
		agent.CurrentRegion = id
		agent.GridX, agent.GridY = ri.LocalGrid(tf.X, tf.Y)
		if c.bus != nil {
			event.Emit(c.bus, event.RegionEntered{
				From:        from,
				To:          id,
				DisplayName: ri.Def.Name,
			})
		}
		c.log.Debug("boundary crossed",
			zap.String("from", from), zap.String("to", id),
			zap.Int32("grid_x", agent.GridX), zap.Int32("grid_y", agent.GridY))
		return ri
	}
	return current
}

// evict unloads regions beyond the budget, keeping the current region and
// (configurably) its direct connections. Budget-based rather than
// distance-based so an agent pacing over one boundary never oscillates.
// A region another agent still holds is dropped from this agent's set but
// stays loaded.
func (c *Coordinator) evict(agentID ecs.EntityID, agent *component.StreamingAgent) {
	if len(agent.Loaded) <= c.cfg.RegionBudget {
		return
	}

	keep := make(map[string]struct{}, 8)
	keep[agent.CurrentRegion] = struct{}{}
	if c.cfg.KeepConnected {
		for _, conn := range c.defs.Connections(agent.CurrentRegion) {
			keep[conn.To] = struct{}{}
		}
	}

	for id := range agent.Loaded {
		if _, kept := keep[id]; kept {
			continue
		}
		delete(agent.Loaded, id)
		if c.heldByOther(agentID, id) {
			continue
		}
		c.lm.Unload(id)
		c.batcher.MarkDirty()
	}
}

// heldByOther reports whether any other agent still holds the region in its
// loaded set.
func (c *Coordinator) heldByOther(agentID ecs.EntityID, regionID string) bool {
	held := false
	c.world.Agents.Each(func(id ecs.EntityID, other *component.StreamingAgent) {
		if id == agentID || held {
			return
		}
		if _, ok := other.Loaded[regionID]; ok {
			held = true
		}
	})
	return held
}

// CurrentRegion returns an agent's current region id.
func (c *Coordinator) CurrentRegion(agentID ecs.EntityID) (string, bool) {
	agent, ok := c.world.Agents.Get(agentID)
	if !ok {
		return "", false
	}
	return agent.CurrentRegion, true
}

// LoadedRegions returns the ids of all live regions.
func (c *Coordinator) LoadedRegions() []string {
	return c.lm.LoadedIDs()
}

// GetRegionTiles returns the cached tile entities of a live region.
func (c *Coordinator) GetRegionTiles(regionID string) []ecs.EntityID {
	return c.lm.GetRegionTiles(regionID)
}
