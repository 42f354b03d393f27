package stream

import (
	"fmt"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/hollowbrook/engine/internal/component"
	"github.com/hollowbrook/engine/internal/core/ecs"
	"github.com/hollowbrook/engine/internal/core/event"
	"github.com/hollowbrook/engine/internal/data"
	"github.com/hollowbrook/engine/internal/world"
)

// memDefs is an in-memory DefinitionStore. Layer calls are counted under a
// mutex since the prefetcher reads from worker goroutines.
type memDefs struct {
	regions  map[string]*data.RegionDef
	conns    map[string][]data.ConnectionDef
	tilesets map[string]*data.TilesetDef

	mu         sync.Mutex
	layerCalls map[string]int
}

func newMemDefs() *memDefs {
	return &memDefs{
		regions:    map[string]*data.RegionDef{},
		conns:      map[string][]data.ConnectionDef{},
		tilesets:   map[string]*data.TilesetDef{},
		layerCalls: map[string]int{},
	}
}

func (m *memDefs) addRegion(id string, w, h, tile int32) *data.RegionDef {
	def := &data.RegionDef{
		ID: id, Name: id, Width: w, Height: h, TileSize: tile, Tileset: "overworld",
	}
	m.regions[id] = def
	return def
}

func (m *memDefs) connect(from string, dir data.Direction, to string, offset int32) {
	m.conns[from] = append(m.conns[from], data.ConnectionDef{
		From: from, Dir: dir, To: to, OffsetTiles: offset,
	})
}

func (m *memDefs) Region(id string) (*data.RegionDef, bool) {
	r, ok := m.regions[id]
	return r, ok
}

func (m *memDefs) Connections(id string) []data.ConnectionDef {
	return m.conns[id]
}

func (m *memDefs) Tileset(key string) (*data.TilesetDef, bool) {
	t, ok := m.tilesets[key]
	return t, ok
}

func (m *memDefs) Layer(id string) ([]data.TileCell, error) {
	m.mu.Lock()
	m.layerCalls[id]++
	m.mu.Unlock()
	def, ok := m.regions[id]
	if !ok {
		return nil, fmt.Errorf("no region %s", id)
	}
	return make([]data.TileCell, int(def.Width)*int(def.Height)), nil
}

func (m *memDefs) layerCallCount(id string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.layerCalls[id]
}

type fakeAssets struct {
	textures map[string][]byte
	loads    int
}

func newFakeAssets() *fakeAssets {
	return &fakeAssets{textures: map[string][]byte{}}
}

func (f *fakeAssets) LoadTexture(key, path string) error {
	if _, ok := f.textures[key]; ok {
		return nil
	}
	f.loads++
	f.textures[key] = []byte(path)
	return nil
}

func (f *fakeAssets) LoadTextureBytes(key string, b []byte) error {
	if _, ok := f.textures[key]; ok {
		return nil
	}
	f.loads++
	f.textures[key] = b
	return nil
}

func (f *fakeAssets) HasTexture(key string) bool {
	_, ok := f.textures[key]
	return ok
}

func (f *fakeAssets) UnregisterTexture(key string) bool {
	if _, ok := f.textures[key]; !ok {
		return false
	}
	delete(f.textures, key)
	return true
}

type fakeIndex struct {
	rebuilds    int
	invalidated []string
}

func (f *fakeIndex) InvalidateRegion(id string) { f.invalidated = append(f.invalidated, id) }
func (f *fakeIndex) RebuildStatic()             { f.rebuilds++ }

// env bundles a fully wired streaming stack over in-memory fakes.
type env struct {
	defs      *memDefs
	ws        *world.State
	assets    *fakeAssets
	index     *fakeIndex
	batcher   *Batcher
	resources *ResourceTable
	dir       *Directory
	prefetch  *Prefetcher
	bus       *event.Bus
	lm        *Lifecycle
	coord     *Coordinator
}

func newEnv(t *testing.T, cfg CoordinatorConfig) *env {
	t.Helper()
	log := zap.NewNop()

	e := &env{
		defs:      newMemDefs(),
		ws:        world.NewState(0),
		assets:    newFakeAssets(),
		index:     &fakeIndex{},
		resources: NewResourceTable(log),
		dir:       NewDirectory(),
		bus:       event.NewBus(),
	}
	e.defs.tilesets["overworld"] = &data.TilesetDef{
		Key: "overworld", Texture: "overworld.png", Columns: 16,
	}
	e.batcher = NewBatcher(e.index)
	e.prefetch = NewPrefetcher(e.defs, t.TempDir(), 0, 0, log)
	e.coord = NewCoordinator(e.ws, e.dir, e.defs, e.prefetch, e.batcher, e.bus, cfg, log)
	e.lm = NewLifecycle(LifecycleDeps{
		World:     e.ws,
		Defs:      e.defs,
		Assets:    e.assets,
		Resources: e.resources,
		Prefetch:  e.prefetch,
		Index:     e.index,
		Batcher:   e.batcher,
		Directory: e.dir,
		Bus:       e.bus,
		Log:       log,
	})
	e.coord.SetLifecycleManager(e.lm)
	return e
}

// spawnAgent creates an agent entity at a world position.
func (e *env) spawnAgent(x, y int32) ecs.EntityID {
	id := e.ws.CreateEntity()
	e.ws.Transforms.Set(id, &component.Transform{X: x, Y: y})
	e.ws.Agents.Set(id, component.NewStreamingAgent())
	return id
}

func (e *env) agent(id ecs.EntityID) *component.StreamingAgent {
	a, _ := e.ws.Agents.Get(id)
	return a
}
