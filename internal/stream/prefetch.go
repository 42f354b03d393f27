package stream

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/hollowbrook/engine/internal/data"
)

// PreparedRegion is the result of a background warm-up: parsed tile cells
// plus the tileset texture bytes already pulled off disk. Consuming it makes
// the synchronous load an O(1) commit. It never references the live entity
// registry.
type PreparedRegion struct {
	Def         *data.RegionDef
	Cells       []data.TileCell
	Tileset     *data.TilesetDef
	TextureData []byte
	OffsetX     int32
	OffsetY     int32

	readyAt time.Time
}

// Prefetcher speculatively warms region data off the synchronous path. The
// prepared cache is the only structure shared between the worker goroutines
// and the game loop; everything else the workers touch is read-only
// definition data. Entries age out of the bounded cache, so a prefetch for a
// region that is never loaded is just wasted work, not a leak.
type Prefetcher struct {
	defs       DefinitionStore
	textureDir string
	log        *zap.Logger

	group singleflight.Group

	mu       sync.Mutex
	prepared map[string]*PreparedRegion
	cap      int
	ttl      time.Duration
}

const (
	DefaultPreparedCap = 16
	DefaultPreparedTTL = 30 * time.Second
)

func NewPrefetcher(defs DefinitionStore, textureDir string, cacheCap int, ttl time.Duration, log *zap.Logger) *Prefetcher {
	if cacheCap <= 0 {
		cacheCap = DefaultPreparedCap
	}
	if ttl <= 0 {
		ttl = DefaultPreparedTTL
	}
	return &Prefetcher{
		defs:       defs,
		textureDir: textureDir,
		log:        log,
		prepared:   make(map[string]*PreparedRegion, cacheCap),
		cap:        cacheCap,
		ttl:        ttl,
	}
}

// Prepare warms a region at the given placement offset. Idempotent: a second
// call for an already-prepared region is a no-op, and concurrent calls for
// the same region collapse into one unit of work. Never blocks the caller;
// failures are logged and swallowed; the synchronous load falls back to
// doing the work inline.
func (p *Prefetcher) Prepare(regionID string, offsetX, offsetY int32) {
	p.mu.Lock()
	_, done := p.prepared[regionID]
	p.mu.Unlock()
	if done {
		return
	}

	go func() {
		_, err, _ := p.group.Do(regionID, func() (any, error) {
			return nil, p.warm(regionID, offsetX, offsetY)
		})
		if err != nil {
			p.log.Warn("prefetch failed", zap.String("region", regionID), zap.Error(err))
		}
	}()
}

func (p *Prefetcher) warm(regionID string, offsetX, offsetY int32) error {
	p.mu.Lock()
	_, done := p.prepared[regionID]
	p.mu.Unlock()
	if done {
		return nil
	}

	def, ok := p.defs.Region(regionID)
	if !ok {
		return fmt.Errorf("region %s: no definition", regionID)
	}
	cells, err := p.defs.Layer(regionID)
	if err != nil {
		return fmt.Errorf("region %s: %w", regionID, err)
	}

	pr := &PreparedRegion{
		Def:     def,
		Cells:   cells,
		OffsetX: offsetX,
		OffsetY: offsetY,
		readyAt: time.Now(),
	}

	if ts, ok := p.defs.Tileset(def.Tileset); ok {
		pr.Tileset = ts
		raw, err := os.ReadFile(filepath.Join(p.textureDir, ts.Texture))
		if err != nil {
			// Texture warm-up is best effort; the lifecycle manager loads
			// it inline when the bytes are missing.
			p.log.Debug("prefetch texture read failed", zap.String("region", regionID), zap.Error(err))
		} else {
			pr.TextureData = raw
		}
	}

	p.mu.Lock()
	p.store(regionID, pr)
	p.mu.Unlock()
	return nil
}

// store inserts under p.mu, evicting expired entries first and then the
// oldest entry if the cache is still over capacity.
func (p *Prefetcher) store(regionID string, pr *PreparedRegion) {
	now := time.Now()
	for id, e := range p.prepared {
		if now.Sub(e.readyAt) > p.ttl {
			delete(p.prepared, id)
		}
	}
	if len(p.prepared) >= p.cap {
		oldestID := ""
		var oldest time.Time
		for id, e := range p.prepared {
			if oldestID == "" || e.readyAt.Before(oldest) {
				oldestID = id
				oldest = e.readyAt
			}
		}
		if oldestID != "" {
			delete(p.prepared, oldestID)
		}
	}
	p.prepared[regionID] = pr
}

// Take removes and returns the prepared entry for a region, if present and
// fresh. Called only from the game loop goroutine.
func (p *Prefetcher) Take(regionID string) (*PreparedRegion, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	pr, ok := p.prepared[regionID]
	if !ok {
		return nil, false
	}
	delete(p.prepared, regionID)
	if time.Since(pr.readyAt) > p.ttl {
		return nil, false
	}
	return pr, true
}

// PreparedCount returns the number of cached entries.
func (p *Prefetcher) PreparedCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.prepared)
}
