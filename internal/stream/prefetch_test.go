package stream

import (
	"testing"
	"time"

	"go.uber.org/zap"
)

func waitPrepared(t *testing.T, p *Prefetcher, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if p.PreparedCount() >= want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("prepared cache never reached %d entries", want)
}

// Preparing the same unloaded region twice performs the expensive parse
// exactly once.
func TestPrefetcher_Idempotent(t *testing.T) {
	defs := newMemDefs()
	defs.addRegion("route1", 4, 4, 16)
	p := NewPrefetcher(defs, t.TempDir(), 0, 0, zap.NewNop())

	p.Prepare("route1", 0, 0)
	p.Prepare("route1", 0, 0)
	waitPrepared(t, p, 1)

	// Prepared: further calls are no-ops.
	p.Prepare("route1", 0, 0)
	time.Sleep(10 * time.Millisecond)

	if got := defs.layerCallCount("route1"); got != 1 {
		t.Fatalf("layer parsed %d times, want 1", got)
	}
}

func TestPrefetcher_TakeConsumesEntry(t *testing.T) {
	defs := newMemDefs()
	defs.addRegion("route1", 4, 4, 16)
	p := NewPrefetcher(defs, t.TempDir(), 0, 0, zap.NewNop())

	p.Prepare("route1", 32, 64)
	waitPrepared(t, p, 1)

	pr, ok := p.Take("route1")
	if !ok {
		t.Fatal("expected prepared entry")
	}
	if pr.Def.ID != "route1" || len(pr.Cells) != 16 {
		t.Fatalf("unexpected payload: def=%v cells=%d", pr.Def, len(pr.Cells))
	}
	if pr.OffsetX != 32 || pr.OffsetY != 64 {
		t.Fatalf("offset = (%d,%d), want (32,64)", pr.OffsetX, pr.OffsetY)
	}
	if _, ok := p.Take("route1"); ok {
		t.Fatal("entry should be consumed by Take")
	}
}

// A prefetch failure never surfaces; the entry simply never appears and a
// later synchronous load does the work inline.
func TestPrefetcher_FailureSwallowed(t *testing.T) {
	defs := newMemDefs() // no regions: every warm fails
	p := NewPrefetcher(defs, t.TempDir(), 0, 0, zap.NewNop())

	p.Prepare("ghost", 0, 0)
	time.Sleep(20 * time.Millisecond)

	if _, ok := p.Take("ghost"); ok {
		t.Fatal("failed prefetch must not produce an entry")
	}
}

// The prepared cache is bounded: old entries age out instead of accumulating.
func TestPrefetcher_CacheBounded(t *testing.T) {
	defs := newMemDefs()
	for _, id := range []string{"a", "b", "c"} {
		defs.addRegion(id, 2, 2, 16)
	}
	p := NewPrefetcher(defs, t.TempDir(), 2, time.Minute, zap.NewNop())

	p.Prepare("a", 0, 0)
	waitPrepared(t, p, 1)
	p.Prepare("b", 0, 0)
	waitPrepared(t, p, 2)
	p.Prepare("c", 0, 0)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, ok := p.Take("c"); ok {
			if p.PreparedCount() > 2 {
				t.Fatalf("cache holds %d entries, cap is 2", p.PreparedCount())
			}
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("entry c never prepared")
}
