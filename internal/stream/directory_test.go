package stream

import "testing"

func TestDirectory_TracksLiveRegions(t *testing.T) {
	e := newEnv(t, CoordinatorConfig{})
	e.defs.addRegion("town", 2, 2, 16)

	if _, ok := e.dir.Lookup("town"); ok {
		t.Fatal("lookup hit before any region loaded")
	}

	if _, err := e.lm.Load("town", 16, 32); err != nil {
		t.Fatalf("load: %v", err)
	}
	ri, ok := e.dir.Lookup("town")
	if !ok {
		t.Fatal("lookup missed a live region")
	}
	if ri.OriginX != 16 || ri.OriginY != 32 {
		t.Fatalf("cached origin = (%d,%d), want (16,32)", ri.OriginX, ri.OriginY)
	}
	if e.dir.Len() != 1 {
		t.Fatalf("len = %d, want 1", e.dir.Len())
	}

	e.lm.Unload("town")
	if _, ok := e.dir.Lookup("town"); ok {
		t.Fatal("lookup hit after unload")
	}
	if e.dir.Len() != 0 {
		t.Fatalf("len = %d after unload, want 0", e.dir.Len())
	}
}

// Without a lifecycle source every lookup misses instead of panicking.
func TestDirectory_UnwiredLookupMisses(t *testing.T) {
	d := NewDirectory()
	if _, ok := d.Lookup("anything"); ok {
		t.Fatal("lookup hit on an unwired directory")
	}
	if d.Len() != 0 {
		t.Fatalf("len = %d, want 0", d.Len())
	}
}

func TestDirectory_InvalidateForcesRefresh(t *testing.T) {
	e := newEnv(t, CoordinatorConfig{})
	e.defs.addRegion("a", 2, 2, 16)
	e.defs.addRegion("b", 2, 2, 16)

	if _, err := e.lm.Load("a", 0, 0); err != nil {
		t.Fatalf("load a: %v", err)
	}
	if e.dir.Len() != 1 {
		t.Fatalf("len = %d, want 1", e.dir.Len())
	}

	// A second load marks the cache stale; the next access sees both.
	if _, err := e.lm.Load("b", 32, 0); err != nil {
		t.Fatalf("load b: %v", err)
	}
	if e.dir.Len() != 2 {
		t.Fatalf("len = %d after second load, want 2", e.dir.Len())
	}

	e.dir.InvalidateCache()
	if _, ok := e.dir.Lookup("a"); !ok {
		t.Fatal("lookup missed after explicit invalidation")
	}
}
