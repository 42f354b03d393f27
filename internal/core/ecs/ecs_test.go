package ecs

import "testing"

type pos struct{ X, Y int32 }
type tag struct{ Name string }

func TestAllocator_RecycledSlotBumpsGeneration(t *testing.T) {
	a := NewAllocator()

	first := a.Create()
	a.Free(first)
	second := a.Create()

	if first == second {
		t.Fatal("recycled slot handed out with the same generation")
	}
	if first.Index() != second.Index() {
		t.Fatalf("free list not reused: index %d then %d", first.Index(), second.Index())
	}
	if a.Alive(first) {
		t.Fatal("stale handle still resolves")
	}
	if !a.Alive(second) {
		t.Fatal("fresh handle does not resolve")
	}
}

func TestAllocator_DoubleFreeIsNoOp(t *testing.T) {
	a := NewAllocator()
	id := a.Create()
	a.Free(id)
	a.Free(id)
	if a.Live() != 0 {
		t.Fatalf("live = %d, want 0", a.Live())
	}
	// The slot must come back exactly once.
	a.Create()
	b := a.Create()
	if b.Index() == id.Index() {
		t.Fatal("slot handed out twice after double free")
	}
}

func TestStore_SetGetRemove(t *testing.T) {
	s := NewStore[pos]()
	id := MakeEntityID(3, 0)

	s.Set(id, &pos{X: 1, Y: 2})
	p, ok := s.Get(id)
	if !ok || p.X != 1 || p.Y != 2 {
		t.Fatalf("get = %+v, %v", p, ok)
	}

	// Pointer semantics: mutation through the returned pointer sticks.
	p.X = 9
	p2, _ := s.Get(id)
	if p2.X != 9 {
		t.Fatal("component mutation lost")
	}

	s.Remove(id)
	if s.Has(id) || s.Len() != 0 {
		t.Fatal("remove left data behind")
	}
}

func TestEach2_VisitsIntersectionOnly(t *testing.T) {
	positions := NewStore[pos]()
	tags := NewStore[tag]()

	both := MakeEntityID(1, 0)
	posOnly := MakeEntityID(2, 0)
	tagOnly := MakeEntityID(3, 0)

	positions.Set(both, &pos{})
	positions.Set(posOnly, &pos{})
	tags.Set(both, &tag{})
	tags.Set(tagOnly, &tag{})

	var visited []EntityID
	Each2(positions, tags, func(id EntityID, _ *pos, _ *tag) {
		visited = append(visited, id)
	})
	if len(visited) != 1 || visited[0] != both {
		t.Fatalf("visited %v, want only %v", visited, both)
	}

	// Same result with argument order swapped (smaller store drives).
	visited = nil
	Each2(tags, positions, func(id EntityID, _ *tag, _ *pos) {
		visited = append(visited, id)
	})
	if len(visited) != 1 || visited[0] != both {
		t.Fatalf("swapped: visited %v, want only %v", visited, both)
	}
}

func TestWorld_DeferredDestroy(t *testing.T) {
	w := NewWorld()
	positions := NewStore[pos]()
	w.Registry().Register(positions)

	id := w.CreateEntity()
	positions.Set(id, &pos{X: 5})

	w.MarkForDestruction(id)
	if !w.Alive(id) || !positions.Has(id) {
		t.Fatal("marked entity died before the flush")
	}

	w.FlushDestroyQueue()
	if w.Alive(id) {
		t.Fatal("entity alive after flush")
	}
	if positions.Has(id) {
		t.Fatal("components not removed on flush")
	}

	// Flushing again must not disturb new entities in recycled slots.
	fresh := w.CreateEntity()
	positions.Set(fresh, &pos{})
	w.FlushDestroyQueue()
	if !w.Alive(fresh) || !positions.Has(fresh) {
		t.Fatal("flush touched an entity that was never marked")
	}
}

func TestWorld_DestroyNowRemovesComponents(t *testing.T) {
	w := NewWorld()
	positions := NewStore[pos]()
	tags := NewStore[tag]()
	w.Registry().Register(positions)
	w.Registry().Register(tags)

	id := w.CreateEntity()
	positions.Set(id, &pos{})
	tags.Set(id, &tag{Name: "prop"})

	w.DestroyNow(id)
	if w.Alive(id) || positions.Has(id) || tags.Has(id) {
		t.Fatal("destroy left entity or components behind")
	}
}
