package ecs

// World owns the entity allocator, the store registry, and a deferred
// destruction queue flushed once per tick by the cleanup system. Destroying
// through the queue keeps iteration over stores safe mid-tick.
type World struct {
	alloc    *Allocator
	registry *Registry
	doomed   []EntityID
}

func NewWorld() *World {
	return &World{
		alloc:    NewAllocator(),
		registry: NewRegistry(),
		doomed:   make([]EntityID, 0, 128),
	}
}

func (w *World) Allocator() *Allocator { return w.alloc }
func (w *World) Registry() *Registry   { return w.registry }

func (w *World) CreateEntity() EntityID {
	return w.alloc.Create()
}

func (w *World) Alive(id EntityID) bool {
	return w.alloc.Alive(id)
}

// DestroyNow removes the entity's components and frees its slot immediately.
// Only safe when no store iteration is in progress.
func (w *World) DestroyNow(id EntityID) {
	w.registry.RemoveAll(id)
	w.alloc.Free(id)
}

// MarkForDestruction queues an entity for end-of-tick cleanup.
func (w *World) MarkForDestruction(id EntityID) {
	w.doomed = append(w.doomed, id)
}

// FlushDestroyQueue destroys all queued entities and clears their components.
func (w *World) FlushDestroyQueue() {
	for _, id := range w.doomed {
		w.registry.RemoveAll(id)
		w.alloc.Free(id)
	}
	w.doomed = w.doomed[:0]
}
