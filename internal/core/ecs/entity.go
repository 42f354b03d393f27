package ecs

// EntityID packs a 32-bit slot index in the low half and a 32-bit generation
// in the high half. The generation bumps every time a slot is freed, so a
// stale handle to a recycled slot never resolves.
type EntityID uint64

func MakeEntityID(index, generation uint32) EntityID {
	return EntityID(uint64(generation)<<32 | uint64(index))
}

func (id EntityID) Index() uint32      { return uint32(id) }
func (id EntityID) Generation() uint32 { return uint32(id >> 32) }
func (id EntityID) IsZero() bool       { return id == 0 }

// Allocator hands out entity slots with generational indices. Freed slots go
// onto a free list and are reused with a bumped generation.
type Allocator struct {
	generations []uint32
	free        []uint32
	next        uint32
}

func NewAllocator() *Allocator {
	return &Allocator{
		generations: make([]uint32, 0, 4096),
		free:        make([]uint32, 0, 512),
	}
}

func (a *Allocator) Create() EntityID {
	if n := len(a.free); n > 0 {
		idx := a.free[n-1]
		a.free = a.free[:n-1]
		return MakeEntityID(idx, a.generations[idx])
	}
	idx := a.next
	a.next++
	if int(idx) >= len(a.generations) {
		a.generations = append(a.generations, 0)
	}
	return MakeEntityID(idx, a.generations[idx])
}

// Alive reports whether the handle still refers to a live slot.
func (a *Allocator) Alive(id EntityID) bool {
	idx := id.Index()
	return idx < a.next && a.generations[idx] == id.Generation()
}

// Free releases the slot behind the handle. Freeing a stale handle is a no-op.
func (a *Allocator) Free(id EntityID) {
	idx := id.Index()
	if idx >= a.next || a.generations[idx] != id.Generation() {
		return
	}
	a.generations[idx]++
	a.free = append(a.free, idx)
}

// Live returns the number of currently allocated slots.
func (a *Allocator) Live() int {
	return int(a.next) - len(a.free)
}
