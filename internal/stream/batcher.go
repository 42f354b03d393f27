package stream

// Batcher coalesces any number of load/unload events within one tick into a
// single spatial index rebuild plus one dependent cache invalidation (the
// movement system's cached world offsets). Without it every region change
// would trigger its own rebuild.
type Batcher struct {
	index              SpatialIndex
	invalidateMovement func()
	dirty              bool
}

func NewBatcher(index SpatialIndex) *Batcher {
	return &Batcher{index: index}
}

// SetMovementCacheInvalidator wires the dependent cache hook. Late-bound:
// the movement system is constructed after the streaming core.
func (b *Batcher) SetMovementCacheInvalidator(fn func()) {
	b.invalidateMovement = fn
}

// MarkDirty records that the region set changed this tick.
func (b *Batcher) MarkDirty() {
	b.dirty = true
}

// Flush rebuilds the index exactly once if anything changed, then clears the
// flag. Called once at the end of coordinator processing.
func (b *Batcher) Flush() {
	if !b.dirty {
		return
	}
	b.index.RebuildStatic()
	if b.invalidateMovement != nil {
		b.invalidateMovement()
	}
	b.dirty = false
}

// FlushNow forces an immediate rebuild regardless of the flag, used when the
// world is cleared outside normal tick processing and no further loads will
// land this tick.
func (b *Batcher) FlushNow() {
	b.dirty = true
	b.Flush()
}
