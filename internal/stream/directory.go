package stream

// Directory is a lazily refreshed cache of the live region set, keyed by
// region id. The lifecycle manager marks it stale on every load and unload;
// lookups within one tick then hit the rebuilt map instead of re-scanning
// instances. The lifecycle manager is late-bound because it is constructed
// after the packages that hold the directory.
type Directory struct {
	lm      *Lifecycle
	entries map[string]*RegionInstance
	stale   bool
}

func NewDirectory() *Directory {
	return &Directory{
		entries: make(map[string]*RegionInstance, 16),
		stale:   true,
	}
}

// SetLifecycleManager wires the instance source. Until it is set every
// lookup misses.
func (d *Directory) SetLifecycleManager(lm *Lifecycle) {
	d.lm = lm
	d.stale = true
}

// InvalidateCache forces a rebuild on the next access.
func (d *Directory) InvalidateCache() {
	d.stale = true
}

// Lookup resolves a region id to its live instance, refreshing the cache if
// a load or unload happened since the last access.
func (d *Directory) Lookup(id string) (*RegionInstance, bool) {
	d.refresh()
	ri, ok := d.entries[id]
	return ri, ok
}

// Len returns the number of live instances.
func (d *Directory) Len() int {
	d.refresh()
	return len(d.entries)
}

func (d *Directory) refresh() {
	if !d.stale {
		return
	}
	for k := range d.entries {
		delete(d.entries, k)
	}
	if d.lm != nil {
		d.lm.EachInstance(func(ri *RegionInstance) {
			d.entries[ri.Def.ID] = ri
		})
	}
	d.stale = false
}
