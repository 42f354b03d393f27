package stream

import "go.uber.org/zap"

// ResourceTable tracks reference counts for shared resources (tileset
// textures). It does not load or free anything itself: Acquire reports when
// the caller must load, Release reports when the caller must dispose. Counts
// are mutated only on the game loop goroutine and never go negative.
type ResourceTable struct {
	refs map[string]int
	log  *zap.Logger
}

func NewResourceTable(log *zap.Logger) *ResourceTable {
	return &ResourceTable{
		refs: make(map[string]int, 32),
		log:  log,
	}
}

// Acquire increments the refcount for key and reports whether this was the
// first reference, meaning the caller must load the underlying resource.
func (t *ResourceTable) Acquire(key string) (first bool) {
	n := t.refs[key]
	t.refs[key] = n + 1
	return n == 0
}

// Release decrements the refcount and reports whether the key just became
// unreferenced, meaning the caller must dispose the underlying resource.
// Releasing an untracked key is a safe no-op: the eager prefetcher and a
// later eviction can race to the same release, and "already absent" simply
// means there is nothing left to unload.
func (t *ResourceTable) Release(key string) (unreferenced bool) {
	n, ok := t.refs[key]
	if !ok {
		t.log.Debug("release of untracked resource", zap.String("key", key))
		return false
	}
	if n <= 1 {
		delete(t.refs, key)
		return true
	}
	t.refs[key] = n - 1
	return false
}

// Refcount returns the tracked count for key (0 when untracked).
func (t *ResourceTable) Refcount(key string) int {
	return t.refs[key]
}

// Tracked returns the number of keys with a live reference.
func (t *ResourceTable) Tracked() int {
	return len(t.refs)
}
