package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FrameRef is one animation frame: a source rectangle origin within the
// owning tileset texture.
type FrameRef struct {
	SrcX int32 `yaml:"src_x"`
	SrcY int32 `yaml:"src_y"`
}

// FrameSet is a named tile animation: a frame list cycled at a fixed period.
type FrameSet struct {
	Key        string     `yaml:"key"`
	DurationMs int64      `yaml:"duration_ms"`
	Frames     []FrameRef `yaml:"frames"`
}

const defaultFrameDurationMs = 200

type frameListFile struct {
	Animations []FrameSet `yaml:"animations"`
}

// FrameTable maps frame-set keys to their definitions. Loaded once; systems
// that need per-frame lookups hold their own FrameCache rather than sharing
// package-level state.
type FrameTable struct {
	sets map[string]*FrameSet
}

// LoadFrameTable loads animation_list.yaml.
func LoadFrameTable(path string) (*FrameTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read animation list %s: %w", path, err)
	}
	var file frameListFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse animation list: %w", err)
	}
	t := &FrameTable{sets: make(map[string]*FrameSet, len(file.Animations))}
	for i := range file.Animations {
		set := &file.Animations[i]
		if set.DurationMs <= 0 {
			set.DurationMs = defaultFrameDurationMs
		}
		t.sets[set.Key] = set
	}
	return t, nil
}

func (t *FrameTable) Get(key string) (*FrameSet, bool) {
	s, ok := t.sets[key]
	return s, ok
}

func (t *FrameTable) Count() int {
	return len(t.sets)
}

// FrameCache is an explicit per-system lookup cache over a FrameTable. Each
// consumer owns its own instance; there is no shared package-level cache.
type FrameCache struct {
	table *FrameTable
	hot   map[string]*FrameSet
}

func NewFrameCache(table *FrameTable) *FrameCache {
	return &FrameCache{
		table: table,
		hot:   make(map[string]*FrameSet, 32),
	}
}

// Lookup returns the frame set for a key, memoizing hits and misses alike so
// repeated lookups stay off the table map. A miss caches nil.
func (c *FrameCache) Lookup(key string) *FrameSet {
	if s, ok := c.hot[key]; ok {
		return s
	}
	s, _ := c.table.Get(key)
	c.hot[key] = s
	return s
}
