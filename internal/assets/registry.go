package assets

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Registry is the texture side of the asset provider: raw texture bytes
// keyed by string. Decoding pixels is the renderer's concern; the streaming
// core only needs load-once blobs it can refcount and drop. Mutated only on
// the game loop goroutine.
type Registry struct {
	dir      string
	textures map[string][]byte
	log      *zap.Logger
}

func NewRegistry(textureDir string, log *zap.Logger) *Registry {
	return &Registry{
		dir:      textureDir,
		textures: make(map[string][]byte, 64),
		log:      log,
	}
}

// LoadTexture reads a texture file (path relative to the texture directory)
// and registers it under key. Loading an already-registered key is a no-op.
func (r *Registry) LoadTexture(key, path string) error {
	if _, ok := r.textures[key]; ok {
		return nil
	}
	full := filepath.Join(r.dir, path)
	raw, err := os.ReadFile(full)
	if err != nil {
		return fmt.Errorf("read texture %s: %w", full, err)
	}
	r.textures[key] = raw
	r.log.Debug("texture loaded", zap.String("key", key), zap.Int("bytes", len(raw)))
	return nil
}

// LoadTextureBytes registers pre-read texture bytes under key, used when the
// prefetcher already pulled the file off disk.
func (r *Registry) LoadTextureBytes(key string, data []byte) error {
	if _, ok := r.textures[key]; ok {
		return nil
	}
	if len(data) == 0 {
		return fmt.Errorf("texture %s: empty payload", key)
	}
	r.textures[key] = data
	return nil
}

func (r *Registry) HasTexture(key string) bool {
	_, ok := r.textures[key]
	return ok
}

// Texture returns the registered bytes for a key, or nil.
func (r *Registry) Texture(key string) []byte {
	return r.textures[key]
}

// UnregisterTexture drops a texture and reports whether it was present.
func (r *Registry) UnregisterTexture(key string) bool {
	if _, ok := r.textures[key]; !ok {
		return false
	}
	delete(r.textures, key)
	r.log.Debug("texture released", zap.String("key", key))
	return true
}

func (r *Registry) Count() int {
	return len(r.textures)
}
