package system

import (
	"time"

	"github.com/hollowbrook/engine/internal/component"
	"github.com/hollowbrook/engine/internal/core/ecs"
	coresys "github.com/hollowbrook/engine/internal/core/system"
	"github.com/hollowbrook/engine/internal/data"
	"github.com/hollowbrook/engine/internal/world"
)

// AnimationSystem advances animated tiles and retargets their sprite source
// rectangles. Phase 2 (PostUpdate). It owns its frame cache explicitly
// rather than sharing package-level lookup state.
type AnimationSystem struct {
	world *world.State
	cache *data.FrameCache
}

func NewAnimationSystem(ws *world.State, frames *data.FrameTable) *AnimationSystem {
	return &AnimationSystem{
		world: ws,
		cache: data.NewFrameCache(frames),
	}
}

func (s *AnimationSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *AnimationSystem) Update(dt time.Duration) {
	ms := dt.Milliseconds()
	ecs.Each2(s.world.Anims, s.world.Sprites, func(_ ecs.EntityID, anim *component.TileAnim, spr *component.TileSprite) {
		set := s.cache.Lookup(anim.FrameSet)
		if set == nil || len(set.Frames) == 0 {
			return
		}
		anim.ElapsedMs += ms
		if anim.ElapsedMs < set.DurationMs {
			return
		}
		anim.ElapsedMs = 0
		anim.Frame = (anim.Frame + 1) % len(set.Frames)
		frame := set.Frames[anim.Frame]
		spr.SrcX = frame.SrcX
		spr.SrcY = frame.SrcY
	})
}
