package system

import (
	"time"

	coresys "github.com/hollowbrook/engine/internal/core/system"
	"github.com/hollowbrook/engine/internal/stream"
)

// StreamingSystem runs the streaming coordinator once per tick. Phase 1
// (Update).
type StreamingSystem struct {
	coord *stream.Coordinator
}

func NewStreamingSystem(coord *stream.Coordinator) *StreamingSystem {
	return &StreamingSystem{coord: coord}
}

func (s *StreamingSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *StreamingSystem) Update(_ time.Duration) {
	s.coord.Tick()
}
