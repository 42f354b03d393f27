package system

import (
	"time"

	"github.com/hollowbrook/engine/internal/core/event"
	coresys "github.com/hollowbrook/engine/internal/core/system"
)

// EventDispatchSystem rotates the event bus buffers and delivers last tick's
// events. Phase 0 (PreUpdate), so every other system observes a consistent
// event view for the whole tick.
type EventDispatchSystem struct {
	bus *event.Bus
}

func NewEventDispatchSystem(bus *event.Bus) *EventDispatchSystem {
	return &EventDispatchSystem{bus: bus}
}

func (s *EventDispatchSystem) Phase() coresys.Phase { return coresys.PhasePreUpdate }

func (s *EventDispatchSystem) Update(_ time.Duration) {
	s.bus.SwapBuffers()
	s.bus.DispatchAll()
}
