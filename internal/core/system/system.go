package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhasePreUpdate  Phase = iota // 0: deliver last tick's events
	PhaseUpdate                  // 1: streaming + simulation
	PhasePostUpdate              // 2: animation, derived state
	PhaseCleanup                 // 3: destroy queued entities
)

// System is implemented by every unit the runner ticks.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
