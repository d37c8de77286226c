package system

import (
	"time"

	"github.com/l1jgo/breathing/internal/core/event"
	coresys "github.com/l1jgo/breathing/internal/core/system"
)

// EventDispatchSystem swaps the bus buffers and delivers queued events.
// Phase 2 (PreUpdate), so medium changes sampled this tick are handled before
// breath is evaluated.
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
