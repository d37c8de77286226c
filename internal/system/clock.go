package system

import (
	"time"

	coresys "github.com/l1jgo/breathing/internal/core/system"
	"github.com/l1jgo/breathing/internal/world"
)

// ClockSystem advances the game clock by the tick duration. Phase 0 (Clock).
type ClockSystem struct {
	clock *world.GameClock
}

func NewClockSystem(clock *world.GameClock) *ClockSystem {
	return &ClockSystem{clock: clock}
}

func (s *ClockSystem) Phase() coresys.Phase { return coresys.PhaseClock }

func (s *ClockSystem) Update(dt time.Duration) {
	s.clock.Advance(dt)
}
