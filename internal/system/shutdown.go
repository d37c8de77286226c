package system

import (
	"go.uber.org/zap"

	"github.com/l1jgo/breathing/internal/core/event"
)

const shutdownDrainRounds = 8

// Shutdown delivers the events raised during the final tick, then writes
// every pending breath change. Call it before closing the audit log.
func Shutdown(bus *event.Bus, ps *PersistenceSystem, log *zap.Logger) {
	if n := bus.Drain(shutdownDrainRounds); n > 0 {
		log.Warn("events dropped at shutdown", zap.Int("pending", n))
	}
	ps.SaveAll()
	if n := ps.Dirty(); n > 0 {
		log.Warn("breath states not saved", zap.Int("pending", n))
	}
}
