package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/l1jgo/breathing/internal/breath"
	"github.com/l1jgo/breathing/internal/core/event"
	coresys "github.com/l1jgo/breathing/internal/core/system"
	"github.com/l1jgo/breathing/internal/persist"
)

// AuditSystem records breath events to the audit log and flushes it once per
// tick. Phase 5 (Output).
type AuditSystem struct {
	out *persist.AuditLog
	log *zap.Logger
}

// NewAuditSystem creates the system and subscribes it to breath events.
func NewAuditSystem(bus *event.Bus, out *persist.AuditLog, log *zap.Logger) *AuditSystem {
	s := &AuditSystem{out: out, log: log}
	event.Subscribe(bus, s.onBreathChanged)
	event.Subscribe(bus, s.onDrowningDamage)
	event.Subscribe(bus, s.onEntityDied)
	return s
}

func (s *AuditSystem) Phase() coresys.Phase { return coresys.PhaseOutput }

func (s *AuditSystem) Update(_ time.Duration) {
	if err := s.out.Flush(); err != nil {
		s.log.Error("flush audit log", zap.Error(err))
	}
}

func (s *AuditSystem) write(rec persist.AuditRecord) {
	if err := s.out.Write(rec); err != nil {
		s.log.Error("write audit record", zap.String("kind", rec.Kind), zap.Error(err))
	}
}

func (s *AuditSystem) onBreathChanged(ev event.BreathChanged) {
	rec := persist.AuditRecord{NowMs: ev.NowMs, Kind: "breath", Entity: ev.Key}
	if ev.State == nil {
		rec.Cleared = true
	} else {
		st := *ev.State
		rec.IsBreathing = &st.IsBreathing
		rec.StartMs = &st.StartTime
		rec.EndMs = &st.EndTime
		if st.NextDamageTime != breath.Never {
			rec.NextDamageMs = &st.NextDamageTime
		}
	}
	s.write(rec)
}

func (s *AuditSystem) onDrowningDamage(ev event.DrowningDamage) {
	hp := ev.HP
	s.write(persist.AuditRecord{
		NowMs:  ev.NowMs,
		Kind:   "damage",
		Entity: ev.Key,
		Amount: ev.Amount,
		Medium: string(ev.Medium),
		HP:     &hp,
	})
}

func (s *AuditSystem) onEntityDied(ev event.EntityDied) {
	s.write(persist.AuditRecord{NowMs: ev.NowMs, Kind: "died", Entity: ev.Key, Cause: ev.Cause})
}
