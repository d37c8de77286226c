package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/l1jgo/breathing/internal/breath"
	"github.com/l1jgo/breathing/internal/core/ecs"
	"github.com/l1jgo/breathing/internal/core/event"
	coresys "github.com/l1jgo/breathing/internal/core/system"
	"github.com/l1jgo/breathing/internal/world"
)

// DamageDrowning is the cause recorded for drowning deaths.
const DamageDrowning = "drowning"

type pendingDamage struct {
	id     ecs.EntityID
	amount uint32
	medium breath.Medium
}

// HealthSystem applies queued drowning damage and handles deaths.
// Phase 4 (PostUpdate).
type HealthSystem struct {
	world    *world.State
	bus      *event.Bus
	notifier *Notifier
	log      *zap.Logger
	queue    []pendingDamage
}

func NewHealthSystem(ws *world.State, bus *event.Bus, log *zap.Logger) *HealthSystem {
	return &HealthSystem{world: ws, bus: bus, log: log}
}

// SetNotifier wires breath removal on death. The notifier usually observes
// persistence, which is built after the health system.
func (s *HealthSystem) SetNotifier(n *Notifier) {
	s.notifier = n
}

func (s *HealthSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

// ApplyDamage queues damage for this tick's PostUpdate phase.
func (s *HealthSystem) ApplyDamage(id ecs.EntityID, amount uint32, medium breath.Medium) {
	s.queue = append(s.queue, pendingDamage{id: id, amount: amount, medium: medium})
}

func (s *HealthSystem) Update(_ time.Duration) {
	now := s.world.Clock.NowMs()
	for _, d := range s.queue {
		h, ok := s.world.Healths.Get(d.id)
		if !ok || h.Dead || d.amount == 0 {
			continue
		}
		if int64(d.amount) >= int64(h.HP) {
			h.HP = 0
		} else {
			h.HP -= int32(d.amount)
		}
		key := s.world.KeyOf(d.id)
		event.Emit(s.bus, event.DrowningDamage{
			Entity: d.id,
			Key:    key,
			NowMs:  now,
			Amount: d.amount,
			Medium: d.medium,
			HP:     h.HP,
		})
		s.log.Debug("drowning damage",
			zap.String("entity", key),
			zap.Uint32("amount", d.amount),
			zap.String("medium", string(d.medium)),
			zap.Int32("hp", h.HP),
		)

		if h.HP > 0 {
			continue
		}
		h.Dead = true
		if s.world.Breath.Has(d.id) {
			s.world.Breath.Remove(d.id)
			if s.notifier != nil {
				s.notifier.Changed(d.id, nil)
			}
		}
		s.world.ECS.MarkForDestruction(d.id)
		event.Emit(s.bus, event.EntityDied{Entity: d.id, Key: key, NowMs: now, Cause: DamageDrowning})
		s.log.Info("entity drowned", zap.String("entity", key), zap.Int64("now_ms", now))
	}
	s.queue = s.queue[:0]
}
