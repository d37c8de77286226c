package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/l1jgo/breathing/internal/breath"
	"github.com/l1jgo/breathing/internal/core/ecs"
	coresys "github.com/l1jgo/breathing/internal/core/system"
	"github.com/l1jgo/breathing/internal/scripting"
	"github.com/l1jgo/breathing/internal/world"
)

// DrowningSystem evaluates every tracked breath state against the game clock.
// Full breath stops tracking; a due damage tick goes to the DamageSink.
// Phase 3 (Update).
//
// Only one damage tick is dealt per entity per evaluation, so the tick rate
// must stay below the shortest damage interval for damage not to lag behind.
type DrowningSystem struct {
	world    *world.State
	lua      *scripting.Engine
	notifier *Notifier
	damage   DamageSink
	log      *zap.Logger
}

func NewDrowningSystem(ws *world.State, lua *scripting.Engine, n *Notifier, damage DamageSink, log *zap.Logger) *DrowningSystem {
	return &DrowningSystem{world: ws, lua: lua, notifier: n, damage: damage, log: log}
}

func (s *DrowningSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *DrowningSystem) Update(_ time.Duration) {
	now := s.world.Clock.NowMs()
	ecs.Each2(s.world.Breath, s.world.Drowns, func(id ecs.EntityID, st *breath.State, dr *world.Drowns) {
		res := breath.Evaluate(*st, now, dr.Capacity)
		switch res.Action {
		case breath.RemoveState:
			s.world.Breath.Remove(id)
			s.notifier.Changed(id, nil)
			s.log.Debug("breath recovered", zap.String("entity", s.world.KeyOf(id)), zap.Int64("now_ms", now))

		case breath.ApplyDamage:
			*st = res.State
			s.notifier.Changed(id, st)

			medium := s.world.HeadMedium(id)
			species := ""
			if b, ok := s.world.Bodies.Get(id); ok {
				species = b.Species
			}
			amount := s.lua.DrownDamage(res.Damage, species, medium)
			s.damage.ApplyDamage(id, amount, medium)
		}
	})
}
