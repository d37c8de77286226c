package system

import (
	"go.uber.org/zap"

	"github.com/l1jgo/breathing/internal/breath"
	"github.com/l1jgo/breathing/internal/core/event"
	"github.com/l1jgo/breathing/internal/scripting"
	"github.com/l1jgo/breathing/internal/world"
)

// BreathTransitions reacts to medium changes at head level by moving the
// entity between breathing and not breathing.
type BreathTransitions struct {
	world    *world.State
	lua      *scripting.Engine
	notifier *Notifier
	log      *zap.Logger
}

// NewBreathTransitions creates the handler and subscribes it to EnteredBlock.
func NewBreathTransitions(ws *world.State, bus *event.Bus, lua *scripting.Engine, n *Notifier, log *zap.Logger) *BreathTransitions {
	t := &BreathTransitions{world: ws, lua: lua, notifier: n, log: log}
	event.Subscribe(bus, t.OnEnteredBlock)
	return t
}

func (t *BreathTransitions) OnEnteredBlock(ev event.EnteredBlock) {
	id := ev.Entity
	body, ok := t.world.Bodies.Get(id)
	if !ok || !body.IsHeadLevel(ev.RelativeY) {
		return
	}
	drowns, ok := t.world.Drowns.Get(id)
	if !ok {
		return
	}
	if h, ok := t.world.Healths.Get(id); ok && h.Dead {
		return
	}

	breathable := t.lua.IsBreathable(ev.NewMedium, drowns.Breathes, drowns.Capacity)
	now := t.world.Clock.NowMs()
	prev, _ := t.world.Breath.Get(id)
	next := breath.Transition(prev, now, drowns.Capacity, breathable)
	if next == prev {
		return
	}

	if next == nil {
		t.world.Breath.Remove(id)
	} else {
		t.world.Breath.Set(id, next)
	}
	t.notifier.Changed(id, next)

	if ce := t.log.Check(zap.DebugLevel, "breath transition"); ce != nil {
		fields := []zap.Field{
			zap.String("entity", body.Key),
			zap.String("medium", string(ev.NewMedium)),
			zap.Bool("breathing", breathable),
			zap.Int64("now_ms", now),
		}
		if next != nil {
			fields = append(fields, zap.Int64("end_ms", next.EndTime), zap.Float64("breath", next.RemainingBreath(now)))
		}
		ce.Write(fields...)
	}
}
