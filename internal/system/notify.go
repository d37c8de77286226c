package system

import (
	"github.com/l1jgo/breathing/internal/breath"
	"github.com/l1jgo/breathing/internal/core/ecs"
	"github.com/l1jgo/breathing/internal/core/event"
	"github.com/l1jgo/breathing/internal/world"
)

// BreathObserver is told about every breath transition or removal. s is a
// copy owned by the observer, nil when tracking stopped.
type BreathObserver interface {
	BreathChanged(id ecs.EntityID, key string, s *breath.State)
}

// DamageSink receives drowning damage for an entity.
type DamageSink interface {
	ApplyDamage(id ecs.EntityID, amount uint32, medium breath.Medium)
}

// Notifier fans breath changes out to observers and the event bus.
type Notifier struct {
	world     *world.State
	bus       *event.Bus
	observers []BreathObserver
}

func NewNotifier(ws *world.State, bus *event.Bus, observers ...BreathObserver) *Notifier {
	return &Notifier{world: ws, bus: bus, observers: observers}
}

// Changed reports the entity's new breath state (nil for removal).
func (n *Notifier) Changed(id ecs.EntityID, s *breath.State) {
	key := n.world.KeyOf(id)
	for _, o := range n.observers {
		o.BreathChanged(id, key, copyState(s))
	}
	if n.bus != nil {
		event.Emit(n.bus, event.BreathChanged{
			Entity: id,
			Key:    key,
			NowMs:  n.world.Clock.NowMs(),
			State:  copyState(s),
		})
	}
}

func copyState(s *breath.State) *breath.State {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
