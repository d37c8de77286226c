package world

import (
	"fmt"

	"github.com/l1jgo/breathing/internal/breath"
	"github.com/l1jgo/breathing/internal/core/ecs"
)

// State is the host-side record of every simulated entity. Accessed only from
// the game loop goroutine, no locks needed.
type State struct {
	ECS     *ecs.World
	Clock   *GameClock
	Terrain *Terrain

	Bodies  *ecs.PtrComponentStore[Body]
	Healths *ecs.PtrComponentStore[Health]
	Drowns  *ecs.PtrComponentStore[Drowns]
	// Breath holds the tracked breath state; absence means full breath.
	Breath *ecs.PtrComponentStore[breath.State]

	keys map[string]ecs.EntityID
}

func NewState(clock *GameClock, terrain *Terrain) *State {
	ws := &State{
		ECS:     ecs.NewWorld(),
		Clock:   clock,
		Terrain: terrain,
		Bodies:  ecs.NewPtrComponentStore[Body](),
		Healths: ecs.NewPtrComponentStore[Health](),
		Drowns:  ecs.NewPtrComponentStore[Drowns](),
		Breath:  ecs.NewPtrComponentStore[breath.State](),
		keys:    make(map[string]ecs.EntityID),
	}
	reg := ws.ECS.Registry()
	reg.Register(ws.Bodies)
	reg.Register(ws.Healths)
	reg.Register(ws.Drowns)
	reg.Register(ws.Breath)
	ws.ECS.OnDestroy(func(id ecs.EntityID) {
		if b, ok := ws.Bodies.Get(id); ok && ws.keys[b.Key] == id {
			delete(ws.keys, b.Key)
		}
	})
	return ws
}

// Spawn creates an entity with a body and health. Keys are unique among live
// entities.
func (ws *State) Spawn(body Body, maxHP int32) (ecs.EntityID, error) {
	if body.Key == "" {
		return 0, fmt.Errorf("spawn: empty entity key")
	}
	if _, dup := ws.keys[body.Key]; dup {
		return 0, fmt.Errorf("spawn %s: key already in use", body.Key)
	}
	id := ws.ECS.CreateEntity()
	b := body
	ws.Bodies.Set(id, &b)
	ws.Healths.Set(id, &Health{HP: maxHP, MaxHP: maxHP})
	ws.keys[body.Key] = id
	return id, nil
}

// ByKey finds a live entity by its stable key.
func (ws *State) ByKey(key string) (ecs.EntityID, bool) {
	id, ok := ws.keys[key]
	return id, ok
}

// KeyOf returns the stable key of an entity, or "" when it has no body.
func (ws *State) KeyOf(id ecs.EntityID) string {
	if b, ok := ws.Bodies.Get(id); ok {
		return b.Key
	}
	return ""
}

// HeadMedium returns the medium at the entity's head.
func (ws *State) HeadMedium(id ecs.EntityID) breath.Medium {
	b, ok := ws.Bodies.Get(id)
	if !ok {
		return ""
	}
	return ws.Terrain.MediumAt(b.HeadPos())
}

// Count returns the number of live entities.
func (ws *State) Count() int {
	return ws.ECS.Pool().Count()
}
