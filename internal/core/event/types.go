package event

import (
	"github.com/l1jgo/breathing/internal/breath"
	"github.com/l1jgo/breathing/internal/core/ecs"
)

// EnteredBlock is emitted by the movement sampler when the medium in one of an
// entity's body cells changes. RelativeY is the cell's height above the feet.
type EnteredBlock struct {
	Entity    ecs.EntityID
	RelativeY int32
	OldMedium breath.Medium
	NewMedium breath.Medium
}

// BreathChanged is emitted after every transition or removal. State is nil
// when tracking stopped.
type BreathChanged struct {
	Entity ecs.EntityID
	Key    string
	NowMs  int64
	State  *breath.State
}

// DrowningDamage is emitted once damage has been applied to an entity.
type DrowningDamage struct {
	Entity ecs.EntityID
	Key    string
	NowMs  int64
	Amount uint32
	Medium breath.Medium
	HP     int32
}

// EntityDied is emitted when drowning damage brings an entity to 0 HP.
type EntityDied struct {
	Entity ecs.EntityID
	Key    string
	NowMs  int64
	Cause  string
}
