package system

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/l1jgo/breathing/internal/breath"
	"github.com/l1jgo/breathing/internal/core/ecs"
	"github.com/l1jgo/breathing/internal/core/event"
	coresys "github.com/l1jgo/breathing/internal/core/system"
	"github.com/l1jgo/breathing/internal/world"
)

// Move relocates an entity's feet to Pos once the game clock reaches AtMs.
type Move struct {
	AtMs int64
	Key  string
	Pos  world.Vec3i
}

// MovementSystem applies scheduled moves and samples the medium in every body
// cell, emitting EnteredBlock for each cell whose medium changed. Phase 1 (Input).
type MovementSystem struct {
	world   *world.State
	bus     *event.Bus
	log     *zap.Logger
	pending []Move
}

func NewMovementSystem(ws *world.State, bus *event.Bus, log *zap.Logger) *MovementSystem {
	return &MovementSystem{world: ws, bus: bus, log: log}
}

func (s *MovementSystem) Phase() coresys.Phase { return coresys.PhaseInput }

// Schedule queues moves. Moves due at the same time apply in the order given.
func (s *MovementSystem) Schedule(moves ...Move) {
	s.pending = append(s.pending, moves...)
	sort.SliceStable(s.pending, func(i, j int) bool { return s.pending[i].AtMs < s.pending[j].AtMs })
}

// Pending returns the number of moves not yet applied.
func (s *MovementSystem) Pending() int {
	return len(s.pending)
}

func (s *MovementSystem) Update(_ time.Duration) {
	now := s.world.Clock.NowMs()
	n := 0
	for n < len(s.pending) && s.pending[n].AtMs <= now {
		m := s.pending[n]
		n++
		id, ok := s.world.ByKey(m.Key)
		if !ok {
			s.log.Warn("move for unknown entity", zap.String("entity", m.Key), zap.Int64("at_ms", m.AtMs))
			continue
		}
		s.MoveTo(id, m.Pos)
	}
	s.pending = s.pending[n:]
}

// Place samples every body cell of a freshly spawned or restored entity as if
// it had just entered them.
func (s *MovementSystem) Place(id ecs.EntityID) {
	b, ok := s.world.Bodies.Get(id)
	if !ok {
		return
	}
	for y, m := range s.sample(b, b.Pos) {
		s.emit(id, int32(y), "", m)
	}
}

// MoveTo relocates an entity now.
func (s *MovementSystem) MoveTo(id ecs.EntityID, pos world.Vec3i) {
	b, ok := s.world.Bodies.Get(id)
	if !ok {
		return
	}
	before := s.sample(b, b.Pos)
	after := s.sample(b, pos)
	b.Pos = pos
	for y := range after {
		if before[y] != after[y] {
			s.emit(id, int32(y), before[y], after[y])
		}
	}
}

func (s *MovementSystem) sample(b *world.Body, pos world.Vec3i) []breath.Medium {
	cells := make([]breath.Medium, b.Cells())
	for y := range cells {
		cells[y] = s.world.Terrain.MediumAt(pos.Add(world.Vec3i{Y: int32(y)}))
	}
	return cells
}

func (s *MovementSystem) emit(id ecs.EntityID, relY int32, from, to breath.Medium) {
	event.Emit(s.bus, event.EnteredBlock{
		Entity:    id,
		RelativeY: relY,
		OldMedium: from,
		NewMedium: to,
	})
}
