package system

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/l1jgo/breathing/internal/breath"
	"github.com/l1jgo/breathing/internal/core/ecs"
	coresys "github.com/l1jgo/breathing/internal/core/system"
	"github.com/l1jgo/breathing/internal/persist"
	"github.com/l1jgo/breathing/internal/world"
)

// PersistenceSystem collects breath changes and periodically writes them to
// the repository. A nil entry deletes the stored row. Phase 6 (Persist).
type PersistenceSystem struct {
	world     *world.State
	repo      persist.BreathRepo
	log       *zap.Logger
	dirty     map[string]*breath.State
	tickCount int
	interval  int // flush every N ticks
}

func NewPersistenceSystem(ws *world.State, repo persist.BreathRepo, log *zap.Logger, intervalTicks int) *PersistenceSystem {
	if intervalTicks < 1 {
		intervalTicks = 1
	}
	return &PersistenceSystem{
		world:    ws,
		repo:     repo,
		log:      log,
		dirty:    make(map[string]*breath.State),
		interval: intervalTicks,
	}
}

func (s *PersistenceSystem) Phase() coresys.Phase { return coresys.PhasePersist }

// BreathChanged marks the entity dirty. Only the latest state per key is kept.
func (s *PersistenceSystem) BreathChanged(_ ecs.EntityID, key string, st *breath.State) {
	if key == "" {
		return
	}
	s.dirty[key] = st
}

// Dirty returns the number of keys waiting to be written.
func (s *PersistenceSystem) Dirty() int {
	return len(s.dirty)
}

func (s *PersistenceSystem) Update(_ time.Duration) {
	s.tickCount++
	if s.tickCount < s.interval {
		return
	}
	s.tickCount = 0
	s.flush()
}

// SaveAll writes every pending change immediately. Called on graceful shutdown.
func (s *PersistenceSystem) SaveAll() {
	s.flush()
}

func (s *PersistenceSystem) flush() {
	if len(s.dirty) == 0 {
		return
	}
	keys := make([]string, 0, len(s.dirty))
	for k := range s.dirty {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	saved := 0
	for _, key := range keys {
		st := s.dirty[key]
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		var err error
		if st == nil {
			err = s.repo.Delete(ctx, key)
		} else {
			err = s.repo.Save(ctx, key, *st)
		}
		cancel()
		if err != nil {
			// kept dirty, retried next flush
			s.log.Error("persist breath state failed", zap.String("entity", key), zap.Error(err))
			continue
		}
		delete(s.dirty, key)
		saved++
	}
	s.log.Debug("breath states persisted", zap.Int("count", saved), zap.Int("pending", len(s.dirty)))
}

// Restore loads stored breath states for entities that are alive and can
// drown. Rows for unknown keys are left in place.
func (s *PersistenceSystem) Restore(ctx context.Context) (int, error) {
	all, err := s.repo.LoadAll(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for key, st := range all {
		id, ok := s.world.ByKey(key)
		if !ok || !s.world.Drowns.Has(id) {
			s.log.Debug("skip stored breath state", zap.String("entity", key))
			continue
		}
		restored := st
		s.world.Breath.Set(id, &restored)
		n++
	}
	return n, nil
}
