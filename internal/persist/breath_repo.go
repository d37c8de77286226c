package persist

import (
	"context"

	"github.com/l1jgo/breathing/internal/breath"
)

// BreathRepo stores breath states by stable entity key. A missing row is the
// "full breath" baseline.
type BreathRepo interface {
	Save(ctx context.Context, key string, s breath.State) error
	Delete(ctx context.Context, key string) error
	// Load returns (nil, nil) when no row exists.
	Load(ctx context.Context, key string) (*breath.State, error)
	LoadAll(ctx context.Context) (map[string]breath.State, error)
}

// nextDamageColumn stores breath.Never as NULL.
func nextDamageColumn(s breath.State) *int64 {
	if s.NextDamageTime == breath.Never {
		return nil
	}
	v := s.NextDamageTime
	return &v
}

func stateFromColumns(isBreathing bool, startMs, endMs int64, nextDamage *int64) breath.State {
	s := breath.State{
		IsBreathing:    isBreathing,
		StartTime:      startMs,
		EndTime:        endMs,
		NextDamageTime: breath.Never,
	}
	if nextDamage != nil {
		s.NextDamageTime = *nextDamage
	}
	return s
}
