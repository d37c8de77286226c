// Package breath implements the breath timing state machine: breath is
// derived from the timestamps bounding the current phase, never accumulated
// per tick, so skipped ticks and clock jumps cannot desynchronize it.
package breath

import "math"

// Never is the next-damage time of a state that schedules no damage.
const Never int64 = math.MaxInt64

// State tracks one entity's breathing phase. A nil *State is the canonical
// "full breath, not tracked" value.
//
// All times are game-clock milliseconds.
type State struct {
	IsBreathing bool
	// StartTime is back-dated so that interpolating between StartTime and
	// EndTime reproduces the breath carried over from the previous phase.
	StartTime      int64
	EndTime        int64
	NextDamageTime int64
}

// Progress returns the completed fraction of the current phase in [0,1].
// A zero-length phase is already complete.
func (s *State) Progress(now int64) float64 {
	if s.EndTime <= s.StartTime {
		return 1
	}
	f := float64(now-s.StartTime) / float64(s.EndTime-s.StartTime)
	return clamp01(f)
}

// RemainingBreath returns the fraction of breath capacity left at now. It
// rises while breathing and falls while not. A zero-length phase reports a
// full breath.
func (s *State) RemainingBreath(now int64) float64 {
	if s.EndTime <= s.StartTime {
		return 1
	}
	f := s.Progress(now)
	if s.IsBreathing {
		return f
	}
	return 1 - f
}

func clamp01(f float64) float64 {
	switch {
	case math.IsNaN(f), f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}
