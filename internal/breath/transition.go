package breath

import "math"

// maxPhaseMs bounds a single phase so that absurd rates cannot overflow the
// timestamps computed from it.
const maxPhaseMs = int64(1) << 52

// Transition recomputes an entity's state when the medium at its head changes
// between breathable and non-breathable.
//
// prev is never modified. The result is:
//   - prev itself when prev already reflects the requested phase;
//   - nil when no tracking is needed (breathable with no state, or breath
//     already full on re-entering a breathable medium);
//   - a new State otherwise, back-dated so RemainingBreath(now) carries on
//     from where prev left off.
func Transition(prev *State, now int64, c Capacity, enteringBreathable bool) *State {
	if prev == nil && enteringBreathable {
		return nil
	}
	if prev != nil && prev.IsBreathing == enteringBreathable {
		return prev
	}

	current := 1.0
	if prev != nil {
		current = prev.RemainingBreath(now)
	}
	if enteringBreathable && current >= 1 {
		return nil
	}

	progress := current
	scale := c.BreathRechargeRate
	if !enteringBreathable {
		progress = 1 - current
		scale = 1
	}

	elapsed, remaining := phaseDurations(c.BreathCapacityMs, progress, scale)
	next := &State{
		IsBreathing: enteringBreathable,
		StartTime:   now - elapsed,
		EndTime:     now + remaining,
	}
	if enteringBreathable {
		next.NextDamageTime = Never
	} else {
		next.NextDamageTime = addMs(next.EndTime, c.DamageIntervalMs)
	}
	return next
}

// phaseDurations splits a phase of capacityMs/scale into the part already
// elapsed at progress and the part left. Zero, negative or NaN scales collapse
// the phase to zero length.
func phaseDurations(capacityMs uint32, progress, scale float64) (elapsed, remaining int64) {
	if capacityMs == 0 || !(scale > 0) || math.IsInf(scale, 0) {
		return 0, 0
	}
	progress = clamp01(progress)
	total := float64(capacityMs) / scale
	return toMs(total * progress), toMs(total * (1 - progress))
}

func toMs(f float64) int64 {
	if !(f > 0) {
		return 0
	}
	if f >= float64(maxPhaseMs) {
		return maxPhaseMs
	}
	return int64(math.Round(f))
}

// addMs adds d to t, saturating at Never.
func addMs(t int64, d uint32) int64 {
	if t > Never-int64(d) {
		return Never
	}
	return t + int64(d)
}
