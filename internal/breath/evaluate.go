package breath

// Action is the outcome of evaluating a State against the clock.
type Action int

const (
	NoOp Action = iota
	// RemoveState means breath is full again and tracking should stop.
	RemoveState
	// ApplyDamage means a drowning damage tick is due.
	ApplyDamage
)

func (a Action) String() string {
	switch a {
	case NoOp:
		return "noop"
	case RemoveState:
		return "remove"
	case ApplyDamage:
		return "damage"
	}
	return "unknown"
}

// Result carries the evaluated action and the state the caller should keep.
// State is meaningless for RemoveState.
type Result struct {
	Action Action
	Damage uint32
	State  State
}

// Evaluate checks s at now. It has no side effects; the caller applies damage
// and stores or drops the returned state.
//
// At most one damage tick is reported per call even if now has overshot
// several intervals. The next tick is scheduled from the previous due time,
// not from now, so a late tick does not shift the damage rate.
func Evaluate(s State, now int64, c Capacity) Result {
	if s.IsBreathing {
		if now > s.EndTime {
			return Result{Action: RemoveState}
		}
		return Result{Action: NoOp, State: s}
	}
	if now > s.NextDamageTime {
		s.NextDamageTime = addMs(s.NextDamageTime, c.DamageIntervalMs)
		return Result{Action: ApplyDamage, Damage: c.DamagePerTick, State: s}
	}
	return Result{Action: NoOp, State: s}
}
