package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseClock      Phase = iota // 0: advance the game clock
	PhaseInput                   // 1: apply movement, sample media at head level
	PhasePreUpdate               // 2: dispatch events (medium transitions)
	PhaseUpdate                  // 3: breath evaluation
	PhasePostUpdate              // 4: apply queued damage, deaths
	PhaseOutput                  // 5: audit log flush
	PhasePersist                 // 6: batch save of dirty breath states
	PhaseCleanup                 // 7: destroy queued entities
)

func (p Phase) String() string {
	switch p {
	case PhaseClock:
		return "clock"
	case PhaseInput:
		return "input"
	case PhasePreUpdate:
		return "pre-update"
	case PhaseUpdate:
		return "update"
	case PhasePostUpdate:
		return "post-update"
	case PhaseOutput:
		return "output"
	case PhasePersist:
		return "persist"
	case PhaseCleanup:
		return "cleanup"
	}
	return "unknown"
}

// System is the interface every ECS system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
