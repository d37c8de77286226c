package world

import "time"

// GameClock is the single authoritative game clock in milliseconds. It only
// moves forward.
type GameClock struct {
	now int64
}

func NewGameClock(startMs int64) *GameClock {
	return &GameClock{now: startMs}
}

func (c *GameClock) NowMs() int64 { return c.now }

// Advance moves the clock forward by dt. Negative durations are ignored.
func (c *GameClock) Advance(dt time.Duration) int64 {
	if ms := dt.Milliseconds(); ms > 0 {
		c.now += ms
	}
	return c.now
}

// Set jumps the clock to ms if that is not in the past.
func (c *GameClock) Set(ms int64) {
	if ms > c.now {
		c.now = ms
	}
}
