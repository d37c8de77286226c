package breath

// Capacity is the per-entity breath configuration. It is owned by the entity
// and does not change while a State exists for it.
type Capacity struct {
	// BreathCapacityMs is the time to fully deplete a full breath.
	BreathCapacityMs uint32
	// BreathRechargeRate scales recharge speed relative to depletion.
	BreathRechargeRate float64
	DamageIntervalMs   uint32
	DamagePerTick      uint32
	Breathes           MediumSet
}

// CanBreathe reports whether m is one of the configured breathable media.
func (c Capacity) CanBreathe(m Medium) bool {
	return c.Breathes.Has(m)
}
