package status

import "github.com/plus3/tickcore/ecs"

// Names of the preset effects.
const (
	NameDamageBuff = "damage_buff"
	NameSlow       = "slow"
	NamePoison     = "poison"
	NameStun       = "stun"
)

// DefaultDefinitions declares the presets: damage buffs keep the strongest,
// slows refresh, poison stacks and stuns do not extend.
func DefaultDefinitions() []Definition {
	return []Definition{
		{Name: NameDamageBuff, Type: Buff, Stacking: StackReplaceIfStronger},
		{Name: NameSlow, Type: Debuff, Stacking: StackRefresh},
		{Name: NamePoison, Type: DamageOverTime, Stacking: StackStack},
		{Name: NameStun, Type: CrowdControl, Stacking: StackNone},
	}
}

// DamageBuff multiplies outgoing damage by magnitude.
func DamageBuff(target ecs.EntityId, magnitude, duration float64) Application {
	return Application{Entity: target, Name: NameDamageBuff, Type: Buff, Magnitude: magnitude, Duration: duration}
}

// SlowDebuff scales movement speed by magnitude (0.5 halves it).
func SlowDebuff(target ecs.EntityId, magnitude, duration float64) Application {
	return Application{Entity: target, Name: NameSlow, Type: Debuff, Magnitude: magnitude, Duration: duration}
}

// PoisonDot deals magnitude damage per second.
func PoisonDot(target ecs.EntityId, magnitude, duration float64) Application {
	return Application{Entity: target, Name: NamePoison, Type: DamageOverTime, Magnitude: magnitude, Duration: duration}
}

// StunCC freezes movement for duration.
func StunCC(target ecs.EntityId, duration float64) Application {
	return Application{Entity: target, Name: NameStun, Type: CrowdControl, Magnitude: 1, Duration: duration}
}
