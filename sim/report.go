package sim

import (
	"github.com/plus3/tickcore/collision"
	"github.com/plus3/tickcore/ecs"
	"github.com/plus3/tickcore/projectile"
	"github.com/plus3/tickcore/status"
)

// DamageEvent records damage applied to an entity carrying a health attribute.
type DamageEvent struct {
	Target ecs.EntityId `json:"target"`
	Source ecs.EntityId `json:"source,omitempty"`
	Amount float64      `json:"amount"`
	// Cause is the projectile kind, effect name or "contact".
	Cause  string  `json:"cause"`
	Health float64 `json:"health"`
}

// Death is reported once for every entity whose health reached zero.
type Death struct {
	Entity   ecs.EntityId `json:"entity"`
	Type     string       `json:"type"`
	Position ecs.Vec2     `json:"position"`
	Killer   ecs.EntityId `json:"killer,omitempty"`
	Cause    string       `json:"cause"`
}

// TickReport is everything observable that happened during one tick. Slices
// are owned by the caller.
type TickReport struct {
	Tick           uint64                 `json:"tick"`
	Time           float64                `json:"time"`
	Collisions     []collision.Event      `json:"collisions,omitempty"`
	Impacts        []projectile.Impact    `json:"impacts,omitempty"`
	Expirations    []projectile.Expired   `json:"expirations,omitempty"`
	ExpiredEffects []status.ExpiredEffect `json:"expired_effects,omitempty"`
	Damage         []DamageEvent          `json:"damage,omitempty"`
	Deaths         []Death                `json:"deaths,omitempty"`
	Errors         []error                `json:"-"`
}

// Empty reports whether nothing happened during the tick
func (r *TickReport) Empty() bool {
	return len(r.Collisions) == 0 && len(r.Impacts) == 0 && len(r.Expirations) == 0 &&
		len(r.ExpiredEffects) == 0 && len(r.Damage) == 0 && len(r.Deaths) == 0 && len(r.Errors) == 0
}
