package projectile

import "github.com/plus3/tickcore/ecs"

// Attribute names written onto projectile entities.
const (
	AttrDamage = "damage"
	AttrKind   = "projectile_kind"
)

// State is the lifecycle state of a projectile.
type State uint8

const (
	StateInFlight State = iota
	StateImpacted
	StateExpired
)

func (s State) String() string {
	switch s {
	case StateImpacted:
		return "impacted"
	case StateExpired:
		return "expired"
	default:
		return "in_flight"
	}
}

// Projectile is the bookkeeping kept for one projectile entity. It refers to
// its owner and target by id only; both are re-resolved every tick.
//
// Targets tagged with either Faction or OwnerFaction are never hit.
// OwnerFaction follows the live owner and keeps its last value once the owner
// is gone.
type Projectile struct {
	Entity       ecs.EntityId
	Owner        ecs.EntityId
	Faction      string
	OwnerFaction string
	Target       ecs.EntityId
	Kind         string
	Damage       float64
	Remaining    float64
	Budget       BudgetKind
	Motion       Motion
	TurnRate     float64
	Speed        float64
	Continuous   bool
	State        State
}

// FireRequest asks the system to launch a projectile. With a live Target and
// a zero Direction the shot is aimed at the target; Lead aims at the intercept
// point instead. Faction tags the projectile; it never lifts the exclusion of
// the owner's own faction.
type FireRequest struct {
	Kind      string
	Owner     ecs.EntityId
	Faction   string
	Origin    ecs.Vec2
	Direction ecs.Vec2
	Target    ecs.EntityId
	Lead      bool
	// InheritVelocity adds the owner's velocity to the muzzle velocity.
	InheritVelocity bool
}

// Impact is emitted when a projectile hits a valid target.
type Impact struct {
	Projectile ecs.EntityId `json:"projectile"`
	Target     ecs.EntityId `json:"target"`
	Owner      ecs.EntityId `json:"owner"`
	Kind       string       `json:"kind"`
	Damage     float64      `json:"damage"`
	Position   ecs.Vec2     `json:"position"`
}

// Expired is emitted when a projectile runs out of budget without a hit.
type Expired struct {
	Projectile ecs.EntityId `json:"projectile"`
	Owner      ecs.EntityId `json:"owner"`
	Kind       string       `json:"kind"`
	Position   ecs.Vec2     `json:"position"`
}

// Result holds the outcomes of one Update, each list in fire order.
type Result struct {
	Impacts     []Impact
	Expirations []Expired
}

// Stats holds lifetime counters.
type Stats struct {
	Active   int
	Fired    uint64
	Impacted uint64
	Expired  uint64
	// Orphaned counts projectiles whose entity was despawned by someone else.
	Orphaned uint64
}

// Accuracy is the fraction of resolved projectiles that hit something.
func (s Stats) Accuracy() float64 {
	resolved := s.Impacted + s.Expired
	if resolved == 0 {
		return 0
	}
	return float64(s.Impacted) / float64(resolved)
}
