package projectile

// BudgetKind selects what a projectile's lifetime is measured in.
type BudgetKind string

const (
	BudgetTime     BudgetKind = "time"
	BudgetDistance BudgetKind = "distance"
)

// Motion selects how a projectile moves between ticks.
type Motion string

const (
	Straight Motion = "straight"
	// Tracked projectiles turn towards their target, limited by TurnRate.
	Tracked Motion = "tracked"
)

// Template describes one kind of projectile. Speeds are in units per second
// and TurnRate in radians per second; a non-positive TurnRate turns instantly.
type Template struct {
	Kind       string     `json:"kind" jsonschema:"minLength=1"`
	EntityType string     `json:"entity_type" jsonschema:"minLength=1"`
	Damage     float64    `json:"damage"`
	Speed      float64    `json:"speed" jsonschema:"minimum=0,exclusiveMinimum=true"`
	Radius     float64    `json:"radius"`
	Budget     BudgetKind `json:"budget,omitempty" jsonschema:"enum=time,enum=distance"`
	Lifetime   float64    `json:"lifetime,omitempty"`
	Range      float64    `json:"range,omitempty"`
	Motion     Motion     `json:"motion,omitempty" jsonschema:"enum=straight,enum=tracked"`
	TurnRate   float64    `json:"turn_rate,omitempty"`
	Visual     string     `json:"visual,omitempty"`
	// Continuous enables the swept test so fast movers cannot tunnel through
	// small targets between ticks.
	Continuous bool `json:"continuous,omitempty"`
}

func (t Template) budget() float64 {
	if t.Budget == BudgetDistance {
		return t.Range
	}
	return t.Lifetime
}

// Template kinds shipped with DefaultTemplates.
const (
	Kinetic  = "kinetic"
	Laser    = "laser"
	Plasma   = "plasma"
	Missile  = "missile"
	Particle = "particle"
)

// DefaultTemplates returns the stock weapon table. Every kind is range
// limited; missiles home in on their target.
func DefaultTemplates() []Template {
	return []Template{
		{Kind: Kinetic, EntityType: "bullet", Damage: 10, Speed: 480, Radius: 2, Budget: BudgetDistance, Range: 400, Visual: "kinetic"},
		{Kind: Laser, EntityType: "bullet", Damage: 15, Speed: 1200, Radius: 1, Budget: BudgetDistance, Range: 600, Visual: "laser", Continuous: true},
		{Kind: Plasma, EntityType: "bullet", Damage: 20, Speed: 360, Radius: 3, Budget: BudgetDistance, Range: 300, Visual: "plasma"},
		{Kind: Missile, EntityType: "missile", Damage: 30, Speed: 240, Radius: 4, Budget: BudgetDistance, Range: 500, Motion: Tracked, TurnRate: 3, Visual: "missile"},
		{Kind: Particle, EntityType: "bullet", Damage: 8, Speed: 720, Radius: 1.5, Budget: BudgetDistance, Range: 350, Visual: "particle", Continuous: true},
	}
}
