package projectile

import (
	"fmt"
	"math"
	"slices"

	"github.com/kamstrup/intmap"
	"github.com/plus3/tickcore/collision"
	"github.com/plus3/tickcore/ecs"
)

// System advances projectile entities and resolves them into Impact and
// Expired outcomes.
type System struct {
	store      *ecs.Store
	collisions *collision.System
	templates  map[string]Template
	kinds      []string

	inFlight []*Projectile
	index    *intmap.Map[ecs.EntityId, *Projectile]

	// per-update scratch
	from     *intmap.Map[ecs.EntityId, ecs.Vec2]
	hits     *intmap.Map[ecs.EntityId, ecs.EntityId]
	entities []*ecs.Entity

	fired    uint64
	impacted uint64
	expired  uint64
	orphaned uint64
}

// NewSystem validates templates against the store's pools and the collision
// groups. A projectile type outside every group could never hit anything.
func NewSystem(store *ecs.Store, collisions *collision.System, templates ...Template) (*System, error) {
	s := &System{
		store:      store,
		collisions: collisions,
		templates:  make(map[string]Template, len(templates)),
		index:      intmap.New[ecs.EntityId, *Projectile](128),
		from:       intmap.New[ecs.EntityId, ecs.Vec2](128),
		hits:       intmap.New[ecs.EntityId, ecs.EntityId](32),
	}

	for _, t := range templates {
		switch {
		case t.Kind == "":
			return nil, fmt.Errorf("%w: template without a kind", ErrInvalidTemplate)
		case s.hasTemplate(t.Kind):
			return nil, fmt.Errorf("%w: duplicate kind %q", ErrInvalidTemplate, t.Kind)
		case !store.HasType(t.EntityType):
			return nil, fmt.Errorf("%w: %q uses unregistered entity type %q", ErrInvalidTemplate, t.Kind, t.EntityType)
		case !collisions.Matrix().Has(t.EntityType):
			return nil, fmt.Errorf("%w: %q entity type %q is in no collision group", ErrInvalidTemplate, t.Kind, t.EntityType)
		case !(t.Speed > 0):
			return nil, fmt.Errorf("%w: %q speed must be positive", ErrInvalidTemplate, t.Kind)
		}
		if t.Budget == "" {
			t.Budget = BudgetTime
		}
		if t.Motion == "" {
			t.Motion = Straight
		}
		if t.Budget != BudgetTime && t.Budget != BudgetDistance {
			return nil, fmt.Errorf("%w: %q budget %q", ErrInvalidTemplate, t.Kind, t.Budget)
		}
		if t.Motion != Straight && t.Motion != Tracked {
			return nil, fmt.Errorf("%w: %q motion %q", ErrInvalidTemplate, t.Kind, t.Motion)
		}
		if !(t.budget() > 0) {
			return nil, fmt.Errorf("%w: %q has no %s budget", ErrInvalidTemplate, t.Kind, t.Budget)
		}
		s.templates[t.Kind] = t
		s.kinds = append(s.kinds, t.Kind)
	}
	return s, nil
}

func (s *System) hasTemplate(kind string) bool {
	_, ok := s.templates[kind]
	return ok
}

// Template returns the template registered for kind
func (s *System) Template(kind string) (Template, bool) {
	t, ok := s.templates[kind]
	return t, ok
}

// Kinds returns the registered template kinds in registration order
func (s *System) Kinds() []string {
	return slices.Clone(s.kinds)
}

// Fire spawns a projectile. The owner's faction is captured at fire time;
// the projectile carries the request's faction instead when one is named.
func (s *System) Fire(req FireRequest) (ecs.EntityId, error) {
	t, ok := s.templates[req.Kind]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownTemplate, req.Kind)
	}

	owner, ownerAlive := s.store.Get(req.Owner)
	var ownerFaction string
	if ownerAlive {
		ownerFaction, _ = owner.Attrs.Str(ecs.AttrFaction)
	}
	faction := req.Faction
	if faction == "" {
		faction = ownerFaction
	}

	heading := req.Direction
	target, targetAlive := s.store.Get(req.Target)
	if targetAlive && (heading.IsZero() || req.Lead) {
		heading = target.Position.Sub(req.Origin)
		if req.Lead {
			heading = leadAim(req.Origin, target.Position, target.Velocity, t.Speed)
		}
	}
	if heading.IsZero() {
		return 0, fmt.Errorf("%w: %q fired from %v", ErrNoHeading, req.Kind, req.Origin)
	}

	velocity := heading.Normalize().Scale(t.Speed)
	if req.InheritVelocity && ownerAlive {
		velocity = velocity.Add(owner.Velocity)
	}

	strs := map[string]string{AttrKind: t.Kind}
	if faction != "" {
		strs[ecs.AttrFaction] = faction
	}
	id, err := s.store.Spawn(t.EntityType, ecs.SpawnState{
		Position: req.Origin,
		Velocity: velocity,
		Radius:   t.Radius,
		Visual:   t.Visual,
		Nums:     map[string]float64{AttrDamage: t.Damage},
		Strs:     strs,
	})
	if err != nil {
		return 0, fmt.Errorf("fire %q: %w", req.Kind, err)
	}

	var tracked ecs.EntityId
	if targetAlive {
		tracked = req.Target
	}
	s.adopt(&Projectile{
		Entity:       id,
		Owner:        req.Owner,
		Faction:      faction,
		OwnerFaction: ownerFaction,
		Target:       tracked,
		Kind:         t.Kind,
		Damage:       t.Damage,
		Remaining:    t.budget(),
		Budget:       t.Budget,
		Motion:       t.Motion,
		TurnRate:     t.TurnRate,
		Speed:        t.Speed,
		Continuous:   t.Continuous,
	})
	return id, nil
}

// Track adopts an entity spawned elsewhere as an in-flight projectile. The
// owner's faction is read from the store when the owner is alive.
func (s *System) Track(p Projectile) error {
	if !s.store.Contains(p.Entity) {
		return fmt.Errorf("%w: %s", ecs.ErrStaleEntity, p.Entity)
	}
	if s.index.Has(p.Entity) {
		return fmt.Errorf("%w: %s", ErrAlreadyTracked, p.Entity)
	}
	if p.Budget == "" {
		p.Budget = BudgetTime
	}
	if p.Motion == "" {
		p.Motion = Straight
	}
	if owner, ok := s.store.Get(p.Owner); ok {
		p.OwnerFaction, _ = owner.Attrs.Str(ecs.AttrFaction)
	}
	p.State = StateInFlight
	s.adopt(&p)
	return nil
}

func (s *System) adopt(p *Projectile) {
	s.inFlight = append(s.inFlight, p)
	s.index.Put(p.Entity, p)
	s.fired++
}

// leadAim returns the heading that intercepts a target moving at constant
// velocity, or the direct heading when no intercept exists.
func leadAim(origin, pos, vel ecs.Vec2, speed float64) ecs.Vec2 {
	d := pos.Sub(origin)
	a := vel.Dot(vel) - speed*speed
	b := 2 * d.Dot(vel)
	c := d.Dot(d)

	var t float64
	if math.Abs(a) < 1e-9 {
		if b >= 0 {
			return d
		}
		t = -c / b
	} else {
		disc := b*b - 4*a*c
		if disc < 0 {
			return d
		}
		sq := math.Sqrt(disc)
		t1, t2 := (-b-sq)/(2*a), (-b+sq)/(2*a)
		t = math.Inf(1)
		for _, cand := range []float64{t1, t2} {
			if cand > 0 && cand < t {
				t = cand
			}
		}
		if math.IsInf(t, 1) {
			return d
		}
	}
	return d.Add(vel.Scale(t))
}

// steer turns velocity towards goal by at most maxTurn radians, keeping speed.
func steer(velocity, goal ecs.Vec2, speed, maxTurn float64) ecs.Vec2 {
	if goal.IsZero() {
		return velocity
	}
	want := math.Atan2(goal.Y, goal.X)
	if maxTurn > 0 && !velocity.IsZero() {
		have := math.Atan2(velocity.Y, velocity.X)
		diff := math.Remainder(want-have, 2*math.Pi)
		diff = max(-maxTurn, min(maxTurn, diff))
		want = have + diff
	}
	return ecs.Vec2{X: math.Cos(want) * speed, Y: math.Sin(want) * speed}
}
