package projectile

import (
	"github.com/plus3/tickcore/collision"
	"github.com/plus3/tickcore/ecs"
)

// Update advances every in-flight projectile by dt and resolves it. For each
// projectile a hit is checked before its budget, so a projectile that hits
// on the tick its budget runs out is reported as an impact. Terminal
// projectiles are despawned and forgotten in the same call.
func (s *System) Update(dt float64) Result {
	var result Result
	if len(s.inFlight) == 0 {
		return result
	}

	s.from.Clear()
	s.hits.Clear()

	live := s.inFlight[:0]
	for _, p := range s.inFlight {
		e, ok := s.store.Get(p.Entity)
		if !ok {
			s.index.Del(p.Entity)
			s.orphaned++
			continue
		}
		s.advance(p, e, dt)
		live = append(live, p)
	}
	clear(s.inFlight[len(live):])
	s.inFlight = live

	s.entities = s.collisions.Gather(s.store, s.entities[:0])
	for _, ev := range s.collisions.DetectFunc(s.entities, s.acceptPair) {
		s.recordHit(ev.A, ev.B)
		s.recordHit(ev.B, ev.A)
	}

	live = s.inFlight[:0]
	for _, p := range s.inFlight {
		e, _ := s.store.Get(p.Entity)

		target, hit := s.hits.Get(p.Entity)
		if !hit && p.Continuous {
			target, hit = s.sweep(p, e)
		}

		switch {
		case hit:
			p.State = StateImpacted
			s.impacted++
			result.Impacts = append(result.Impacts, Impact{
				Projectile: p.Entity,
				Target:     target,
				Owner:      p.Owner,
				Kind:       p.Kind,
				Damage:     p.Damage,
				Position:   e.Position,
			})
		case p.Remaining <= 0:
			p.State = StateExpired
			s.expired++
			result.Expirations = append(result.Expirations, Expired{
				Projectile: p.Entity,
				Owner:      p.Owner,
				Kind:       p.Kind,
				Position:   e.Position,
			})
		default:
			live = append(live, p)
			continue
		}

		_ = s.store.Despawn(p.Entity)
		s.index.Del(p.Entity)
	}
	clear(s.inFlight[len(live):])
	s.inFlight = live

	return result
}

func (s *System) advance(p *Projectile, e *ecs.Entity, dt float64) {
	if owner, ok := s.store.Get(p.Owner); ok {
		p.OwnerFaction, _ = owner.Attrs.Str(ecs.AttrFaction)
	}
	if p.Motion == Tracked && p.Target != 0 {
		if target, ok := s.store.Get(p.Target); ok {
			e.Velocity = steer(e.Velocity, target.Position.Sub(e.Position), p.Speed, p.TurnRate*dt)
		} else {
			p.Target = 0
		}
	}

	s.from.Put(p.Entity, e.Position)
	step := e.Velocity.Scale(dt)
	e.Position = e.Position.Add(step)

	if p.Budget == BudgetDistance {
		p.Remaining -= step.Len()
	} else {
		p.Remaining -= dt
	}
}

// recordHit keeps the first qualifying event for projectile id.
func (s *System) recordHit(id, other ecs.EntityId) {
	if !s.index.Has(id) || s.hits.Has(id) {
		return
	}
	s.hits.Put(id, other)
}

// acceptPair restricts detection to projectile vs valid target.
func (s *System) acceptPair(a, b *ecs.Entity) bool {
	pa, aIsProjectile := s.index.Get(a.Id)
	pb, bIsProjectile := s.index.Get(b.Id)
	switch {
	case aIsProjectile && bIsProjectile:
		return false
	case aIsProjectile:
		return s.validTarget(pa, b)
	case bIsProjectile:
		return s.validTarget(pb, a)
	}
	return false
}

func (s *System) validTarget(p *Projectile, target *ecs.Entity) bool {
	if target.Id == p.Owner || target.Id == p.Entity {
		return false
	}
	faction, ok := target.Attrs.Str(ecs.AttrFaction)
	if !ok || faction == "" {
		return true
	}
	return faction != p.Faction && faction != p.OwnerFaction
}

// sweep finds the first valid target crossed by the segment travelled this
// tick, closest to the start of the segment, ties to the lower id.
func (s *System) sweep(p *Projectile, e *ecs.Entity) (ecs.EntityId, bool) {
	from, _ := s.from.Get(p.Entity)
	matrix := s.collisions.Matrix()

	var (
		best     ecs.EntityId
		bestDist float64
	)
	for _, target := range s.entities {
		if !target.Active || s.index.Has(target.Id) {
			continue
		}
		if !matrix.CanCollide(e.Type, target.Type) || !s.validTarget(p, target) {
			continue
		}
		if !collision.SweptHit(from, e.Position, e.Radius, target) {
			continue
		}
		d := target.Position.Dist(from)
		if best == 0 || d < bestDist || (d == bestDist && target.Id < best) {
			best, bestDist = target.Id, d
		}
	}
	return best, best != 0
}

// Get returns a copy of the in-flight projectile backed by entity id
func (s *System) Get(id ecs.EntityId) (Projectile, bool) {
	if p, ok := s.index.Get(id); ok {
		return *p, true
	}
	return Projectile{}, false
}

// IsProjectile reports whether id is an in-flight projectile
func (s *System) IsProjectile(id ecs.EntityId) bool {
	return s.index.Has(id)
}

// Active returns copies of the in-flight projectiles in fire order
func (s *System) Active() []Projectile {
	out := make([]Projectile, len(s.inFlight))
	for i, p := range s.inFlight {
		out[i] = *p
	}
	return out
}

// Len returns the number of in-flight projectiles
func (s *System) Len() int {
	return len(s.inFlight)
}

// Clear despawns every in-flight projectile without reporting outcomes.
func (s *System) Clear() {
	for _, p := range s.inFlight {
		_ = s.store.Despawn(p.Entity)
	}
	clear(s.inFlight)
	s.inFlight = s.inFlight[:0]
	s.index.Clear()
}

// Stats returns the lifetime counters.
func (s *System) Stats() Stats {
	return Stats{
		Active:   len(s.inFlight),
		Fired:    s.fired,
		Impacted: s.impacted,
		Expired:  s.expired,
		Orphaned: s.orphaned,
	}
}
