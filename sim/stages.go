package sim

import (
	"math"

	"github.com/plus3/tickcore/collision"
	"github.com/plus3/tickcore/ecs"
	"github.com/plus3/tickcore/status"
)

// AttrContactDamage is the damage an entity deals to whatever it collides
// with, once per tick of contact.
const AttrContactDamage = "contact_damage"

const causeContact = "contact"

// statusStage applies damage over time and expires effects.
type statusStage struct{ w *World }

func (s *statusStage) Name() string { return "status" }

func (s *statusStage) Execute(frame *ecs.UpdateFrame) {
	w := s.w
	w.effects.Prune(w.store)

	dt := frame.DeltaTime
	w.effects.ForEach(func(e *status.Effect) bool {
		if e.Type == status.DamageOverTime && e.Magnitude > 0 {
			w.damage(e.Entity, e.Source, e.Magnitude*math.Min(dt, e.Remaining), e.Name)
		}
		return true
	})

	w.report.ExpiredEffects = w.effects.UpdateEffects(dt, frame.Time)
}

// motionStage integrates every non-projectile entity. Projectiles are moved
// by their own system.
type motionStage struct{ w *World }

func (s *motionStage) Name() string { return "motion" }

func (s *motionStage) Execute(frame *ecs.UpdateFrame) {
	w := s.w
	dt := frame.DeltaTime
	w.store.ForEach(func(e *ecs.Entity) bool {
		if w.projectiles.IsProjectile(e.Id) || w.effects.HasEffect(e.Id, status.NameStun) {
			return true
		}

		fx := w.terrain.EffectsAt(e.Position)
		if drag := e.Drag + fx.ExtraDrag; drag > 0 {
			e.Velocity = e.Velocity.Scale(math.Max(0, 1-drag*dt))
		}

		factor := fx.FrictionMultiplier
		if w.effects.HasEffect(e.Id, status.NameSlow) {
			factor *= clamp01(w.effects.Magnitude(e.Id, status.NameSlow))
		}
		e.Position = e.Position.Add(e.Velocity.Scale(factor * dt))
		return true
	})
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// collisionStage reports every overlapping pair and applies contact damage.
// Pairs involving a projectile are left to the projectile stage.
type collisionStage struct {
	w        *World
	entities []*ecs.Entity
}

func (s *collisionStage) Name() string { return "collision" }

func (s *collisionStage) Execute(frame *ecs.UpdateFrame) {
	w := s.w
	s.entities = w.collisions.Gather(w.store, s.entities[:0])
	events := w.collisions.Detect(s.entities)
	w.report.Collisions = events

	for _, ev := range events {
		if w.projectiles.IsProjectile(ev.A) || w.projectiles.IsProjectile(ev.B) {
			continue
		}
		s.contact(ev)
	}
	clear(s.entities)
}

func (s *collisionStage) contact(ev collision.Event) {
	a, okA := s.w.store.Get(ev.A)
	b, okB := s.w.store.Get(ev.B)
	if !okA || !okB {
		return
	}
	if dmg := a.Attrs.NumOr(AttrContactDamage, 0); dmg > 0 {
		s.w.damage(b.Id, a.Id, dmg, causeContact)
	}
	if dmg := b.Attrs.NumOr(AttrContactDamage, 0); dmg > 0 {
		s.w.damage(a.Id, b.Id, dmg, causeContact)
	}
}

// projectileStage resolves projectiles. Impact damage is scaled by the
// owner's damage buff.
type projectileStage struct{ w *World }

func (s *projectileStage) Name() string { return "projectile" }

func (s *projectileStage) Execute(frame *ecs.UpdateFrame) {
	w := s.w
	res := w.projectiles.Update(frame.DeltaTime)
	w.report.Impacts = res.Impacts
	w.report.Expirations = res.Expirations

	for _, imp := range res.Impacts {
		amount := imp.Damage
		if buff := w.effects.Magnitude(imp.Owner, status.NameDamageBuff); buff > 0 {
			amount *= buff
		}
		w.damage(imp.Target, imp.Owner, amount, imp.Kind)
	}
}

// damageStage applies the tick's damage in the order it was dealt and
// despawns whatever runs out of health. Entities without a health attribute
// are indestructible.
type damageStage struct{ w *World }

func (s *damageStage) Name() string { return "damage" }

func (s *damageStage) Execute(frame *ecs.UpdateFrame) {
	w := s.w
	for _, d := range w.ledger {
		e, ok := w.store.Get(d.Target)
		if !ok {
			continue
		}
		hp, ok := e.Attrs.Num(ecs.AttrHealth)
		if !ok {
			continue
		}
		hp -= d.Amount
		e.Attrs.SetNum(ecs.AttrHealth, hp)
		d.Health = hp
		w.report.Damage = append(w.report.Damage, d)

		if hp > 0 {
			continue
		}
		death := Death{
			Entity:   e.Id,
			Type:     e.Type,
			Position: e.Position,
			Killer:   d.Source,
			Cause:    d.Cause,
		}
		frame.Report(w.store.Despawn(e.Id))
		w.effects.ClearEntity(e.Id)
		w.report.Deaths = append(w.report.Deaths, death)
		w.log.Debug("entity died", "entity", death.Entity, "type", death.Type, "killer", death.Killer, "cause", death.Cause)
	}
	clear(w.ledger)
	w.ledger = w.ledger[:0]
}

func (w *World) damage(target, source ecs.EntityId, amount float64, cause string) {
	if amount <= 0 {
		return
	}
	w.ledger = append(w.ledger, DamageEvent{Target: target, Source: source, Amount: amount, Cause: cause})
}
