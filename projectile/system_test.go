package projectile_test

import (
	"math"
	"testing"

	"github.com/plus3/tickcore/collision"
	"github.com/plus3/tickcore/ecs"
	"github.com/plus3/tickcore/projectile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const slug = "slug"

type fixture struct {
	store       *ecs.Store
	collisions  *collision.System
	projectiles *projectile.System
}

func slugTemplate() projectile.Template {
	return projectile.Template{
		Kind:       slug,
		EntityType: "bullet",
		Damage:     5,
		Speed:      1,
		Radius:     0.5,
		Budget:     projectile.BudgetTime,
		Lifetime:   2,
	}
}

func newFixture(t *testing.T, templates ...projectile.Template) *fixture {
	t.Helper()
	store, err := ecs.NewStore(
		ecs.PoolConfig{Type: "ship", Max: 8},
		ecs.PoolConfig{Type: "enemy", Max: 32},
		ecs.PoolConfig{Type: "asteroid", Max: 32},
		ecs.PoolConfig{Type: "bullet", Max: 8},
		ecs.PoolConfig{Type: "missile", Max: 8},
		ecs.PoolConfig{Type: "decor", Max: 8},
	)
	require.NoError(t, err)

	collisions, err := collision.NewSystem(collision.Config{Groups: collision.SpaceCombatGroups()})
	require.NoError(t, err)

	if len(templates) == 0 {
		templates = append(projectile.DefaultTemplates(), slugTemplate())
	}
	projectiles, err := projectile.NewSystem(store, collisions, templates...)
	require.NoError(t, err)

	return &fixture{store: store, collisions: collisions, projectiles: projectiles}
}

func (f *fixture) spawn(t *testing.T, tag string, x, y, r float64, faction string) ecs.EntityId {
	t.Helper()
	state := ecs.SpawnState{Position: ecs.Vec2{X: x, Y: y}, Radius: r}
	if faction != "" {
		state.Strs = map[string]string{ecs.AttrFaction: faction}
	}
	id, err := f.store.Spawn(tag, state)
	require.NoError(t, err)
	return id
}

func (f *fixture) fire(t *testing.T, req projectile.FireRequest) ecs.EntityId {
	t.Helper()
	if req.Kind == "" {
		req.Kind = slug
	}
	id, err := f.projectiles.Fire(req)
	require.NoError(t, err)
	return id
}

func TestExpiresAfterLifetime(t *testing.T) {
	f := newFixture(t)
	id := f.fire(t, projectile.FireRequest{Direction: ecs.Vec2{X: 1}})

	res := f.projectiles.Update(1.0)
	assert.Empty(t, res.Impacts)
	assert.Empty(t, res.Expirations)
	p, ok := f.projectiles.Get(id)
	require.True(t, ok)
	assert.Equal(t, projectile.StateInFlight, p.State)
	assert.Equal(t, 1.0, p.Remaining)

	res = f.projectiles.Update(1.0)
	assert.Empty(t, res.Impacts)
	require.Len(t, res.Expirations, 1)
	assert.Equal(t, id, res.Expirations[0].Projectile)
	assert.Equal(t, slug, res.Expirations[0].Kind)
	assert.Equal(t, ecs.Vec2{X: 2}, res.Expirations[0].Position)

	assert.False(t, f.store.Contains(id), "terminal projectiles are despawned the same tick")
	assert.Equal(t, 0, f.projectiles.Len())

	res = f.projectiles.Update(1.0)
	assert.Empty(t, res.Expirations, "at most one outcome per projectile")
}

func TestImpactBeatsExpiry(t *testing.T) {
	f := newFixture(t)
	target := f.spawn(t, "enemy", 2, 0, 0.5, "")
	id := f.fire(t, projectile.FireRequest{Direction: ecs.Vec2{X: 1}})

	res := f.projectiles.Update(1.0)
	assert.Empty(t, res.Impacts, "touching after the first tick is not a hit")
	assert.Empty(t, res.Expirations)

	res = f.projectiles.Update(1.0)
	assert.Empty(t, res.Expirations)
	require.Len(t, res.Impacts, 1)

	impact := res.Impacts[0]
	assert.Equal(t, id, impact.Projectile)
	assert.Equal(t, target, impact.Target)
	assert.Equal(t, 5.0, impact.Damage)
	assert.False(t, f.store.Contains(id))
	assert.True(t, f.store.Contains(target), "the projectile system never despawns targets")

	stats := f.projectiles.Stats()
	assert.Equal(t, uint64(1), stats.Impacted)
	assert.Equal(t, uint64(0), stats.Expired)
}

func TestFirstEventWins(t *testing.T) {
	f := newFixture(t)
	first := f.spawn(t, "enemy", 1, 0, 1, "")
	second := f.spawn(t, "enemy", 1, 0.5, 1, "")
	f.fire(t, projectile.FireRequest{Direction: ecs.Vec2{X: 1}})

	res := f.projectiles.Update(1.0)
	require.Len(t, res.Impacts, 1)
	assert.Equal(t, first, res.Impacts[0].Target)
	assert.NotEqual(t, second, res.Impacts[0].Target)
}

func TestOwnerAndFactionExcluded(t *testing.T) {
	f := newFixture(t)
	owner := f.spawn(t, "enemy", 0, 0, 3, "pirates")
	ally := f.spawn(t, "enemy", 1, 0, 3, "pirates")
	id := f.fire(t, projectile.FireRequest{Owner: owner, Direction: ecs.Vec2{X: 1}})

	p, _ := f.projectiles.Get(id)
	assert.Equal(t, "pirates", p.Faction, "faction captured from the owner")

	res := f.projectiles.Update(1.0)
	assert.Empty(t, res.Impacts)

	navy := f.spawn(t, "enemy", 1, 1, 3, "navy")
	res = f.projectiles.Update(0.1)
	require.Len(t, res.Impacts, 1)
	assert.Equal(t, navy, res.Impacts[0].Target)
	assert.Equal(t, owner, res.Impacts[0].Owner)
	assert.True(t, f.store.Contains(ally))
}

func TestFactionOverrideStillSparesOwnerAllies(t *testing.T) {
	f := newFixture(t)
	owner := f.spawn(t, "enemy", 0, 0, 3, "pirates")
	ally := f.spawn(t, "enemy", 1, 0, 3, "pirates")
	id := f.fire(t, projectile.FireRequest{Owner: owner, Faction: "navy", Direction: ecs.Vec2{X: 1}})

	p, ok := f.projectiles.Get(id)
	require.True(t, ok)
	assert.Equal(t, "navy", p.Faction)
	assert.Equal(t, "pirates", p.OwnerFaction)

	res := f.projectiles.Update(1.0)
	assert.Empty(t, res.Impacts, "the owner's allies are never hit")

	navy := f.spawn(t, "enemy", 1, -1, 3, "navy")
	res = f.projectiles.Update(0.1)
	assert.Empty(t, res.Impacts, "nor is the projectile's own faction")
	assert.True(t, f.store.Contains(navy))

	rock := f.spawn(t, "asteroid", 1.5, 0, 1, "")
	res = f.projectiles.Update(0.1)
	require.Len(t, res.Impacts, 1)
	assert.Equal(t, rock, res.Impacts[0].Target)
	assert.True(t, f.store.Contains(ally))
}

func TestTrackedProjectileSparesOwnerAllies(t *testing.T) {
	f := newFixture(t)
	owner := f.spawn(t, "enemy", -10, 0, 1, "pirates")
	ally := f.spawn(t, "enemy", 1, 0, 1, "pirates")
	id := f.spawn(t, "bullet", 0, 0, 0.5, "")
	e, _ := f.store.Get(id)
	e.Velocity = ecs.Vec2{X: 1}

	require.NoError(t, f.projectiles.Track(projectile.Projectile{Entity: id, Owner: owner, Kind: "debris", Remaining: 5}))
	p, _ := f.projectiles.Get(id)
	assert.Equal(t, "pirates", p.OwnerFaction)
	assert.Empty(t, p.Faction)

	res := f.projectiles.Update(1.0)
	assert.Empty(t, res.Impacts)

	// the exclusion outlives the owner
	require.NoError(t, f.store.Despawn(owner))
	f.store.Sweep()
	res = f.projectiles.Update(0.1)
	assert.Empty(t, res.Impacts)

	rock := f.spawn(t, "asteroid", 1.5, 0, 1, "")
	res = f.projectiles.Update(0.1)
	require.Len(t, res.Impacts, 1)
	assert.Equal(t, rock, res.Impacts[0].Target)
	assert.Equal(t, owner, res.Impacts[0].Owner)
	assert.True(t, f.store.Contains(ally))
}

func TestOnlyGroupedPairsHit(t *testing.T) {
	f := newFixture(t)
	f.spawn(t, "ship", 1, 0, 3, "")  // player ships are not in the projectile groups
	f.spawn(t, "decor", 1, 0, 3, "") // ungrouped
	f.fire(t, projectile.FireRequest{Direction: ecs.Vec2{X: 1}})
	f.fire(t, projectile.FireRequest{Direction: ecs.Vec2{X: 1}})

	res := f.projectiles.Update(1.0)
	assert.Empty(t, res.Impacts, "projectiles never hit each other or ungrouped types")

	rock := f.spawn(t, "asteroid", 1.5, 0, 1, "")
	res = f.projectiles.Update(0.5)
	require.Len(t, res.Impacts, 2)
	assert.Equal(t, rock, res.Impacts[0].Target)
	assert.Equal(t, rock, res.Impacts[1].Target)
}

func TestDistanceBudget(t *testing.T) {
	tmpl := slugTemplate()
	tmpl.Budget = projectile.BudgetDistance
	tmpl.Range = 10
	tmpl.Speed = 4
	f := newFixture(t, tmpl)

	f.fire(t, projectile.FireRequest{Direction: ecs.Vec2{X: 0, Y: 3}})

	assert.Empty(t, f.projectiles.Update(1).Expirations)
	assert.Empty(t, f.projectiles.Update(1).Expirations)
	res := f.projectiles.Update(1)
	require.Len(t, res.Expirations, 1)
	assert.InDelta(t, 12.0, res.Expirations[0].Position.Y, 1e-9)
}

func TestContinuousPreventsTunnelling(t *testing.T) {
	fast := slugTemplate()
	fast.Speed = 100
	fast.Lifetime = 10
	swept := fast
	swept.Kind = "swept"
	swept.Continuous = true

	f := newFixture(t, fast, swept)
	near := f.spawn(t, "enemy", 30, 0, 1, "")
	far := f.spawn(t, "enemy", 60, 0, 1, "")

	f.fire(t, projectile.FireRequest{Kind: slug, Direction: ecs.Vec2{X: 1}})
	sweptID := f.fire(t, projectile.FireRequest{Kind: "swept", Direction: ecs.Vec2{X: 1}})

	res := f.projectiles.Update(1)
	require.Len(t, res.Impacts, 1, "the discrete projectile tunnels through")
	assert.Equal(t, sweptID, res.Impacts[0].Projectile)
	assert.Equal(t, near, res.Impacts[0].Target, "closest crossed target wins")
	assert.NotEqual(t, far, res.Impacts[0].Target)
	assert.Equal(t, 1, f.projectiles.Len())
}

func TestTrackedSteering(t *testing.T) {
	homing := slugTemplate()
	homing.Kind = "homing"
	homing.EntityType = "missile"
	homing.Motion = projectile.Tracked
	homing.Speed = 10
	homing.Lifetime = 30
	homing.TurnRate = math.Pi / 2

	f := newFixture(t, homing)
	target := f.spawn(t, "enemy", 0, 1000, 1, "")
	id := f.fire(t, projectile.FireRequest{Kind: "homing", Direction: ecs.Vec2{X: 1}, Target: target})

	f.projectiles.Update(0.5)
	e, ok := f.store.Get(id)
	require.True(t, ok)
	heading := math.Atan2(e.Velocity.Y, e.Velocity.X)
	assert.InDelta(t, math.Pi/4, heading, 1e-9, "turn is limited by the turn rate")
	assert.InDelta(t, 10.0, e.Velocity.Len(), 1e-9)

	f.projectiles.Update(0.5)
	heading = math.Atan2(e.Velocity.Y, e.Velocity.X)
	assert.Greater(t, heading, math.Pi/4)

	// losing the target leaves the missile flying straight
	require.NoError(t, f.store.Despawn(target))
	f.store.Sweep()
	before := e.Velocity
	f.projectiles.Update(0.5)
	assert.Equal(t, before, e.Velocity)
	p, _ := f.projectiles.Get(id)
	assert.Equal(t, ecs.EntityId(0), p.Target)
}

func TestLeadAim(t *testing.T) {
	f := newFixture(t)
	target := f.spawn(t, "enemy", 100, 0, 1, "")
	e, _ := f.store.Get(target)
	e.Velocity = ecs.Vec2{Y: 50}

	direct := f.fire(t, projectile.FireRequest{Kind: projectile.Laser, Target: target})
	led := f.fire(t, projectile.FireRequest{Kind: projectile.Laser, Target: target, Lead: true})

	d, _ := f.store.Get(direct)
	l, _ := f.store.Get(led)
	assert.InDelta(t, 0.0, d.Velocity.Y, 1e-9)
	assert.Greater(t, l.Velocity.Y, 0.0)
	assert.InDelta(t, 1200.0, l.Velocity.Len(), 1e-6)

	var hits []ecs.EntityId
	for i := 0; i < 30; i++ {
		e.Position = e.Position.Add(e.Velocity.Scale(1.0 / 60))
		for _, impact := range f.projectiles.Update(1.0 / 60).Impacts {
			hits = append(hits, impact.Projectile)
		}
	}
	assert.Equal(t, []ecs.EntityId{led}, hits, "only the led shot reaches the moving target")
}

func TestInheritVelocity(t *testing.T) {
	f := newFixture(t)
	owner := f.spawn(t, "ship", 0, 0, 1, "player")
	e, _ := f.store.Get(owner)
	e.Velocity = ecs.Vec2{X: 3}

	id := f.fire(t, projectile.FireRequest{Owner: owner, Direction: ecs.Vec2{X: 1}, InheritVelocity: true})
	p, _ := f.store.Get(id)
	assert.Equal(t, ecs.Vec2{X: 4}, p.Velocity)
	faction, _ := p.Attrs.Str(ecs.AttrFaction)
	assert.Equal(t, "player", faction)
	assert.Equal(t, 5.0, p.Attrs.NumOr(projectile.AttrDamage, 0))
}

func TestOrphanedProjectile(t *testing.T) {
	f := newFixture(t)
	id := f.fire(t, projectile.FireRequest{Direction: ecs.Vec2{X: 1}})

	require.NoError(t, f.store.Despawn(id))
	res := f.projectiles.Update(5)
	assert.Empty(t, res.Impacts)
	assert.Empty(t, res.Expirations)

	stats := f.projectiles.Stats()
	assert.Equal(t, uint64(1), stats.Orphaned)
	assert.Equal(t, 0, stats.Active)
}

func TestFireErrors(t *testing.T) {
	f := newFixture(t)

	_, err := f.projectiles.Fire(projectile.FireRequest{Kind: "railgun", Direction: ecs.Vec2{X: 1}})
	assert.ErrorIs(t, err, projectile.ErrUnknownTemplate)

	_, err = f.projectiles.Fire(projectile.FireRequest{Kind: slug})
	assert.ErrorIs(t, err, projectile.ErrNoHeading)

	for i := 0; i < 8; i++ {
		f.fire(t, projectile.FireRequest{Direction: ecs.Vec2{X: 1}})
	}
	_, err = f.projectiles.Fire(projectile.FireRequest{Kind: slug, Direction: ecs.Vec2{X: 1}})
	assert.ErrorIs(t, err, ecs.ErrPoolExhausted)
	assert.Equal(t, 8, f.projectiles.Len())
}

func TestTrack(t *testing.T) {
	f := newFixture(t)
	id := f.spawn(t, "bullet", 0, 0, 0.5, "")
	e, _ := f.store.Get(id)
	e.Velocity = ecs.Vec2{X: 1}

	require.NoError(t, f.projectiles.Track(projectile.Projectile{Entity: id, Kind: "debris", Remaining: 1}))
	assert.ErrorIs(t, f.projectiles.Track(projectile.Projectile{Entity: id}), projectile.ErrAlreadyTracked)
	assert.ErrorIs(t, f.projectiles.Track(projectile.Projectile{Entity: ecs.NewEntityId(4, 9, 7)}), ecs.ErrStaleEntity)

	res := f.projectiles.Update(1)
	require.Len(t, res.Expirations, 1)
	assert.Equal(t, "debris", res.Expirations[0].Kind)
}

func TestClearAndStats(t *testing.T) {
	f := newFixture(t)
	f.spawn(t, "enemy", 2, 0, 1, "")
	f.fire(t, projectile.FireRequest{Direction: ecs.Vec2{X: 1}})
	f.fire(t, projectile.FireRequest{Direction: ecs.Vec2{X: -1}})
	f.fire(t, projectile.FireRequest{Direction: ecs.Vec2{Y: 1}})

	f.projectiles.Update(1)
	f.projectiles.Update(1)

	stats := f.projectiles.Stats()
	assert.Equal(t, uint64(3), stats.Fired)
	assert.Equal(t, uint64(1), stats.Impacted)
	assert.Equal(t, uint64(2), stats.Expired)
	assert.InDelta(t, 1.0/3, stats.Accuracy(), 1e-9)

	id := f.fire(t, projectile.FireRequest{Direction: ecs.Vec2{X: 1}})
	f.projectiles.Clear()
	assert.Equal(t, 0, f.projectiles.Len())
	assert.False(t, f.store.Contains(id))
	assert.Empty(t, f.projectiles.Active())
}

func TestNewSystemValidation(t *testing.T) {
	store, err := ecs.NewStore(ecs.PoolConfig{Type: "bullet"}, ecs.PoolConfig{Type: "decor"})
	require.NoError(t, err)
	collisions, err := collision.NewSystem(collision.Config{Groups: []collision.Group{
		{Name: "shots", Types: []string{"bullet"}},
	}})
	require.NoError(t, err)

	valid := slugTemplate()
	mutate := func(fn func(*projectile.Template)) projectile.Template {
		tmpl := valid
		fn(&tmpl)
		return tmpl
	}

	tests := []struct {
		name      string
		templates []projectile.Template
	}{
		{"no kind", []projectile.Template{mutate(func(tp *projectile.Template) { tp.Kind = "" })}},
		{"duplicate", []projectile.Template{valid, valid}},
		{"unregistered type", []projectile.Template{mutate(func(tp *projectile.Template) { tp.EntityType = "ghost" })}},
		{"ungrouped type", []projectile.Template{mutate(func(tp *projectile.Template) { tp.EntityType = "decor" })}},
		{"no speed", []projectile.Template{mutate(func(tp *projectile.Template) { tp.Speed = 0 })}},
		{"no budget", []projectile.Template{mutate(func(tp *projectile.Template) { tp.Lifetime = 0 })}},
		{"bad motion", []projectile.Template{mutate(func(tp *projectile.Template) { tp.Motion = "zigzag" })}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := projectile.NewSystem(store, collisions, tt.templates...)
			assert.ErrorIs(t, err, projectile.ErrInvalidTemplate)
		})
	}

	sys, err := projectile.NewSystem(store, collisions, valid)
	require.NoError(t, err)
	assert.Equal(t, []string{slug}, sys.Kinds())
}
