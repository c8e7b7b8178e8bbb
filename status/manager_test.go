package status_test

import (
	"testing"

	"github.com/plus3/tickcore/ecs"
	"github.com/plus3/tickcore/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store   *ecs.Store
	manager *status.Manager
	e1, e2  ecs.EntityId
}

func newFixture(t *testing.T, defs ...status.Definition) *fixture {
	t.Helper()
	store, err := ecs.NewStore(ecs.PoolConfig{Type: "ship", Max: 16})
	require.NoError(t, err)

	if defs == nil {
		defs = status.DefaultDefinitions()
	}
	manager, err := status.NewManager(store, status.Config{Definitions: defs})
	require.NoError(t, err)

	e1, err := store.Spawn("ship", ecs.SpawnState{})
	require.NoError(t, err)
	e2, err := store.Spawn("ship", ecs.SpawnState{})
	require.NoError(t, err)

	return &fixture{store: store, manager: manager, e1: e1, e2: e2}
}

func TestRefreshSlow(t *testing.T) {
	f := newFixture(t)

	outcome, err := f.manager.ApplyEffect(f.e1, "slow", status.Debuff, 0.5, 5.0)
	require.NoError(t, err)
	assert.Equal(t, status.Added, outcome)

	// run the first instance down to 1.0 remaining
	f.manager.UpdateEffects(4.0, 4.0)
	effects := f.manager.EntityEffects(f.e1)
	require.Len(t, effects, 1)
	assert.InDelta(t, 1.0, effects[0].Remaining, 1e-9)

	outcome, err = f.manager.ApplyEffect(f.e1, "slow", status.Debuff, 0.3, 5.0)
	require.NoError(t, err)
	assert.Equal(t, status.Refreshed, outcome)

	effects = f.manager.EntityEffects(f.e1)
	require.Len(t, effects, 1, "refresh must not add a second instance")
	assert.Equal(t, 5.0, effects[0].Remaining)
	assert.Equal(t, 0.3, effects[0].Magnitude)
}

func TestStackThreeInstances(t *testing.T) {
	f := newFixture(t)

	for i := 0; i < 3; i++ {
		outcome, err := f.manager.ApplyEffect(f.e1, "poison", status.DamageOverTime, 2, float64(i+1))
		require.NoError(t, err)
		if i == 0 {
			assert.Equal(t, status.Added, outcome)
		} else {
			assert.Equal(t, status.Stacked, outcome)
		}
	}

	effects := f.manager.EntityEffects(f.e1)
	require.Len(t, effects, 3)
	assert.Equal(t, 6.0, f.manager.Magnitude(f.e1, "poison"))

	// each instance expires on its own tick
	for tick := 1; tick <= 3; tick++ {
		expired := f.manager.UpdateEffects(1.0, float64(tick))
		require.Len(t, expired, 1, "tick %d", tick)
		assert.Equal(t, effects[tick-1].ID, expired[0].ID)
		assert.Equal(t, float64(tick), expired[0].ExpiredAt)
		assert.Len(t, f.manager.EntityEffects(f.e1), 3-tick)
	}
	assert.False(t, f.manager.HasEffect(f.e1, "poison"))
}

func TestPoisonExpiresAfterThreeUpdates(t *testing.T) {
	f := newFixture(t)

	_, err := f.manager.ApplyEffect(f.e1, "poison", status.DamageOverTime, 5, 3.0)
	require.NoError(t, err)

	var expired []status.ExpiredEffect
	for i := 1; i <= 3; i++ {
		expired = f.manager.UpdateEffects(1.0, float64(i))
		if i < 3 {
			assert.Empty(t, expired)
			assert.True(t, f.manager.HasEffect(f.e1, "poison"))
		}
	}

	require.Len(t, expired, 1)
	assert.Equal(t, "poison", expired[0].Name)
	assert.Equal(t, f.e1, expired[0].Entity)
	assert.False(t, f.manager.HasEffect(f.e1, "poison"))
	assert.Empty(t, f.manager.EntityEffects(f.e1))
}

func TestStackingNone(t *testing.T) {
	f := newFixture(t)

	_, err := f.manager.ApplyEffect(f.e1, "stun", status.CrowdControl, 1, 2)
	require.NoError(t, err)
	outcome, err := f.manager.ApplyEffect(f.e1, "stun", status.CrowdControl, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, status.Ignored, outcome)

	effects := f.manager.EntityEffects(f.e1)
	require.Len(t, effects, 1)
	assert.Equal(t, 2.0, effects[0].Remaining)
}

func TestReplaceIfStronger(t *testing.T) {
	f := newFixture(t)

	_, err := f.manager.ApplyEffect(f.e1, "damage_buff", status.Buff, 1.5, 10)
	require.NoError(t, err)
	_, err = f.manager.ApplyEffect(f.e1, "slow", status.Debuff, 0.5, 10)
	require.NoError(t, err)

	outcome, err := f.manager.ApplyEffect(f.e1, "damage_buff", status.Buff, 1.5, 20)
	require.NoError(t, err)
	assert.Equal(t, status.Ignored, outcome, "equal magnitude is not stronger")

	outcome, err = f.manager.ApplyEffect(f.e1, "damage_buff", status.Buff, 1.2, 20)
	require.NoError(t, err)
	assert.Equal(t, status.Ignored, outcome)

	outcome, err = f.manager.ApplyEffect(f.e1, "damage_buff", status.Buff, 2.0, 4)
	require.NoError(t, err)
	assert.Equal(t, status.Replaced, outcome)

	effects := f.manager.EntityEffects(f.e1)
	require.Len(t, effects, 2)
	assert.Equal(t, "slow", effects[0].Name)
	assert.Equal(t, "damage_buff", effects[1].Name)
	assert.Equal(t, 2.0, effects[1].Magnitude)
	assert.Equal(t, 4.0, effects[1].Remaining)
}

func TestUndefinedNameDefaultsToRefresh(t *testing.T) {
	f := newFixture(t)

	_, err := f.manager.ApplyEffect(f.e1, "burning", status.Condition, 1, 2)
	require.NoError(t, err)
	outcome, err := f.manager.ApplyEffect(f.e1, "burning", status.Condition, 3, 4)
	require.NoError(t, err)
	assert.Equal(t, status.Refreshed, outcome)
	assert.Equal(t, status.StackRefresh, f.manager.Definition("burning").Stacking)
}

func TestApplyErrors(t *testing.T) {
	f := newFixture(t)

	_, err := f.manager.ApplyEffect(ecs.NewEntityId(1, 9, 9), "slow", status.Debuff, 1, 1)
	assert.ErrorIs(t, err, status.ErrUnknownEntity)

	require.NoError(t, f.store.Despawn(f.e2))
	_, err = f.manager.ApplyEffect(f.e2, "slow", status.Debuff, 1, 1)
	assert.ErrorIs(t, err, status.ErrUnknownEntity)

	_, err = f.manager.ApplyEffect(f.e1, "slow", status.Debuff, 1, 0)
	assert.ErrorIs(t, err, status.ErrInvalidEffect)

	_, err = f.manager.ApplyEffect(f.e1, "slow", status.Buff, 1, 1)
	assert.ErrorIs(t, err, status.ErrInvalidEffect, "slow is declared a debuff")

	_, err = f.manager.ApplyEffect(f.e1, "mystery", "", 1, 1)
	assert.ErrorIs(t, err, status.ErrInvalidEffect)

	outcome, err := f.manager.Apply(status.Application{Entity: f.e1, Name: "slow", Magnitude: 0.5, Duration: 1})
	require.NoError(t, err, "type falls back to the definition")
	assert.Equal(t, status.Added, outcome)
}

func TestSimultaneousExpiryOrder(t *testing.T) {
	f := newFixture(t, status.Definition{Name: "mark", Type: status.Condition, Stacking: status.StackStack})

	// apply to the higher id first so map insertion order differs from id order
	for _, target := range []ecs.EntityId{f.e2, f.e1} {
		for i := 0; i < 2; i++ {
			_, err := f.manager.ApplyEffect(target, "mark", status.Condition, float64(i), 1)
			require.NoError(t, err)
		}
	}

	expired := f.manager.UpdateEffects(1, 1)
	require.Len(t, expired, 4)
	assert.Equal(t, f.e1, expired[0].Entity)
	assert.Equal(t, f.e1, expired[1].Entity)
	assert.Equal(t, f.e2, expired[2].Entity)
	assert.Equal(t, f.e2, expired[3].Entity)
	assert.Less(t, expired[0].ID, expired[1].ID)
	assert.Less(t, expired[2].ID, expired[3].ID)
}

func TestQueriesOnEmptyEntity(t *testing.T) {
	f := newFixture(t)

	assert.False(t, f.manager.HasEffect(f.e1, "slow"))
	assert.Empty(t, f.manager.EntityEffects(f.e1))
	assert.Equal(t, 0.0, f.manager.Magnitude(f.e1, "slow"))
	assert.Equal(t, 0, f.manager.ClearEntity(f.e1))
}

func TestEntityEffectsReturnsCopies(t *testing.T) {
	f := newFixture(t)
	_, _ = f.manager.Apply(status.Application{
		Entity: f.e1, Name: "slow", Type: status.Debuff, Magnitude: 0.5, Duration: 3, Tags: []string{"frost"},
	})

	effects := f.manager.EntityEffects(f.e1)
	effects[0].Remaining = 100
	effects[0].Tags[0] = "fire"

	again := f.manager.EntityEffects(f.e1)
	assert.Equal(t, 3.0, again[0].Remaining)
	assert.True(t, again[0].HasTag("frost"))
}

func TestRemoveAndClear(t *testing.T) {
	f := newFixture(t)

	_, _ = f.manager.Apply(status.SlowDebuff(f.e1, 0.5, 3))
	_, _ = f.manager.Apply(status.PoisonDot(f.e1, 1, 5))
	_, _ = f.manager.Apply(status.StunCC(f.e1, 2))
	_, _ = f.manager.Apply(status.DamageBuff(f.e2, 1.2, 10))

	dots := f.manager.EntityEffects(f.e1, status.DamageOverTime)
	require.Len(t, dots, 1)

	require.NoError(t, f.manager.RemoveEffect(f.e1, dots[0].ID))
	assert.ErrorIs(t, f.manager.RemoveEffect(f.e1, dots[0].ID), status.ErrEffectNotFound)
	assert.False(t, f.manager.HasEffect(f.e1, "poison"))

	assert.Equal(t, 1, f.manager.ClearEntity(f.e1, status.CrowdControl))
	assert.True(t, f.manager.HasEffect(f.e1, "slow"))
	assert.Equal(t, 1, f.manager.ClearEntity(f.e1))
	assert.Equal(t, []ecs.EntityId{f.e2}, f.manager.Entities())

	summary := f.manager.Status()
	assert.Equal(t, 1, summary.EntitiesWithEffects)
	assert.Equal(t, 1, summary.ActiveEffects)
	assert.Equal(t, uint64(4), summary.TotalApplied)
	assert.Equal(t, uint64(3), summary.TotalRemoved)
	assert.Equal(t, 4, summary.UniqueNames)
}

func TestPrune(t *testing.T) {
	f := newFixture(t)
	_, _ = f.manager.Apply(status.SlowDebuff(f.e1, 0.5, 3))
	_, _ = f.manager.Apply(status.SlowDebuff(f.e2, 0.5, 3))

	require.NoError(t, f.store.Despawn(f.e2))
	f.store.Sweep()

	assert.Equal(t, 1, f.manager.Prune(f.store))
	assert.Equal(t, []ecs.EntityId{f.e1}, f.manager.Entities())
}

func TestForEachOrder(t *testing.T) {
	f := newFixture(t)
	_, _ = f.manager.Apply(status.PoisonDot(f.e2, 1, 5))
	_, _ = f.manager.Apply(status.PoisonDot(f.e1, 2, 5))
	_, _ = f.manager.Apply(status.SlowDebuff(f.e1, 0.5, 5))

	var names []string
	f.manager.ForEach(func(e *status.Effect) bool {
		names = append(names, e.Entity.String()+"/"+e.Name)
		return true
	})
	assert.Equal(t, []string{
		f.e1.String() + "/poison",
		f.e1.String() + "/slow",
		f.e2.String() + "/poison",
	}, names)
}

func TestNewManagerValidation(t *testing.T) {
	store, err := ecs.NewStore(ecs.PoolConfig{Type: "ship"})
	require.NoError(t, err)

	tests := []struct {
		name string
		cfg  status.Config
	}{
		{"duplicate", status.Config{Definitions: []status.Definition{{Name: "a"}, {Name: "a"}}}},
		{"unnamed", status.Config{Definitions: []status.Definition{{Stacking: status.StackStack}}}},
		{"bad mode", status.Config{Definitions: []status.Definition{{Name: "a", Stacking: "merge"}}}},
		{"bad type", status.Config{Definitions: []status.Definition{{Name: "a", Type: "curse"}}}},
		{"bad default", status.Config{DefaultStacking: "sometimes"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := status.NewManager(store, tt.cfg)
			assert.ErrorIs(t, err, status.ErrInvalidDefinition)
		})
	}

	_, err = status.NewManager(nil, status.Config{})
	assert.ErrorIs(t, err, status.ErrInvalidDefinition)
}

func TestEntityCheckerFunc(t *testing.T) {
	known := ecs.NewEntityId(1, 1, 0)
	manager, err := status.NewManager(status.EntityCheckerFunc(func(id ecs.EntityId) bool {
		return id == known
	}), status.Config{DefaultStacking: status.StackStack})
	require.NoError(t, err)

	_, err = manager.ApplyEffect(known, "x", status.Buff, 1, 1)
	require.NoError(t, err)
	outcome, err := manager.ApplyEffect(known, "x", status.Buff, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, status.Stacked, outcome)
}
