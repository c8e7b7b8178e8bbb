package ecs_test

import (
	"testing"

	"github.com/plus3/tickcore/ecs"
	"github.com/stretchr/testify/require"
)

// Common test entity types
const (
	typeShip     = "ship"
	typeAsteroid = "asteroid"
	typeBullet   = "bullet"
)

func newTestStore(t testing.TB) *ecs.Store {
	t.Helper()
	store, err := ecs.NewStore(
		ecs.PoolConfig{Type: typeShip, Initial: 4, Max: 8},
		ecs.PoolConfig{Type: typeAsteroid, Max: 64},
		ecs.PoolConfig{Type: typeBullet, Initial: 16, Max: 256},
	)
	require.NoError(t, err)
	return store
}

func at(x, y float64) ecs.SpawnState {
	return ecs.SpawnState{Position: ecs.Vec2{X: x, Y: y}, Radius: 1}
}
