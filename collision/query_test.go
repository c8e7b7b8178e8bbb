package collision_test

import (
	"testing"

	"github.com/plus3/tickcore/collision"
	"github.com/plus3/tickcore/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegmentHitsCircle(t *testing.T) {
	tests := []struct {
		name     string
		from, to ecs.Vec2
		center   ecs.Vec2
		radius   float64
		want     bool
	}{
		{"passes through", ecs.Vec2{X: -10}, ecs.Vec2{X: 10}, ecs.Vec2{}, 1, true},
		{"stops short", ecs.Vec2{X: -10}, ecs.Vec2{X: -5}, ecs.Vec2{}, 1, false},
		{"grazes", ecs.Vec2{X: -10, Y: 1}, ecs.Vec2{X: 10, Y: 1}, ecs.Vec2{}, 1, false},
		{"inside reach", ecs.Vec2{X: -10, Y: 0.5}, ecs.Vec2{X: 10, Y: 0.5}, ecs.Vec2{}, 1, true},
		{"point segment", ecs.Vec2{X: 0.5}, ecs.Vec2{X: 0.5}, ecs.Vec2{}, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, collision.SegmentHitsCircle(tt.from, tt.to, tt.center, tt.radius))
		})
	}
}

func TestSweptHit(t *testing.T) {
	store := newStore(t)
	target := spawn(t, store, "enemy", 50, 0, 2)

	// a 1-radius bullet moving 100 units in one tick tunnels straight through
	assert.True(t, collision.SweptHit(ecs.Vec2{X: 0}, ecs.Vec2{X: 100}, 1, target))
	assert.False(t, collision.SweptHit(ecs.Vec2{X: 0, Y: 10}, ecs.Vec2{X: 100, Y: 10}, 1, target))

	require.NoError(t, store.Despawn(target.Id))
	assert.False(t, collision.SweptHit(ecs.Vec2{X: 0}, ecs.Vec2{X: 100}, 1, target))
	assert.False(t, collision.SweptHit(ecs.Vec2{X: 0}, ecs.Vec2{X: 100}, 1, nil))
}

func TestSpatialQueries(t *testing.T) {
	store := newStore(t)
	near := spawn(t, store, "asteroid", 3, 4, 1)
	far := spawn(t, store, "asteroid", 30, 40, 1)
	enemy := spawn(t, store, "enemy", 6, 8, 1)
	entities := []*ecs.Entity{near, far, enemy}

	in := collision.InRadius(entities, ecs.Vec2{}, 10)
	assert.Equal(t, []*ecs.Entity{near, enemy}, in)

	best, ok := collision.Nearest(entities, ecs.Vec2{X: 29, Y: 39}, "")
	require.True(t, ok)
	assert.Same(t, far, best)

	best, ok = collision.Nearest(entities, ecs.Vec2{}, "enemy")
	require.True(t, ok)
	assert.Same(t, enemy, best)

	_, ok = collision.Nearest(entities, ecs.Vec2{}, "ship")
	assert.False(t, ok)
}
