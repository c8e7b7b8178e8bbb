package collision_test

import (
	"fmt"

	"github.com/plus3/tickcore/collision"
	"github.com/plus3/tickcore/ecs"
)

// ExampleSystem_Detect shows a ship overlapping an asteroid. Events carry the
// overlap depth and are ordered by entity id.
func ExampleSystem_Detect() {
	store, _ := ecs.NewStore(
		ecs.PoolConfig{Type: "ship", Max: 4},
		ecs.PoolConfig{Type: "asteroid", Max: 16},
	)
	sys, _ := collision.NewSystem(collision.Config{Groups: []collision.Group{
		{Name: "player", Types: []string{"ship"}, CollidesWith: []string{"rocks"}},
		{Name: "rocks", Types: []string{"asteroid"}},
	}})

	_, _ = store.Spawn("ship", ecs.SpawnState{Radius: 4})
	_, _ = store.Spawn("asteroid", ecs.SpawnState{Position: ecs.Vec2{X: 5}, Radius: 4})

	for _, ev := range sys.Detect(sys.Gather(store, nil)) {
		fmt.Printf("%s hit %s depth=%.1f midpoint=(%.1f, %.1f)\n", ev.A, ev.B, ev.Depth, ev.Midpoint.X, ev.Midpoint.Y)
	}

	// Output:
	// 1:0@1 hit 2:0@1 depth=3.0 midpoint=(2.5, 0.0)
}
