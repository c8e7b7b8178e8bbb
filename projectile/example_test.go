package projectile_test

import (
	"fmt"

	"github.com/plus3/tickcore/collision"
	"github.com/plus3/tickcore/ecs"
	"github.com/plus3/tickcore/projectile"
)

// ExampleSystem_Update fires two kinetic rounds: one at an asteroid, one into
// empty space. Each projectile resolves to exactly one outcome.
func ExampleSystem_Update() {
	store, _ := ecs.NewStore(
		ecs.PoolConfig{Type: "ship", Max: 4},
		ecs.PoolConfig{Type: "asteroid", Max: 16},
		ecs.PoolConfig{Type: "bullet", Max: 64},
		ecs.PoolConfig{Type: "missile", Max: 16},
		ecs.PoolConfig{Type: "enemy", Max: 16},
	)
	collisions, _ := collision.NewSystem(collision.Config{Groups: collision.SpaceCombatGroups()})
	projectiles, _ := projectile.NewSystem(store, collisions, projectile.DefaultTemplates()...)

	ship, _ := store.Spawn("ship", ecs.SpawnState{Radius: 6})
	_, _ = store.Spawn("asteroid", ecs.SpawnState{Position: ecs.Vec2{X: 120}, Radius: 10})

	_, _ = projectiles.Fire(projectile.FireRequest{Kind: projectile.Kinetic, Owner: ship, Direction: ecs.Vec2{X: 1}})
	_, _ = projectiles.Fire(projectile.FireRequest{Kind: projectile.Kinetic, Owner: ship, Direction: ecs.Vec2{Y: -1}})

	for tick := 1; projectiles.Len() > 0; tick++ {
		res := projectiles.Update(1.0 / 8)
		for _, hit := range res.Impacts {
			fmt.Printf("tick %d: %s hit for %.0f\n", tick, hit.Kind, hit.Damage)
		}
		for _, exp := range res.Expirations {
			fmt.Printf("tick %d: %s expired at (%.0f, %.0f)\n", tick, exp.Kind, exp.Position.X, exp.Position.Y)
		}
	}

	stats := projectiles.Stats()
	fmt.Printf("accuracy %.0f%%\n", stats.Accuracy()*100)

	// Output:
	// tick 2: kinetic hit for 10
	// tick 7: kinetic expired at (0, -420)
	// accuracy 50%
}
