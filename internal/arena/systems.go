package arena

import (
	"math"

	"github.com/plus3/tickcore/collision"
	"github.com/plus3/tickcore/ecs"
	"github.com/plus3/tickcore/projectile"
)

const (
	playerSpeed = 60
	enemySpeed  = 40
	wanderTicks = 120
)

// playerSystem wanders the ship and fires the weapon rotation at the
// nearest enemy.
type playerSystem struct {
	a       *Arena
	enemies []*ecs.Entity
}

func (s *playerSystem) Name() string { return "arena.player" }

func (s *playerSystem) Execute(frame *ecs.UpdateFrame) {
	a := s.a
	ship, ok := a.world.Store().Get(a.player)
	if !ok {
		return
	}

	if frame.Tick%wanderTicks == 1 {
		heading := a.rng.Float64() * 2 * math.Pi
		ship.Velocity = ecs.Vec2{X: math.Cos(heading) * playerSpeed, Y: math.Sin(heading) * playerSpeed}
	}

	a.cooldowns[a.player] -= frame.DeltaTime
	if a.cooldowns[a.player] > 0 {
		return
	}

	s.enemies = s.enemies[:0]
	a.world.Store().ForEachActive(TypeEnemy, func(e *ecs.Entity) bool {
		s.enemies = append(s.enemies, e)
		return true
	})
	target, ok := collision.Nearest(s.enemies, ship.Position, TypeEnemy)
	clear(s.enemies)
	if !ok {
		return
	}

	kind := a.weapons[a.shots%len(a.weapons)]
	_, err := a.world.Fire(projectile.FireRequest{
		Kind:   kind,
		Owner:  a.player,
		Origin: ship.Position,
		Target: target.Id,
		Lead:   true,
	})
	frame.Report(err)
	a.shots++
	a.cooldowns[a.player] = a.opts.PlayerFireInterval
}

// enemySystem chases the player and fires leading shells.
type enemySystem struct{ a *Arena }

func (s *enemySystem) Name() string { return "arena.enemy" }

func (s *enemySystem) Execute(frame *ecs.UpdateFrame) {
	a := s.a
	ship, alive := a.world.Store().Get(a.player)
	if !alive {
		return
	}

	a.world.Store().ForEachActive(TypeEnemy, func(e *ecs.Entity) bool {
		if toPlayer := ship.Position.Sub(e.Position); !toPlayer.IsZero() {
			e.Velocity = toPlayer.Normalize().Scale(enemySpeed)
		}

		cd, seen := a.cooldowns[e.Id]
		if !seen {
			cd = a.rng.Float64() * a.opts.EnemyFireInterval
		}
		cd -= frame.DeltaTime
		if cd <= 0 {
			_, err := a.world.Fire(projectile.FireRequest{
				Kind:   KindShell,
				Owner:  e.Id,
				Origin: e.Position,
				Target: a.player,
				Lead:   true,
			})
			frame.Report(err)
			cd = a.opts.EnemyFireInterval
		}
		a.cooldowns[e.Id] = cd
		return true
	})
}

// wrapSystem keeps ships, enemies and asteroids on the torus. Projectiles
// are left to run out their range.
type wrapSystem struct{ a *Arena }

func (s *wrapSystem) Name() string { return "arena.wrap" }

func (s *wrapSystem) Execute(frame *ecs.UpdateFrame) {
	a := s.a
	for _, tag := range []string{TypeShip, TypeEnemy, TypeAsteroid} {
		a.world.Store().ForEachActive(tag, func(e *ecs.Entity) bool {
			e.Position.X = wrap(e.Position.X, a.opts.Width)
			e.Position.Y = wrap(e.Position.Y, a.opts.Height)
			return true
		})
	}
}

func wrap(v, size float64) float64 {
	v = math.Mod(v, size)
	if v < 0 {
		v += size
	}
	if v >= size {
		return 0
	}
	return v
}

// respawnSystem tops asteroids and enemies back up and brings the player
// back after a death. Spawns go through the command buffer and land at the
// start of the next tick.
// respawnSystem tops populations up. Its spawns are flushed before the next
// tick's systems run, so a spawn refused by a full pool is retried a tick
// later.
type respawnSystem struct{ a *Arena }

func (s *respawnSystem) Name() string { return "arena.respawn" }

func (s *respawnSystem) Execute(frame *ecs.UpdateFrame) {
	a := s.a
	store := a.world.Store()

	for range a.opts.Asteroids - store.Len(TypeAsteroid) {
		frame.Commands.Spawn(TypeAsteroid, a.asteroidState())
	}
	for range a.opts.Enemies - store.Len(TypeEnemy) {
		frame.Commands.Spawn(TypeEnemy, a.enemyState())
	}

	if !store.Contains(a.player) {
		frame.Commands.SpawnThen(TypeShip, a.shipState(), func(id ecs.EntityId) {
			a.player = id
		})
	}

	for id := range a.cooldowns {
		if !store.Contains(id) {
			delete(a.cooldowns, id)
		}
	}
}
