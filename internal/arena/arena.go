// Package arena is the demo space-combat scenario shared by the commands: a
// player ship that auto-fires its weapon rotation at the nearest enemy,
// enemies that chase and shoot back, and drifting asteroids, all on a
// toroidal field with water and rough terrain patches.
package arena

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/plus3/tickcore/collision"
	"github.com/plus3/tickcore/ecs"
	"github.com/plus3/tickcore/projectile"
	"github.com/plus3/tickcore/sim"
	"github.com/plus3/tickcore/status"
)

const (
	TypeShip     = "ship"
	TypeAsteroid = "asteroid"
	TypeEnemy    = "enemy"

	FactionPlayer = "player"
	FactionEnemy  = "enemy"

	// TypeShell is the enemy round. It sits in its own group so it can hit
	// the player, which the preset's projectile group never does.
	TypeShell = "shell"
	KindShell = "shell"
)

// Config extends the space-combat preset with hostile fire.
func Config() sim.Config {
	cfg := sim.DefaultConfig()
	cfg.CellSize = 64
	cfg.Pools = append(cfg.Pools, ecs.PoolConfig{Type: TypeShell, Initial: 64, Max: 1024})
	cfg.Groups = append(cfg.Groups, collision.Group{
		Name:         "hostile_fire",
		Types:        []string{TypeShell},
		CollidesWith: []string{"player", "asteroids"},
	})
	cfg.Projectiles = append(cfg.Projectiles, projectile.Template{
		Kind:       KindShell,
		EntityType: TypeShell,
		Damage:     5,
		Speed:      300,
		Radius:     2,
		Budget:     projectile.BudgetDistance,
		Range:      450,
		Visual:     "shell",
	})
	return cfg
}

// Options sizes the scenario.
type Options struct {
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Asteroids int     `json:"asteroids"`
	Enemies   int     `json:"enemies"`

	// Seconds between shots.
	PlayerFireInterval float64 `json:"player_fire_interval"`
	EnemyFireInterval  float64 `json:"enemy_fire_interval"`

	Seed   uint64 `json:"seed"`
	Biomes bool   `json:"biomes"`
}

func DefaultOptions() Options {
	return Options{
		Width:              800,
		Height:             600,
		Asteroids:          40,
		Enemies:            8,
		PlayerFireInterval: 0.25,
		EnemyFireInterval:  1.5,
		Seed:               1,
		Biomes:             true,
	}
}

// Arena owns a world populated with the scenario.
type Arena struct {
	world *sim.World
	opts  Options
	rng   *rand.Rand

	player    ecs.EntityId
	cooldowns map[ecs.EntityId]float64
	weapons   []string
	shots     int

	kills  int
	deaths int
}

// New builds a world from cfg, populates it and registers the scenario stages
// after the simulation stages.
func New(cfg sim.Config, opts Options) (*Arena, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("arena: invalid size %vx%v", opts.Width, opts.Height)
	}

	a := &Arena{
		opts:      opts,
		rng:       rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15)),
		cooldowns: make(map[ecs.EntityId]float64),
		weapons: []string{
			projectile.Kinetic,
			projectile.Plasma,
			projectile.Missile,
			projectile.Laser,
			projectile.Particle,
		},
	}

	var terrain sim.Terrain
	if opts.Biomes {
		grid, err := a.terrain()
		if err != nil {
			return nil, err
		}
		terrain = grid
	}

	world, err := sim.NewWorld(cfg, terrain)
	if err != nil {
		return nil, err
	}
	a.world = world

	if err := a.populate(); err != nil {
		return nil, err
	}

	scheduler := world.Scheduler()
	scheduler.Register(&playerSystem{a: a})
	scheduler.Register(&enemySystem{a: a})
	scheduler.Register(&wrapSystem{a: a})
	scheduler.Register(&respawnSystem{a: a})
	return a, nil
}

func (a *Arena) World() *sim.World { return a.world }
func (a *Arena) Options() Options { return a.opts }
func (a *Arena) Player() ecs.EntityId { return a.player }
func (a *Arena) Kills() int { return a.kills }
func (a *Arena) PlayerDeaths() int { return a.deaths }

// Step advances the world and applies on-hit effects from the report.
func (a *Arena) Step(dt float64) sim.TickReport {
	report := a.world.Step(dt)
	a.Observe(report)
	return report
}

// Observe applies weapon on-hit effects and keeps score. Call it with every
// report when driving the world directly.
func (a *Arena) Observe(report sim.TickReport) {
	for _, imp := range report.Impacts {
		var app status.Application
		switch imp.Kind {
		case projectile.Plasma:
			app = status.PoisonDot(imp.Target, 4, 3)
		case projectile.Particle:
			app = status.SlowDebuff(imp.Target, 0.5, 2)
		case projectile.Missile:
			app = status.StunCC(imp.Target, 0.5)
		default:
			continue
		}
		app.Source = imp.Owner
		// the target may have died from the same impact
		_, _ = a.world.ApplyEffect(app)
	}

	for _, d := range report.Deaths {
		switch {
		case d.Entity == a.player:
			a.deaths++
		case d.Killer == a.player:
			a.kills++
		}
	}
}

func (a *Arena) terrain() (*sim.BiomeGrid, error) {
	const cell = 50
	w := int(math.Ceil(a.opts.Width / cell))
	h := int(math.Ceil(a.opts.Height / cell))
	grid, err := sim.NewBiomeGrid(w, h, cell)
	if err != nil {
		return nil, err
	}

	for range 3 {
		x, y := a.rng.IntN(w), a.rng.IntN(h)
		grid.Fill(x, y, x+2+a.rng.IntN(3), y+2+a.rng.IntN(2), sim.Water)
	}
	for range 4 {
		x, y := a.rng.IntN(w), a.rng.IntN(h)
		grid.Fill(x, y, x+1+a.rng.IntN(2), y+1+a.rng.IntN(2), sim.Rough)
	}
	return grid, nil
}

func (a *Arena) populate() error {
	id, err := a.world.Spawn(TypeShip, a.shipState())
	if err != nil {
		return err
	}
	a.player = id

	for range a.opts.Asteroids {
		if _, err := a.world.Spawn(TypeAsteroid, a.asteroidState()); err != nil {
			return err
		}
	}
	for range a.opts.Enemies {
		if _, err := a.world.Spawn(TypeEnemy, a.enemyState()); err != nil {
			return err
		}
	}
	return nil
}

func (a *Arena) center() ecs.Vec2 {
	return ecs.Vec2{X: a.opts.Width / 2, Y: a.opts.Height / 2}
}

func (a *Arena) shipState() ecs.SpawnState {
	return ecs.SpawnState{
		Position: a.center(),
		Radius:   8,
		Drag:     0.2,
		Visual:   "ship",
		Nums:     map[string]float64{ecs.AttrHealth: 100, ecs.AttrMaxHealth: 100},
		Strs:     map[string]string{ecs.AttrFaction: FactionPlayer},
	}
}

// edgePoint returns a random point on the border, away from the player.
func (a *Arena) edgePoint() ecs.Vec2 {
	t := a.rng.Float64()
	switch a.rng.IntN(4) {
	case 0:
		return ecs.Vec2{X: t * a.opts.Width}
	case 1:
		return ecs.Vec2{X: t * a.opts.Width, Y: a.opts.Height - 1}
	case 2:
		return ecs.Vec2{Y: t * a.opts.Height}
	default:
		return ecs.Vec2{X: a.opts.Width - 1, Y: t * a.opts.Height}
	}
}

func (a *Arena) asteroidState() ecs.SpawnState {
	radius := 6 + a.rng.Float64()*18
	heading := a.rng.Float64() * 2 * math.Pi
	speed := 10 + a.rng.Float64()*40
	return ecs.SpawnState{
		Position: a.edgePoint(),
		Velocity: ecs.Vec2{X: math.Cos(heading) * speed, Y: math.Sin(heading) * speed},
		Radius:   radius,
		Visual:   "asteroid",
		Nums: map[string]float64{
			ecs.AttrHealth:        radius * 2,
			ecs.AttrMaxHealth:     radius * 2,
			sim.AttrContactDamage: 5,
		},
	}
}

func (a *Arena) enemyState() ecs.SpawnState {
	return ecs.SpawnState{
		Position: a.edgePoint(),
		Radius:   7,
		Drag:     0.5,
		Visual:   "enemy",
		Nums: map[string]float64{
			ecs.AttrHealth:        30,
			ecs.AttrMaxHealth:     30,
			sim.AttrContactDamage: 10,
		},
		Strs: map[string]string{ecs.AttrFaction: FactionEnemy},
	}
}
