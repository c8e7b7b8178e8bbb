package sim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/plus3/tickcore/collision"
	"github.com/plus3/tickcore/ecs"
	"github.com/plus3/tickcore/projectile"
	"github.com/plus3/tickcore/status"
)

// World owns one simulation: the entity store and the systems that run over
// it each tick. A World is not safe for concurrent use; drive it from a single
// goroutine.
type World struct {
	cfg     Config
	log     *slog.Logger
	terrain Terrain

	store       *ecs.Store
	collisions  *collision.System
	projectiles *projectile.System
	effects     *status.Manager
	scheduler   *ecs.Scheduler

	report TickReport
	ledger []DamageEvent
}

// Stats aggregates the counters of every subsystem.
type Stats struct {
	Tick        uint64
	Time        float64
	Store       ecs.StoreStats
	Collisions  collision.Stats
	Projectiles projectile.Stats
	Effects     status.Summary
	Scheduler   *ecs.SchedulerStats
}

// NewWorld builds a world from cfg. A nil terrain is flat. Configuration
// faults are returned here and never surface during a tick.
func NewWorld(cfg Config, terrain Terrain) (*World, error) {
	if cfg.FixedStep < 0 {
		return nil, fmt.Errorf("invalid fixed step %v", cfg.FixedStep)
	}
	if cfg.FixedStep == 0 {
		cfg.FixedStep = DefaultFixedStep
	}
	if terrain == nil {
		terrain = FlatTerrain{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	store, err := ecs.NewStore(cfg.Pools...)
	if err != nil {
		return nil, err
	}
	for _, g := range cfg.Groups {
		for _, tag := range g.Types {
			if tag != "" && !store.HasType(tag) {
				return nil, fmt.Errorf("%w: group %q names unregistered type %q",
					collision.ErrInvalidCollisionGroup, g.Name, tag)
			}
		}
	}

	collisions, err := collision.NewSystem(collision.Config{Groups: cfg.Groups, CellSize: cfg.CellSize})
	if err != nil {
		return nil, err
	}
	projectiles, err := projectile.NewSystem(store, collisions, cfg.Projectiles...)
	if err != nil {
		return nil, err
	}
	effects, err := status.NewManager(store, status.Config{
		Definitions:     cfg.Effects,
		DefaultStacking: cfg.DefaultStacking,
	})
	if err != nil {
		return nil, err
	}

	w := &World{
		cfg:         cfg,
		log:         logger,
		terrain:     terrain,
		store:       store,
		collisions:  collisions,
		projectiles: projectiles,
		effects:     effects,
		scheduler:   ecs.NewScheduler(store),
	}
	w.scheduler.Register(&statusStage{w: w})
	w.scheduler.Register(&motionStage{w: w})
	w.scheduler.Register(&collisionStage{w: w})
	w.scheduler.Register(&projectileStage{w: w})
	w.scheduler.Register(&damageStage{w: w})

	logger.Debug("world created",
		"pools", len(cfg.Pools),
		"groups", len(cfg.Groups),
		"projectiles", len(cfg.Projectiles),
		"effects", len(cfg.Effects),
		"fixed_step", cfg.FixedStep)
	return w, nil
}

func (w *World) Store() *ecs.Store { return w.store }
func (w *World) Collisions() *collision.System { return w.collisions }
func (w *World) Projectiles() *projectile.System { return w.projectiles }
func (w *World) Effects() *status.Manager { return w.effects }
func (w *World) Scheduler() *ecs.Scheduler { return w.scheduler }
func (w *World) Commands() *ecs.Commands { return w.scheduler.Commands() }
func (w *World) Terrain() Terrain { return w.terrain }
func (w *World) Config() Config { return w.cfg }
func (w *World) Snapshot(dst []ecs.Snapshot) []ecs.Snapshot { return w.store.Snapshot(dst) }

// Tick returns the number of completed ticks
func (w *World) Tick() uint64 { return w.scheduler.Tick() }

// Time returns the simulated time in seconds
func (w *World) Time() float64 { return w.scheduler.Time() }

// Spawn creates an entity immediately. Use Commands to spawn from inside a tick.
func (w *World) Spawn(tag string, state ecs.SpawnState) (ecs.EntityId, error) {
	id, err := w.store.Spawn(tag, state)
	if errors.Is(err, ecs.ErrPoolExhausted) {
		w.log.Debug("pool exhausted", "type", tag)
	}
	return id, err
}

// Fire launches a projectile immediately.
func (w *World) Fire(req projectile.FireRequest) (ecs.EntityId, error) {
	id, err := w.projectiles.Fire(req)
	if errors.Is(err, ecs.ErrPoolExhausted) {
		w.log.Debug("pool exhausted", "kind", req.Kind)
	}
	return id, err
}

// ApplyEffect applies a status effect stamped with the current simulated time
// unless app.Now is already set.
func (w *World) ApplyEffect(app status.Application) (status.Outcome, error) {
	if app.Now == 0 {
		app.Now = w.scheduler.Time()
	}
	return w.effects.Apply(app)
}

// Step advances the world by dt seconds and reports what happened.
func (w *World) Step(dt float64) TickReport {
	return w.finish(w.scheduler.Once(dt))
}

// Run steps the world every FixedStep of wall-clock time until ctx is done.
func (w *World) Run(ctx context.Context, onReport func(TickReport)) {
	interval := time.Duration(w.cfg.FixedStep * float64(time.Second))
	w.scheduler.Run(ctx, interval, func(frame *ecs.UpdateFrame) {
		report := w.finish(frame)
		if onReport != nil {
			onReport(report)
		}
	})
}

func (w *World) finish(frame *ecs.UpdateFrame) TickReport {
	report := w.report
	w.report = TickReport{}

	report.Tick = frame.Tick
	report.Time = frame.Time
	report.Errors = frame.Errors
	for _, err := range report.Errors {
		w.log.Debug("tick error", "tick", frame.Tick, "err", err)
	}
	return report
}

// Stats returns a snapshot of every subsystem's counters.
func (w *World) Stats() Stats {
	return Stats{
		Tick:        w.scheduler.Tick(),
		Time:        w.scheduler.Time(),
		Store:       w.store.CollectStats(),
		Collisions:  w.collisions.Stats(),
		Projectiles: w.projectiles.Stats(),
		Effects:     w.effects.Status(),
		Scheduler:   w.scheduler.GetStats(),
	}
}

// Reset despawns everything and drops all projectile and effect state. Tick
// counters are kept.
func (w *World) Reset() {
	w.projectiles.Clear()
	w.store.Clear()
	w.effects.Prune(w.store)
	w.ledger = w.ledger[:0]
}
