package ecs

import (
	"context"
	"reflect"
	"time"
)

// SchedulerStats provides statistics about scheduler execution.
type SchedulerStats struct {
	SystemCount     int
	TotalExecutions int64
	Ticks           uint64
	Systems         []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Name           string
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type systemStatsInternal struct {
	name           string
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

// Scheduler drives the fixed-step tick. Each tick it flushes queued commands,
// runs every registered system in order, then sweeps despawned slots back
// into their pools.
type Scheduler struct {
	store       *Store
	commands    *Commands
	systems     []System
	systemStats []*systemStatsInternal

	tick uint64
	now  float64
}

// NewScheduler creates a new scheduler for the given store.
func NewScheduler(store *Store) *Scheduler {
	return &Scheduler{
		store:    store,
		commands: NewCommands(),
		systems:  make([]System, 0),
	}
}

// Register appends a system to the pipeline.
func (s *Scheduler) Register(system System) {
	s.systems = append(s.systems, system)

	var systemName string
	if named, ok := system.(NamedSystem); ok {
		systemName = named.Name()
	} else {
		systemType := reflect.TypeOf(system)
		if systemType.Kind() == reflect.Ptr {
			systemType = systemType.Elem()
		}
		systemName = systemType.Name()
	}

	s.systemStats = append(s.systemStats, &systemStatsInternal{
		name:        systemName,
		minDuration: time.Duration(1<<63 - 1),
	})
}

// Commands returns the buffer flushed at the start of every tick.
func (s *Scheduler) Commands() *Commands {
	return s.commands
}

// Tick returns the number of completed ticks
func (s *Scheduler) Tick() uint64 {
	return s.tick
}

// Time returns the simulated time in seconds
func (s *Scheduler) Time() float64 {
	return s.now
}

// Once executes a single tick with the given delta time and returns its frame.
func (s *Scheduler) Once(dt float64) *UpdateFrame {
	s.tick++
	s.now += dt
	frame := newUpdateFrame(dt, s.now, s.tick, s.commands, s.store)

	for _, err := range s.commands.Flush(s.store) {
		frame.Report(err)
	}

	for i, system := range s.systems {
		start := time.Now()
		system.Execute(frame)
		duration := time.Since(start)

		stats := s.systemStats[i]
		stats.executionCount++
		stats.lastDuration = duration
		stats.totalDuration += duration

		if duration < stats.minDuration {
			stats.minDuration = duration
		}
		if duration > stats.maxDuration {
			stats.maxDuration = duration
		}
	}

	s.store.Sweep()
	return frame
}

// Run executes ticks at the given interval until the context is cancelled.
// Every tick advances the simulation by exactly interval, independent of
// wall-clock jitter.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration, onTick func(*UpdateFrame)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	dt := interval.Seconds()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			frame := s.Once(dt)
			if onTick != nil {
				onTick(frame)
			}
		}
	}
}

// GetStats returns statistics about system execution.
func (s *Scheduler) GetStats() *SchedulerStats {
	stats := &SchedulerStats{
		SystemCount: len(s.systems),
		Ticks:       s.tick,
		Systems:     make([]SystemStats, len(s.systemStats)),
	}

	var totalExecs int64
	for i, internal := range s.systemStats {
		avgDuration := time.Duration(0)
		minDuration := internal.minDuration
		if internal.executionCount > 0 {
			avgDuration = internal.totalDuration / time.Duration(internal.executionCount)
		} else {
			minDuration = 0
		}

		stats.Systems[i] = SystemStats{
			Name:           internal.name,
			ExecutionCount: internal.executionCount,
			MinDuration:    minDuration,
			MaxDuration:    internal.maxDuration,
			AvgDuration:    avgDuration,
			LastDuration:   internal.lastDuration,
			TotalDuration:  internal.totalDuration,
		}
		totalExecs += internal.executionCount
	}

	stats.TotalExecutions = totalExecs
	return stats
}
