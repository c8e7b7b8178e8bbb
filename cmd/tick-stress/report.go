package main

import (
	"fmt"
	"io"
	"runtime"
	"slices"
	"text/template"
	"time"

	"github.com/plus3/tickcore/sim"
)

type Report struct {
	// Configuration
	Duration  time.Duration
	Asteroids int
	Enemies   int
	Seed      uint64
	FixedStep bool

	// Results
	TotalUpdates   int64
	TotalTime      time.Duration
	UpdateTime     Stats
	GCPauseMetrics bool
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats

	// Simulation
	World        sim.Stats
	Collisions   int
	Impacts      int
	Expirations  int
	Deaths       int
	Errors       int
	Kills        int
	PlayerDeaths int
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	P99     time.Duration
	Samples []time.Duration
}

// Observe accumulates one tick report.
func (r *Report) Observe(tick sim.TickReport) {
	r.TotalUpdates++
	r.Collisions += len(tick.Collisions)
	r.Impacts += len(tick.Impacts)
	r.Expirations += len(tick.Expirations)
	r.Deaths += len(tick.Deaths)
	r.Errors += len(tick.Errors)
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min = s.Samples[0]
	s.Max = s.Samples[0]

	for _, sample := range s.Samples {
		if sample < s.Min {
			s.Min = sample
		}
		if sample > s.Max {
			s.Max = sample
		}
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))
	s.P99 = percentile(s.Samples, 0.99)
}

func percentile(samples []time.Duration, p float64) time.Duration {
	sorted := append([]time.Duration(nil), samples...)
	slices.Sort(sorted)
	return sorted[int(float64(len(sorted)-1)*p)]
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# Tick Stress Test Report

## Test Configuration
- **Run Duration:** {{.Duration}}
- **Asteroids:** {{.Asteroids}}
- **Enemies:** {{.Enemies}}
- **Seed:** {{.Seed}}
- **Fixed Step:** {{.FixedStep}}

## Performance Results
- **Total Updates:** {{.TotalUpdates}}
- **Total Test Time:** {{.TotalTime}}
- **Update Time (Tick):**
  - **Avg:** {{.UpdateTime.Avg}}
  - **Min:** {{.UpdateTime.Min}}
  - **Max:** {{.UpdateTime.Max}}
  - **P99:** {{.UpdateTime.P99}}

## Stages
{{range .World.Scheduler.Systems}}- {{printf "%-14s" .Name}} avg {{.AvgDuration}}, max {{.MaxDuration}}
{{end}}
## Simulation
- **Simulated Time:** {{printf "%.1f" .World.Time}}s over {{.World.Tick}} ticks
- **Live Entities:** {{.World.Store.TotalActive}}
- **Collisions:** {{.Collisions}} (last tick checks: {{.World.Collisions.ChecksLastCall}})
- **Projectiles:** fired {{.World.Projectiles.Fired}}, impacts {{.Impacts}}, expired {{.Expirations}}, accuracy {{pct .World.Projectiles.Accuracy}}
- **Effects:** applied {{.World.Effects.TotalApplied}}, expired {{.World.Effects.TotalExpired}}
- **Deaths:** {{.Deaths}} (player kills {{.Kills}}, player deaths {{.PlayerDeaths}})
- **Tick Errors:** {{.Errors}}

## Pools
{{range .World.Store.Pools}}- {{printf "%-10s" .Type}} active {{.Active}}/{{.Max}}, spawned {{.Spawned}}, exhausted {{.Exhausted}}
{{end}}
## Memory Usage
- Heap Alloc:     {{mb .MemStatsStart.HeapAlloc}} MB (start) -> {{mb .MemStatsEnd.HeapAlloc}} MB (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}}
- Total Alloc:    {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- Sys Memory:     {{.MemStatsStart.Sys}} (start) -> {{.MemStatsEnd.Sys}} (end) -> delta: {{bsub .MemStatsEnd.Sys .MemStatsStart.Sys}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}

{{if .GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{.MemStatsEnd.PauseTotalNs | ns}}
- **Num GC Cycles:** {{ usub .MemStatsEnd.NumGC .MemStatsStart.NumGC }}
{{end}}
`

	fm := template.FuncMap{
		"mb": func(v any) string {
			switch val := v.(type) {
			case uint64:
				return fmt.Sprintf("%.2f", float64(val)/1024/1024)
			case int64:
				return fmt.Sprintf("%.2f", float64(val)/1024/1024)
			default:
				return "N/A"
			}
		},
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"ns": func(ns uint64) string {
			return time.Duration(ns).String()
		},
		"pct": func(f float64) string {
			return fmt.Sprintf("%.1f%%", f*100)
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, r)
}
