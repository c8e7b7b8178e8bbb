package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/pkg/profile"
	"github.com/plus3/tickcore/internal/arena"
	"github.com/plus3/tickcore/sim"
)

func main() {
	duration := flag.Duration("duration", 10*time.Second, "The total duration the test should run for.")
	asteroids := flag.Int("asteroids", 400, "The number of asteroids kept alive.")
	enemies := flag.Int("enemies", 64, "The number of enemies kept alive.")
	seed := flag.Uint64("seed", 1, "Scenario random seed.")
	configPath := flag.String("config", "", "Optional JSON sim.Config replacing the built-in arena config.")
	profileMode := flag.String("profile", "", "Write a pprof profile to the working directory: cpu, mem or allocs.")
	wallClock := flag.Bool("wall-clock", false, "Step by measured frame time instead of the fixed step.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	verbose := flag.Bool("v", false, "Log world events at debug level.")
	flag.Parse()

	log.Println("Starting tick stress test...")

	// 1. Build the world
	cfg := arena.Config()
	if *configPath != "" {
		var err error
		if cfg, err = loadConfig(*configPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}
	if *verbose {
		cfg.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	if !growPools(&cfg, *asteroids, *enemies) {
		log.Printf("Config pools cap the requested population")
	}

	opts := arena.DefaultOptions()
	opts.Width, opts.Height = 4000, 3000
	opts.Asteroids = *asteroids
	opts.Enemies = *enemies
	opts.Seed = *seed

	log.Printf("Populating arena with %d asteroids and %d enemies...\n", opts.Asteroids, opts.Enemies)
	a, err := arena.New(cfg, opts)
	if err != nil {
		log.Fatalf("Failed to build arena: %v", err)
	}
	log.Println("Population complete.")

	// 2. Run the simulation loop
	report := &Report{
		Duration:       *duration,
		Asteroids:      opts.Asteroids,
		Enemies:        opts.Enemies,
		Seed:           opts.Seed,
		FixedStep:      !*wallClock,
		GCPauseMetrics: *gcPauseMetrics,
		UpdateTime: Stats{
			Samples: make([]time.Duration, 0),
		},
	}

	switch *profileMode {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "allocs":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	default:
		log.Fatalf("Unknown profile mode %q", *profileMode)
	}

	runtime.ReadMemStats(&report.MemStatsStart)

	log.Printf("Running simulation for %s...\n", *duration)
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	startTime := time.Now()
	lastFrameTime := time.Now()
	fixed := cfg.FixedStep
	if fixed == 0 {
		fixed = sim.DefaultFixedStep
	}

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			dt := fixed
			if *wallClock {
				dt = time.Since(lastFrameTime).Seconds()
				lastFrameTime = time.Now()
			}

			updateStart := time.Now()
			tick := a.Step(dt)
			updateDuration := time.Since(updateStart)

			report.UpdateTime.Samples = append(report.UpdateTime.Samples, updateDuration)
			report.Observe(tick)
		}
	}

	report.TotalTime = time.Since(startTime)
	report.UpdateTime.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)
	report.World = a.World().Stats()
	report.Kills = a.Kills()
	report.PlayerDeaths = a.PlayerDeaths()

	log.Println("Simulation finished.")

	// 3. Generate Report to Console
	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		log.Fatalf("Failed to generate report: %v", err)
	}
	fmt.Println("--- End of Report ---")

	log.Println("Stress test complete.")
}

func loadConfig(path string) (sim.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return sim.Config{}, err
	}
	var cfg sim.Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return sim.Config{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return cfg, nil
}

// growPools raises pool maxima so the requested population fits. It reports
// false when a pool is missing from the config.
func growPools(cfg *sim.Config, asteroids, enemies int) bool {
	want := map[string]int{
		arena.TypeAsteroid: asteroids,
		arena.TypeEnemy:    enemies,
		"bullet":           (asteroids + enemies) * 4,
		arena.TypeShell:    enemies * 8,
	}
	found := 0
	for i := range cfg.Pools {
		p := &cfg.Pools[i]
		if n, ok := want[p.Type]; ok {
			found++
			p.Max = max(p.Max, n)
		}
	}
	return found == len(want)
}
