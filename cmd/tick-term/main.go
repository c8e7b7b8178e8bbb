package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/plus3/tickcore/internal/arena"
	"github.com/plus3/tickcore/sim"
)

type Game struct {
	screen   tcell.Screen
	arena    *arena.Arena
	renderer *Renderer
	sound    *SoundManager
	paused   bool
}

func NewGame(a *arena.Arena, sound *SoundManager) (*Game, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.HideCursor()

	return &Game{
		screen:   screen,
		arena:    a,
		renderer: NewRenderer(screen, a.World().Terrain()),
		sound:    sound,
	}, nil
}

// handleInput reports whether the game should keep running.
func (g *Game) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() == tcell.KeyRune {
			switch ev.Rune() {
			case 'q':
				return false
			case ' ':
				g.paused = !g.paused
			case 'n':
				if g.paused {
					g.step()
				}
			}
		}
	case *tcell.EventResize:
		g.screen.Sync()
	}
	return true
}

func (g *Game) step() {
	report := g.arena.Step(sim.DefaultFixedStep)
	if g.sound != nil {
		g.sound.Play(report)
	}
}

func (g *Game) run(frame time.Duration) {
	ticker := time.NewTicker(frame)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := g.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if !g.handleInput(ev) {
				return
			}
		case <-ticker.C:
			if !g.paused {
				g.step()
			}
			g.renderer.Draw(g.arena, g.paused, g.sound != nil)
		}
	}
}

func (g *Game) cleanup() {
	if g.sound != nil {
		g.sound.Cleanup()
	}
	g.screen.Fini()
}

func main() {
	seed := flag.Uint64("seed", 1, "Scenario random seed.")
	asteroids := flag.Int("asteroids", 30, "The number of asteroids kept alive.")
	enemies := flag.Int("enemies", 6, "The number of enemies kept alive.")
	biomes := flag.Bool("biomes", true, "Scatter water and rough terrain patches.")
	sound := flag.Bool("sound", false, "Play tones for impacts and deaths.")
	flag.Parse()

	opts := arena.DefaultOptions()
	opts.Seed = *seed
	opts.Asteroids = *asteroids
	opts.Enemies = *enemies
	opts.Biomes = *biomes

	a, err := arena.New(arena.Config(), opts)
	if err != nil {
		log.Fatalf("Failed to build arena: %v", err)
	}

	// Audio comes up before the terminal so a failure can still be logged.
	var sm *SoundManager
	if *sound {
		sm = NewSoundManager()
		if err := sm.Initialize(); err != nil {
			log.Printf("audio unavailable, running silent: %v", err)
			sm = nil
		}
	}

	game, err := NewGame(a, sm)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize terminal: %v\n", err)
		os.Exit(1)
	}
	defer game.cleanup()

	game.run(time.Duration(sim.DefaultFixedStep * float64(time.Second)))
}
