package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/plus3/tickcore/ecs"
	"github.com/plus3/tickcore/sim/debugui"
	debugui_ebiten "github.com/plus3/tickcore/sim/debugui/ebiten"
	"github.com/plus3/tickcore/internal/arena"
	"github.com/plus3/tickcore/sim"
)

const (
	ScreenWidth  = 1280
	ScreenHeight = 720
)

type Game struct {
	arena     *arena.Arena
	backend   *debugui_ebiten.ImguiBackend
	inspector *debugui.Inspector
	imgui     *debugui.ImguiSystem

	camera    Camera
	input     InputState
	renderer  *Renderer
	paused    bool
	snapshots []ecs.Snapshot
}

func main() {
	seed := flag.Uint64("seed", 1, "Scenario random seed.")
	asteroids := flag.Int("asteroids", 40, "The number of asteroids kept alive.")
	enemies := flag.Int("enemies", 8, "The number of enemies kept alive.")
	biomes := flag.Bool("biomes", true, "Scatter water and rough terrain patches.")
	flag.Parse()

	opts := arena.DefaultOptions()
	opts.Seed = *seed
	opts.Asteroids = *asteroids
	opts.Enemies = *enemies
	opts.Biomes = *biomes

	backend := debugui_ebiten.NewImguiBackend("tickcore viewer", ScreenWidth, ScreenHeight)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	a, err := arena.New(arena.Config(), opts)
	if err != nil {
		log.Fatalf("Failed to build arena: %v", err)
	}
	inspector, imguiSystem := debugui.Attach(a.World())

	game := &Game{
		arena:     a,
		backend:   backend,
		inspector: inspector,
		imgui:     imguiSystem,
		camera:    Camera{Zoom: 1},
		renderer:  NewRenderer(a.World().Terrain()),
	}

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}

func (g *Game) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyQ) || ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if !g.imgui.InputState.WantCaptureKeyboard && inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	g.updateCamera()

	if g.paused {
		g.backend.BeginFrame()
		g.imgui.Render()
		g.backend.EndFrame()
		return nil
	}

	report := g.backend.Step(g.arena.World(), sim.DefaultFixedStep)
	g.arena.Observe(report)
	g.inspector.Observe(report)
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.snapshots = g.arena.World().Snapshot(g.snapshots[:0])
	g.renderer.Draw(screen, &g.camera, g.snapshots)
	g.renderer.DrawHUD(screen, g.arena, g.paused)

	// Draw ImGui overlay on top
	g.backend.Draw(screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.backend.Layout(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}
