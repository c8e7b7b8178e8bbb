package ebiten_test

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/plus3/tickcore/ecs"
	"github.com/plus3/tickcore/sim/debugui"
	debugui_ebiten "github.com/plus3/tickcore/sim/debugui/ebiten"
	"github.com/plus3/tickcore/sim"
)

// Game implements ebiten.Game and overlays the inspector on the world.
type Game struct {
	world        *sim.World
	inspector    *debugui.Inspector
	imguiBackend *debugui_ebiten.ImguiBackend
	snapshots    []ecs.Snapshot
}

func (g *Game) Update() error {
	// Step the world inside an ImGui frame; the inspector stage draws last
	report := g.imguiBackend.Step(g.world, sim.DefaultFixedStep)
	g.inspector.Observe(report)
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.snapshots = g.world.Snapshot(g.snapshots[:0])
	for _, s := range g.snapshots {
		vector.DrawFilledCircle(screen, float32(s.Position.X), float32(s.Position.Y), float32(s.Radius), color.White, true)
	}

	// Draw ImGui overlay on top
	g.imguiBackend.Draw(screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.imguiBackend.Layout(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

func Example() {
	imguiBackend := debugui_ebiten.NewImguiBackend("tickcore inspector", 1280, 720)

	world, err := sim.NewWorld(sim.DefaultConfig(), nil)
	if err != nil {
		panic(err)
	}
	world.Spawn("asteroid", ecs.SpawnState{
		Position: ecs.Vec2{X: 200, Y: 200},
		Velocity: ecs.Vec2{X: 30, Y: 10},
		Radius:   16,
	})

	inspector, _ := debugui.Attach(world)

	game := &Game{
		world:        world,
		inspector:    inspector,
		imguiBackend: imguiBackend,
	}

	if err := ebiten.RunGame(game); err != nil {
		panic(err)
	}
}
