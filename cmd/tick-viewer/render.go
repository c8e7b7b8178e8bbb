package main

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/plus3/tickcore/ecs"
	"github.com/plus3/tickcore/internal/arena"
	"github.com/plus3/tickcore/sim"
)

var (
	backgroundColor = color.RGBA{12, 14, 24, 255}
	waterColor      = color.RGBA{20, 40, 80, 255}
	roughColor      = color.RGBA{48, 36, 28, 255}
)

var visualColors = map[string]color.RGBA{
	"ship":     {120, 220, 255, 255},
	"enemy":    {255, 90, 90, 255},
	"asteroid": {160, 150, 140, 255},
	"kinetic":  {255, 255, 180, 255},
	"laser":    {120, 255, 120, 255},
	"plasma":   {200, 120, 255, 255},
	"missile":  {255, 170, 60, 255},
	"particle": {255, 255, 255, 255},
	"shell":    {255, 60, 160, 255},
}

type Renderer struct {
	terrain *sim.BiomeGrid
}

func NewRenderer(terrain sim.Terrain) *Renderer {
	grid, _ := terrain.(*sim.BiomeGrid)
	return &Renderer{terrain: grid}
}

func (r *Renderer) Draw(screen *ebiten.Image, camera *Camera, snapshots []ecs.Snapshot) {
	screen.Fill(backgroundColor)
	r.drawTerrain(screen, camera)

	for _, s := range snapshots {
		x, y := camera.ToScreen(s.Position.X, s.Position.Y)
		radius := max(float32(s.Radius)*camera.Zoom, 1)
		clr, ok := visualColors[s.Visual]
		if !ok {
			clr = visualColors[s.Type]
		}
		vector.DrawFilledCircle(screen, x, y, radius, clr, true)
	}
}

func (r *Renderer) drawTerrain(screen *ebiten.Image, camera *Camera) {
	if r.terrain == nil {
		return
	}
	w, h, cell := r.terrain.Size()
	size := float32(cell) * camera.Zoom
	for cy := 0; cy < h; cy++ {
		for cx := 0; cx < w; cx++ {
			px, py := float64(cx)*cell, float64(cy)*cell
			var clr color.RGBA
			switch r.terrain.BiomeAt(ecs.Vec2{X: px, Y: py}) {
			case sim.Water:
				clr = waterColor
			case sim.Rough:
				clr = roughColor
			default:
				continue
			}
			x, y := camera.ToScreen(px, py)
			vector.DrawFilledRect(screen, x, y, size, size, clr, false)
		}
	}
}

func (r *Renderer) DrawHUD(screen *ebiten.Image, a *arena.Arena, paused bool) {
	world := a.World()
	state := "running"
	if paused {
		state = "PAUSED"
	}
	hp := 0.0
	if ship, ok := world.Store().Get(a.Player()); ok {
		hp = ship.Attrs.NumOr(ecs.AttrHealth, 0)
	}
	stats := world.Projectiles().Stats()
	ebitenutil.DebugPrint(screen, fmt.Sprintf(
		"tick %d  %s  [space] pause  [f] follow  [arrows] pan  [q] quit\nhp %.0f  kills %d  deaths %d  accuracy %.0f%%",
		world.Tick(), state, hp, a.Kills(), a.PlayerDeaths(), stats.Accuracy()*100))
}
