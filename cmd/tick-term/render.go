package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/plus3/tickcore/ecs"
	"github.com/plus3/tickcore/internal/arena"
	"github.com/plus3/tickcore/sim"
)

type glyph struct {
	r     rune
	style tcell.Style
}

var visualGlyphs = map[string]glyph{
	"ship":     {'A', tcell.StyleDefault.Foreground(tcell.ColorAqua).Bold(true)},
	"enemy":    {'W', tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)},
	"asteroid": {'o', tcell.StyleDefault.Foreground(tcell.ColorGray)},
	"kinetic":  {'.', tcell.StyleDefault.Foreground(tcell.ColorYellow)},
	"laser":    {'-', tcell.StyleDefault.Foreground(tcell.ColorGreen)},
	"plasma":   {'*', tcell.StyleDefault.Foreground(tcell.ColorPurple)},
	"missile":  {'>', tcell.StyleDefault.Foreground(tcell.ColorOrange)},
	"particle": {'\'', tcell.StyleDefault.Foreground(tcell.ColorWhite)},
	"shell":    {':', tcell.StyleDefault.Foreground(tcell.ColorFuchsia)},
}

var fallbackGlyph = glyph{'?', tcell.StyleDefault}

var (
	waterStyle = tcell.StyleDefault.Background(tcell.NewRGBColor(10, 24, 60))
	roughStyle = tcell.StyleDefault.Background(tcell.NewRGBColor(40, 30, 20))
)

// Viewport maps arena coordinates onto a grid of terminal cells. The last
// terminal row is reserved for the status line.
type Viewport struct {
	Cols, Rows    int
	Width, Height float64
}

// Cell returns the terminal cell covering p, or false when p is off screen.
func (v Viewport) Cell(p ecs.Vec2) (int, int, bool) {
	if v.Cols <= 0 || v.Rows <= 0 || v.Width <= 0 || v.Height <= 0 {
		return 0, 0, false
	}
	if p.X < 0 || p.Y < 0 || p.X >= v.Width || p.Y >= v.Height {
		return 0, 0, false
	}
	x := int(p.X / v.Width * float64(v.Cols))
	y := int(p.Y / v.Height * float64(v.Rows))
	return min(x, v.Cols-1), min(y, v.Rows-1), true
}

// Point returns the arena position at the centre of a terminal cell.
func (v Viewport) Point(x, y int) ecs.Vec2 {
	return ecs.Vec2{
		X: (float64(x) + 0.5) * v.Width / float64(v.Cols),
		Y: (float64(y) + 0.5) * v.Height / float64(v.Rows),
	}
}

type Renderer struct {
	screen    tcell.Screen
	terrain   *sim.BiomeGrid
	snapshots []ecs.Snapshot
}

func NewRenderer(screen tcell.Screen, terrain sim.Terrain) *Renderer {
	grid, _ := terrain.(*sim.BiomeGrid)
	return &Renderer{screen: screen, terrain: grid}
}

func (r *Renderer) viewport(a *arena.Arena) Viewport {
	cols, rows := r.screen.Size()
	opts := a.Options()
	return Viewport{Cols: cols, Rows: rows - 1, Width: opts.Width, Height: opts.Height}
}

func (r *Renderer) Draw(a *arena.Arena, paused bool, sound bool) {
	r.screen.Clear()
	vp := r.viewport(a)
	r.drawTerrain(vp)

	world := a.World()
	r.snapshots = world.Snapshot(r.snapshots[:0])
	for _, s := range r.snapshots {
		x, y, ok := vp.Cell(s.Position)
		if !ok {
			continue
		}
		g, ok := visualGlyphs[s.Visual]
		if !ok {
			g, ok = visualGlyphs[s.Type]
		}
		if !ok {
			g = fallbackGlyph
		}
		_, _, under, _ := r.screen.GetContent(x, y)
		_, bg, _ := under.Decompose()
		r.screen.SetContent(x, y, g.r, nil, g.style.Background(bg))
	}

	r.drawStatus(a, vp.Rows, paused, sound)
	r.screen.Show()
}

func (r *Renderer) drawTerrain(vp Viewport) {
	if r.terrain == nil {
		return
	}
	for y := 0; y < vp.Rows; y++ {
		for x := 0; x < vp.Cols; x++ {
			var style tcell.Style
			switch r.terrain.BiomeAt(vp.Point(x, y)) {
			case sim.Water:
				style = waterStyle
			case sim.Rough:
				style = roughStyle
			default:
				continue
			}
			r.screen.SetContent(x, y, ' ', nil, style)
		}
	}
}

func (r *Renderer) drawStatus(a *arena.Arena, row int, paused, sound bool) {
	world := a.World()
	hp := 0.0
	if ship, ok := world.Store().Get(a.Player()); ok {
		hp = ship.Attrs.NumOr(ecs.AttrHealth, 0)
	}
	state := "running"
	if paused {
		state = "paused"
	}
	line := fmt.Sprintf(" tick %d | %s | hp %.0f | kills %d | deaths %d | accuracy %.0f%% | sound %v | [space] pause [q] quit",
		world.Tick(), state, hp, a.Kills(), a.PlayerDeaths(), world.Projectiles().Stats().Accuracy()*100, sound)
	style := tcell.StyleDefault.Reverse(true)
	cols, _ := r.screen.Size()
	for x, ch := range []rune(line) {
		if x >= cols {
			break
		}
		r.screen.SetContent(x, row, ch, nil, style)
	}
}
