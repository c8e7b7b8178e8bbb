package sim

import (
	"errors"
	"fmt"
	"math"

	"github.com/plus3/tickcore/ecs"
)

// ErrInvalidTerrain is returned for terrain that cannot be sampled.
var ErrInvalidTerrain = errors.New("invalid terrain")

// TerrainEffects modulates movement at a position. FrictionMultiplier scales
// the distance covered (1 is unimpeded, below 1 is slower); ExtraDrag is added
// to the entity's own drag coefficient.
type TerrainEffects struct {
	FrictionMultiplier float64 `json:"friction_multiplier"`
	ExtraDrag          float64 `json:"extra_drag"`
}

// Terrain is the read-only terrain lookup consulted by the motion stage.
type Terrain interface {
	EffectsAt(pos ecs.Vec2) TerrainEffects
}

// FlatTerrain leaves movement unmodified everywhere.
type FlatTerrain struct{}

func (FlatTerrain) EffectsAt(ecs.Vec2) TerrainEffects {
	return TerrainEffects{FrictionMultiplier: 1}
}

// TerrainFunc adapts a function to Terrain.
type TerrainFunc func(pos ecs.Vec2) TerrainEffects

func (f TerrainFunc) EffectsAt(pos ecs.Vec2) TerrainEffects { return f(pos) }

// Biome is a terrain cell kind.
type Biome uint8

const (
	Land Biome = iota
	Water
	Rough
)

func (b Biome) String() string {
	switch b {
	case Water:
		return "water"
	case Rough:
		return "rough"
	default:
		return "land"
	}
}

// DefaultBiomeEffects is the stock friction table: water slows movement to 30%
// and rough ground to 60%.
func DefaultBiomeEffects() map[Biome]TerrainEffects {
	return map[Biome]TerrainEffects{
		Land:  {FrictionMultiplier: 1.0},
		Water: {FrictionMultiplier: 0.3},
		Rough: {FrictionMultiplier: 0.6},
	}
}

// BiomeGrid is a fixed grid of biome cells anchored at the origin. Positions
// outside the grid read as land.
type BiomeGrid struct {
	cellSize      float64
	width, height int
	cells         []Biome
	effects       map[Biome]TerrainEffects
}

// NewBiomeGrid creates a width×height grid of land cells. The cell size must
// be positive and finite.
func NewBiomeGrid(width, height int, cellSize float64) (*BiomeGrid, error) {
	if !(cellSize > 0) || math.IsInf(cellSize, 1) {
		return nil, fmt.Errorf("%w: cell size %v", ErrInvalidTerrain, cellSize)
	}
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("%w: grid size %dx%d", ErrInvalidTerrain, width, height)
	}
	return &BiomeGrid{
		cellSize: cellSize,
		width:    width,
		height:   height,
		cells:    make([]Biome, width*height),
		effects:  DefaultBiomeEffects(),
	}, nil
}

// SetEffects overrides the effects of one biome.
func (g *BiomeGrid) SetEffects(b Biome, fx TerrainEffects) {
	g.effects[b] = fx
}

// Set assigns a biome to cell (x, y). Out of range cells are ignored.
func (g *BiomeGrid) Set(x, y int, b Biome) {
	if x >= 0 && y >= 0 && x < g.width && y < g.height {
		g.cells[y*g.width+x] = b
	}
}

// Fill assigns b to every cell of the rectangle [x0,x1)×[y0,y1).
func (g *BiomeGrid) Fill(x0, y0, x1, y1 int, b Biome) {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			g.Set(x, y, b)
		}
	}
}

// Size returns the grid dimensions in cells and the cell size.
func (g *BiomeGrid) Size() (width, height int, cellSize float64) {
	return g.width, g.height, g.cellSize
}

// BiomeAt returns the biome under pos
func (g *BiomeGrid) BiomeAt(pos ecs.Vec2) Biome {
	x := int(math.Floor(pos.X / g.cellSize))
	y := int(math.Floor(pos.Y / g.cellSize))
	if x < 0 || y < 0 || x >= g.width || y >= g.height {
		return Land
	}
	return g.cells[y*g.width+x]
}

func (g *BiomeGrid) EffectsAt(pos ecs.Vec2) TerrainEffects {
	if fx, ok := g.effects[g.BiomeAt(pos)]; ok {
		return fx
	}
	return TerrainEffects{FrictionMultiplier: 1}
}
