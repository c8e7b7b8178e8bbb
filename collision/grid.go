package collision

import (
	"math"

	"github.com/kamstrup/intmap"
	"github.com/plus3/tickcore/ecs"
)

// grid is a uniform spatial hash used as an optional broad phase. An entity is
// inserted into every cell its bounding box touches, so a pair may meet in
// several cells; the per-entity visited set keeps each pair to one test.
type grid struct {
	size    float64
	cells   *intmap.Map[int64, []int32]
	visited *intmap.Map[int32, struct{}]
	keys    []int64
}

func newGrid(size float64) *grid {
	return &grid{
		size:    size,
		cells:   intmap.New[int64, []int32](256),
		visited: intmap.New[int32, struct{}](64),
	}
}

func cellKey(cx, cy int32) int64 {
	return int64(cx)<<32 | int64(uint32(cy))
}

func (g *grid) span(e *ecs.Entity) (x0, y0, x1, y1 int32) {
	x0 = int32(math.Floor((e.Position.X - e.Radius) / g.size))
	y0 = int32(math.Floor((e.Position.Y - e.Radius) / g.size))
	x1 = int32(math.Floor((e.Position.X + e.Radius) / g.size))
	y1 = int32(math.Floor((e.Position.Y + e.Radius) / g.size))
	return
}

func (g *grid) reset() {
	for _, key := range g.keys {
		if bucket, ok := g.cells.Get(key); ok {
			g.cells.Put(key, bucket[:0])
		}
	}
	g.keys = g.keys[:0]
}

// pairs calls test once for every candidate pair (i < j) sharing a cell.
func (g *grid) pairs(entities []*ecs.Entity, test func(a, b *ecs.Entity)) {
	g.reset()

	for i, e := range entities {
		x0, y0, x1, y1 := g.span(e)
		for cx := x0; cx <= x1; cx++ {
			for cy := y0; cy <= y1; cy++ {
				key := cellKey(cx, cy)
				bucket, _ := g.cells.Get(key)
				if len(bucket) == 0 {
					g.keys = append(g.keys, key)
				}
				g.cells.Put(key, append(bucket, int32(i)))
			}
		}
	}

	for i, a := range entities {
		g.visited.Clear()
		x0, y0, x1, y1 := g.span(a)
		for cx := x0; cx <= x1; cx++ {
			for cy := y0; cy <= y1; cy++ {
				bucket, _ := g.cells.Get(cellKey(cx, cy))
				for _, j := range bucket {
					if int(j) <= i || g.visited.Has(j) {
						continue
					}
					g.visited.Put(j, struct{}{})
					test(a, entities[j])
				}
			}
		}
	}
}
