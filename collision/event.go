package collision

import (
	"cmp"
	"math"

	"github.com/plus3/tickcore/ecs"
)

// Event describes one overlapping pair. A is always the lower id. Normal points
// from A towards B and Midpoint lies halfway through the overlap region.
type Event struct {
	A        ecs.EntityId `json:"a"`
	B        ecs.EntityId `json:"b"`
	Depth    float64      `json:"depth"`
	Distance float64      `json:"distance"`
	Midpoint ecs.Vec2     `json:"midpoint"`
	Normal   ecs.Vec2     `json:"normal"`
}

// Involves reports whether id is one side of the pair
func (e Event) Involves(id ecs.EntityId) bool {
	return e.A == id || e.B == id
}

// Other returns the opposite side of the pair from id
func (e Event) Other(id ecs.EntityId) ecs.EntityId {
	if e.A == id {
		return e.B
	}
	return e.A
}

func compareEvents(x, y Event) int {
	if c := cmp.Compare(x.A, y.A); c != 0 {
		return c
	}
	return cmp.Compare(x.B, y.B)
}

// overlap runs the narrow phase for one pair. Touching circles do not overlap.
func overlap(a, b *ecs.Entity) (Event, bool) {
	if b.Id < a.Id {
		a, b = b, a
	}

	delta := b.Position.Sub(a.Position)
	reach := a.Radius + b.Radius
	distSq := delta.Dot(delta)
	if distSq >= reach*reach {
		return Event{}, false
	}

	dist := math.Sqrt(distSq)
	normal := ecs.Vec2{X: 1, Y: 0}
	if dist > 0 {
		normal = delta.Scale(1 / dist)
	}
	depth := reach - dist

	return Event{
		A:        a.Id,
		B:        b.Id,
		Depth:    depth,
		Distance: dist,
		Midpoint: a.Position.Add(normal.Scale(a.Radius - depth/2)),
		Normal:   normal,
	}, true
}
