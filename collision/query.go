package collision

import "github.com/plus3/tickcore/ecs"

// SegmentHitsCircle reports whether the segment from..to passes strictly within
// radius of center.
func SegmentHitsCircle(from, to, center ecs.Vec2, radius float64) bool {
	seg := to.Sub(from)
	toCenter := center.Sub(from)

	lenSq := seg.Dot(seg)
	t := 0.0
	if lenSq > 0 {
		t = min(1, max(0, toCenter.Dot(seg)/lenSq))
	}

	closest := from.Add(seg.Scale(t))
	d := center.Sub(closest)
	return d.Dot(d) < radius*radius
}

// SweptHit is the continuous test for fast movers: it checks whether a circle
// of the given radius travelling from..to passed through target this tick.
func SweptHit(from, to ecs.Vec2, radius float64, target *ecs.Entity) bool {
	if target == nil || !target.Active {
		return false
	}
	return SegmentHitsCircle(from, to, target.Position, radius+target.Radius)
}

// InRadius returns the active entities whose centers lie within radius of center.
func InRadius(entities []*ecs.Entity, center ecs.Vec2, radius float64) []*ecs.Entity {
	var out []*ecs.Entity
	for _, e := range entities {
		if e.Active && e.Position.Dist(center) <= radius {
			out = append(out, e)
		}
	}
	return out
}

// Nearest returns the active entity closest to point. An empty tag matches any
// type. Ties go to the entity listed first.
func Nearest(entities []*ecs.Entity, point ecs.Vec2, tag string) (*ecs.Entity, bool) {
	var (
		best     *ecs.Entity
		bestDist float64
	)
	for _, e := range entities {
		if !e.Active || (tag != "" && e.Type != tag) {
			continue
		}
		d := e.Position.Dist(point)
		if best == nil || d < bestDist {
			best, bestDist = e, d
		}
	}
	return best, best != nil
}
