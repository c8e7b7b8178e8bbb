package collision

import (
	"slices"

	"github.com/kamstrup/intmap"
	"github.com/plus3/tickcore/ecs"
)

// Config declares the collision groups and the optional broad phase.
type Config struct {
	Groups []Group `json:"groups"`
	// CellSize enables the uniform-grid broad phase when positive.
	CellSize float64 `json:"cell_size,omitempty"`
}

// Stats holds the detection counters. They track Detect only; filtered
// queries through DetectFunc leave them untouched.
type Stats struct {
	ChecksLastCall     int
	CollisionsLastCall int
	TotalChecks        uint64
	TotalCollisions    uint64
	Groups             []string
}

// System detects circle-circle overlaps between entities of mutually
// colliding groups. It never mutates the entities it inspects.
type System struct {
	matrix *Matrix
	grid   *grid

	candidates []*ecs.Entity
	events     []Event
	seen       *intmap.Map[ecs.EntityId, struct{}]

	checksLastCall     int
	collisionsLastCall int
	totalChecks        uint64
	totalCollisions    uint64
}

// NewSystem compiles the groups in cfg.
func NewSystem(cfg Config) (*System, error) {
	matrix, err := NewMatrix(cfg.Groups)
	if err != nil {
		return nil, err
	}
	s := &System{
		matrix: matrix,
		seen:   intmap.New[ecs.EntityId, struct{}](64),
	}
	if cfg.CellSize > 0 {
		s.grid = newGrid(cfg.CellSize)
	}
	return s, nil
}

// Matrix returns the compiled group relation
func (s *System) Matrix() *Matrix {
	return s.matrix
}

// Gather appends every active entity of a grouped type to dst, pool by pool
// in store registration order.
func (s *System) Gather(store *ecs.Store, dst []*ecs.Entity) []*ecs.Entity {
	for _, tag := range store.Types() {
		if !s.matrix.Has(tag) {
			continue
		}
		store.ForEachActive(tag, func(e *ecs.Entity) bool {
			dst = append(dst, e)
			return true
		})
	}
	return dst
}

// Detect returns one event for every overlapping pair of active entities whose
// groups collide, sorted by (A, B). The returned slice is freshly allocated.
func (s *System) Detect(entities []*ecs.Entity) []Event {
	checks := s.detect(entities, nil)

	s.checksLastCall = checks
	s.collisionsLastCall = len(s.events)
	s.totalChecks += uint64(checks)
	s.totalCollisions += uint64(len(s.events))

	return slices.Clone(s.events)
}

// DetectFunc is Detect with an extra pair filter. accept is only consulted
// for pairs that already pass the group check. It does not count towards
// Stats.
func (s *System) DetectFunc(entities []*ecs.Entity, accept func(a, b *ecs.Entity) bool) []Event {
	s.detect(entities, accept)
	return slices.Clone(s.events)
}

// detect fills s.events and returns the number of narrow-phase tests.
func (s *System) detect(entities []*ecs.Entity, accept func(a, b *ecs.Entity) bool) int {
	s.candidates = s.filter(entities)
	s.events = s.events[:0]
	checks := 0

	test := func(a, b *ecs.Entity) {
		if !s.matrix.CanCollide(a.Type, b.Type) {
			return
		}
		if accept != nil && !accept(a, b) {
			return
		}
		checks++
		if ev, ok := overlap(a, b); ok {
			s.events = append(s.events, ev)
		}
	}

	if s.grid != nil {
		s.grid.pairs(s.candidates, test)
	} else {
		for i, a := range s.candidates {
			for _, b := range s.candidates[i+1:] {
				test(a, b)
			}
		}
	}

	slices.SortFunc(s.events, compareEvents)
	return checks
}

// filter drops inactive, ungrouped and repeated entities.
func (s *System) filter(entities []*ecs.Entity) []*ecs.Entity {
	out := s.candidates[:0]
	s.seen.Clear()
	for _, e := range entities {
		if e == nil || !e.Active || !s.matrix.Has(e.Type) {
			continue
		}
		if s.seen.Has(e.Id) {
			continue
		}
		s.seen.Put(e.Id, struct{}{})
		out = append(out, e)
	}
	return out
}

// Stats returns the detection counters.
func (s *System) Stats() Stats {
	return Stats{
		ChecksLastCall:     s.checksLastCall,
		CollisionsLastCall: s.collisionsLastCall,
		TotalChecks:        s.totalChecks,
		TotalCollisions:    s.totalCollisions,
		Groups:             s.matrix.Groups(),
	}
}
