package ecs

import (
	"container/heap"
	"fmt"
)

const (
	poolBlockSize = 64

	// DefaultPoolMax is the cap applied to pools configured without one.
	DefaultPoolMax = 4096
)

// PoolConfig declares the pool backing one entity type.
type PoolConfig struct {
	Type    string `json:"type"`
	Initial int    `json:"initial,omitempty"`
	Max     int    `json:"max,omitempty"`
}

type slotState uint8

const (
	slotFree slotState = iota
	slotLive
	slotPending
)

type slot struct {
	entity     Entity
	generation uint32
	state      slotState
}

// freeSet is a min-heap of free slot indices so allocation always picks the
// lowest-numbered free slot.
type freeSet []uint32

func (f freeSet) Len() int           { return len(f) }
func (f freeSet) Less(i, j int) bool { return f[i] < f[j] }
func (f freeSet) Swap(i, j int)      { f[i], f[j] = f[j], f[i] }
func (f *freeSet) Push(x any)        { *f = append(*f, x.(uint32)) }
func (f *freeSet) Pop() any {
	old := *f
	n := len(old)
	x := old[n-1]
	*f = old[:n-1]
	return x
}

// Pool stores the entities of a single type in fixed-size blocks.
// Blocks are heap-allocated individually so growing the pool never moves
// existing entities.
type Pool struct {
	id  uint16
	tag string
	max int

	blocks  []*[poolBlockSize]slot
	next    int
	free    freeSet
	pending []uint32
	live    []uint32

	spawned   uint64
	released  uint64
	exhausted uint64
}

func newPool(id uint16, cfg PoolConfig) (*Pool, error) {
	if cfg.Type == "" {
		return nil, fmt.Errorf("%w: empty type tag", ErrInvalidPoolConfig)
	}
	max := cfg.Max
	if max == 0 {
		max = DefaultPoolMax
	}
	if max < 0 || max > MaxPoolSlots {
		return nil, fmt.Errorf("%w: %q max %d out of range", ErrInvalidPoolConfig, cfg.Type, cfg.Max)
	}
	if cfg.Initial < 0 || cfg.Initial > max {
		return nil, fmt.Errorf("%w: %q initial %d exceeds max %d", ErrInvalidPoolConfig, cfg.Type, cfg.Initial, max)
	}

	p := &Pool{
		id:  id,
		tag: cfg.Type,
		max: max,
	}
	for i := 0; i < cfg.Initial; i++ {
		p.grow()
		p.free = append(p.free, uint32(i))
	}
	heap.Init(&p.free)
	return p, nil
}

// Type returns the entity type tag served by this pool
func (p *Pool) Type() string {
	return p.tag
}

// Id returns the pool ID encoded into entity IDs
func (p *Pool) Id() uint16 {
	return p.id
}

// Max returns the configured maximum number of slots
func (p *Pool) Max() int {
	return p.max
}

// Capacity returns the number of slots in the backing store
func (p *Pool) Capacity() int {
	return p.next
}

// Len returns the number of live entities
func (p *Pool) Len() int {
	return len(p.live) - len(p.pending)
}

// available returns how many spawns can succeed right now.
func (p *Pool) available() int {
	return len(p.free) + (p.max - p.next)
}

// grow appends one slot to the backing store and returns its index.
func (p *Pool) grow() uint32 {
	index := p.next
	p.next++

	blockIdx := index / poolBlockSize
	if blockIdx >= len(p.blocks) {
		p.blocks = append(p.blocks, new([poolBlockSize]slot))
	}
	return uint32(index)
}

func (p *Pool) slotAt(index uint32) *slot {
	if int(index) >= p.next {
		return nil
	}
	return &p.blocks[index/poolBlockSize][index%poolBlockSize]
}

func (p *Pool) allocate(state SpawnState) (EntityId, error) {
	var index uint32
	switch {
	case len(p.free) > 0:
		index = heap.Pop(&p.free).(uint32)
	case p.next < p.max:
		index = p.grow()
	default:
		p.exhausted++
		return 0, fmt.Errorf("%w: %q (max %d)", ErrPoolExhausted, p.tag, p.max)
	}

	s := p.slotAt(index)
	s.generation = nextGeneration(s.generation)
	s.state = slotLive

	id := NewEntityId(p.id, s.generation, index)
	s.entity.init(id, p.tag, state)

	p.live = append(p.live, index)
	p.spawned++
	return id, nil
}

// resolve returns the live slot for id, or nil if the id is stale.
func (p *Pool) resolve(id EntityId) *slot {
	s := p.slotAt(id.Index())
	if s == nil || s.state != slotLive || s.generation != id.Generation() {
		return nil
	}
	return s
}

func (p *Pool) despawn(id EntityId) error {
	s := p.resolve(id)
	if s == nil {
		return fmt.Errorf("%w: %s", ErrStaleEntity, id)
	}
	s.state = slotPending
	s.entity.Active = false
	p.pending = append(p.pending, id.Index())
	return nil
}

// sweep moves pending slots to the free set and drops them from the live order.
func (p *Pool) sweep() int {
	if len(p.pending) == 0 {
		return 0
	}

	for _, index := range p.pending {
		p.slotAt(index).state = slotFree
		heap.Push(&p.free, index)
	}
	released := len(p.pending)
	p.released += uint64(released)
	p.pending = p.pending[:0]

	writePos := 0
	for _, index := range p.live {
		if p.slotAt(index).state == slotLive {
			p.live[writePos] = index
			writePos++
		}
	}
	p.live = p.live[:writePos]

	return released
}

// forEach visits live entities in allocation order. Entities spawned during
// the walk are not visited.
func (p *Pool) forEach(fn func(*Entity) bool) bool {
	for i, n := 0, len(p.live); i < n; i++ {
		s := p.slotAt(p.live[i])
		if s.state != slotLive {
			continue
		}
		if !fn(&s.entity) {
			return false
		}
	}
	return true
}

func (p *Pool) stats() PoolStats {
	return PoolStats{
		Id:        p.id,
		Type:      p.tag,
		Active:    p.Len(),
		Pending:   len(p.pending),
		Free:      len(p.free),
		Capacity:  p.next,
		Max:       p.max,
		Spawned:   p.spawned,
		Released:  p.released,
		Exhausted: p.exhausted,
	}
}
