package ecs

import (
	"fmt"
	"iter"
	"math"
)

// Store owns every entity in the simulation. Each entity type gets its own Pool;
// systems receive pointers into pool storage that stay valid for the current tick.
type Store struct {
	pools []*Pool
	byTag map[string]*Pool
}

// NewStore creates a store with a pool for each of the given types
func NewStore(pools ...PoolConfig) (*Store, error) {
	s := &Store{
		byTag: make(map[string]*Pool),
	}
	for _, cfg := range pools {
		if err := s.RegisterType(cfg); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// RegisterType adds a pool for a new entity type.
func (s *Store) RegisterType(cfg PoolConfig) error {
	if _, exists := s.byTag[cfg.Type]; exists {
		return fmt.Errorf("%w: duplicate type %q", ErrInvalidPoolConfig, cfg.Type)
	}
	if len(s.pools) >= math.MaxUint16 {
		return fmt.Errorf("%w: too many pools", ErrInvalidPoolConfig)
	}

	pool, err := newPool(uint16(len(s.pools)+1), cfg)
	if err != nil {
		return err
	}
	s.pools = append(s.pools, pool)
	s.byTag[cfg.Type] = pool
	return nil
}

// Pool returns the pool for a type tag (if one exists)
func (s *Store) Pool(tag string) *Pool {
	return s.byTag[tag]
}

// Types returns the registered type tags in registration order
func (s *Store) Types() []string {
	types := make([]string, len(s.pools))
	for i, p := range s.pools {
		types[i] = p.tag
	}
	return types
}

// HasType reports whether a pool exists for the type tag
func (s *Store) HasType(tag string) bool {
	_, ok := s.byTag[tag]
	return ok
}

// Len returns the number of live entities of a type
func (s *Store) Len(tag string) int {
	if p := s.byTag[tag]; p != nil {
		return p.Len()
	}
	return 0
}

func (s *Store) poolFor(id EntityId) *Pool {
	pid := int(id.PoolId())
	if pid == 0 || pid > len(s.pools) {
		return nil
	}
	return s.pools[pid-1]
}

// Spawn allocates a new entity of the given type initialized from state
func (s *Store) Spawn(tag string, state SpawnState) (EntityId, error) {
	pool := s.byTag[tag]
	if pool == nil {
		return 0, fmt.Errorf("%w: %q", ErrUnknownType, tag)
	}
	return pool.allocate(state)
}

// BatchSpawn spawns one entity per state. Either every spawn succeeds or none
// is performed and ErrPoolExhausted is returned.
func (s *Store) BatchSpawn(tag string, states []SpawnState) ([]EntityId, error) {
	pool := s.byTag[tag]
	if pool == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, tag)
	}
	if len(states) > pool.available() {
		pool.exhausted++
		return nil, fmt.Errorf("%w: %q cannot fit %d entities (%d available)",
			ErrPoolExhausted, tag, len(states), pool.available())
	}

	ids := make([]EntityId, 0, len(states))
	for _, state := range states {
		id, err := pool.allocate(state)
		if err != nil {
			// capacity was checked above; roll back anyway rather than leak
			for _, spawned := range ids {
				_ = pool.despawn(spawned)
			}
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Despawn marks an entity inactive. The slot is not reused until Sweep runs.
func (s *Store) Despawn(id EntityId) error {
	pool := s.poolFor(id)
	if pool == nil {
		return fmt.Errorf("%w: %s", ErrStaleEntity, id)
	}
	return pool.despawn(id)
}

// Get returns the live entity for id. It reports false for despawned entities
// and for ids whose slot has since been reused.
func (s *Store) Get(id EntityId) (*Entity, bool) {
	pool := s.poolFor(id)
	if pool == nil {
		return nil, false
	}
	slot := pool.resolve(id)
	if slot == nil {
		return nil, false
	}
	return &slot.entity, true
}

// Contains reports whether id refers to a live entity
func (s *Store) Contains(id EntityId) bool {
	_, ok := s.Get(id)
	return ok
}

// ForEachActive calls fn for every live entity of a type in allocation order
// until fn returns false.
func (s *Store) ForEachActive(tag string, fn func(*Entity) bool) {
	if pool := s.byTag[tag]; pool != nil {
		pool.forEach(fn)
	}
}

// ForEach calls fn for every live entity, pool by pool in registration order.
func (s *Store) ForEach(fn func(*Entity) bool) {
	for _, pool := range s.pools {
		if !pool.forEach(fn) {
			return
		}
	}
}

// Active returns an iterator over the live entities of a type
func (s *Store) Active(tag string) iter.Seq2[EntityId, *Entity] {
	return func(yield func(EntityId, *Entity) bool) {
		s.ForEachActive(tag, func(e *Entity) bool {
			return yield(e.Id, e)
		})
	}
}

// Snapshot appends a renderer snapshot of every live entity to dst.
func (s *Store) Snapshot(dst []Snapshot) []Snapshot {
	s.ForEach(func(e *Entity) bool {
		dst = append(dst, e.snapshot())
		return true
	})
	return dst
}

// Sweep releases the slots of every entity despawned since the previous sweep.
// It must only run at the end of a tick.
func (s *Store) Sweep() int {
	released := 0
	for _, pool := range s.pools {
		released += pool.sweep()
	}
	return released
}

// Clear despawns every live entity and sweeps.
func (s *Store) Clear() {
	for _, pool := range s.pools {
		pool.forEach(func(e *Entity) bool {
			_ = pool.despawn(e.Id)
			return true
		})
	}
	s.Sweep()
}
