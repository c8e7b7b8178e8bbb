package ecs

import "fmt"

const (
	indexBits      = 24
	generationBits = 24
	indexMask      = 1<<indexBits - 1
	generationMask = 1<<generationBits - 1

	// MaxPoolSlots is the largest number of slots a single pool can address.
	MaxPoolSlots = 1 << indexBits

	// MaxGeneration is the number of distinct generations a slot cycles
	// through. Zero is skipped, so a stale id held across MaxGeneration
	// reuses of the same slot aliases the entity then living in it.
	MaxGeneration = generationMask
)

// EntityId encodes the pool ID (upper 16 bits), the slot generation (middle 24 bits)
// and the slot index (lower 24 bits). The zero value never refers to an entity.
type EntityId uint64

// NewEntityId creates an EntityId from a pool ID, slot generation and slot index
func NewEntityId(poolId uint16, generation uint32, index uint32) EntityId {
	return EntityId(uint64(poolId)<<(indexBits+generationBits) |
		uint64(generation&generationMask)<<indexBits |
		uint64(index&indexMask))
}

// PoolId extracts the pool ID from the entity ID
func (e EntityId) PoolId() uint16 {
	return uint16(e >> (indexBits + generationBits))
}

// Generation extracts the slot generation from the entity ID
func (e EntityId) Generation() uint32 {
	return uint32(e>>indexBits) & generationMask
}

// Index extracts the slot index from the entity ID
func (e EntityId) Index() uint32 {
	return uint32(e & indexMask)
}

func (e EntityId) String() string {
	return fmt.Sprintf("%d:%d@%d", e.PoolId(), e.Index(), e.Generation())
}

// nextGeneration advances a slot generation, skipping zero on wrap-around.
func nextGeneration(gen uint32) uint32 {
	gen = (gen + 1) & generationMask
	if gen == 0 {
		gen = 1
	}
	return gen
}

// Well-known attribute names used across the simulation.
const (
	AttrHealth    = "health"
	AttrMaxHealth = "max_health"
	AttrFaction   = "faction"
)

// Entity is a pooled simulation object. Systems mutate it in place during a tick;
// pointers returned by the Store are only valid until the end-of-tick sweep.
type Entity struct {
	Id       EntityId
	Type     string
	Position Vec2
	Velocity Vec2
	Radius   float64
	Drag     float64
	Visual   string
	Active   bool
	Attrs    Attributes
}

// SpawnState carries the initial kinematic and visual parameters for a spawn request.
type SpawnState struct {
	Position Vec2               `json:"position"`
	Velocity Vec2               `json:"velocity"`
	Radius   float64            `json:"radius"`
	Drag     float64            `json:"drag,omitempty"`
	Visual   string             `json:"visual,omitempty"`
	Nums     map[string]float64 `json:"nums,omitempty"`
	Strs     map[string]string  `json:"strs,omitempty"`
}

// Snapshot is the renderer-facing view of a live entity.
type Snapshot struct {
	Id       EntityId
	Type     string
	Position Vec2
	Radius   float64
	Visual   string
}

func (e *Entity) init(id EntityId, tag string, state SpawnState) {
	e.Id = id
	e.Type = tag
	e.Position = state.Position
	e.Velocity = state.Velocity
	e.Radius = state.Radius
	e.Drag = state.Drag
	e.Visual = state.Visual
	e.Active = true
	e.Attrs.Reset()
	for name, v := range state.Nums {
		e.Attrs.SetNum(name, v)
	}
	for name, v := range state.Strs {
		e.Attrs.SetStr(name, v)
	}
}

func (e *Entity) snapshot() Snapshot {
	return Snapshot{
		Id:       e.Id,
		Type:     e.Type,
		Position: e.Position,
		Radius:   e.Radius,
		Visual:   e.Visual,
	}
}
