package ecs

import "errors"

var (
	// ErrPoolExhausted is returned when a spawn request cannot be satisfied
	// because the pool reached its configured maximum.
	ErrPoolExhausted = errors.New("pool exhausted")

	// ErrStaleEntity is returned when an id refers to a despawned or reused slot.
	ErrStaleEntity = errors.New("stale entity reference")

	// ErrUnknownType is returned for type tags that have no registered pool.
	ErrUnknownType = errors.New("unknown entity type")

	// ErrInvalidPoolConfig is returned when a pool definition is malformed.
	ErrInvalidPoolConfig = errors.New("invalid pool config")
)
