package status

import "errors"

var (
	// ErrUnknownEntity is returned when an effect targets an entity that does not exist.
	ErrUnknownEntity = errors.New("unknown entity")
	// ErrEffectNotFound is returned by RemoveEffect for an id the entity does not carry.
	ErrEffectNotFound = errors.New("effect not found")
	// ErrInvalidEffect rejects malformed applications.
	ErrInvalidEffect = errors.New("invalid effect")
	// ErrInvalidDefinition rejects malformed manager configuration.
	ErrInvalidDefinition = errors.New("invalid effect definition")
)
