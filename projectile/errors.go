package projectile

import "errors"

var (
	ErrUnknownTemplate = errors.New("unknown projectile template")
	ErrInvalidTemplate = errors.New("invalid projectile template")
	ErrNoHeading       = errors.New("projectile has no heading")
	ErrAlreadyTracked  = errors.New("projectile already tracked")
)
