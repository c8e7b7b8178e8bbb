package status

import (
	"slices"

	"github.com/plus3/tickcore/ecs"
)

// Effect is one active instance attached to an entity.
type Effect struct {
	ID        uint64       `json:"id"`
	Entity    ecs.EntityId `json:"entity"`
	Name      string       `json:"name"`
	Type      EffectType   `json:"type"`
	Magnitude float64      `json:"magnitude"`
	Remaining float64      `json:"remaining"`
	Duration  float64      `json:"duration"`
	AppliedAt float64      `json:"applied_at"`
	Source    ecs.EntityId `json:"source,omitempty"`
	Stacking  StackingMode `json:"stacking"`
	Tags      []string     `json:"tags,omitempty"`
}

// RemainingRatio returns the fraction of the duration left, in [0, 1].
func (e Effect) RemainingRatio() float64 {
	if e.Duration <= 0 {
		return 1
	}
	return max(0, e.Remaining/e.Duration)
}

// HasTag reports whether the effect carries tag
func (e Effect) HasTag(tag string) bool {
	return slices.Contains(e.Tags, tag)
}

func (e *Effect) clone() Effect {
	c := *e
	c.Tags = slices.Clone(e.Tags)
	return c
}

// ExpiredEffect is reported once, on the update that removes the instance.
type ExpiredEffect struct {
	Effect
	ExpiredAt float64 `json:"expired_at"`
}
