package status

import (
	"fmt"
	"math"
	"slices"

	"github.com/kamstrup/intmap"
	"github.com/plus3/tickcore/ecs"
)

// EntityChecker reports whether an entity currently exists. *ecs.Store
// satisfies it.
type EntityChecker interface {
	Contains(id ecs.EntityId) bool
}

// EntityCheckerFunc adapts a function to EntityChecker.
type EntityCheckerFunc func(id ecs.EntityId) bool

func (f EntityCheckerFunc) Contains(id ecs.EntityId) bool { return f(id) }

// Config holds the effect definitions for a Manager.
type Config struct {
	Definitions []Definition `json:"definitions,omitempty"`
	// DefaultStacking applies to names with no definition. Empty means refresh.
	DefaultStacking StackingMode `json:"default_stacking,omitempty" jsonschema:"enum=none,enum=refresh,enum=stack,enum=replace_if_stronger"`
}

// Application describes one apply request.
type Application struct {
	Entity    ecs.EntityId
	Name      string
	Type      EffectType
	Magnitude float64
	Duration  float64
	Source    ecs.EntityId
	Tags      []string
	Now       float64
}

// Summary is a read-only view of the manager counters.
type Summary struct {
	EntitiesWithEffects int `json:"entities_with_effects"`
	ActiveEffects       int `json:"active_effects"`
	// TotalApplied counts every application that was not ignored.
	TotalApplied uint64 `json:"total_applied"`
	TotalExpired uint64 `json:"total_expired"`
	TotalRemoved uint64 `json:"total_removed"`
	UniqueNames  int    `json:"unique_names"`
}

// Manager tracks named, timed effects per entity.
type Manager struct {
	entities        EntityChecker
	defs            map[string]Definition
	defaultStacking StackingMode

	byEntity *intmap.Map[ecs.EntityId, []*Effect]
	order    []ecs.EntityId
	names    map[string]struct{}

	nextID       uint64
	totalApplied uint64
	totalExpired uint64
	totalRemoved uint64
}

// NewManager creates a manager that validates targets against entities.
func NewManager(entities EntityChecker, cfg Config) (*Manager, error) {
	if entities == nil {
		return nil, fmt.Errorf("%w: nil entity checker", ErrInvalidDefinition)
	}

	def := cfg.DefaultStacking
	if def == "" {
		def = StackRefresh
	}
	if !def.valid() {
		return nil, fmt.Errorf("%w: default stacking %q", ErrInvalidDefinition, def)
	}

	m := &Manager{
		entities:        entities,
		defs:            make(map[string]Definition, len(cfg.Definitions)),
		defaultStacking: def,
		byEntity:        intmap.New[ecs.EntityId, []*Effect](64),
		names:           make(map[string]struct{}),
	}
	for _, d := range cfg.Definitions {
		if d.Name == "" {
			return nil, fmt.Errorf("%w: definition without a name", ErrInvalidDefinition)
		}
		if _, dup := m.defs[d.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate definition %q", ErrInvalidDefinition, d.Name)
		}
		if d.Type != "" && !d.Type.valid() {
			return nil, fmt.Errorf("%w: %q has unknown type %q", ErrInvalidDefinition, d.Name, d.Type)
		}
		if d.Stacking == "" {
			d.Stacking = def
		}
		if !d.Stacking.valid() {
			return nil, fmt.Errorf("%w: %q has unknown stacking mode %q", ErrInvalidDefinition, d.Name, d.Stacking)
		}
		m.defs[d.Name] = d
	}
	return m, nil
}

// Definition returns the effective definition for name.
func (m *Manager) Definition(name string) Definition {
	if d, ok := m.defs[name]; ok {
		return d
	}
	return Definition{Name: name, Stacking: m.defaultStacking}
}

// ApplyEffect applies name to entity with the declared stacking policy.
func (m *Manager) ApplyEffect(entity ecs.EntityId, name string, typ EffectType, magnitude, duration float64) (Outcome, error) {
	return m.Apply(Application{
		Entity:    entity,
		Name:      name,
		Type:      typ,
		Magnitude: magnitude,
		Duration:  duration,
	})
}

// Apply applies an effect. It fails with ErrUnknownEntity when the target does
// not exist, and otherwise reconciles against any active effect of the same name.
func (m *Manager) Apply(app Application) (Outcome, error) {
	if !m.entities.Contains(app.Entity) {
		return Ignored, fmt.Errorf("%w: %s", ErrUnknownEntity, app.Entity)
	}
	if app.Name == "" {
		return Ignored, fmt.Errorf("%w: empty name", ErrInvalidEffect)
	}
	if !(app.Duration > 0) || math.IsInf(app.Duration, 0) || math.IsNaN(app.Magnitude) {
		return Ignored, fmt.Errorf("%w: %q duration %v magnitude %v", ErrInvalidEffect, app.Name, app.Duration, app.Magnitude)
	}

	def := m.Definition(app.Name)
	typ := app.Type
	if typ == "" {
		typ = def.Type
	}
	if !typ.valid() {
		return Ignored, fmt.Errorf("%w: %q has no valid type", ErrInvalidEffect, app.Name)
	}
	if def.Type != "" && typ != def.Type {
		return Ignored, fmt.Errorf("%w: %q is declared %s, applied as %s", ErrInvalidEffect, app.Name, def.Type, typ)
	}

	effects, _ := m.byEntity.Get(app.Entity)
	existing := slices.IndexFunc(effects, func(e *Effect) bool { return e.Name == app.Name })

	outcome := Added
	if existing >= 0 {
		old := effects[existing]
		switch def.Stacking {
		case StackNone:
			return Ignored, nil
		case StackRefresh:
			old.Magnitude = app.Magnitude
			old.Remaining = app.Duration
			old.Duration = app.Duration
			old.AppliedAt = app.Now
			old.Source = app.Source
			old.Tags = slices.Clone(app.Tags)
			m.totalApplied++
			return Refreshed, nil
		case StackStack:
			outcome = Stacked
		case StackReplaceIfStronger:
			if app.Magnitude <= old.Magnitude {
				return Ignored, nil
			}
			effects = slices.Delete(effects, existing, existing+1)
			outcome = Replaced
		}
	}

	m.nextID++
	effects = append(effects, &Effect{
		ID:        m.nextID,
		Entity:    app.Entity,
		Name:      app.Name,
		Type:      typ,
		Magnitude: app.Magnitude,
		Remaining: app.Duration,
		Duration:  app.Duration,
		AppliedAt: app.Now,
		Source:    app.Source,
		Stacking:  def.Stacking,
		Tags:      slices.Clone(app.Tags),
	})
	m.store(app.Entity, effects)
	m.names[app.Name] = struct{}{}
	m.totalApplied++
	return outcome, nil
}

// store writes the effect list for entity, keeping order sorted by id.
func (m *Manager) store(entity ecs.EntityId, effects []*Effect) {
	if len(effects) == 0 {
		if m.byEntity.Del(entity) {
			if i, ok := slices.BinarySearch(m.order, entity); ok {
				m.order = slices.Delete(m.order, i, i+1)
			}
		}
		return
	}
	if !m.byEntity.Has(entity) {
		i, _ := slices.BinarySearch(m.order, entity)
		m.order = slices.Insert(m.order, i, entity)
	}
	m.byEntity.Put(entity, effects)
}

// UpdateEffects advances every effect by dt and removes those whose remaining
// duration reached zero. Expired effects are reported by ascending entity id,
// and oldest first within an entity.
func (m *Manager) UpdateEffects(dt, now float64) []ExpiredEffect {
	var expired []ExpiredEffect

	for _, entity := range slices.Clone(m.order) {
		effects, _ := m.byEntity.Get(entity)
		kept := effects[:0]
		for _, e := range effects {
			e.Remaining -= dt
			if e.Remaining <= 0 {
				expired = append(expired, ExpiredEffect{Effect: e.clone(), ExpiredAt: now})
				continue
			}
			kept = append(kept, e)
		}
		clear(effects[len(kept):])
		m.store(entity, kept)
	}

	m.totalExpired += uint64(len(expired))
	return expired
}

// HasEffect reports whether entity carries an effect called name.
func (m *Manager) HasEffect(entity ecs.EntityId, name string) bool {
	effects, _ := m.byEntity.Get(entity)
	return slices.ContainsFunc(effects, func(e *Effect) bool { return e.Name == name })
}

// EntityEffects returns copies of the effects on entity in application order,
// optionally restricted to the given types. Entities without effects yield nil.
func (m *Manager) EntityEffects(entity ecs.EntityId, types ...EffectType) []Effect {
	effects, _ := m.byEntity.Get(entity)
	var out []Effect
	for _, e := range effects {
		if len(types) > 0 && !slices.Contains(types, e.Type) {
			continue
		}
		out = append(out, e.clone())
	}
	return out
}

// Magnitude sums the magnitude of every instance of name on entity.
func (m *Manager) Magnitude(entity ecs.EntityId, name string) float64 {
	effects, _ := m.byEntity.Get(entity)
	total := 0.0
	for _, e := range effects {
		if e.Name == name {
			total += e.Magnitude
		}
	}
	return total
}

// RemoveEffect removes one instance by id.
func (m *Manager) RemoveEffect(entity ecs.EntityId, id uint64) error {
	effects, _ := m.byEntity.Get(entity)
	i := slices.IndexFunc(effects, func(e *Effect) bool { return e.ID == id })
	if i < 0 {
		return fmt.Errorf("%w: %d on %s", ErrEffectNotFound, id, entity)
	}
	m.store(entity, slices.Delete(effects, i, i+1))
	m.totalRemoved++
	return nil
}

// ClearEntity removes the effects on entity, or only those of the given types,
// and returns how many were removed.
func (m *Manager) ClearEntity(entity ecs.EntityId, types ...EffectType) int {
	effects, ok := m.byEntity.Get(entity)
	if !ok {
		return 0
	}
	kept := slices.DeleteFunc(effects, func(e *Effect) bool {
		return len(types) == 0 || slices.Contains(types, e.Type)
	})
	removed := len(effects) - len(kept)
	m.store(entity, kept)
	m.totalRemoved += uint64(removed)
	return removed
}

// Prune drops the effects of every entity that no longer exists.
func (m *Manager) Prune(entities EntityChecker) int {
	removed := 0
	for _, entity := range slices.Clone(m.order) {
		if !entities.Contains(entity) {
			removed += m.ClearEntity(entity)
		}
	}
	return removed
}

// ForEach walks every active effect by ascending entity id until fn returns
// false. fn receives a pointer into manager state; it must not retain it or
// call back into the manager.
func (m *Manager) ForEach(fn func(*Effect) bool) {
	for _, entity := range m.order {
		effects, _ := m.byEntity.Get(entity)
		for _, e := range effects {
			if !fn(e) {
				return
			}
		}
	}
}

// Entities returns the ids carrying at least one effect, ascending.
func (m *Manager) Entities() []ecs.EntityId {
	return slices.Clone(m.order)
}

// Len returns the number of active effect instances
func (m *Manager) Len() int {
	n := 0
	for _, entity := range m.order {
		effects, _ := m.byEntity.Get(entity)
		n += len(effects)
	}
	return n
}

// Status returns the aggregate counters. It never mutates state.
func (m *Manager) Status() Summary {
	return Summary{
		EntitiesWithEffects: len(m.order),
		ActiveEffects:       m.Len(),
		TotalApplied:        m.totalApplied,
		TotalExpired:        m.totalExpired,
		TotalRemoved:        m.totalRemoved,
		UniqueNames:         len(m.names),
	}
}
