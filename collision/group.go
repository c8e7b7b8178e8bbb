package collision

import (
	"fmt"
	"slices"
)

// Group is a named set of entity type tags together with the groups it may
// collide with. The relation is symmetric: declaring B on A is enough.
type Group struct {
	Name         string   `json:"name"`
	Types        []string `json:"types"`
	CollidesWith []string `json:"collides_with,omitempty"`
}

// Matrix is the compiled form of a set of groups.
type Matrix struct {
	groups   []string
	byType   map[string]int
	types    []string
	relation [][]bool
}

// NewMatrix validates groups and compiles them into a symmetric relation.
// Every error wraps ErrInvalidCollisionGroup.
func NewMatrix(groups []Group) (*Matrix, error) {
	m := &Matrix{
		groups:   make([]string, 0, len(groups)),
		byType:   make(map[string]int),
		relation: make([][]bool, len(groups)),
	}

	byName := make(map[string]int, len(groups))
	for i, g := range groups {
		if g.Name == "" {
			return nil, fmt.Errorf("%w: group %d has no name", ErrInvalidCollisionGroup, i)
		}
		if _, dup := byName[g.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate group %q", ErrInvalidCollisionGroup, g.Name)
		}
		byName[g.Name] = i
		m.groups = append(m.groups, g.Name)
		m.relation[i] = make([]bool, len(groups))

		for _, tag := range g.Types {
			if tag == "" {
				return nil, fmt.Errorf("%w: group %q lists an empty type", ErrInvalidCollisionGroup, g.Name)
			}
			if owner, taken := m.byType[tag]; taken {
				return nil, fmt.Errorf("%w: type %q is in both %q and %q",
					ErrInvalidCollisionGroup, tag, groups[owner].Name, g.Name)
			}
			m.byType[tag] = i
			m.types = append(m.types, tag)
		}
	}

	for i, g := range groups {
		for _, other := range g.CollidesWith {
			j, ok := byName[other]
			if !ok {
				return nil, fmt.Errorf("%w: %q collides with undeclared group %q",
					ErrInvalidCollisionGroup, g.Name, other)
			}
			m.relation[i][j] = true
			m.relation[j][i] = true
		}
	}
	return m, nil
}

// CanCollide reports whether entities of the two types may collide.
func (m *Matrix) CanCollide(typeA, typeB string) bool {
	ga, ok := m.byType[typeA]
	if !ok {
		return false
	}
	gb, ok := m.byType[typeB]
	if !ok {
		return false
	}
	return m.relation[ga][gb]
}

// GroupOf returns the name of the group containing tag
func (m *Matrix) GroupOf(tag string) (string, bool) {
	if g, ok := m.byType[tag]; ok {
		return m.groups[g], true
	}
	return "", false
}

// Has reports whether tag belongs to any group
func (m *Matrix) Has(tag string) bool {
	_, ok := m.byType[tag]
	return ok
}

// Groups returns the group names in declaration order
func (m *Matrix) Groups() []string {
	return slices.Clone(m.groups)
}

// Types returns every grouped type tag in declaration order
func (m *Matrix) Types() []string {
	return slices.Clone(m.types)
}

// Partners returns the groups that group name collides with, sorted.
func (m *Matrix) Partners(name string) []string {
	i := slices.Index(m.groups, name)
	if i < 0 {
		return nil
	}
	var out []string
	for j, ok := range m.relation[i] {
		if ok {
			out = append(out, m.groups[j])
		}
	}
	slices.Sort(out)
	return out
}

// SpaceCombatGroups is the group layout of the space-combat preset: bullets hit
// asteroids and enemies, the player ship hits asteroids and enemies.
func SpaceCombatGroups() []Group {
	return []Group{
		{Name: "projectiles", Types: []string{"bullet", "missile"}, CollidesWith: []string{"asteroids", "enemies"}},
		{Name: "asteroids", Types: []string{"asteroid"}, CollidesWith: []string{"player", "projectiles"}},
		{Name: "player", Types: []string{"ship"}, CollidesWith: []string{"asteroids", "enemies"}},
		{Name: "enemies", Types: []string{"enemy"}, CollidesWith: []string{"player", "projectiles"}},
	}
}
