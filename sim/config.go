package sim

import (
	"log/slog"

	"github.com/plus3/tickcore/collision"
	"github.com/plus3/tickcore/ecs"
	"github.com/plus3/tickcore/projectile"
	"github.com/plus3/tickcore/status"
)

// DefaultFixedStep is the tick length used when Config.FixedStep is unset.
const DefaultFixedStep = 1.0 / 60

// Config declares everything a World needs. There is no global registry:
// two worlds built from the same Config share nothing.
type Config struct {
	Pools       []ecs.PoolConfig      `json:"pools" jsonschema:"minItems=1"`
	Groups      []collision.Group     `json:"groups"`
	CellSize    float64               `json:"cell_size,omitempty" jsonschema:"description=Uniform grid cell size; zero disables the broad phase"`
	Projectiles []projectile.Template `json:"projectiles,omitempty"`
	Effects     []status.Definition   `json:"effects,omitempty"`

	DefaultStacking status.StackingMode `json:"default_stacking,omitempty" jsonschema:"enum=none,enum=refresh,enum=stack,enum=replace_if_stronger"`
	// FixedStep is the tick length in seconds used by Run.
	FixedStep float64 `json:"fixed_step,omitempty" jsonschema:"minimum=0,exclusiveMinimum=true"`

	Logger *slog.Logger `json:"-"`
}

// DefaultConfig is the space-combat preset: a player ship, asteroids, enemies
// and two projectile pools wired with the stock groups, weapons and effects.
func DefaultConfig() Config {
	return Config{
		Pools: []ecs.PoolConfig{
			{Type: "ship", Initial: 4, Max: 16},
			{Type: "asteroid", Initial: 64, Max: 512},
			{Type: "enemy", Initial: 32, Max: 256},
			{Type: "bullet", Initial: 256, Max: 4096},
			{Type: "missile", Initial: 16, Max: 256},
		},
		Groups:      collision.SpaceCombatGroups(),
		Projectiles: projectile.DefaultTemplates(),
		Effects:     status.DefaultDefinitions(),
		FixedStep:   DefaultFixedStep,
	}
}
