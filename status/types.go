package status

// EffectType categorizes an effect.
type EffectType string

const (
	Buff           EffectType = "buff"
	Debuff         EffectType = "debuff"
	Condition      EffectType = "condition"
	DamageOverTime EffectType = "dot"
	CrowdControl   EffectType = "cc"
)

func (t EffectType) valid() bool {
	switch t {
	case Buff, Debuff, Condition, DamageOverTime, CrowdControl:
		return true
	}
	return false
}

// StackingMode decides what happens when an effect is applied to an entity
// that already carries an effect of the same name. The empty mode defers to
// the manager's default.
type StackingMode string

const (
	// StackNone ignores the new application.
	StackNone StackingMode = "none"
	// StackRefresh resets the duration and replaces the magnitude in place.
	StackRefresh StackingMode = "refresh"
	// StackStack adds an independent instance with its own timer.
	StackStack StackingMode = "stack"
	// StackReplaceIfStronger swaps in the new instance only when its
	// magnitude is strictly greater.
	StackReplaceIfStronger StackingMode = "replace_if_stronger"
)

func (m StackingMode) valid() bool {
	switch m {
	case StackNone, StackRefresh, StackStack, StackReplaceIfStronger:
		return true
	}
	return false
}

// Outcome reports how an application was reconciled.
type Outcome uint8

const (
	Ignored Outcome = iota
	Added
	Refreshed
	Stacked
	Replaced
)

func (o Outcome) String() string {
	switch o {
	case Added:
		return "added"
	case Refreshed:
		return "refreshed"
	case Stacked:
		return "stacked"
	case Replaced:
		return "replaced"
	default:
		return "ignored"
	}
}

// Definition declares the stacking policy of every effect with a given name.
// Declaring the mode per name keeps STACK and REPLACE_IF_STRONGER mutually
// exclusive for that name.
type Definition struct {
	Name     string       `json:"name" jsonschema:"minLength=1"`
	Type     EffectType   `json:"type,omitempty" jsonschema:"enum=buff,enum=debuff,enum=condition,enum=dot,enum=cc"`
	Stacking StackingMode `json:"stacking,omitempty" jsonschema:"enum=none,enum=refresh,enum=stack,enum=replace_if_stronger"`
}
