package ecs

// System represents one stage of the tick pipeline. Systems run in the order
// they were registered with the Scheduler and may keep state between ticks.
type System interface {
	Execute(frame *UpdateFrame)
}

// NamedSystem lets a system override the name reported in scheduler stats.
type NamedSystem interface {
	System
	Name() string
}
