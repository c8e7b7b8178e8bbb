package ecs

// Commands buffers spawn and despawn requests made outside the tick (or by a
// system that must not mutate pools mid-phase). The Scheduler flushes the buffer
// at the start of the next tick.
type Commands struct {
	spawns   []spawnCommand
	despawns []EntityId
	defers   []deferCommand
}

func NewCommands() *Commands {
	return &Commands{}
}

type deferCommand struct {
	fn func()
}

type spawnCommand struct {
	tag   string
	state SpawnState
	then  func(EntityId)
}

// Defer queues a function execution operation.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, deferCommand{fn: fn})
}

// Spawn queues an entity spawn operation.
func (c *Commands) Spawn(tag string, state SpawnState) {
	c.spawns = append(c.spawns, spawnCommand{tag: tag, state: state})
}

// SpawnThen queues a spawn and calls then with the new id once it succeeds.
func (c *Commands) SpawnThen(tag string, state SpawnState, then func(EntityId)) {
	c.spawns = append(c.spawns, spawnCommand{tag: tag, state: state, then: then})
}

// Despawn queues an entity despawn operation.
func (c *Commands) Despawn(entity EntityId) {
	c.despawns = append(c.despawns, entity)
}

// Len returns the number of queued operations
func (c *Commands) Len() int {
	return len(c.spawns) + len(c.despawns) + len(c.defers)
}

// Flush applies all queued commands to the store and resets the buffer.
// A failing command never stops the remaining ones; its error is returned.
func (c *Commands) Flush(store *Store) []error {
	var errs []error

	for _, id := range c.despawns {
		if err := store.Despawn(id); err != nil {
			errs = append(errs, err)
		}
	}

	for _, cmd := range c.spawns {
		id, err := store.Spawn(cmd.tag, cmd.state)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if cmd.then != nil {
			cmd.then(id)
		}
	}

	for _, df := range c.defers {
		df.fn()
	}

	clear(c.spawns)
	c.spawns = c.spawns[:0]
	c.despawns = c.despawns[:0]
	clear(c.defers)
	c.defers = c.defers[:0]

	return errs
}
