package ecs

// UpdateFrame is handed to every system during a tick.
type UpdateFrame struct {
	DeltaTime float64
	Time      float64
	Tick      uint64
	Commands  *Commands
	Store     *Store
	Errors    []error
}

func newUpdateFrame(dt, now float64, tick uint64, commands *Commands, store *Store) *UpdateFrame {
	return &UpdateFrame{
		DeltaTime: dt,
		Time:      now,
		Tick:      tick,
		Commands:  commands,
		Store:     store,
	}
}

// Report records a per-tick failure without interrupting the tick.
func (f *UpdateFrame) Report(err error) {
	if err != nil {
		f.Errors = append(f.Errors, err)
	}
}
