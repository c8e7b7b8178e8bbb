package debugui

import (
	"github.com/plus3/tickcore/sim"
)

// Inspector bundles every panel over one world.
type Inspector struct {
	world *sim.World
	timer *FrameTimer

	Browser     EntityBrowser
	Entity      EntityInspector
	Pools       PoolViewer
	Performance PerformanceStats
	Effects     EffectBrowser
	Events      EventLog
}

func NewInspector(world *sim.World) *Inspector {
	return &Inspector{
		world:       world,
		timer:       NewFrameTimer(),
		Browser:     NewEntityBrowser(100),
		Entity:      NewEntityInspector(),
		Pools:       NewPoolViewer(),
		Performance: NewPerformanceStats(120),
		Effects:     NewEffectBrowser(),
		Events:      NewEventLog(256),
	}
}

// Observe feeds a finished tick to the event log.
func (in *Inspector) Observe(report sim.TickReport) {
	in.Events.Observe(report)
}

func (in *Inspector) Render() {
	if tag, ok := in.Pools.Render(in.world); ok {
		in.Browser.FilterType(tag)
	}
	in.Browser.Render(in.world)
	if id, ok := in.Effects.Render(in.world); ok {
		in.Browser.Select(id)
	}
	in.Entity.Render(in.world, in.Browser.Selected())
	in.Performance.Render(in.world, in.timer.GetDeltaTime())
	in.Events.Render()
}

// Attach registers an ImguiSystem running the inspector as the world's last
// stage. The world must then only be stepped inside an ImGui frame.
func Attach(world *sim.World) (*Inspector, *ImguiSystem) {
	in := NewInspector(world)
	sys := &ImguiSystem{}
	sys.Add(in.Render)
	world.Scheduler().Register(sys)
	return in, sys
}
