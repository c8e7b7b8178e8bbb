package debugui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/tickcore/sim"
)

type LogEntry struct {
	Tick uint64
	Kind string
	Text string
}

func NewEventLog(capacity int) EventLog {
	return EventLog{
		capacity: capacity,
		entries:  make([]LogEntry, capacity),
	}
}

// Observe appends the notable events of a tick report. Raw collisions are
// counted rather than listed.
func (el *EventLog) Observe(report sim.TickReport) {
	if el.paused {
		return
	}
	if n := len(report.Collisions); n > 0 {
		el.add(report.Tick, "collision", fmt.Sprintf("%d pairs", n))
	}
	for _, imp := range report.Impacts {
		el.add(report.Tick, "impact", fmt.Sprintf("%s %s hit %s for %.1f", imp.Kind, imp.Projectile, imp.Target, imp.Damage))
	}
	for _, exp := range report.Expirations {
		el.add(report.Tick, "expired", fmt.Sprintf("%s %s at (%.1f, %.1f)", exp.Kind, exp.Projectile, exp.Position.X, exp.Position.Y))
	}
	for _, fx := range report.ExpiredEffects {
		el.add(report.Tick, "effect", fmt.Sprintf("%s ended on %s", fx.Name, fx.Entity))
	}
	for _, d := range report.Deaths {
		el.add(report.Tick, "death", fmt.Sprintf("%s %s killed by %s (%s)", d.Type, d.Entity, d.Killer, d.Cause))
	}
	for _, err := range report.Errors {
		el.add(report.Tick, "error", err.Error())
	}
}

func (el *EventLog) add(tick uint64, kind, text string) {
	el.entries[el.next] = LogEntry{Tick: tick, Kind: kind, Text: text}
	el.next = (el.next + 1) % el.capacity
	if el.next == 0 {
		el.full = true
	}
}

// Entries returns the retained entries, oldest first.
func (el *EventLog) Entries() []LogEntry {
	if !el.full {
		return append([]LogEntry(nil), el.entries[:el.next]...)
	}
	out := make([]LogEntry, 0, el.capacity)
	out = append(out, el.entries[el.next:]...)
	return append(out, el.entries[:el.next]...)
}

func (el *EventLog) Clear() {
	clear(el.entries)
	el.next = 0
	el.full = false
}

func (el *EventLog) Render() {
	if !imgui.BeginV("Event Log", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	imgui.Checkbox("Pause", &el.paused)
	imgui.SameLine()
	if imgui.Button("Clear") {
		el.Clear()
	}
	imgui.Separator()

	entries := el.Entries()
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		imgui.Text(fmt.Sprintf("[%6d] %-9s %s", e.Tick, e.Kind, e.Text))
	}

	imgui.End()
}
