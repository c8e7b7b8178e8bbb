package debugui

import (
	"errors"
	"testing"

	"github.com/plus3/tickcore/ecs"
	"github.com/plus3/tickcore/projectile"
	"github.com/plus3/tickcore/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventLogObserve(t *testing.T) {
	log := NewEventLog(8)
	log.Observe(sim.TickReport{
		Tick:    3,
		Impacts: []projectile.Impact{{Kind: "kinetic", Projectile: ecs.NewEntityId(4, 1, 0), Target: ecs.NewEntityId(3, 1, 2), Damage: 10}},
		Deaths:  []sim.Death{{Entity: ecs.NewEntityId(3, 1, 2), Type: "enemy", Killer: ecs.NewEntityId(1, 1, 0), Cause: "kinetic"}},
		Errors:  []error{errors.New("boom")},
	})

	entries := log.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, LogEntry{Tick: 3, Kind: "impact", Text: "kinetic 4:0@1 hit 3:2@1 for 10.0"}, entries[0])
	assert.Equal(t, "death", entries[1].Kind)
	assert.Equal(t, "enemy 3:2@1 killed by 1:0@1 (kinetic)", entries[1].Text)
	assert.Equal(t, LogEntry{Tick: 3, Kind: "error", Text: "boom"}, entries[2])
}

func TestEventLogWrapsOldestFirst(t *testing.T) {
	log := NewEventLog(3)
	for tick := uint64(1); tick <= 5; tick++ {
		log.add(tick, "tick", "")
	}

	var ticks []uint64
	for _, e := range log.Entries() {
		ticks = append(ticks, e.Tick)
	}
	assert.Equal(t, []uint64{3, 4, 5}, ticks)

	log.Clear()
	assert.Empty(t, log.Entries())
}

func TestEventLogPaused(t *testing.T) {
	log := NewEventLog(4)
	log.paused = true
	log.Observe(sim.TickReport{Tick: 1, Errors: []error{errors.New("x")}})
	assert.Empty(t, log.Entries())
}
