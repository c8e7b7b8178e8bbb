package debugui

import (
	"github.com/plus3/tickcore/ecs"
	"github.com/plus3/tickcore/status"
)

type EntityBrowser struct {
	cache              *EntityBrowserCache
	selectedEntityId   ecs.EntityId
	filterText         string
	filterType         string
	maxEntitiesPerPage int
	currentPage        int
}

type EntityInspector struct {
	selectedEntityId ecs.EntityId
}

type PoolViewer struct {
	selectedType  string
	sortColumn    int
	sortAscending bool
	pools         []ecs.PoolStats
}

type PerformanceStats struct {
	historyFrames int
	frameHistory  []float32
	frameIndex    int
}

type EffectBrowser struct {
	selectedTypes map[status.EffectType]bool
	effects       []status.Effect
}

type EventLog struct {
	capacity int
	entries  []LogEntry
	next     int
	full     bool
	paused   bool
}
