package debugui

import (
	"fmt"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/tickcore/sim"
)

func NewPerformanceStats(historyFrames int) PerformanceStats {
	return PerformanceStats{
		historyFrames: historyFrames,
		frameHistory:  make([]float32, historyFrames),
		frameIndex:    0,
	}
}

func (ps *PerformanceStats) Render(world *sim.World, deltaTime float32) {
	if !imgui.BeginV("Performance Stats", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	ps.frameHistory[ps.frameIndex] = deltaTime * 1000.0
	ps.frameIndex = (ps.frameIndex + 1) % ps.historyFrames

	stats := world.Stats()

	imgui.Text(fmt.Sprintf("Tick: %d  Sim Time: %.2fs", stats.Tick, stats.Time))
	imgui.Text(fmt.Sprintf("Live Entities: %d", stats.Store.TotalActive))
	imgui.Text(fmt.Sprintf("Pools: %d", stats.Store.PoolCount))

	var avgFrameTime float32
	for _, ft := range ps.frameHistory {
		avgFrameTime += ft
	}
	avgFrameTime /= float32(ps.historyFrames)

	if avgFrameTime > 0 {
		imgui.Text(fmt.Sprintf("Avg Frame Time: %.2f ms (%.0f FPS)", avgFrameTime, 1000.0/avgFrameTime))
	}

	imgui.Separator()
	imgui.Text("Frame Time Graph (ms)")
	imgui.PlotLinesFloatPtr("##frametime", &ps.frameHistory[0], int32(len(ps.frameHistory)))

	if imgui.TreeNodeStr("Stages") {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("StageStatsTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("Stage")
			imgui.TableSetupColumn("Last")
			imgui.TableSetupColumn("Avg")
			imgui.TableSetupColumn("Max")
			imgui.TableHeadersRow()

			for _, sys := range stats.Scheduler.Systems {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(sys.Name)
				imgui.TableNextColumn()
				imgui.Text(sys.LastDuration.String())
				imgui.TableNextColumn()
				imgui.Text(sys.AvgDuration.String())
				imgui.TableNextColumn()
				imgui.Text(sys.MaxDuration.String())
			}

			imgui.EndTable()
		}
		imgui.TreePop()
	}

	if imgui.TreeNodeStr("Collisions") {
		c := stats.Collisions
		imgui.Text(fmt.Sprintf("Checks: %d (total %d)", c.ChecksLastCall, c.TotalChecks))
		imgui.Text(fmt.Sprintf("Collisions: %d (total %d)", c.CollisionsLastCall, c.TotalCollisions))
		for _, g := range c.Groups {
			imgui.BulletText(g)
		}
		imgui.TreePop()
	}

	if imgui.TreeNodeStr("Projectiles") {
		p := stats.Projectiles
		imgui.Text(fmt.Sprintf("In flight: %d", p.Active))
		imgui.Text(fmt.Sprintf("Fired: %d  Impacted: %d  Expired: %d  Orphaned: %d", p.Fired, p.Impacted, p.Expired, p.Orphaned))
		imgui.Text(fmt.Sprintf("Accuracy: %.1f%%", p.Accuracy()*100))
		imgui.TreePop()
	}

	if imgui.TreeNodeStr("Effects") {
		e := stats.Effects
		imgui.Text(fmt.Sprintf("Active: %d on %d entities (%d names)", e.ActiveEffects, e.EntitiesWithEffects, e.UniqueNames))
		imgui.Text(fmt.Sprintf("Applied: %d  Expired: %d  Removed: %d", e.TotalApplied, e.TotalExpired, e.TotalRemoved))
		imgui.TreePop()
	}

	imgui.End()
}

type FrameTimer struct {
	lastFrameTime time.Time
}

func NewFrameTimer() *FrameTimer {
	return &FrameTimer{
		lastFrameTime: time.Now(),
	}
}

func (ft *FrameTimer) GetDeltaTime() float32 {
	now := time.Now()
	delta := float32(now.Sub(ft.lastFrameTime).Seconds())
	ft.lastFrameTime = now
	return delta
}
