package debugui

import (
	"fmt"
	"sort"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/tickcore/sim"
)

func NewPoolViewer() PoolViewer {
	return PoolViewer{
		sortColumn:    0,
		sortAscending: true,
	}
}

// Render draws the pool table and returns the type clicked this frame, if any.
func (pv *PoolViewer) Render(world *sim.World) (string, bool) {
	if !imgui.BeginV("Pools", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return "", false
	}

	stats := world.Store().CollectStats()
	pv.pools = stats.Pools
	pv.sortPools()

	imgui.Text(fmt.Sprintf("Active: %d  Pending: %d  Free: %d", stats.TotalActive, stats.TotalPending, stats.TotalFree))

	var clicked string
	var ok bool

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("PoolTable", 7, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Type")
		imgui.TableSetupColumn("Active")
		imgui.TableSetupColumn("Capacity")
		imgui.TableSetupColumn("Max")
		imgui.TableSetupColumn("Spawned")
		imgui.TableSetupColumn("Released")
		imgui.TableSetupColumn("Exhausted")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			pv.sortColumn = int(spec.ColumnIndex())
			pv.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			pv.sortPools()
			sortSpecs.SetSpecsDirty(false)
		}

		for _, pool := range pv.pools {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			if imgui.SelectableBoolV(pool.Type, pv.selectedType == pool.Type, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				if pv.selectedType == pool.Type {
					pv.selectedType = ""
				} else {
					pv.selectedType = pool.Type
				}
				clicked, ok = pv.selectedType, true
			}

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", pool.Active))
			if pool.Max > 0 {
				barWidth := float32(pool.Active) / float32(pool.Max) * 80.0
				imgui.SameLine()
				drawList := imgui.WindowDrawList()
				pos := imgui.CursorScreenPos()
				color := imgui.ColorU32Vec4(imgui.NewVec4(0.2, 0.6, 0.8, 0.6))
				if pool.Active == pool.Max {
					color = imgui.ColorU32Vec4(imgui.NewVec4(0.9, 0.3, 0.2, 0.7))
				}
				drawList.AddRectFilled(pos, imgui.NewVec2(pos.X+barWidth, pos.Y+10), color)
			}

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", pool.Capacity))
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", pool.Max))
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", pool.Spawned))
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", pool.Released))
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", pool.Exhausted))
		}

		imgui.EndTable()
	}

	imgui.End()
	return clicked, ok
}

func (pv *PoolViewer) sortPools() {
	sort.SliceStable(pv.pools, func(i, j int) bool {
		a, b := pv.pools[i], pv.pools[j]
		var less bool

		switch pv.sortColumn {
		case 1:
			less = a.Active < b.Active
		case 2:
			less = a.Capacity < b.Capacity
		case 3:
			less = a.Max < b.Max
		case 4:
			less = a.Spawned < b.Spawned
		case 5:
			less = a.Released < b.Released
		case 6:
			less = a.Exhausted < b.Exhausted
		default:
			less = a.Id < b.Id
		}

		if !pv.sortAscending {
			return !less
		}
		return less
	})
}
