package debugui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/tickcore/ecs"
	"github.com/plus3/tickcore/sim"
	"github.com/plus3/tickcore/status"
)

var effectTypes = []status.EffectType{
	status.Buff,
	status.Debuff,
	status.Condition,
	status.DamageOverTime,
	status.CrowdControl,
}

func NewEffectBrowser() EffectBrowser {
	selected := make(map[status.EffectType]bool, len(effectTypes))
	for _, t := range effectTypes {
		selected[t] = true
	}
	return EffectBrowser{selectedTypes: selected}
}

// Render lists every active effect of the selected types and returns the
// entity clicked this frame, if any.
func (eb *EffectBrowser) Render(world *sim.World) (clicked ecs.EntityId, ok bool) {
	if !imgui.BeginV("Status Effects", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return 0, false
	}

	imgui.Text("Types:")
	for _, t := range effectTypes {
		imgui.SameLine()
		v := eb.selectedTypes[t]
		if imgui.Checkbox(string(t), &v) {
			eb.selectedTypes[t] = v
		}
	}
	imgui.Separator()

	eb.collect(world.Effects())

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsScrollY
	if imgui.BeginTableV("EffectTable", 5, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Entity")
		imgui.TableSetupColumn("Name")
		imgui.TableSetupColumn("Type")
		imgui.TableSetupColumn("Magnitude")
		imgui.TableSetupColumn("Remaining")
		imgui.TableHeadersRow()

		for _, fx := range eb.effects {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			if imgui.SelectableBoolV(fmt.Sprintf("%s##%d", fx.Entity, fx.ID), false, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				clicked, ok = fx.Entity, true
			}

			imgui.TableNextColumn()
			imgui.Text(fx.Name)
			imgui.TableNextColumn()
			imgui.Text(string(fx.Type))
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%.2f", fx.Magnitude))
			imgui.TableNextColumn()
			imgui.ProgressBarV(float32(fx.RemainingRatio()), imgui.NewVec2(-1, 0), fmt.Sprintf("%.1f/%.1fs", fx.Remaining, fx.Duration))
		}

		imgui.EndTable()
	}

	imgui.Text(fmt.Sprintf("Showing %d of %d effects", len(eb.effects), world.Effects().Len()))
	imgui.End()
	return clicked, ok
}

// collect copies the effects whose type is selected in manager order.
func (eb *EffectBrowser) collect(effects *status.Manager) {
	eb.effects = eb.effects[:0]
	effects.ForEach(func(fx *status.Effect) bool {
		if eb.selectedTypes[fx.Type] {
			eb.effects = append(eb.effects, *fx)
		}
		return true
	})
}
