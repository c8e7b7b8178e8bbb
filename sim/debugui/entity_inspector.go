package debugui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/tickcore/ecs"
	"github.com/plus3/tickcore/sim"
)

func NewEntityInspector() EntityInspector {
	return EntityInspector{}
}

func (ei *EntityInspector) Render(world *sim.World, selectedEntityId ecs.EntityId) {
	if !imgui.BeginV("Entity Inspector", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	ei.selectedEntityId = selectedEntityId

	if ei.selectedEntityId == 0 {
		imgui.Text("No entity selected")
		imgui.End()
		return
	}

	e, ok := world.Store().Get(ei.selectedEntityId)
	if !ok {
		imgui.Text(fmt.Sprintf("Entity %s is gone", ei.selectedEntityId))
		imgui.End()
		return
	}

	imgui.Text(fmt.Sprintf("Entity: %s", e.Id))
	imgui.Text(fmt.Sprintf("Type: %s", e.Type))
	if e.Visual != "" {
		imgui.Text(fmt.Sprintf("Visual: %s", e.Visual))
	}
	imgui.Separator()

	if imgui.TreeNodeStr("Kinematics") {
		floatField("Position X", &e.Position.X)
		floatField("Position Y", &e.Position.Y)
		floatField("Velocity X", &e.Velocity.X)
		floatField("Velocity Y", &e.Velocity.Y)
		floatField("Radius", &e.Radius)
		floatField("Drag", &e.Drag)
		imgui.TreePop()
	}

	if imgui.TreeNodeStr(fmt.Sprintf("Attributes (%d)", e.Attrs.Len())) {
		for _, name := range e.Attrs.NumNames() {
			v, _ := e.Attrs.Num(name)
			if floatField(name, &v) {
				e.Attrs.SetNum(name, v)
			}
		}
		for _, name := range e.Attrs.StrNames() {
			v, _ := e.Attrs.Str(name)
			imgui.Text(fmt.Sprintf("%s: %s", name, v))
		}
		imgui.TreePop()
	}

	effects := world.Effects().EntityEffects(e.Id)
	if imgui.TreeNodeStr(fmt.Sprintf("Effects (%d)", len(effects))) {
		for _, fx := range effects {
			imgui.BulletText(fmt.Sprintf("#%d %s [%s] x%.2f", fx.ID, fx.Name, fx.Type, fx.Magnitude))
			imgui.SameLine()
			imgui.ProgressBarV(float32(fx.RemainingRatio()), imgui.NewVec2(120, 0), fmt.Sprintf("%.1fs", fx.Remaining))
		}
		imgui.TreePop()
	}

	if p, ok := world.Projectiles().Get(e.Id); ok {
		if imgui.TreeNodeStr("Projectile") {
			imgui.Text(fmt.Sprintf("Kind: %s (%s)", p.Kind, p.Motion))
			imgui.Text(fmt.Sprintf("Owner: %s", p.Owner))
			if p.Target != 0 {
				imgui.Text(fmt.Sprintf("Target: %s", p.Target))
			}
			imgui.Text(fmt.Sprintf("Damage: %.1f", p.Damage))
			imgui.Text(fmt.Sprintf("Remaining %s: %.2f", p.Budget, p.Remaining))
			imgui.TreePop()
		}
	}

	imgui.Separator()
	if imgui.Button("Despawn") {
		world.Commands().Despawn(e.Id)
	}

	imgui.End()
}

func floatField(name string, v *float64) bool {
	f := float32(*v)
	imgui.Text(fmt.Sprintf("%s:", name))
	imgui.SameLine()
	imgui.SetNextItemWidth(150)
	if imgui.InputFloat(fmt.Sprintf("##%s", name), &f) {
		*v = float64(f)
		return true
	}
	return false
}
