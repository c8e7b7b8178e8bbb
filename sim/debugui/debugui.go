// Package debugui provides Dear ImGui inspector panels for a running simulation.
// Panels render from a system registered last in the world's scheduler, so
// they observe the state every stage has produced for the tick.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/tickcore/ecs"
)

// ImguiItem holds a Dear ImGui render function.
type ImguiItem struct {
	Render func()
}

// ImguiInputState tracks Dear ImGui's input capture state.
// Use this to determine if ImGui is consuming mouse or keyboard input.
type ImguiInputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// ImguiSystem renders every registered item once per tick and records the
// current input capture state. It must run inside an ImGui frame.
type ImguiSystem struct {
	Items      []ImguiItem
	InputState ImguiInputState
}

func (i *ImguiSystem) Name() string { return "imgui" }

// Add registers a render function
func (i *ImguiSystem) Add(render func()) {
	i.Items = append(i.Items, ImguiItem{Render: render})
}

// Execute updates input state and runs all ImGui render functions.
func (i *ImguiSystem) Execute(frame *ecs.UpdateFrame) {
	i.Render()
}

// Render is Execute without a tick, for frames where the world is paused.
func (i *ImguiSystem) Render() {
	i.InputState.WantCaptureMouse = imgui.CurrentIO().WantCaptureMouse()
	i.InputState.WantCaptureKeyboard = imgui.CurrentIO().WantCaptureKeyboard()

	for _, item := range i.Items {
		item.Render()
	}
}
