package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/plus3/tickcore/ecs"
)

const panSpeed = 8

// Camera is the top-left corner of the view in arena units. While Follow is
// set it recentres on the player ship every frame.
type Camera struct {
	X, Y   float32
	Zoom   float32
	Follow bool
}

// CenterOn positions the camera so p sits in the middle of a w by h screen.
func (c *Camera) CenterOn(p ecs.Vec2, w, h int) {
	c.X = float32(p.X) - float32(w)/(2*c.Zoom)
	c.Y = float32(p.Y) - float32(h)/(2*c.Zoom)
}

// ToScreen converts world coordinates to screen coordinates
func (c *Camera) ToScreen(x, y float64) (float32, float32) {
	return (float32(x) - c.X) * c.Zoom, (float32(y) - c.Y) * c.Zoom
}

type InputState struct {
	PrevMouseLeft bool
	Dragging      bool
	DragStartX    float32
	DragStartY    float32
	LastMouseX    int
	LastMouseY    int
}

func (g *Game) updateCamera() {
	camera := &g.camera
	input := &g.input

	if !g.imgui.InputState.WantCaptureKeyboard {
		if inpututil.IsKeyJustPressed(ebiten.KeyF) {
			camera.Follow = !camera.Follow
		}
		step := panSpeed / camera.Zoom
		if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
			camera.X -= step
			camera.Follow = false
		}
		if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
			camera.X += step
			camera.Follow = false
		}
		if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
			camera.Y -= step
			camera.Follow = false
		}
		if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
			camera.Y += step
			camera.Follow = false
		}
	}
	if camera.Follow {
		if ship, ok := g.arena.World().Store().Get(g.arena.Player()); ok {
			w, h := ebiten.WindowSize()
			camera.CenterOn(ship.Position, w, h)
		}
	}

	if g.imgui.InputState.WantCaptureMouse {
		input.Dragging = false
		return
	}

	mx, my := ebiten.CursorPosition()
	mouseLeft := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)

	if mouseLeft && !input.PrevMouseLeft {
		camera.Follow = false
		input.Dragging = true
		input.DragStartX = camera.X
		input.DragStartY = camera.Y
		input.LastMouseX = mx
		input.LastMouseY = my
	}

	if !mouseLeft {
		input.Dragging = false
	}

	if input.Dragging {
		dx := float32(mx - input.LastMouseX)
		dy := float32(my - input.LastMouseY)
		camera.X = input.DragStartX - dx/camera.Zoom
		camera.Y = input.DragStartY - dy/camera.Zoom
	}

	input.PrevMouseLeft = mouseLeft

	_, dy := ebiten.Wheel()
	if dy != 0 {
		oldZoom := camera.Zoom
		camera.Zoom = min(max(camera.Zoom+float32(dy)*0.1, 0.25), 4.0)

		mouseWorldX := camera.X + float32(mx)/oldZoom
		mouseWorldY := camera.Y + float32(my)/oldZoom
		camera.X = mouseWorldX - float32(mx)/camera.Zoom
		camera.Y = mouseWorldY - float32(my)/camera.Zoom
	}
}
