package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/protosoup/inspector"
	"github.com/pthm-cable/protosoup/ui"
)

// pickTolerance is the click radius for free monomers, in screen pixels.
const pickTolerance = 6

// handleInput processes keyboard input.
func (g *Game) handleInput() {
	g.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}
	if rl.IsKeyPressed(rl.KeyN) {
		g.stepOnce = true
	}

	// Substeps with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && g.stepsPerUpdate > 1 {
		g.stepsPerUpdate--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && g.stepsPerUpdate < ui.MaxSubsteps {
		g.stepsPerUpdate++
	}

	if rl.IsKeyPressed(rl.KeyR) {
		g.Reset(g.sim.Seed() + 1)
	}
	if rl.IsKeyPressed(rl.KeyK) {
		g.saveSnapshot(nil)
	}
	if rl.IsKeyPressed(rl.KeyH) {
		g.view.controls.Toggle()
	}

	for key := rl.GetKeyPressed(); key != 0; key = rl.GetKeyPressed() {
		g.view.overlays.HandleKeyPress(key)
	}

	g.handleCameraInput()
	g.handleInspectorInput()
}

// handleInspectorInput selects the clicked particle; right click deselects.
func (g *Game) handleInspectorInput() {
	v := g.view
	if rl.IsMouseButtonPressed(rl.MouseButtonRight) {
		v.inspector.Deselect()
		return
	}
	if !rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		return
	}
	mouse := rl.GetMousePosition()
	if v.controls.Contains(mouse.X, mouse.Y) {
		return
	}

	cfg := g.sim.Config()
	v.inspector.HandleClick(mouse.X, mouse.Y, func(sx, sy float32) int {
		wx, wy := v.cam.ScreenToWorld(sx, sy)
		tolerance := pickTolerance / (v.cam.ViewportW * v.cam.Zoom)
		return inspector.Pick(g.sim.Particles(), wx, wy, tolerance, cfg.Derived.Width32, float32(cfg.Vesicle.DeathRadius))
	})
}

// handleCameraInput processes camera pan/zoom controls.
func (g *Game) handleCameraInput() {
	cam := g.view.cam

	// Pan speed in screen pixels, constant at every zoom
	const panSpeed = float32(8.0)

	if rl.IsKeyDown(rl.KeyRight) {
		cam.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		cam.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		cam.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		cam.Pan(0, -panSpeed)
	}

	// Zoom toward the cursor with the mouse wheel
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		mouse := rl.GetMousePosition()
		cam.ZoomAt(mouse.X, mouse.Y, 1.0+wheel*0.1)
	}

	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		cam.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		cam.ZoomBy(0.8)
	}

	if rl.IsKeyPressed(rl.KeyHome) {
		cam.Reset()
	}
}

// handleResize checks for window resize and relays out the view.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	g.view.resize(int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight()))
}
