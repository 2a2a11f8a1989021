package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/protosoup/camera"
	"github.com/pthm-cable/protosoup/config"
	"github.com/pthm-cable/protosoup/inspector"
	"github.com/pthm-cable/protosoup/renderer"
	"github.com/pthm-cable/protosoup/ui"
)

const controlsLegend = "[Space] pause  [N] step  [,/.] substeps  [R] reset  [K] snapshot  [H] panel  [T/V/A/S/P] overlays  [wheel/arrows] zoom/pan  [Home] view  [click] inspect"

// view holds the renderers and panels of graphical mode.
type view struct {
	viewport   renderer.Viewport
	radiusUnit float32
	cam        *camera.Camera

	temperature *renderer.TemperatureRenderer
	flow        *renderer.FlowRenderer
	particles   *renderer.ParticleRenderer

	overlays  *ui.OverlayRegistry
	hud       *ui.HUD
	controls  *ui.ControlsPanel
	stats     *ui.StatsPanel
	perf      *ui.PerfPanel
	inspector *inspector.Inspector
}

func newView(cfg *config.Config) *view {
	w, h := int32(cfg.Screen.Width), int32(cfg.Screen.Height)
	v := &view{
		radiusUnit:  cfg.Derived.Width32,
		cam:         camera.New(float32(w), float32(h)),
		temperature: renderer.NewTemperatureRenderer(150),
		flow:        renderer.NewFlowRenderer(cfg.Grid.Size/24+1, 200),
		particles:   renderer.NewParticleRenderer(float32(cfg.Vesicle.DeathRadius)),
		overlays:    ui.NewOverlayRegistry(),
		hud:         ui.NewHUD(),
		controls:    ui.NewControlsPanel(0, 80, 220),
		stats:       ui.NewStatsPanel(0, 0, 300),
		perf:        ui.NewPerfPanel(10, 0),
		inspector:   inspector.NewInspector(0, 0, float32(cfg.Vesicle.DeathRadius)),
	}
	v.resize(w, h)
	return v
}

// resize lays the panels out for a w×h screen.
func (v *view) resize(w, h int32) {
	v.viewport = renderer.NewViewport(w, h, v.radiusUnit)
	v.cam.Resize(float32(w), float32(h))
	v.controls.SetPosition(10, 80)
	v.stats.SetPosition(w-310, 10)
	v.perf.SetPosition(10, h-200)
	v.inspector.SetPosition(w-inspector.PanelWidth-10, 340)
}

func (v *view) unload() {
	v.temperature.Unload()
}

// Draw renders the latest snapshot and the UI.
func (g *Game) Draw() {
	if g.view == nil {
		return
	}
	v := g.view
	s := g.snap
	g.perfCollector.RecordFrame()
	vp := v.viewport.Focus(v.cam.X, v.cam.Y, v.cam.Zoom)

	field := renderer.FieldView{
		N:           s.GridN,
		VelocityU:   s.VelocityU,
		VelocityV:   s.VelocityV,
		Temperature: s.Temperature,
	}
	parts := renderer.ParticleView{
		X:      s.X,
		Y:      s.Y,
		Color:  s.Color,
		Radius: s.Radius,
		Kind:   s.Kind,
		Parent: s.Parent,
	}

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	if v.overlays.IsEnabled(ui.OverlayTemperature) {
		v.temperature.Update(field)
		v.temperature.Draw(vp)
	}
	if v.overlays.IsEnabled(ui.OverlayVelocity) {
		v.flow.Draw(field, vp)
	}
	v.particles.Draw(parts, vp, v.overlays.IsEnabled(ui.OverlayAbsorbed))
	if i, ok := v.inspector.Selected(); ok && i < s.Len() {
		v.inspector.DrawSelectionHighlight(vp.ToScreen(s.X[i], s.Y[i]), vp.ScreenRadius(s.Radius[i]))
	}

	v.hud.Draw(ui.HUDData{
		Title:    "Protosoup",
		Tick:     s.Tick,
		Seed:     g.sim.Seed(),
		Substeps: g.stepsPerUpdate,
		FPS:      rl.GetFPS(),
		Paused:   g.paused,
	})
	if v.overlays.IsEnabled(ui.OverlayStats) {
		v.stats.Draw(g.lastStats)
	}
	if v.overlays.IsEnabled(ui.OverlayPerf) {
		v.perf.Draw(g.perfCollector.Stats())
	}
	v.inspector.Draw(g.sim.Particles())

	actions := v.controls.Draw(ui.ControlState{Paused: g.paused, Substeps: g.stepsPerUpdate}, v.overlays)
	v.hud.DrawControls(int32(v.viewport.Height), controlsLegend)

	rl.EndDrawing()

	g.applyActions(actions)
}

// applyActions carries out what the user clicked in the controls panel.
func (g *Game) applyActions(a ui.ControlActions) {
	if a.TogglePause {
		g.paused = !g.paused
	}
	if a.Step {
		g.stepOnce = true
	}
	if a.Substeps >= 1 {
		g.stepsPerUpdate = a.Substeps
	}
	if a.Snapshot {
		g.saveSnapshot(nil)
	}
	if a.Reset {
		g.Reset(g.sim.Seed() + 1)
	}
}
