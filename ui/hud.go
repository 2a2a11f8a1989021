package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/protosoup/telemetry"
)

// HUDData holds the data for the top-left status lines.
type HUDData struct {
	Title    string
	Tick     int32
	Seed     int64
	Substeps int
	FPS      int32
	Paused   bool
}

// HUD renders the main heads-up display.
type HUD struct{}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)
	rl.DrawText(
		fmt.Sprintf("Tick: %d | Substeps: %d | FPS: %d | Seed: %d", data.Tick, data.Substeps, data.FPS, data.Seed),
		10, 35, 16, rl.LightGray,
	)
	if data.Paused {
		rl.DrawText("PAUSED", 10, 55, 16, rl.Yellow)
	}
}

// DrawControls renders the key legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// StatsPanel renders the latest telemetry window.
type StatsPanel struct {
	x, y  int32
	width int32
}

// NewStatsPanel creates a stats panel.
func NewStatsPanel(x, y, width int32) *StatsPanel {
	return &StatsPanel{x: x, y: y, width: width}
}

// SetPosition moves the panel.
func (s *StatsPanel) SetPosition(x, y int32) {
	s.x, s.y = x, y
}

// Draw renders the panel and returns the Y below it.
func (s *StatsPanel) Draw(w telemetry.WindowStats) int32 {
	p := BeginPanel(s.x, s.y, s.width, 15)
	p.Heading(fmt.Sprintf("Window %d-%d", w.WindowStartTick, w.WindowEndTick))

	p.Line("Vesicles", fmt.Sprintf("%d live / %d dead", w.LiveVesicles, w.DeadVesicles))
	p.Line("Monomers", fmt.Sprintf("%d free / %d held", w.FreeMonomers, w.ParentedMonomers))
	p.Line("Radius", fmt.Sprintf("avg %.1f max %.1f", w.AvgRadius, w.MaxRadius))
	p.Line("Radius p10/50/90", fmt.Sprintf("%.1f / %.1f / %.1f", w.RadiusP10, w.RadiusP50, w.RadiusP90))
	p.Line("Temperature", fmt.Sprintf("%.2f .. %.2f", w.MinTemp, w.MaxTemp))
	p.Line("Velocity", fmt.Sprintf("avg %.3f max %.3f", w.AvgVelocity, w.MaxVelocity))
	p.Line("Absorptions", fmt.Sprint(w.Absorptions))
	p.Meter("Accept rate", float32(w.AbsorptionAcceptRate))
	p.Line("Competition", fmt.Sprintf("%d wins, %d moved", w.CompetitionWins, w.MonomersTransferred))
	p.Line("Divisions", fmt.Sprintf("%d (+%d children)", w.Divisions, w.ChildrenCreated))
	p.Line("Starved", fmt.Sprint(w.StarvedDivisions))
	p.Line("Div / 1k ticks", fmt.Sprintf("%.2f", w.DivisionsPerKTick))
	return p.Bottom()
}

// PerfPanel renders per-phase step timings.
type PerfPanel struct {
	x, y int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{x: x, y: y}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	x := p.x
	y := p.y

	rl.DrawText("Step Performance", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Tick: %s  TPS: %.0f", stats.AvgTickDuration.Round(time.Microsecond), stats.TicksPerSecond), x, y, 14, rl.Yellow)
	y += 16

	for _, phase := range telemetry.Phases {
		avg, ok := stats.PhaseAvg[phase]
		if !ok {
			continue
		}
		pct := stats.PhasePct[phase]

		color := rl.LightGray
		if pct > 20 {
			color = rl.Red
		} else if pct > 10 {
			color = rl.Orange
		}
		rl.DrawText(fmt.Sprintf("%-13s %8s %5.1f%%", phase, avg.Round(time.Microsecond), pct), x, y, 12, color)
		y += 14
	}
}
