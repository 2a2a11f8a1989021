// Package inspector shows the state of a single clicked particle.
package inspector

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/protosoup/components"
)

// Panel dimensions
const (
	PanelWidth   = 280
	PanelPadding = 10
	HeaderHeight = 30
)

// Panel colors
var (
	ColorPanelBg     = rl.Color{R: 30, G: 30, B: 35, A: 240}
	ColorPanelHeader = rl.Color{R: 45, G: 45, B: 55, A: 255}
	ColorPanelBorder = rl.Color{R: 70, G: 70, B: 80, A: 255}
	ColorHeaderText  = rl.Color{R: 255, G: 255, B: 255, A: 255}
	ColorCloseBtn    = rl.Color{R: 180, G: 80, B: 80, A: 255}
)

// VesicleInfo is the inspector view of a vesicle slot.
type VesicleInfo struct {
	Position  string  `inspect:"text"`
	Radius    float32 `inspect:"text,fmt:%.2f"`
	Threshold float32 `inspect:"text,fmt:%.1f"`
	Rate      float32 `inspect:"meter,scale:0.2"`
	Eaten     int32
	Owned     int
	Polymer   float32 `inspect:"meter"`
	Temp      float32 `inspect:"meter"`
	Alive     bool
}

// MonomerInfo is the inspector view of a monomer slot.
type MonomerInfo struct {
	Position   string `inspect:"text"`
	Chemical   string
	Type       uint8
	Parent     string
	Mass       float32 `inspect:"meter,scale:2"`
	Temp       float32 `inspect:"meter"`
	Absorption float32 `inspect:"meter"`
	Division   float32 `inspect:"meter"`
	Attraction float32 `inspect:"meter"`
	Repulsion  float32 `inspect:"meter"`
}

// Describe builds the inspector view of slot i.
func Describe(p *components.Particles, i int, deathRadius float32) any {
	pos := fmt.Sprintf("(%.3f, %.3f)", p.X[i], p.Y[i])
	if p.IsVesicle(i) {
		return VesicleInfo{
			Position:  pos,
			Radius:    p.Radius[i],
			Threshold: p.RadiusThreshold[i],
			Rate:      p.AbsorptionRate[i],
			Eaten:     p.MonomersEaten[i],
			Owned:     p.CountOwned(i),
			Polymer:   p.PolymerLevel[i],
			Temp:      p.Temp[i],
			Alive:     p.IsLiveVesicle(i, deathRadius),
		}
	}
	parent := "free"
	if p.IsParented(i) {
		parent = fmt.Sprintf("#%d", p.Parent[i])
	}
	return MonomerInfo{
		Position:   pos,
		Chemical:   p.Chemical[i].String(),
		Type:       p.MonomerType[i],
		Parent:     parent,
		Mass:       p.Mass[i],
		Temp:       p.Temp[i],
		Absorption: p.AbsorptionBias[i],
		Division:   p.DivisionBias[i],
		Attraction: p.AttractionBias[i],
		Repulsion:  p.RepulsionBias[i],
	}
}

// Pick returns the particle under the domain point (x, y), or -1.
// A live vesicle whose membrane contains the point wins over monomers; the
// smallest such vesicle is chosen so nested clicks reach inner cells.
// Otherwise the nearest free monomer within tolerance is returned.
// radiusUnit converts vesicle radii to domain units.
func Pick(p *components.Particles, x, y, tolerance, radiusUnit, deathRadius float32) int {
	best := -1
	bestRadius := float32(0)
	for i := 0; i < p.Len(); i++ {
		if !p.IsLiveVesicle(i, deathRadius) {
			continue
		}
		r := p.Radius[i] / radiusUnit
		dx, dy := p.X[i]-x, p.Y[i]-y
		if dx*dx+dy*dy <= r*r && (best < 0 || r < bestRadius) {
			best, bestRadius = i, r
		}
	}
	if best >= 0 {
		return best
	}

	bestDist := tolerance * tolerance
	for i := 0; i < p.Len(); i++ {
		if !p.IsMonomer(i) || p.IsParented(i) {
			continue
		}
		dx, dy := p.X[i]-x, p.Y[i]-y
		if d := dx*dx + dy*dy; d <= bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// Inspector manages particle selection and panel rendering.
type Inspector struct {
	selected    int
	panelX      int32
	panelY      int32
	deathRadius float32
}

// NewInspector creates an inspector with its panel at (x, y).
func NewInspector(x, y int32, deathRadius float32) *Inspector {
	return &Inspector{selected: -1, panelX: x, panelY: y, deathRadius: deathRadius}
}

// SetPosition moves the panel.
func (ins *Inspector) SetPosition(x, y int32) {
	ins.panelX, ins.panelY = x, y
}

// HandleClick processes a left click at screen (sx, sy). pick maps the screen
// point to a particle index or -1. Clicks on the panel itself are consumed.
func (ins *Inspector) HandleClick(sx, sy float32, pick func(sx, sy float32) int) {
	if ins.selected >= 0 {
		closeX := float32(ins.panelX + PanelWidth - 25)
		closeY := float32(ins.panelY + 5)
		if sx >= closeX && sx <= closeX+20 && sy >= closeY && sy <= closeY+20 {
			ins.Deselect()
			return
		}
		if sx >= float32(ins.panelX) && sx <= float32(ins.panelX+PanelWidth) && sy >= float32(ins.panelY) {
			return
		}
	}
	if i := pick(sx, sy); i >= 0 {
		ins.selected = i
	}
}

// Deselect clears the current selection.
func (ins *Inspector) Deselect() {
	ins.selected = -1
}

// Selected returns the selected slot.
func (ins *Inspector) Selected() (int, bool) {
	return ins.selected, ins.selected >= 0
}

// Draw renders the panel for the selected particle.
func (ins *Inspector) Draw(p *components.Particles) {
	if ins.selected < 0 || ins.selected >= p.Len() {
		return
	}
	i := ins.selected
	rows := Rows(Describe(p, i, ins.deathRadius))

	panelHeight := int32(HeaderHeight + 2*PanelPadding + 22)
	for _, r := range rows {
		panelHeight += r.Height()
	}

	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, panelHeight, ColorPanelBg)
	rl.DrawRectangleLinesEx(
		rl.Rectangle{X: float32(ins.panelX), Y: float32(ins.panelY), Width: PanelWidth, Height: float32(panelHeight)},
		1,
		ColorPanelBorder,
	)

	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, HeaderHeight, ColorPanelHeader)
	rl.DrawText("INSPECTOR", ins.panelX+PanelPadding, ins.panelY+7, 16, ColorHeaderText)

	closeX := ins.panelX + PanelWidth - 25
	closeY := ins.panelY + 5
	rl.DrawRectangle(closeX, closeY, 20, 20, ColorCloseBtn)
	rl.DrawText("X", closeX+6, closeY+3, 14, rl.White)

	x := ins.panelX + PanelPadding
	y := ins.panelY + HeaderHeight + PanelPadding

	rl.DrawText(fmt.Sprintf("Slot: %d  Kind: %s", i, p.Kind[i]), x, y, 14, ColorHeaderText)
	y += 22

	for _, r := range rows {
		y += drawRow(x, y, r)
	}
}

// DrawSelectionHighlight circles the selected particle at its screen position.
func (ins *Inspector) DrawSelectionHighlight(pos rl.Vector2, screenRadius float32) {
	if ins.selected < 0 {
		return
	}
	rl.DrawCircleLinesV(pos, max(screenRadius*1.3, 6), rl.Yellow)
}
