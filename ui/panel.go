// Package ui draws the HUD and control panels over the simulation view.
package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Panel palette. The meter fill matches the vesicle outline colour.
var (
	panelFill    = rl.Color{R: 20, G: 25, B: 30, A: 220}
	panelEdge    = rl.Color{R: 60, G: 70, B: 80, A: 255}
	headingColor = rl.Yellow
	keyColor     = rl.LightGray
	valueColor   = rl.White
	meterTrack   = rl.Color{R: 40, G: 40, B: 40, A: 255}
	meterFill    = rl.Color{R: 51, G: 204, B: 204, A: 255}
)

// Panel metrics in pixels.
const (
	panelPad    = 10
	lineStep    = 16
	keyWidth    = 110
	meterHeight = 12
	textSize    = 12
	headingSize = 14
)

// Panel lays out lines top to bottom inside a framed box.
type Panel struct {
	x, width int32
	cursor   int32 // y of the next line
}

// panelHeight is the frame height for a panel holding lines rows.
func panelHeight(lines int) int32 {
	return int32(lines)*lineStep + 2*panelPad
}

// drawFrame fills and outlines a panel box.
func drawFrame(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, panelFill)
	rl.DrawRectangleLines(x, y, width, height, panelEdge)
}

// BeginPanel draws a frame with room for lines rows and returns a layout
// cursor at its first row.
func BeginPanel(x, y, width int32, lines int) *Panel {
	drawFrame(x, y, width, panelHeight(lines))
	return &Panel{x: x + panelPad, width: width - 2*panelPad, cursor: y + panelPad}
}

// Heading draws a section title.
func (p *Panel) Heading(title string) {
	rl.DrawText(title, p.x, p.cursor, headingSize, headingColor)
	p.cursor += lineStep
}

// Line draws "key: value" with values aligned in one column.
func (p *Panel) Line(key, value string) {
	rl.DrawText(key+":", p.x, p.cursor, textSize, keyColor)
	rl.DrawText(value, p.x+keyWidth, p.cursor, textSize, valueColor)
	p.cursor += lineStep
}

// Meter draws a [0, 1] fraction as a filled bar.
func (p *Panel) Meter(key string, frac float32) {
	frac = min(max(frac, 0), 1)
	mx := p.x + keyWidth
	mw := p.width - keyWidth - 40

	rl.DrawText(key+":", p.x, p.cursor, textSize, keyColor)
	rl.DrawRectangle(mx, p.cursor+2, mw, meterHeight, meterTrack)
	rl.DrawRectangle(mx, p.cursor+2, int32(float32(mw)*frac), meterHeight, meterFill)
	rl.DrawText(fmt.Sprintf("%.2f", frac), mx+mw+5, p.cursor, textSize, valueColor)
	p.cursor += lineStep + 2
}

// Bottom returns the y just below the last row plus padding.
func (p *Panel) Bottom() int32 {
	return p.cursor + panelPad
}
