package inspector

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

var (
	colorMeterTrack = rl.Color{R: 40, G: 40, B: 40, A: 255}
	colorMeterFill  = rl.Color{R: 60, G: 200, B: 200, A: 255} // vesicle cyan
	colorMeterLow   = rl.Color{R: 200, G: 110, B: 60, A: 255}
	colorRowText    = rl.Color{R: 220, G: 220, B: 220, A: 255}
	colorRowName    = rl.Color{R: 150, G: 150, B: 150, A: 255}
	colorFlagOn     = rl.Color{R: 100, G: 200, B: 100, A: 255}
	colorFlagOff    = rl.Color{R: 80, G: 80, B: 80, A: 255}
)

const (
	rowNameWidth = 90
	meterWidth   = 110
	meterHeight  = 12
)

// drawRow draws r at (x, y) and returns its height.
func drawRow(x, y int32, r Row) int32 {
	switch r.Style {
	case StyleMeter:
		if fill, ok := r.Fill(); ok {
			drawMeter(x, y, r, fill)
			return r.Height()
		}
	case StyleFlag:
		if on, ok := r.Value.(bool); ok {
			drawFlag(x, y, r.Name, on)
			return r.Height()
		}
	}
	rl.DrawText(fmt.Sprintf("%s: %s", r.Name, r.Text()), x, y, 16, colorRowText)
	return Row{}.Height()
}

func drawMeter(x, y int32, r Row, fill float32) {
	rl.DrawText(r.Name, x, y, 14, colorRowName)

	mx := x + rowNameWidth
	rl.DrawRectangle(mx, y+1, meterWidth, meterHeight, colorMeterTrack)
	c := colorMeterFill
	if fill < 0.25 {
		c = colorMeterLow
	}
	rl.DrawRectangle(mx, y+1, int32(meterWidth*fill), meterHeight, c)

	v, _ := r.Number()
	rl.DrawText(fmt.Sprintf("%.3f", v), mx+meterWidth+6, y, 14, colorRowName)
}

func drawFlag(x, y int32, name string, on bool) {
	rl.DrawText(name, x, y, 14, colorRowName)

	c, label := colorFlagOff, "no"
	if on {
		c, label = colorFlagOn, "yes"
	}
	lx := x + rowNameWidth
	rl.DrawCircle(lx+6, y+7, 6, c)
	rl.DrawText(label, lx+18, y, 14, c)
}
