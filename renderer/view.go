// Package renderer draws the soup with raylib.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/protosoup/components"
)

// ParticleView is the per-particle state a frame is drawn from.
type ParticleView struct {
	X, Y   []float32
	Color  []components.Color
	Radius []float32 // vesicles only, display-width pixels
	Kind   []components.Kind
	Parent []int32
}

// FieldView is the fluid grid state a frame is drawn from.
type FieldView struct {
	N           int
	VelocityU   []float32
	VelocityV   []float32
	Temperature []float32
}

// Viewport maps the normalized domain onto the screen. Domain y grows upward.
// Zoom magnifies the domain around (CenterX, CenterY).
type Viewport struct {
	Width, Height    float32
	RadiusScale      float32 // screen pixels per radius unit at zoom 1
	Zoom             float32
	CenterX, CenterY float32
}

// NewViewport creates a viewport for a screen of w×h pixels.
// radiusUnit is the display width that vesicle radii are expressed against.
func NewViewport(w, h int32, radiusUnit float32) Viewport {
	v := Viewport{Width: float32(w), Height: float32(h), RadiusScale: 1, Zoom: 1, CenterX: 0.5, CenterY: 0.5}
	if radiusUnit > 0 {
		v.RadiusScale = float32(w) / radiusUnit
	}
	return v
}

// Focus returns v looking at (cx, cy) with the given zoom.
func (v Viewport) Focus(cx, cy, zoom float32) Viewport {
	if zoom <= 0 {
		zoom = 1
	}
	v.CenterX, v.CenterY, v.Zoom = cx, cy, zoom
	return v
}

// ToScreen converts domain coordinates to screen pixels.
func (v Viewport) ToScreen(x, y float32) rl.Vector2 {
	return rl.Vector2{
		X: v.Width/2 + (x-v.CenterX)*v.Width*v.Zoom,
		Y: v.Height/2 - (y-v.CenterY)*v.Height*v.Zoom,
	}
}

// ScreenRadius converts a vesicle radius to screen pixels.
func (v Viewport) ScreenRadius(r float32) float32 {
	return r * v.RadiusScale * v.Zoom
}

// OnScreen reports whether a circle of screen radius r at pos touches the screen.
func (v Viewport) OnScreen(pos rl.Vector2, r float32) bool {
	return pos.X+r >= 0 && pos.X-r <= v.Width && pos.Y+r >= 0 && pos.Y-r <= v.Height
}

// ToRL converts a normalized color to a raylib color with the given alpha.
func ToRL(c components.Color, alpha uint8) rl.Color {
	return rl.Color{
		R: channel(c.R),
		G: channel(c.G),
		B: channel(c.B),
		A: alpha,
	}
}

func channel(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v * 255)
}
