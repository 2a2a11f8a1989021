package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// TemperatureRenderer draws the grid temperature as a translucent underlay.
// Cold cells are blue, warm cells red; the texture is uploaded once per frame.
type TemperatureRenderer struct {
	tex     rl.Texture2D
	pixels  []color.RGBA
	n       int
	alpha   uint8
	enabled bool
}

// NewTemperatureRenderer creates an underlay with the given opacity.
func NewTemperatureRenderer(alpha uint8) *TemperatureRenderer {
	return &TemperatureRenderer{alpha: alpha}
}

// Init allocates the grid texture. Must be called after the raylib window is created.
func (r *TemperatureRenderer) Init(n int) {
	if r.enabled && r.n == n {
		return
	}
	r.Unload()

	img := rl.GenImageColor(n, n, rl.Black)
	r.tex = rl.LoadTextureFromImage(img)
	rl.SetTextureFilter(r.tex, rl.FilterBilinear)
	rl.UnloadImage(img)

	r.pixels = make([]color.RGBA, n*n)
	r.n = n
	r.enabled = true
}

// Update uploads the temperature field. Grid row 0 is the bottom of the domain,
// texture row 0 the top of the screen.
func (r *TemperatureRenderer) Update(f FieldView) {
	if f.N == 0 || len(f.Temperature) != f.N*f.N {
		return
	}
	r.Init(f.N)

	for j := 0; j < f.N; j++ {
		row := (f.N - 1 - j) * f.N
		for i := 0; i < f.N; i++ {
			r.pixels[row+i] = TemperatureColor(f.Temperature[j*f.N+i], r.alpha)
		}
	}
	rl.UpdateTexture(r.tex, r.pixels)
}

// Draw stretches the underlay over the domain as seen through the viewport.
func (r *TemperatureRenderer) Draw(vp Viewport) {
	if !r.enabled {
		return
	}
	topLeft := vp.ToScreen(0, 1)
	src := rl.Rectangle{X: 0, Y: 0, Width: float32(r.n), Height: float32(r.n)}
	dst := rl.Rectangle{X: topLeft.X, Y: topLeft.Y, Width: vp.Width * vp.Zoom, Height: vp.Height * vp.Zoom}
	rl.DrawTexturePro(r.tex, src, dst, rl.Vector2{}, 0, rl.White)
}

// Unload frees GPU resources.
func (r *TemperatureRenderer) Unload() {
	if !r.enabled {
		return
	}
	rl.UnloadTexture(r.tex)
	r.enabled = false
}

// TemperatureColor maps t in [-0.5, 1] to blue (cold) through black to red (hot).
func TemperatureColor(t float32, alpha uint8) color.RGBA {
	switch {
	case t > 0:
		if t > 1 {
			t = 1
		}
		return color.RGBA{R: uint8(t * 255), G: uint8(t * 60), A: alpha}
	case t < 0:
		c := -t * 2
		if c > 1 {
			c = 1
		}
		return color.RGBA{G: uint8(c * 60), B: uint8(c * 255), A: alpha}
	}
	return color.RGBA{A: alpha}
}
