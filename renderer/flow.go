package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// FlowRenderer draws the grid velocity as arrows on a sparse lattice of cells.
type FlowRenderer struct {
	Stride int     // draw every Stride-th cell on each axis
	Scale  float32 // screen pixels per unit velocity
	Color  rl.Color
}

// NewFlowRenderer creates a flow renderer.
func NewFlowRenderer(stride int, scale float32) *FlowRenderer {
	if stride < 1 {
		stride = 1
	}
	return &FlowRenderer{
		Stride: stride,
		Scale:  scale,
		Color:  rl.Color{R: 200, G: 220, B: 255, A: 140},
	}
}

// Draw renders one arrow per sampled cell, skipping still cells.
func (r *FlowRenderer) Draw(f FieldView, vp Viewport) {
	if f.N == 0 {
		return
	}
	cell := 1 / float32(f.N)
	for j := r.Stride / 2; j < f.N; j += r.Stride {
		for i := r.Stride / 2; i < f.N; i += r.Stride {
			idx := j*f.N + i
			u, v := f.VelocityU[idx], f.VelocityV[idx]
			mag := float32(math.Sqrt(float64(u*u + v*v)))
			if mag < 1e-4 {
				continue
			}

			from := vp.ToScreen((float32(i)+0.5)*cell, (float32(j)+0.5)*cell)
			if !vp.OnScreen(from, 0) {
				continue
			}
			// Screen y points down.
			to := rl.Vector2{X: from.X + u*r.Scale, Y: from.Y - v*r.Scale}
			rl.DrawLineV(from, to, r.Color)

			// Arrow head
			dx, dy := (to.X-from.X)/(mag*r.Scale), (to.Y-from.Y)/(mag*r.Scale)
			head := float32(3)
			left := rl.Vector2{X: to.X - head*(dx-dy*0.5), Y: to.Y - head*(dy+dx*0.5)}
			right := rl.Vector2{X: to.X - head*(dx+dy*0.5), Y: to.Y - head*(dy-dx*0.5)}
			rl.DrawLineV(to, left, r.Color)
			rl.DrawLineV(to, right, r.Color)
		}
	}
}
