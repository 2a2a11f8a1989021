package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/protosoup/components"
)

// ParticleRenderer draws monomers as dots and vesicles as translucent membranes.
type ParticleRenderer struct {
	MonomerSize  float32
	AbsorbedSize float32
	DeathRadius  float32
}

// NewParticleRenderer creates a particle renderer. Vesicles below deathRadius are not drawn.
func NewParticleRenderer(deathRadius float32) *ParticleRenderer {
	return &ParticleRenderer{
		MonomerSize:  1.5,
		AbsorbedSize: 1.0,
		DeathRadius:  deathRadius,
	}
}

// Draw renders every particle. Free monomers go first so membranes sit on top of them,
// then vesicles, then absorbed monomers inside their membranes.
func (r *ParticleRenderer) Draw(p ParticleView, vp Viewport, showAbsorbed bool) {
	for i := range p.X {
		if p.Kind[i] != components.KindMonomer || p.Parent[i] != components.NoParent {
			continue
		}
		pos := vp.ToScreen(p.X[i], p.Y[i])
		if !vp.OnScreen(pos, r.MonomerSize) {
			continue
		}
		rl.DrawCircleV(pos, r.MonomerSize, ToRL(p.Color[i], 220))
	}

	for i := range p.X {
		if p.Kind[i] != components.KindVesicle || p.Radius[i] < r.DeathRadius {
			continue
		}
		pos := vp.ToScreen(p.X[i], p.Y[i])
		radius := vp.ScreenRadius(p.Radius[i])
		if !vp.OnScreen(pos, radius) {
			continue
		}
		rl.DrawCircleV(pos, radius, ToRL(p.Color[i], 40))
		rl.DrawCircleLinesV(pos, radius, ToRL(p.Color[i], 200))
	}

	if !showAbsorbed {
		return
	}
	for i := range p.X {
		if p.Kind[i] != components.KindMonomer || p.Parent[i] == components.NoParent {
			continue
		}
		pos := vp.ToScreen(p.X[i], p.Y[i])
		if !vp.OnScreen(pos, r.AbsorbedSize) {
			continue
		}
		rl.DrawCircleV(pos, r.AbsorbedSize, ToRL(p.Color[i], 160))
	}
}
