package systems

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/protosoup/components"
	"github.com/pthm-cable/protosoup/config"
)

func newTestVesicles(t *testing.T, seed int64) (*VesicleSystem, *config.Config) {
	t.Helper()
	cfg := config.Default()
	return NewVesicleSystem(cfg, rand.New(rand.NewSource(seed))), cfg
}

// own parents monomers to v and keeps MonomersEaten in step.
func own(p *components.Particles, v int, monomers ...int) {
	for _, m := range monomers {
		p.Kind[m] = components.KindMonomer
		p.Parent[m] = int32(v)
		p.MonomersEaten[v]++
	}
}

func TestAbsorbMonomersAccepts(t *testing.T) {
	s, cfg := newTestVesicles(t, 1)
	p := components.NewParticles(3)
	placeVesicle(p, 0, 0.5, 0.5, 20) // 20px = 0.025 domain units
	p.AbsorptionRate[0] = 1
	placeMonomer(p, 1, 0.51, 0.5)
	placeMonomer(p, 2, 0.6, 0.5) // out of range

	s.AbsorbMonomers(p)

	assert.Equal(t, int32(0), p.Parent[1])
	assert.Equal(t, components.NoParent, p.Parent[2])
	assert.InDelta(t, 20+cfg.Absorption.GrowthPerMonomer, p.Radius[0], 1e-5)
	assert.Equal(t, int32(1), p.MonomersEaten[0])

	half := float32(cfg.Absorption.GrowthFactor) * 20 / 800 / 2
	assert.LessOrEqual(t, float32(math.Abs(float64(p.OffsetX[1]))), half)
	assert.LessOrEqual(t, float32(math.Abs(float64(p.OffsetY[1]))), half)

	ev := s.TakeEvents()
	assert.Equal(t, 1, ev.Absorptions)
	assert.Equal(t, 0, ev.Rejections)
	assert.Equal(t, Events{}, s.TakeEvents(), "events should reset after take")
}

func TestAbsorbMonomersRejectionPushesApart(t *testing.T) {
	s, _ := newTestVesicles(t, 1)
	p := components.NewParticles(2)
	placeVesicle(p, 0, 0.5, 0.5, 20)
	p.AbsorptionRate[0] = 0
	placeMonomer(p, 1, 0.51, 0.5)

	s.AbsorbMonomers(p)

	assert.Equal(t, components.NoParent, p.Parent[1])
	assert.Less(t, p.VelX[0], float32(0), "vesicle pushed away from monomer")
	assert.Greater(t, p.VelX[1], float32(0), "monomer pushed away from vesicle")
	assert.InDelta(t, -p.VelX[0], p.VelX[1], 1e-7)
	assert.Equal(t, float32(20), p.Radius[0])
	assert.Equal(t, 1, s.TakeEvents().Rejections)
}

func TestAbsorbMonomersSkipsFullAndDeadVesicles(t *testing.T) {
	s, _ := newTestVesicles(t, 1)
	p := components.NewParticles(4)
	placeVesicle(p, 0, 0.3, 0.5, 50) // at threshold
	p.AbsorptionRate[0] = 1
	placeMonomer(p, 1, 0.31, 0.5)
	placeVesicle(p, 2, 0.7, 0.5, 0.5) // dead
	p.AbsorptionRate[2] = 1
	placeMonomer(p, 3, 0.7, 0.5)

	s.AbsorbMonomers(p)

	assert.Equal(t, components.NoParent, p.Parent[1])
	assert.Equal(t, components.NoParent, p.Parent[3])
	assert.Equal(t, float32(0), p.VelX[1])
}

// absorbFullScan is the reference absorption pass: every vesicle scans every monomer.
func absorbFullScan(s *VesicleSystem, p *components.Particles) {
	for v := 0; v < p.Len(); v++ {
		if !s.isLive(p, v) || p.Radius[v] >= p.RadiusThreshold[v] {
			continue
		}
		vx, vy := p.X[v], p.Y[v]
		rNorm := p.Radius[v] / s.width
		for m := 0; m < p.Len(); m++ {
			if p.Kind[m] != components.KindMonomer || p.Parent[m] != components.NoParent {
				continue
			}
			dist := distance(vx, vy, p.X[m], p.Y[m])
			if dist >= rNorm {
				continue
			}
			if s.rng.Float32() < p.AbsorptionRate[v] {
				p.Parent[m] = int32(v)
				p.OffsetX[m], p.OffsetY[m] = s.randomOffset(s.growthFactor * rNorm)
				p.Radius[v] += s.growthPerMonomer
				p.MonomersEaten[v]++
				continue
			}
			if dist <= 1e-4 {
				continue
			}
			dirX := (p.X[m] - vx) / dist
			dirY := (p.Y[m] - vy) / dist
			strength := s.rejectionRepulsion * (1 - dist/rNorm)
			p.VelX[v] -= dirX * strength * s.hBias
			p.VelY[v] -= dirY * strength
			p.VelX[m] += dirX * strength * s.hBias
			p.VelY[m] += dirY * strength
		}
	}
}

func TestAbsorbMonomersMatchesFullScan(t *testing.T) {
	build := func() *components.Particles {
		rng := rand.New(rand.NewSource(9))
		p := components.NewParticles(400)
		for i := 0; i < 400; i++ {
			if i < 8 {
				placeVesicle(p, i, 0.2+rng.Float32()*0.6, 0.2+rng.Float32()*0.6, 30+rng.Float32()*15)
				p.AbsorptionRate[i] = 0.5
				continue
			}
			// Crowd monomers around the middle so vesicles overlap and compete for them.
			placeMonomer(p, i, 0.15+rng.Float32()*0.7, 0.15+rng.Float32()*0.7)
		}
		return p
	}

	fast, _ := newTestVesicles(t, 31)
	ref, _ := newTestVesicles(t, 31)
	a, b := build(), build()

	for step := 0; step < 5; step++ {
		fast.AbsorbMonomers(a)
		absorbFullScan(ref, b)
	}

	assert.Equal(t, b.Parent, a.Parent)
	assert.Equal(t, b.Radius, a.Radius)
	assert.Equal(t, b.VelX, a.VelX)
	assert.Equal(t, b.MonomersEaten, a.MonomersEaten)
	assert.Greater(t, fast.TakeEvents().Absorptions, 0)
}

func TestUpdateAbsorbedMonomers(t *testing.T) {
	s, cfg := newTestVesicles(t, 1)
	p := components.NewParticles(4)
	placeVesicle(p, 0, 0.4, 0.6, 20)
	placeMonomer(p, 1, 0.9, 0.9)
	p.Parent[1] = 0
	p.OffsetX[1], p.OffsetY[1] = 0.02, -0.01
	p.VelX[1], p.VelY[1] = 0.1, 0.1

	// Parent died while still owning a monomer.
	placeVesicle(p, 2, 0.2, 0.3, 0.2)
	placeMonomer(p, 3, 0.9, 0.1)
	p.Parent[3] = 2

	s.UpdateAbsorbedMonomers(p)

	scale := float32(cfg.Absorption.OffsetScale)
	assert.InDelta(t, 0.4+0.02*scale, p.X[1], 1e-6)
	assert.InDelta(t, 0.6-0.01*scale, p.Y[1], 1e-6)
	assert.Equal(t, float32(0), p.VelX[1])
	assert.Equal(t, float32(0), p.VelY[1])

	assert.Equal(t, int32(2), p.Parent[3], "reference to a dead vesicle is kept")
	assert.InDelta(t, 0.2, p.X[3], 1e-6)
	assert.InDelta(t, 0.3, p.Y[3], 1e-6)
}

func TestCalculateVesicleBias(t *testing.T) {
	s, _ := newTestVesicles(t, 1)
	p := components.NewParticles(4)
	placeVesicle(p, 0, 0.5, 0.5, 20)
	placeVesicle(p, 3, 0.2, 0.5, 20)
	own(p, 0, 1, 2)
	p.AbsorptionBias[1], p.AbsorptionBias[2] = 0.2, 0.6
	p.DivisionBias[1], p.DivisionBias[2] = 1, 0
	p.AttractionBias[1], p.AttractionBias[2] = 0.3, 0.3
	p.RepulsionBias[1], p.RepulsionBias[2] = 0.9, 0.1

	b := s.CalculateVesicleBias(p, 0)
	assert.InDelta(t, 0.4, b.Absorption, 1e-6)
	assert.InDelta(t, 0.5, b.Division, 1e-6)
	assert.InDelta(t, 0.3, b.Attraction, 1e-6)
	assert.InDelta(t, 0.5, b.Repulsion, 1e-6)

	empty := s.CalculateVesicleBias(p, 3)
	assert.Equal(t, Bias{0.5, 0.5, 0.5, 0.5}, empty)
}

func TestVesicleBiasesMatchesPerVesicle(t *testing.T) {
	s, _ := newTestVesicles(t, 1)
	rng := rand.New(rand.NewSource(2))
	p := components.NewParticles(200)
	for i := 0; i < 200; i++ {
		if i < 10 {
			placeVesicle(p, i, rng.Float32(), rng.Float32(), 20)
			continue
		}
		placeMonomer(p, i, rng.Float32(), rng.Float32())
		p.AbsorptionBias[i] = rng.Float32()
		p.DivisionBias[i] = rng.Float32()
		p.AttractionBias[i] = rng.Float32()
		p.RepulsionBias[i] = rng.Float32()
		if rng.Float32() < 0.5 {
			p.Parent[i] = int32(rng.Intn(10))
		}
	}

	all := s.VesicleBiases(p, nil)
	require.Len(t, all, 200)
	for v := 0; v < 10; v++ {
		want := s.CalculateVesicleBias(p, v)
		assert.InDelta(t, want.Absorption, all[v].Absorption, 1e-5)
		assert.InDelta(t, want.Division, all[v].Division, 1e-5)
		assert.InDelta(t, want.Attraction, all[v].Attraction, 1e-5)
		assert.InDelta(t, want.Repulsion, all[v].Repulsion, 1e-5)
	}
}
