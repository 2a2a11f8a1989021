package systems

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pthm-cable/protosoup/components"
	"github.com/pthm-cable/protosoup/config"
)

func newTestPhysics(t *testing.T, seed int64) (*PhysicsSystem, *config.Config) {
	t.Helper()
	cfg := config.Default()
	cfg.Grid.Size = 16
	cfg.ComputeDerived()
	rng := rand.New(rand.NewSource(seed))
	grid := NewFluidGrid(cfg, rng)
	return NewPhysicsSystem(cfg, grid, rng), cfg
}

// placeMonomer puts a free, cold monomer at (x, y) with no velocity.
func placeMonomer(p *components.Particles, i int, x, y float32) {
	p.Kind[i] = components.KindMonomer
	p.X[i], p.Y[i] = x, y
	p.Mass[i] = 1
	p.Temp[i] = MinTemp
	p.Parent[i] = components.NoParent
}

func placeVesicle(p *components.Particles, i int, x, y, radius float32) {
	p.Kind[i] = components.KindVesicle
	p.X[i], p.Y[i] = x, y
	p.Mass[i] = 1
	p.Radius[i] = radius
	p.RadiusThreshold[i] = 50
}

func TestMonomerWrapsLeftEdge(t *testing.T) {
	s, cfg := newTestPhysics(t, 1)
	p := components.NewParticles(1)
	placeMonomer(p, 0, -0.001, 0.5)
	p.VelX[0] = -0.1

	s.wrapMonomer(p, 0)

	assert.InDelta(t, 0.999, p.X[0], 1e-6)
	assert.InDelta(t, -0.1*cfg.Monomer.BoundaryDampeningHorizontal, p.VelX[0], 1e-6)
}

func TestMonomerWrapsDuringUpdate(t *testing.T) {
	s, _ := newTestPhysics(t, 1)
	p := components.NewParticles(1)
	placeMonomer(p, 0, -0.001, 0.5)

	s.Update(p)

	// Cold monomer in still fluid: only drift moves it, far below the tolerance.
	assert.InDelta(t, 0.999, p.X[0], 1e-5)
}

func TestMonomerWrapsAllEdges(t *testing.T) {
	s, cfg := newTestPhysics(t, 1)
	dampV := float32(cfg.Monomer.BoundaryDampeningVertical)

	tests := []struct {
		name         string
		x, y         float32
		wantX, wantY float32
	}{
		{"right", 1.002, 0.5, 0.002, 0.5},
		{"bottom", 0.5, -0.004, 0.5, 0.996},
		{"top", 0.5, 1.003, 0.5, 0.003},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := components.NewParticles(1)
			placeMonomer(p, 0, tt.x, tt.y)
			p.VelY[0] = 0.2

			s.wrapMonomer(p, 0)

			assert.InDelta(t, tt.wantX, p.X[0], 1e-6)
			assert.InDelta(t, tt.wantY, p.Y[0], 1e-6)
			if tt.y != tt.wantY {
				assert.InDelta(t, 0.2*dampV, p.VelY[0], 1e-6)
			}
		})
	}
}

func TestVesicleBouncesAtSurfaceMargins(t *testing.T) {
	s, cfg := newTestPhysics(t, 1)
	p := components.NewParticles(2)
	placeVesicle(p, 0, 0.5, 0.01, 10)
	p.VelY[0] = -0.05
	placeVesicle(p, 1, 0.5, 0.99, 10)
	p.VelY[1] = 0.05

	s.boundVesicle(p, 0)
	s.boundVesicle(p, 1)

	dampV := float32(cfg.Vesicle.BoundaryDampeningVertical)
	assert.InDelta(t, cfg.Vesicle.SurfaceMarginBottom, p.Y[0], 1e-6)
	assert.InDelta(t, 0.05*dampV, p.VelY[0], 1e-6)
	assert.InDelta(t, cfg.Vesicle.SurfaceMarginTop, p.Y[1], 1e-6)
	assert.InDelta(t, -0.05*dampV, p.VelY[1], 1e-6)
}

func TestVesicleWrapsHorizontally(t *testing.T) {
	s, cfg := newTestPhysics(t, 1)
	p := components.NewParticles(1)
	placeVesicle(p, 0, 1.01, 0.5, 10)
	p.VelX[0] = 0.04

	s.boundVesicle(p, 0)

	assert.InDelta(t, 0.01, p.X[0], 1e-6)
	assert.InDelta(t, 0.04*cfg.Vesicle.BoundaryDampeningHorizontal, p.VelX[0], 1e-6)
}

func TestVesicleEdgeRepulsionPushesInward(t *testing.T) {
	s, _ := newTestPhysics(t, 3)
	p := components.NewParticles(2)
	placeVesicle(p, 0, 0.005, 0.5, 10)
	placeVesicle(p, 1, 0.995, 0.5, 10)

	s.Update(p)

	assert.Greater(t, p.VelX[0], float32(0), "left-edge vesicle should move right")
	assert.Less(t, p.VelX[1], float32(0), "right-edge vesicle should move left")
}

func TestVelocityCaps(t *testing.T) {
	s, cfg := newTestPhysics(t, 5)
	p := components.NewParticles(2)
	placeMonomer(p, 0, 0.5, 0.5)
	p.VelX[0] = 10
	placeVesicle(p, 1, 0.3, 0.5, 10)
	p.VelY[1] = -10

	s.Update(p)

	assert.LessOrEqual(t, velocityMagnitude(p.VelX[0], p.VelY[0]), float32(cfg.Monomer.MaxVelocity)+1e-6)
	assert.LessOrEqual(t, velocityMagnitude(p.VelX[1], p.VelY[1]), float32(cfg.Vesicle.MaxVelocity)+1e-6)
}

func TestHeatExchangeZones(t *testing.T) {
	s, cfg := newTestPhysics(t, 1)
	p := components.NewParticles(3)
	placeMonomer(p, 0, 0.5, 0.05)
	p.Temp[0] = 0
	placeMonomer(p, 1, 0.5, 0.95)
	p.Temp[1] = 0
	placeMonomer(p, 2, 0.5, 0.95)
	p.Temp[2] = 0
	p.Mass[2] = 2

	for i := 0; i < 3; i++ {
		s.exchangeHeat(p, i)
	}

	hz := float32(cfg.Particles.HeatingZoneHeight)
	assert.InDelta(t, (hz-0.05)/hz*float32(cfg.Particles.HeatingRate), p.Temp[0], 1e-6)
	assert.Less(t, p.Temp[1], float32(0))
	assert.InDelta(t, 2*p.Temp[1], p.Temp[2], 1e-6, "cooling scales with mass")
}

func TestHeatExchangeClamps(t *testing.T) {
	s, _ := newTestPhysics(t, 1)
	p := components.NewParticles(2)
	placeMonomer(p, 0, 0.5, 0.0)
	p.Temp[0] = MaxTemp
	placeMonomer(p, 1, 0.5, 1.0)
	p.Temp[1] = MinTemp

	s.exchangeHeat(p, 0)
	s.exchangeHeat(p, 1)

	assert.Equal(t, MaxTemp, p.Temp[0])
	assert.Equal(t, MinTemp, p.Temp[1])
}

func TestDeadVesiclesAndParentedMonomersStayPut(t *testing.T) {
	s, _ := newTestPhysics(t, 1)
	p := components.NewParticles(3)
	placeVesicle(p, 0, 0.4, 0.5, 0.5) // below death radius
	p.VelX[0] = 0.01
	placeVesicle(p, 1, 0.6, 0.5, 10)
	placeMonomer(p, 2, 0.61, 0.5)
	p.Parent[2] = 1
	p.VelX[2] = 0.02

	s.Update(p)

	assert.Equal(t, float32(0.4), p.X[0])
	assert.Equal(t, float32(0.01), p.VelX[0])
	assert.Equal(t, float32(0.61), p.X[2])
	assert.Equal(t, float32(0.02), p.VelX[2])
}

func TestUpdateDeterministic(t *testing.T) {
	run := func() *components.Particles {
		s, _ := newTestPhysics(t, 77)
		p := components.NewParticles(20)
		rng := rand.New(rand.NewSource(4))
		for i := 0; i < 20; i++ {
			placeMonomer(p, i, rng.Float32(), rng.Float32())
			p.Temp[i] = rng.Float32()
		}
		for step := 0; step < 50; step++ {
			s.Update(p)
		}
		return p
	}

	a, b := run(), run()
	assert.Equal(t, a.X, b.X)
	assert.Equal(t, a.Y, b.Y)
}

func TestUpdateColors(t *testing.T) {
	p := components.NewParticles(3)
	placeVesicle(p, 0, 0.5, 0.5, 10)
	placeMonomer(p, 1, 0.5, 0.5)
	p.Chemical[1] = components.ChemAttract
	p.Temp[1] = MaxTemp
	placeMonomer(p, 2, 0.5, 0.5)
	p.Chemical[2] = components.ChemAttract
	p.Temp[2] = MinTemp

	UpdateColors(p)

	assert.Equal(t, components.VesicleColor, p.Color[0])
	base := components.ChemAttract.BaseColor()
	assert.InDelta(t, base.R, p.Color[1].R, 1e-6)
	assert.InDelta(t, base.G, p.Color[1].G, 1e-6)
	assert.InDelta(t, base.G*0.3, p.Color[2].G, 1e-6)
}

func TestBrightness(t *testing.T) {
	assert.InDelta(t, 0.3, Brightness(MinTemp), 1e-6)
	assert.InDelta(t, 1.0, Brightness(MaxTemp), 1e-6)
	assert.InDelta(t, 0.65, Brightness(0.25), 1e-6)
}
