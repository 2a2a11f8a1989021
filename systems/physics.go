package systems

import (
	"math/rand"

	"github.com/pthm-cable/protosoup/components"
	"github.com/pthm-cable/protosoup/config"
)

// bodyParams holds the per-kind integration coefficients.
type bodyParams struct {
	buoyancy, gravity, damping float32
	fluidCoupling, drift       float32
	maxVelocity                float32
	dampH, dampV               float32 // boundary dampening
}

// PhysicsSystem integrates particle motion and couples particles to the fluid.
type PhysicsSystem struct {
	grid *FluidGrid
	rng  *rand.Rand

	dt          float32
	deathRadius float32

	heatingZone, coolingZone float32
	heatingRate, coolingRate float32

	monomer            bodyParams
	brownianStrength   float32
	brownianAnisotropy float32

	vesicle                  bodyParams
	brownianH, brownianV     float32
	edgeMargin, edgeStrength float32
	surfaceBottom            float32
	surfaceTop               float32
}

// NewPhysicsSystem creates a physics system reading coefficients from cfg.
func NewPhysicsSystem(cfg *config.Config, grid *FluidGrid, rng *rand.Rand) *PhysicsSystem {
	m := cfg.Monomer
	v := cfg.Vesicle
	return &PhysicsSystem{
		grid:        grid,
		rng:         rng,
		dt:          float32(cfg.Grid.DT),
		deathRadius: float32(v.DeathRadius),

		heatingZone: float32(cfg.Particles.HeatingZoneHeight),
		coolingZone: float32(cfg.Particles.CoolingZoneHeight),
		heatingRate: float32(cfg.Particles.HeatingRate),
		coolingRate: float32(cfg.Particles.CoolingRate),

		monomer: bodyParams{
			buoyancy:      float32(m.Buoyancy),
			gravity:       float32(m.Gravity),
			damping:       float32(m.Damping),
			fluidCoupling: float32(m.FluidCoupling),
			drift:         float32(m.HorizontalDrift),
			maxVelocity:   float32(m.MaxVelocity),
			dampH:         float32(m.BoundaryDampeningHorizontal),
			dampV:         float32(m.BoundaryDampeningVertical),
		},
		brownianStrength:   float32(m.BrownianStrength),
		brownianAnisotropy: float32(m.BrownianAnisotropy),

		vesicle: bodyParams{
			buoyancy:      float32(v.Buoyancy),
			gravity:       float32(v.Gravity),
			damping:       float32(v.Damping),
			fluidCoupling: float32(v.FluidCoupling),
			drift:         float32(v.HorizontalDrift),
			maxVelocity:   float32(v.MaxVelocity),
			dampH:         float32(v.BoundaryDampeningHorizontal),
			dampV:         float32(v.BoundaryDampeningVertical),
		},
		brownianH:     float32(v.BrownianHorizontal),
		brownianV:     float32(v.BrownianVertical),
		edgeMargin:    float32(v.EdgeRepulsionMargin),
		edgeStrength:  float32(v.EdgeRepulsionStrength),
		surfaceBottom: float32(v.SurfaceMarginBottom),
		surfaceTop:    float32(v.SurfaceMarginTop),
	}
}

// Update runs one kinematics pass in ascending index order.
// Dead vesicles and parented monomers do not move here; colors are refreshed for every slot.
func (s *PhysicsSystem) Update(p *components.Particles) {
	for i := 0; i < p.Len(); i++ {
		switch p.Kind[i] {
		case components.KindVesicle:
			if p.Radius[i] < s.deathRadius {
				continue
			}
			s.exchangeHeat(p, i)
			s.integrateVesicle(p, i)
		case components.KindMonomer:
			if p.Parent[i] != components.NoParent {
				continue
			}
			s.exchangeHeat(p, i)
			s.integrateMonomer(p, i)
		}
	}
	UpdateColors(p)
}

// exchangeHeat warms particles in the heating zone and cools them, in proportion
// to mass, in the cooling zone.
func (s *PhysicsSystem) exchangeHeat(p *components.Particles, i int) {
	y := p.Y[i]
	if y < s.heatingZone {
		depth := (s.heatingZone - y) / s.heatingZone
		p.Temp[i] += depth * s.heatingRate
		if p.Temp[i] > MaxTemp {
			p.Temp[i] = MaxTemp
		}
	}
	if y > s.coolingZone {
		height := (y - s.coolingZone) / (1 - s.coolingZone)
		p.Temp[i] -= height * p.Mass[i] * s.coolingRate
		if p.Temp[i] < MinTemp {
			p.Temp[i] = MinTemp
		}
	}
}

// applyForces adds buoyancy, gravity, damping, fluid coupling and horizontal drift.
func (s *PhysicsSystem) applyForces(p *components.Particles, i int, bp *bodyParams) {
	p.VelY[i] += (p.Temp[i]*bp.buoyancy - p.Mass[i]*bp.gravity) * s.dt

	p.VelX[i] *= bp.damping
	p.VelY[i] *= bp.damping

	fu, fv := s.grid.SampleVelocity(p.X[i], p.Y[i])
	p.VelX[i] += fu * bp.fluidCoupling * s.dt
	p.VelY[i] += fv * bp.fluidCoupling * s.dt

	p.VelX[i] += (s.rng.Float32() - 0.5) * bp.drift * s.dt
}

func (s *PhysicsSystem) integrateMonomer(p *components.Particles, i int) {
	bp := &s.monomer
	s.applyForces(p, i, bp)

	p.VelX[i], p.VelY[i] = capMagnitude(p.VelX[i], p.VelY[i], bp.maxVelocity)

	p.X[i] += p.VelX[i] * s.dt
	p.Y[i] += p.VelY[i] * s.dt

	// Brownian kick goes straight to position, stronger sideways.
	thermal := p.Temp[i] + 0.5
	if thermal < 0 {
		thermal = 0
	}
	kick := s.brownianStrength * thermal
	p.X[i] += (s.rng.Float32() - 0.5) * kick * s.brownianAnisotropy
	p.Y[i] += (s.rng.Float32() - 0.5) * kick

	s.wrapMonomer(p, i)
}

// wrapMonomer wraps a monomer around all four edges, damping the crossed component.
func (s *PhysicsSystem) wrapMonomer(p *components.Particles, i int) {
	if p.X[i] < 0 {
		p.X[i] += 1
		p.VelX[i] *= s.monomer.dampH
	} else if p.X[i] > 1 {
		p.X[i] -= 1
		p.VelX[i] *= s.monomer.dampH
	}
	if p.Y[i] < 0 {
		p.Y[i] += 1
		p.VelY[i] *= s.monomer.dampV
	} else if p.Y[i] > 1 {
		p.Y[i] -= 1
		p.VelY[i] *= s.monomer.dampV
	}
}

func (s *PhysicsSystem) integrateVesicle(p *components.Particles, i int) {
	bp := &s.vesicle
	s.applyForces(p, i, bp)

	p.VelX[i] += (s.rng.Float32() - 0.5) * s.brownianH
	p.VelY[i] += (s.rng.Float32() - 0.5) * s.brownianV

	// Push away from the side walls before the wrap kicks in.
	if x := p.X[i]; x < s.edgeMargin {
		p.VelX[i] += s.edgeStrength * (s.edgeMargin - x) / s.edgeMargin
	} else if x > 1-s.edgeMargin {
		p.VelX[i] -= s.edgeStrength * (x - (1 - s.edgeMargin)) / s.edgeMargin
	}

	p.VelX[i], p.VelY[i] = capMagnitude(p.VelX[i], p.VelY[i], bp.maxVelocity)

	p.X[i] += p.VelX[i] * s.dt
	p.Y[i] += p.VelY[i] * s.dt

	s.boundVesicle(p, i)
}

// boundVesicle wraps a vesicle horizontally and bounces it off the surface margins.
func (s *PhysicsSystem) boundVesicle(p *components.Particles, i int) {
	if p.X[i] < 0 {
		p.X[i] += 1
		p.VelX[i] *= s.vesicle.dampH
	} else if p.X[i] > 1 {
		p.X[i] -= 1
		p.VelX[i] *= s.vesicle.dampH
	}
	if p.Y[i] < s.surfaceBottom {
		p.Y[i] = s.surfaceBottom
		p.VelY[i] = -p.VelY[i] * s.vesicle.dampV
	} else if p.Y[i] > s.surfaceTop {
		p.Y[i] = s.surfaceTop
		p.VelY[i] = -p.VelY[i] * s.vesicle.dampV
	}
}

// Brightness maps temperature in [MinTemp, MaxTemp] linearly onto [0.3, 1.0].
func Brightness(temp float32) float32 {
	return 0.3 + (temp-MinTemp)/(MaxTemp-MinTemp)*0.7
}

// UpdateColors recomputes the display color of every slot.
func UpdateColors(p *components.Particles) {
	for i := 0; i < p.Len(); i++ {
		if p.Kind[i] == components.KindVesicle {
			p.Color[i] = components.VesicleColor
			continue
		}
		p.Color[i] = p.Chemical[i].BaseColor().Scale(Brightness(p.Temp[i]))
	}
}
