package game

import (
	"math/rand"

	"github.com/pthm-cable/protosoup/components"
	"github.com/pthm-cable/protosoup/config"
	"github.com/pthm-cable/protosoup/systems"
	"github.com/pthm-cable/protosoup/telemetry"
)

// Simulation owns the particle arena and the fluid grid and advances them in a fixed order.
// All randomness comes from one seeded source, so a run is reproducible from its seed.
type Simulation struct {
	cfg  *config.Config
	seed int64
	rng  *rand.Rand

	particles *components.Particles
	grid      *systems.FluidGrid
	physics   *systems.PhysicsSystem
	vesicles  *systems.VesicleSystem

	perf   *telemetry.PerfCollector
	events systems.Events // since the last TakeEvents
	tick   int32
}

// NewSimulation creates and initializes a simulation. cfg is copied.
func NewSimulation(cfg *config.Config, seed int64) *Simulation {
	c := cfg.Clone()
	c.ComputeDerived()

	rng := rand.New(rand.NewSource(seed))
	grid := systems.NewFluidGrid(c, rng)
	s := &Simulation{
		cfg:       c,
		seed:      seed,
		rng:       rng,
		particles: components.NewParticles(c.Particles.Count),
		grid:      grid,
		physics:   systems.NewPhysicsSystem(c, grid, rng),
		vesicles:  systems.NewVesicleSystem(c, rng),
	}
	s.initParticles()
	return s
}

// Reset reinitializes particles and grid from a new seed.
func (s *Simulation) Reset(seed int64) {
	s.seed = seed
	s.rng.Seed(seed)
	s.tick = 0
	s.events.Reset()
	s.vesicles.TakeEvents()
	s.grid.Reset()
	s.particles = components.NewParticles(s.cfg.Particles.Count)
	s.initParticles()
}

// initParticles scatters hot particles over the domain. The first NVesicles slots become
// vesicles, the rest monomers with random tags and bias scores.
func (s *Simulation) initParticles() {
	p := s.particles
	rng := s.rng
	nV := s.cfg.Derived.NVesicles

	v := s.cfg.Vesicle
	minR, maxR := float32(v.MinRadius), float32(v.MaxRadius)
	rateMin, rateMax := float32(s.cfg.Absorption.RateMin), float32(s.cfg.Absorption.RateMax)
	threshold := float32(s.cfg.Division.SizeMin)

	for i := 0; i < p.Len(); i++ {
		p.X[i] = rng.Float32()
		p.Y[i] = rng.Float32()
		p.Temp[i] = 0.5 + rng.Float32()*0.5
		p.Mass[i] = 0.5 + rng.Float32()*1.5
		p.VelX[i] = 0
		p.VelY[i] = rng.Float32() * 0.05
		p.Parent[i] = components.NoParent

		if i < nV {
			p.Kind[i] = components.KindVesicle
			p.Radius[i] = minR + rng.Float32()*(maxR-minR)
			p.RadiusThreshold[i] = threshold
			p.AbsorptionRate[i] = rateMin + rng.Float32()*(rateMax-rateMin)
			continue
		}

		p.Kind[i] = components.KindMonomer
		p.MonomerType[i] = uint8(rng.Intn(components.NumMonomerTypes))
		p.Chemical[i] = components.ChemicalProperty(rng.Intn(components.NumChemicalProperties))
		p.AbsorptionBias[i] = rng.Float32()
		p.DivisionBias[i] = rng.Float32()
		p.AttractionBias[i] = rng.Float32()
		p.RepulsionBias[i] = rng.Float32()
	}
	systems.UpdateColors(p)
}

// SetPerfCollector enables per-phase timing of every step.
// The caller brackets steps with StartTick and EndTick.
func (s *Simulation) SetPerfCollector(pc *telemetry.PerfCollector) {
	s.perf = pc
}

func (s *Simulation) phase(name string) {
	if s.perf != nil {
		s.perf.StartPhase(name)
	}
}

// Step advances the simulation by one tick.
func (s *Simulation) Step() {
	p := s.particles

	s.grid.Step(s.phase)

	s.phase(telemetry.PhaseParticles)
	s.physics.Update(p)

	s.phase(telemetry.PhaseAbsorb)
	s.vesicles.AbsorbMonomers(p)

	s.phase(telemetry.PhaseAbsorbed)
	s.vesicles.UpdateAbsorbedMonomers(p)
	s.vesicles.PolymerizeMonomers(p)

	s.phase(telemetry.PhaseCompetition)
	s.vesicles.VesicleCompetition(p)

	s.phase(telemetry.PhaseDivision)
	s.vesicles.VesicleDivision(p)

	s.phase(telemetry.PhaseInteractions)
	s.vesicles.VesicleInteractions(p)

	s.events.Add(s.vesicles.TakeEvents())
	s.tick++
}

// Run advances the simulation by n ticks.
func (s *Simulation) Run(n int) {
	for i := 0; i < n; i++ {
		s.Step()
	}
}

// TakeEvents returns the vesicle events since the previous call and resets them.
func (s *Simulation) TakeEvents() systems.Events {
	e := s.events
	s.events.Reset()
	return e
}

// FrameStats summarizes the current state.
func (s *Simulation) FrameStats() telemetry.FrameStats {
	return telemetry.ComputeFrameStats(s.particles, s.grid, float32(s.cfg.Vesicle.DeathRadius))
}

// Tick returns the number of completed steps.
func (s *Simulation) Tick() int32 {
	return s.tick
}

// Seed returns the seed of the current run.
func (s *Simulation) Seed() int64 {
	return s.seed
}

// Config returns the simulation's private copy of the configuration.
func (s *Simulation) Config() *config.Config {
	return s.cfg
}

// Particles exposes the arena. Callers outside the step must treat it as read-only.
func (s *Simulation) Particles() *components.Particles {
	return s.particles
}

// Grid exposes the fluid grid. Callers outside the step must treat it as read-only.
func (s *Simulation) Grid() *systems.FluidGrid {
	return s.grid
}
