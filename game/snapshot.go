package game

import (
	"fmt"

	"github.com/pthm-cable/protosoup/components"
	"github.com/pthm-cable/protosoup/systems"
	"github.com/pthm-cable/protosoup/telemetry"
)

// Snapshot is a read-only copy of the per-step state consumed by the renderer and UI.
// Buffers are reused between fills.
type Snapshot struct {
	Tick int32

	X, Y   []float32
	Color  []components.Color
	Radius []float32
	Kind   []components.Kind
	Parent []int32

	GridN       int
	VelocityU   []float32
	VelocityV   []float32
	Temperature []float32
}

// Snapshot copies the current state into dst, allocating it if nil.
func (s *Simulation) Snapshot(dst *Snapshot) *Snapshot {
	if dst == nil {
		dst = &Snapshot{}
	}
	p := s.particles
	g := s.grid

	dst.Tick = s.tick
	dst.X = append(dst.X[:0], p.X...)
	dst.Y = append(dst.Y[:0], p.Y...)
	dst.Color = append(dst.Color[:0], p.Color...)
	dst.Radius = append(dst.Radius[:0], p.Radius...)
	dst.Kind = append(dst.Kind[:0], p.Kind...)
	dst.Parent = append(dst.Parent[:0], p.Parent...)

	dst.GridN = g.N
	dst.VelocityU = append(dst.VelocityU[:0], g.U...)
	dst.VelocityV = append(dst.VelocityV[:0], g.V...)
	dst.Temperature = append(dst.Temperature[:0], g.Temp...)
	return dst
}

// Len returns the number of particles in the snapshot.
func (sn *Snapshot) Len() int {
	return len(sn.X)
}

// SaveState captures the full particle and grid state for telemetry.SaveSnapshot.
func (s *Simulation) SaveState() *telemetry.Snapshot {
	p := s.particles
	g := s.grid

	out := &telemetry.Snapshot{
		Version:     telemetry.SnapshotVersion,
		RNGSeed:     s.seed,
		Tick:        s.tick,
		GridSize:    g.N,
		VelocityU:   append([]float32(nil), g.U...),
		VelocityV:   append([]float32(nil), g.V...),
		Temperature: append([]float32(nil), g.Temp...),
		Particles:   make([]telemetry.ParticleState, p.Len()),
	}
	for i := range out.Particles {
		out.Particles[i] = telemetry.ParticleState{
			X: p.X[i], Y: p.Y[i], VelX: p.VelX[i], VelY: p.VelY[i],
			Mass: p.Mass[i], Temp: p.Temp[i],
			Kind:            p.Kind[i],
			MonomerType:     p.MonomerType[i],
			Chemical:        p.Chemical[i],
			AbsorptionBias:  p.AbsorptionBias[i],
			DivisionBias:    p.DivisionBias[i],
			AttractionBias:  p.AttractionBias[i],
			RepulsionBias:   p.RepulsionBias[i],
			Parent:          p.Parent[i],
			OffsetX:         p.OffsetX[i],
			OffsetY:         p.OffsetY[i],
			Radius:          p.Radius[i],
			RadiusThreshold: p.RadiusThreshold[i],
			AbsorptionRate:  p.AbsorptionRate[i],
			MonomersEaten:   p.MonomersEaten[i],
			PolymerLevel:    p.PolymerLevel[i],
			LifeTimer:       p.LifeTimer[i],
			VolumeGrowth:    p.VolumeGrowth[i],
		}
	}
	return out
}

// RestoreState replaces the particle and grid state with a saved one.
// The rng is reseeded from the snapshot's seed and tick, so a restored run is
// reproducible but does not continue the original random sequence.
func (s *Simulation) RestoreState(snap *telemetry.Snapshot) error {
	if snap.Version != telemetry.SnapshotVersion {
		return fmt.Errorf("snapshot version %d, want %d", snap.Version, telemetry.SnapshotVersion)
	}
	if len(snap.Particles) != s.particles.Len() {
		return fmt.Errorf("snapshot has %d particles, simulation has %d", len(snap.Particles), s.particles.Len())
	}
	cells := s.grid.N * s.grid.N
	if snap.GridSize != s.grid.N || len(snap.VelocityU) != cells || len(snap.VelocityV) != cells || len(snap.Temperature) != cells {
		return fmt.Errorf("snapshot grid size %d, simulation grid size %d", snap.GridSize, s.grid.N)
	}

	p := s.particles
	for i, ps := range snap.Particles {
		p.X[i], p.Y[i] = ps.X, ps.Y
		p.VelX[i], p.VelY[i] = ps.VelX, ps.VelY
		p.Mass[i], p.Temp[i] = ps.Mass, ps.Temp
		p.Kind[i] = ps.Kind
		p.MonomerType[i] = ps.MonomerType
		p.Chemical[i] = ps.Chemical
		p.AbsorptionBias[i] = ps.AbsorptionBias
		p.DivisionBias[i] = ps.DivisionBias
		p.AttractionBias[i] = ps.AttractionBias
		p.RepulsionBias[i] = ps.RepulsionBias
		p.Parent[i] = ps.Parent
		p.OffsetX[i], p.OffsetY[i] = ps.OffsetX, ps.OffsetY
		p.Radius[i] = ps.Radius
		p.RadiusThreshold[i] = ps.RadiusThreshold
		p.AbsorptionRate[i] = ps.AbsorptionRate
		p.MonomersEaten[i] = ps.MonomersEaten
		p.PolymerLevel[i] = ps.PolymerLevel
		p.LifeTimer[i] = ps.LifeTimer
		p.VolumeGrowth[i] = ps.VolumeGrowth
	}
	copy(s.grid.U, snap.VelocityU)
	copy(s.grid.V, snap.VelocityV)
	copy(s.grid.Temp, snap.Temperature)

	s.seed = snap.RNGSeed
	s.rng.Seed(snap.RNGSeed + int64(snap.Tick))
	s.tick = snap.Tick
	s.events.Reset()
	s.vesicles.TakeEvents()
	systems.UpdateColors(p)
	return nil
}
