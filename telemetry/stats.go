package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/protosoup/components"
	"github.com/pthm-cable/protosoup/systems"
)

// FrameStats is an instantaneous summary of the fluid grid and the particle arena.
type FrameStats struct {
	// Grid
	MaxVelocity float64 `csv:"max_velocity" json:"max_velocity"`
	AvgVelocity float64 `csv:"avg_velocity" json:"avg_velocity"`
	MaxTemp     float64 `csv:"max_temp" json:"max_temp"`
	MinTemp     float64 `csv:"min_temp" json:"min_temp"`
	AvgTemp     float64 `csv:"avg_temp" json:"avg_temp"`

	// Particles
	FreeMonomers     int `csv:"free_monomers" json:"free_monomers"`
	ParentedMonomers int `csv:"parented_monomers" json:"parented_monomers"`
	LiveVesicles     int `csv:"live_vesicles" json:"live_vesicles"`
	DeadVesicles     int `csv:"dead_vesicles" json:"dead_vesicles"`
	TotalEaten       int `csv:"total_eaten" json:"total_eaten"`

	// Live vesicle radius distribution
	AvgRadius float64 `csv:"avg_radius" json:"avg_radius"`
	MaxRadius float64 `csv:"max_radius" json:"max_radius"`
	RadiusP10 float64 `csv:"radius_p10" json:"radius_p10"`
	RadiusP50 float64 `csv:"radius_p50" json:"radius_p50"`
	RadiusP90 float64 `csv:"radius_p90" json:"radius_p90"`

	AvgPolymer float64 `csv:"avg_polymer" json:"avg_polymer"`
	MaxPolymer float64 `csv:"max_polymer" json:"max_polymer"`
}

// ComputeFrameStats summarizes the grid and the particles.
// Vesicles below deathRadius count as dead and are left out of the radius figures.
func ComputeFrameStats(p *components.Particles, g *systems.FluidGrid, deathRadius float32) FrameStats {
	var fs FrameStats

	if n := len(g.U); n > 0 {
		speed := make([]float64, n)
		temp := make([]float64, n)
		for i := range speed {
			u, v := float64(g.U[i]), float64(g.V[i])
			speed[i] = math.Sqrt(u*u + v*v)
			temp[i] = float64(g.Temp[i])
		}
		fs.MaxVelocity = floats.Max(speed)
		fs.AvgVelocity = stat.Mean(speed, nil)
		fs.MaxTemp = floats.Max(temp)
		fs.MinTemp = floats.Min(temp)
		fs.AvgTemp = stat.Mean(temp, nil)
	}

	var radii, polymer []float64
	for i := 0; i < p.Len(); i++ {
		switch {
		case p.IsMonomer(i):
			if p.Parent[i] == components.NoParent {
				fs.FreeMonomers++
			} else {
				fs.ParentedMonomers++
			}
		case p.IsLiveVesicle(i, deathRadius):
			fs.LiveVesicles++
			fs.TotalEaten += int(p.MonomersEaten[i])
			radii = append(radii, float64(p.Radius[i]))
			polymer = append(polymer, float64(p.PolymerLevel[i]))
		case p.IsVesicle(i):
			fs.DeadVesicles++
			fs.TotalEaten += int(p.MonomersEaten[i])
		}
	}

	if len(radii) > 0 {
		fs.AvgRadius = stat.Mean(radii, nil)
		fs.MaxRadius = floats.Max(radii)
		sort.Float64s(radii)
		fs.RadiusP10 = Percentile(radii, 0.10)
		fs.RadiusP50 = Percentile(radii, 0.50)
		fs.RadiusP90 = Percentile(radii, 0.90)
		fs.AvgPolymer = stat.Mean(polymer, nil)
		fs.MaxPolymer = floats.Max(polymer)
	}
	return fs
}

// Percentile returns the p-th percentile of a sorted slice with linear interpolation.
// p is in [0, 1]. Returns 0 for an empty slice.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}
	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// WindowStats holds the events of one stats window and the frame at its end.
type WindowStats struct {
	WindowStartTick int32   `csv:"-" json:"window_start"`
	WindowEndTick   int32   `csv:"window_end" json:"window_end"`
	SimTimeSec      float64 `csv:"sim_time" json:"sim_time"`

	FrameStats
	systems.Events

	// Per-tick rates over the window
	AbsorptionAcceptRate float64 `csv:"absorption_accept_rate" json:"absorption_accept_rate"`
	DivisionsPerKTick    float64 `csv:"divisions_per_ktick" json:"divisions_per_ktick"`
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(s.attrs()...)
}

// LogStats logs the window using slog.
func (s WindowStats) LogStats() {
	args := make([]any, 0, 32)
	for _, a := range s.attrs() {
		args = append(args, a)
	}
	slog.Info("stats", args...)
}

func (s WindowStats) attrs() []slog.Attr {
	return []slog.Attr{
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Float64("max_velocity", s.MaxVelocity),
		slog.Float64("avg_velocity", s.AvgVelocity),
		slog.Float64("max_temp", s.MaxTemp),
		slog.Float64("min_temp", s.MinTemp),
		slog.Float64("avg_temp", s.AvgTemp),
		slog.Int("free_monomers", s.FreeMonomers),
		slog.Int("parented_monomers", s.ParentedMonomers),
		slog.Int("live_vesicles", s.LiveVesicles),
		slog.Int("dead_vesicles", s.DeadVesicles),
		slog.Int("total_eaten", s.TotalEaten),
		slog.Float64("avg_radius", s.AvgRadius),
		slog.Float64("max_radius", s.MaxRadius),
		slog.Float64("radius_p50", s.RadiusP50),
		slog.Float64("avg_polymer", s.AvgPolymer),
		slog.Int("absorptions", s.Absorptions),
		slog.Int("rejections", s.Rejections),
		slog.Int("competition_wins", s.CompetitionWins),
		slog.Int("monomers_transferred", s.MonomersTransferred),
		slog.Int("divisions", s.Divisions),
		slog.Int("children_created", s.ChildrenCreated),
		slog.Int("starved_divisions", s.StarvedDivisions),
		slog.Float64("absorption_accept_rate", s.AbsorptionAcceptRate),
		slog.Float64("divisions_per_ktick", s.DivisionsPerKTick),
	}
}
