package telemetry

import (
	"log/slog"
	"time"

	"github.com/pthm-cable/protosoup/systems"
)

// Phase names for the simulation step, in step order. The grid phases are the
// stages FluidGrid.Step reports.
const (
	PhaseHeat         = systems.StageHeat
	PhaseBuoyancy     = systems.StageBuoyancy
	PhaseAdvect       = systems.StageAdvect
	PhaseBoundaries   = systems.StageBoundaries
	PhaseTurbulence   = systems.StageTurbulence
	PhaseParticles    = "particles"
	PhaseAbsorb       = "absorb"
	PhaseAbsorbed     = "absorbed"
	PhaseCompetition  = "competition"
	PhaseDivision     = "division"
	PhaseInteractions = "interactions"
	PhaseTelemetry    = "telemetry"
)

// Phases lists every phase in step order.
var Phases = []string{
	PhaseHeat, PhaseBuoyancy, PhaseAdvect, PhaseBoundaries, PhaseTurbulence,
	PhaseParticles, PhaseAbsorb, PhaseAbsorbed, PhaseCompetition,
	PhaseDivision, PhaseInteractions, PhaseTelemetry,
}

// PerfSample holds timing data for a single tick.
type PerfSample struct {
	TickDuration time.Duration
	Phases       map[string]time.Duration
}

// PerfCollector tracks step timings over a rolling window of ticks.
type PerfCollector struct {
	windowSize  int
	samples     []PerfSample
	writeIndex  int
	sampleCount int

	currentPhases map[string]time.Duration
	tickStart     time.Time
	phaseStart    time.Time
	lastPhase     string

	lastFrameTime time.Time
	frameDuration time.Duration
}

// NewPerfCollector creates a collector averaging over windowSize ticks.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		windowSize:    windowSize,
		samples:       make([]PerfSample, windowSize),
		currentPhases: make(map[string]time.Duration),
	}
}

// StartTick begins timing a new step.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.currentPhases = make(map[string]time.Duration, len(Phases))
	p.lastPhase = ""
}

// StartPhase closes the running phase, if any, and starts timing phase.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// EndTick closes the running phase and records the sample.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
		p.lastPhase = ""
	}

	p.samples[p.writeIndex] = PerfSample{
		TickDuration: now.Sub(p.tickStart),
		Phases:       p.currentPhases,
	}
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// RecordFrame records the wall time between rendered frames.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrameTime.IsZero() {
		p.frameDuration = now.Sub(p.lastFrameTime)
	}
	p.lastFrameTime = now
}

// SampleCount returns how many ticks the window currently holds.
func (p *PerfCollector) SampleCount() int {
	return p.sampleCount
}

// PerfStats holds aggregated timings over the window.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration

	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64 // share of the average tick, in percent

	TicksPerSecond float64

	FrameDuration time.Duration
	FPS           float64
}

// Stats aggregates the samples currently in the window.
func (p *PerfCollector) Stats() PerfStats {
	var fps float64
	if p.frameDuration > 0 {
		fps = float64(time.Second) / float64(p.frameDuration)
	}

	stats := PerfStats{
		PhaseAvg:      make(map[string]time.Duration),
		PhasePct:      make(map[string]float64),
		FrameDuration: p.frameDuration,
		FPS:           fps,
	}
	if p.sampleCount == 0 {
		return stats
	}

	var total time.Duration
	phaseSum := make(map[string]time.Duration)
	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		total += s.TickDuration
		if i == 0 || s.TickDuration < stats.MinTickDuration {
			stats.MinTickDuration = s.TickDuration
		}
		if s.TickDuration > stats.MaxTickDuration {
			stats.MaxTickDuration = s.TickDuration
		}
		for phase, d := range s.Phases {
			phaseSum[phase] += d
		}
	}

	n := time.Duration(p.sampleCount)
	stats.AvgTickDuration = total / n
	for phase, sum := range phaseSum {
		avg := sum / n
		stats.PhaseAvg[phase] = avg
		if stats.AvgTickDuration > 0 {
			stats.PhasePct[phase] = float64(avg) / float64(stats.AvgTickDuration) * 100
		}
	}
	if stats.AvgTickDuration > 0 {
		stats.TicksPerSecond = float64(time.Second) / float64(stats.AvgTickDuration)
	}
	return stats
}

// LogStats logs the timings, listing phases that take more than 0.1% of a tick.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_tick_us", s.AvgTickDuration.Microseconds(),
		"min_tick_us", s.MinTickDuration.Microseconds(),
		"max_tick_us", s.MaxTickDuration.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}
	for _, phase := range Phases {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, phase+"_pct", float64(int(pct*10))/10)
		}
	}
	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("min_tick_us", s.MinTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for _, phase := range Phases {
		if pct, ok := s.PhasePct[phase]; ok {
			attrs = append(attrs, slog.Float64(phase+"_pct", pct))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is the flat CSV row of a PerfStats.
type PerfStatsCSV struct {
	WindowEnd       int32   `csv:"window_end"`
	AvgTickUS       int64   `csv:"avg_tick_us"`
	MinTickUS       int64   `csv:"min_tick_us"`
	MaxTickUS       int64   `csv:"max_tick_us"`
	TicksPerSec     float64 `csv:"ticks_per_sec"`
	FPS             float64 `csv:"fps"`
	HeatPct         float64 `csv:"heat_pct"`
	BuoyancyPct     float64 `csv:"buoyancy_pct"`
	AdvectPct       float64 `csv:"advect_pct"`
	BoundariesPct   float64 `csv:"boundaries_pct"`
	TurbulencePct   float64 `csv:"turbulence_pct"`
	ParticlesPct    float64 `csv:"particles_pct"`
	AbsorbPct       float64 `csv:"absorb_pct"`
	AbsorbedPct     float64 `csv:"absorbed_pct"`
	CompetitionPct  float64 `csv:"competition_pct"`
	DivisionPct     float64 `csv:"division_pct"`
	InteractionsPct float64 `csv:"interactions_pct"`
	TelemetryPct    float64 `csv:"telemetry_pct"`
}

// ToCSV flattens s into a CSV row.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:       windowEnd,
		AvgTickUS:       s.AvgTickDuration.Microseconds(),
		MinTickUS:       s.MinTickDuration.Microseconds(),
		MaxTickUS:       s.MaxTickDuration.Microseconds(),
		TicksPerSec:     s.TicksPerSecond,
		FPS:             s.FPS,
		HeatPct:         s.PhasePct[PhaseHeat],
		BuoyancyPct:     s.PhasePct[PhaseBuoyancy],
		AdvectPct:       s.PhasePct[PhaseAdvect],
		BoundariesPct:   s.PhasePct[PhaseBoundaries],
		TurbulencePct:   s.PhasePct[PhaseTurbulence],
		ParticlesPct:    s.PhasePct[PhaseParticles],
		AbsorbPct:       s.PhasePct[PhaseAbsorb],
		AbsorbedPct:     s.PhasePct[PhaseAbsorbed],
		CompetitionPct:  s.PhasePct[PhaseCompetition],
		DivisionPct:     s.PhasePct[PhaseDivision],
		InteractionsPct: s.PhasePct[PhaseInteractions],
		TelemetryPct:    s.PhasePct[PhaseTelemetry],
	}
}
