package systems

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/protosoup/config"
)

// Temperature bounds shared by the grid and the particles.
const (
	MinTemp float32 = -0.5
	MaxTemp float32 = 1.0
)

// Vent and cooling band geometry, in grid rows.
const (
	ventBandRows = 8
	coolBandRows = 12
)

// FluidGrid is an N×N Eulerian grid holding velocity, temperature and pressure.
// Cells are stored row-major: index = j*N + i, with i along x and j along y (up).
//
// Advection writes into the new* buffers and a separate copy pass publishes them,
// so a cell never reads a neighbour value updated earlier in the same pass.
type FluidGrid struct {
	N        int
	CellSize float32

	U, V     []float32 // velocity components
	Temp     []float32
	Pressure []float32 // allocated for forward compatibility, never updated

	newU, newV []float32
	newTemp    []float32

	DT                 float32
	Buoyancy           float32
	Viscosity          float32
	Diffusion          float32
	HeatSourceStrength float32
	CoolingStrength    float32
	AmbientTemp        float32
	MaxVelocity        float32
	TurbulenceChance   float32
	TurbulenceStrength float32

	// Parallel splits the rng-free passes across row chunks.
	Parallel bool

	rng *rand.Rand
}

// NewFluidGrid creates a zeroed grid from cfg. rng drives turbulence.
func NewFluidGrid(cfg *config.Config, rng *rand.Rand) *FluidGrid {
	n := cfg.Grid.Size
	cells := n * n
	return &FluidGrid{
		N:        n,
		CellSize: 1 / float32(n),

		U:        make([]float32, cells),
		V:        make([]float32, cells),
		Temp:     make([]float32, cells),
		Pressure: make([]float32, cells),
		newU:     make([]float32, cells),
		newV:     make([]float32, cells),
		newTemp:  make([]float32, cells),

		DT:                 float32(cfg.Grid.DT),
		Buoyancy:           float32(cfg.Grid.Buoyancy),
		Viscosity:          float32(cfg.Grid.Viscosity),
		Diffusion:          float32(cfg.Grid.Diffusion),
		HeatSourceStrength: float32(cfg.Grid.HeatSourceStrength),
		CoolingStrength:    float32(cfg.Grid.CoolingStrength),
		AmbientTemp:        float32(cfg.Grid.AmbientTemp),
		MaxVelocity:        float32(cfg.Grid.MaxVelocity),
		TurbulenceChance:   float32(cfg.Grid.TurbulenceChance),
		TurbulenceStrength: float32(cfg.Grid.TurbulenceStrength),

		Parallel: cfg.Simulation.Parallel,
		rng:      rng,
	}
}

// Reset zeroes every field.
func (g *FluidGrid) Reset() {
	for i := range g.U {
		g.U[i] = 0
		g.V[i] = 0
		g.Temp[i] = 0
		g.Pressure[i] = 0
	}
}

// Index returns the flat index of cell (i, j).
func (g *FluidGrid) Index(i, j int) int {
	return j*g.N + i
}

// CellCenter returns the normalized coordinates of the center of cell (i, j).
func (g *FluidGrid) CellCenter(i, j int) (float32, float32) {
	return (float32(i) + 0.5) * g.CellSize, (float32(j) + 0.5) * g.CellSize
}

// SampleBilinear samples field at normalized coordinates (x, y).
// Cell values live at cell centers. The base cell is clamped to [0, N-2] on each
// axis and the fractional offsets to [0, 1], so sampling at any center is exact.
// Inside the outer half cell the edge value is returned as is; an unclamped
// offset would instead blend the two outermost cells there (x=0 mixing cells 0
// and 1 with a negative weight).
func (g *FluidGrid) SampleBilinear(field []float32, x, y float32) float32 {
	n := g.N
	gx := x*float32(n) - 0.5
	gy := y*float32(n) - 0.5

	i := clampInt(int(math.Floor(float64(gx))), 0, n-2)
	j := clampInt(int(math.Floor(float64(gy))), 0, n-2)

	fx := clamp01(gx - float32(i))
	fy := clamp01(gy - float32(j))

	i00 := j*n + i
	i10 := i00 + 1
	i01 := i00 + n
	i11 := i01 + 1

	return (1-fx)*(1-fy)*field[i00] +
		fx*(1-fy)*field[i10] +
		(1-fx)*fy*field[i01] +
		fx*fy*field[i11]
}

// SampleVelocity returns the interpolated fluid velocity at (x, y).
func (g *FluidGrid) SampleVelocity(x, y float32) (float32, float32) {
	return g.SampleBilinear(g.U, x, y), g.SampleBilinear(g.V, x, y)
}

// ventPattern selects heated columns: three overlapping periodicities produce
// irregular clusters of small vents.
func ventPattern(i int) bool {
	return i%8 < 3 || i%13 < 2 || i%21 < 3
}

// coolPattern selects cooled columns along the top band.
func coolPattern(i int) bool {
	return i%7 < 3 || i%11 < 2 || i%19 < 3
}

// ApplyHeatSources heats vent columns along the bottom band, cools the top band,
// decays every cell toward zero and clamps to [MinTemp, MaxTemp].
func (g *FluidGrid) ApplyHeatSources() {
	n := g.N
	coolStart := n - coolBandRows
	forRows(n, g.Parallel, func(j0, j1 int) {
		for j := j0; j < j1; j++ {
			for i := 0; i < n; i++ {
				idx := j*n + i
				t := g.Temp[idx]

				if j < ventBandRows && ventPattern(i) {
					depth := 1 - float32(j)/ventBandRows
					t += g.HeatSourceStrength * depth
				}

				if j > coolStart && coolPattern(i) {
					height := float32(j-coolStart) / coolBandRows
					t -= g.CoolingStrength * height
				}

				t *= g.Diffusion
				g.Temp[idx] = clampFloat(t, MinTemp, MaxTemp)
			}
		}
	})
}

// ApplyBuoyancy pushes warm cells up and cool cells down, then caps velocity.
func (g *FluidGrid) ApplyBuoyancy() {
	n := g.N
	forRows(n, g.Parallel, func(j0, j1 int) {
		for idx := j0 * n; idx < j1*n; idx++ {
			g.V[idx] += (g.Temp[idx] - g.AmbientTemp) * g.Buoyancy * g.DT
			g.U[idx], g.V[idx] = capMagnitude(g.U[idx], g.V[idx], g.MaxVelocity)
		}
	})
}

// backtrace returns the clamped departure point for cell (i, j).
func (g *FluidGrid) backtrace(i, j int) (float32, float32) {
	idx := j*g.N + i
	px, py := g.CellCenter(i, j)
	px -= g.U[idx] * g.DT
	py -= g.V[idx] * g.DT
	return clamp01(px), clamp01(py)
}

// AdvectVelocity self-advects velocity into the new buffer, applying viscosity.
// Call CopyVelocity to publish the result.
func (g *FluidGrid) AdvectVelocity() {
	n := g.N
	forRows(n, g.Parallel, func(j0, j1 int) {
		for j := j0; j < j1; j++ {
			for i := 0; i < n; i++ {
				px, py := g.backtrace(i, j)
				idx := j*n + i
				g.newU[idx] = g.SampleBilinear(g.U, px, py) * g.Viscosity
				g.newV[idx] = g.SampleBilinear(g.V, px, py) * g.Viscosity
			}
		}
	})
}

// CopyVelocity publishes the advected velocity.
func (g *FluidGrid) CopyVelocity() {
	copy(g.U, g.newU)
	copy(g.V, g.newV)
}

// AdvectTemperature advects temperature by the current velocity into the new buffer.
// Call CopyTemperature to publish the result.
func (g *FluidGrid) AdvectTemperature() {
	n := g.N
	forRows(n, g.Parallel, func(j0, j1 int) {
		for j := j0; j < j1; j++ {
			for i := 0; i < n; i++ {
				px, py := g.backtrace(i, j)
				g.newTemp[j*n+i] = g.SampleBilinear(g.Temp, px, py)
			}
		}
	})
}

// CopyTemperature publishes the advected temperature.
func (g *FluidGrid) CopyTemperature() {
	copy(g.Temp, g.newTemp)
}

// EnforceBoundaries zeroes the wall-normal velocity on the four edges and caps magnitude.
func (g *FluidGrid) EnforceBoundaries() {
	n := g.N
	forRows(n, g.Parallel, func(j0, j1 int) {
		for j := j0; j < j1; j++ {
			for i := 0; i < n; i++ {
				idx := j*n + i
				if i == 0 || i == n-1 {
					g.U[idx] = 0
				}
				if j == 0 || j == n-1 {
					g.V[idx] = 0
				}
				g.U[idx], g.V[idx] = capMagnitude(g.U[idx], g.V[idx], g.MaxVelocity)
			}
		}
	})
}

// AddTurbulence kicks a small random fraction of cells with a uniform impulse.
// Sequential: it consumes the shared rng in cell order.
func (g *FluidGrid) AddTurbulence() {
	for idx := range g.U {
		if g.rng.Float32() < g.TurbulenceChance {
			g.U[idx] += (g.rng.Float32() - 0.5) * g.TurbulenceStrength
			g.V[idx] += (g.rng.Float32() - 0.5) * g.TurbulenceStrength
		}
	}
}

// Grid stages reported by Step, in step order.
const (
	StageHeat       = "heat"
	StageBuoyancy   = "buoyancy"
	StageAdvect     = "advect"
	StageBoundaries = "boundaries"
	StageTurbulence = "turbulence"
)

// Step runs the grid portion of a simulation step in its fixed order.
// mark, if non-nil, is called with the stage name before each stage starts.
func (g *FluidGrid) Step(mark func(stage string)) {
	if mark == nil {
		mark = func(string) {}
	}

	mark(StageHeat)
	g.ApplyHeatSources()

	mark(StageBuoyancy)
	g.ApplyBuoyancy()

	mark(StageAdvect)
	g.AdvectVelocity()
	g.CopyVelocity()
	g.AdvectTemperature()
	g.CopyTemperature()

	mark(StageBoundaries)
	g.EnforceBoundaries()

	mark(StageTurbulence)
	g.AddTurbulence()
}
