package systems

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/protosoup/config"
)

func newTestGrid(t *testing.T, n int, seed int64) *FluidGrid {
	t.Helper()
	cfg := config.Default()
	cfg.Grid.Size = n
	cfg.ComputeDerived()
	return NewFluidGrid(cfg, rand.New(rand.NewSource(seed)))
}

func fillRandom(rng *rand.Rand, field []float32, lo, hi float32) {
	for i := range field {
		field[i] = lo + rng.Float32()*(hi-lo)
	}
}

func TestFluidGridCreation(t *testing.T) {
	g := newTestGrid(t, 32, 1)

	require.Len(t, g.U, 32*32)
	require.Len(t, g.Pressure, 32*32)
	assert.InDelta(t, 1.0/32, g.CellSize, 1e-7)
	for i := range g.Temp {
		if g.Temp[i] != 0 || g.U[i] != 0 || g.V[i] != 0 {
			t.Fatalf("expected zeroed grid, cell %d not zero", i)
		}
	}
}

func TestSampleBilinearExactAtCellCenters(t *testing.T) {
	g := newTestGrid(t, 16, 1)
	fillRandom(rand.New(rand.NewSource(7)), g.Temp, -0.5, 1.0)

	for j := 0; j < g.N; j++ {
		for i := 0; i < g.N; i++ {
			x, y := g.CellCenter(i, j)
			got := g.SampleBilinear(g.Temp, x, y)
			assert.InDelta(t, g.Temp[g.Index(i, j)], got, 1e-5, "cell (%d,%d)", i, j)
		}
	}
}

func TestSampleBilinearMidpoint(t *testing.T) {
	g := newTestGrid(t, 8, 1)
	g.Temp[g.Index(2, 3)] = 0
	g.Temp[g.Index(3, 3)] = 1

	x0, y := g.CellCenter(2, 3)
	x1, _ := g.CellCenter(3, 3)
	got := g.SampleBilinear(g.Temp, (x0+x1)/2, y)
	assert.InDelta(t, 0.5, got, 1e-5)
}

func TestSampleBilinearOutsideReturnsEdgeValue(t *testing.T) {
	g := newTestGrid(t, 8, 1)
	g.Temp[g.Index(0, 0)] = 0.7
	g.Temp[g.Index(1, 0)] = 0.1
	g.Temp[g.Index(0, 1)] = 0.2
	g.Temp[g.Index(7, 7)] = -0.3
	g.Temp[g.Index(6, 7)] = 0.4

	// The outer half cell holds the edge value instead of blending toward
	// the next cell in.
	assert.InDelta(t, 0.7, g.SampleBilinear(g.Temp, 0, 0), 1e-6)
	assert.InDelta(t, 0.7, g.SampleBilinear(g.Temp, 0.01, 0.01), 1e-6)
	assert.InDelta(t, -0.3, g.SampleBilinear(g.Temp, 1, 1), 1e-6)
}

func TestGridStepStageOrder(t *testing.T) {
	g := newTestGrid(t, 16, 1)

	var stages []string
	g.Step(func(stage string) { stages = append(stages, stage) })

	assert.Equal(t, []string{StageHeat, StageBuoyancy, StageAdvect, StageBoundaries, StageTurbulence}, stages)
}

func TestGridStepMatchesManualPasses(t *testing.T) {
	a := newTestGrid(t, 16, 9)
	b := newTestGrid(t, 16, 9)

	for step := 0; step < 10; step++ {
		a.Step(nil)

		b.ApplyHeatSources()
		b.ApplyBuoyancy()
		b.AdvectVelocity()
		b.CopyVelocity()
		b.AdvectTemperature()
		b.CopyTemperature()
		b.EnforceBoundaries()
		b.AddTurbulence()
	}

	assert.Equal(t, b.Temp, a.Temp)
	assert.Equal(t, b.U, a.U)
	assert.Equal(t, b.V, a.V)
}

func TestApplyHeatSourcesClampsTemperature(t *testing.T) {
	g := newTestGrid(t, 32, 1)
	fillRandom(rand.New(rand.NewSource(3)), g.Temp, -5, 5)

	g.ApplyHeatSources()

	for i, v := range g.Temp {
		if v < MinTemp || v > MaxTemp {
			t.Errorf("cell %d: expected temperature in [%v, %v], got %v", i, MinTemp, MaxTemp, v)
		}
	}
}

func TestApplyHeatSourcesVentPattern(t *testing.T) {
	g := newTestGrid(t, 32, 1)
	g.ApplyHeatSources()

	// Column 0 is a vent, column 3 matches none of the periodicities.
	assert.Greater(t, g.Temp[g.Index(0, 0)], float32(0), "vent cell should heat")
	assert.Equal(t, float32(0), g.Temp[g.Index(3, 0)], "non-vent cell should stay at zero")

	// Depth falloff: deeper rows heat more.
	assert.Greater(t, g.Temp[g.Index(0, 0)], g.Temp[g.Index(0, 4)])
	// Outside both bands nothing happens from a zero start.
	assert.Equal(t, float32(0), g.Temp[g.Index(0, 16)])

	// Top band cools column 0 (0%7 < 3).
	assert.Less(t, g.Temp[g.Index(0, g.N-1)], float32(0))
}

func TestApplyHeatSourcesDecay(t *testing.T) {
	g := newTestGrid(t, 32, 1)
	idx := g.Index(3, 16)
	g.Temp[idx] = 0.8

	g.ApplyHeatSources()

	assert.InDelta(t, 0.8*g.Diffusion, g.Temp[idx], 1e-6)
}

func TestApplyBuoyancy(t *testing.T) {
	g := newTestGrid(t, 16, 1)
	warm := g.Index(5, 5)
	cool := g.Index(6, 5)
	g.Temp[warm] = 1
	g.Temp[cool] = -0.5

	g.ApplyBuoyancy()

	assert.InDelta(t, 1*g.Buoyancy*g.DT, g.V[warm], 1e-6)
	assert.Less(t, g.V[cool], float32(0))
	assert.Equal(t, float32(0), g.U[warm])
}

func TestApplyBuoyancyCapsVelocity(t *testing.T) {
	g := newTestGrid(t, 16, 1)
	idx := g.Index(4, 4)
	g.U[idx] = 3
	g.V[idx] = 4

	g.ApplyBuoyancy()

	assert.InDelta(t, g.MaxVelocity, velocityMagnitude(g.U[idx], g.V[idx]), 1e-5)
}

func TestEnforceBoundaries(t *testing.T) {
	g := newTestGrid(t, 32, 1)
	rng := rand.New(rand.NewSource(11))
	fillRandom(rng, g.U, -3, 3)
	fillRandom(rng, g.V, -3, 3)

	g.EnforceBoundaries()

	n := g.N
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			idx := g.Index(i, j)
			mag := velocityMagnitude(g.U[idx], g.V[idx])
			if mag > g.MaxVelocity+1e-5 {
				t.Errorf("cell (%d,%d): expected magnitude <= %v, got %v", i, j, g.MaxVelocity, mag)
			}
			if (i == 0 || i == n-1) && g.U[idx] != 0 {
				t.Errorf("cell (%d,%d): expected zero horizontal velocity on side wall, got %v", i, j, g.U[idx])
			}
			if (j == 0 || j == n-1) && g.V[idx] != 0 {
				t.Errorf("cell (%d,%d): expected zero vertical velocity on floor/ceiling, got %v", i, j, g.V[idx])
			}
		}
	}
}

func TestAdvectTemperatureStillFluidIsIdentity(t *testing.T) {
	g := newTestGrid(t, 16, 1)
	fillRandom(rand.New(rand.NewSource(5)), g.Temp, -0.5, 1)
	before := append([]float32(nil), g.Temp...)

	g.AdvectTemperature()
	g.CopyTemperature()

	for i := range before {
		assert.InDelta(t, before[i], g.Temp[i], 1e-5)
	}
}

func TestAdvectVelocityAppliesViscosity(t *testing.T) {
	g := newTestGrid(t, 16, 1)
	for i := range g.U {
		g.U[i] = 0.1
	}

	g.AdvectVelocity()
	// Live buffer is untouched until the copy pass.
	assert.Equal(t, float32(0.1), g.U[0])

	g.CopyVelocity()
	for i := range g.U {
		assert.InDelta(t, 0.1*g.Viscosity, g.U[i], 1e-6)
	}
}

func TestAdvectTemperatureTransportsUpward(t *testing.T) {
	g := newTestGrid(t, 16, 1)
	src := g.Index(8, 4)
	dst := g.Index(8, 5)
	g.Temp[src] = 1
	// One cell per step straight up.
	for i := range g.V {
		g.V[i] = g.CellSize / g.DT
	}

	g.AdvectTemperature()
	g.CopyTemperature()

	assert.InDelta(t, 1, g.Temp[dst], 1e-3)
	assert.InDelta(t, 0, g.Temp[src], 1e-3)
}

func TestAddTurbulenceDeterministic(t *testing.T) {
	a := newTestGrid(t, 64, 99)
	b := newTestGrid(t, 64, 99)

	a.AddTurbulence()
	b.AddTurbulence()

	assert.Equal(t, a.U, b.U)
	assert.Equal(t, a.V, b.V)

	kicked := 0
	for i := range a.U {
		if a.U[i] != 0 || a.V[i] != 0 {
			kicked++
			half := a.TurbulenceStrength / 2
			assert.LessOrEqual(t, a.U[i], half)
			assert.GreaterOrEqual(t, a.U[i], -half)
		}
	}
	assert.Greater(t, kicked, 0, "expected some cells to receive turbulence")
	assert.Less(t, kicked, len(a.U)/10)
}

func TestParallelGridPassesMatchSequential(t *testing.T) {
	seq := newTestGrid(t, 64, 42)
	par := newTestGrid(t, 64, 42)
	par.Parallel = true

	for step := 0; step < 20; step++ {
		seq.Step(nil)
		par.Step(nil)
	}

	assert.Equal(t, seq.Temp, par.Temp)
	assert.Equal(t, seq.U, par.U)
	assert.Equal(t, seq.V, par.V)
}

func TestGridStepKeepsInvariants(t *testing.T) {
	g := newTestGrid(t, 32, 8)
	for step := 0; step < 200; step++ {
		g.Step(nil)
	}

	for i := range g.Temp {
		if g.Temp[i] < MinTemp || g.Temp[i] > MaxTemp {
			t.Fatalf("cell %d: temperature %v out of range", i, g.Temp[i])
		}
	}
	// Heat rises: the vent band should drive upward flow somewhere.
	maxV := float32(0)
	for _, v := range g.V {
		if v > maxV {
			maxV = v
		}
	}
	assert.Greater(t, maxV, float32(0))
}
