package systems

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/protosoup/components"
)

// divisionArena builds a dividing vesicle at slot 0 owning `owned` monomers,
// followed by `free` dead vesicle slots and then the monomers.
func divisionArena(radius float32, free, owned int) *components.Particles {
	p := components.NewParticles(1 + free + owned)
	placeVesicle(p, 0, 0.5, 0.5, radius)
	p.VelX[0], p.VelY[0] = 0.02, -0.01
	for i := 1; i <= free; i++ {
		placeVesicle(p, i, 0.1, 0.1, 0)
	}
	for m := 1 + free; m < p.Len(); m++ {
		placeMonomer(p, m, 0.5, 0.5)
		p.DivisionBias[m] = 1
		p.RepulsionBias[m] = 0.5
		own(p, 0, m)
	}
	return p
}

func TestChildCount(t *testing.T) {
	s, _ := newTestVesicles(t, 1)
	tests := []struct {
		radius float32
		want   int
	}{
		{50, 2},
		{59.9, 2},
		{60, 3},
		{69.9, 3},
		{70, 4},
		{120, 4},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, s.childCount(tt.radius), "radius %v", tt.radius)
	}
}

func TestDivisionConservesArea(t *testing.T) {
	for k := 2; k <= 4; k++ {
		r := float32(64)
		child := r / float32(math.Sqrt(float64(k)))
		assert.InDelta(t, r*r, float32(k)*child*child, 1e-2, "k=%d", k)
	}
}

func TestVesicleDivisionTwoWay(t *testing.T) {
	s, cfg := newTestVesicles(t, 1)
	s.mechanicalProbability = 1
	p := divisionArena(55, 1, 7)

	s.VesicleDivision(p)

	childR := float32(55 / math.Sqrt(2))
	assert.InDelta(t, childR, p.Radius[0], 1e-4)
	assert.InDelta(t, childR, p.Radius[1], 1e-4)

	// 7 monomers over 2 daughters: floor share 3 moves, the remainder stays.
	assert.Equal(t, int32(3), p.MonomersEaten[1])
	assert.Equal(t, int32(4), p.MonomersEaten[0])
	assert.Equal(t, 3, p.CountOwned(1))
	assert.Equal(t, 4, p.CountOwned(0))

	// Daughters sit on opposite sides of the pre-division center.
	d := distance(p.X[0], p.Y[0], p.X[1], p.Y[1])
	assert.InDelta(t, 2*cfg.Division.OffsetRadius, d, 1e-4)
	assert.InDelta(t, 0.5, (p.X[0]+p.X[1])/2, 1e-5)
	assert.InDelta(t, 0.5, (p.Y[0]+p.Y[1])/2, 1e-5)

	assert.Equal(t, float32(cfg.Division.SizeMin), p.RadiusThreshold[1])
	assert.GreaterOrEqual(t, p.AbsorptionRate[1], float32(cfg.Absorption.RateMin))
	assert.LessOrEqual(t, p.AbsorptionRate[1], float32(cfg.Absorption.RateMax))

	ev := s.TakeEvents()
	assert.Equal(t, 1, ev.Divisions)
	assert.Equal(t, 1, ev.ChildrenCreated)
}

func TestVesicleDivisionPushesSiblingsApart(t *testing.T) {
	s, _ := newTestVesicles(t, 1)
	s.mechanicalProbability = 1
	p := divisionArena(55, 1, 4)
	p.VelX[0], p.VelY[0] = 0, 0

	s.VesicleDivision(p)

	// Relative velocity points along the separation, outward.
	dx := p.X[1] - p.X[0]
	dy := p.Y[1] - p.Y[0]
	dvx := p.VelX[1] - p.VelX[0]
	dvy := p.VelY[1] - p.VelY[0]
	assert.Greater(t, dx*dvx+dy*dvy, float32(0))
}

func TestVesicleDivisionFourWay(t *testing.T) {
	s, _ := newTestVesicles(t, 1)
	s.mechanicalProbability = 1
	p := divisionArena(80, 3, 9)

	s.VesicleDivision(p)

	var area float32
	for i := 0; i < 4; i++ {
		assert.InDelta(t, 40, p.Radius[i], 1e-4)
		area += p.Radius[i] * p.Radius[i]
	}
	assert.InDelta(t, 80*80, area, 1e-1)

	var eaten int32
	for i := 0; i < 4; i++ {
		eaten += p.MonomersEaten[i]
		assert.Equal(t, int(p.MonomersEaten[i]), p.CountOwned(i))
	}
	assert.Equal(t, int32(9), eaten)
	assert.Equal(t, int32(3), p.MonomersEaten[0], "parent keeps share plus remainder")
	assert.Equal(t, 3, s.TakeEvents().ChildrenCreated)
}

func TestVesicleDivisionStarvesWithoutSlots(t *testing.T) {
	s, _ := newTestVesicles(t, 1)
	s.mechanicalProbability = 1
	p := divisionArena(65, 1, 4) // 3-way needs two free slots

	s.VesicleDivision(p)

	assert.Equal(t, float32(65), p.Radius[0])
	assert.Equal(t, float32(0), p.Radius[1])
	assert.Equal(t, 4, p.CountOwned(0))

	ev := s.TakeEvents()
	assert.Equal(t, 0, ev.Divisions)
	assert.Equal(t, 1, ev.StarvedDivisions)
}

func TestVesicleDivisionRequiresSize(t *testing.T) {
	s, _ := newTestVesicles(t, 1)
	s.mechanicalProbability = 1
	p := divisionArena(49, 1, 4)

	s.VesicleDivision(p)

	assert.Equal(t, float32(49), p.Radius[0])
	assert.Equal(t, Events{}, s.TakeEvents())
}

func TestVesicleDivisionNeverWithZeroProbability(t *testing.T) {
	s, _ := newTestVesicles(t, 1)
	s.mechanicalProbability = 0
	p := divisionArena(55, 1, 4)

	for i := 0; i < 100; i++ {
		s.VesicleDivision(p)
	}

	assert.Equal(t, float32(55), p.Radius[0])
}

func TestVesicleDivisionReusesDeadSlotWithStaleMonomers(t *testing.T) {
	s, _ := newTestVesicles(t, 1)
	s.mechanicalProbability = 1
	p := divisionArena(55, 1, 4)
	// A leftover monomer still parented to the dead slot.
	extra := components.NewParticles(p.Len() + 1)
	copyArena(extra, p)
	last := extra.Len() - 1
	placeMonomer(extra, last, 0.1, 0.1)
	extra.Parent[last] = 1

	s.VesicleDivision(extra)

	require.True(t, extra.IsLiveVesicle(1, s.deathRadius))
	assert.Equal(t, int32(1), extra.Parent[last], "stale reference is not cleaned up")
	assert.Equal(t, 3, extra.CountOwned(1))
	assert.Equal(t, int32(2), extra.MonomersEaten[1])
}

// copyArena copies every slot of src into the first slots of dst.
func copyArena(dst, src *components.Particles) {
	copy(dst.X, src.X)
	copy(dst.Y, src.Y)
	copy(dst.VelX, src.VelX)
	copy(dst.VelY, src.VelY)
	copy(dst.Mass, src.Mass)
	copy(dst.Temp, src.Temp)
	copy(dst.Kind, src.Kind)
	copy(dst.AbsorptionBias, src.AbsorptionBias)
	copy(dst.DivisionBias, src.DivisionBias)
	copy(dst.AttractionBias, src.AttractionBias)
	copy(dst.RepulsionBias, src.RepulsionBias)
	copy(dst.Parent, src.Parent)
	copy(dst.Radius, src.Radius)
	copy(dst.RadiusThreshold, src.RadiusThreshold)
	copy(dst.AbsorptionRate, src.AbsorptionRate)
	copy(dst.MonomersEaten, src.MonomersEaten)
}
