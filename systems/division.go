package systems

import (
	"math"

	"github.com/pthm-cable/protosoup/components"
)

// childCount picks the number of daughters for a vesicle of radius r.
func (s *VesicleSystem) childCount(r float32) int {
	switch {
	case r < s.twoWayMax:
		return 2
	case r < s.threeWayMax:
		return 3
	default:
		return 4
	}
}

// findFreeSlots collects up to want dead vesicle slots other than exclude, ascending.
func (s *VesicleSystem) findFreeSlots(p *components.Particles, exclude, want int) []int {
	s.freeSlots = s.freeSlots[:0]
	for _, j := range s.collectVesicles(p) {
		if len(s.freeSlots) == want {
			break
		}
		if j != exclude && p.Radius[j] < s.deathRadius {
			s.freeSlots = append(s.freeSlots, j)
		}
	}
	return s.freeSlots
}

// VesicleDivision splits large vesicles into 2 to 4 daughters with probability
// divisionBias × mechanicalEventProbability. Daughters reuse dead vesicle slots;
// a division without enough free slots is skipped for this step.
func (s *VesicleSystem) VesicleDivision(p *components.Particles) {
	for i := 0; i < p.Len(); i++ {
		if !s.isLive(p, i) || p.Radius[i] < s.sizeMin {
			continue
		}

		bias := s.CalculateVesicleBias(p, i)
		if s.rng.Float32() >= bias.Division*s.mechanicalProbability {
			continue
		}

		k := s.childCount(p.Radius[i])
		slots := s.findFreeSlots(p, i, k-1)
		if len(slots) < k-1 {
			s.events.StarvedDivisions++
			continue
		}

		s.members = append(s.members[:0], i)
		s.members = append(s.members, slots...)
		s.divide(p, s.members)
	}
}

// divide splits members[0] into len(members) vesicles. members[0] keeps its slot as
// the first daughter and the rest are dead slots being recycled.
func (s *VesicleSystem) divide(p *components.Particles, members []int) {
	parent := members[0]
	k := len(members)

	parentR := p.Radius[parent]
	childR := parentR / float32(math.Sqrt(float64(k)))
	cx, cy := p.X[parent], p.Y[parent]
	vx, vy := p.VelX[parent], p.VelY[parent]

	phase := s.rng.Float64() * 2 * math.Pi
	for n, idx := range members {
		angle := phase + 2*math.Pi*float64(n)/float64(k)
		p.X[idx] = clamp01(cx + s.offsetRadius*float32(math.Cos(angle)))
		p.Y[idx] = clamp01(cy + s.offsetRadius*float32(math.Sin(angle)))
		p.Radius[idx] = childR

		if idx == parent {
			continue
		}
		p.Kind[idx] = components.KindVesicle
		p.VelX[idx] = vx * s.velocityInheritance
		p.VelY[idx] = vy * s.velocityInheritance
		p.RadiusThreshold[idx] = s.sizeMin
		p.AbsorptionRate[idx] = s.randomAbsorptionRate()
		p.Color[idx] = components.VesicleColor
		p.PolymerLevel[idx] = 0
		p.LifeTimer[idx] = 0
		p.VolumeGrowth[idx] = 0
	}

	share := int(p.MonomersEaten[parent]) / k
	offsetSide := s.growthFactor * s.normRadius(childR)
	given := int32(0)
	for _, child := range members[1:] {
		moved := s.reparent(p, parent, child, share, offsetSide)
		p.MonomersEaten[child] = int32(moved)
		given += int32(moved)
	}
	p.MonomersEaten[parent] -= given

	s.pushApart(p, members, parentR)

	s.events.Divisions++
	s.events.ChildrenCreated += k - 1
}

// pushApart gives every sibling pair an equal and opposite impulse along their separation,
// scaled by the pre-division radius and the pair's combined repulsion bias.
func (s *VesicleSystem) pushApart(p *components.Particles, members []int, parentR float32) {
	rNorm := s.normRadius(parentR)
	base := rNorm * rNorm * s.pushStrength * 1.5

	for ai := 0; ai < len(members); ai++ {
		a := members[ai]
		ba := s.CalculateVesicleBias(p, a)
		for bi := ai + 1; bi < len(members); bi++ {
			b := members[bi]
			dx := p.X[b] - p.X[a]
			dy := p.Y[b] - p.Y[a]
			dist := velocityMagnitude(dx, dy)
			if dist <= 1e-4 {
				continue
			}
			dx /= dist
			dy /= dist

			bb := s.CalculateVesicleBias(p, b)
			push := base * (ba.Repulsion + bb.Repulsion)

			p.VelX[a] -= dx * push * s.hBias
			p.VelY[a] -= dy * push
			p.VelX[b] += dx * push * s.hBias
			p.VelY[b] += dy * push
		}
	}
}
