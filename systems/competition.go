package systems

import "github.com/pthm-cable/protosoup/components"

// VesicleCompetition lets overlapping live vesicles take monomers and size from each other.
// Every ordered pair is checked, so within one step i may absorb from j and later j from i.
// Radii, liveness and biases are read fresh for each pair.
func (s *VesicleSystem) VesicleCompetition(p *components.Particles) {
	vesicles := s.collectVesicles(p)
	for _, i := range vesicles {
		for _, j := range vesicles {
			if !s.isLive(p, i) {
				break
			}
			if j == i || !s.isLive(p, j) {
				continue
			}
			s.compete(p, i, j)
		}
	}
}

// compete resolves one ordered pair: i absorbs from j if it dominates.
func (s *VesicleSystem) compete(p *components.Particles, i, j int) {
	ri, rj := p.Radius[i], p.Radius[j]
	dist := distance(p.X[i], p.Y[i], p.X[j], p.Y[j])
	if dist >= s.normRadius(ri+rj) {
		return
	}

	bi := s.CalculateVesicleBias(p, i)
	bj := s.CalculateVesicleBias(p, j)

	effI := ri * (s.biasBase + bi.Absorption)
	effJ := rj * (s.biasBase + bj.Absorption) * (1 + bj.Repulsion*s.resistanceMultiplier)
	if effI <= effJ {
		return
	}

	moved := s.reparent(p, j, i, s.moveRate, s.growthFactor*s.normRadius(ri))

	transfer := rj * s.transferFraction
	if limit := s.growthPerMonomer * float32(s.moveRate); limit < transfer {
		transfer = limit
	}
	p.Radius[j] -= transfer
	p.Radius[i] += transfer * s.growthEfficiency

	p.MonomersEaten[i] += int32(moved)
	p.MonomersEaten[j] -= int32(moved)
	if p.MonomersEaten[j] < 0 {
		p.MonomersEaten[j] = 0
	}

	s.events.CompetitionWins++
	s.events.MonomersTransferred += moved
}
