package systems

import "github.com/pthm-cable/protosoup/components"

// VesicleInteractions applies composition-driven attraction and repulsion between
// live vesicles within range. Each ordered pair nudges only the first vesicle, so
// every pair is felt from both sides. Similar sizes add an ambient pressure repulsion.
func (s *VesicleSystem) VesicleInteractions(p *components.Particles) {
	// Composition does not change in this pass.
	s.biases = s.VesicleBiases(p, s.biases)

	vesicles := s.collectVesicles(p)
	for _, i := range vesicles {
		if !s.isLive(p, i) {
			continue
		}
		bi := s.biases[i]
		for _, j := range vesicles {
			if j == i || !s.isLive(p, j) {
				continue
			}
			dx := p.X[j] - p.X[i]
			dy := p.Y[j] - p.Y[i]
			dist := velocityMagnitude(dx, dy)
			if dist <= 1e-4 || dist >= s.interactionRange {
				continue
			}
			dx /= dist
			dy /= dist

			bj := s.biases[j]
			net := s.netForce(bi, bj, p.Radius[i], p.Radius[j])

			p.VelX[i] += dx * net * s.hBias
			p.VelY[i] += dy * net
		}
	}
}

// netForce returns the signed pair force: positive attracts, negative repels.
func (s *VesicleSystem) netForce(bi, bj Bias, ri, rj float32) float32 {
	small, large := ri, rj
	if small > large {
		small, large = large, small
	}
	sizeRatio := small / large

	attraction := (bi.Attraction + bj.Attraction) * s.attractionMultiple
	repulsion := (bi.Repulsion+bj.Repulsion)*s.repulsionMultiple + sizeRatio*s.ambientPressure
	return attraction - repulsion
}
