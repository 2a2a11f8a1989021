package systems

import (
	"math/rand"

	"github.com/pthm-cable/protosoup/components"
	"github.com/pthm-cable/protosoup/config"
)

// Bias is a vesicle phenotype: the average bias scores of the monomers it owns.
type Bias struct {
	Absorption float32
	Division   float32
	Attraction float32
	Repulsion  float32
}

// VesicleSystem runs absorption, competition, division and pairwise forces.
// Every pass visits vesicles in ascending index order and draws from a single rng,
// so a run is reproducible from its seed.
type VesicleSystem struct {
	rng *rand.Rand

	width       float32 // radius unit: radii are divided by this to get domain units
	deathRadius float32

	// Absorption
	rateMin, rateMax   float32
	growthPerMonomer   float32
	growthFactor       float32
	offsetScale        float32
	rejectionRepulsion float32
	hBias              float32
	defaultBias        float32

	// Competition
	biasBase             float32
	resistanceMultiplier float32
	transferFraction     float32
	growthEfficiency     float32
	moveRate             int

	// Division
	sizeMin, twoWayMax, threeWayMax float32
	mechanicalProbability           float32
	offsetRadius                    float32
	velocityInheritance             float32
	pushStrength                    float32

	// Interaction
	interactionRange   float32
	ambientPressure    float32
	attractionMultiple float32
	repulsionMultiple  float32

	monomerIndex *SpatialGrid

	// Scratch reused across steps.
	candidates []int32
	vesicles   []int
	freeSlots  []int
	members    []int
	biases     []Bias
	biasCounts []int32

	// Events accumulated since the last TakeEvents.
	events Events
}

// NewVesicleSystem creates a vesicle system from cfg.
func NewVesicleSystem(cfg *config.Config, rng *rand.Rand) *VesicleSystem {
	width := cfg.Derived.Width32
	if width <= 0 {
		width = 1
	}
	a := cfg.Absorption
	c := cfg.Competition
	d := cfg.Division
	in := cfg.Interaction

	// Only non-full vesicles absorb, so the absorption radius never exceeds the division size
	// by more than one growth increment.
	cellSize := float32(d.SizeMin) / width
	if cellSize <= 0 {
		cellSize = 0.05
	}

	return &VesicleSystem{
		rng:         rng,
		width:       width,
		deathRadius: float32(cfg.Vesicle.DeathRadius),

		rateMin:            float32(a.RateMin),
		rateMax:            float32(a.RateMax),
		growthPerMonomer:   float32(a.GrowthPerMonomer),
		growthFactor:       float32(a.GrowthFactor),
		offsetScale:        float32(a.OffsetScale),
		rejectionRepulsion: float32(a.RejectionRepulsion),
		hBias:              float32(a.HorizontalForceBias),
		defaultBias:        float32(a.DefaultBias),

		biasBase:             float32(c.AbsorptionBiasBase),
		resistanceMultiplier: float32(c.ResistanceMultiplier),
		transferFraction:     float32(c.TransferSizeFraction),
		growthEfficiency:     float32(c.GrowthEfficiency),
		moveRate:             c.MonomerMoveRate,

		sizeMin:               float32(d.SizeMin),
		twoWayMax:             float32(d.TwoWayMax),
		threeWayMax:           float32(d.ThreeWayMax),
		mechanicalProbability: float32(d.MechanicalEventProbability),
		offsetRadius:          float32(d.OffsetRadius),
		velocityInheritance:   float32(d.VelocityInheritance),
		pushStrength:          float32(d.PushStrength),

		interactionRange:   float32(in.Range),
		ambientPressure:    float32(in.AmbientPressureStrength),
		attractionMultiple: float32(in.AttractionMultiplier),
		repulsionMultiple:  float32(in.RepulsionMultiplier),

		monomerIndex: NewSpatialGrid(cellSize),
	}
}

// TakeEvents returns the events accumulated since the previous call and resets them.
func (s *VesicleSystem) TakeEvents() Events {
	e := s.events
	s.events.Reset()
	return e
}

// isLive reports whether slot i is a vesicle at or above the death radius.
func (s *VesicleSystem) isLive(p *components.Particles, i int) bool {
	return p.Kind[i] == components.KindVesicle && p.Radius[i] >= s.deathRadius
}

// collectVesicles lists the vesicle slots, live or dead, in ascending order.
// Slot kinds never change inside the vesicle passes, so the list stays valid for one pass.
func (s *VesicleSystem) collectVesicles(p *components.Particles) []int {
	s.vesicles = s.vesicles[:0]
	for i := 0; i < p.Len(); i++ {
		if p.Kind[i] == components.KindVesicle {
			s.vesicles = append(s.vesicles, i)
		}
	}
	return s.vesicles
}

// normRadius converts a radius to domain units.
func (s *VesicleSystem) normRadius(r float32) float32 {
	return r / s.width
}

// randomOffset returns a uniformly random offset in a square of side scale.
func (s *VesicleSystem) randomOffset(scale float32) (float32, float32) {
	ox := (s.rng.Float32() - 0.5) * scale
	oy := (s.rng.Float32() - 0.5) * scale
	return ox, oy
}

// randomAbsorptionRate draws a fresh per-vesicle absorption probability.
func (s *VesicleSystem) randomAbsorptionRate() float32 {
	return s.rateMin + s.rng.Float32()*(s.rateMax-s.rateMin)
}

// AbsorbMonomers lets each live, non-full vesicle try to absorb the free monomers
// inside its radius. Rejected contacts push vesicle and monomer apart.
func (s *VesicleSystem) AbsorbMonomers(p *components.Particles) {
	s.monomerIndex.Clear()
	for m := 0; m < p.Len(); m++ {
		if p.Kind[m] == components.KindMonomer && p.Parent[m] == components.NoParent {
			s.monomerIndex.Insert(int32(m), p.X[m], p.Y[m])
		}
	}

	for v := 0; v < p.Len(); v++ {
		if !s.isLive(p, v) || p.Radius[v] >= p.RadiusThreshold[v] {
			continue
		}

		vx, vy := p.X[v], p.Y[v]
		rNorm := s.normRadius(p.Radius[v])

		s.candidates = s.monomerIndex.QueryRadiusInto(s.candidates[:0], vx, vy, rNorm)
		for _, idx := range s.candidates {
			m := int(idx)
			// Taken by an earlier vesicle this pass.
			if p.Parent[m] != components.NoParent {
				continue
			}
			dist := distance(vx, vy, p.X[m], p.Y[m])
			if dist >= rNorm {
				continue
			}

			if s.rng.Float32() < p.AbsorptionRate[v] {
				p.Parent[m] = int32(v)
				p.OffsetX[m], p.OffsetY[m] = s.randomOffset(s.growthFactor * rNorm)
				p.Radius[v] += s.growthPerMonomer
				p.MonomersEaten[v]++
				s.events.Absorptions++
				continue
			}

			s.events.Rejections++
			if dist <= 1e-4 {
				continue
			}
			dirX := (p.X[m] - vx) / dist
			dirY := (p.Y[m] - vy) / dist
			strength := s.rejectionRepulsion * (1 - dist/rNorm)

			p.VelX[v] -= dirX * strength * s.hBias
			p.VelY[v] -= dirY * strength
			p.VelX[m] += dirX * strength * s.hBias
			p.VelY[m] += dirY * strength
		}
	}
}

// UpdateAbsorbedMonomers slaves every parented monomer to its parent's position
// and stops it. A dead parent still provides its last position.
func (s *VesicleSystem) UpdateAbsorbedMonomers(p *components.Particles) {
	for m := 0; m < p.Len(); m++ {
		if p.Kind[m] != components.KindMonomer {
			continue
		}
		parent := p.Parent[m]
		if parent == components.NoParent || !p.ValidParent(parent) {
			continue
		}
		p.X[m] = p.X[parent] + p.OffsetX[m]*s.offsetScale
		p.Y[m] = p.Y[parent] + p.OffsetY[m]*s.offsetScale
		p.VelX[m] = 0
		p.VelY[m] = 0
	}
}

// PolymerizeMonomers is the polymerization stage of a step. No polymerization
// rule is defined yet, so it leaves the particles untouched.
func (s *VesicleSystem) PolymerizeMonomers(p *components.Particles) {}

// CalculateVesicleBias averages the bias scores of the monomers owned by v.
// A vesicle owning nothing gets the default bias on every score.
func (s *VesicleSystem) CalculateVesicleBias(p *components.Particles, v int) Bias {
	var sum Bias
	count := 0
	target := int32(v)
	for m, parent := range p.Parent {
		if parent != target || p.Kind[m] != components.KindMonomer {
			continue
		}
		sum.Absorption += p.AbsorptionBias[m]
		sum.Division += p.DivisionBias[m]
		sum.Attraction += p.AttractionBias[m]
		sum.Repulsion += p.RepulsionBias[m]
		count++
	}
	if count == 0 {
		return s.emptyBias()
	}
	n := float32(count)
	return Bias{
		Absorption: sum.Absorption / n,
		Division:   sum.Division / n,
		Attraction: sum.Attraction / n,
		Repulsion:  sum.Repulsion / n,
	}
}

// VesicleBiases computes the bias of every slot in one pass over the monomers.
// Entries for non-vesicles are meaningless. dst is reused when large enough.
func (s *VesicleSystem) VesicleBiases(p *components.Particles, dst []Bias) []Bias {
	n := p.Len()
	if cap(dst) < n {
		dst = make([]Bias, n)
	}
	dst = dst[:n]
	if cap(s.biasCounts) < n {
		s.biasCounts = make([]int32, n)
	}
	counts := s.biasCounts[:n]
	for i := range dst {
		dst[i] = Bias{}
		counts[i] = 0
	}

	for m, parent := range p.Parent {
		if parent == components.NoParent || p.Kind[m] != components.KindMonomer || int(parent) >= n {
			continue
		}
		b := &dst[parent]
		b.Absorption += p.AbsorptionBias[m]
		b.Division += p.DivisionBias[m]
		b.Attraction += p.AttractionBias[m]
		b.Repulsion += p.RepulsionBias[m]
		counts[parent]++
	}

	for i := range dst {
		if counts[i] == 0 {
			dst[i] = s.emptyBias()
			continue
		}
		c := float32(counts[i])
		dst[i].Absorption /= c
		dst[i].Division /= c
		dst[i].Attraction /= c
		dst[i].Repulsion /= c
	}
	return dst
}

func (s *VesicleSystem) emptyBias() Bias {
	d := s.defaultBias
	return Bias{Absorption: d, Division: d, Attraction: d, Repulsion: d}
}

// reparent moves up to limit monomers owned by from to to, in ascending index order,
// giving each a fresh offset of side scale. It returns how many moved.
func (s *VesicleSystem) reparent(p *components.Particles, from, to, limit int, scale float32) int {
	moved := 0
	src := int32(from)
	for m := 0; m < p.Len() && moved < limit; m++ {
		if p.Parent[m] != src || p.Kind[m] != components.KindMonomer {
			continue
		}
		p.Parent[m] = int32(to)
		p.OffsetX[m], p.OffsetY[m] = s.randomOffset(scale)
		moved++
	}
	return moved
}
