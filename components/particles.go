// Package components defines the particle arena and its per-particle data.
package components

// Kind identifies what a particle slot currently represents.
type Kind uint8

const (
	KindMonomer  Kind = iota // free chemical unit
	KindVesicle              // protocell that absorbs monomers
	KindAbsorbed             // reserved, never assigned by the current mechanics
)

func (k Kind) String() string {
	switch k {
	case KindMonomer:
		return "monomer"
	case KindVesicle:
		return "vesicle"
	case KindAbsorbed:
		return "absorbed"
	}
	return "unknown"
}

// NoParent marks a monomer that no vesicle owns.
const NoParent int32 = -1

// Color is a normalized RGB display color.
type Color struct {
	R, G, B float32
}

// Scale multiplies every channel by f.
func (c Color) Scale(f float32) Color {
	return Color{R: c.R * f, G: c.G * f, B: c.B * f}
}

// Particles is a fixed-size arena of particles in SoA layout.
// The slot index is the particle's identity: slots are never reallocated,
// only relabeled or recycled (dead vesicles). Cross references between
// particles (Parent) are plain indices.
type Particles struct {
	// Shared state
	X, Y       []float32 // normalized position in [0,1]²
	VelX, VelY []float32
	Mass       []float32 // [0.5, 2.0]
	Temp       []float32 // [-0.5, 1.0]
	Kind       []Kind
	Color      []Color // derived, recomputed every step

	// Monomer state
	MonomerType    []uint8
	Chemical       []ChemicalProperty
	AbsorptionBias []float32 // immutable after creation
	DivisionBias   []float32
	AttractionBias []float32
	RepulsionBias  []float32
	Parent         []int32   // owning vesicle index or NoParent (weak reference)
	OffsetX        []float32 // position relative to parent, valid while parented
	OffsetY        []float32

	// Vesicle state
	Radius          []float32 // display-width pixels
	RadiusThreshold []float32 // absorption cap
	AbsorptionRate  []float32
	MonomersEaten   []int32
	PolymerLevel    []float32 // carried for statistics
	LifeTimer       []float32
	VolumeGrowth    []float32
}

// NewParticles allocates an arena of n particles, all monomers without a parent.
func NewParticles(n int) *Particles {
	p := &Particles{
		X:               make([]float32, n),
		Y:               make([]float32, n),
		VelX:            make([]float32, n),
		VelY:            make([]float32, n),
		Mass:            make([]float32, n),
		Temp:            make([]float32, n),
		Kind:            make([]Kind, n),
		Color:           make([]Color, n),
		MonomerType:     make([]uint8, n),
		Chemical:        make([]ChemicalProperty, n),
		AbsorptionBias:  make([]float32, n),
		DivisionBias:    make([]float32, n),
		AttractionBias:  make([]float32, n),
		RepulsionBias:   make([]float32, n),
		Parent:          make([]int32, n),
		OffsetX:         make([]float32, n),
		OffsetY:         make([]float32, n),
		Radius:          make([]float32, n),
		RadiusThreshold: make([]float32, n),
		AbsorptionRate:  make([]float32, n),
		MonomersEaten:   make([]int32, n),
		PolymerLevel:    make([]float32, n),
		LifeTimer:       make([]float32, n),
		VolumeGrowth:    make([]float32, n),
	}
	for i := range p.Parent {
		p.Parent[i] = NoParent
	}
	return p
}

// Len returns the fixed number of slots.
func (p *Particles) Len() int {
	return len(p.X)
}

// IsMonomer reports whether slot i is a monomer.
func (p *Particles) IsMonomer(i int) bool {
	return p.Kind[i] == KindMonomer
}

// IsVesicle reports whether slot i is a vesicle, live or dead.
func (p *Particles) IsVesicle(i int) bool {
	return p.Kind[i] == KindVesicle
}

// IsLiveVesicle reports whether slot i is a vesicle at or above deathRadius.
func (p *Particles) IsLiveVesicle(i int, deathRadius float32) bool {
	return p.Kind[i] == KindVesicle && p.Radius[i] >= deathRadius
}

// IsDeadVesicle reports whether slot i is a vesicle slot free for reuse.
func (p *Particles) IsDeadVesicle(i int, deathRadius float32) bool {
	return p.Kind[i] == KindVesicle && p.Radius[i] < deathRadius
}

// IsParented reports whether monomer i is owned by a vesicle.
func (p *Particles) IsParented(i int) bool {
	return p.Kind[i] == KindMonomer && p.Parent[i] != NoParent
}

// ValidParent reports whether idx addresses a vesicle slot.
// Dead vesicles are still valid targets for reads.
func (p *Particles) ValidParent(idx int32) bool {
	return idx >= 0 && int(idx) < len(p.X) && p.Kind[idx] == KindVesicle
}

// CountOwned returns how many monomers currently reference vesicle v.
func (p *Particles) CountOwned(v int) int {
	n := 0
	for i, parent := range p.Parent {
		if parent == int32(v) && p.Kind[i] == KindMonomer {
			n++
		}
	}
	return n
}
