package components

// ChemicalProperty tags a monomer. It drives display color only.
type ChemicalProperty uint8

const (
	ChemNone ChemicalProperty = iota
	ChemAttach
	ChemSubtract
	ChemAttract
	ChemRepel
	ChemSplit
	ChemCombine
	ChemCopy
	ChemIncreasePh
	ChemDecreasePh
)

// NumChemicalProperties is the number of ChemicalProperty values.
const NumChemicalProperties = 10

// NumMonomerTypes is the number of monomer type tags (0-9).
const NumMonomerTypes = 10

var chemicalNames = [NumChemicalProperties]string{
	"none", "attach", "subtract", "attract", "repel",
	"split", "combine", "copy", "increase_ph", "decrease_ph",
}

func (c ChemicalProperty) String() string {
	if int(c) < len(chemicalNames) {
		return chemicalNames[c]
	}
	return "unknown"
}

// propertyColors is the base display color per chemical property.
var propertyColors = [NumChemicalProperties]Color{
	ChemNone:       {0.5, 0.5, 0.8},
	ChemAttach:     {0.0, 0.0, 1.0},
	ChemSubtract:   {0.0, 0.0, 0.0},
	ChemAttract:    {1.0, 0.41, 0.71},
	ChemRepel:      {0.5, 0.5, 0.0},
	ChemSplit:      {0.65, 0.16, 0.16},
	ChemCombine:    {0.5, 0.0, 0.5},
	ChemCopy:       {1.0, 0.0, 0.0},
	ChemIncreasePh: {1.0, 0.65, 0.0},
	ChemDecreasePh: {1.0, 1.0, 0.0},
}

// BaseColor returns the palette color for the property.
func (c ChemicalProperty) BaseColor() Color {
	if int(c) < len(propertyColors) {
		return propertyColors[c]
	}
	return propertyColors[ChemNone]
}

// VesicleColor is the fixed display color of vesicles.
var VesicleColor = Color{R: 0.2, G: 0.8, B: 0.8}
