// Package main tunes vesicle parameters with CMA-ES so that headless runs
// keep dividing instead of collapsing into a few dead vesicles.
package main

import (
	"github.com/pthm-cable/protosoup/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value

	field func(*config.Config) *float64
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Absorption
			{Name: "absorption_rate_min", Path: "absorption.rate_min", Min: 0.001, Max: 0.02, Default: 0.005,
				field: func(c *config.Config) *float64 { return &c.Absorption.RateMin }},
			{Name: "absorption_rate_max", Path: "absorption.rate_max", Min: 0.02, Max: 0.2, Default: 0.05,
				field: func(c *config.Config) *float64 { return &c.Absorption.RateMax }},
			{Name: "growth_per_monomer", Path: "absorption.growth_per_monomer", Min: 0.02, Max: 0.2, Default: 0.08,
				field: func(c *config.Config) *float64 { return &c.Absorption.GrowthPerMonomer }},
			// Competition
			{Name: "resistance_multiplier", Path: "competition.resistance_multiplier", Min: 0.1, Max: 1.0, Default: 0.5,
				field: func(c *config.Config) *float64 { return &c.Competition.ResistanceMultiplier }},
			{Name: "transfer_size_fraction", Path: "competition.transfer_size_fraction", Min: 0.02, Max: 0.4, Default: 0.1,
				field: func(c *config.Config) *float64 { return &c.Competition.TransferSizeFraction }},
			// Division (size thresholds locked)
			{Name: "mechanical_event_prob", Path: "division.mechanical_event_probability", Min: 0.02, Max: 0.8, Default: 0.2,
				field: func(c *config.Config) *float64 { return &c.Division.MechanicalEventProbability }},
			{Name: "velocity_inheritance", Path: "division.velocity_inheritance", Min: 0.0, Max: 1.0, Default: 0.5,
				field: func(c *config.Config) *float64 { return &c.Division.VelocityInheritance }},
			// Interaction
			{Name: "ambient_pressure", Path: "interaction.ambient_pressure_strength", Min: 0.0, Max: 0.003, Default: 0.0008,
				field: func(c *config.Config) *float64 { return &c.Interaction.AmbientPressureStrength }},
			{Name: "attraction_multiplier", Path: "interaction.attraction_multiplier", Min: 0.0, Max: 0.001, Default: 0.0003,
				field: func(c *config.Config) *float64 { return &c.Interaction.AttractionMultiplier }},
			{Name: "repulsion_multiplier", Path: "interaction.repulsion_multiplier", Min: 0.0, Max: 0.002, Default: 0.0005,
				field: func(c *config.Config) *float64 { return &c.Interaction.RepulsionMultiplier }},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize maps raw values to [0,1] using each parameter's bounds.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig writes clamped parameter values into cfg.
// rate_max is raised to rate_min when the two cross.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)
	for i, spec := range pv.Specs {
		*spec.field(cfg) = clamped[i]
	}
	if cfg.Absorption.RateMax < cfg.Absorption.RateMin {
		cfg.Absorption.RateMax = cfg.Absorption.RateMin
	}
	cfg.ComputeDerived()
}

// ExtractFromConfig reads the current parameter values from cfg.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = *spec.field(cfg)
	}
	return v
}
