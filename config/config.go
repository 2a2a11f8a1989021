// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen      ScreenConfig      `yaml:"screen"`
	Grid        GridConfig        `yaml:"grid"`
	Particles   ParticlesConfig   `yaml:"particles"`
	Monomer     MonomerConfig     `yaml:"monomer"`
	Vesicle     VesicleConfig     `yaml:"vesicle"`
	Absorption  AbsorptionConfig  `yaml:"absorption"`
	Competition CompetitionConfig `yaml:"competition"`
	Division    DivisionConfig    `yaml:"division"`
	Interaction InteractionConfig `yaml:"interaction"`
	Simulation  SimulationConfig  `yaml:"simulation"`
	Telemetry   TelemetryConfig   `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
// Width is also the unit vesicle radii are expressed in (pixels of the display width).
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// GridConfig holds the Eulerian fluid solver parameters.
type GridConfig struct {
	Size               int     `yaml:"size"` // N for the N×N cell grid
	DT                 float64 `yaml:"dt"`
	Buoyancy           float64 `yaml:"buoyancy"`
	Viscosity          float64 `yaml:"viscosity"` // velocity retention on advection write (<1)
	Diffusion          float64 `yaml:"diffusion"` // temperature decay per step (<1)
	HeatSourceStrength float64 `yaml:"heat_source_strength"`
	CoolingStrength    float64 `yaml:"cooling_strength"`
	AmbientTemp        float64 `yaml:"ambient_temp"`
	MaxVelocity        float64 `yaml:"max_velocity"`        // per-cell velocity magnitude cap
	TurbulenceChance   float64 `yaml:"turbulence_chance"`   // per-cell probability per step
	TurbulenceStrength float64 `yaml:"turbulence_strength"` // impulse range per axis
}

// ParticlesConfig holds population and shared thermal parameters.
type ParticlesConfig struct {
	Count             int     `yaml:"count"`
	VesiclePercentage float64 `yaml:"vesicle_percentage"`
	HeatingZoneHeight float64 `yaml:"heating_zone_height"` // particles below this heat up
	CoolingZoneHeight float64 `yaml:"cooling_zone_height"` // particles above this cool down
	HeatingRate       float64 `yaml:"heating_rate"`
	CoolingRate       float64 `yaml:"cooling_rate"`
}

// MonomerConfig holds free monomer kinematics.
type MonomerConfig struct {
	Buoyancy                    float64 `yaml:"buoyancy"`
	Gravity                     float64 `yaml:"gravity"`
	Damping                     float64 `yaml:"damping"`
	FluidCoupling               float64 `yaml:"fluid_coupling"`
	HorizontalDrift             float64 `yaml:"horizontal_drift"`
	MaxVelocity                 float64 `yaml:"max_velocity"`
	BrownianStrength            float64 `yaml:"brownian_strength"`
	BrownianAnisotropy          float64 `yaml:"brownian_anisotropy"` // horizontal:vertical kick ratio
	BoundaryDampeningHorizontal float64 `yaml:"boundary_dampening_horizontal"`
	BoundaryDampeningVertical   float64 `yaml:"boundary_dampening_vertical"`
}

// VesicleConfig holds vesicle geometry and kinematics.
type VesicleConfig struct {
	MinRadius                   float64 `yaml:"min_radius"`
	MaxRadius                   float64 `yaml:"max_radius"`
	DeathRadius                 float64 `yaml:"death_radius"`
	Buoyancy                    float64 `yaml:"buoyancy"`
	Gravity                     float64 `yaml:"gravity"`
	Damping                     float64 `yaml:"damping"`
	FluidCoupling               float64 `yaml:"fluid_coupling"`
	HorizontalDrift             float64 `yaml:"horizontal_drift"`
	BrownianHorizontal          float64 `yaml:"brownian_horizontal"`
	BrownianVertical            float64 `yaml:"brownian_vertical"`
	MaxVelocity                 float64 `yaml:"max_velocity"`
	EdgeRepulsionMargin         float64 `yaml:"edge_repulsion_margin"`
	EdgeRepulsionStrength       float64 `yaml:"edge_repulsion_strength"`
	SurfaceMarginBottom         float64 `yaml:"surface_margin_bottom"`
	SurfaceMarginTop            float64 `yaml:"surface_margin_top"`
	BoundaryDampeningHorizontal float64 `yaml:"boundary_dampening_horizontal"`
	BoundaryDampeningVertical   float64 `yaml:"boundary_dampening_vertical"`
}

// AbsorptionConfig holds monomer absorption parameters.
type AbsorptionConfig struct {
	RateMin             float64 `yaml:"rate_min"`
	RateMax             float64 `yaml:"rate_max"`
	GrowthPerMonomer    float64 `yaml:"growth_per_monomer"` // radius increase per absorbed monomer
	GrowthFactor        float64 `yaml:"growth_factor"`      // offset spread relative to radius
	OffsetScale         float64 `yaml:"offset_scale"`       // applied when slaving absorbed monomers
	RejectionRepulsion  float64 `yaml:"rejection_repulsion"`
	HorizontalForceBias float64 `yaml:"horizontal_force_bias"` // anisotropy multiplier for all vesicle impulses
	DefaultBias         float64 `yaml:"default_bias"`          // phenotype of an empty vesicle
}

// CompetitionConfig holds vesicle-vesicle absorption parameters.
type CompetitionConfig struct {
	AbsorptionBiasBase   float64 `yaml:"absorption_bias_base"`
	ResistanceMultiplier float64 `yaml:"resistance_multiplier"`
	TransferSizeFraction float64 `yaml:"transfer_size_fraction"`
	GrowthEfficiency     float64 `yaml:"growth_efficiency"`
	MonomerMoveRate      int     `yaml:"monomer_move_rate"`
}

// DivisionConfig holds vesicle division parameters.
type DivisionConfig struct {
	SizeMin                    float64 `yaml:"size_min"`
	TwoWayMax                  float64 `yaml:"two_way_max"`
	ThreeWayMax                float64 `yaml:"three_way_max"`
	MechanicalEventProbability float64 `yaml:"mechanical_event_probability"`
	OffsetRadius               float64 `yaml:"offset_radius"`
	VelocityInheritance        float64 `yaml:"velocity_inheritance"`
	PushStrength               float64 `yaml:"push_strength"`
}

// InteractionConfig holds pairwise vesicle force parameters.
type InteractionConfig struct {
	Range                   float64 `yaml:"range"`
	AmbientPressureStrength float64 `yaml:"ambient_pressure_strength"`
	AttractionMultiplier    float64 `yaml:"attraction_multiplier"`
	RepulsionMultiplier     float64 `yaml:"repulsion_multiplier"`
}

// SimulationConfig holds orchestration settings.
type SimulationConfig struct {
	Substeps int  `yaml:"substeps"` // steps per rendered frame
	Parallel bool `yaml:"parallel"` // parallelise rng-free grid passes
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow      int `yaml:"stats_window"` // ticks per stats window
	PerfLogInterval  int `yaml:"perf_log_interval"`
	PerfSampleWindow int `yaml:"perf_sample_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	NVesicles int     // int(Count * VesiclePercentage)
	NMonomers int     // Count - NVesicles
	CellSize  float32 // 1 / Grid.Size
	DT32      float32 // Grid.DT as float32
	Width32   float32 // Screen.Width as float32, radius unit conversion
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.ComputeDerived()

	return cfg, nil
}

// ComputeDerived recalculates values derived from the loaded config.
// Call it again after mutating fields programmatically.
func (c *Config) ComputeDerived() {
	c.Derived.NVesicles = int(float64(c.Particles.Count) * c.Particles.VesiclePercentage)
	c.Derived.NMonomers = c.Particles.Count - c.Derived.NVesicles
	if c.Grid.Size > 0 {
		c.Derived.CellSize = 1 / float32(c.Grid.Size)
	}
	c.Derived.DT32 = float32(c.Grid.DT)
	c.Derived.Width32 = float32(c.Screen.Width)
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
