package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pthm-cable/protosoup/components"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the complete particle and grid state of a run at one tick.
type Snapshot struct {
	Version int   `json:"version"`
	RNGSeed int64 `json:"rng_seed"`
	Tick    int32 `json:"tick"`

	GridSize    int       `json:"grid_size"`
	VelocityU   []float32 `json:"velocity_u"`
	VelocityV   []float32 `json:"velocity_v"`
	Temperature []float32 `json:"temperature"`

	Particles []ParticleState `json:"particles"`

	// Set when the snapshot was triggered by a bookmark
	Bookmark *Bookmark `json:"bookmark,omitempty"`
}

// ParticleState holds one arena slot.
type ParticleState struct {
	X    float32         `json:"x"`
	Y    float32         `json:"y"`
	VelX float32         `json:"vel_x"`
	VelY float32         `json:"vel_y"`
	Mass float32         `json:"mass"`
	Temp float32         `json:"temp"`
	Kind components.Kind `json:"kind"`

	MonomerType    uint8                       `json:"monomer_type,omitempty"`
	Chemical       components.ChemicalProperty `json:"chemical,omitempty"`
	AbsorptionBias float32                     `json:"absorption_bias,omitempty"`
	DivisionBias   float32                     `json:"division_bias,omitempty"`
	AttractionBias float32                     `json:"attraction_bias,omitempty"`
	RepulsionBias  float32                     `json:"repulsion_bias,omitempty"`
	Parent         int32                       `json:"parent"`
	OffsetX        float32                     `json:"offset_x,omitempty"`
	OffsetY        float32                     `json:"offset_y,omitempty"`

	Radius          float32 `json:"radius,omitempty"`
	RadiusThreshold float32 `json:"radius_threshold,omitempty"`
	AbsorptionRate  float32 `json:"absorption_rate,omitempty"`
	MonomersEaten   int32   `json:"monomers_eaten,omitempty"`
	PolymerLevel    float32 `json:"polymer_level,omitempty"`
	LifeTimer       float32 `json:"life_timer,omitempty"`
	VolumeGrowth    float32 `json:"volume_growth,omitempty"`
}

// SaveSnapshot writes snapshot_<tick>.json, or snapshot_<tick>_<bookmark>.json,
// into dir and returns its path.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("snapshot_%d", snapshot.Tick)
	if snapshot.Bookmark != nil {
		name += "_" + string(snapshot.Bookmark.Type)
	}
	path := filepath.Join(dir, name+".json")
	data, err := json.Marshal(snapshot)
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &snapshot, nil
}
