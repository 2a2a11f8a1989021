package telemetry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/protosoup/components"
)

func TestSnapshotSaveLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "snaps")
	snapshot := &Snapshot{
		Version:     SnapshotVersion,
		RNGSeed:     42,
		Tick:        1000,
		GridSize:    2,
		VelocityU:   []float32{0.1, 0, 0, -0.2},
		VelocityV:   []float32{0, 0.3, 0, 0},
		Temperature: []float32{1, 0.5, 0, -0.5},
		Particles: []ParticleState{
			{X: 0.4, Y: 0.6, Kind: components.KindVesicle, Parent: components.NoParent, Radius: 42, MonomersEaten: 1},
			{X: 0.41, Y: 0.6, Kind: components.KindMonomer, Chemical: components.ChemRepel, Parent: 0, OffsetX: 0.01},
		},
	}

	path, err := SaveSnapshot(snapshot, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "snapshot_1000.json"), path)

	loaded, err := LoadSnapshot(path)
	require.NoError(t, err)
	assert.Equal(t, snapshot, loaded)
}

func TestSnapshotBookmarkFilename(t *testing.T) {
	dir := t.TempDir()
	snapshot := &Snapshot{
		Version:  SnapshotVersion,
		Tick:     250,
		Bookmark: &Bookmark{Type: BookmarkVesicleCrash, Tick: 250},
	}

	path, err := SaveSnapshot(snapshot, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "snapshot_250_vesicle_crash.json"), path)

	loaded, err := LoadSnapshot(path)
	require.NoError(t, err)
	require.NotNil(t, loaded.Bookmark)
	assert.Equal(t, BookmarkVesicleCrash, loaded.Bookmark.Type)
}

func TestLoadSnapshotErrors(t *testing.T) {
	_, err := LoadSnapshot(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0644))
	_, err = LoadSnapshot(bad)
	assert.Error(t, err)
}
