package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pthm-cable/protosoup/systems"
)

func TestCollectorWindows(t *testing.T) {
	c := NewCollector(50, 0.016)

	assert.False(t, c.ShouldFlush(49))
	assert.True(t, c.ShouldFlush(50))

	c.Record(systems.Events{Absorptions: 3, Rejections: 1, Divisions: 1})
	c.Record(systems.Events{Absorptions: 1, ChildrenCreated: 2})
	assert.Equal(t, 4, c.Pending().Absorptions)

	stats := c.Flush(50, FrameStats{LiveVesicles: 7})

	assert.Equal(t, int32(0), stats.WindowStartTick)
	assert.Equal(t, int32(50), stats.WindowEndTick)
	assert.InDelta(t, 0.8, stats.SimTimeSec, 1e-6)
	assert.Equal(t, 7, stats.LiveVesicles)
	assert.Equal(t, 4, stats.Absorptions)
	assert.Equal(t, 2, stats.ChildrenCreated)
	assert.InDelta(t, 0.8, stats.AbsorptionAcceptRate, 1e-9)
	assert.InDelta(t, 20, stats.DivisionsPerKTick, 1e-9)

	// Next window starts where the last ended, with zeroed counters.
	assert.False(t, c.ShouldFlush(99))
	assert.True(t, c.ShouldFlush(100))
	assert.Equal(t, systems.Events{}, c.Pending())
	next := c.Flush(100, FrameStats{})
	assert.Equal(t, int32(50), next.WindowStartTick)
	assert.Zero(t, next.AbsorptionAcceptRate)
}

func TestCollectorMinimumWindow(t *testing.T) {
	c := NewCollector(0, 0.016)
	assert.Equal(t, int32(1), c.WindowDurationTicks())
	assert.True(t, c.ShouldFlush(1))
}

func TestCollectorReset(t *testing.T) {
	c := NewCollector(10, 0.016)
	c.Record(systems.Events{Divisions: 4})

	c.Reset(25)

	assert.Equal(t, systems.Events{}, c.Pending())
	assert.False(t, c.ShouldFlush(34))
	assert.True(t, c.ShouldFlush(35))
}
