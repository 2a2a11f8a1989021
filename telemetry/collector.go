package telemetry

import "github.com/pthm-cable/protosoup/systems"

// Collector accumulates vesicle events over fixed windows of ticks and produces WindowStats.
type Collector struct {
	windowTicks     int32
	dt              float32
	windowStartTick int32
	events          systems.Events
}

// NewCollector creates a collector that flushes every windowTicks ticks.
// dt is the simulated seconds per tick.
func NewCollector(windowTicks int, dt float32) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{
		windowTicks: int32(windowTicks),
		dt:          dt,
	}
}

// Record adds one step's events to the current window.
func (c *Collector) Record(ev systems.Events) {
	c.events.Add(ev)
}

// Pending returns the events accumulated since the last flush.
func (c *Collector) Pending() systems.Events {
	return c.events
}

// ShouldFlush reports whether the current window is complete at tick.
func (c *Collector) ShouldFlush(tick int32) bool {
	return tick-c.windowStartTick >= c.windowTicks
}

// Flush closes the window at tick with the given frame summary and starts the next one.
func (c *Collector) Flush(tick int32, frame FrameStats) WindowStats {
	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   tick,
		SimTimeSec:      float64(tick) * float64(c.dt),
		FrameStats:      frame,
		Events:          c.events,
	}

	if attempts := c.events.Absorptions + c.events.Rejections; attempts > 0 {
		stats.AbsorptionAcceptRate = float64(c.events.Absorptions) / float64(attempts)
	}
	if span := tick - c.windowStartTick; span > 0 {
		stats.DivisionsPerKTick = float64(c.events.Divisions) * 1000 / float64(span)
	}

	c.windowStartTick = tick
	c.events.Reset()
	return stats
}

// Reset discards pending events and restarts windows at tick.
func (c *Collector) Reset(tick int32) {
	c.windowStartTick = tick
	c.events.Reset()
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowTicks
}
