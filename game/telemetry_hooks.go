package game

import (
	"errors"
	"log/slog"

	"github.com/pthm-cable/protosoup/telemetry"
)

// flushTelemetry closes the stats window when it is due and hands it to every sink.
func (g *Game) flushTelemetry() {
	tick := g.sim.Tick()
	if !g.collector.ShouldFlush(tick) {
		return
	}

	stats := g.collector.Flush(tick, g.sim.FrameStats())
	perfStats := g.perfCollector.Stats()
	g.lastStats = stats

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
	}

	if err := g.outputManager.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	if err := g.store.InsertWindow(g.ctx, g.runID, stats); err != nil {
		slog.Error("failed to store window", "error", err)
	}

	for _, bm := range g.bookmarks.Check(stats) {
		bm.LogBookmark()
		if err := g.outputManager.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
		if err := g.store.InsertBookmark(g.ctx, g.runID, bm); err != nil {
			slog.Error("failed to store bookmark", "error", err)
		}
		if g.snapshotDir != "" {
			g.saveSnapshot(&bm)
		}
	}

	if err := g.broadcaster.Publish(g.runID, stats); err != nil {
		if errors.Is(err, telemetry.ErrStreamBacklog) {
			slog.Warn("stats stream backlog, window dropped", "window_end", stats.WindowEndTick)
		} else {
			slog.Error("failed to publish window", "error", err)
		}
	}
}

// saveSnapshot writes the full state to the snapshot directory, tagged with
// bookmark when one triggered it.
func (g *Game) saveSnapshot(bookmark *telemetry.Bookmark) {
	if g.snapshotDir == "" {
		slog.Warn("snapshot requested but no snapshot directory is set")
		return
	}
	snapshot := g.sim.SaveState()
	snapshot.Bookmark = bookmark
	path, err := telemetry.SaveSnapshot(snapshot, g.snapshotDir)
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}
	slog.Info("snapshot saved", "path", path, "tick", g.sim.Tick())
}
