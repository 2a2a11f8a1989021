package game

import "log/slog"

// logPerfStats logs the rolling step timings.
func (g *Game) logPerfStats() {
	slog.Info("perf",
		"tick", g.sim.Tick(),
		"steps_per_update", g.stepsPerUpdate,
		"timings", g.perfCollector.Stats(),
	)
}

// logWorldState logs a one-line summary of the current state.
func (g *Game) logWorldState() {
	fs := g.sim.FrameStats()
	slog.Info("world",
		"tick", g.sim.Tick(),
		"live_vesicles", fs.LiveVesicles,
		"dead_vesicles", fs.DeadVesicles,
		"free_monomers", fs.FreeMonomers,
		"parented_monomers", fs.ParentedMonomers,
		"avg_radius", fs.AvgRadius,
		"max_radius", fs.MaxRadius,
		"avg_temp", fs.AvgTemp,
	)
}
