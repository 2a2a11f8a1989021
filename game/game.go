package game

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pthm-cable/protosoup/config"
	"github.com/pthm-cable/protosoup/telemetry"
)

// bookmarkHistory is the number of stats windows bookmarks compare against.
const bookmarkHistory = 10

// Options configures a Game.
type Options struct {
	Seed           int64
	LogStats       bool   // log every stats window and periodic perf via slog
	OutputDir      string // CSV logs and config snapshot (empty = disabled)
	DBPath         string // SQLite run store (empty = disabled)
	StreamAddr     string // websocket stats stream listen address (empty = disabled)
	SnapshotDir    string // state snapshots on request and at exit (empty = disabled)
	Resume         string // snapshot file to restore before the first step
	Headless       bool
	StepsPerUpdate int // 0 = simulation.substeps from config
}

// Game drives a Simulation and routes its telemetry to the configured sinks.
type Game struct {
	ctx  context.Context
	sim  *Simulation
	snap *Snapshot

	// Telemetry
	collector       *telemetry.Collector
	perfCollector   *telemetry.PerfCollector
	bookmarks       *telemetry.BookmarkDetector
	outputManager   *telemetry.OutputManager
	store           *telemetry.Store
	runID           int64
	broadcaster     *telemetry.Broadcaster
	streamServer    *telemetry.StreamServer
	statsCallback   func(telemetry.WindowStats)
	lastStats       telemetry.WindowStats
	logStats        bool
	snapshotDir     string
	perfLogInterval int32

	// Loop control
	paused         bool
	stepOnce       bool
	stepsPerUpdate int

	// Graphics, nil when headless
	view *view
}

// NewGame creates a game with a fresh simulation, or one restored from opts.Resume.
// ctx bounds the store writes made over the game's lifetime.
func NewGame(ctx context.Context, cfg *config.Config, opts Options) (*Game, error) {
	sim := NewSimulation(cfg, opts.Seed)
	if opts.Resume != "" {
		snapshot, err := telemetry.LoadSnapshot(opts.Resume)
		if err != nil {
			return nil, err
		}
		if err := sim.RestoreState(snapshot); err != nil {
			return nil, fmt.Errorf("restoring %s: %w", opts.Resume, err)
		}
		slog.Info("resumed from snapshot", "path", opts.Resume, "tick", sim.Tick(), "seed", sim.Seed())
	}
	c := sim.Config()

	steps := opts.StepsPerUpdate
	if steps < 1 {
		steps = c.Simulation.Substeps
	}
	if steps < 1 {
		steps = 1
	}

	g := &Game{
		ctx:             ctx,
		sim:             sim,
		collector:       telemetry.NewCollector(c.Telemetry.StatsWindow, c.Derived.DT32),
		perfCollector:   telemetry.NewPerfCollector(c.Telemetry.PerfSampleWindow),
		bookmarks:       telemetry.NewBookmarkDetector(bookmarkHistory),
		logStats:        opts.LogStats,
		snapshotDir:     opts.SnapshotDir,
		perfLogInterval: int32(c.Telemetry.PerfLogInterval),
		stepsPerUpdate:  steps,
	}
	g.collector.Reset(sim.Tick())
	sim.SetPerfCollector(g.perfCollector)

	if err := g.openSinks(opts); err != nil {
		g.closeSinks()
		return nil, err
	}

	if !opts.Headless {
		g.view = newView(c)
	}
	g.snap = sim.Snapshot(nil)
	return g, nil
}

// openSinks creates every enabled telemetry sink and records the run.
func (g *Game) openSinks(opts Options) error {
	cfg := g.sim.Config()

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return err
	}
	g.outputManager = om
	if err := om.WriteConfig(cfg); err != nil {
		return err
	}

	store, err := telemetry.OpenStore(g.ctx, opts.DBPath)
	if err != nil {
		return err
	}
	g.store = store
	if g.runID, err = store.BeginRun(g.ctx, g.sim.Seed(), cfg); err != nil {
		return err
	}

	if opts.StreamAddr != "" {
		g.broadcaster = telemetry.NewBroadcaster()
		srv, err := telemetry.StartStreamServer(opts.StreamAddr, g.broadcaster)
		if err != nil {
			return err
		}
		g.streamServer = srv
		slog.Info("stats stream listening", "addr", "ws://"+srv.Addr()+"/stream")
	}
	return nil
}

func (g *Game) closeSinks() {
	if err := g.streamServer.Close(); err != nil {
		slog.Error("failed to close stream server", "error", err)
	}
	if err := g.broadcaster.Close(); err != nil {
		slog.Error("failed to close broadcaster", "error", err)
	}
	if err := g.store.Close(); err != nil {
		slog.Error("failed to close store", "error", err)
	}
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}

// step advances one tick and handles telemetry for it.
func (g *Game) step() {
	g.perfCollector.StartTick()
	g.sim.Step()

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.collector.Record(g.sim.TakeEvents())
	g.flushTelemetry()
	g.perfCollector.EndTick()

	if g.logStats && g.perfLogInterval > 0 && g.sim.Tick()%g.perfLogInterval == 0 {
		g.logPerfStats()
	}
}

// UpdateHeadless runs StepsPerUpdate ticks without input or drawing.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.step()
	}
}

// Update handles input, advances the simulation and refreshes the draw snapshot.
func (g *Game) Update() {
	if g.view != nil {
		g.handleInput()
	}

	switch {
	case !g.paused:
		for i := 0; i < g.stepsPerUpdate; i++ {
			g.step()
		}
	case g.stepOnce:
		g.step()
	}
	g.stepOnce = false

	g.snap = g.sim.Snapshot(g.snap)
}

// Reset restarts the run from seed. Telemetry windows restart at tick 0 and the
// store records a new run.
func (g *Game) Reset(seed int64) {
	g.sim.Reset(seed)
	g.collector.Reset(0)
	g.bookmarks.Reset()
	g.lastStats = telemetry.WindowStats{}

	runID, err := g.store.BeginRun(g.ctx, seed, g.sim.Config())
	if err != nil {
		slog.Error("failed to record run", "error", err)
	}
	g.runID = runID
	g.snap = g.sim.Snapshot(g.snap)
	if g.view != nil {
		g.view.inspector.Deselect()
	}
	slog.Info("simulation reset", "seed", seed)
}

// Unload saves a final snapshot when enabled and closes every sink.
func (g *Game) Unload() {
	g.logWorldState()
	if g.snapshotDir != "" {
		g.saveSnapshot(nil)
	}
	g.closeSinks()
	if g.view != nil {
		g.view.unload()
	}
}

// SetStatsCallback registers fn to receive every flushed stats window.
func (g *Game) SetStatsCallback(fn func(telemetry.WindowStats)) {
	g.statsCallback = fn
}

// LastStats returns the most recently flushed stats window.
func (g *Game) LastStats() telemetry.WindowStats {
	return g.lastStats
}

// RunID returns the store id of the current run, 0 when the store is disabled.
func (g *Game) RunID() int64 {
	return g.runID
}

// Simulation returns the underlying simulation.
func (g *Game) Simulation() *Simulation {
	return g.sim
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int32 {
	return g.sim.Tick()
}
