package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/spf13/cobra"

	"github.com/pthm-cable/protosoup/config"
	"github.com/pthm-cable/protosoup/game"
)

var version = "0.1.0-dev"

func main() {
	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	rootCmd := &cobra.Command{
		Use:   "protosoup",
		Short: "Convective primordial soup of monomers and vesicles",
		Long: `protosoup simulates a heated 2D fluid carrying free monomers and
vesicle protocells that absorb them, compete, and divide.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().String("config", "", "Path to config.yaml (empty = use defaults)")

	rootCmd.AddCommand(
		newRunCmd(),
		newVersionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("protosoup version %s\n", version)
		},
	}
}

func newRunCmd() *cobra.Command {
	var (
		opts     game.Options
		maxTicks int
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the simulation (graphical unless --headless)",
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			if err := config.Init(configPath); err != nil {
				return err
			}
			cfg := config.Cfg()

			if opts.Seed == 0 {
				opts.Seed = time.Now().UnixNano()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if opts.Headless {
				return runHeadless(ctx, cfg, opts, maxTicks)
			}
			return runGraphical(ctx, cfg, opts, maxTicks)
		},
	}

	f := cmd.Flags()
	f.BoolVar(&opts.Headless, "headless", false, "Run without graphics")
	f.Int64Var(&opts.Seed, "seed", 0, "RNG seed (0 = time-based)")
	f.IntVar(&maxTicks, "max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	f.IntVar(&opts.StepsPerUpdate, "steps-per-update", 0, "Simulation ticks per update (0 = simulation.substeps)")
	f.BoolVar(&opts.LogStats, "log-stats", false, "Output stats via slog")
	f.StringVar(&opts.OutputDir, "output-dir", "", "Output directory for CSV logs and config snapshot")
	f.StringVar(&opts.DBPath, "db", "", "SQLite database for run telemetry")
	f.StringVar(&opts.StreamAddr, "stream", "", "Listen address for the websocket stats stream, e.g. :8090")
	f.StringVar(&opts.SnapshotDir, "snapshot-dir", "", "Directory for state snapshots")
	f.StringVar(&opts.Resume, "resume", "", "Snapshot file to resume from")

	return cmd
}

func runHeadless(ctx context.Context, cfg *config.Config, opts game.Options, maxTicks int) error {
	g, err := game.NewGame(ctx, cfg, opts)
	if err != nil {
		return err
	}
	defer g.Unload()

	slog.Info("starting headless simulation",
		"seed", opts.Seed,
		"particles", cfg.Particles.Count,
		"vesicles", cfg.Derived.NVesicles,
		"max_ticks", maxTicks,
	)

	for {
		select {
		case <-ctx.Done():
			slog.Info("interrupted", "tick", g.Tick())
			return nil
		default:
		}

		g.UpdateHeadless()

		if maxTicks > 0 && int(g.Tick()) >= maxTicks {
			slog.Info("max ticks reached", "tick", g.Tick())
			return nil
		}
	}
}

func runGraphical(ctx context.Context, cfg *config.Config, opts game.Options, maxTicks int) error {
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Protosoup")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g, err := game.NewGame(ctx, cfg, opts)
	if err != nil {
		return err
	}
	defer g.Unload()

	for !rl.WindowShouldClose() && ctx.Err() == nil {
		g.Update()
		g.Draw()

		if maxTicks > 0 && int(g.Tick()) >= maxTicks {
			break
		}
	}
	return nil
}
