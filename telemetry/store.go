package telemetry

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/pthm-cable/protosoup/config"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	seed       INTEGER NOT NULL,
	started_at TEXT NOT NULL,
	particles  INTEGER NOT NULL,
	vesicles   INTEGER NOT NULL,
	config     TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS windows (
	run_id               INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	window_end           INTEGER NOT NULL,
	sim_time             REAL NOT NULL,
	max_velocity         REAL NOT NULL,
	avg_temp             REAL NOT NULL,
	free_monomers        INTEGER NOT NULL,
	parented_monomers    INTEGER NOT NULL,
	live_vesicles        INTEGER NOT NULL,
	dead_vesicles        INTEGER NOT NULL,
	total_eaten          INTEGER NOT NULL,
	avg_radius           REAL NOT NULL,
	max_radius           REAL NOT NULL,
	absorptions          INTEGER NOT NULL,
	rejections           INTEGER NOT NULL,
	competition_wins     INTEGER NOT NULL,
	monomers_transferred INTEGER NOT NULL,
	divisions            INTEGER NOT NULL,
	children_created     INTEGER NOT NULL,
	starved_divisions    INTEGER NOT NULL,
	PRIMARY KEY (run_id, window_end)
);

CREATE TABLE IF NOT EXISTS bookmarks (
	run_id      INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	tick        INTEGER NOT NULL,
	type        TEXT NOT NULL,
	description TEXT NOT NULL
);
`

// Store persists runs and their stats windows in a SQLite database.
// A nil *Store is a valid, disabled sink.
type Store struct {
	db *sql.DB
}

// OpenStore opens or creates the database at path.
// Returns nil if path is empty (store disabled).
func OpenStore(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		return nil, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing store schema: %w", err)
	}
	return &Store{db: db}, nil
}

// BeginRun records a new run and returns its id.
func (s *Store) BeginRun(ctx context.Context, seed int64, cfg *config.Config) (int64, error) {
	if s == nil {
		return 0, nil
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return 0, fmt.Errorf("marshaling run config: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (seed, started_at, particles, vesicles, config) VALUES (?, ?, ?, ?, ?)`,
		seed, time.Now().UTC().Format(time.RFC3339), cfg.Particles.Count, cfg.Derived.NVesicles, string(data),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}
	return id, nil
}

// InsertWindow stores one stats window of run runID.
func (s *Store) InsertWindow(ctx context.Context, runID int64, w WindowStats) error {
	if s == nil {
		return nil
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO windows (
			run_id, window_end, sim_time, max_velocity, avg_temp,
			free_monomers, parented_monomers, live_vesicles, dead_vesicles, total_eaten,
			avg_radius, max_radius,
			absorptions, rejections, competition_wins, monomers_transferred,
			divisions, children_created, starved_divisions
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, w.WindowEndTick, w.SimTimeSec, w.MaxVelocity, w.AvgTemp,
		w.FreeMonomers, w.ParentedMonomers, w.LiveVesicles, w.DeadVesicles, w.TotalEaten,
		w.AvgRadius, w.MaxRadius,
		w.Absorptions, w.Rejections, w.CompetitionWins, w.MonomersTransferred,
		w.Divisions, w.ChildrenCreated, w.StarvedDivisions,
	)
	if err != nil {
		return fmt.Errorf("inserting window %d of run %d: %w", w.WindowEndTick, runID, err)
	}
	return nil
}

// Windows returns the stored windows of run runID in tick order.
// Only the persisted columns are populated.
func (s *Store) Windows(ctx context.Context, runID int64) ([]WindowStats, error) {
	if s == nil {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT window_end, sim_time, max_velocity, avg_temp,
			free_monomers, parented_monomers, live_vesicles, dead_vesicles, total_eaten,
			avg_radius, max_radius,
			absorptions, rejections, competition_wins, monomers_transferred,
			divisions, children_created, starved_divisions
		FROM windows WHERE run_id = ? ORDER BY window_end`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying windows: %w", err)
	}
	defer rows.Close()

	var out []WindowStats
	for rows.Next() {
		var w WindowStats
		if err := rows.Scan(
			&w.WindowEndTick, &w.SimTimeSec, &w.MaxVelocity, &w.AvgTemp,
			&w.FreeMonomers, &w.ParentedMonomers, &w.LiveVesicles, &w.DeadVesicles, &w.TotalEaten,
			&w.AvgRadius, &w.MaxRadius,
			&w.Absorptions, &w.Rejections, &w.CompetitionWins, &w.MonomersTransferred,
			&w.Divisions, &w.ChildrenCreated, &w.StarvedDivisions,
		); err != nil {
			return nil, fmt.Errorf("scanning window: %w", err)
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating windows: %w", err)
	}
	return out, nil
}

// InsertBookmark stores a bookmark of run runID.
func (s *Store) InsertBookmark(ctx context.Context, runID int64, b Bookmark) error {
	if s == nil {
		return nil
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO bookmarks (run_id, tick, type, description) VALUES (?, ?, ?, ?)`,
		runID, b.Tick, string(b.Type), b.Description,
	)
	if err != nil {
		return fmt.Errorf("inserting bookmark at tick %d of run %d: %w", b.Tick, runID, err)
	}
	return nil
}

// Bookmarks returns the bookmarks of run runID in tick order.
func (s *Store) Bookmarks(ctx context.Context, runID int64) ([]Bookmark, error) {
	if s == nil {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT tick, type, description FROM bookmarks WHERE run_id = ? ORDER BY tick, rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying bookmarks: %w", err)
	}
	defer rows.Close()

	var out []Bookmark
	for rows.Next() {
		var b Bookmark
		var typ string
		if err := rows.Scan(&b.Tick, &typ, &b.Description); err != nil {
			return nil, fmt.Errorf("scanning bookmark: %w", err)
		}
		b.Type = BookmarkType(typ)
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating bookmarks: %w", err)
	}
	return out, nil
}

// RunCount returns the number of recorded runs.
func (s *Store) RunCount(ctx context.Context) (int, error) {
	if s == nil {
		return 0, nil
	}
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting runs: %w", err)
	}
	return n, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	return s.db.Close()
}
