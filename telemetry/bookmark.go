package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkFirstDivision    BookmarkType = "first_division"
	BookmarkDivisionBurst    BookmarkType = "division_burst"
	BookmarkCompetitionSurge BookmarkType = "competition_surge"
	BookmarkVesicleCrash     BookmarkType = "vesicle_crash"
	BookmarkExtinction       BookmarkType = "extinction"
	BookmarkSteadyState      BookmarkType = "steady_state"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type" json:"type"`
	Tick        int32        `csv:"tick" json:"tick"`
	Description string       `csv:"description" json:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects notable moments from consecutive stats windows.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	seenDivision      bool
	recentLivePeak    int // peak live vesicle count since the last crash
	prevLive          int
	steadyWindowCount int // consecutive windows with a steady live count
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5 // minimum for steady state detection
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
		prevLive:    -1,
	}
}

// Reset forgets all history, for a restarted run.
func (bd *BookmarkDetector) Reset() {
	*bd = *NewBookmarkDetector(bd.historySize)
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark
	add := func(b *Bookmark) {
		if b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	add(bd.checkFirstDivision(stats))
	if bd.historyFull || bd.historyIdx > 0 {
		add(bd.checkBurst(stats, BookmarkDivisionBurst, "Divisions", func(w WindowStats) int { return w.Divisions }))
		add(bd.checkBurst(stats, BookmarkCompetitionSurge, "Competition wins", func(w WindowStats) int { return w.CompetitionWins }))
		add(bd.checkExtinction(stats))
		add(bd.checkVesicleCrash(stats))
		add(bd.checkSteadyState(stats))
	}

	bd.addToHistory(stats)
	if stats.LiveVesicles > bd.recentLivePeak {
		bd.recentLivePeak = stats.LiveVesicles
	}
	bd.prevLive = stats.LiveVesicles

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func (bd *BookmarkDetector) checkFirstDivision(stats WindowStats) *Bookmark {
	if bd.seenDivision || stats.Divisions == 0 {
		return nil
	}
	bd.seenDivision = true
	return &Bookmark{
		Type:        BookmarkFirstDivision,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("First division: %d vesicles split into %d children", stats.Divisions, stats.ChildrenCreated),
	}
}

// checkBurst fires when count(stats) is at least 3 and more than twice the rolling average.
func (bd *BookmarkDetector) checkBurst(stats WindowStats, typ BookmarkType, label string, count func(WindowStats) int) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total int
	for _, h := range history {
		total += count(h)
	}
	avg := float64(total) / float64(len(history))

	current := count(stats)
	if current >= 3 && float64(current) > avg*2.0 {
		return &Bookmark{
			Type:        typ,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("%s %d vs rolling average %.1f", label, current, avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkExtinction(stats WindowStats) *Bookmark {
	if stats.LiveVesicles > 0 || bd.prevLive <= 0 {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkExtinction,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Last live vesicle gone, %d dead slots", stats.DeadVesicles),
	}
}

func (bd *BookmarkDetector) checkVesicleCrash(stats WindowStats) *Bookmark {
	if bd.recentLivePeak < 5 || stats.LiveVesicles == 0 {
		return nil
	}

	dropPercent := 1.0 - float64(stats.LiveVesicles)/float64(bd.recentLivePeak)
	if dropPercent > 0.30 {
		oldPeak := bd.recentLivePeak
		bd.recentLivePeak = stats.LiveVesicles

		return &Bookmark{
			Type:        BookmarkVesicleCrash,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Live vesicles fell %.0f%% from peak %d to %d", dropPercent*100, oldPeak, stats.LiveVesicles),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkSteadyState(stats WindowStats) *Bookmark {
	if stats.LiveVesicles < 2 {
		bd.steadyWindowCount = 0
		return nil
	}

	history := bd.getHistory()
	if len(history) < 4 {
		return nil
	}

	recent := history[len(history)-4:]
	var sum float64
	for _, h := range recent {
		sum += float64(h.LiveVesicles)
	}
	mean := sum / 4

	var variance float64
	for _, h := range recent {
		d := float64(h.LiveVesicles) - mean
		variance += d * d
	}
	variance /= 4

	if mean > 0 && variance/(mean*mean) < 0.01 { // CV < 0.1
		bd.steadyWindowCount++
	} else {
		bd.steadyWindowCount = 0
	}

	if bd.steadyWindowCount == 5 { // trigger exactly once per steady stretch
		return &Bookmark{
			Type:        BookmarkSteadyState,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Steady population of %d live vesicles over 5+ windows", stats.LiveVesicles),
		}
	}
	return nil
}
