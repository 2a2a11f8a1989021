package telemetry

import (
	"testing"

	"github.com/pthm-cable/protosoup/systems"
)

func window(tick int32, live, divisions, wins int) WindowStats {
	return WindowStats{
		WindowEndTick: tick,
		FrameStats:    FrameStats{LiveVesicles: live},
		Events:        systems.Events{Divisions: divisions, CompetitionWins: wins, ChildrenCreated: 2 * divisions},
	}
}

func hasBookmark(bookmarks []Bookmark, typ BookmarkType) bool {
	for _, bm := range bookmarks {
		if bm.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_FirstDivisionOnce(t *testing.T) {
	bd := NewBookmarkDetector(10)

	if hasBookmark(bd.Check(window(100, 5, 0, 0)), BookmarkFirstDivision) {
		t.Error("unexpected first_division before any division")
	}
	if !hasBookmark(bd.Check(window(200, 6, 1, 0)), BookmarkFirstDivision) {
		t.Error("expected first_division bookmark")
	}
	if hasBookmark(bd.Check(window(300, 7, 1, 0)), BookmarkFirstDivision) {
		t.Error("first_division fired twice")
	}
}

func TestBookmarkDetector_DivisionBurst(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 5; i++ {
		bd.Check(window(int32(i*100), 10, 1, 0))
	}

	// 4 divisions against an average of 1
	if !hasBookmark(bd.Check(window(500, 12, 4, 0)), BookmarkDivisionBurst) {
		t.Error("expected division_burst bookmark")
	}
}

func TestBookmarkDetector_CompetitionSurge(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 5; i++ {
		bd.Check(window(int32(i*100), 10, 0, 1))
	}

	bookmarks := bd.Check(window(500, 10, 0, 6))
	if !hasBookmark(bookmarks, BookmarkCompetitionSurge) {
		t.Error("expected competition_surge bookmark")
	}
	if hasBookmark(bookmarks, BookmarkDivisionBurst) {
		t.Error("unexpected division_burst bookmark")
	}
}

func TestBookmarkDetector_VesicleCrash(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 5; i++ {
		bd.Check(window(int32(i*100), 20, 0, 0))
	}

	if !hasBookmark(bd.Check(window(500, 10, 0, 0)), BookmarkVesicleCrash) {
		t.Error("expected vesicle_crash bookmark")
	}
	// Peak resets after a crash.
	if hasBookmark(bd.Check(window(600, 9, 0, 0)), BookmarkVesicleCrash) {
		t.Error("vesicle_crash fired again without a new peak")
	}
}

func TestBookmarkDetector_Extinction(t *testing.T) {
	bd := NewBookmarkDetector(10)

	bd.Check(window(100, 2, 0, 0))
	if !hasBookmark(bd.Check(window(200, 0, 0, 0)), BookmarkExtinction) {
		t.Error("expected extinction bookmark")
	}
	if hasBookmark(bd.Check(window(300, 0, 0, 0)), BookmarkExtinction) {
		t.Error("extinction fired twice")
	}
}

func TestBookmarkDetector_SteadyState(t *testing.T) {
	bd := NewBookmarkDetector(10)

	fired := 0
	for i := 0; i < 20; i++ {
		if hasBookmark(bd.Check(window(int32(i*100), 8, 0, 0)), BookmarkSteadyState) {
			fired++
		}
	}
	if fired != 1 {
		t.Errorf("expected steady_state exactly once, got %d", fired)
	}
}

func TestBookmarkDetector_Reset(t *testing.T) {
	bd := NewBookmarkDetector(10)
	bd.Check(window(100, 5, 1, 0))
	bd.Reset()

	if !hasBookmark(bd.Check(window(100, 5, 1, 0)), BookmarkFirstDivision) {
		t.Error("expected first_division again after reset")
	}
}
