package camera

import (
	"math"
	"testing"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-3
}

func TestNew(t *testing.T) {
	cam := New(1280, 720)

	if cam.X != 0.5 || cam.Y != 0.5 {
		t.Errorf("expected camera at (0.5, 0.5), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", cam.Zoom)
	}
}

func TestWorldToScreenWholeDomain(t *testing.T) {
	cam := New(1280, 720)

	// Domain y grows upward, screen y downward
	sx, sy := cam.WorldToScreen(0, 0)
	if !near(sx, 0) || !near(sy, 720) {
		t.Errorf("expected bottom-left (0, 720), got (%f, %f)", sx, sy)
	}
	sx, sy = cam.WorldToScreen(1, 1)
	if !near(sx, 1280) || !near(sy, 0) {
		t.Errorf("expected top-right (1280, 0), got (%f, %f)", sx, sy)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := New(1280, 720)
	cam.SetZoom(3)
	cam.Pan(200, -100)

	testCases := []struct{ sx, sy float32 }{
		{640, 360},  // center
		{100, 100},  // top-left
		{1200, 600}, // near bottom-right
	}

	for _, tc := range testCases {
		wx, wy := cam.ScreenToWorld(tc.sx, tc.sy)
		sx, sy := cam.WorldToScreen(wx, wy)
		if !near(sx, tc.sx) || !near(sy, tc.sy) {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)",
				tc.sx, tc.sy, wx, wy, sx, sy)
		}
	}
}

func TestPanStaysInsideDomain(t *testing.T) {
	cam := New(1000, 1000)

	// At zoom 1 the whole domain is visible, so panning has no effect
	cam.Pan(300, 300)
	if cam.X != 0.5 || cam.Y != 0.5 {
		t.Errorf("expected no pan at zoom 1, got (%f, %f)", cam.X, cam.Y)
	}

	cam.SetZoom(2)
	cam.Pan(1e6, 1e6)
	minX, minY, maxX, maxY := cam.VisibleWorldBounds()
	if !near(maxX, 1) || !near(minY, 0) {
		t.Errorf("expected view pinned to bottom-right, got x=[%f,%f] y=[%f,%f]", minX, maxX, minY, maxY)
	}
}

func TestPanDirection(t *testing.T) {
	cam := New(1000, 1000)
	cam.SetZoom(4)

	cam.Pan(100, 0)
	if cam.X <= 0.5 {
		t.Errorf("expected pan right to increase X, got %f", cam.X)
	}
	cam.Pan(0, 100)
	if cam.Y >= 0.5 {
		t.Errorf("expected pan down to decrease Y, got %f", cam.Y)
	}
}

func TestZoomClamp(t *testing.T) {
	cam := New(1280, 720)

	cam.SetZoom(100)
	if cam.Zoom != cam.MaxZoom {
		t.Errorf("expected zoom clamped to %f, got %f", cam.MaxZoom, cam.Zoom)
	}

	cam.SetZoom(0.01)
	if cam.Zoom != cam.MinZoom {
		t.Errorf("expected zoom clamped to %f, got %f", cam.MinZoom, cam.Zoom)
	}
}

func TestZoomAtKeepsCursorPoint(t *testing.T) {
	cam := New(1000, 1000)

	// (400, 600) maps to domain (0.4, 0.4); zooming 2x around it stays in bounds
	wx, wy := cam.ScreenToWorld(400, 600)
	cam.ZoomAt(400, 600, 2)

	gx, gy := cam.ScreenToWorld(400, 600)
	if !near(gx, wx) || !near(gy, wy) {
		t.Errorf("expected (%f,%f) under cursor, got (%f,%f)", wx, wy, gx, gy)
	}
	if cam.Zoom != 2 {
		t.Errorf("expected zoom 2, got %f", cam.Zoom)
	}
}

func TestIsVisible(t *testing.T) {
	cam := New(1000, 1000)
	cam.SetZoom(4)
	cam.Pan(-1e6, 1e6) // view is [0,0.25]²

	if !cam.IsVisible(0.1, 0.1, 0) {
		t.Error("expected point inside view to be visible")
	}
	if cam.IsVisible(0.8, 0.8, 0.05) {
		t.Error("expected far point to be culled")
	}
	if !cam.IsVisible(0.27, 0.1, 0.05) {
		t.Error("expected circle overlapping the edge to be visible")
	}
}

func TestReset(t *testing.T) {
	cam := New(1280, 720)
	cam.SetZoom(3)
	cam.Pan(500, 500)
	cam.Reset()

	if cam.X != 0.5 || cam.Y != 0.5 || cam.Zoom != 1 {
		t.Errorf("expected reset view, got (%f, %f) zoom %f", cam.X, cam.Y, cam.Zoom)
	}
}
