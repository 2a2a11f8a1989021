// Package camera provides pan and zoom over the unit-square domain.
package camera

// Camera controls which part of the domain fills the screen.
// The domain is [0,1]² with y growing upward; it does not wrap, so the
// view is kept inside the domain at every zoom level.
type Camera struct {
	// Center of the view in domain coordinates
	X, Y float32

	// Zoom level (1.0 = whole domain, 2.0 = half the domain on each axis)
	Zoom float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// Zoom constraints
	MinZoom, MaxZoom float32
}

// New creates a camera showing the whole domain.
func New(viewportW, viewportH float32) *Camera {
	return &Camera{
		X:         0.5,
		Y:         0.5,
		Zoom:      1.0,
		ViewportW: viewportW,
		ViewportH: viewportH,
		MinZoom:   1.0,
		MaxZoom:   8.0,
	}
}

// WorldToScreen converts domain coordinates to screen pixels.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	sx = c.ViewportW/2 + (wx-c.X)*c.ViewportW*c.Zoom
	sy = c.ViewportH/2 - (wy-c.Y)*c.ViewportH*c.Zoom
	return sx, sy
}

// ScreenToWorld converts screen pixels to domain coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	wx = c.X + (sx-c.ViewportW/2)/(c.ViewportW*c.Zoom)
	wy = c.Y - (sy-c.ViewportH/2)/(c.ViewportH*c.Zoom)
	return wx, wy
}

// IsVisible reports whether a circle at (wx, wy) with the given domain-space
// radius could be on screen (conservative check for culling).
func (c *Camera) IsVisible(wx, wy, radius float32) bool {
	minX, minY, maxX, maxY := c.VisibleWorldBounds()
	return wx+radius >= minX && wx-radius <= maxX &&
		wy+radius >= minY && wy-radius <= maxY
}

// Resize updates viewport dimensions.
func (c *Camera) Resize(viewportW, viewportH float32) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
}

// Pan moves the view by the given delta in screen pixels.
// Positive dy moves the view down the screen.
func (c *Camera) Pan(dx, dy float32) {
	c.X += dx / (c.ViewportW * c.Zoom)
	c.Y -= dy / (c.ViewportH * c.Zoom)
	c.clampCenter()
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
	c.clampCenter()
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// ZoomAt multiplies the zoom by factor while keeping the domain point under
// the screen position (sx, sy) fixed, where the bounds allow.
func (c *Camera) ZoomAt(sx, sy, factor float32) {
	wx, wy := c.ScreenToWorld(sx, sy)
	c.Zoom = clamp(c.Zoom*factor, c.MinZoom, c.MaxZoom)
	c.X = wx - (sx-c.ViewportW/2)/(c.ViewportW*c.Zoom)
	c.Y = wy + (sy-c.ViewportH/2)/(c.ViewportH*c.Zoom)
	c.clampCenter()
}

// Reset returns the camera to the whole-domain view.
func (c *Camera) Reset() {
	c.X = 0.5
	c.Y = 0.5
	c.Zoom = 1.0
}

// VisibleWorldBounds returns the domain-coordinate bounds of the visible area.
func (c *Camera) VisibleWorldBounds() (minX, minY, maxX, maxY float32) {
	half := 0.5 / c.Zoom
	return c.X - half, c.Y - half, c.X + half, c.Y + half
}

// clampCenter keeps the visible area inside the domain.
func (c *Camera) clampCenter() {
	half := 0.5 / c.Zoom
	c.X = clamp(c.X, half, 1-half)
	c.Y = clamp(c.Y, half, 1-half)
}

// clamp restricts a value to a range.
func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
