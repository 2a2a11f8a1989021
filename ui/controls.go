package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// MaxSubsteps bounds the substeps slider.
const MaxSubsteps = 10

// ControlState is what the controls panel displays.
type ControlState struct {
	Paused   bool
	Substeps int
}

// ControlActions reports what the user did in the panel this frame.
type ControlActions struct {
	TogglePause bool
	Step        bool // advance once while paused
	Reset       bool
	Snapshot    bool
	Substeps    int
}

// ControlsPanel renders the raygui control panel with overlay toggles.
type ControlsPanel struct {
	x, y    int32
	width   int32
	height  int32 // as of the last Draw
	visible bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		x:       x,
		y:       y,
		width:   width,
		visible: true,
	}
}

// SetPosition moves the panel.
func (c *ControlsPanel) SetPosition(x, y int32) {
	c.x, c.y = x, y
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Contains reports whether the screen point lies on the visible panel.
func (c *ControlsPanel) Contains(x, y float32) bool {
	if !c.visible {
		return false
	}
	return x >= float32(c.x) && x <= float32(c.x+c.width) &&
		y >= float32(c.y) && y <= float32(c.y+c.height)
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Draw renders the panel and returns the user's actions.
func (c *ControlsPanel) Draw(state ControlState, overlays *OverlayRegistry) ControlActions {
	actions := ControlActions{Substeps: state.Substeps}
	if !c.visible {
		return actions
	}

	const pad, line = panelPad, lineStep
	inner := float32(c.width - 2*pad)

	rows := int32(len(overlays.All()) + len(overlays.Categories()))
	height := pad*2 + 30 + 30 + 40 + rows*(line+4) + 10
	drawFrame(c.x, c.y, c.width, height)
	c.height = height

	x := float32(c.x + pad)
	y := float32(c.y + pad)

	half := (inner - 10) / 2
	pauseText := "Pause"
	if state.Paused {
		pauseText = "Resume"
	}
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: half, Height: 24}, pauseText) {
		actions.TogglePause = true
	}
	if gui.Button(rl.Rectangle{X: x + half + 10, Y: y, Width: half, Height: 24}, "Step") {
		actions.Step = true
	}
	y += 30

	if gui.Button(rl.Rectangle{X: x, Y: y, Width: half, Height: 24}, "Reset") {
		actions.Reset = true
	}
	if gui.Button(rl.Rectangle{X: x + half + 10, Y: y, Width: half, Height: 24}, "Snapshot") {
		actions.Snapshot = true
	}
	y += 30

	rl.DrawText(fmt.Sprintf("Substeps: %d", state.Substeps), int32(x), int32(y), textSize, keyColor)
	y += 14
	v := gui.SliderBar(
		rl.Rectangle{X: x + 10, Y: y, Width: inner - 40, Height: 16},
		"1", fmt.Sprint(MaxSubsteps),
		float32(state.Substeps), 1, MaxSubsteps,
	)
	actions.Substeps = int(v + 0.5)
	y += 26

	for _, cat := range overlays.Categories() {
		rl.DrawText(categoryLabel(cat), int32(x), int32(y), headingSize, headingColor)
		y += float32(line + 4)
		for _, desc := range overlays.ByCategory(cat) {
			label := fmt.Sprintf("%s [%s]", desc.Name, desc.KeyLabel)
			enabled := overlays.IsEnabled(desc.ID)
			if checked := gui.CheckBox(rl.Rectangle{X: x, Y: y, Width: 12, Height: 12}, label, enabled); checked != enabled {
				overlays.SetEnabled(desc.ID, checked)
			}
			y += float32(line + 4)
		}
	}
	return actions
}

func categoryLabel(cat string) string {
	switch cat {
	case "field":
		return "Field"
	case "particles":
		return "Particles"
	case "panels":
		return "Panels"
	default:
		return cat
	}
}
