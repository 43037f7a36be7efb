// Package layout computes initial panel geometry.
package layout

import (
	"fmt"
	"math"

	"github.com/1broseidon/webdesk/internal/config"
	"github.com/1broseidon/webdesk/internal/panel"
)

// CalculateGrid determines the grid dimensions for the given number of panels
func CalculateGrid(numPanels int) (rows, cols int) {
	if numPanels == 0 {
		return 0, 0
	}

	// Columns first (ceiling of square root)
	cols = int(math.Ceil(math.Sqrt(float64(numPanels))))
	rows = int(math.Ceil(float64(numPanels) / float64(cols)))

	return rows, cols
}

// Cascade returns numPanels rectangles of the given size, each offset by
// step from the previous one. The cascade wraps back to the origin before a
// slot would leave the desktop.
func Cascade(numPanels int, desktop config.Size, p config.Placement, size config.Size) []panel.Rect {
	if numPanels == 0 {
		return nil
	}

	slots := cascadeSlots(desktop, p, size)
	positions := make([]panel.Rect, numPanels)
	for i := range positions {
		k := i % slots
		positions[i] = panel.Rect{
			Top:    p.OriginTop + k*p.Step,
			Left:   p.OriginLeft + k*p.Step,
			Width:  size.Width,
			Height: size.Height,
		}
	}
	return positions
}

func cascadeSlots(desktop config.Size, p config.Placement, size config.Size) int {
	if p.Step <= 0 {
		return 1
	}
	x := (desktop.Width - size.Width - p.OriginLeft) / p.Step
	y := (desktop.Height - size.Height - p.OriginTop) / p.Step
	slots := min(x, y) + 1
	if slots < 1 {
		return 1
	}
	return slots
}

// Grid tiles the desktop into near-square cells separated by gap.
func Grid(numPanels int, desktop config.Size, gapSize int) ([]panel.Rect, error) {
	if numPanels == 0 {
		return nil, nil
	}

	rows, cols := CalculateGrid(numPanels)

	// Gaps: one before each column and one after the last.
	totalHorizontalGaps := (cols + 1) * gapSize
	totalVerticalGaps := (rows + 1) * gapSize

	cellWidth := (desktop.Width - totalHorizontalGaps) / cols
	cellHeight := (desktop.Height - totalVerticalGaps) / rows

	if cellWidth < panel.MinWidth || cellHeight < panel.MinHeight {
		return nil, fmt.Errorf(
			"insufficient space for grid placement: desktop=%dx%d rows=%d cols=%d gap=%d (cell=%dx%d)",
			desktop.Width, desktop.Height, rows, cols, gapSize, cellWidth, cellHeight,
		)
	}

	positions := make([]panel.Rect, numPanels)
	for i := 0; i < numPanels; i++ {
		row := i / cols
		col := i % cols

		positions[i] = panel.Rect{
			Left:   gapSize + col*(cellWidth+gapSize),
			Top:    gapSize + row*(cellHeight+gapSize),
			Width:  cellWidth,
			Height: cellHeight,
		}
	}
	return positions, nil
}

// Place computes the startup geometry of every configured panel. Fields a
// panel pins in its own config override the placement slot.
func Place(cfg *config.Config) ([]panel.Rect, error) {
	n := len(cfg.Panels)

	var slots []panel.Rect
	switch cfg.Placement.Mode {
	case config.PlacementCascade:
		slots = Cascade(n, cfg.Desktop, cfg.Placement, cfg.DefaultPanelSize)
	case config.PlacementGrid:
		var err error
		slots, err = Grid(n, cfg.Desktop, cfg.Placement.Gap)
		if err != nil {
			return nil, err
		}
	case config.PlacementManual:
		manual := cfg.Placement
		manual.Step = 0
		slots = Cascade(n, cfg.Desktop, manual, cfg.DefaultPanelSize)
	default:
		return nil, fmt.Errorf("unsupported placement mode: %q", cfg.Placement.Mode)
	}

	for i, pc := range cfg.Panels {
		slots[i] = Pin(slots[i], pc)
	}
	return slots, nil
}

// Pin overrides the slot with the geometry fields set on the panel config.
func Pin(slot panel.Rect, pc config.PanelConfig) panel.Rect {
	if pc.Top != nil {
		slot.Top = *pc.Top
	}
	if pc.Left != nil {
		slot.Left = *pc.Left
	}
	if pc.Width != nil {
		slot.Width = *pc.Width
	}
	if pc.Height != nil {
		slot.Height = *pc.Height
	}
	return slot
}

// Next returns the cascade slot for the panel mounted at index, used for
// panels opened at runtime regardless of the startup placement mode.
func Next(cfg *config.Config, index int) panel.Rect {
	return Cascade(index+1, cfg.Desktop, cfg.Placement, cfg.DefaultPanelSize)[index]
}
