package config

import (
	"fmt"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// BuildEffectiveConfig applies a merged raw config on top of the defaults.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	if raw.Desktop != nil {
		cfg.Desktop = applySize(cfg.Desktop, raw.Desktop)
	}
	if raw.Placement != nil {
		p := raw.Placement
		if p.Mode != nil {
			cfg.Placement.Mode = *p.Mode
		}
		cfg.Placement.OriginTop = derefInt(p.OriginTop, cfg.Placement.OriginTop)
		cfg.Placement.OriginLeft = derefInt(p.OriginLeft, cfg.Placement.OriginLeft)
		cfg.Placement.Step = derefInt(p.Step, cfg.Placement.Step)
		cfg.Placement.Gap = derefInt(p.Gap, cfg.Placement.Gap)
	}
	if raw.DefaultPanelSize != nil {
		cfg.DefaultPanelSize = applySize(cfg.DefaultPanelSize, raw.DefaultPanelSize)
	}
	if raw.Panels != nil {
		cfg.Panels = append([]PanelConfig(nil), raw.Panels...)
	}
	if raw.Web != nil && raw.Web.Listen != nil {
		cfg.Web.Listen = *raw.Web.Listen
	}
	if raw.TUI != nil {
		cfg.TUI.CellWidth = derefInt(raw.TUI.CellWidth, cfg.TUI.CellWidth)
		cfg.TUI.CellHeight = derefInt(raw.TUI.CellHeight, cfg.TUI.CellHeight)
	}
	if raw.WatchConfig != nil {
		cfg.WatchConfig = *raw.WatchConfig
	}
	if raw.LogLevel != nil {
		cfg.LogLevel = *raw.LogLevel
	}
	if raw.Logging != nil {
		if raw.Logging.File != nil {
			cfg.Logging.File = *raw.Logging.File
		}
		cfg.Logging.MaxSizeMB = derefInt(raw.Logging.MaxSizeMB, cfg.Logging.MaxSizeMB)
		cfg.Logging.MaxFiles = derefInt(raw.Logging.MaxFiles, cfg.Logging.MaxFiles)
	}

	return cfg, nil
}

func applySize(base Size, raw *RawSize) Size {
	return Size{
		Width:  derefInt(raw.Width, base.Width),
		Height: derefInt(raw.Height, base.Height),
	}
}

func derefInt(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}
