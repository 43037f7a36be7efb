package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		// Not present.
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawSize struct {
	Width  *int `yaml:"width"`
	Height *int `yaml:"height"`
}

type RawPlacement struct {
	Mode       *PlacementMode `yaml:"mode"`
	OriginTop  *int           `yaml:"origin_top"`
	OriginLeft *int           `yaml:"origin_left"`
	Step       *int           `yaml:"step"`
	Gap        *int           `yaml:"gap"`
}

type RawWebConfig struct {
	Listen *string `yaml:"listen"`
}

type RawTUIConfig struct {
	CellWidth  *int `yaml:"cell_width"`
	CellHeight *int `yaml:"cell_height"`
}

type RawLoggingConfig struct {
	File      *string `yaml:"file"`
	MaxSizeMB *int    `yaml:"max_size_mb"`
	MaxFiles  *int    `yaml:"max_files"`
}

type RawConfig struct {
	Include          IncludeList       `yaml:"include"`
	Desktop          *RawSize          `yaml:"desktop"`
	Placement        *RawPlacement     `yaml:"placement"`
	DefaultPanelSize *RawSize          `yaml:"default_panel_size"`
	Panels           []PanelConfig     `yaml:"panels"`
	Web              *RawWebConfig     `yaml:"web"`
	TUI              *RawTUIConfig     `yaml:"tui"`
	WatchConfig      *bool             `yaml:"watch_config"`
	LogLevel         *string           `yaml:"log_level"`
	Logging          *RawLoggingConfig `yaml:"logging"`
}

// merge overlays the set fields of overlay onto c. A panels list replaces
// the previous one wholesale.
func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c

	if overlay.Desktop != nil {
		out.Desktop = mergeRawSize(out.Desktop, overlay.Desktop)
	}
	if overlay.Placement != nil {
		if out.Placement == nil {
			out.Placement = &RawPlacement{}
		}
		p := *out.Placement
		if overlay.Placement.Mode != nil {
			p.Mode = overlay.Placement.Mode
		}
		if overlay.Placement.OriginTop != nil {
			p.OriginTop = overlay.Placement.OriginTop
		}
		if overlay.Placement.OriginLeft != nil {
			p.OriginLeft = overlay.Placement.OriginLeft
		}
		if overlay.Placement.Step != nil {
			p.Step = overlay.Placement.Step
		}
		if overlay.Placement.Gap != nil {
			p.Gap = overlay.Placement.Gap
		}
		out.Placement = &p
	}
	if overlay.DefaultPanelSize != nil {
		out.DefaultPanelSize = mergeRawSize(out.DefaultPanelSize, overlay.DefaultPanelSize)
	}
	if overlay.Panels != nil {
		out.Panels = append([]PanelConfig(nil), overlay.Panels...)
	}
	if overlay.Web != nil {
		if out.Web == nil {
			out.Web = &RawWebConfig{}
		}
		w := *out.Web
		if overlay.Web.Listen != nil {
			w.Listen = overlay.Web.Listen
		}
		out.Web = &w
	}
	if overlay.TUI != nil {
		if out.TUI == nil {
			out.TUI = &RawTUIConfig{}
		}
		t := *out.TUI
		if overlay.TUI.CellWidth != nil {
			t.CellWidth = overlay.TUI.CellWidth
		}
		if overlay.TUI.CellHeight != nil {
			t.CellHeight = overlay.TUI.CellHeight
		}
		out.TUI = &t
	}
	if overlay.WatchConfig != nil {
		out.WatchConfig = overlay.WatchConfig
	}
	if overlay.LogLevel != nil {
		out.LogLevel = overlay.LogLevel
	}
	if overlay.Logging != nil {
		if out.Logging == nil {
			out.Logging = &RawLoggingConfig{}
		}
		l := *out.Logging
		if overlay.Logging.File != nil {
			l.File = overlay.Logging.File
		}
		if overlay.Logging.MaxSizeMB != nil {
			l.MaxSizeMB = overlay.Logging.MaxSizeMB
		}
		if overlay.Logging.MaxFiles != nil {
			l.MaxFiles = overlay.Logging.MaxFiles
		}
		out.Logging = &l
	}

	return out
}

func mergeRawSize(base, overlay *RawSize) *RawSize {
	out := RawSize{}
	if base != nil {
		out = *base
	}
	if overlay.Width != nil {
		out.Width = overlay.Width
	}
	if overlay.Height != nil {
		out.Height = overlay.Height
	}
	return &out
}
