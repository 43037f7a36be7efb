package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/1broseidon/webdesk/internal/panel"
)

// PlacementMode selects how configured panels without pinned geometry are
// laid out on startup.
type PlacementMode string

const (
	PlacementCascade PlacementMode = "cascade"
	PlacementGrid    PlacementMode = "grid"
	PlacementManual  PlacementMode = "manual"
)

type Size struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Placement configures initial panel layout.
type Placement struct {
	Mode       PlacementMode `yaml:"mode"`
	OriginTop  int           `yaml:"origin_top"`
	OriginLeft int           `yaml:"origin_left"`
	// Step is the cascade offset between consecutive panels.
	Step int `yaml:"step"`
	// Gap is the spacing between grid cells.
	Gap int `yaml:"gap"`
}

// PanelConfig describes one panel opened when the desktop is built. Geometry
// fields left unset are filled by placement.
type PanelConfig struct {
	ID        string `yaml:"id,omitempty"`
	Title     string `yaml:"title"`
	App       string `yaml:"app,omitempty"`
	Top       *int   `yaml:"top,omitempty"`
	Left      *int   `yaml:"left,omitempty"`
	Width     *int   `yaml:"width,omitempty"`
	Height    *int   `yaml:"height,omitempty"`
	Resizable *bool  `yaml:"resizable,omitempty"`
}

// PanelID returns the configured id, or one derived from the title.
func (p PanelConfig) PanelID() string {
	if id := strings.TrimSpace(p.ID); id != "" {
		return id
	}
	return slug(p.Title)
}

// IsResizable defaults to true.
func (p PanelConfig) IsResizable() bool {
	return p.Resizable == nil || *p.Resizable
}

// AppKind returns the panel app, defaulting to blank.
func (p PanelConfig) AppKind() panel.App {
	if strings.TrimSpace(p.App) == "" {
		return panel.AppBlank
	}
	return panel.App(p.App)
}

type WebConfig struct {
	Listen string `yaml:"listen"`
}

// TUIConfig maps terminal cells to desktop pixels.
type TUIConfig struct {
	CellWidth  int `yaml:"cell_width"`
	CellHeight int `yaml:"cell_height"`
}

// LoggingConfig configures the log sink. An empty File logs to stderr.
type LoggingConfig struct {
	File      string `yaml:"file,omitempty"`
	MaxSizeMB int    `yaml:"max_size_mb"`
	MaxFiles  int    `yaml:"max_files"`
}

type Config struct {
	Desktop          Size          `yaml:"desktop"`
	Placement        Placement     `yaml:"placement"`
	DefaultPanelSize Size          `yaml:"default_panel_size"`
	Panels           []PanelConfig `yaml:"panels"`
	Web              WebConfig     `yaml:"web"`
	TUI              TUIConfig     `yaml:"tui"`
	WatchConfig      bool          `yaml:"watch_config"`
	LogLevel         string        `yaml:"log_level"`
	Logging          LoggingConfig `yaml:"logging"`
}

// DefaultPanels returns the stock desktop: a browser, a calculator and a
// text editor.
func DefaultPanels() []PanelConfig {
	return []PanelConfig{
		{ID: "browser", Title: "Browser", App: string(panel.AppBrowser)},
		{ID: "calculator", Title: "Calculator", App: string(panel.AppCalculator)},
		{ID: "editor", Title: "Text Editor", App: string(panel.AppEditor)},
	}
}

func DefaultConfig() *Config {
	return &Config{
		Desktop: Size{Width: 1280, Height: 800},
		Placement: Placement{
			Mode:       PlacementCascade,
			OriginTop:  10,
			OriginLeft: 10,
			Step:       100,
			Gap:        10,
		},
		DefaultPanelSize: Size{Width: 640, Height: 480},
		Panels:           DefaultPanels(),
		Web:              WebConfig{Listen: "127.0.0.1:8080"},
		TUI:              TUIConfig{CellWidth: 8, CellHeight: 16},
		WatchConfig:      true,
		LogLevel:         "info",
		Logging: LoggingConfig{
			MaxSizeMB: 10,
			MaxFiles:  3,
		},
	}
}

// LogFile returns the configured log file with "~" expanded, or "" for
// stderr.
func (c *Config) LogFile() string {
	file := strings.TrimSpace(c.Logging.File)
	if file == "" {
		return ""
	}
	if file == "~" || strings.HasPrefix(file, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(file[1:], "/"))
		}
	}
	return file
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	if c.Desktop.Width <= 0 || c.Desktop.Height <= 0 {
		return &ValidationError{Path: "desktop", Err: fmt.Errorf("desktop width and height must be positive")}
	}

	switch c.Placement.Mode {
	case PlacementCascade, PlacementGrid, PlacementManual:
	default:
		return &ValidationError{Path: "placement.mode", Err: fmt.Errorf("placement.mode must be one of: cascade, grid, manual")}
	}
	if c.Placement.Step < 0 {
		return &ValidationError{Path: "placement.step", Err: fmt.Errorf("step must be >= 0")}
	}
	if c.Placement.Gap < 0 {
		return &ValidationError{Path: "placement.gap", Err: fmt.Errorf("gap must be >= 0")}
	}

	if c.DefaultPanelSize.Width < panel.MinWidth {
		return &ValidationError{Path: "default_panel_size.width", Err: fmt.Errorf("width must be >= %d", panel.MinWidth)}
	}
	if c.DefaultPanelSize.Height < panel.MinHeight {
		return &ValidationError{Path: "default_panel_size.height", Err: fmt.Errorf("height must be >= %d", panel.MinHeight)}
	}

	seen := make(map[string]int, len(c.Panels))
	for i, p := range c.Panels {
		path := fmt.Sprintf("panels[%d]", i)
		id := p.PanelID()
		if id == "" {
			return &ValidationError{Path: path, Err: fmt.Errorf("panel needs an id or a title")}
		}
		if prev, ok := seen[id]; ok {
			return &ValidationError{Path: path + ".id", Err: fmt.Errorf("duplicate panel id %q (also used by panels[%d])", id, prev)}
		}
		seen[id] = i
		if !p.AppKind().Valid() {
			return &ValidationError{Path: path + ".app", Err: fmt.Errorf("app must be one of: blank, browser, calculator, editor")}
		}
		if p.Width != nil && *p.Width < panel.MinWidth {
			return &ValidationError{Path: path + ".width", Err: fmt.Errorf("width must be >= %d", panel.MinWidth)}
		}
		if p.Height != nil && *p.Height < panel.MinHeight {
			return &ValidationError{Path: path + ".height", Err: fmt.Errorf("height must be >= %d", panel.MinHeight)}
		}
	}

	if strings.TrimSpace(c.Web.Listen) == "" {
		return &ValidationError{Path: "web.listen", Err: fmt.Errorf("web.listen is required")}
	}
	if c.TUI.CellWidth <= 0 || c.TUI.CellHeight <= 0 {
		return &ValidationError{Path: "tui", Err: fmt.Errorf("cell_width and cell_height must be positive")}
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}
	if c.Logging.MaxSizeMB <= 0 {
		return &ValidationError{Path: "logging.max_size_mb", Err: fmt.Errorf("max_size_mb must be > 0")}
	}
	if c.Logging.MaxFiles <= 0 {
		return &ValidationError{Path: "logging.max_files", Err: fmt.Errorf("max_files must be > 0")}
	}

	return nil
}

func slug(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
