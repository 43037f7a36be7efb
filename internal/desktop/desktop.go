// Package desktop owns one running desktop session: the interaction surface,
// its panels, and the subscribers watching them. Every host (web, terminal,
// IPC, config reload) goes through a Desktop, which serializes them.
package desktop

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/1broseidon/webdesk/internal/config"
	"github.com/1broseidon/webdesk/internal/layout"
	"github.com/1broseidon/webdesk/internal/panel"
	"github.com/1broseidon/webdesk/internal/surface"
)

var (
	ErrPanelNotFound = errors.New("panel not found")
	ErrPanelHidden   = errors.New("panel is hidden")
)

const subscriberBuffer = 16

// Options configures New.
type Options struct {
	Config *config.Config
	// Metrics sizes panel hit regions; zero uses panel.DefaultMetrics.
	Metrics panel.Metrics
	Logger  *slog.Logger
}

// OpenRequest describes a panel opened at runtime.
type OpenRequest struct {
	Title     string    `json:"title"`
	App       panel.App `json:"app,omitempty"`
	Resizable *bool     `json:"resizable,omitempty"`
}

// Status summarizes the session.
type Status struct {
	Desktop     config.Size `json:"desktop"`
	Panels      int         `json:"panels"`
	Visible     int         `json:"visible"`
	Focused     string      `json:"focused,omitempty"`
	Dragging    bool        `json:"dragging"`
	DragPanel   string      `json:"drag_panel,omitempty"`
	Affordance  string      `json:"affordance,omitempty"`
	Subscribers int         `json:"subscribers"`
}

// Desktop is a concurrency-safe desktop session.
type Desktop struct {
	mu      sync.Mutex
	cfg     *config.Config
	metrics panel.Metrics
	logger  *slog.Logger
	surface *surface.Surface
	changed bool

	subs    map[int]chan []panel.Snapshot
	nextSub int
}

// New builds a desktop from configuration.
func New(opts Options) (*Desktop, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	d := &Desktop{
		metrics: opts.Metrics,
		logger:  logger,
		subs:    make(map[int]chan []panel.Snapshot),
	}
	if err := d.build(cfg); err != nil {
		return nil, err
	}
	d.changed = false
	return d, nil
}

func (d *Desktop) build(cfg *config.Config) error {
	positions, err := layout.Place(cfg)
	if err != nil {
		return fmt.Errorf("place panels: %w", err)
	}

	s := surface.New(surface.Options{
		OnChange: func(panel.Snapshot) { d.changed = true },
		Hooks: panel.Callbacks{
			OnClose:    func(id string) { d.logger.Info("panel closed", "panel", id) },
			OnMinimize: func(id string) { d.logger.Info("minimize requested", "panel", id) },
			OnMaximize: func(id string) { d.logger.Info("maximize requested", "panel", id) },
		},
		Logger: d.logger,
	})
	for i, pc := range cfg.Panels {
		s.Add(panel.New(panel.Options{
			ID:        pc.PanelID(),
			Title:     pc.Title,
			App:       pc.AppKind(),
			Geometry:  positions[i],
			Resizable: pc.IsResizable(),
			Metrics:   d.metrics,
		}))
	}

	d.cfg = cfg
	d.surface = s
	d.changed = true
	return nil
}

// Config returns the configuration the desktop was last built from.
func (d *Desktop) Config() *config.Config {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cfg
}

// Metrics returns the hit region sizes panels are built with.
func (d *Desktop) Metrics() panel.Metrics {
	if d.metrics == (panel.Metrics{}) {
		return panel.DefaultMetrics()
	}
	return d.metrics
}

// Dispatch feeds one pointer event to the surface and returns its result
// with the panel state after the event.
func (d *Desktop) Dispatch(ev surface.PointerEvent) (surface.Result, []panel.Snapshot) {
	d.mu.Lock()
	defer d.mu.Unlock()

	res := d.surface.Dispatch(ev)
	d.publishLocked()
	return res, d.snapshotLocked()
}

// Cancel abandons any in-flight drag.
func (d *Desktop) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.surface.Cancel()
}

// Snapshot returns every panel, visible or not, in mount order.
func (d *Desktop) Snapshot() []panel.Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshotLocked()
}

// Stack returns the visible panels ordered bottom to top.
func (d *Desktop) Stack() []panel.Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()

	stack := d.surface.Stack()
	out := make([]panel.Snapshot, len(stack))
	for i, p := range stack {
		out[i] = p.Snapshot()
	}
	return out
}

// HitTest classifies points against the current stack under a single lock.
func (d *Desktop) HitTest(points []surface.Point) []panel.Hit {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]panel.Hit, len(points))
	for i, pt := range points {
		out[i] = d.surface.HitTest(pt.X, pt.Y)
	}
	return out
}

// Panel returns one panel by id.
func (d *Desktop) Panel(id string) (panel.Snapshot, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	p := d.surface.Panel(id)
	if p == nil {
		return panel.Snapshot{}, fmt.Errorf("%w: %s", ErrPanelNotFound, id)
	}
	return p.Snapshot(), nil
}

// Close hides a panel, as its close button would.
func (d *Desktop) Close(id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	p, err := d.visiblePanelLocked(id)
	if err != nil {
		return err
	}
	p.Close()
	d.publishLocked()
	return nil
}

// Focus raises and focuses a panel.
func (d *Desktop) Focus(id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, err := d.visiblePanelLocked(id); err != nil {
		return err
	}
	d.surface.FocusPanel(id)
	d.publishLocked()
	return nil
}

// FocusNext cycles focus through the visible panels. It returns the focused
// id, or "" when nothing is visible.
func (d *Desktop) FocusNext() string {
	d.mu.Lock()
	defer d.mu.Unlock()

	id := d.surface.FocusNext()
	d.publishLocked()
	return id
}

// Open mounts a new panel on top of the others and focuses it.
func (d *Desktop) Open(req OpenRequest) (panel.Snapshot, error) {
	app := req.App
	if app == "" {
		app = panel.AppBlank
	}
	if !app.Valid() {
		return panel.Snapshot{}, fmt.Errorf("unknown app %q", app)
	}
	title := req.Title
	if title == "" {
		title = "Untitled"
	}
	resizable := req.Resizable == nil || *req.Resizable

	d.mu.Lock()
	defer d.mu.Unlock()

	id := uuid.NewString()
	p := panel.New(panel.Options{
		ID:        id,
		Title:     title,
		App:       app,
		Geometry:  layout.Next(d.cfg, len(d.surface.Panels())),
		Resizable: resizable,
		Metrics:   d.metrics,
	})
	d.surface.Add(p)
	d.surface.RaiseFocus(id)
	d.publishLocked()

	d.logger.Info("panel opened", "panel", id, "title", title, "app", string(app))
	return p.Snapshot(), nil
}

// Reset rebuilds the desktop from its current configuration.
func (d *Desktop) Reset() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.build(d.cfg); err != nil {
		return err
	}
	d.publishLocked()
	d.logger.Info("desktop reset", "panels", len(d.cfg.Panels))
	return nil
}

// Reload rebuilds the desktop from a new configuration. On error the
// current desktop is left untouched.
func (d *Desktop) Reload(cfg *config.Config) error {
	if cfg == nil {
		return fmt.Errorf("reload: nil config")
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.build(cfg); err != nil {
		return err
	}
	d.publishLocked()
	d.logger.Info("desktop reloaded", "panels", len(cfg.Panels))
	return nil
}

// Status summarizes the session.
func (d *Desktop) Status() Status {
	d.mu.Lock()
	defer d.mu.Unlock()

	st := Status{
		Desktop:     d.cfg.Desktop,
		Focused:     d.surface.Focused(),
		Subscribers: len(d.subs),
	}
	for _, p := range d.surface.Panels() {
		st.Panels++
		if p.Visible() {
			st.Visible++
		}
	}
	if drag, ok := d.surface.Drag(); ok {
		st.Dragging = true
		st.DragPanel = drag.PanelID
		st.Affordance = drag.Affordance.String()
	}
	return st
}

// Subscribe returns a channel receiving the full panel list after every
// change, and a function that ends the subscription. A subscriber that falls
// behind misses intermediate states.
func (d *Desktop) Subscribe() (<-chan []panel.Snapshot, func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	id := d.nextSub
	d.nextSub++
	ch := make(chan []panel.Snapshot, subscriberBuffer)
	d.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			d.mu.Lock()
			defer d.mu.Unlock()
			delete(d.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

func (d *Desktop) visiblePanelLocked(id string) (*panel.Panel, error) {
	p := d.surface.Panel(id)
	if p == nil {
		return nil, fmt.Errorf("%w: %s", ErrPanelNotFound, id)
	}
	if !p.Visible() {
		return nil, fmt.Errorf("%w: %s", ErrPanelHidden, id)
	}
	return p, nil
}

func (d *Desktop) snapshotLocked() []panel.Snapshot {
	panels := d.surface.Panels()
	out := make([]panel.Snapshot, len(panels))
	for i, p := range panels {
		out[i] = p.Snapshot()
	}
	return out
}

func (d *Desktop) publishLocked() {
	if !d.changed {
		return
	}
	d.changed = false
	if len(d.subs) == 0 {
		return
	}
	snaps := d.snapshotLocked()
	for _, ch := range d.subs {
		select {
		case ch <- snaps:
			continue
		default:
		}
		// Full: drop the oldest state so the latest one always lands.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snaps:
		default:
		}
	}
}
