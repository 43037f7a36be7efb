package panel

const (
	TitleBarHeight = 30
	BodyMargin     = 3

	// MinWidth and MinHeight are the size floor every geometry mutation
	// must respect.
	MinWidth  = 200
	MinHeight = TitleBarHeight + 3*BodyMargin

	// ZBaseline is the stacking rank of every unfocused visible panel and
	// ZTop the rank of the focused one.
	ZBaseline = 0
	ZTop      = 1
)

// App names the presentational content hosted by a panel.
type App string

const (
	AppBlank      App = "blank"
	AppBrowser    App = "browser"
	AppCalculator App = "calculator"
	AppEditor     App = "editor"
)

// Valid reports whether the app is one the hosts know how to draw.
func (a App) Valid() bool {
	switch a {
	case AppBlank, AppBrowser, AppCalculator, AppEditor:
		return true
	}
	return false
}

// Callbacks are invoked by a panel on local state transitions. Any of them
// may be nil.
type Callbacks struct {
	OnClose    func(id string)
	OnFocus    func(id string)
	OnBlur     func(id string)
	OnMinimize func(id string)
	OnMaximize func(id string)
}

// Panel is one on-screen window. Geometry, stacking rank and visibility are
// written by the owner; the panel itself only flips its own visibility on
// close and its highlight on focus and blur.
type Panel struct {
	id        string
	title     string
	app       App
	geometry  Rect
	zOrder    int
	visible   bool
	focused   bool
	resizable bool
	metrics   Metrics
	callbacks Callbacks
}

// Options configures a new panel.
type Options struct {
	ID        string
	Title     string
	App       App
	Geometry  Rect
	Resizable bool
	Metrics   Metrics
	Callbacks Callbacks
}

// New creates a visible, unfocused panel at the baseline rank.
func New(opts Options) *Panel {
	app := opts.App
	if app == "" {
		app = AppBlank
	}
	metrics := opts.Metrics
	if metrics == (Metrics{}) {
		metrics = DefaultMetrics()
	}
	return &Panel{
		id:        opts.ID,
		title:     opts.Title,
		app:       app,
		geometry:  opts.Geometry,
		zOrder:    ZBaseline,
		visible:   true,
		resizable: opts.Resizable,
		metrics:   metrics,
		callbacks: opts.Callbacks,
	}
}

func (p *Panel) ID() string { return p.id }
func (p *Panel) Title() string { return p.title }
func (p *Panel) App() App { return p.app }
func (p *Panel) Geometry() Rect { return p.geometry }
func (p *Panel) ZOrder() int { return p.zOrder }
func (p *Panel) Visible() bool { return p.visible }
func (p *Panel) Focused() bool { return p.focused }
func (p *Panel) Resizable() bool { return p.resizable }
func (p *Panel) Metrics() Metrics { return p.metrics }

// SetGeometry replaces the panel rectangle.
func (p *Panel) SetGeometry(r Rect) { p.geometry = r }

// SetZOrder replaces the panel stacking rank.
func (p *Panel) SetZOrder(z int) { p.zOrder = z }

// SetCallbacks replaces the owner callbacks.
func (p *Panel) SetCallbacks(cb Callbacks) { p.callbacks = cb }

// Close hides the panel. Closing an already hidden panel does nothing.
func (p *Panel) Close() {
	if !p.visible {
		return
	}
	p.visible = false
	if p.focused {
		p.Blur()
	}
	if p.callbacks.OnClose != nil {
		p.callbacks.OnClose(p.id)
	}
}

// Show makes a hidden panel visible again.
func (p *Panel) Show() { p.visible = true }

// Focus sets the highlight and notifies the owner. It reports whether the
// panel was not focused before.
func (p *Panel) Focus() bool {
	if p.focused {
		return false
	}
	p.focused = true
	if p.callbacks.OnFocus != nil {
		p.callbacks.OnFocus(p.id)
	}
	return true
}

// Blur clears the highlight.
func (p *Panel) Blur() {
	if !p.focused {
		return
	}
	p.focused = false
	if p.callbacks.OnBlur != nil {
		p.callbacks.OnBlur(p.id)
	}
}

// Minimize is a presentational stub: it only notifies the owner.
func (p *Panel) Minimize() {
	if p.callbacks.OnMinimize != nil {
		p.callbacks.OnMinimize(p.id)
	}
}

// Maximize is a presentational stub: it only notifies the owner.
func (p *Panel) Maximize() {
	if p.callbacks.OnMaximize != nil {
		p.callbacks.OnMaximize(p.id)
	}
}

// Snapshot is an immutable copy of a panel's render state.
type Snapshot struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	App       App    `json:"app"`
	Top       int    `json:"top"`
	Left      int    `json:"left"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	ZIndex    int    `json:"z_index"`
	Visible   bool   `json:"visible"`
	Focused   bool   `json:"focused"`
	Resizable bool   `json:"resizable"`
}

// Geometry returns the snapshot rectangle.
func (s Snapshot) Geometry() Rect {
	return Rect{Top: s.Top, Left: s.Left, Width: s.Width, Height: s.Height}
}

// Snapshot returns the current render state.
func (p *Panel) Snapshot() Snapshot {
	return Snapshot{
		ID:        p.id,
		Title:     p.title,
		App:       p.app,
		Top:       p.geometry.Top,
		Left:      p.geometry.Left,
		Width:     p.geometry.Width,
		Height:    p.geometry.Height,
		ZIndex:    p.zOrder,
		Visible:   p.visible,
		Focused:   p.focused,
		Resizable: p.resizable,
	}
}
