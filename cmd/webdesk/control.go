package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/1broseidon/webdesk/internal/desktop"
	"github.com/1broseidon/webdesk/internal/ipc"
	"github.com/1broseidon/webdesk/internal/mcp"
	"github.com/1broseidon/webdesk/internal/panel"
	"github.com/1broseidon/webdesk/internal/surface"
)

func runPanels(args []string) int {
	fs := flag.NewFlagSet("panels", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: webdesk panels [--json] [--visible]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "List panels in mount order.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	jsonOut := fs.Bool("json", false, "Output panel snapshots as JSON")
	visibleOnly := fs.Bool("visible", false, "Only list visible panels")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "panels takes no arguments")
		fs.Usage()
		return 2
	}

	panels, err := ipc.NewClient().ListPanels()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *visibleOnly {
		visible := panels[:0:0]
		for _, p := range panels {
			if p.Visible {
				visible = append(visible, p)
			}
		}
		panels = visible
	}
	if *jsonOut {
		return writeJSON(panels)
	}
	printPanels(panels)
	return 0
}

func printPanels(panels []panel.Snapshot) {
	tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tAPP\tLEFT\tTOP\tSIZE\tZ\tSTATE")
	for _, p := range panels {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%dx%d\t%d\t%s\n",
			p.ID, p.Title, p.App, p.Left, p.Top, p.Width, p.Height, p.ZIndex, panelState(p))
	}
	tw.Flush()
}

func panelState(p panel.Snapshot) string {
	switch {
	case !p.Visible:
		return "closed"
	case p.Focused:
		return "focused"
	}
	return "open"
}

func runPointer(args []string) int {
	fs := flag.NewFlagSet("pointer", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: webdesk pointer [--touch] <down|move|up|cancel> <x> <y>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Send one pointer event to the desktop. x is the left offset, y the top offset.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	touch := fs.Bool("touch", false, "Send as a touch event instead of a mouse event")
	jsonOut := fs.Bool("json", false, "Output the full result as JSON")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 3 {
		fmt.Fprintln(os.Stderr, "pointer requires <type> <x> <y>")
		fs.Usage()
		return 2
	}
	typ, err := surface.ParseEventType(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	coords, err := parseCoords(fs.Args()[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitCode(err)
	}

	ev := surface.Mouse(typ, coords[0], coords[1])
	if *touch {
		ev = surface.Touch(typ, coords[0], coords[1])
	}
	data, err := ipc.NewClient().Pointer(ev)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *jsonOut {
		return writeJSON(data)
	}
	if data.Hit != nil {
		fmt.Fprintf(stdout, "hit: %s\n", formatHit(*data.Hit))
	}
	fmt.Fprintf(stdout, "prevent_default: %v\n", data.PreventDefault)
	return 0
}

func runDrag(args []string) int {
	fs := flag.NewFlagSet("drag", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: webdesk drag [--steps N] <from_x> <from_y> <to_x> <to_y>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Press at the start point, move to the end point and release.")
		fmt.Fprintln(os.Stderr, "Pressing a title bar moves the panel; pressing an edge resizes it.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	steps := fs.Int("steps", 8, "Number of intermediate move events")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	coords, err := parseCoords(fs.Args())
	if err == nil && len(coords) != 4 {
		err = usageError{msg: "drag requires <from_x> <from_y> <to_x> <to_y>"}
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		if exitCode(err) == 2 {
			fs.Usage()
		}
		return exitCode(err)
	}

	out, err := mcp.Drag(ipc.NewClient(), mcp.DragPanelInput{
		FromX: coords[0],
		FromY: coords[1],
		ToX:   coords[2],
		ToY:   coords[3],
		Steps: *steps,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Fprintf(stdout, "hit: %s\n", formatHit(out.Hit))
	fmt.Fprintf(stdout, "dragged: %v\n", out.Dragged)
	if out.Panel != nil {
		p := out.Panel
		fmt.Fprintf(stdout, "panel: %s left=%d top=%d size=%dx%d\n", p.ID, p.Left, p.Top, p.Width, p.Height)
	}
	return 0
}

func runClose(args []string) int {
	return runPanelCommand("close", "Close (hide) a panel.", args, func(c *ipc.Client, id string) error {
		return c.ClosePanel(id)
	})
}

func runFocus(args []string) int {
	return runPanelCommand("focus", "Focus a panel and raise it above the others.", args, func(c *ipc.Client, id string) error {
		return c.FocusPanel(id)
	})
}

func runPanelCommand(name, summary string, args []string, do func(*ipc.Client, string) error) int {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: webdesk %s <panel-id>\n", name)
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, summary)
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "%s requires <panel-id>\n", name)
		fs.Usage()
		return 2
	}
	if err := do(ipc.NewClient(), fs.Arg(0)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runOpen(args []string) int {
	fs := flag.NewFlagSet("open", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: webdesk open [--app APP] [--fixed] <title>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Open a new panel on top of the desktop.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	app := fs.String("app", string(panel.AppBlank), "Panel content: blank, browser, calculator or editor")
	fixed := fs.Bool("fixed", false, "Open the panel without resize handles")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "open requires <title>")
		fs.Usage()
		return 2
	}

	resizable := !*fixed
	snap, err := ipc.NewClient().OpenPanel(desktop.OpenRequest{
		Title:     fs.Arg(0),
		App:       panel.App(*app),
		Resizable: &resizable,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Fprintln(stdout, snap.ID)
	return 0
}

func runReset(args []string) int {
	return runListCommand("reset", "Restore the configured panels and drop runtime panels.", args, func(c *ipc.Client) ([]panel.Snapshot, error) {
		return c.Reset()
	})
}

func runReload(args []string) int {
	return runListCommand("reload", "Re-read the config file the desktop was started with.", args, func(c *ipc.Client) ([]panel.Snapshot, error) {
		return c.Reload()
	})
}

func runListCommand(name, summary string, args []string, do func(*ipc.Client) ([]panel.Snapshot, error)) int {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: webdesk %s\n", name)
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, summary)
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintf(os.Stderr, "%s takes no arguments\n", name)
		fs.Usage()
		return 2
	}
	panels, err := do(ipc.NewClient())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	printPanels(panels)
	return 0
}

func parseCoords(args []string) ([]int, error) {
	out := make([]int, 0, len(args))
	for _, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return nil, usageError{msg: fmt.Sprintf("invalid coordinate %q", a)}
		}
		out = append(out, n)
	}
	return out, nil
}

func formatHit(h ipc.HitInfo) string {
	s := h.Kind
	if h.PanelID != "" {
		s += " " + h.PanelID
	}
	if h.Affordance != "" {
		s += " " + h.Affordance
	}
	if h.Button != "" {
		s += " " + h.Button
	}
	return s
}

func writeJSON(v any) int {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
