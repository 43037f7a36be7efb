package panel

import "fmt"

// Affordance identifies which control started a drag and therefore which
// geometry transform the drag applies.
type Affordance int

const (
	AffordanceNone Affordance = iota
	AffordanceMove
	AffordanceResizeTop
	AffordanceResizeRight
	AffordanceResizeBottom
	AffordanceResizeLeft
	AffordanceResizeTopLeft
	AffordanceResizeTopRight
	AffordanceResizeBottomLeft
	AffordanceResizeBottomRight
)

var affordanceNames = map[Affordance]string{
	AffordanceNone:              "none",
	AffordanceMove:              "move",
	AffordanceResizeTop:         "resize-top",
	AffordanceResizeRight:       "resize-right",
	AffordanceResizeBottom:      "resize-bottom",
	AffordanceResizeLeft:        "resize-left",
	AffordanceResizeTopLeft:     "resize-top-left",
	AffordanceResizeTopRight:    "resize-top-right",
	AffordanceResizeBottomLeft:  "resize-bottom-left",
	AffordanceResizeBottomRight: "resize-bottom-right",
}

// String returns the affordance name used in logs and JSON.
func (a Affordance) String() string {
	if name, ok := affordanceNames[a]; ok {
		return name
	}
	return "unknown"
}

// ParseAffordance converts a name produced by String back to an Affordance.
func ParseAffordance(s string) (Affordance, error) {
	for a, name := range affordanceNames {
		if name == s {
			return a, nil
		}
	}
	return AffordanceNone, fmt.Errorf("unknown affordance %q", s)
}

// IsResize reports whether the affordance is one of the eight resize handles.
func (a Affordance) IsResize() bool {
	return a >= AffordanceResizeTop && a <= AffordanceResizeBottomRight
}

// ResizeAffordances lists the resize handles in hit-test priority order:
// corners first, then edges.
func ResizeAffordances() []Affordance {
	return []Affordance{
		AffordanceResizeTopLeft,
		AffordanceResizeTopRight,
		AffordanceResizeBottomLeft,
		AffordanceResizeBottomRight,
		AffordanceResizeTop,
		AffordanceResizeRight,
		AffordanceResizeBottom,
		AffordanceResizeLeft,
	}
}
