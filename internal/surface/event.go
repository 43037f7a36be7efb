package surface

import "fmt"

// EventType is the phase of a pointer event.
type EventType string

const (
	EventDown   EventType = "down"
	EventMove   EventType = "move"
	EventUp     EventType = "up"
	EventCancel EventType = "cancel"
)

// ParseEventType validates an event type name.
func ParseEventType(s string) (EventType, error) {
	switch t := EventType(s); t {
	case EventDown, EventMove, EventUp, EventCancel:
		return t, nil
	}
	return "", fmt.Errorf("unknown pointer event type %q (want down, move, up or cancel)", s)
}

// Source is the input device that produced an event.
type Source string

const (
	SourceMouse Source = "mouse"
	SourceTouch Source = "touch"
)

// Point is a pointer position in desktop pixels.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// PointerEvent is one low-level press, move or release from a mouse or a
// touch screen.
type PointerEvent struct {
	Type    EventType `json:"type"`
	Source  Source    `json:"source,omitempty"`
	X       int       `json:"x"`
	Y       int       `json:"y"`
	Touches []Point   `json:"touches,omitempty"`
}

// Position normalizes the event to one coordinate pair. Touch events use the
// first touch point only; a touch event without touch points (typically a
// touch end) falls back to X and Y.
func (e PointerEvent) Position() Point {
	if e.Source == SourceTouch && len(e.Touches) > 0 {
		return e.Touches[0]
	}
	return Point{X: e.X, Y: e.Y}
}

// Mouse builds a mouse event.
func Mouse(t EventType, x, y int) PointerEvent {
	return PointerEvent{Type: t, Source: SourceMouse, X: x, Y: y}
}

// Touch builds a single-touch event.
func Touch(t EventType, x, y int) PointerEvent {
	return PointerEvent{Type: t, Source: SourceTouch, Touches: []Point{{X: x, Y: y}}}
}
