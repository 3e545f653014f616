// Package cursor implements keyboard navigation over a rendered flow.
//
// The tracker keeps no state between commands. Every call receives the
// selectable elements of the current surface, finds the focused one and
// returns where focus goes next. Directional commands pick the nearest
// element on the requested side; tab commands walk the containment tree
// formed by element bounds.
package cursor

import (
	"fmt"
	"strings"
)

// Rect is an axis-aligned bounding box in surface coordinates.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (r Rect) Left() float64   { return r.X }
func (r Rect) Top() float64    { return r.Y }
func (r Rect) Right() float64  { return r.X + r.Width }
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Center returns the midpoint of r.
func (r Rect) Center() (x, y float64) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// Contains reports whether o lies inside r. Equal rects contain each other.
func (r Rect) Contains(o Rect) bool {
	return o.Left() >= r.Left() && o.Right() <= r.Right() &&
		o.Top() >= r.Top() && o.Bottom() <= r.Bottom()
}

// Area returns the rect's area.
func (r Rect) Area() float64 { return r.Width * r.Height }

// Element is one focusable item of the surface.
type Element struct {
	// SelectedID is the selection id: the structural path of the action.
	SelectedID string `json:"selected_id"`
	// FocusedID identifies the focus target. A node and its edge menu share
	// a SelectedID but have distinct FocusedIDs.
	FocusedID    string `json:"focused_id"`
	Tab          string `json:"tab,omitempty"`
	IsNode       bool   `json:"is_node,omitempty"`
	IsEdgeMenu   bool   `json:"is_edge_menu,omitempty"`
	IsInlineLink bool   `json:"is_inline_link,omitempty"`
	Bounds       Rect   `json:"bounds"`
}

// Command is a navigation command.
type Command int

const (
	Up Command = iota
	Down
	Left
	Right
	Next
	Previous
)

var commandNames = [...]string{Up: "up", Down: "down", Left: "left", Right: "right", Next: "next", Previous: "previous"}

func (c Command) String() string {
	if int(c) >= 0 && int(c) < len(commandNames) {
		return commandNames[c]
	}
	return fmt.Sprintf("command(%d)", int(c))
}

// ParseCommand parses a command name. "tab" and "shift+tab" are accepted
// for Next and Previous.
func ParseCommand(s string) (Command, error) {
	switch strings.ToLower(s) {
	case "tab":
		return Next, nil
	case "shift+tab", "shift-tab":
		return Previous, nil
	}
	for i, name := range commandNames {
		if strings.EqualFold(s, name) {
			return Command(i), nil
		}
	}
	return 0, fmt.Errorf("unknown navigation command %q", s)
}

// MarshalText encodes c by name.
func (c Command) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// UnmarshalText decodes a command name.
func (c *Command) UnmarshalText(b []byte) error {
	v, err := ParseCommand(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Result is where focus lands after a command.
type Result struct {
	Selected string `json:"selected"`
	Focused  string `json:"focused"`
	Tab      string `json:"tab,omitempty"`
}

func resultOf(e Element) Result {
	return Result{Selected: e.SelectedID, Focused: e.FocusedID, Tab: e.Tab}
}
