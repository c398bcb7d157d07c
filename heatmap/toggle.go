package heatmap

import (
	"errors"
	"fmt"
)

// ErrUnknownLabel is returned when a toggle names a label that has no control
var ErrUnknownLabel = errors.New("unknown label")

// ToggleSet holds one active flag per label of an ordered label list.
// Row and column controls each own a separate set.
type ToggleSet struct {
	labels []string
	active map[string]bool
}

// NewToggleSet creates a set with every label inactive
func NewToggleSet(labels []string) *ToggleSet {
	ts := &ToggleSet{
		labels: make([]string, len(labels)),
		active: make(map[string]bool, len(labels)),
	}
	copy(ts.labels, labels)
	for _, l := range labels {
		ts.active[l] = false
	}
	return ts
}

// Labels returns the ordered labels
func (ts *ToggleSet) Labels() []string {
	out := make([]string, len(ts.labels))
	copy(out, ts.labels)
	return out
}

// Has reports whether label belongs to the set
func (ts *ToggleSet) Has(label string) bool {
	_, ok := ts.active[label]
	return ok
}

// Toggle flips a label and returns its new state
func (ts *ToggleSet) Toggle(label string) (bool, error) {
	cur, ok := ts.active[label]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownLabel, label)
	}
	ts.active[label] = !cur
	return !cur, nil
}

// Set forces a label to the given state
func (ts *ToggleSet) Set(label string, on bool) error {
	if _, ok := ts.active[label]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownLabel, label)
	}
	ts.active[label] = on
	return nil
}

// IsActive reports the flag of a label; unknown labels are inactive
func (ts *ToggleSet) IsActive(label string) bool {
	return ts.active[label]
}

// Active returns the active labels in list order
func (ts *ToggleSet) Active() []string {
	var out []string
	for _, l := range ts.labels {
		if ts.active[l] {
			out = append(out, l)
		}
	}
	return out
}

// Reset clears every flag
func (ts *ToggleSet) Reset() {
	for l := range ts.active {
		ts.active[l] = false
	}
}

// Style is the rendered appearance of a toggle control
type Style struct {
	Background string `json:"background"`
	Foreground string `json:"foreground"`
}

var (
	activeStyle   = Style{Background: "darkblue", Foreground: "white"}
	inactiveStyle = Style{Background: "", Foreground: "black"}
)

// ButtonStyle derives a control's appearance from its flag.
// An empty Background means the front end's default.
func ButtonStyle(active bool) Style {
	if active {
		return activeStyle
	}
	return inactiveStyle
}
