package output

import (
	"encoding/json"
	"time"

	"github.com/ChristianF88/crashgrid/colorscale"
	"github.com/ChristianF88/crashgrid/dataset"
	"github.com/ChristianF88/crashgrid/geometry"
	"github.com/ChristianF88/crashgrid/heatmap"
	"github.com/ChristianF88/crashgrid/version"
)

// Frame is a complete, serialisable picture of the heatmap: controls,
// cells and legend.
type Frame struct {
	Metadata      Metadata          `json:"metadata"`
	Canvas        Size              `json:"canvas"`
	Bounds        geometry.Rect     `json:"bounds"`
	LegendBox     geometry.Rect     `json:"legend_box"`
	ActiveRows    []string          `json:"active_rows"`
	ActiveColumns []string          `json:"active_columns"`
	RowButtons    []Button          `json:"row_buttons"`
	ColumnButtons []Button          `json:"column_buttons"`
	Cells         []Cell            `json:"cells"`
	Legend        colorscale.Legend `json:"legend"`
}

// Metadata describes how the frame was produced
type Metadata struct {
	GeneratedAt  time.Time  `json:"generated_at"`
	Version      string     `json:"version"`
	Domain       [2]float64 `json:"domain"`
	Baseline     string     `json:"baseline"`
	TransitionMS int64      `json:"transition_ms"`
}

// Size is the canvas extent
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Button is one filter control
type Button struct {
	Label  string        `json:"label"`
	Active bool          `json:"active"`
	Style  heatmap.Style `json:"style"`
}

// Cell is one grid square as drawn
type Cell struct {
	Row       int     `json:"row"`
	Col       int     `json:"col"`
	Severity  string  `json:"severity"`
	Lighting  string  `json:"lighting"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Size      float64 `json:"size"`
	Fill      string  `json:"fill"`
	Frequency int     `json:"frequency"`
	Label     string  `json:"label,omitempty"`
	Labeled   bool    `json:"labeled"`
}

// NewFrame captures the heatmap's current state. Cell fills are the settled
// targets so a frame never depends on animation timing.
func NewFrame(h *heatmap.Heatmap, tickCount int) *Frame {
	st := h.State()
	layout := h.Layout()
	scale := h.Scale()
	w, ht := layout.Canvas()

	f := &Frame{
		Metadata: Metadata{
			GeneratedAt:  time.Now().UTC(),
			Version:      version.Version,
			Domain:       [2]float64{scale.Min, scale.Max},
			Baseline:     h.Baseline().Clamped().Hex(),
			TransitionMS: h.TransitionDuration().Milliseconds(),
		},
		Canvas:        Size{Width: w, Height: ht},
		Bounds:        layout.Bounds(),
		LegendBox:     layout.Legend(),
		ActiveRows:    nonNil(st.ActiveRows),
		ActiveColumns: nonNil(st.ActiveColumns),
		Legend:        scale.Legend(layout.LegendHeight, tickCount),
	}

	f.RowButtons = buttons(h.RowLabels(), st.ActiveRows)
	f.ColumnButtons = buttons(h.ColumnLabels(), st.ActiveColumns)

	rowLabels := dataset.RowLabels()
	colLabels := dataset.ColumnLabels()
	for _, cs := range st.Cells {
		origin := layout.CellOrigin(cs.Cell)
		c := Cell{
			Row:      cs.Cell.Row,
			Col:      cs.Cell.Col,
			Severity: rowLabels[cs.Cell.Row],
			Lighting: colLabels[cs.Cell.Col],
			X:        origin.X,
			Y:        origin.Y,
			Size:     layout.CellSize,
			Fill:     cs.Target.Clamped().Hex(),
			Label:    cs.Label,
			Labeled:  cs.Labeled,
		}
		if p, ok := dataset.Lookup(c.Severity, c.Lighting); ok {
			c.Frequency = p.Frequency
		}
		f.Cells = append(f.Cells, c)
	}
	return f
}

func buttons(labels, active []string) []Button {
	on := make(map[string]bool, len(active))
	for _, l := range active {
		on[l] = true
	}
	out := make([]Button, len(labels))
	for i, l := range labels {
		out[i] = Button{Label: l, Active: on[l], Style: heatmap.ButtonStyle(on[l])}
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// LabeledCells returns the cells currently showing a frequency
func (f *Frame) LabeledCells() []Cell {
	var out []Cell
	for _, c := range f.Cells {
		if c.Labeled {
			out = append(out, c)
		}
	}
	return out
}

// ToJSON converts the frame to pretty-printed JSON
func (f *Frame) ToJSON() ([]byte, error) {
	return json.MarshalIndent(f, "", "  ")
}

// ToCompactJSON converts the frame to compact JSON
func (f *Frame) ToCompactJSON() ([]byte, error) {
	return json.Marshal(f)
}
