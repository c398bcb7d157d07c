package heatmap

import (
	"time"

	"github.com/ChristianF88/crashgrid/geometry"
	"github.com/lucasb-eyer/go-colorful"
)

// Canvas is the render context the updater writes into.
// Implementations must apply fills as transitions and labels immediately.
type Canvas interface {
	ResetCells(fill colorful.Color, d time.Duration)
	ClearLabels()
	FillCell(c geometry.Cell, fill colorful.Color, d time.Duration)
	DrawLabel(c geometry.Cell, text string)
}

// Transition animates a fill from one colour to another
type Transition struct {
	From     colorful.Color
	To       colorful.Color
	Start    time.Time
	Duration time.Duration
}

// At returns the colour visible at now, eased with cubic in-out
func (tr Transition) At(now time.Time) colorful.Color {
	if tr.Duration <= 0 || !now.Before(tr.Start.Add(tr.Duration)) {
		return tr.To
	}
	if !now.After(tr.Start) {
		return tr.From
	}
	t := float64(now.Sub(tr.Start)) / float64(tr.Duration)
	return tr.From.BlendRgb(tr.To, easeCubicInOut(t))
}

// Done reports whether the transition has reached its target
func (tr Transition) Done(now time.Time) bool {
	return tr.Duration <= 0 || !now.Before(tr.Start.Add(tr.Duration))
}

func easeCubicInOut(t float64) float64 {
	t *= 2
	if t <= 1 {
		return t * t * t / 2
	}
	t -= 2
	return (t*t*t + 2) / 2
}

// CellState is the visible state of one cell at a point in time
type CellState struct {
	Cell      geometry.Cell
	Fill      colorful.Color
	Target    colorful.Color
	Label     string
	Labeled   bool
	Animating bool
}

// Grid is the in-memory document model of the rendered cells.
// It is not safe for concurrent use; Heatmap serialises access.
type Grid struct {
	layout  geometry.Layout
	clock   func() time.Time
	fills   []Transition
	labels  []string
	labeled []bool
}

// NewGrid creates a grid with every cell at the baseline fill
func NewGrid(layout geometry.Layout, baseline colorful.Color, clock func() time.Time) *Grid {
	if clock == nil {
		clock = time.Now
	}
	n := layout.Rows * layout.Cols
	g := &Grid{
		layout:  layout,
		clock:   clock,
		fills:   make([]Transition, n),
		labels:  make([]string, n),
		labeled: make([]bool, n),
	}
	now := clock()
	for i := range g.fills {
		g.fills[i] = Transition{From: baseline, To: baseline, Start: now}
	}
	return g
}

// Layout returns the grid geometry
func (g *Grid) Layout() geometry.Layout {
	return g.layout
}

// retarget starts a new transition from whatever colour is showing now
func (g *Grid) retarget(i int, fill colorful.Color, d time.Duration, now time.Time) {
	g.fills[i] = Transition{
		From:     g.fills[i].At(now),
		To:       fill,
		Start:    now,
		Duration: d,
	}
}

func (g *Grid) ResetCells(fill colorful.Color, d time.Duration) {
	now := g.clock()
	for i := range g.fills {
		g.retarget(i, fill, d, now)
	}
}

func (g *Grid) ClearLabels() {
	for i := range g.labels {
		g.labels[i] = ""
		g.labeled[i] = false
	}
}

// FillCell ignores cells outside the grid
func (g *Grid) FillCell(c geometry.Cell, fill colorful.Color, d time.Duration) {
	if !g.layout.Contains(c) {
		return
	}
	g.retarget(g.layout.Index(c), fill, d, g.clock())
}

func (g *Grid) DrawLabel(c geometry.Cell, text string) {
	if !g.layout.Contains(c) {
		return
	}
	i := g.layout.Index(c)
	g.labels[i] = text
	g.labeled[i] = true
}

// Cell returns the state of one cell at the grid clock's now
func (g *Grid) Cell(c geometry.Cell) (CellState, bool) {
	if !g.layout.Contains(c) {
		return CellState{}, false
	}
	return g.state(g.layout.Index(c), g.clock()), true
}

func (g *Grid) state(i int, now time.Time) CellState {
	tr := g.fills[i]
	return CellState{
		Cell:      g.layout.CellFromIndex(i),
		Fill:      tr.At(now),
		Target:    tr.To,
		Label:     g.labels[i],
		Labeled:   g.labeled[i],
		Animating: !tr.Done(now),
	}
}

// Snapshot returns every cell in row-major order as seen at now
func (g *Grid) Snapshot() []CellState {
	now := g.clock()
	out := make([]CellState, len(g.fills))
	for i := range g.fills {
		out[i] = g.state(i, now)
	}
	return out
}

// Transitions returns the current per-cell transitions in row-major order
func (g *Grid) Transitions() []Transition {
	out := make([]Transition, len(g.fills))
	copy(out, g.fills)
	return out
}

// Animating reports whether any cell is still mid-transition
func (g *Grid) Animating() bool {
	now := g.clock()
	for _, tr := range g.fills {
		if !tr.Done(now) {
			return true
		}
	}
	return false
}
