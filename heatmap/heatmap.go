package heatmap

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/ChristianF88/crashgrid/colorscale"
	"github.com/ChristianF88/crashgrid/dataset"
	"github.com/ChristianF88/crashgrid/geometry"
	"github.com/lucasb-eyer/go-colorful"
	log "github.com/sirupsen/logrus"
)

// DefaultTransition is the fill animation length used by the front ends
const DefaultTransition = 300 * time.Millisecond

// CellInfo is what a cell reports when it is clicked or inspected
type CellInfo struct {
	Cell      geometry.Cell `json:"cell"`
	Row       string        `json:"row"`
	Column    string        `json:"column"`
	Active    bool          `json:"active"`
	Frequency int           `json:"frequency"`
	HasValue  bool          `json:"has_value"`
	Fill      string        `json:"fill"`
	Label     string        `json:"label,omitempty"`
}

// InspectFunc receives cell clicks
type InspectFunc func(CellInfo)

// Match is a data point selected by the current filters
type Match struct {
	Cell  geometry.Cell
	Point dataset.DataPoint
}

// Options configures a Heatmap; zero values fall back to the defaults
type Options struct {
	Layout     geometry.Layout
	Scale      colorscale.Scale
	Baseline   *colorful.Color
	Transition time.Duration
	Clock      func() time.Time
	Inspect    InspectFunc

	// Label lists default to the dataset's own rows and columns
	RowLabels    []string
	ColumnLabels []string

	// Canvas receives every write in addition to the built-in grid
	Canvas Canvas
}

// Heatmap owns the filter state and the render context and keeps them
// consistent: every toggle is followed by a full recompute of the grid.
type Heatmap struct {
	mu         sync.Mutex
	layout     geometry.Layout
	scale      colorscale.Scale
	baseline   colorful.Color
	transition time.Duration
	inspect    InspectFunc

	rows *ToggleSet
	cols *ToggleSet

	grid    *Grid
	canvas  Canvas
	matches []Match
}

// New creates a heatmap with every label inactive and all cells at baseline
func New(opts Options) *Heatmap {
	layout := opts.Layout
	if layout.CellSize == 0 {
		layout = geometry.Default()
	}
	scale := opts.Scale
	if scale.Max <= scale.Min {
		scale = colorscale.Default()
	}
	baseline := scale.Light
	if opts.Baseline != nil {
		baseline = *opts.Baseline
	}

	rowLabels := opts.RowLabels
	if rowLabels == nil {
		rowLabels = dataset.RowLabels()
	}
	colLabels := opts.ColumnLabels
	if colLabels == nil {
		colLabels = dataset.ColumnLabels()
	}

	// the grid is always sized by the dataset, only placement is configurable
	layout.Rows = len(dataset.RowLabels())
	layout.Cols = len(dataset.ColumnLabels())

	h := &Heatmap{
		layout:     layout,
		scale:      scale,
		baseline:   baseline,
		transition: opts.Transition,
		inspect:    opts.Inspect,
		rows:       NewToggleSet(rowLabels),
		cols:       NewToggleSet(colLabels),
	}
	h.grid = NewGrid(layout, baseline, opts.Clock)
	h.canvas = h.grid
	if opts.Canvas != nil {
		h.canvas = multiCanvas{h.grid, opts.Canvas}
	}
	return h
}

// Layout returns the grid geometry
func (h *Heatmap) Layout() geometry.Layout {
	return h.layout
}

// Scale returns the colour scale
func (h *Heatmap) Scale() colorscale.Scale {
	return h.scale
}

// Baseline returns the unhighlighted cell fill
func (h *Heatmap) Baseline() colorful.Color {
	return h.baseline
}

// TransitionDuration returns the fill animation length
func (h *Heatmap) TransitionDuration() time.Duration {
	return h.transition
}

// ToggleRow flips a row label and recomputes the grid
func (h *Heatmap) ToggleRow(label string) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	on, err := h.rows.Toggle(label)
	if err != nil {
		return false, err
	}
	h.update()
	return on, nil
}

// ToggleColumn flips a column label and recomputes the grid
func (h *Heatmap) ToggleColumn(label string) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	on, err := h.cols.Toggle(label)
	if err != nil {
		return false, err
	}
	h.update()
	return on, nil
}

// SetActive replaces both selections at once and recomputes the grid.
// On an unknown label nothing changes.
func (h *Heatmap) SetActive(rows, cols []string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, l := range rows {
		if !h.rows.Has(l) {
			return fmt.Errorf("row %w: %q", ErrUnknownLabel, l)
		}
	}
	for _, l := range cols {
		if !h.cols.Has(l) {
			return fmt.Errorf("column %w: %q", ErrUnknownLabel, l)
		}
	}

	h.rows.Reset()
	h.cols.Reset()
	for _, l := range rows {
		h.rows.Set(l, true)
	}
	for _, l := range cols {
		h.cols.Set(l, true)
	}
	h.update()
	return nil
}

// Reset deactivates every label
func (h *Heatmap) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.rows.Reset()
	h.cols.Reset()
	h.update()
}

// Update recomputes the grid from the current selection
func (h *Heatmap) Update() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.update()
}

func (h *Heatmap) update() {
	activeRows := h.rows.Active()
	activeCols := h.cols.Active()
	matches := h.match(activeRows, activeCols)

	h.canvas.ResetCells(h.baseline, h.transition)
	h.canvas.ClearLabels()

	for _, m := range matches {
		h.canvas.FillCell(m.Cell, h.scale.Color(float64(m.Point.Frequency)), h.transition)
		h.canvas.DrawLabel(m.Cell, strconv.Itoa(m.Point.Frequency))
	}
	h.matches = matches

	log.WithFields(log.Fields{
		"rows":    activeRows,
		"columns": activeCols,
		"matches": len(matches),
	}).Trace("heatmap updated")
}

// match looks up every active (row, column) pair; misses are dropped
func (h *Heatmap) match(rows, cols []string) []Match {
	var out []Match
	for _, row := range rows {
		for _, col := range cols {
			p, ok := dataset.Lookup(row, col)
			if !ok {
				continue
			}
			r, rok := dataset.RowIndex(row)
			c, cok := dataset.ColumnIndex(col)
			cell := geometry.Cell{Row: r, Col: c}
			if !rok || !cok || !h.layout.Contains(cell) {
				continue
			}
			out = append(out, Match{Cell: cell, Point: p})
		}
	}
	return out
}

// Matches returns the data points currently shown
func (h *Heatmap) Matches() []Match {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]Match, len(h.matches))
	copy(out, h.matches)
	return out
}

// ActiveRows returns the active row labels in display order
func (h *Heatmap) ActiveRows() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.rows.Active()
}

// ActiveColumns returns the active column labels in display order
func (h *Heatmap) ActiveColumns() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cols.Active()
}

// RowLabels returns every row control label
func (h *Heatmap) RowLabels() []string {
	return h.rows.Labels()
}

// ColumnLabels returns every column control label
func (h *Heatmap) ColumnLabels() []string {
	return h.cols.Labels()
}

// RowActive reports a single row flag
func (h *Heatmap) RowActive(label string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.rows.IsActive(label)
}

// ColumnActive reports a single column flag
func (h *Heatmap) ColumnActive(label string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cols.IsActive(label)
}

// Snapshot returns the visible state of every cell
func (h *Heatmap) Snapshot() []CellState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.grid.Snapshot()
}

// State is a consistent view of the selection and the cells
type State struct {
	ActiveRows    []string
	ActiveColumns []string
	Cells         []CellState
}

// State captures selection and cells under one lock
func (h *Heatmap) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return State{
		ActiveRows:    h.rows.Active(),
		ActiveColumns: h.cols.Active(),
		Cells:         h.grid.Snapshot(),
	}
}

// Animating reports whether a fill transition is still running
func (h *Heatmap) Animating() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.grid.Animating()
}

// Inspect describes one cell
func (h *Heatmap) Inspect(c geometry.Cell) (CellInfo, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	st, ok := h.grid.Cell(c)
	if !ok {
		return CellInfo{}, false
	}

	rowLabels := dataset.RowLabels()
	colLabels := dataset.ColumnLabels()
	info := CellInfo{
		Cell:   c,
		Row:    rowLabels[c.Row],
		Column: colLabels[c.Col],
		Fill:   st.Target.Clamped().Hex(),
		Label:  st.Label,
	}
	info.Active = h.rows.IsActive(info.Row) && h.cols.IsActive(info.Column)
	if p, found := dataset.Lookup(info.Row, info.Column); found {
		info.Frequency = p.Frequency
		info.HasValue = true
	}
	return info, true
}

// Click resolves a canvas coordinate to a cell and reports it to the
// inspection hook.
func (h *Heatmap) Click(x, y float64) (CellInfo, bool) {
	c, ok := h.layout.CellAt(x, y)
	if !ok {
		return CellInfo{}, false
	}
	return h.ClickCell(c)
}

// ClickCell reports an already resolved cell to the inspection hook
func (h *Heatmap) ClickCell(c geometry.Cell) (CellInfo, bool) {
	info, ok := h.Inspect(c)
	if !ok {
		return CellInfo{}, false
	}
	log.WithField("cell", c.String()).Debugf("cell clicked at row %d, column %d", c.Row+1, c.Col+1)
	if h.inspect != nil {
		h.inspect(info)
	}
	return info, true
}

type multiCanvas []Canvas

func (m multiCanvas) ResetCells(fill colorful.Color, d time.Duration) {
	for _, c := range m {
		c.ResetCells(fill, d)
	}
}

func (m multiCanvas) ClearLabels() {
	for _, c := range m {
		c.ClearLabels()
	}
}

func (m multiCanvas) FillCell(cell geometry.Cell, fill colorful.Color, d time.Duration) {
	for _, c := range m {
		c.FillCell(cell, fill, d)
	}
}

func (m multiCanvas) DrawLabel(cell geometry.Cell, text string) {
	for _, c := range m {
		c.DrawLabel(cell, text)
	}
}
