package tui

import (
	"github.com/ChristianF88/crashgrid/geometry"
	"github.com/ChristianF88/crashgrid/heatmap"
	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/tview"
)

// Terminal cell metrics in character cells
const (
	cellWidth    = 11
	cellHeight   = 3
	rowLabelSize = 23
	headerHeight = 1
)

// GridView draws the heatmap cells with true colour and handles the cell
// cursor and mouse clicks
type GridView struct {
	*tview.Box
	heatmap *heatmap.Heatmap
	cursor  geometry.Cell
	onClick func(geometry.Cell)
}

// NewGridView creates a grid bound to h. onClick receives clicked or
// inspected cells.
func NewGridView(h *heatmap.Heatmap, onClick func(geometry.Cell)) *GridView {
	g := &GridView{
		Box:     tview.NewBox(),
		heatmap: h,
		onClick: onClick,
	}
	g.SetBorder(true).SetTitle(" Crash Severity × Lighting ").SetTitleAlign(tview.AlignCenter)
	return g
}

// Cursor returns the highlighted cell
func (g *GridView) Cursor() geometry.Cell {
	return g.cursor
}

// MoveCursor shifts the highlighted cell, staying inside the grid
func (g *GridView) MoveCursor(dRow, dCol int) {
	l := g.heatmap.Layout()
	next := geometry.Cell{Row: g.cursor.Row + dRow, Col: g.cursor.Col + dCol}
	if l.Contains(next) {
		g.cursor = next
	}
}

// Draw renders labels, squares and overlays
func (g *GridView) Draw(screen tcell.Screen) {
	g.Box.DrawForSubclass(screen, g)
	x, y, width, height := g.GetInnerRect()

	rows := g.heatmap.RowLabels()
	cols := g.heatmap.ColumnLabels()

	for c, label := range cols {
		tview.Print(screen, label, x+rowLabelSize+c*cellWidth, y, cellWidth-1, tview.AlignCenter, tcell.ColorSilver)
	}
	for r, label := range rows {
		tview.Print(screen, label, x, y+headerHeight+r*cellHeight+cellHeight/2, rowLabelSize-1, tview.AlignRight, tcell.ColorWhite)
	}

	for _, st := range g.heatmap.Snapshot() {
		cx, cy := cellOrigin(x, y, st.Cell)
		if cx+cellWidth > x+width || cy+cellHeight > y+height {
			continue
		}
		style := tcell.StyleDefault.Background(toTcell(st.Fill))
		for dy := 0; dy < cellHeight; dy++ {
			for dx := 0; dx < cellWidth-1; dx++ {
				screen.SetContent(cx+dx, cy+dy, ' ', nil, style)
			}
		}
		if st.Labeled {
			labelStyle := style.Foreground(tcell.ColorWhite).Bold(true)
			mid := cy + cellHeight/2
			start := cx + (cellWidth-1-len(st.Label))/2
			for i, ch := range st.Label {
				screen.SetContent(start+i, mid, ch, nil, labelStyle)
			}
		}
		if st.Cell == g.cursor && g.HasFocus() {
			cursorStyle := style.Foreground(tcell.ColorYellow).Bold(true)
			screen.SetContent(cx, cy+cellHeight/2, '▶', nil, cursorStyle)
			screen.SetContent(cx+cellWidth-2, cy+cellHeight/2, '◀', nil, cursorStyle)
		}
	}
}

// cellOrigin returns the top-left screen position of a square
func cellOrigin(x, y int, c geometry.Cell) (int, int) {
	return x + rowLabelSize + c.Col*cellWidth, y + headerHeight + c.Row*cellHeight
}

// cellAtPoint resolves a screen position inside the grid's inner rect
func cellAtPoint(l geometry.Layout, x, y, px, py int) (geometry.Cell, bool) {
	dx := px - x - rowLabelSize
	dy := py - y - headerHeight
	if dx < 0 || dy < 0 {
		return geometry.Cell{}, false
	}
	// the last column of each square is a gap
	if dx%cellWidth == cellWidth-1 {
		return geometry.Cell{}, false
	}
	c := geometry.Cell{Row: dy / cellHeight, Col: dx / cellWidth}
	return c, l.Contains(c)
}

// InputHandler moves the cursor with the arrow keys and inspects on Enter
func (g *GridView) InputHandler() func(event *tcell.EventKey, setFocus func(p tview.Primitive)) {
	return g.WrapInputHandler(func(event *tcell.EventKey, setFocus func(p tview.Primitive)) {
		switch event.Key() {
		case tcell.KeyUp:
			g.MoveCursor(-1, 0)
		case tcell.KeyDown:
			g.MoveCursor(1, 0)
		case tcell.KeyLeft:
			g.MoveCursor(0, -1)
		case tcell.KeyRight:
			g.MoveCursor(0, 1)
		case tcell.KeyEnter:
			g.click(g.cursor)
		}
	})
}

// MouseHandler reports clicked squares
func (g *GridView) MouseHandler() func(action tview.MouseAction, event *tcell.EventMouse, setFocus func(p tview.Primitive)) (consumed bool, capture tview.Primitive) {
	return g.WrapMouseHandler(func(action tview.MouseAction, event *tcell.EventMouse, setFocus func(p tview.Primitive)) (consumed bool, capture tview.Primitive) {
		if action != tview.MouseLeftClick || !g.InRect(event.Position()) {
			return false, nil
		}
		setFocus(g)
		x, y, _, _ := g.GetInnerRect()
		px, py := event.Position()
		if c, ok := cellAtPoint(g.heatmap.Layout(), x, y, px, py); ok {
			g.cursor = c
			g.click(c)
		}
		return true, nil
	})
}

func (g *GridView) click(c geometry.Cell) {
	if g.onClick != nil {
		g.onClick(c)
	}
}

func toTcell(c colorful.Color) tcell.Color {
	r, gr, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(gr), int32(b))
}
