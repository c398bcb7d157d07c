package geometry

import "fmt"

// Cell identifies a grid square by zero-based row and column
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d, %d)", c.Row, c.Col)
}

// Point is a screen coordinate in canvas units
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis aligned rectangle
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Layout holds the fixed placement constants of the grid and the legend
type Layout struct {
	Rows         int
	Cols         int
	CellSize     float64
	OriginX      float64
	OriginY      float64
	LegendWidth  float64
	LegendHeight float64
	LegendGap    float64
}

// Default returns the 3x7 layout with 90 unit squares
func Default() Layout {
	return Layout{
		Rows:         3,
		Cols:         7,
		CellSize:     90,
		OriginX:      200,
		OriginY:      50,
		LegendWidth:  20,
		LegendHeight: 200,
		LegendGap:    50,
	}
}

// Validate checks that the layout can hold at least one cell
func (l Layout) Validate() error {
	if l.Rows <= 0 || l.Cols <= 0 {
		return fmt.Errorf("grid dimensions must be positive, got %dx%d", l.Rows, l.Cols)
	}
	if l.CellSize <= 0 {
		return fmt.Errorf("cellSize must be positive, got %v", l.CellSize)
	}
	if l.LegendWidth <= 0 || l.LegendHeight <= 0 {
		return fmt.Errorf("legend size must be positive, got %vx%v", l.LegendWidth, l.LegendHeight)
	}
	return nil
}

// Contains reports whether c lies inside the grid
func (l Layout) Contains(c Cell) bool {
	return c.Row >= 0 && c.Row < l.Rows && c.Col >= 0 && c.Col < l.Cols
}

// Index returns the row-major index of c
func (l Layout) Index(c Cell) int {
	return c.Row*l.Cols + c.Col
}

// CellFromIndex is the inverse of Index
func (l Layout) CellFromIndex(i int) Cell {
	return Cell{Row: i / l.Cols, Col: i % l.Cols}
}

// Cells returns every cell in row-major order
func (l Layout) Cells() []Cell {
	cells := make([]Cell, 0, l.Rows*l.Cols)
	for r := 0; r < l.Rows; r++ {
		for c := 0; c < l.Cols; c++ {
			cells = append(cells, Cell{Row: r, Col: c})
		}
	}
	return cells
}

// CellOrigin returns the top-left corner of a cell
func (l Layout) CellOrigin(c Cell) Point {
	return Point{
		X: l.OriginX + float64(c.Col)*l.CellSize,
		Y: l.OriginY + float64(c.Row)*l.CellSize,
	}
}

// CellCenter returns the anchor point for a cell's text overlay
func (l Layout) CellCenter(c Cell) Point {
	p := l.CellOrigin(c)
	p.X += l.CellSize / 2
	p.Y += l.CellSize / 2
	return p
}

// Bounds returns the container rectangle enclosing the full grid
func (l Layout) Bounds() Rect {
	return Rect{
		X:      l.OriginX,
		Y:      l.OriginY,
		Width:  float64(l.Cols) * l.CellSize,
		Height: float64(l.Rows) * l.CellSize,
	}
}

// Legend returns the gradient bar rectangle, placed right of the grid
func (l Layout) Legend() Rect {
	b := l.Bounds()
	return Rect{
		X:      b.X + b.Width + l.LegendGap,
		Y:      b.Y,
		Width:  l.LegendWidth,
		Height: l.LegendHeight,
	}
}

// Canvas returns the drawing surface size
func (l Layout) Canvas() (width, height float64) {
	b := l.Bounds()
	return b.Width + l.OriginX*2 + 100, b.Height + l.OriginY + 100
}

// CellAt resolves a canvas coordinate to the cell under it
func (l Layout) CellAt(x, y float64) (Cell, bool) {
	b := l.Bounds()
	if x < b.X || y < b.Y || x >= b.X+b.Width || y >= b.Y+b.Height {
		return Cell{}, false
	}
	c := Cell{
		Row: int((y - b.Y) / l.CellSize),
		Col: int((x - b.X) / l.CellSize),
	}
	return c, l.Contains(c)
}
