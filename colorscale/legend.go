package colorscale

// Stop is a gradient colour stop; Offset 0 is the bottom of the bar
type Stop struct {
	Offset float64 `json:"offset"`
	Color  string  `json:"color"`
}

// LegendTick is a tick placed along the bar, Y measured from the top
type LegendTick struct {
	Tick
	Y float64 `json:"y"`
}

// Legend is the vertical gradient bar with its axis: minimum at the bottom,
// maximum at the top.
type Legend struct {
	Height float64      `json:"height"`
	Stops  []Stop       `json:"stops"`
	Ticks  []LegendTick `json:"ticks"`
}

// Legend lays out the gradient and tick positions for a bar of the given height
func (s Scale) Legend(height float64, tickCount int) Legend {
	lg := Legend{
		Height: height,
		Stops: []Stop{
			{Offset: 0, Color: s.Hex(s.Min)},
			{Offset: 1, Color: s.Hex(s.Max)},
		},
	}
	for _, t := range s.Ticks(tickCount) {
		lg.Ticks = append(lg.Ticks, LegendTick{
			Tick: t,
			Y:    height * (1 - s.Normalize(t.Value)),
		})
	}
	return lg
}
