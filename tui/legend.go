package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/ChristianF88/crashgrid/colorscale"
	"github.com/ChristianF88/crashgrid/output"
)

// legendText draws the colour bar as lines of tview colour tags, maximum
// at the top, with the scale's ticks beside it
func legendText(scale colorscale.Scale, lines, tickCount int) string {
	if lines < 2 {
		lines = 2
	}

	ticks := make(map[int]string)
	for _, t := range scale.Ticks(tickCount) {
		line := int(math.Round((1 - scale.Normalize(t.Value)) * float64(lines-1)))
		ticks[line] = output.FormatNumber(int(t.Value))
	}

	var b strings.Builder
	for i := 0; i < lines; i++ {
		v := scale.Max - (scale.Max-scale.Min)*float64(i)/float64(lines-1)
		fmt.Fprintf(&b, "[%s]███[-]", scale.Hex(v))
		if label, ok := ticks[i]; ok {
			fmt.Fprintf(&b, " ─ %s", label)
		}
		b.WriteString("\n")
	}
	return b.String()
}
