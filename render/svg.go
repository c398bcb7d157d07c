package render

import (
	"fmt"
	"html"
	"io"
	"strconv"
	"strings"

	"github.com/ChristianF88/crashgrid/output"
	"github.com/ChristianF88/crashgrid/pools"
)

// Options tweaks the generated document
type Options struct {
	// ID is the id attribute of the root svg element
	ID string
	// Standalone adds the XML namespace so the file opens on its own
	Standalone bool
}

// DefaultOptions renders a standalone document with id "grid"
func DefaultOptions() Options {
	return Options{ID: "grid", Standalone: true}
}

const tickSize = 6

// SVG writes the frame as an SVG document
func SVG(w io.Writer, f *output.Frame, opts Options) error {
	sb := pools.Pools.GetSVGBuilder()
	defer pools.Pools.ReturnSVGBuilder(sb)

	writeSVG(sb, f, opts)
	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("writing svg: %w", err)
	}
	return nil
}

// String renders the frame into a string
func String(f *output.Frame, opts Options) string {
	sb := pools.Pools.GetSVGBuilder()
	defer pools.Pools.ReturnSVGBuilder(sb)

	writeSVG(sb, f, opts)
	return sb.String()
}

func writeSVG(sb *strings.Builder, f *output.Frame, opts Options) {
	sb.WriteString("<svg")
	if opts.ID != "" {
		fmt.Fprintf(sb, ` id="%s"`, html.EscapeString(opts.ID))
	}
	if opts.Standalone {
		sb.WriteString(` xmlns="http://www.w3.org/2000/svg"`)
	}
	fmt.Fprintf(sb, ` width="%s" height="%s">`+"\n", num(f.Canvas.Width), num(f.Canvas.Height))

	writeStyle(sb, f.Metadata.TransitionMS)
	writeGrid(sb, f)
	writeLegend(sb, f)

	sb.WriteString("</svg>\n")
}

func writeStyle(sb *strings.Builder, transitionMS int64) {
	sb.WriteString("<style>\n")
	fmt.Fprintf(sb, "  .square { transition: fill %dms cubic-bezier(0.65, 0, 0.35, 1); cursor: pointer; }\n", transitionMS)
	sb.WriteString("  .container { fill: none; stroke: black; }\n")
	sb.WriteString("  .freq-label { fill: white; font-size: 14px; text-anchor: middle; dominant-baseline: central; pointer-events: none; }\n")
	sb.WriteString("  .axis text { font-size: 10px; font-family: sans-serif; }\n")
	sb.WriteString("</style>\n")
}

func writeGrid(sb *strings.Builder, f *output.Frame) {
	b := f.Bounds
	fmt.Fprintf(sb, `<rect class="container" x="%s" y="%s" width="%s" height="%s"/>`+"\n",
		num(b.X), num(b.Y), num(b.Width), num(b.Height))

	for _, c := range f.Cells {
		fmt.Fprintf(sb, `<rect class="square" data-row="%d" data-col="%d" x="%s" y="%s" width="%s" height="%s" style="fill: %s"/>`+"\n",
			c.Row, c.Col, num(c.X), num(c.Y), num(c.Size), num(c.Size), c.Fill)
	}

	// labels sit above every square so neighbours never cover them
	for _, c := range f.Cells {
		if !c.Labeled {
			continue
		}
		fmt.Fprintf(sb, `<text class="freq-label" x="%s" y="%s">%s</text>`+"\n",
			num(c.X+c.Size/2), num(c.Y+c.Size/2), html.EscapeString(c.Label))
	}
}

func writeLegend(sb *strings.Builder, f *output.Frame) {
	lg := f.Legend
	box := f.LegendBox

	sb.WriteString("<defs>\n")
	sb.WriteString(`  <linearGradient id="legendGradient" x1="0%" y1="100%" x2="0%" y2="0%">` + "\n")
	for _, s := range lg.Stops {
		fmt.Fprintf(sb, `    <stop offset="%s%%" stop-color="%s"/>`+"\n", num(s.Offset*100), s.Color)
	}
	sb.WriteString("  </linearGradient>\n</defs>\n")

	fmt.Fprintf(sb, `<g class="legend" transform="translate(%s, %s)">`+"\n", num(box.X), num(box.Y))
	fmt.Fprintf(sb, `  <rect width="%s" height="%s" style="fill: url(#legendGradient)"/>`+"\n", num(box.Width), num(lg.Height))

	fmt.Fprintf(sb, `  <g class="axis" transform="translate(%s, 0)" fill="none" text-anchor="start">`+"\n", num(box.Width))
	fmt.Fprintf(sb, `    <path class="domain" stroke="currentColor" d="M%d,0.5H0.5V%sH%d"/>`+"\n", tickSize, num(lg.Height+0.5), tickSize)
	for _, t := range lg.Ticks {
		fmt.Fprintf(sb, `    <g class="tick" transform="translate(0, %s)">`, num(t.Y+0.5))
		fmt.Fprintf(sb, `<line stroke="currentColor" x2="%d"/>`, tickSize)
		fmt.Fprintf(sb, `<text fill="currentColor" x="%d" dy="0.32em">%s</text></g>`+"\n", tickSize+3, html.EscapeString(t.Label))
	}
	sb.WriteString("  </g>\n</g>\n")
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
