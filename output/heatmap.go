package output

import (
	"fmt"
	"io"
	"os"

	"github.com/ChristianF88/crashgrid/dataset"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
	log "github.com/sirupsen/logrus"
)

// PlotHeatmap writes an interactive echarts page for the frame to filename
func PlotHeatmap(frame *Frame, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("could not create heatmap file %s: %w", filename, err)
	}
	defer f.Close()

	if err := WriteHeatmap(frame, f); err != nil {
		return err
	}

	log.Infof("Heatmap saved to %s", filename)
	return nil
}

// WriteHeatmap renders the echarts page. Only labelled cells become data,
// so inactive cells stay empty exactly like the grid.
func WriteHeatmap(frame *Frame, w io.Writer) error {
	var heatmapData []opts.HeatMapData
	for _, c := range frame.LabeledCells() {
		heatmapData = append(heatmapData, opts.HeatMapData{
			Value: [3]interface{}{c.Col, c.Row, c.Frequency},
			Name:  fmt.Sprintf("%s / %s", c.Severity, c.Lighting), // shown in tooltip via {b}
		})
	}

	colors := []string{frame.Legend.Stops[0].Color, frame.Legend.Stops[len(frame.Legend.Stops)-1].Color}

	heatmap := charts.NewHeatMap()
	heatmap.SetGlobalOptions(
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(false),
		}),
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle:       "Crash Severity by Lighting Condition",
			Width:           fmt.Sprintf("%.0fpx", frame.Canvas.Width),
			Height:          fmt.Sprintf("%.0fpx", frame.Canvas.Height),
			Theme:           types.ThemeWesteros,
			BackgroundColor: "transparent",
		}),
		charts.WithTitleOpts(opts.Title{
			Title: "Crash Frequency by Severity and Lighting",
			Left:  "center",
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Trigger: "item",
			Formatter: opts.FuncOpts(`function (params) {
		return params.name + '<br />Frequency: ' + params.value[2];
	}`),
		}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show: opts.Bool(true),
			Min:  float32(frame.Metadata.Domain[0]),
			Max:  float32(frame.Metadata.Domain[1]),
			InRange: &opts.VisualMapInRange{
				Color: colors,
			},
			Orient: "vertical",
			Right:  "5%",
			Top:    "middle",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "Lighting",
			Type: "category",
			Data: dataset.ColumnLabels(),
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "Severity",
			Type: "category",
			Data: dataset.RowLabels(),
		}),
	)

	heatmap.AddSeries("Frequency", heatmapData,
		charts.WithLabelOpts(opts.Label{
			Show:     opts.Bool(true),
			Position: "inside",
		}),
	)

	page := components.NewPage()
	page.SetLayout(components.PageFlexLayout)
	page.AddCharts(heatmap)

	if err := page.Render(w); err != nil {
		return fmt.Errorf("rendering heatmap: %w", err)
	}
	return nil
}
