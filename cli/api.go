package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/ChristianF88/crashgrid/config"
	"github.com/ChristianF88/crashgrid/dataset"
	"github.com/ChristianF88/crashgrid/heatmap"
	"github.com/ChristianF88/crashgrid/output"
	"github.com/ChristianF88/crashgrid/render"
	"github.com/ChristianF88/crashgrid/server"
	"github.com/ChristianF88/crashgrid/tui"
	log "github.com/sirupsen/logrus"
)

// Render builds the heatmap for cfg and writes one frame. An empty outPath
// writes to w.
func Render(cfg *config.Config, w io.Writer, format, outPath string, compact bool) error {
	h, err := cfg.NewHeatmap(heatmap.Options{})
	if err != nil {
		return err
	}
	frame := output.NewFrame(h, cfg.TickCount())
	log.WithFields(log.Fields{
		"format":  format,
		"rows":    frame.ActiveRows,
		"columns": frame.ActiveColumns,
	}).Debug("rendering frame")

	if format == formatECharts {
		return output.PlotHeatmap(frame, outPath)
	}

	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	switch format {
	case formatSVG:
		if err := render.SVG(w, frame, render.DefaultOptions()); err != nil {
			return fmt.Errorf("failed to write svg: %w", err)
		}
	case formatJSON:
		var data []byte
		if compact {
			data, err = frame.ToCompactJSON()
		} else {
			data, err = frame.ToJSON()
		}
		if err != nil {
			return fmt.Errorf("failed to encode frame: %w", err)
		}
		if _, err := fmt.Fprintln(w, string(data)); err != nil {
			return fmt.Errorf("failed to write frame: %w", err)
		}
	default:
		return fmt.Errorf("invalid format %q", format)
	}

	if outPath != "" {
		log.Infof("Frame saved to %s", outPath)
	}
	return nil
}

// TUI runs the terminal front end until the user quits
func TUI(cfg *config.Config) error {
	app, err := tui.NewAppFromConfig(cfg)
	if err != nil {
		return err
	}
	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// Serve runs the web front end until interrupted
func Serve(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.New(cfg).Run(ctx, ":"+cfg.Server.Port)
}

// dataOutput is the JSON shape of the data command
type dataOutput struct {
	Rows    []string            `json:"rows"`
	Columns []string            `json:"columns"`
	Points  []dataset.DataPoint `json:"points"`
	Max     int                 `json:"max"`
	Total   int                 `json:"total"`
}

// Data prints the dataset as JSON or as a plain table
func Data(w io.Writer, compact, plain bool) error {
	if plain {
		return writePlainData(w)
	}

	out := dataOutput{
		Rows:    dataset.RowLabels(),
		Columns: dataset.ColumnLabels(),
		Points:  dataset.Points(),
		Max:     dataset.Max(),
		Total:   dataset.Total(),
	}
	var (
		data []byte
		err  error
	)
	if compact {
		data, err = json.Marshal(out)
	} else {
		data, err = json.MarshalIndent(out, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to encode dataset: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func writePlainData(w io.Writer) error {
	fmt.Fprintf(w, "Crash frequency by severity and lighting (%d data points)\n\n", dataset.Len())

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "severity\tlighting\tfrequency\t")
	for _, p := range dataset.Points() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t\n", p.Severity, p.Lighting, output.FormatNumber(p.Frequency))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\nTotal: %s  Max: %s\n", output.FormatNumber(dataset.Total()), output.FormatNumber(dataset.Max()))
	return err
}
