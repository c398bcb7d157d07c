package config

import (
	"fmt"

	"github.com/ChristianF88/crashgrid/dataset"
	"github.com/ChristianF88/crashgrid/heatmap"
)

// InitialSelection returns the labels active at startup
func (c *Config) InitialSelection() (rows, cols []string) {
	if c.Initial == nil {
		return nil, nil
	}
	return c.Initial.Rows, c.Initial.Columns
}

// ValidateInitial rejects labels that have no button
func (c *Config) ValidateInitial() error {
	rows, cols := c.InitialSelection()
	for _, l := range rows {
		if _, ok := dataset.RowIndex(l); !ok {
			return fmt.Errorf("initial row %w: %q", heatmap.ErrUnknownLabel, l)
		}
	}
	for _, l := range cols {
		if _, ok := dataset.ColumnIndex(l); !ok {
			return fmt.Errorf("initial column %w: %q", heatmap.ErrUnknownLabel, l)
		}
	}
	return nil
}

// MergeSelection overrides the configured selection with flag values.
// Flags win when any were given for that axis.
func (c *Config) MergeSelection(rows, cols []string) {
	if c.Initial == nil {
		c.Initial = &InitialConfig{}
	}
	if len(rows) > 0 {
		c.Initial.Rows = append([]string(nil), rows...)
	}
	if len(cols) > 0 {
		c.Initial.Columns = append([]string(nil), cols...)
	}
}

// NewHeatmap builds a heatmap from the configuration with the initial
// selection applied
func (c *Config) NewHeatmap(extra heatmap.Options) (*heatmap.Heatmap, error) {
	opts, err := c.HeatmapOptions()
	if err != nil {
		return nil, err
	}
	opts.Clock = extra.Clock
	opts.Inspect = extra.Inspect
	opts.Canvas = extra.Canvas

	h := heatmap.New(opts)
	rows, cols := c.InitialSelection()
	if len(rows) > 0 || len(cols) > 0 {
		if err := h.SetActive(rows, cols); err != nil {
			return nil, fmt.Errorf("applying initial selection: %w", err)
		}
	}
	return h, nil
}
