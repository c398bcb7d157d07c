package config

import (
	"errors"
	"testing"
	"time"

	"github.com/ChristianF88/crashgrid/heatmap"
	"github.com/ChristianF88/crashgrid/testutil"
)

func checkSample(t *testing.T, config *Config) {
	t.Helper()

	if config.Log.Level != "debug" {
		t.Errorf("Expected Level to be 'debug', got '%s'", config.Log.Level)
	}
	if config.Layout.CellSize != 60 {
		t.Errorf("Expected CellSize to be 60, got %v", config.Layout.CellSize)
	}
	if config.Layout.LegendHeight != 150 {
		t.Errorf("Expected LegendHeight to be 150, got %v", config.Layout.LegendHeight)
	}
	if config.Scale.Max != 50000 {
		t.Errorf("Expected Max to be 50000, got %v", config.Scale.Max)
	}
	if config.Scale.Dark != "navy" {
		t.Errorf("Expected Dark to be 'navy', got '%s'", config.Scale.Dark)
	}
	if config.Scale.Ticks != 4 {
		t.Errorf("Expected Ticks to be 4, got %d", config.Scale.Ticks)
	}
	if config.Scale.Transition != 150*time.Millisecond {
		t.Errorf("Expected Transition to be 150ms, got %s", config.Scale.Transition)
	}
	if config.Server.Port != "9090" {
		t.Errorf("Expected Port to be '9090', got '%s'", config.Server.Port)
	}
	if config.Output.PlotPath != "/tmp/crashgrid.html" {
		t.Errorf("Expected PlotPath to be '/tmp/crashgrid.html', got '%s'", config.Output.PlotPath)
	}
	rows, cols := config.InitialSelection()
	if len(rows) != 1 || rows[0] != "fatal crash" {
		t.Errorf("Expected rows [fatal crash], got %v", rows)
	}
	if len(cols) != 2 || cols[1] != "dusk" {
		t.Errorf("Expected columns [daylight dusk], got %v", cols)
	}
	if err := config.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
}

func TestLoadConfigTOML(t *testing.T) {
	path := testutil.WriteConfigFile(t, "crashgrid.toml", testutil.SampleTOML)

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	checkSample(t, config)
}

func TestLoadConfigYAML(t *testing.T) {
	for _, name := range []string{"crashgrid.yaml", "crashgrid.yml"} {
		t.Run(name, func(t *testing.T) {
			path := testutil.WriteConfigFile(t, name, testutil.SampleYAML)

			config, err := LoadConfig(path)
			if err != nil {
				t.Fatalf("Failed to load config: %v", err)
			}
			checkSample(t, config)
		})
	}
}

func TestLoadConfigKeepsDefaults(t *testing.T) {
	path := testutil.WriteConfigFile(t, "partial.toml", `
[scale]
dark = "#000080"
`)
	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	def := Default()
	if config.Layout.CellSize != def.Layout.CellSize {
		t.Errorf("Expected default CellSize %v, got %v", def.Layout.CellSize, config.Layout.CellSize)
	}
	if config.Scale.Max != 80000 || config.Scale.Light != "lightblue" {
		t.Errorf("Expected default domain and light colour, got max=%v light=%s", config.Scale.Max, config.Scale.Light)
	}
	if config.Scale.Dark != "#000080" {
		t.Errorf("Expected Dark to be '#000080', got '%s'", config.Scale.Dark)
	}
	if config.Scale.Transition != heatmap.DefaultTransition {
		t.Errorf("Expected default transition, got %s", config.Scale.Transition)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"bad toml", "bad.toml", "[scale\nmax = "},
		{"bad yaml", "bad.yaml", "scale: [unclosed"},
		{"bad transition", "t.toml", "[scale]\ntransition = \"soon\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := testutil.WriteConfigFile(t, tt.file, tt.content)
			if _, err := LoadConfig(path); err == nil {
				t.Error("Expected an error")
			}
		})
	}

	if _, err := LoadConfig(testutil.TempFilePath(t, "missing_*.toml")); err == nil {
		t.Error("Expected an error for a missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, true},
		{"zero cell", func(c *Config) { c.Layout.CellSize = 0 }, true},
		{"negative legend", func(c *Config) { c.Layout.LegendHeight = -1 }, true},
		{"inverted domain", func(c *Config) { c.Scale.Min, c.Scale.Max = 10, 10 }, true},
		{"unknown colour", func(c *Config) { c.Scale.Dark = "notacolour" }, true},
		{"bad baseline", func(c *Config) { c.Scale.Baseline = "#zz" }, true},
		{"zero ticks", func(c *Config) { c.Scale.Ticks = 0 }, true},
		{"negative transition", func(c *Config) { c.Scale.Transition = -time.Second }, true},
		{"unknown row", func(c *Config) { c.Initial.Rows = []string{"minor crash"} }, true},
		{"unknown column", func(c *Config) { c.Initial.Columns = []string{"noon"} }, true},
		{"known labels", func(c *Config) {
			c.Initial.Rows = []string{"injury crash"}
			c.Initial.Columns = []string{"dawn"}
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateInitialWrapsUnknownLabel(t *testing.T) {
	c := Default()
	c.Initial.Columns = []string{"twilight"}
	if err := c.ValidateInitial(); !errors.Is(err, heatmap.ErrUnknownLabel) {
		t.Errorf("Expected ErrUnknownLabel, got %v", err)
	}
}

func TestValidateServer(t *testing.T) {
	c := Default()
	if err := c.ValidateServer(); err != nil {
		t.Errorf("ValidateServer() error: %v", err)
	}
	c.Server.Port = ""
	if err := c.ValidateServer(); err == nil {
		t.Error("Expected error for empty port")
	}
}

func TestMergeSelection(t *testing.T) {
	c := Default()
	c.Initial.Rows = []string{"fatal crash"}
	c.Initial.Columns = []string{"dawn"}

	c.MergeSelection(nil, []string{"dusk", "unknown"})

	rows, cols := c.InitialSelection()
	if len(rows) != 1 || rows[0] != "fatal crash" {
		t.Errorf("rows overridden without flags: %v", rows)
	}
	if len(cols) != 2 || cols[0] != "dusk" {
		t.Errorf("columns not overridden: %v", cols)
	}
}

func TestNewHeatmapAppliesConfig(t *testing.T) {
	path := testutil.WriteConfigFile(t, "crashgrid.toml", testutil.SampleTOML)
	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	h, err := config.NewHeatmap(heatmap.Options{})
	if err != nil {
		t.Fatalf("NewHeatmap() error: %v", err)
	}
	if h.Layout().CellSize != 60 {
		t.Errorf("Expected CellSize 60, got %v", h.Layout().CellSize)
	}
	if h.Scale().Max != 50000 {
		t.Errorf("Expected Max 50000, got %v", h.Scale().Max)
	}
	if h.TransitionDuration() != 150*time.Millisecond {
		t.Errorf("Expected 150ms transition, got %s", h.TransitionDuration())
	}
	if h.Baseline().Hex() != "#d3d3d3" {
		t.Errorf("Expected lightgray baseline, got %s", h.Baseline().Hex())
	}
	// fatal crash with daylight and dusk: 200 and 19
	if got := len(h.Matches()); got != 2 {
		t.Errorf("Expected 2 matches, got %d", got)
	}
}

func TestBaselineFollowsLight(t *testing.T) {
	b, err := Default().Baseline()
	if err != nil || b != nil {
		t.Errorf("Baseline() = %v, %v; want nil, nil", b, err)
	}
}
