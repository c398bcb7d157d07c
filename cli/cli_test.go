package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ChristianF88/crashgrid/config"
	"github.com/ChristianF88/crashgrid/heatmap"
	"github.com/ChristianF88/crashgrid/output"
	"github.com/ChristianF88/crashgrid/testutil"
	log "github.com/sirupsen/logrus"
)

// run executes the command line against a fresh app and returns its output
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	level := log.GetLevel()
	t.Cleanup(func() { log.SetLevel(level) })

	var buf bytes.Buffer
	app := NewApp()
	app.Writer = &buf
	app.ErrWriter = &buf
	err := app.Run(append([]string{"crashgrid"}, args...))
	return buf.String(), err
}

func TestParseDate(t *testing.T) {
	want := time.Date(2024, 6, 1, 13, 45, 0, 0, time.UTC)
	if got := parseDate("2024-06-01T13:45:00Z"); !got.Equal(want) {
		t.Errorf("parseDate() = %v, want %v", got, want)
	}

	before := time.Now()
	if got := parseDate(""); got.Before(before) {
		t.Errorf("parseDate(\"\") = %v, want now", got)
	}
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"json", false},
		{"echarts", false},
		{"png", true},
		{"", true},
		{"SVG", true},
	}
	for _, tt := range tests {
		err := validateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("validateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateOutPath(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"empty", "", false},
		{"existing directory", filepath.Join(dir, "grid.svg"), false},
		{"current directory", "grid.svg", false},
		{"missing directory", filepath.Join(dir, "missing", "grid.svg"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateOutPath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateOutPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}

func TestDataCommandJSON(t *testing.T) {
	out, err := run(t, "data")
	if err != nil {
		t.Fatalf("data error: %v", err)
	}

	var got dataOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(got.Points) != 21 {
		t.Errorf("points = %d, want 21", len(got.Points))
	}
	if len(got.Rows) != 3 || len(got.Columns) != 7 {
		t.Errorf("labels = %d rows, %d columns", len(got.Rows), len(got.Columns))
	}
	if got.Max != 80386 {
		t.Errorf("max = %d, want 80386", got.Max)
	}
}

func TestDataCommandCompact(t *testing.T) {
	out, err := run(t, "data", "--compact")
	if err != nil {
		t.Fatalf("data error: %v", err)
	}
	if strings.Count(out, "\n") != 1 {
		t.Errorf("compact output spans %d lines", strings.Count(out, "\n"))
	}
}

func TestDataCommandPlain(t *testing.T) {
	out, err := run(t, "data", "--plain")
	if err != nil {
		t.Fatalf("data error: %v", err)
	}
	for _, want := range []string{"21 data points", "fatal crash", "dark-not lighted", "80,386", "Total:"} {
		if !strings.Contains(out, want) {
			t.Errorf("plain output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderCommand(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		want       []string
		errorMatch string
	}{
		{
			name: "svg to stdout",
			args: []string{"render", "--row", "fatal crash", "--column", "daylight"},
			want: []string{`<svg id="grid"`, ">200</text>", "legendGradient"},
		},
		{
			name: "empty selection",
			args: []string{"render"},
			want: []string{`class="square"`},
		},
		{
			name: "json to stdout",
			args: []string{"render", "--format", "json", "--row", "injury crash", "--column", "dawn"},
			want: []string{`"active_rows"`, `"injury crash"`, `"1267"`},
		},
		{
			name:       "unknown format",
			args:       []string{"render", "--format", "png"},
			errorMatch: "invalid format",
		},
		{
			name:       "echarts needs a file",
			args:       []string{"render", "--format", "echarts"},
			errorMatch: "--out is required",
		},
		{
			name:       "unknown row",
			args:       []string{"render", "--row", "minor crash"},
			errorMatch: "unknown label",
		},
		{
			name:       "bad log level",
			args:       []string{"--logLevel", "loud", "render"},
			errorMatch: "invalid log level",
		},
		{
			name:       "missing config",
			args:       []string{"--config", "/nonexistent/crashgrid.toml", "render"},
			errorMatch: "failed to load config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.args...)
			if tt.errorMatch != "" {
				if err == nil {
					t.Fatalf("expected error containing %q, got none. Output: %s", tt.errorMatch, out)
				}
				if !strings.Contains(err.Error(), tt.errorMatch) {
					t.Errorf("error = %v, want %q", err, tt.errorMatch)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v. Output: %s", err, out)
			}
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output missing %q", w)
				}
			}
		})
	}
}

func TestRenderUnknownLabelIsSentinel(t *testing.T) {
	cfg := config.Default()
	cfg.MergeSelection([]string{"minor crash"}, nil)

	err := Render(cfg, &bytes.Buffer{}, formatSVG, "", false)
	if !errors.Is(err, heatmap.ErrUnknownLabel) {
		t.Errorf("Render() error = %v, want ErrUnknownLabel", err)
	}
}

func TestRenderJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.json")
	if _, err := run(t, "render", "--format", "json", "--compact", "--out", path,
		"--row", "fatal crash", "--column", "daylight", "--column", "unknown"); err != nil {
		t.Fatalf("render error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	var frame output.Frame
	if err := json.Unmarshal(data, &frame); err != nil {
		t.Fatalf("frame is not JSON: %v", err)
	}

	labeled := frame.LabeledCells()
	if len(labeled) != 2 {
		t.Fatalf("labelled cells = %d, want 2", len(labeled))
	}
	labels := map[string]bool{}
	for _, c := range labeled {
		labels[c.Label] = true
	}
	if !labels["200"] || !labels["0"] {
		t.Errorf("labels = %v, want 200 and 0", labels)
	}
}

func TestRenderEChartsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heatmap.html")
	if _, err := run(t, "render", "--format", "echarts", "--out", path, "--row", "injury crash"); err != nil {
		t.Fatalf("render error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if !strings.Contains(string(data), "Crash Severity by Lighting Condition") {
		t.Error("chart page is missing its title")
	}
}

func TestRenderFromConfigFile(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"toml", "crashgrid.toml", testutil.SampleTOML},
		{"yaml", "crashgrid.yaml", testutil.SampleYAML},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := testutil.WriteConfigFile(t, tt.file, tt.content)

			out, err := run(t, "--config", path, "render", "--format", "json")
			if err != nil {
				t.Fatalf("render error: %v", err)
			}
			var frame output.Frame
			if err := json.Unmarshal([]byte(out), &frame); err != nil {
				t.Fatalf("frame is not JSON: %v", err)
			}
			if got := len(frame.LabeledCells()); got != 2 {
				t.Errorf("labelled cells = %d, want 2 from the initial selection", got)
			}
			if frame.Metadata.Domain != [2]float64{0, 50000} {
				t.Errorf("domain = %v, want [0 50000]", frame.Metadata.Domain)
			}
			if frame.Metadata.TransitionMS != 150 {
				t.Errorf("transition = %dms, want 150ms", frame.Metadata.TransitionMS)
			}
		})
	}
}

func TestFlagsOverrideConfigSelection(t *testing.T) {
	path := testutil.WriteConfigFile(t, "crashgrid.toml", testutil.SampleTOML)

	out, err := run(t, "--config", path, "render", "--format", "json", "--column", "dawn")
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	var frame output.Frame
	if err := json.Unmarshal([]byte(out), &frame); err != nil {
		t.Fatalf("frame is not JSON: %v", err)
	}
	// rows come from the file, columns from the flag
	if len(frame.ActiveRows) != 1 || frame.ActiveRows[0] != "fatal crash" {
		t.Errorf("active rows = %v", frame.ActiveRows)
	}
	if len(frame.ActiveColumns) != 1 || frame.ActiveColumns[0] != "dawn" {
		t.Errorf("active columns = %v", frame.ActiveColumns)
	}
}

func TestLogLevelFlag(t *testing.T) {
	level := log.GetLevel()
	defer log.SetLevel(level)

	app := NewApp()
	app.Writer = &bytes.Buffer{}
	if err := app.Run([]string{"crashgrid", "--logLevel", "error", "data"}); err != nil {
		t.Fatalf("data error: %v", err)
	}
	if log.GetLevel() != log.ErrorLevel {
		t.Errorf("level = %v, want error", log.GetLevel())
	}
}

func TestServeStopsOnCancel(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Port = "0"

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan error, 1)
	go func() { done <- Serve(ctx, cfg) }()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve() did not return after cancel")
	}
}

func TestTUIRejectsUnknownLabel(t *testing.T) {
	_, err := run(t, "tui", "--column", "twilight")
	if err == nil || !strings.Contains(err.Error(), "unknown label") {
		t.Errorf("tui error = %v, want unknown label", err)
	}
}

func BenchmarkRenderSVG(b *testing.B) {
	cfg := config.Default()
	cfg.MergeSelection([]string{"fatal crash", "injury crash"}, []string{"daylight", "dusk"})
	var buf bytes.Buffer

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf.Reset()
		if err := Render(cfg, &buf, formatSVG, "", false); err != nil {
			b.Fatal(err)
		}
	}
}
