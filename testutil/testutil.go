package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteConfigFile writes content to a file named name inside a fresh temp
// directory and returns its path. The extension of name selects the decoder.
func WriteConfigFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test config file: %v", err)
	}
	return path
}

// SampleTOML is a complete configuration with non-default values
const SampleTOML = `
[log]
level = "debug"

[layout]
cellSize = 60
originX = 100
originY = 40
legendWidth = 16
legendHeight = 150
legendGap = 30

[scale]
min = 0
max = 50000
light = "#ffffff"
dark = "navy"
baseline = "lightgray"
ticks = 4
transition = "150ms"

[server]
port = "9090"

[output]
plotPath = "/tmp/crashgrid.html"

[initial]
rows = ["fatal crash"]
columns = ["daylight", "dusk"]
`

// SampleYAML mirrors SampleTOML
const SampleYAML = `
log:
  level: debug
layout:
  cellSize: 60
  originX: 100
  originY: 40
  legendWidth: 16
  legendHeight: 150
  legendGap: 30
scale:
  min: 0
  max: 50000
  light: "#ffffff"
  dark: navy
  baseline: lightgray
  ticks: 4
  transition: 150ms
server:
  port: 9090
output:
  plotPath: /tmp/crashgrid.html
initial:
  rows: ["fatal crash"]
  columns: [daylight, dusk]
`

// TempFilePath returns a cross-platform temporary file path
// with the given pattern. Does not create the file.
func TempFilePath(t *testing.T, pattern string) string {
	t.Helper()

	tmpFile, err := os.CreateTemp("", pattern)
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}

	path := tmpFile.Name()
	tmpFile.Close()
	os.Remove(path) // Remove immediately, just need the path

	return path
}
