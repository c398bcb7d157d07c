package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/ChristianF88/crashgrid/colorscale"
	"github.com/ChristianF88/crashgrid/geometry"
	"github.com/ChristianF88/crashgrid/heatmap"
	"github.com/lucasb-eyer/go-colorful"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

type LogConfig struct {
	Level string `toml:"level" yaml:"level"`
}

type LayoutConfig struct {
	CellSize     float64 `toml:"cellSize" yaml:"cellSize"`
	OriginX      float64 `toml:"originX" yaml:"originX"`
	OriginY      float64 `toml:"originY" yaml:"originY"`
	LegendWidth  float64 `toml:"legendWidth" yaml:"legendWidth"`
	LegendHeight float64 `toml:"legendHeight" yaml:"legendHeight"`
	LegendGap    float64 `toml:"legendGap" yaml:"legendGap"`
}

type ScaleConfig struct {
	Min   float64 `toml:"min" yaml:"min"`
	Max   float64 `toml:"max" yaml:"max"`
	Light string  `toml:"light" yaml:"light"`
	Dark  string  `toml:"dark" yaml:"dark"`
	// Baseline is the unhighlighted fill; empty means the light colour
	Baseline   string        `toml:"baseline" yaml:"baseline"`
	Ticks      int           `toml:"ticks" yaml:"ticks"`
	Transition time.Duration `toml:"transition" yaml:"transition"`

	// Raw value kept for error reporting when parsing fails
	TransitionRaw string `toml:"-" yaml:"-"`
}

type ServerConfig struct {
	Port string `toml:"port" yaml:"port"`
}

type OutputConfig struct {
	PlotPath string `toml:"plotPath" yaml:"plotPath"`
}

type InitialConfig struct {
	Rows    []string `toml:"rows" yaml:"rows"`
	Columns []string `toml:"columns" yaml:"columns"`
}

type Config struct {
	Log     *LogConfig     `toml:"log" yaml:"log"`
	Layout  *LayoutConfig  `toml:"layout" yaml:"layout"`
	Scale   *ScaleConfig   `toml:"scale" yaml:"scale"`
	Server  *ServerConfig  `toml:"server" yaml:"server"`
	Output  *OutputConfig  `toml:"output" yaml:"output"`
	Initial *InitialConfig `toml:"initial" yaml:"initial"`
}

// Default returns the built-in configuration
func Default() *Config {
	l := geometry.Default()
	return &Config{
		Log: &LogConfig{Level: "info"},
		Layout: &LayoutConfig{
			CellSize:     l.CellSize,
			OriginX:      l.OriginX,
			OriginY:      l.OriginY,
			LegendWidth:  l.LegendWidth,
			LegendHeight: l.LegendHeight,
			LegendGap:    l.LegendGap,
		},
		Scale: &ScaleConfig{
			Min:        colorscale.DefaultMin,
			Max:        colorscale.DefaultMax,
			Light:      colorscale.DefaultLight,
			Dark:       colorscale.DefaultDark,
			Ticks:      5,
			Transition: heatmap.DefaultTransition,
		},
		Server:  &ServerConfig{Port: "8080"},
		Output:  &OutputConfig{},
		Initial: &InitialConfig{},
	}
}

// LoadConfig reads a TOML or YAML file (chosen by extension) on top of the
// defaults. Keys missing from the file keep their default value.
func LoadConfig(configPath string) (*Config, error) {
	configData, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var rawConfig map[string]any
	switch strings.ToLower(filepath.Ext(configPath)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(configData, &rawConfig); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	default:
		if _, err := toml.Decode(string(configData), &rawConfig); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	config := Default()
	for key, value := range rawConfig {
		section, ok := value.(map[string]any)
		if !ok {
			log.WithField("key", key).Debug("ignoring non-table config key")
			continue
		}
		switch key {
		case "log":
			parseLogConfig(section, config.Log)
		case "layout":
			parseLayoutConfig(section, config.Layout)
		case "scale":
			if err := parseScaleConfig(section, config.Scale); err != nil {
				return nil, fmt.Errorf("parsing scale config: %w", err)
			}
		case "server":
			parseServerConfig(section, config.Server)
		case "output":
			parseOutputConfig(section, config.Output)
		case "initial":
			parseInitialConfig(section, config.Initial)
		default:
			log.WithField("section", key).Warn("unknown config section")
		}
	}

	return config, nil
}

func parseLogConfig(m map[string]any, config *LogConfig) {
	if v, ok := m["level"].(string); ok {
		config.Level = v
	}
}

func parseLayoutConfig(m map[string]any, config *LayoutConfig) {
	if v, ok := number(m["cellSize"]); ok {
		config.CellSize = v
	}
	if v, ok := number(m["originX"]); ok {
		config.OriginX = v
	}
	if v, ok := number(m["originY"]); ok {
		config.OriginY = v
	}
	if v, ok := number(m["legendWidth"]); ok {
		config.LegendWidth = v
	}
	if v, ok := number(m["legendHeight"]); ok {
		config.LegendHeight = v
	}
	if v, ok := number(m["legendGap"]); ok {
		config.LegendGap = v
	}
}

func parseScaleConfig(m map[string]any, config *ScaleConfig) error {
	if v, ok := number(m["min"]); ok {
		config.Min = v
	}
	if v, ok := number(m["max"]); ok {
		config.Max = v
	}
	if v, ok := m["light"].(string); ok {
		config.Light = v
	}
	if v, ok := m["dark"].(string); ok {
		config.Dark = v
	}
	if v, ok := m["baseline"].(string); ok {
		config.Baseline = v
	}
	if v, ok := number(m["ticks"]); ok {
		config.Ticks = int(v)
	}
	if v, ok := m["transition"].(string); ok {
		config.TransitionRaw = v
		duration, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid transition %q: %w", v, err)
		}
		config.Transition = duration
	}
	return nil
}

func parseServerConfig(m map[string]any, config *ServerConfig) {
	if v, ok := m["port"].(string); ok {
		config.Port = v
	} else if v, ok := number(m["port"]); ok {
		config.Port = fmt.Sprintf("%d", int(v))
	}
}

func parseOutputConfig(m map[string]any, config *OutputConfig) {
	if v, ok := m["plotPath"].(string); ok {
		config.PlotPath = v
	}
}

func parseInitialConfig(m map[string]any, config *InitialConfig) {
	config.Rows = appendStrings(config.Rows, m["rows"])
	config.Columns = appendStrings(config.Columns, m["columns"])
}

func appendStrings(dst []string, v any) []string {
	items, ok := v.([]any)
	if !ok {
		return dst
	}
	for _, item := range items {
		if str, ok := item.(string); ok {
			dst = append(dst, str)
		}
	}
	return dst
}

// number accepts the numeric types produced by both decoders
func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// Validate checks every section that the front ends depend on
func (c *Config) Validate() error {
	if c.Log != nil && c.Log.Level != "" {
		if _, err := log.ParseLevel(c.Log.Level); err != nil {
			return fmt.Errorf("invalid log level: %w", err)
		}
	}
	if err := c.GridLayout().Validate(); err != nil {
		return fmt.Errorf("invalid layout: %w", err)
	}
	if _, err := c.ColorScale(); err != nil {
		return fmt.Errorf("invalid scale: %w", err)
	}
	if _, err := c.Baseline(); err != nil {
		return fmt.Errorf("invalid scale: %w", err)
	}
	if c.Scale != nil {
		if c.Scale.Ticks <= 0 {
			return fmt.Errorf("ticks must be positive, got %d", c.Scale.Ticks)
		}
		if c.Scale.Transition < 0 {
			return fmt.Errorf("transition must not be negative, got %s", c.Scale.Transition)
		}
	}
	if err := c.ValidateInitial(); err != nil {
		return err
	}
	return nil
}

// ValidateServer checks the settings needed by the web front end
func (c *Config) ValidateServer() error {
	if c.Server == nil || c.Server.Port == "" {
		return fmt.Errorf("port is required in server configuration")
	}
	return nil
}

// GridLayout converts the layout section. Rows and columns come from the
// dataset and are filled in by the heatmap.
func (c *Config) GridLayout() geometry.Layout {
	l := geometry.Default()
	if c.Layout == nil {
		return l
	}
	l.CellSize = c.Layout.CellSize
	l.OriginX = c.Layout.OriginX
	l.OriginY = c.Layout.OriginY
	l.LegendWidth = c.Layout.LegendWidth
	l.LegendHeight = c.Layout.LegendHeight
	l.LegendGap = c.Layout.LegendGap
	return l
}

// ColorScale builds the configured colour scale
func (c *Config) ColorScale() (colorscale.Scale, error) {
	if c.Scale == nil {
		return colorscale.Default(), nil
	}
	return colorscale.New(c.Scale.Min, c.Scale.Max, c.Scale.Light, c.Scale.Dark)
}

// Baseline returns the configured baseline fill, nil when it follows the
// light end of the scale
func (c *Config) Baseline() (*colorful.Color, error) {
	if c.Scale == nil || c.Scale.Baseline == "" {
		return nil, nil
	}
	col, err := colorscale.ParseColor(c.Scale.Baseline)
	if err != nil {
		return nil, fmt.Errorf("invalid baseline: %w", err)
	}
	return &col, nil
}

// HeatmapOptions assembles everything a front end needs to build a heatmap
func (c *Config) HeatmapOptions() (heatmap.Options, error) {
	scale, err := c.ColorScale()
	if err != nil {
		return heatmap.Options{}, err
	}
	baseline, err := c.Baseline()
	if err != nil {
		return heatmap.Options{}, err
	}
	transition := heatmap.DefaultTransition
	if c.Scale != nil {
		transition = c.Scale.Transition
	}
	return heatmap.Options{
		Layout:     c.GridLayout(),
		Scale:      scale,
		Baseline:   baseline,
		Transition: transition,
	}, nil
}

// TickCount returns the number of legend ticks
func (c *Config) TickCount() int {
	if c.Scale == nil || c.Scale.Ticks <= 0 {
		return 5
	}
	return c.Scale.Ticks
}
