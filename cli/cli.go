package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ChristianF88/crashgrid/config"
	"github.com/ChristianF88/crashgrid/version"
	log "github.com/sirupsen/logrus"
	cli "github.com/urfave/cli/v2"
)

// parseDate attempts to parse the build date
func parseDate(d string) time.Time {
	t, err := time.Parse(time.RFC3339, d)
	if err != nil {
		return time.Now()
	}
	return t
}

// Render formats
const (
	formatSVG     = "svg"
	formatJSON    = "json"
	formatECharts = "echarts"
)

var formats = []string{formatSVG, formatJSON, formatECharts}

// Shared flag definitions
var (
	// Configuration flags
	configFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "Path to configuration file (.toml, .yaml or .yml)",
	}
	logLevelFlag = &cli.StringFlag{
		Name:  "logLevel",
		Usage: "Log level (trace, debug, info, warn, error); overrides the config file",
	}

	// Selection flags
	rowFlag = &cli.StringSliceFlag{
		Name:  "row",
		Usage: "Activate a severity row (repeatable, e.g. --row 'fatal crash')",
	}
	columnFlag = &cli.StringSliceFlag{
		Name:  "column",
		Usage: "Activate a lighting column (repeatable, e.g. --column daylight)",
	}

	// Output flags
	formatFlag = &cli.StringFlag{
		Name:  "format",
		Usage: "Output format: svg, json or echarts",
		Value: formatSVG,
	}
	outFlag = &cli.StringFlag{
		Name:  "out",
		Usage: "Output file (e.g., '/path/to/heatmap.html'). Stdout when empty; required for echarts",
	}
	compactFlag = &cli.BoolFlag{
		Name:  "compact",
		Usage: "Output compact JSON (no pretty printing)",
		Value: false,
	}
	plainFlag = &cli.BoolFlag{
		Name:  "plain",
		Usage: "Output plain text format for easy readability",
		Value: false,
	}

	// Serve-specific flags
	portFlag = &cli.StringFlag{
		Name:  "port",
		Usage: "Port to listen on; overrides the config file",
	}
)

func validateFormat(format string) error {
	for _, f := range formats {
		if f == format {
			return nil
		}
	}
	return fmt.Errorf("invalid format %q: must be one of %s", format, strings.Join(formats, ", "))
}

func validateOutPath(outPath string) error {
	if outPath != "" {
		outDir := filepath.Dir(outPath)
		if outDir == "." {
			outDir, _ = os.Getwd()
		}
		if _, err := os.Stat(outDir); os.IsNotExist(err) {
			return fmt.Errorf("output directory does not exist: %s", outDir)
		}
	}
	return nil
}

// loadConfig resolves the effective configuration: defaults, then the
// config file, then command line flags.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg := config.Default()
	if configPath := c.String("config"); configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if level := c.String("logLevel"); level != "" {
		cfg.Log.Level = level
	}
	if err := applyLogLevel(cfg.Log.Level); err != nil {
		return nil, err
	}

	cfg.MergeSelection(c.StringSlice("row"), c.StringSlice("column"))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func applyLogLevel(level string) error {
	if level == "" {
		return nil
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	log.SetLevel(lvl)
	return nil
}

// Command handlers

// handleRenderCommand renders one frame in the requested format
func handleRenderCommand(c *cli.Context) error {
	format := strings.ToLower(c.String("format"))
	if err := validateFormat(format); err != nil {
		return err
	}
	outPath := c.String("out")
	if format == formatECharts && outPath == "" {
		return fmt.Errorf("--out is required for the echarts format")
	}
	if err := validateOutPath(outPath); err != nil {
		return err
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	return Render(cfg, c.App.Writer, format, outPath, c.Bool("compact"))
}

// handleTUICommand starts the terminal front end
func handleTUICommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	return TUI(cfg)
}

// handleServeCommand starts the web front end
func handleServeCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if port := c.String("port"); port != "" {
		cfg.Server.Port = port
	}
	if err := cfg.ValidateServer(); err != nil {
		return fmt.Errorf("invalid server configuration: %w", err)
	}
	return Serve(c.Context, cfg)
}

// handleDataCommand prints the dataset
func handleDataCommand(c *cli.Context) error {
	if err := applyLogLevel(c.String("logLevel")); err != nil {
		return err
	}
	return Data(c.App.Writer, c.Bool("compact"), c.Bool("plain"))
}

// NewApp builds the command tree
func NewApp() *cli.App {
	return &cli.App{
		Name:     "crashgrid",
		Usage:    "Explore crash severity by lighting condition as an interactive heatmap",
		Version:  version.Version,
		Compiled: parseDate(version.Date),
		Flags: []cli.Flag{
			configFlag,
			logLevelFlag,
		},
		Commands: []*cli.Command{
			{
				Name:  "render",
				Usage: "Render one heatmap frame for the given selection",
				Flags: []cli.Flag{
					formatFlag,
					outFlag,
					compactFlag,
					rowFlag,
					columnFlag,
				},
				Action: handleRenderCommand,
			},
			{
				Name:  "tui",
				Usage: "Launch the terminal user interface",
				Flags: []cli.Flag{
					rowFlag,
					columnFlag,
				},
				Action: handleTUICommand,
			},
			{
				Name:  "serve",
				Usage: "Serve the interactive heatmap over HTTP",
				Flags: []cli.Flag{
					portFlag,
					rowFlag,
					columnFlag,
				},
				Action: handleServeCommand,
			},
			{
				Name:  "data",
				Usage: "Print the crash dataset",
				Flags: []cli.Flag{
					compactFlag,
					plainFlag,
				},
				Action: handleDataCommand,
			},
		},
	}
}

var App = NewApp()
