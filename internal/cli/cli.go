// Package cli implements the varigrid command-line interface.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/varigrid/varigrid/pkg/buildinfo"
	"github.com/varigrid/varigrid/pkg/cache"
	"github.com/varigrid/varigrid/pkg/layout"
	"github.com/varigrid/varigrid/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "varigrid"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "varigrid",
		Short:        "Varigrid arranges variant sets into attribute-driven grids",
		Long:         `Varigrid is a CLI tool for arranging attribute-tagged variants inside their set containers into deterministic grids: sections by style, rows by color, columns by numeric size.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.arrangeCommand())
	root.AddCommand(c.planCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cache, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, nil, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/varigrid/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Config Helpers
// =============================================================================

// configFlags holds the layout flags shared by arrange, plan, and validate.
type configFlags struct {
	configPath string
	cellSize   float64
	padding    float64
	blockGap   float64
	valign     string
	descending bool
}

// register adds the shared layout flags to a command.
func (f *configFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.configPath, "config", "", "TOML config file (flags override file values)")
	cmd.Flags().Float64Var(&f.cellSize, "cell-size", 0, "grid cell edge length")
	cmd.Flags().Float64Var(&f.padding, "padding", -1, "uniform container padding")
	cmd.Flags().Float64Var(&f.blockGap, "block-gap", -1, "gap between set-attribute blocks")
	cmd.Flags().StringVar(&f.valign, "valign", "", "vertical cell alignment: center (default), top")
	cmd.Flags().BoolVar(&f.descending, "descending", false, "flip style axis and block order")
}

// load resolves the layout configuration: defaults, then the config file,
// then explicit flags.
func (f *configFlags) load() (layout.Config, error) {
	cfg := layout.Default()
	if f.configPath != "" {
		loaded, err := layout.LoadFile(f.configPath)
		if err != nil {
			return layout.Config{}, err
		}
		cfg = loaded
	}
	if f.cellSize > 0 {
		cfg.CellSize = f.cellSize
	}
	if f.padding >= 0 {
		cfg.Padding = f.padding
	}
	if f.blockGap >= 0 {
		cfg.BlockGap = f.blockGap
	}
	if f.valign != "" {
		cfg.VAlign = f.valign
	}
	if f.descending {
		cfg.SortDescending = true
	}
	if err := cfg.Validate(); err != nil {
		return layout.Config{}, err
	}
	return cfg, nil
}
