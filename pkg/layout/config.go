// Package layout computes and applies grid positions for variant sets.
//
// The planner is a pure function from a set's analysis result (variant.Info)
// and a Config to a canonical-key → coordinate mapping. The applier consumes
// that mapping against a document container: it resets anchoring, writes
// positions, re-sequences storage order to match the visual order, and
// resizes the container to a tight padded bounding box.
package layout

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/varigrid/varigrid/pkg/errors"
)

// Default configuration values.
const (
	DefaultPadding     = 20.0
	DefaultCellSize    = 52.0
	DefaultBlockGap    = 52.0
	DefaultInterSetGap = 80.0
)

// Vertical alignment of a variant inside its grid cell.
const (
	VAlignCenter = "center"
	VAlignTop    = "top"
)

// Bindings names the variant attributes driving each grid axis.
// Matches are case-sensitive and exact.
type Bindings struct {
	Set   string `toml:"set" json:"set"`
	Style string `toml:"style" json:"style"`
	Color string `toml:"color" json:"color"`
	Size  string `toml:"size" json:"size"`
}

// Config carries all layout parameters for one run. There is no shared
// mutable configuration: callers pass a Config value explicitly into the
// planner and applier.
type Config struct {
	// Padding is the uniform inner padding of each container.
	Padding float64 `toml:"padding" json:"padding"`

	// CellSize is the grid cell edge length.
	CellSize float64 `toml:"cell_size" json:"cell_size"`

	// BlockGap separates set-attribute blocks inside one container.
	// Independent of CellSize, though it defaults to the same value.
	BlockGap float64 `toml:"block_gap" json:"block_gap"`

	// InterSetGap separates top-level containers in whole-document mode.
	InterSetGap float64 `toml:"inter_set_gap" json:"inter_set_gap"`

	// SortDescending flips the lexicographic direction of the style axis
	// and the set-block iteration order together.
	SortDescending bool `toml:"sort_descending" json:"sort_descending"`

	// VAlign is "center" (variant centered in its cell) or "top".
	VAlign string `toml:"valign" json:"valign"`

	// Attributes binds grid axes to attribute names.
	Attributes Bindings `toml:"attributes" json:"attributes"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Padding:     DefaultPadding,
		CellSize:    DefaultCellSize,
		BlockGap:    DefaultBlockGap,
		InterSetGap: DefaultInterSetGap,
		VAlign:      VAlignCenter,
		Attributes: Bindings{
			Set:   "Set",
			Style: "Style",
			Color: "Color",
			Size:  "Size",
		},
	}
}

// Normalize fills empty string fields with their defaults. Numeric fields
// are left alone: zero is a legal value for the gaps and padding, so file
// loading starts from Default() rather than patching zeroes here.
func (c *Config) Normalize() {
	if c.VAlign == "" {
		c.VAlign = VAlignCenter
	}
	def := Default().Attributes
	if c.Attributes.Set == "" {
		c.Attributes.Set = def.Set
	}
	if c.Attributes.Style == "" {
		c.Attributes.Style = def.Style
	}
	if c.Attributes.Color == "" {
		c.Attributes.Color = def.Color
	}
	if c.Attributes.Size == "" {
		c.Attributes.Size = def.Size
	}
}

// Validate checks the configuration and returns an INVALID_CONFIG error for
// the first violation found.
func (c Config) Validate() error {
	if c.Padding < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "padding must be >= 0, got %v", c.Padding)
	}
	if c.CellSize <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cell_size must be > 0, got %v", c.CellSize)
	}
	if c.BlockGap < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "block_gap must be >= 0, got %v", c.BlockGap)
	}
	if c.InterSetGap < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "inter_set_gap must be >= 0, got %v", c.InterSetGap)
	}
	if c.VAlign != VAlignCenter && c.VAlign != VAlignTop {
		return errors.New(errors.ErrCodeInvalidConfig, "valign must be %q or %q, got %q", VAlignCenter, VAlignTop, c.VAlign)
	}
	for _, name := range []string{c.Attributes.Set, c.Attributes.Style, c.Attributes.Color, c.Attributes.Size} {
		if err := errors.ValidateAttributeName(name); err != nil {
			return err
		}
	}
	return nil
}

// LoadFile reads a TOML config file, layering it over the defaults.
// Keys absent from the file keep their default values; explicit zeroes in
// the file are respected.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "read config %s", path)
	}
	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
