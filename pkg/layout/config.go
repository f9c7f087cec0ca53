package layout

import (
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
)

// Defaults for [DefaultConfig]. Grid units unless noted.
const (
	DefaultNodeSize        = 1.0
	DefaultSiblingDistance = 0.0
	DefaultTreeDistance    = 0.0
	DefaultCoupleDistance  = 1.0

	// DefaultScaleX and DefaultScaleY convert grid units to pixels: a node
	// is a 50px-radius circle with one diameter of air on each side, and
	// generations sit 150px apart.
	DefaultScaleX = 200.0
	DefaultScaleY = 150.0
)

// Config holds the tuning constants for a layout pass. It is passed to every
// solver call; nothing in this package keeps global layout state.
type Config struct {
	// NodeSize is the width one node occupies.
	NodeSize float64 `toml:"node_size" json:"node_size" mapstructure:"node_size"`
	// SiblingDistance is extra air between adjacent siblings.
	SiblingDistance float64 `toml:"sibling_distance" json:"sibling_distance" mapstructure:"sibling_distance"`
	// TreeDistance is extra air between neighbouring subtrees, checked below
	// the sibling row.
	TreeDistance float64 `toml:"tree_distance" json:"tree_distance" mapstructure:"tree_distance"`
	// CoupleDistance is the offset of a spouse from its main node. It must
	// not exceed Spacing(); this is not enforced by Run.
	CoupleDistance float64 `toml:"couple_distance" json:"couple_distance" mapstructure:"couple_distance"`

	// ScaleX and ScaleY map grid positions to PositionedX/PositionedY.
	ScaleX float64 `toml:"scale_x" json:"scale_x" mapstructure:"scale_x"`
	ScaleY float64 `toml:"scale_y" json:"scale_y" mapstructure:"scale_y"`

	// KeepOnScreen shifts the whole tree right when any contour sample would
	// end up with a negative X.
	KeepOnScreen bool `toml:"keep_on_screen" json:"keep_on_screen" mapstructure:"keep_on_screen"`
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() Config {
	return Config{
		NodeSize:        DefaultNodeSize,
		SiblingDistance: DefaultSiblingDistance,
		TreeDistance:    DefaultTreeDistance,
		CoupleDistance:  DefaultCoupleDistance,
		ScaleX:          DefaultScaleX,
		ScaleY:          DefaultScaleY,
		KeepOnScreen:    true,
	}
}

// Spacing is the base distance between adjacent sibling positions.
func (c Config) Spacing() float64 { return c.NodeSize + c.SiblingDistance }

// SubtreeGap is the minimum horizontal distance required between
// neighbouring subtrees at every shared depth below their roots.
func (c Config) SubtreeGap() float64 { return c.Spacing() + c.TreeDistance }

// Validate reports configurations that produce overlapping or degenerate
// layouts. Run never calls it.
func (c Config) Validate() error {
	if c.NodeSize <= 0 {
		return fmt.Errorf("node_size must be positive, got %v", c.NodeSize)
	}
	if c.SiblingDistance < 0 || c.TreeDistance < 0 || c.CoupleDistance < 0 {
		return fmt.Errorf("distances must not be negative")
	}
	if c.CoupleDistance > c.Spacing() {
		return fmt.Errorf("couple_distance (%v) must not exceed node_size + sibling_distance (%v)", c.CoupleDistance, c.Spacing())
	}
	if c.ScaleX <= 0 || c.ScaleY <= 0 {
		return fmt.Errorf("scale_x and scale_y must be positive")
	}
	return nil
}

// LoadConfigFile reads a TOML file on top of DefaultConfig. Keys missing
// from the file keep their default values.
func LoadConfigFile(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return cfg, nil
}

// WriteConfig encodes cfg as TOML.
func WriteConfig(w io.Writer, cfg Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
