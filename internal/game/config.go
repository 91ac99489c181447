package game

import (
	"errors"
	"fmt"
	"math"
)

// Construction errors. NewWorld wraps them with the offending detail.
var (
	ErrNoLaunchers         = errors.New("no launchers configured")
	ErrDegenerateTerrain   = errors.New("degenerate terrain bounds")
	ErrLauncherOutOfBounds = errors.New("launcher pad outside the grid")
	ErrInvalidConfig       = errors.New("invalid config")
)

// LauncherConfig places one launcher on a flattened pad spanning
// [ColMin, ColMax].
type LauncherConfig struct {
	Name   string
	ColMin int
	ColMax int
	Angle  float64
}

// ObstacleConfig places a decoration standing on the surface of Col.
type ObstacleConfig struct {
	Name   string
	Col    int
	Radius float64
}

// Config describes one match. The zero value is not usable; start from
// DefaultConfig or NewConfig.
type Config struct {
	Seed   int64
	Seeded bool // false: NewWorld draws a seed from the clock

	Width, Height float64 // field bounds in pixels
	Cols, Rows    int     // tile grid

	Style    TerrainStyle
	Variance float64 // initial midpoint displacement, in rows
	FlatRow  int     // surface row for StyleFlat
	Lakes    bool

	MaxHP      int
	Launchers  []LauncherConfig
	Obstacles  []ObstacleConfig
	Escalation EscalationPolicy

	VerboseLog bool
}

// CellSize is the pixel edge of one tile.
func (c *Config) CellSize() float64 {
	if c.Cols <= 0 {
		return 0
	}
	return c.Width / float64(c.Cols)
}

// DefaultConfig mirrors the classic 800x480 field with 10px tiles.
func DefaultConfig() Config {
	cfg := Config{
		Width:      800,
		Height:     480,
		Cols:       80,
		Rows:       48,
		Style:      StyleMidpoint,
		Variance:   12,
		FlatRow:    38,
		Lakes:      true,
		MaxHP:      DefaultMaxHP,
		Escalation: AlternatingEscalation{},
	}
	cfg.Launchers = defaultLaunchers(cfg.Cols)
	return cfg
}

func defaultLaunchers(cols int) []LauncherConfig {
	return []LauncherConfig{
		{Name: "Left", ColMin: 4, ColMax: 6, Angle: 0.3},
		{Name: "Right", ColMin: cols - 6, ColMax: cols - 4, Angle: -0.3},
	}
}

// optionKind controls the pass in which an option is applied.
type optionKind int

const (
	optField     optionKind = iota // field size, grid, terrain, seed: applied first
	optPlacement                   // launchers, obstacles: applied once the grid is known
)

// Option is a builder function applied to a Config by NewConfig.
type Option struct {
	kind optionKind
	fn   func(*Config)
}

// NewConfig builds a Config from DefaultConfig in two passes: field options
// first, then placements. Default launcher pads follow the final grid width
// unless WithLaunchers replaced them.
func NewConfig(opts ...Option) Config {
	cfg := DefaultConfig()
	cfg.Launchers = nil
	for _, o := range opts {
		if o.kind == optField {
			o.fn(&cfg)
		}
	}
	for _, o := range opts {
		if o.kind == optPlacement {
			o.fn(&cfg)
		}
	}
	if cfg.Launchers == nil {
		cfg.Launchers = defaultLaunchers(cfg.Cols)
	}
	return cfg
}

// WithSeed fixes the terrain seed for reproducible matches.
func WithSeed(seed int64) Option {
	return Option{optField, func(c *Config) {
		c.Seed = seed
		c.Seeded = true
	}}
}

// WithFieldSize sets the pixel bounds of the field.
func WithFieldSize(w, h float64) Option {
	return Option{optField, func(c *Config) {
		c.Width = w
		c.Height = h
	}}
}

// WithGrid sets the tile grid dimensions.
func WithGrid(cols, rows int) Option {
	return Option{optField, func(c *Config) {
		c.Cols = cols
		c.Rows = rows
	}}
}

// WithTerrainStyle selects the heightmap generator and its variance.
func WithTerrainStyle(style TerrainStyle, variance float64) Option {
	return Option{optField, func(c *Config) {
		c.Style = style
		c.Variance = variance
	}}
}

// WithFlatTerrain produces a level field with its surface at row.
func WithFlatTerrain(row int) Option {
	return Option{optField, func(c *Config) {
		c.Style = StyleFlat
		c.FlatRow = row
	}}
}

// WithLakes toggles basin flooding.
func WithLakes(on bool) Option {
	return Option{optField, func(c *Config) {
		c.Lakes = on
	}}
}

// WithMaxHP sets launcher starting hit points.
func WithMaxHP(hp int) Option {
	return Option{optField, func(c *Config) {
		c.MaxHP = hp
	}}
}

// WithEscalation replaces the weapon unlock policy.
func WithEscalation(p EscalationPolicy) Option {
	return Option{optField, func(c *Config) {
		c.Escalation = p
	}}
}

// WithVerboseLog records per-tick projectile positions.
func WithVerboseLog(v bool) Option {
	return Option{optField, func(c *Config) {
		c.VerboseLog = v
	}}
}

// WithLaunchers replaces the default launcher pads. Passing none yields a
// config that fails validation.
func WithLaunchers(lcs ...LauncherConfig) Option {
	return Option{optPlacement, func(c *Config) {
		c.Launchers = append([]LauncherConfig{}, lcs...)
	}}
}

// WithObstacle adds a decoration on the surface of col.
func WithObstacle(name string, col int, radius float64) Option {
	return Option{optPlacement, func(c *Config) {
		c.Obstacles = append(c.Obstacles, ObstacleConfig{Name: name, Col: col, Radius: radius})
	}}
}

// Validate reports the first problem that would leave a world half built.
func (c *Config) Validate() error {
	if c.Cols < 4 || c.Rows < 5 {
		return fmt.Errorf("grid %dx%d: %w", c.Cols, c.Rows, ErrDegenerateTerrain)
	}
	if !finitePositive(c.Width) || !finitePositive(c.Height) {
		return fmt.Errorf("field %.0fx%.0f: %w", c.Width, c.Height, ErrDegenerateTerrain)
	}
	if cell := c.Height / float64(c.Rows); math.Abs(cell-c.CellSize()) > 1e-9 {
		return fmt.Errorf("cells %.3f wide but %.3f tall: %w", c.CellSize(), cell, ErrDegenerateTerrain)
	}
	if c.Style == StyleFlat && (c.FlatRow < 1 || c.FlatRow > c.Rows-1) {
		return fmt.Errorf("flat row %d outside [1,%d]: %w", c.FlatRow, c.Rows-1, ErrDegenerateTerrain)
	}
	// The midpoint is clamped to [2, rows-2], so a larger variance only deepens
	// the recursion.
	if c.Variance < 0 || math.IsNaN(c.Variance) || c.Variance > float64(c.Rows) {
		return fmt.Errorf("variance %v outside [0,%d]: %w", c.Variance, c.Rows, ErrDegenerateTerrain)
	}
	if len(c.Launchers) == 0 {
		return ErrNoLaunchers
	}
	for i, lc := range c.Launchers {
		if lc.ColMin < 0 || lc.ColMax >= c.Cols || lc.ColMin > lc.ColMax {
			return fmt.Errorf("launcher %d %q cols [%d,%d] in %d: %w",
				i, lc.Name, lc.ColMin, lc.ColMax, c.Cols, ErrLauncherOutOfBounds)
		}
	}
	for i, oc := range c.Obstacles {
		if oc.Col < 0 || oc.Col >= c.Cols || oc.Radius <= 0 {
			return fmt.Errorf("obstacle %d %q col=%d radius=%.1f: %w",
				i, oc.Name, oc.Col, oc.Radius, ErrInvalidConfig)
		}
	}
	if c.MaxHP <= 0 {
		return fmt.Errorf("max hp %d: %w", c.MaxHP, ErrInvalidConfig)
	}
	if c.Escalation == nil {
		return fmt.Errorf("nil escalation policy: %w", ErrInvalidConfig)
	}
	return nil
}

func finitePositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
