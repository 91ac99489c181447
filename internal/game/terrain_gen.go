package game

import (
	"fmt"
	"math"
	"math/rand"
)

// LakeMinWidth is the narrowest basin interior that gets flooded.
const LakeMinWidth = 7

// TerrainStyle selects the heightmap generator.
type TerrainStyle uint8

const (
	StyleMidpoint   TerrainStyle = iota // recursive midpoint displacement
	StyleRandomWalk                     // per-column ±1 random walk
	StyleFlat                           // constant surface, for tests and demos
)

func (s TerrainStyle) String() string {
	switch s {
	case StyleMidpoint:
		return "midpoint"
	case StyleRandomWalk:
		return "random-walk"
	case StyleFlat:
		return "flat"
	default:
		return "unknown"
	}
}

// GenerateHeights runs recursive midpoint displacement between two endpoint
// heights. The midpoint is displaced by uniform(-v, v) and clamped to
// [2, rows-2]; while v >= 1 both halves are refined with v/2. Halves share
// their midpoint sample, so the result holds 2^GenerationDepth(v)+1 samples.
func GenerateHeights(rng *rand.Rand, left, right, variance float64, rows int) []float64 {
	offset := 0.0
	if variance > 0 {
		offset = (rng.Float64()*2 - 1) * variance
	}
	mid := clampFloat((left+right)/2+offset, 2, float64(rows-2))
	if variance < 1 {
		return []float64{left, mid, right}
	}
	a := GenerateHeights(rng, left, mid, variance/2, rows)
	b := GenerateHeights(rng, mid, right, variance/2, rows)
	return append(a, b[1:]...)
}

// GenerationDepth returns the number of recursion levels GenerateHeights
// uses for an initial variance: one for v < 1 plus one per halving needed to
// bring v below 1.
func GenerationDepth(variance float64) int {
	depth := 1
	for v := variance; v >= 1; v /= 2 {
		depth++
	}
	return depth
}

// ResampleHeights linearly interpolates a sample line onto cols columns.
func ResampleHeights(samples []float64, cols int) []float64 {
	out := make([]float64, cols)
	if len(samples) == 0 {
		return out
	}
	if len(samples) == 1 || cols == 1 {
		for i := range out {
			out[i] = samples[0]
		}
		return out
	}
	last := float64(len(samples) - 1)
	for c := 0; c < cols; c++ {
		pos := float64(c) * last / float64(cols-1)
		i := int(pos)
		if i >= len(samples)-1 {
			out[c] = samples[len(samples)-1]
			continue
		}
		frac := pos - float64(i)
		out[c] = samples[i]*(1-frac) + samples[i+1]*frac
	}
	return out
}

// randomWalkSurface is the column-by-column generator: each step moves the
// surface up, down, or not at all, never reaching the bottom row.
func randomWalkSurface(rng *rand.Rand, cols, rows int) []int {
	surface := make([]int, cols)
	level := rows - 2
	for c := 0; c < cols; c++ {
		level += int(math.Round(rng.Float64()*3 - 1.5))
		if level >= rows-1 {
			level = rows - 2
		}
		if level < 2 {
			level = 2
		}
		surface[c] = level
	}
	return surface
}

// surfaceRows rounds float heights to integer surface rows in [2, rows-2].
func surfaceRows(heights []float64, rows int) []int {
	out := make([]int, len(heights))
	for i, h := range heights {
		out[i] = int(clampFloat(math.Round(h), 2, float64(rows-2)))
	}
	return out
}

// buildTerrain generates, rasterizes, emplaces launcher pads and floods
// basins, in that order.
func buildTerrain(cfg *Config, rng *rand.Rand) *Terrain {
	t := NewTerrain(cfg.Cols, cfg.Rows, cfg.CellSize())

	var surface []int
	switch cfg.Style {
	case StyleRandomWalk:
		surface = randomWalkSurface(rng, cfg.Cols, cfg.Rows)
	case StyleFlat:
		surface = make([]int, cfg.Cols)
		for i := range surface {
			surface[i] = cfg.FlatRow
		}
	case StyleMidpoint:
		rows := float64(cfg.Rows)
		left := rows*0.5 + (rng.Float64()*2-1)*rows*0.2
		right := rows*0.5 + (rng.Float64()*2-1)*rows*0.2
		samples := GenerateHeights(rng, left, right, cfg.Variance, cfg.Rows)
		surface = surfaceRows(ResampleHeights(samples, cfg.Cols), cfg.Rows)
	}
	t.Rasterize(surface)

	for _, lc := range cfg.Launchers {
		t.FlattenGround(lc.ColMin, lc.ColMax)
	}
	if cfg.Lakes {
		for _, b := range t.FindBasins(LakeMinWidth) {
			if spanTouchesPads(cfg, b.ColMin, b.ColMax) {
				continue
			}
			t.CarveLake(b.ColMin, b.ColMax, b.WaterRow)
		}
	}
	return t
}

func spanTouchesPads(cfg *Config, colMin, colMax int) bool {
	for _, lc := range cfg.Launchers {
		if colMin <= lc.ColMax && colMax >= lc.ColMin {
			return true
		}
	}
	return false
}

func clampFloat(v, lo, hi float64) float64 {
	if lo > hi {
		lo, hi = hi, lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ParseTerrainStyle maps a style name back to its TerrainStyle.
func ParseTerrainStyle(name string) (TerrainStyle, error) {
	for s := StyleMidpoint; s <= StyleFlat; s++ {
		if s.String() == name {
			return s, nil
		}
	}
	return StyleMidpoint, fmt.Errorf("terrain style %q: %w", name, ErrInvalidConfig)
}
