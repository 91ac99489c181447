package game

// TileKind identifies what fills a terrain cell.
type TileKind uint8

const (
	TileAir    TileKind = iota // open sky, no collision
	TileGround                 // solid earth, detonates projectiles
	TileWater                  // lake water, turns projectiles into duds
	tileKindCount              // sentinel
)

func (k TileKind) String() string {
	switch k {
	case TileAir:
		return "air"
	case TileGround:
		return "ground"
	case TileWater:
		return "water"
	default:
		return "unknown"
	}
}

// Lake is a water-filled basin carved during generation.
type Lake struct {
	ColMin   int
	ColMax   int
	WaterRow int // top row of the waterline
}

// Terrain is the authoritative per-cell tile grid.
// It is mutated only while a world is being built; impacts never alter it.
type Terrain struct {
	Cols     int
	Rows     int
	CellSize float64
	Tiles    []TileKind // row-major: index = row*Cols + col
	Lakes    []Lake
}

// NewTerrain creates an all-air terrain grid.
func NewTerrain(cols, rows int, cellSize float64) *Terrain {
	return &Terrain{
		Cols:     cols,
		Rows:     rows,
		CellSize: cellSize,
		Tiles:    make([]TileKind, cols*rows),
	}
}

// inBounds returns true if (col, row) is within the grid.
func (t *Terrain) inBounds(col, row int) bool {
	return col >= 0 && col < t.Cols && row >= 0 && row < t.Rows
}

// At returns the tile kind at (col, row). Out-of-range cells read as air so
// that projectiles above or beside the grid never collide.
func (t *Terrain) At(col, row int) TileKind {
	if !t.inBounds(col, row) {
		return TileAir
	}
	return t.Tiles[row*t.Cols+col]
}

// Set writes a tile kind; out-of-range writes are ignored.
func (t *Terrain) Set(col, row int, k TileKind) {
	if !t.inBounds(col, row) {
		return
	}
	t.Tiles[row*t.Cols+col] = k
}

// CellOf maps a pixel position to its (col, row) cell.
func (t *Terrain) CellOf(x, y float64) (col, row int) {
	return floorDiv(x, t.CellSize), floorDiv(y, t.CellSize)
}

// TileAtPixel returns the tile under a pixel position.
func (t *Terrain) TileAtPixel(x, y float64) TileKind {
	col, row := t.CellOf(x, y)
	return t.At(col, row)
}

// PixelWidth and PixelHeight return the grid extent in pixel units.
func (t *Terrain) PixelWidth() float64  { return float64(t.Cols) * t.CellSize }
func (t *Terrain) PixelHeight() float64 { return float64(t.Rows) * t.CellSize }

// SurfaceRow returns the first ground row in a column, or Rows when the
// column holds no ground at all.
func (t *Terrain) SurfaceRow(col int) int {
	for row := 0; row < t.Rows; row++ {
		if t.At(col, row) == TileGround {
			return row
		}
	}
	return t.Rows
}

// Rasterize fills each column from its surface row down with ground and
// everything above with air. surface holds one row index per column.
func (t *Terrain) Rasterize(surface []int) {
	for col := 0; col < t.Cols && col < len(surface); col++ {
		for row := 0; row < t.Rows; row++ {
			if row >= surface[col] {
				t.Set(col, row, TileGround)
			} else {
				t.Set(col, row, TileAir)
			}
		}
	}
}

// GroundLevelForColumns scans top-down for the first ground tile anywhere in
// [min, max]. That whole row is forced to ground across the span, producing a
// flat pad, and its pixel y is returned. A span with no ground yields the
// grid's pixel height.
func (t *Terrain) GroundLevelForColumns(min, max int) float64 {
	min, max = orderedSpan(min, max)
	for row := 0; row < t.Rows; row++ {
		for col := min; col <= max; col++ {
			if t.At(col, row) != TileGround {
				continue
			}
			for cc := min; cc <= max; cc++ {
				t.Set(cc, row, TileGround)
			}
			return float64(row) * t.CellSize
		}
	}
	return t.PixelHeight()
}

// FlattenGround raises every column in [colMin, colMax] to the highest
// surface in the span, filling local dips with ground.
func (t *Terrain) FlattenGround(colMin, colMax int) {
	colMin, colMax = orderedSpan(colMin, colMax)
	top := t.Rows
	for col := colMin; col <= colMax; col++ {
		if r := t.SurfaceRow(col); r < top {
			top = r
		}
	}
	for col := colMin; col <= colMax; col++ {
		for row := top; row < t.Rows; row++ {
			t.Set(col, row, TileGround)
		}
	}
}

// CarveLake floods every air tile in [colMin, colMax] from waterRow down to
// the column's surface.
func (t *Terrain) CarveLake(colMin, colMax, waterRow int) {
	colMin, colMax = orderedSpan(colMin, colMax)
	if waterRow < 0 {
		waterRow = 0
	}
	for col := colMin; col <= colMax; col++ {
		surface := t.SurfaceRow(col)
		for row := waterRow; row < surface; row++ {
			if t.At(col, row) == TileAir {
				t.Set(col, row, TileWater)
			}
		}
	}
	t.Lakes = append(t.Lakes, Lake{ColMin: colMin, ColMax: colMax, WaterRow: waterRow})
}

// FindBasins returns every span of at least minWidth columns whose surface
// lies strictly below both bounding rims. The waterline of each basin is the
// lower of its two rims.
func (t *Terrain) FindBasins(minWidth int) []Lake {
	var basins []Lake
	left := 0
	for left < t.Cols-1 {
		rim := t.SurfaceRow(left)
		right := -1
		for c := left + 1; c < t.Cols; c++ {
			if t.SurfaceRow(c) <= rim {
				right = c
				break
			}
		}
		if right < 0 || right-left-1 < minWidth {
			left++
			continue
		}
		basins = append(basins, Lake{ColMin: left + 1, ColMax: right - 1, WaterRow: rim})
		left = right
	}
	return basins
}

// CountKind returns how many tiles hold kind k.
func (t *Terrain) CountKind(k TileKind) int {
	n := 0
	for _, tk := range t.Tiles {
		if tk == k {
			n++
		}
	}
	return n
}

func orderedSpan(a, b int) (int, int) {
	if a > b {
		return b, a
	}
	return a, b
}

func floorDiv(v, cell float64) int {
	q := v / cell
	i := int(q)
	if q < 0 && float64(i) != q {
		i--
	}
	return i
}
