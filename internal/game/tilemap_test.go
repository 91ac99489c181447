package game

import (
	"math/rand"
	"testing"
)

func TestTerrain_AtOutOfRangeIsAir(t *testing.T) {
	tr := NewTerrain(4, 4, 10)
	tr.Rasterize([]int{0, 0, 0, 0})
	for _, c := range [][2]int{{-1, 0}, {0, -1}, {4, 0}, {0, 4}, {100, 100}} {
		if k := tr.At(c[0], c[1]); k != TileAir {
			t.Fatalf("At(%d,%d)=%s, want air", c[0], c[1], k)
		}
	}
	tr.Set(9, 9, TileWater)
	if n := tr.CountKind(TileWater); n != 0 {
		t.Fatalf("out-of-range Set wrote %d tiles", n)
	}
}

func TestTerrain_RasterizeFillsBelowSurface(t *testing.T) {
	tr := NewTerrain(3, 10, 10)
	surface := []int{4, 6, 9}
	tr.Rasterize(surface)
	for col, s := range surface {
		for row := 0; row < tr.Rows; row++ {
			want := TileAir
			if row >= s {
				want = TileGround
			}
			if got := tr.At(col, row); got != want {
				t.Fatalf("(%d,%d)=%s, want %s", col, row, got, want)
			}
		}
		if got := tr.SurfaceRow(col); got != s {
			t.Fatalf("SurfaceRow(%d)=%d, want %d", col, got, s)
		}
	}
}

func TestTerrain_TileAtPixelFloorsNegative(t *testing.T) {
	tr := NewTerrain(4, 4, 10)
	tr.Rasterize([]int{0, 0, 0, 0})
	if got := tr.TileAtPixel(-0.5, 5); got != TileAir {
		t.Fatalf("x=-0.5 should fall outside the grid, got %s", got)
	}
	if got := tr.TileAtPixel(39.9, 39.9); got != TileGround {
		t.Fatalf("last cell should be ground, got %s", got)
	}
	if col, row := tr.CellOf(25, 31); col != 2 || row != 3 {
		t.Fatalf("CellOf(25,31)=(%d,%d)", col, row)
	}
}

func TestTerrain_GroundLevelForColumnsFlattensTopRow(t *testing.T) {
	tr := NewTerrain(5, 20, 10)
	tr.Rasterize([]int{10, 8, 12, 15, 15})
	y := tr.GroundLevelForColumns(2, 0)
	if y != 80 {
		t.Fatalf("expected pad y=80, got %.1f", y)
	}
	for col := 0; col <= 2; col++ {
		if tr.At(col, 8) != TileGround {
			t.Fatalf("col %d row 8 should be forced to ground", col)
		}
	}
	if tr.At(3, 8) != TileAir {
		t.Fatal("columns outside the span must be untouched")
	}
}

func TestTerrain_GroundLevelForColumnsNoGround(t *testing.T) {
	tr := NewTerrain(3, 6, 10)
	if y := tr.GroundLevelForColumns(0, 2); y != tr.PixelHeight() {
		t.Fatalf("empty span should report the grid height, got %.1f", y)
	}
}

func TestTerrain_FlattenGroundRaisesToHighestSurface(t *testing.T) {
	tr := NewTerrain(4, 20, 10)
	tr.Rasterize([]int{10, 8, 12, 3})
	tr.FlattenGround(0, 2)
	for col := 0; col <= 2; col++ {
		if got := tr.SurfaceRow(col); got != 8 {
			t.Fatalf("col %d surface=%d, want 8", col, got)
		}
	}
	if got := tr.SurfaceRow(3); got != 3 {
		t.Fatalf("col 3 surface changed to %d", got)
	}
}

func TestTerrain_FindBasinsAndCarveLake(t *testing.T) {
	tr := NewTerrain(12, 15, 10)
	tr.Rasterize([]int{5, 5, 10, 10, 10, 10, 10, 10, 10, 5, 5, 5})

	basins := tr.FindBasins(7)
	if len(basins) != 1 {
		t.Fatalf("expected one basin, got %+v", basins)
	}
	b := basins[0]
	if b.ColMin != 2 || b.ColMax != 8 || b.WaterRow != 5 {
		t.Fatalf("unexpected basin %+v", b)
	}
	if got := tr.FindBasins(8); len(got) != 0 {
		t.Fatalf("basin narrower than minWidth should be ignored, got %+v", got)
	}

	tr.CarveLake(b.ColMin, b.ColMax, b.WaterRow)
	if n := tr.CountKind(TileWater); n != 7*5 {
		t.Fatalf("expected 35 water tiles, got %d", n)
	}
	if tr.At(5, 4) != TileAir || tr.At(5, 5) != TileWater || tr.At(5, 10) != TileGround {
		t.Fatal("lake column should be air above the waterline, water down to the bed, then ground")
	}
	if len(tr.Lakes) != 1 {
		t.Fatalf("lake not recorded: %+v", tr.Lakes)
	}
}

func TestGenerateHeights_ZeroVarianceIsFlat(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	h := GenerateHeights(rng, 20, 20, 0, 48)
	if len(h) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(h))
	}
	for i, v := range h {
		if v != 20 {
			t.Fatalf("sample %d=%.2f, want 20", i, v)
		}
	}
}

func TestGenerateHeights_SampleCountFollowsDepth(t *testing.T) {
	for _, v := range []float64{0, 0.5, 1, 3, 12, 40} {
		rng := rand.New(rand.NewSource(7))
		h := GenerateHeights(rng, 20, 24, v, 48)
		want := 1<<GenerationDepth(v) + 1
		if len(h) != want {
			t.Fatalf("variance %.1f: %d samples, want %d", v, len(h), want)
		}
		if h[0] != 20 || h[len(h)-1] != 24 {
			t.Fatalf("variance %.1f: endpoints moved: %.2f..%.2f", v, h[0], h[len(h)-1])
		}
		for i, s := range h[1 : len(h)-1] {
			if s < 2 || s > 46 {
				t.Fatalf("variance %.1f: sample %d=%.2f outside [2,46]", v, i+1, s)
			}
		}
	}
}

func TestResampleHeights_Linear(t *testing.T) {
	out := ResampleHeights([]float64{0, 10}, 3)
	if out[0] != 0 || out[1] != 5 || out[2] != 10 {
		t.Fatalf("unexpected resample %v", out)
	}
}

func TestParseTerrainStyle(t *testing.T) {
	for _, s := range []TerrainStyle{StyleMidpoint, StyleRandomWalk, StyleFlat} {
		got, err := ParseTerrainStyle(s.String())
		if err != nil || got != s {
			t.Fatalf("round trip of %s gave %s, %v", s, got, err)
		}
	}
	if _, err := ParseTerrainStyle("hills"); err == nil {
		t.Fatal("expected an error for an unknown style")
	}
}

func TestBuildTerrain_PadsAreDryAndLevel(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		for _, style := range []TerrainStyle{StyleMidpoint, StyleRandomWalk} {
			w, err := NewWorld(NewConfig(WithSeed(seed), WithTerrainStyle(style, 12)))
			if err != nil {
				t.Fatalf("seed %d: %v", seed, err)
			}
			tr := w.Terrain()
			for i, lc := range w.Config().Launchers {
				l := w.Launchers()[i]
				row := int(l.Y / tr.CellSize)
				for col := lc.ColMin; col <= lc.ColMax; col++ {
					if tr.At(col, row) != TileGround {
						t.Fatalf("seed %d %s: pad col %d row %d not ground", seed, style, col, row)
					}
					for r := 0; r < tr.Rows; r++ {
						if tr.At(col, r) == TileWater {
							t.Fatalf("seed %d %s: water on pad col %d", seed, style, col)
						}
					}
				}
			}
		}
	}
}

func TestBuildTerrain_ColumnsSolidAndWaterInLakes(t *testing.T) {
	lakes := 0
	for seed := int64(1); seed <= 100; seed++ {
		for _, style := range []TerrainStyle{StyleMidpoint, StyleRandomWalk} {
			w, err := NewWorld(NewConfig(WithSeed(seed), WithTerrainStyle(style, 12), WithLakes(true)))
			if err != nil {
				t.Fatalf("seed %d: %v", seed, err)
			}
			tr := w.Terrain()
			lakes += len(tr.Lakes)
			for col := 0; col < tr.Cols; col++ {
				surface := tr.SurfaceRow(col)
				for row := 0; row < tr.Rows; row++ {
					k := tr.At(col, row)
					if row >= surface {
						if k != TileGround {
							t.Fatalf("seed %d %s: (%d,%d)=%s below the surface", seed, style, col, row, k)
						}
						continue
					}
					if k == TileWater && !inLake(tr.Lakes, col, row) {
						t.Fatalf("seed %d %s: water at (%d,%d) outside every lake", seed, style, col, row)
					}
				}
			}
		}
	}
	if lakes == 0 {
		t.Fatal("expected some seeds to flood basins")
	}
}

func inLake(lakes []Lake, col, row int) bool {
	for _, l := range lakes {
		if col >= l.ColMin && col <= l.ColMax && row >= l.WaterRow {
			return true
		}
	}
	return false
}
