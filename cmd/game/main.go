package main

import (
	"flag"
	"log"

	"github.com/Garsondee/Missile-Duel/internal/game"
	"github.com/Garsondee/Missile-Duel/internal/screen"
	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	var seed int64
	var style string
	var lakes bool
	var verbose bool

	flag.Int64Var(&seed, "seed", 0, "terrain seed (0 = random)")
	flag.StringVar(&style, "terrain", "midpoint", "terrain style: midpoint, random-walk, flat")
	flag.BoolVar(&lakes, "lakes", true, "flood terrain basins")
	flag.BoolVar(&verbose, "verbose", false, "log per-tick projectile positions")
	flag.Parse()

	opts := []game.Option{game.WithLakes(lakes), game.WithVerboseLog(verbose)}
	if seed != 0 {
		opts = append(opts, game.WithSeed(seed))
	}
	st, err := game.ParseTerrainStyle(style)
	if err != nil {
		log.Fatal(err)
	}
	if st == game.StyleFlat {
		opts = append(opts, game.WithFlatTerrain(38))
	} else {
		opts = append(opts, game.WithTerrainStyle(st, 12))
	}

	m, err := game.NewMatch(opts...)
	if err != nil {
		log.Fatal(err)
	}
	s := screen.New(m)
	ebiten.SetTPS(game.TicksPerSecond)
	ebiten.SetWindowTitle("Missile Duel")
	ebiten.SetWindowSize(s.WindowSize())
	if err := ebiten.RunGame(s); err != nil {
		log.Fatal(err)
	}
}
