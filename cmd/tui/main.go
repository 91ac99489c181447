package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Garsondee/Missile-Duel/internal/game"
	"github.com/Garsondee/Missile-Duel/internal/tui"
)

func main() {
	var seed int64
	var audio bool

	flag.Int64Var(&seed, "seed", 0, "terrain seed (0 = random)")
	flag.BoolVar(&audio, "audio", true, "play tones for detonations and damage")
	flag.Parse()

	var opts []game.Option
	if seed != 0 {
		opts = append(opts, game.WithSeed(seed))
	}
	m, err := game.NewMatch(opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}

	app, err := tui.New(m, audio)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize terminal: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	app.Run()
}
