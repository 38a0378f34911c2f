//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log"
	"strconv"

	"flake-growth/internal/app"
	"flake-growth/internal/core"
	_ "flake-growth/internal/sims/flake"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	if _, ok := cfg.Options["seed"]; !ok {
		cfg.Options["seed"] = strconv.FormatInt(cfg.Seed, 10)
	}
	sim, err := core.New(cfg.Sim, cfg.Options)
	if err != nil {
		log.Fatal(err)
	}
	sim.Reset(cfg.Seed)

	game := app.New(sim, cfg)
	w, h := game.Layout(0, 0)

	ebiten.SetWindowTitle("flake-growth: " + sim.Name())
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(w, h)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
