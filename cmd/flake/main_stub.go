//go:build !ebiten

package main

import (
	"fmt"
	"os"

	"flake-growth/internal/app"
)

func main() {
	fmt.Fprintln(os.Stderr, app.ErrHeadless)
	fmt.Fprintln(os.Stderr, "Re-run with `go run -tags ebiten ./cmd/flake`, or use ./cmd/flake-stats for headless runs.")
	os.Exit(2)
}
