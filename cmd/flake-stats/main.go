package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/sugawarayuuta/sonnet"
)

func main() {
	rc, out, err := parseArgs(os.Args[1:], os.Stderr)
	if err != nil {
		log.Fatal(err)
	}

	if !out.JSON {
		fmt.Printf("Growing %d flakes from a %s of size %d on %dx%dx%d (prob %d, faults %v, %d workers)\n",
			rc.Cycles, rc.SeedShape, rc.SeedSize, rc.Bounds[0], rc.Bounds[1], rc.Bounds[2], rc.Prob, rc.Faults, out.Workers)
	}
	start := time.Now()
	cycles, err := runAll(rc, out.Workers, out.Dump)
	if err != nil {
		log.Fatal(err)
	}
	rep := report{Config: rc, Cycles: cycles, Summary: aggregate(rc.Marks, cycles)}

	if out.JSON {
		data, err := sonnet.Marshal(rep)
		if err != nil {
			log.Fatal(err)
		}
		os.Stdout.Write(append(data, '\n'))
		return
	}
	printTable(os.Stdout, rep)
	fmt.Printf("\nElapsed %s\n", time.Since(start).Round(time.Millisecond))
	if out.Dump != "" {
		fmt.Printf("Wrote cycle %d to %s\n", rc.Cycles-1, out.Dump)
	}
}

func printTable(w io.Writer, rep report) {
	fmt.Fprintf(w, "\n%10s %10s %8s %13s %15s %15s %7s\n",
		"mark", "atoms", "layers", "aspect", "aspect range", "length ratio", "stalled")
	for _, s := range rep.Summary {
		fmt.Fprintf(w, "%10d %10.0f %8.1f %6.2f ±%5.2f %7.2f-%-7.2f %6.3f ±%6.3f %7d\n",
			s.Mark, s.Atoms, s.Layers, s.AspectMean, s.AspectStd, s.AspectMin, s.AspectMax,
			s.ShareMean, s.ShareStd, s.Stalled)
	}
}
