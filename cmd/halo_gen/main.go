package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"haloscope/adapters/export"
	"haloscope/internal/synth"
)

func main() {
	out := flag.String("out", "data", "output directory")
	format := flag.String("format", "csv", "output format: csv or xlsx")
	hosts := flag.Int("hosts", 2, "number of host halos")
	subhalos := flag.Int("subhalos", 500, "subhalos per host")
	seed := flag.Int64("seed", 42, "RNG seed (deterministic)")
	diskRadius := flag.Float64("disk-radius", 30, "pericenter (kpc) inside which the disk disrupts subhalos")
	rate := flag.Float64("disruption-rate", 0.7, "probability that an inner subhalo is disrupted")
	flag.Parse()

	fmtName, err := export.ParseFormat(*format)
	if err != nil {
		fmt.Fprintln(os.Stderr, "unsupported format:", *format)
		os.Exit(2)
	}

	cfg := synth.DefaultConfig()
	cfg.Hosts = *hosts
	cfg.SubhalosPerHost = *subhalos
	cfg.Seed = *seed
	cfg.DiskRadius = *diskRadius
	cfg.DisruptionRate = *rate

	cats, err := synth.Generate(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error generating catalogs:", err)
		os.Exit(2)
	}

	if err := os.MkdirAll(*out, 0o755); err != nil {
		fmt.Fprintln(os.Stderr, "error creating output directory:", err)
		os.Exit(1)
	}

	for _, table := range cats.Tables() {
		path := filepath.Join(*out, table.Catalog.Table()+"."+string(fmtName))
		if err := export.WriteFile(path, table); err != nil {
			fmt.Fprintf(os.Stderr, "error writing %s: %v\n", path, err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s: %d rows\n", path, table.Len())
	}
}
