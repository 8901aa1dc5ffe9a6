// Command tiazip compiles a timed TIA register-write log into the compact
// dual-bitstream TIAZIP format this repository implements: a flag-parsed
// entry point that reads one input file, prints a stage-by-stage summary
// as it runs, and writes the exported per-channel assembler listings, the
// combined binary blob, and (with --debug) a text report into a directory.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/musclesoft/tiazip/internal/exporter"
	"github.com/musclesoft/tiazip/internal/tzconfig"
	"github.com/musclesoft/tiazip/internal/tzlog"
	"github.com/musclesoft/tiazip/internal/tzregw"
)

func main() {
	var (
		configPath  = flag.String("config", "", "path to a JSON config file (defaults used if omitted)")
		outDir      = flag.String("outdir", ".", "directory to write the exported files into")
		numSubsongs = flag.Int("subsongs", 1, "number of subsongs present in the input log")
		debug       = flag.Bool("debug", false, "print per-channel entropy/size analysis")
	)
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: tiazip [flags] <register-write-log.json>")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}
	inputPath := flag.Arg(0)

	cfg, err := tzconfig.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tiazip: %v\n", err)
		os.Exit(1)
	}
	cfg.DebugOutput = cfg.DebugOutput || *debug

	writes, err := readWrites(inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tiazip: %v\n", err)
		os.Exit(1)
	}

	tzlog.Infof("compiling %s (%d writes, %d subsongs)", inputPath, len(writes), *numSubsongs)

	out, err := exporter.Export(writes, *numSubsongs, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tiazip: %v\n", err)
		os.Exit(1)
	}

	if cfg.DebugOutput {
		tzlog.Stage("Analysis")
		for _, r := range out.Reports {
			tzlog.Infof("subsong %d channel %d: %d symbols (%d distinct), entropy %.2f bits/symbol, floor %.0f bytes, actual %d bytes",
				r.Subsong, r.Channel, r.Symbols, r.DistinctSymbols, r.EntropyBits, r.MinimumBytes, r.ActualBytes)
		}
	}
	for _, skipped := range out.Compile.Skipped {
		tzlog.Warnf("subsong %d skipped: %v", skipped.Subsong, &skipped)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "tiazip: %v\n", err)
		os.Exit(1)
	}
	for _, f := range out.Files {
		path := filepath.Join(*outDir, f.Name)
		if err := os.WriteFile(path, f.Bytes, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "tiazip: writing %s: %v\n", path, err)
			os.Exit(1)
		}
		tzlog.Infof("wrote %s (%d bytes)", path, len(f.Bytes))
	}
}

func readWrites(path string) ([]tzregw.RegisterWrite, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	var writes []tzregw.RegisterWrite
	if err := json.Unmarshal(raw, &writes); err != nil {
		return nil, fmt.Errorf("parsing register-write log: %w", err)
	}
	return writes, nil
}
