// Package exporter is the export-type dispatch table: TiaExportType
// selects a backend, and only TIAZIP is implemented here. The rest are
// named so the config validator still recognizes them, but requesting
// one reports a ConfigError instead of silently falling through to
// TIAZIP.
package exporter

import (
	"fmt"
	"strings"

	"github.com/musclesoft/tiazip/internal/analysis"
	"github.com/musclesoft/tiazip/internal/asmout"
	"github.com/musclesoft/tiazip/internal/tzconfig"
	"github.com/musclesoft/tiazip/internal/tzerrors"
	"github.com/musclesoft/tiazip/internal/tzpipeline"
	"github.com/musclesoft/tiazip/internal/tzregw"
)

// Output is one completed export: the named files spec.md §6 requires
// ("a list of (filename, bytes) pairs"), the compile result it was built
// from (kept around for --debug reporting), and a per-channel analysis
// report.
type Output struct {
	Files   []asmout.File
	Compile tzpipeline.Result
	Reports []analysis.Report
}

// Export dispatches on cfg.TiaExportType and runs the compression core
// for TIAZIP. Every other export type is a recognized name this compiler
// does not implement.
//
// TIAZIP's output is one assembler text file per channel (the normative
// `byte $xx,...` listing) plus one combined binary blob keyed to the
// wire/binary layout spec.md §6 describes as the "optional bit-exact
// binary emitter".
func Export(writes []tzregw.RegisterWrite, numSubsongs int, cfg tzconfig.Config) (Output, error) {
	if cfg.TiaExportType != tzconfig.ExportTIAZip {
		return Output{}, &tzerrors.ConfigError{
			Reason: "export type " + string(cfg.TiaExportType) + " is not implemented by this compiler",
		}
	}

	result, err := tzpipeline.Compile(writes, numSubsongs, cfg)
	if err != nil {
		return Output{}, err
	}

	blobChannels := make([]asmout.Channel, len(result.Channels))
	reports := make([]analysis.Report, len(result.Channels))
	freqs := make([]map[uint64]int, len(result.Channels))
	files := make([]asmout.File, 0, len(result.Channels)+1)
	for i, c := range result.Channels {
		ac := asmout.Channel{Subsong: c.Subsong, Channel: c.Channel, Bits: c.Bits}
		blobChannels[i] = ac
		freqs[i] = analysis.FrequencyMap(c.CodeSequence)
		reports[i] = analysis.Summarize(c.Subsong, c.Channel, c.CodeSequence, c.Bits.BytesUsed())
		files = append(files, asmout.File{
			Name:  asmout.TrackDataName(c.Subsong, c.Channel),
			Bytes: asmout.RenderAssembly(ac),
		})
	}
	files = append(files, asmout.File{Name: "tiazip.bin", Bytes: asmout.Layout(blobChannels)})

	if cfg.DebugOutput {
		files = append(files, asmout.File{Name: "tiazip_debug.txt", Bytes: renderDebugReport(reports, freqs)})
	}

	return Output{
		Files:   files,
		Compile: result,
		Reports: reports,
	}, nil
}

// renderDebugReport prints one entropy summary line per channel, then
// SHOW_FREQUENCIES's sort-by-count-descending dump of that channel's
// frequency table, one code per line.
func renderDebugReport(reports []analysis.Report, freqs []map[uint64]int) []byte {
	var b strings.Builder
	for i, r := range reports {
		fmt.Fprintf(&b, "subsong %d channel %d: %d symbols (%d distinct), entropy %.2f bits/symbol, floor %.0f bytes, actual %d bytes\n",
			r.Subsong, r.Channel, r.Symbols, r.DistinctSymbols, r.EntropyBits, r.MinimumBytes, r.ActualBytes)
		for _, e := range analysis.DumpFrequencies(freqs[i]) {
			fmt.Fprintf(&b, "  %08x: %d\n", e.Code, e.Count)
		}
	}
	return []byte(b.String())
}
