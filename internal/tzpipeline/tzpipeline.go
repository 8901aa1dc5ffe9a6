// Package tzpipeline drives the whole compression core end to end, one
// (subsong, channel) at a time, in the canonical order the retrieved
// writes must be replayed in: subsong ascending, then channel ascending.
//
// Each stage prints a "=== stage ===" banner and the whole run aborts on
// the first fatal error, except TimingError: that one is logged and the
// affected subsong is skipped, and compilation continues.
package tzpipeline

import (
	"github.com/musclesoft/tiazip/internal/alphabet"
	"github.com/musclesoft/tiazip/internal/alphacode"
	"github.com/musclesoft/tiazip/internal/bitencode"
	"github.com/musclesoft/tiazip/internal/bitstream"
	"github.com/musclesoft/tiazip/internal/capture"
	"github.com/musclesoft/tiazip/internal/flowgraph"
	"github.com/musclesoft/tiazip/internal/span"
	"github.com/musclesoft/tiazip/internal/suffixtree"
	"github.com/musclesoft/tiazip/internal/tzconfig"
	"github.com/musclesoft/tiazip/internal/tzerrors"
	"github.com/musclesoft/tiazip/internal/tzlog"
	"github.com/musclesoft/tiazip/internal/tzregw"
	"github.com/musclesoft/tiazip/internal/validate"
)

// ChannelResult is one (subsong, channel)'s fully compiled output.
type ChannelResult struct {
	Subsong int
	Channel int

	CodeSequence []alphacode.Code
	Compiled     flowgraph.Result
	Trees        bitencode.Trees
	Bits         *bitstream.Bitstream
}

// Result is a full compilation run's output, plus the subsongs skipped
// because their write log carried no usable frame rate.
type Result struct {
	Channels []ChannelResult
	Skipped  []tzerrors.TimingError
}

// Compile runs every stage — Event Capture, Code Emitter, Alphabet
// Indexer, suffix tree, Span Compressor, Control-Flow Rewriter, Validator,
// Bitstream Encoder — across every (subsong, channel) pair, in canonical
// order. A TimingError for one subsong is logged and that subsong is
// skipped; any other error aborts the run.
func Compile(writes []tzregw.RegisterWrite, numSubsongs int, cfg tzconfig.Config) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	tzlog.SetDebug(cfg.DebugOutput)

	var result Result

	for subsong := 0; subsong < numSubsongs; subsong++ {
		tzlog.Stage("Event Capture")
		skipped := false

		for channel := 0; channel < 2; channel++ {
			addrs := tzregw.AddressMapFor(channel, cfg.Channel0, cfg.Channel1)

			seq, err := capture.Capture(writes, subsong, addrs, cfg.MaxIntervalDuration)
			if err != nil {
				te, ok := err.(*tzerrors.TimingError)
				if !ok {
					return Result{}, err
				}
				tzlog.Warnf("skipping subsong %d: %v", subsong, te)
				result.Skipped = append(result.Skipped, *te)
				skipped = true
				break
			}

			cr, err := compileChannel(seq, subsong, channel, cfg)
			if err != nil {
				return Result{}, err
			}
			result.Channels = append(result.Channels, cr)
		}
		if skipped {
			continue
		}
	}

	return result, nil
}

func compileChannel(seq capture.ChannelStateSequence, subsong, channel int, cfg tzconfig.Config) (ChannelResult, error) {
	tzlog.Stage("Code Emitter")
	codeSequence := emitCodeSequence(seq)

	tzlog.Stage("Alphabet Indexer")
	freqMap := make(map[uint64]int, len(codeSequence))
	wireCodes := make([]uint64, len(codeSequence))
	for i, c := range codeSequence {
		w := c.Wire()
		wireCodes[i] = w
		freqMap[w]++
	}
	alpha := alphabet.Build(freqMap)
	alphaSeq := alpha.Chars(wireCodes)

	tzlog.Stage("Suffix Tree")
	tree := suffixtree.Build(alphaSeq)

	tzlog.Stage("Span Compressor")
	sr := span.Parse(alphaSeq, tree, subsong, channel)

	tzlog.Stage("Control-Flow Rewriter")
	compiled := flowgraph.Rewrite(codeSequence, sr)

	if len(compiled.DataStream) > 1<<16 {
		return ChannelResult{}, &tzerrors.OverflowError{
			Subsong: subsong, Channel: channel,
			Reason: "compiled data stream exceeds addressable range",
		}
	}

	tzlog.Stage("Validator")
	if err := validate.Replay(codeSequence, compiled, subsong, channel); err != nil {
		return ChannelResult{}, err
	}

	tzlog.Stage("Bitstream Encoder")
	trees := bitencode.BuildTrees(compiled.DataStream, compiled.SpanStream, cfg)
	bits, err := bitencode.Encode(compiled.DataStream, compiled.SpanStream, trees, cfg, subsong, channel)
	if err != nil {
		return ChannelResult{}, err
	}

	tzlog.Infof("subsong %d channel %d: %d codes -> %d data + %d span -> %d bytes",
		subsong, channel, len(codeSequence), len(compiled.DataStream), len(compiled.SpanStream), bits.BytesUsed())

	return ChannelResult{
		Subsong:      subsong,
		Channel:      channel,
		CodeSequence: codeSequence,
		Compiled:     compiled,
		Trees:        trees,
		Bits:         bits,
	}, nil
}

// emitCodeSequence runs the Code Emitter over every interval in seq and
// appends the terminating STOP.
func emitCodeSequence(seq capture.ChannelStateSequence) []alphacode.Code {
	var out []alphacode.Code
	last := seq.InitialState
	for _, interval := range seq.Intervals {
		last = alphacode.Emit(interval, last, &out)
	}
	out = append(out, alphacode.Stop)
	return out
}
