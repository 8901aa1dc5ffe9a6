// Package flowgraph rewrites a parsed code sequence (literal spans plus
// back-reference spans) into the two streams the decoder actually walks: a
// data stream holding the literal AlphaCodes interleaved with BRANCH_POINT
// markers, and a span stream holding the decisions a branch point consults
// at run time (SKIP / TAKE_DATA_JUMP / TAKE_TRACK_JUMP / RETURN_LAST /
// RETURN_FF).
//
// Branch targets are resolved in two phases: the initial walk emits
// placeholder jump operands tagged with the original sequence index,
// since a target's final stream position can be discovered later than
// the branch referencing it; a second pass then rewrites every
// placeholder to its resolved position.
package flowgraph

import (
	"github.com/musclesoft/tiazip/internal/alphacode"
	"github.com/musclesoft/tiazip/internal/decoder"
	"github.com/musclesoft/tiazip/internal/span"
)

// Result is the two streams the decoder and Validator walk together.
type Result struct {
	DataStream []alphacode.Code
	SpanStream []alphacode.Code
}

// Rewrite builds both streams from codeSequence (the full uncompressed
// AlphaCode sequence, STOP included) and the Span Compressor's Result.
func Rewrite(codeSequence []alphacode.Code, sr span.Result) Result {
	n := len(codeSequence)
	labels := make([]int, n)

	var data []alphacode.Code
	var spanStream []alphacode.Code

	lastSpanEnd := 0
	for _, sp := range sr.Spans {
		if lastSpanEnd > sp.Start {
			replayBackref(sr, sp, &lastSpanEnd, n, &spanStream)
			continue
		}
		emitLiteral(codeSequence, sr, sp, n, labels, &data, &spanStream)
		lastSpanEnd = sp.Start + sp.Length
	}

	resolveAddresses(data, labels)
	resolveAddresses(spanStream, labels)
	rewriteReturns(data, spanStream)

	return Result{DataStream: data, SpanStream: spanStream}
}

// emitLiteral appends codeSequence[sp.Start:sp.Start+sp.Length) to the data
// stream, recording each position's stream offset in labels, and decides
// for each position whether it needs a BRANCH_POINT (more than one distinct
// successor ever observed), an unconditional TAKE_DATA_JUMP (a single
// successor that isn't the physical neighbor), or nothing (falls through).
func emitLiteral(codeSequence []alphacode.Code, sr span.Result, sp span.Span, n int, labels []int, data, spanStream *[]alphacode.Code) {
	for i := sp.Start; i < sp.Start+sp.Length; i++ {
		labels[i] = len(*data)
		*data = append(*data, codeSequence[i])

		if i+1 >= n {
			continue
		}
		nextCodeAddr := sr.CopyMap[i+1]

		if freqs := sr.BranchFrequencyMap[i]; len(freqs) > 0 {
			skipAddr := sr.SkipMap[i]
			*data = append(*data, alphacode.BranchPoint, placeholderJump(skipAddr))

			switch {
			case nextCodeAddr == skipAddr:
				*spanStream = append(*spanStream, alphacode.TakeDataJump)
			case nextCodeAddr == i+1:
				*spanStream = append(*spanStream, alphacode.Skip)
			default:
				*spanStream = append(*spanStream, alphacode.TakeTrackJump, placeholderJump(nextCodeAddr))
			}
			continue
		}

		if nextCodeAddr != i+1 {
			*data = append(*data, alphacode.TakeDataJump, placeholderJump(nextCodeAddr))
		}
	}
}

// replayBackref walks the virtual positions a back-reference span covers.
// No data is re-emitted — the decoder reaches this code by jumping to its
// first literal occurrence — but a position that was ever a branch point
// still needs its decision recorded for this particular traversal.
func replayBackref(sr span.Result, sp span.Span, lastSpanEnd *int, n int, spanStream *[]alphacode.Code) {
	for k := 0; k < sp.Length; k++ {
		leftmost := sr.CopyMap[*lastSpanEnd]
		*lastSpanEnd++

		if *lastSpanEnd >= n {
			continue
		}
		freqs := sr.BranchFrequencyMap[leftmost]
		if len(freqs) == 0 {
			continue
		}
		nextCodeAddr := sr.CopyMap[*lastSpanEnd]
		skipAddr := sr.SkipMap[leftmost]

		switch {
		case nextCodeAddr == skipAddr:
			*spanStream = append(*spanStream, alphacode.TakeDataJump)
		case nextCodeAddr == leftmost+1:
			*spanStream = append(*spanStream, alphacode.Skip)
		default:
			*spanStream = append(*spanStream, alphacode.TakeTrackJump, placeholderJump(nextCodeAddr))
		}
	}
}

// placeholderJump carries an original-sequence index until resolveAddresses
// rewrites it into a stream position.
func placeholderJump(origIndex int) alphacode.Code {
	return alphacode.Jump(0, 0, uint16(origIndex))
}

// resolveAddresses rewrites every Jump operand's placeholder original-index
// into the stream position that position's literal occurrence ended up at.
// Must run after the full walk completes: a branch recorded early in the
// sequence may target a position whose literal occurrence comes later.
func resolveAddresses(stream []alphacode.Code, labels []int) {
	for i, c := range stream {
		switch c.Op {
		case alphacode.OpBranchPoint, alphacode.OpTakeDataJump, alphacode.OpTakeTrackJump:
			if i+1 < len(stream) && stream[i+1].Op == alphacode.OpJump {
				stream[i+1].Address = uint16(labels[stream[i+1].Address])
			}
		}
	}
}

// rewriteReturns replays the fully address-resolved streams once through
// decoder.Step, tracking the same lastPos/maxPos registers the decoder
// itself owns, and rewrites every TAKE_TRACK_JUMP whose target turns out
// to equal one of those registers into the cheaper RETURN_LAST/RETURN_FF
// encoding (its operand slot becomes RETURN_NOOP to keep the span
// stream's alignment intact). Driving this through decoder.Step — rather
// than re-deriving the PC/SC/lastPos/maxPos transitions here — means this
// pass and the Validator's replay share one implementation of what
// TAKE_TRACK_JUMP, RETURN_LAST, and RETURN_FF do.
func rewriteReturns(data, spanStream []alphacode.Code) {
	hook := func(st *decoder.State, span []alphacode.Code, decisionIdx, addr int) {
		switch addr {
		case st.LastPos:
			span[decisionIdx] = alphacode.ReturnLast
			span[decisionIdx+1] = alphacode.ReturnNoop
		case st.MaxPos:
			span[decisionIdx] = alphacode.ReturnFF
			span[decisionIdx+1] = alphacode.ReturnNoop
		}
	}
	noop := func(alphacode.Code) {}

	st := &decoder.State{}
	for st.PC < len(data) {
		if decoder.Step(data, spanStream, st, noop, hook) == decoder.Halted {
			return
		}
	}
}
