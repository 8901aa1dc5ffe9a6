// Package validate replays a compiled data/span stream pair through the
// decoder state machine and checks the emitted AlphaCode sequence against
// the uncompressed original, position by position. Any divergence is a
// compiler bug, never a property of the input song, so it is reported as
// an error rather than tolerated or retried.
//
// This is a replay-then-diff validator: run the decoder over the
// compiled streams and compare each emitted code against the expected
// trace, one position at a time.
package validate

import (
	"github.com/musclesoft/tiazip/internal/alphacode"
	"github.com/musclesoft/tiazip/internal/decoder"
	"github.com/musclesoft/tiazip/internal/flowgraph"
	"github.com/musclesoft/tiazip/internal/tzerrors"
	"github.com/musclesoft/tiazip/internal/tzlog"
)

// maxSteps bounds the replay so a malformed stream (a control-flow bug that
// produces a genuine infinite loop) fails fast instead of hanging the
// compiler.
const maxSteps = 1 << 24

// Replay compares flowgraph.Result's streams against the original
// uncompressed code sequence for one (subsong, channel). It returns the
// first divergence found, or nil if the streams replay identically.
func Replay(original []alphacode.Code, compiled flowgraph.Result, subsong, channel int) error {
	i := 0
	var mismatch error

	emit := func(got alphacode.Code) {
		if mismatch != nil {
			return
		}
		if i >= len(original) {
			tzlog.Debugf("%d %d | %d: %08x <> %08x (%d)", subsong, channel, i, alphacode.Stop.Wire(), got.Wire(), i)
			mismatch = &tzerrors.DivergenceError{
				Subsong:  subsong,
				Channel:  channel,
				Expected: alphacode.Stop.Wire(),
				Got:      got.Wire(),
				Position: i,
			}
			return
		}
		want := original[i]
		if want.Wire() != got.Wire() {
			tzlog.Debugf("%d %d | %d: %08x <> %08x (%d)", subsong, channel, i, want.Wire(), got.Wire(), i)
			mismatch = &tzerrors.DivergenceError{
				Subsong:  subsong,
				Channel:  channel,
				Expected: want.Wire(),
				Got:      got.Wire(),
				Position: i,
			}
			return
		}
		i++
	}

	decoder.Run(compiled.DataStream, compiled.SpanStream, emit, maxSteps)

	if mismatch != nil {
		return mismatch
	}
	if i != len(original) {
		tzlog.Debugf("fail at end %d", i)
		return &tzerrors.DivergenceError{
			Subsong:  subsong,
			Channel:  channel,
			Expected: original[i].Wire(),
			Got:      0,
			Position: i,
		}
	}
	return nil
}
