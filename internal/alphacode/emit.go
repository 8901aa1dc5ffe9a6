package alphacode

import "github.com/musclesoft/tiazip/internal/capture"

// sustainChunk caps how many residual frames one SUSTAIN code can cover;
// longer runs are split into chunks of this size.
const sustainChunk = 32

// Emit translates one constant-state interval into one or more
// fixed-width AlphaCodes, appended to out. Returns the interval's target
// state, which becomes "last" for the next call.
func Emit(interval capture.ChannelStateInterval, last capture.ChannelState, out *[]Code) capture.ChannelState {
	next := interval.State
	duration := int(interval.Duration)

	cc := next.Control != last.Control
	fc := next.Frequency != last.Frequency
	vc := next.Volume != last.Volume
	changed := cc || fc || vc

	switch {
	case changed && next.Volume == 0:
		*out = append(*out, Pause(1))
		appendSustains(out, duration-1)

	case changed:
		// If control changed, the decoder groups control+frequency+volume
		// into one byte pair for density — force both flags on.
		ccOut, fcOut, vcOut := cc, fc, vc
		if cc {
			fcOut = true
			vcOut = true
		}
		volume := volumeField(last.Volume, next.Volume, vcOut)
		*out = append(*out, WriteDelta(ccOut, fcOut, vcOut, next.Control, next.Frequency, volume))
		appendSustains(out, duration-1)

	default:
		appendSustains(out, duration)
	}

	return next
}

// volumeField applies +1/-1 sentinel smoothing: if the target volume is
// exactly last+1 or last-1, store the sentinel instead of the absolute
// value so the decoder can reconstruct it without encoding it.
func volumeField(last, next uint8, changed bool) uint8 {
	if !changed {
		return next
	}
	if int(next) == int(last)+1 {
		return VolumeSentinelUp
	}
	if int(next) == int(last)-1 {
		return VolumeSentinelDown
	}
	return next
}

func appendSustains(out *[]Code, frames int) {
	for frames > 0 {
		d := frames
		if d > sustainChunk {
			d = sustainChunk
		}
		*out = append(*out, Sustain(uint8(d)))
		frames -= d
	}
}
