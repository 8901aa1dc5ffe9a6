// Package capture turns the raw register-write log for one (subsong,
// channel) into an ordered ChannelStateSequence, the input the code
// emitter consumes.
package capture

import (
	"github.com/musclesoft/tiazip/internal/tzerrors"
	"github.com/musclesoft/tiazip/internal/tzregw"
)

// ChannelState is the tuple of three TIA registers that define a channel's
// sound at an instant. Frequency fits in 5 bits; control and volume each
// fit in 4 bits.
type ChannelState struct {
	Control   uint8
	Frequency uint8
	Volume    uint8
}

// ChannelStateInterval captures "these registers held for this many
// frames."
type ChannelStateInterval struct {
	State    ChannelState
	Duration uint8 // in [1, maxIntervalDuration]
}

// ChannelStateSequence is the capture's full output for one (subsong,
// channel): concatenated durations equal the subsong's frame count.
type ChannelStateSequence struct {
	InitialState        ChannelState
	Intervals           []ChannelStateInterval
	MaxIntervalDuration uint8
}

// builder accumulates intervals while walking the write log.
type builder struct {
	seq          ChannelStateSequence
	current      ChannelState
	haveCurrent  bool
	framesHeld   int // whole frames accumulated for the open interval
	residualTick uint32
}

// Capture walks writes in time order and produces the ChannelStateSequence
// for the given (subsong, channel). Ticks per frame = TicksPerSecond / hz,
// rounded down; a residual partial frame extends the next interval. Runs
// longer than maxIntervalDuration are split into adjacent identical-state
// intervals. Returns a TimingError if hz is zero (or negative).
func Capture(
	writes []tzregw.RegisterWrite,
	subsong int,
	addrs tzregw.ChannelAddressMap,
	maxIntervalDuration uint8,
) (ChannelStateSequence, error) {
	b := &builder{}
	b.seq.MaxIntervalDuration = maxIntervalDuration
	b.current = ChannelState{}

	for _, w := range writes {
		if w.Row.Subsong != subsong {
			continue
		}
		if w.Hz <= 0 {
			return ChannelStateSequence{}, &tzerrors.TimingError{
				Subsong: subsong,
				Reason:  "zero or negative frame rate",
			}
		}

		ticksPerFrame := uint32(tzregw.TicksPerSecond / w.Hz)
		if ticksPerFrame == 0 {
			ticksPerFrame = 1
		}

		if !b.touchesChannel(w.Addr, addrs) {
			continue
		}

		next := b.current
		switch w.Addr {
		case addrs.Control:
			next.Control = w.Val & 0x0f
		case addrs.Frequency:
			next.Frequency = w.Val & 0x1f
		case addrs.Volume:
			next.Volume = w.Val & 0x0f
		}

		if !b.haveCurrent {
			b.seq.InitialState = next
			b.current = next
			b.haveCurrent = true
			continue
		}

		if next != b.current {
			b.closeInterval()
			b.current = next
		}

		b.residualTick += w.Ticks
		for b.residualTick >= ticksPerFrame {
			b.residualTick -= ticksPerFrame
			b.framesHeld++
			if b.framesHeld == int(maxIntervalDuration) {
				b.closeInterval()
			}
		}
	}
	b.closeInterval()
	return b.seq, nil
}

func (b *builder) touchesChannel(addr uint16, addrs tzregw.ChannelAddressMap) bool {
	return addr == addrs.Control || addr == addrs.Frequency || addr == addrs.Volume
}

// closeInterval commits the open run as one or more intervals (splitting
// on maxIntervalDuration) unless its duration would be zero.
func (b *builder) closeInterval() {
	if b.framesHeld == 0 {
		return
	}
	maxDur := int(b.seq.MaxIntervalDuration)
	if maxDur == 0 {
		maxDur = 255
	}
	remaining := b.framesHeld
	for remaining > 0 {
		d := remaining
		if d > maxDur {
			d = maxDur
		}
		b.seq.Intervals = append(b.seq.Intervals, ChannelStateInterval{
			State:    b.current,
			Duration: uint8(d),
		})
		remaining -= d
	}
	b.framesHeld = 0
}
