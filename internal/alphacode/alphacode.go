// Package alphacode models AlphaCode: the 64-bit virtual machine
// instruction word that is the unit of compression. It is modeled here
// as a tagged variant (Code) with compact payload fields, plus explicit
// Wire/FromWire conversion to the 64-bit encoding for callers (the
// suffix tree, the frequency maps) that need a comparable, hashable key.
package alphacode

// Op is the high-byte opcode tag.
type Op uint8

const (
	OpStop Op = iota
	OpWriteDelta
	OpPause
	OpSustain
	OpJump
	OpBranchPoint
	OpSkip
	OpTakeDataJump
	OpTakeTrackJump
	OpReturnLast
	OpReturnFF
	OpReturnNoop
)

func (op Op) String() string {
	switch op {
	case OpStop:
		return "STOP"
	case OpWriteDelta:
		return "WRITE_DELTA"
	case OpPause:
		return "PAUSE"
	case OpSustain:
		return "SUSTAIN"
	case OpJump:
		return "JUMP"
	case OpBranchPoint:
		return "BRANCH_POINT"
	case OpSkip:
		return "SKIP"
	case OpTakeDataJump:
		return "TAKE_DATA_JUMP"
	case OpTakeTrackJump:
		return "TAKE_TRACK_JUMP"
	case OpReturnLast:
		return "RETURN_LAST"
	case OpReturnFF:
		return "RETURN_FF"
	case OpReturnNoop:
		return "RETURN_NOOP"
	default:
		return "UNKNOWN"
	}
}

// Volume sentinels: the compressor stores a relative step instead of an
// absolute value when the target volume is exactly last+1 or last-1.
const (
	VolumeSentinelUp   = 0x10
	VolumeSentinelDown = 0xf0
)

// Code is one AlphaCode. Only the fields relevant to Op are meaningful.
type Code struct {
	Op Op

	// WRITE_DELTA payload.
	ControlChanged   bool
	Control          uint8
	FrequencyChanged bool
	Frequency        uint8
	VolumeChanged    bool
	Volume           uint8 // may hold VolumeSentinelUp/Down instead of an absolute value

	// PAUSE / SUSTAIN payload.
	Duration uint8

	// JUMP payload.
	Subsong uint16
	Channel uint8
	Address uint16
}

// Stop is the nullary STOP code that terminates every code sequence.
var Stop = Code{Op: OpStop}

// Pause builds a PAUSE(duration) code.
func Pause(duration uint8) Code {
	return Code{Op: OpPause, Duration: duration}
}

// Sustain builds a SUSTAIN(duration) code.
func Sustain(duration uint8) Code {
	return Code{Op: OpSustain, Duration: duration}
}

// Jump builds a JUMP(subsong, channel, address) code.
func Jump(subsong uint16, channel uint8, address uint16) Code {
	return Code{Op: OpJump, Subsong: subsong, Channel: channel, Address: address}
}

// WriteDelta builds a WRITE_DELTA code. Forbidden if all three change
// flags are clear — callers must not construct one this way; Emit
// (package emit.go) enforces the invariant.
func WriteDelta(cc, fc, vc bool, control, frequency, volume uint8) Code {
	return Code{
		Op:               OpWriteDelta,
		ControlChanged:   cc,
		Control:          control,
		FrequencyChanged: fc,
		Frequency:        frequency,
		VolumeChanged:    vc,
		Volume:           volume,
		Duration:         1,
	}
}

// BranchPoint is the nullary marker the Control-Flow Rewriter places in the
// data stream wherever more than one successor was observed at a position;
// it is always immediately followed by a Jump code carrying the default
// target (the position's SkipMap entry), which a TAKE_DATA_JUMP decision
// takes.
var BranchPoint = Code{Op: OpBranchPoint}

// Skip is a span-stream decision: fall through past the BranchPoint and its
// Jump operand to the next data-stream code.
var Skip = Code{Op: OpSkip}

// TakeDataJump is both a standalone data-stream opcode (unconditional
// redirect, operand is the following Jump code) and a span-stream decision
// at a BranchPoint (same meaning, consulted instead of read unconditionally).
var TakeDataJump = Code{Op: OpTakeDataJump}

// TakeTrackJump is a span-stream decision carrying its own Jump operand
// (immediately following it in the span stream), distinct from the
// BranchPoint's default target.
var TakeTrackJump = Code{Op: OpTakeTrackJump}

// ReturnLast replaces a TakeTrackJump whose target turned out to equal the
// most recent return bookmark; its operand slot becomes ReturnNoop.
var ReturnLast = Code{Op: OpReturnLast}

// ReturnFF replaces a TakeTrackJump whose target turned out to equal the
// high-water mark of every bookmark reached so far.
var ReturnFF = Code{Op: OpReturnFF}

// ReturnNoop fills the operand slot vacated by rewriting TakeTrackJump into
// ReturnLast or ReturnFF, preserving stream alignment.
var ReturnNoop = Code{Op: OpReturnNoop}

// Wire packs a Code into its 64-bit encoding: high byte is the opcode
// tag, remaining bytes carry the payload.
func (c Code) Wire() uint64 {
	w := uint64(c.Op) << 56
	switch c.Op {
	case OpWriteDelta:
		var flags uint8
		if c.ControlChanged {
			flags |= 1
		}
		if c.FrequencyChanged {
			flags |= 2
		}
		if c.VolumeChanged {
			flags |= 4
		}
		w |= uint64(flags) << 48
		w |= uint64(c.Control) << 40
		w |= uint64(c.Frequency) << 32
		w |= uint64(c.Volume) << 24
		w |= uint64(c.Duration) << 16
	case OpPause, OpSustain:
		w |= uint64(c.Duration) << 48
	case OpJump:
		w |= uint64(c.Subsong) << 32
		w |= uint64(c.Channel) << 24
		w |= uint64(c.Address) << 8
	}
	return w
}

// FromWire unpacks a 64-bit encoded AlphaCode back into a Code.
func FromWire(w uint64) Code {
	op := Op(w >> 56)
	c := Code{Op: op}
	switch op {
	case OpWriteDelta:
		flags := uint8(w >> 48)
		c.ControlChanged = flags&1 != 0
		c.FrequencyChanged = flags&2 != 0
		c.VolumeChanged = flags&4 != 0
		c.Control = uint8(w >> 40)
		c.Frequency = uint8(w >> 32)
		c.Volume = uint8(w >> 24)
		c.Duration = uint8(w >> 16)
	case OpPause, OpSustain:
		c.Duration = uint8(w >> 48)
	case OpJump:
		c.Subsong = uint16(w >> 32)
		c.Channel = uint8(w >> 24)
		c.Address = uint16(w >> 8)
	}
	return c
}
