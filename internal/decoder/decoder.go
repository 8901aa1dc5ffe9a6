// Package decoder implements the abstract decoder state machine: the
// same PC/SC/lastPos/maxPos interpreter both the build-time control-flow
// rewriter (for its return-address fix-up pass) and the validator (to
// replay the compressed streams against the original code sequence)
// need — kept in one place so the two can never disagree about what
// TAKE_TRACK_JUMP, RETURN_LAST, or RETURN_FF actually do.
package decoder

import "github.com/musclesoft/tiazip/internal/alphacode"

// State is the decoder's entire working memory: two cursors into the data
// and span streams, plus the two registers (lastPos, maxPos) that let
// RETURN_LAST/RETURN_FF replace an explicit jump operand.
type State struct {
	PC, SC          int
	LastPos, MaxPos int
}

// Outcome reports what Step did.
type Outcome int

const (
	Continue Outcome = iota
	Halted
)

// RewriteHook lets a caller intercept a TAKE_TRACK_JUMP decision before
// Step dispatches it. It runs after the jump's target address is known
// but before Step reads span[decisionIdx].Op to decide what to do, so a
// hook may rewrite span[decisionIdx] (and its operand slot,
// span[decisionIdx+1]) in place — e.g. into RETURN_LAST/RETURN_FF plus a
// RETURN_NOOP alignment slot — based on st.LastPos/st.MaxPos and addr.
// Step re-reads the decision afterward and dispatches whatever opcode it
// holds then. The control-flow rewriter's return-address fix-up pass
// drives Step with this hook and the validator's replay drives the same
// Step with a nil hook (via Run), so they can never disagree about what a
// rewritten decision means.
type RewriteHook func(st *State, span []alphacode.Code, decisionIdx, addr int)

// Step advances the state machine by exactly one instruction. emit is
// called once for every WRITE_DELTA/PAUSE/SUSTAIN/STOP code the data
// stream yields, in the order the decoder actually visits them — this is
// the sequence the Validator compares against the uncompressed original.
// hook may be nil.
func Step(data, span []alphacode.Code, st *State, emit func(alphacode.Code), hook RewriteHook) Outcome {
	op := data[st.PC].Op

	switch op {
	case alphacode.OpWriteDelta, alphacode.OpPause, alphacode.OpSustain:
		emit(data[st.PC])
		st.PC++
		return Continue

	case alphacode.OpStop:
		emit(data[st.PC])
		return Halted

	case alphacode.OpTakeDataJump:
		addr := int(data[st.PC+1].Address)
		st.LastPos = st.PC
		st.raiseMaxPos()
		st.PC = addr
		return Continue

	case alphacode.OpBranchPoint:
		addrDefault := int(data[st.PC+1].Address)
		decisionIdx := st.SC
		if hook != nil && span[decisionIdx].Op == alphacode.OpTakeTrackJump {
			hook(st, span, decisionIdx, int(span[decisionIdx+1].Address))
		}
		decision := span[decisionIdx]
		st.SC++

		switch decision.Op {
		case alphacode.OpStop:
			return Halted

		case alphacode.OpSkip:
			st.PC += 2

		case alphacode.OpTakeDataJump:
			st.PC = addrDefault
			st.LastPos = st.PC
			st.raiseMaxPos()

		case alphacode.OpTakeTrackJump:
			addr := int(span[st.SC].Address)
			st.SC++
			next := st.PC + 2
			st.LastPos = next
			st.raiseMaxPos()
			st.PC = addr

		case alphacode.OpReturnLast:
			st.SC++ // consume the RETURN_NOOP alignment slot
			st.PC = st.LastPos

		case alphacode.OpReturnFF:
			st.SC++
			st.PC = st.MaxPos
		}
		return Continue
	}

	return Halted
}

func (st *State) raiseMaxPos() {
	if st.LastPos > st.MaxPos {
		st.MaxPos = st.LastPos
	}
}

// Run drives Step to completion (or until maxSteps is exhausted, guarding
// against a malformed stream looping forever), invoking emit for each
// yielded code.
func Run(data, span []alphacode.Code, emit func(alphacode.Code), maxSteps int) {
	st := &State{}
	for i := 0; i < maxSteps; i++ {
		if Step(data, span, st, emit, nil) == Halted {
			return
		}
	}
}
