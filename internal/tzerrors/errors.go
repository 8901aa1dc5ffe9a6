// Package tzerrors defines the compiler's error taxonomy.
//
// No error here is ever recovered inside the compression core: TimingError
// is the only one the outer driver is allowed to swallow (it skips the
// affected subsong and continues); everything else aborts the export.
package tzerrors

import "fmt"

// ConfigError reports an unrecognized export type or channel address map.
// Fatal at pipeline start.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: %s", e.Reason)
}

// TimingError reports a zero or negative frame rate in a register-write
// stream. Fatal for that subsong only.
type TimingError struct {
	Subsong int
	Reason  string
}

func (e *TimingError) Error() string {
	return fmt.Sprintf("timing error (subsong %d): %s", e.Subsong, e.Reason)
}

// OverflowError reports a sequence length exceeding format-specific bounds.
// Fatal for that format.
type OverflowError struct {
	Subsong int
	Channel int
	Reason  string
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("overflow error (subsong %d, channel %d): %s", e.Subsong, e.Channel, e.Reason)
}

// DivergenceError reports that the validator's replay of the compressed
// streams disagreed with the original uncompressed code sequence. Always
// indicates a compressor bug; never retried, never masked.
type DivergenceError struct {
	Subsong  int
	Channel  int
	Expected uint64
	Got      uint64
	Position int
}

func (e *DivergenceError) Error() string {
	return fmt.Sprintf(
		"divergence error (subsong %d, channel %d) at position %d: expected %#016x, got %#016x",
		e.Subsong, e.Channel, e.Position, e.Expected, e.Got,
	)
}

// BitstreamCapacityError reports a bitstream buffer exhausted at write
// time. Fatal; indicates a pathological input or a compressor regression.
type BitstreamCapacityError struct {
	Subsong  int
	Channel  int
	Capacity int
	Needed   int
}

func (e *BitstreamCapacityError) Error() string {
	return fmt.Sprintf(
		"bitstream capacity error (subsong %d, channel %d): capacity %d bits, needed %d bits",
		e.Subsong, e.Channel, e.Capacity, e.Needed,
	)
}
