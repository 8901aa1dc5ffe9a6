package capture

import (
	"testing"

	"github.com/musclesoft/tiazip/internal/tzerrors"
	"github.com/musclesoft/tiazip/internal/tzregw"
)

func write(subsong int, addr uint16, val uint8, hz float32, ticks uint32) tzregw.RegisterWrite {
	return tzregw.RegisterWrite{
		Addr:  addr,
		Val:   val,
		Hz:    hz,
		Ticks: ticks,
		Row:   tzregw.RowIndex{Subsong: subsong},
	}
}

func TestCaptureSplitsOnStateChange(t *testing.T) {
	addrs := tzregw.Channel0AddressMap
	writes := []tzregw.RegisterWrite{
		write(0, addrs.Volume, 8, 60, tzregw.TicksPerSecond/60),
		write(0, addrs.Volume, 8, 60, tzregw.TicksPerSecond/60),
		write(0, addrs.Volume, 4, 60, tzregw.TicksPerSecond/60),
	}
	seq, err := Capture(writes, 0, addrs, 255)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(seq.Intervals) != 2 {
		t.Fatalf("got %d intervals, want 2: %+v", len(seq.Intervals), seq.Intervals)
	}
	if seq.Intervals[0].State.Volume != 8 || seq.Intervals[0].Duration != 1 {
		t.Errorf("first interval = %+v", seq.Intervals[0])
	}
	if seq.Intervals[1].State.Volume != 4 {
		t.Errorf("second interval state = %+v", seq.Intervals[1])
	}
}

func TestCaptureSplitsOnMaxIntervalDuration(t *testing.T) {
	addrs := tzregw.Channel0AddressMap
	var writes []tzregw.RegisterWrite
	writes = append(writes, write(0, addrs.Volume, 8, 60, tzregw.TicksPerSecond/60))
	for i := 0; i < 5; i++ {
		writes = append(writes, write(0, addrs.Frequency, 0, 60, tzregw.TicksPerSecond/60))
	}
	seq, err := Capture(writes, 0, addrs, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	total := 0
	for _, iv := range seq.Intervals {
		if iv.Duration > 2 {
			t.Errorf("interval duration %d exceeds max 2", iv.Duration)
		}
		total += int(iv.Duration)
	}
	if total != 5 {
		t.Errorf("total frames = %d, want 5", total)
	}
}

func TestCaptureIgnoresOtherSubsongs(t *testing.T) {
	addrs := tzregw.Channel0AddressMap
	writes := []tzregw.RegisterWrite{
		write(1, addrs.Volume, 8, 60, tzregw.TicksPerSecond/60),
	}
	seq, err := Capture(writes, 0, addrs, 255)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(seq.Intervals) != 0 {
		t.Errorf("expected no intervals for unrelated subsong, got %+v", seq.Intervals)
	}
}

func TestCaptureRejectsZeroHz(t *testing.T) {
	addrs := tzregw.Channel0AddressMap
	writes := []tzregw.RegisterWrite{
		write(0, addrs.Volume, 8, 0, 100),
	}
	_, err := Capture(writes, 0, addrs, 255)
	if err == nil {
		t.Fatal("expected a TimingError, got nil")
	}
	if _, ok := err.(*tzerrors.TimingError); !ok {
		t.Errorf("expected *tzerrors.TimingError, got %T", err)
	}
}

func TestCaptureMasksRegisterFieldWidths(t *testing.T) {
	addrs := tzregw.Channel0AddressMap
	writes := []tzregw.RegisterWrite{
		write(0, addrs.Frequency, 0xff, 60, tzregw.TicksPerSecond/60),
	}
	seq, err := Capture(writes, 0, addrs, 255)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seq.InitialState.Frequency != 0x1f {
		t.Errorf("frequency = %#x, want masked to 5 bits (0x1f)", seq.InitialState.Frequency)
	}
}
