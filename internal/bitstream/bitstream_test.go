package bitstream

import (
	"testing"

	"github.com/musclesoft/tiazip/internal/tzerrors"
)

func TestWriteBitsReadBitsRoundTrip(t *testing.T) {
	bs := New(128, 0, 0)
	values := []struct {
		v    uint64
		bits uint8
	}{
		{0x1f, 5},
		{0xab, 8},
		{1, 1},
		{0, 1},
		{0x3ff, 10},
	}

	for _, tc := range values {
		if err := bs.WriteBits(tc.v, tc.bits); err != nil {
			t.Fatalf("WriteBits(%d, %d) error: %v", tc.v, tc.bits, err)
		}
	}

	bs.Seek(0)
	for _, tc := range values {
		got := bs.ReadBits(tc.bits)
		if got != tc.v {
			t.Errorf("ReadBits(%d) = %d, want %d", tc.bits, got, tc.v)
		}
	}
}

func TestWriteByteViaReadByte(t *testing.T) {
	bs := New(64, 0, 0)
	if err := bs.WriteBits(0xcd, 8); err != nil {
		t.Fatalf("WriteBits error: %v", err)
	}
	bs.Seek(0)
	if got := bs.ReadByte(); got != 0xcd {
		t.Errorf("ReadByte = %#x, want 0xcd", got)
	}
}

func TestWriteBitPastCapacityReturnsError(t *testing.T) {
	bs := New(4, 2, 3)
	for i := 0; i < 4; i++ {
		if err := bs.WriteBit(true); err != nil {
			t.Fatalf("unexpected error on bit %d: %v", i, err)
		}
	}
	err := bs.WriteBit(true)
	if err == nil {
		t.Fatal("expected a capacity error on the 5th bit")
	}
	capErr, ok := err.(*tzerrors.BitstreamCapacityError)
	if !ok {
		t.Fatalf("expected *tzerrors.BitstreamCapacityError, got %T", err)
	}
	if capErr.Subsong != 2 || capErr.Channel != 3 {
		t.Errorf("unexpected error context: %+v", capErr)
	}
}

func TestSizeTracksHighWaterMarkNotCursor(t *testing.T) {
	bs := New(64, 0, 0)
	if err := bs.WriteBits(0xff, 8); err != nil {
		t.Fatalf("WriteBits error: %v", err)
	}
	bs.Seek(0)
	_ = bs.ReadBits(4)

	if bs.Size() != 8 {
		t.Errorf("Size() = %d, want 8 (high-water mark unaffected by read seek)", bs.Size())
	}
	if bs.Position() != 4 {
		t.Errorf("Position() = %d, want 4", bs.Position())
	}
}

func TestBytesUsedRoundsUpToWholeBytes(t *testing.T) {
	bs := New(64, 0, 0)
	if err := bs.WriteBits(1, 1); err != nil {
		t.Fatalf("WriteBits error: %v", err)
	}
	if bs.BytesUsed() != 1 {
		t.Errorf("BytesUsed() = %d, want 1 for a single written bit", bs.BytesUsed())
	}
}

func TestHasBitsReflectsCursorAgainstHighWaterMark(t *testing.T) {
	bs := New(64, 0, 0)
	if bs.HasBits() {
		t.Error("expected no bits available before anything is written")
	}
	if err := bs.WriteBits(3, 2); err != nil {
		t.Fatalf("WriteBits error: %v", err)
	}
	if bs.HasBits() {
		t.Error("cursor sits at endPos right after writing, expected no unread bits")
	}
	bs.Seek(0)
	if !bs.HasBits() {
		t.Error("expected unread bits after seeking back to 0")
	}
}
