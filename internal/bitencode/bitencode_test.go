package bitencode

import (
	"testing"

	"github.com/musclesoft/tiazip/internal/alphacode"
	"github.com/musclesoft/tiazip/internal/bitstream"
	"github.com/musclesoft/tiazip/internal/huffman"
	"github.com/musclesoft/tiazip/internal/tzconfig"
)

func decodeField(bs *bitstream.Bitstream, tree *huffman.Tree) uint64 {
	v := tree.Decode(bs.ReadBit)
	if v == literalEscape {
		return bs.ReadBits(rawFieldBits)
	}
	return v
}

func testConfig() tzconfig.Config {
	cfg := tzconfig.Default()
	cfg.BlockSizeBits = 4096
	cfg.JumpTableSize = 4
	cfg.HuffmanLeafLimit = 16
	return cfg
}

func TestEncodeRoundTripsFirstDataRecord(t *testing.T) {
	data := []alphacode.Code{
		alphacode.WriteDelta(true, false, true, 2, 10, 5),
		alphacode.BranchPoint, alphacode.Jump(0, 0, 0),
		alphacode.Stop,
	}
	spanStream := []alphacode.Code{alphacode.TakeDataJump}
	cfg := testConfig()

	trees := BuildTrees(data, spanStream, cfg)
	bs, err := Encode(data, spanStream, trees, cfg, 0, 0)
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}

	// One jump target (index 0, the BranchPoint's default), so the table
	// header is exactly one inlineAddrBits-wide slot holding data[0]'s
	// final bit offset: the header's own width.
	bs.Seek(0)
	tableEntry := bs.ReadBits(inlineAddrBits)
	if int(tableEntry) != inlineAddrBits {
		t.Errorf("jump table entry = %d, want %d (data[0]'s offset right after the header)", tableEntry, inlineAddrBits)
	}

	op := decodeField(bs, trees.Abstract)
	if alphacode.Op(op) != alphacode.OpWriteDelta {
		t.Fatalf("first opcode = %s, want WRITE_DELTA", alphacode.Op(op))
	}
	control := decodeField(bs, trees.Control)
	if control != 2 {
		t.Errorf("control = %d, want 2", control)
	}
	freq := bs.ReadBits(frequencyBits)
	if freq != 10 {
		t.Errorf("frequency = %d, want 10", freq)
	}
	vol := decodeField(bs, trees.Volume)
	if vol != 5 {
		t.Errorf("volume = %d, want 5", vol)
	}
}

func TestEncodeErrorsWhenBlockTooSmall(t *testing.T) {
	data := []alphacode.Code{alphacode.Sustain(5), alphacode.Stop}
	cfg := testConfig()
	cfg.BlockSizeBits = 4 // far too small to hold even the opcode fields

	trees := BuildTrees(data, nil, cfg)
	_, err := Encode(data, nil, trees, cfg, 0, 0)
	if err == nil {
		t.Fatal("expected a capacity error from an undersized block")
	}
}

func TestCollectJumpTargetsCountsBranchAndTrackJumps(t *testing.T) {
	data := []alphacode.Code{
		alphacode.BranchPoint, alphacode.Jump(0, 0, 5),
		alphacode.TakeDataJump, alphacode.Jump(0, 0, 5),
		alphacode.Stop,
	}
	spanStream := []alphacode.Code{
		alphacode.TakeTrackJump, alphacode.Jump(0, 0, 5),
		alphacode.TakeTrackJump, alphacode.Jump(0, 0, 9),
	}
	counts := collectJumpTargets(data, spanStream)

	if counts[5] != 3 {
		t.Errorf("counts[5] = %d, want 3 (BranchPoint + TakeDataJump + one TakeTrackJump)", counts[5])
	}
	if counts[9] != 1 {
		t.Errorf("counts[9] = %d, want 1", counts[9])
	}
}

func TestTopTargetsOrdersByFrequencyThenAscendingAddress(t *testing.T) {
	counts := map[int]int{10: 1, 20: 3, 30: 3, 40: 2}
	got := topTargets(counts, 3)

	want := []int{20, 30, 40}
	if len(got) != len(want) {
		t.Fatalf("topTargets = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("topTargets[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}
