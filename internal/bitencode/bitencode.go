// Package bitencode is the bitstream encoder: it Huffman-codes each
// AlphaCode field separately (one tree for the abstract opcode, one each
// for the control byte, volume, duration, and the span-stream's smaller
// decision vocabulary — frequency is written as a direct 5-bit field, TIA's
// divider range being too narrow for a tree to help), resolves every jump
// operand through a capped lookup table with a raw-address fallback, and
// emits the result into one capacity-bounded bitstream per channel: the
// jump table header, then the data stream, then the span stream. The data
// and span streams do not get separate bitstreams.
//
// A jump operand's target is a stream index known at compile time, but
// the *bit offset* that index ends up at isn't known until every
// preceding code has been Huffman-coded, so operands are written as
// placeholders and patched once the whole stream's bit offsets are
// final.
package bitencode

import (
	"math/bits"
	"sort"

	"github.com/musclesoft/tiazip/internal/alphacode"
	"github.com/musclesoft/tiazip/internal/bitstream"
	"github.com/musclesoft/tiazip/internal/huffman"
	"github.com/musclesoft/tiazip/internal/tzconfig"
	"github.com/musclesoft/tiazip/internal/tzlog"
)

// literalEscape is a sentinel value outside every field's real domain, used
// to mark the Huffman literal-escape leaf in each of the five trees.
const literalEscape = ^uint64(0)

const (
	frequencyBits = 5
	rawFieldBits  = 8
	inlineAddrBits = 16
)

// Trees holds the five per-field Huffman trees the encoder needs.
type Trees struct {
	Abstract *huffman.Tree
	Control  *huffman.Tree
	Volume   *huffman.Tree
	Duration *huffman.Tree
	Span     *huffman.Tree
}

// BuildTrees gathers per-field frequency tables from one channel's compiled
// data/span streams and builds the five Huffman trees.
func BuildTrees(data, spanStream []alphacode.Code, cfg tzconfig.Config) Trees {
	abstractFreq := map[uint64]int{}
	controlFreq := map[uint64]int{}
	volumeFreq := map[uint64]int{}
	durationFreq := map[uint64]int{}
	spanFreq := map[uint64]int{}

	for i := 0; i < len(data); i++ {
		c := data[i]
		abstractFreq[uint64(c.Op)]++
		switch c.Op {
		case alphacode.OpWriteDelta:
			controlFreq[uint64(c.Control)]++
			volumeFreq[uint64(c.Volume)]++
		case alphacode.OpPause, alphacode.OpSustain:
			durationFreq[uint64(c.Duration)]++
		case alphacode.OpBranchPoint, alphacode.OpTakeDataJump:
			i++ // skip the trailing Jump operand slot
		}
	}

	for i := 0; i < len(spanStream); i++ {
		c := spanStream[i]
		spanFreq[uint64(c.Op)]++
		if c.Op == alphacode.OpTakeTrackJump {
			i++
		}
	}

	trees := Trees{
		Abstract: huffman.Build(abstractFreq, cfg.HuffmanLeafLimit, literalEscape),
		Control:  huffman.Build(controlFreq, cfg.HuffmanLeafLimit, literalEscape),
		Volume:   huffman.Build(volumeFreq, cfg.HuffmanLeafLimit, literalEscape),
		Duration: huffman.Build(durationFreq, cfg.HuffmanLeafLimit, literalEscape),
		Span:     huffman.Build(spanFreq, cfg.HuffmanLeafLimit, literalEscape),
	}

	dumpTree("abstract", trees.Abstract, abstractFreq)
	dumpTree("control", trees.Control, controlFreq)
	dumpTree("volume", trees.Volume, volumeFreq)
	dumpTree("duration", trees.Duration, durationFreq)
	dumpTree("span", trees.Span, spanFreq)

	return trees
}

// dumpTree logs one field's code -> weight (path) assignments, the same
// trace SHOW_FREQUENCIES's Huffman pass produces per field.
func dumpTree(field string, tree *huffman.Tree, freq map[uint64]int) {
	index := tree.Index()
	codes := make([]uint64, 0, len(index))
	for code := range index {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })

	for _, code := range codes {
		path := index[code]
		bitPath := make([]byte, len(path))
		for i, bit := range path {
			if bit {
				bitPath[i] = '1'
			} else {
				bitPath[i] = '0'
			}
		}
		tzlog.Debugf("%s %08x -> %d (%s)", field, code, freq[code], string(bitPath))
	}
}

// Encode writes data and spanStream into a single capacity-bounded
// Bitstream: a jump lookup table header, the Huffman-coded data stream,
// then the Huffman-coded span stream.
func Encode(data, spanStream []alphacode.Code, trees Trees, cfg tzconfig.Config, subsong, channel int) (*bitstream.Bitstream, error) {
	abstractIdx := trees.Abstract.Index()
	controlIdx := trees.Control.Index()
	volumeIdx := trees.Volume.Index()
	durationIdx := trees.Duration.Index()
	spanIdx := trees.Span.Index()

	targets := collectJumpTargets(data, spanStream)
	tableTargets := topTargets(targets, cfg.JumpTableSize)
	tableIdx := make(map[int]int, len(tableTargets))
	for k, t := range tableTargets {
		tableIdx[t] = k
	}
	indexBits := uint8(bits.Len(uint(maxInt(cfg.JumpTableSize-1, 0))))
	if indexBits == 0 {
		indexBits = 1
	}

	bs := bitstream.New(cfg.BlockSizeBits, subsong, channel)

	headerBits := len(tableTargets) * inlineAddrBits
	for i := 0; i < headerBits; i++ {
		if err := bs.WriteBit(false); err != nil {
			return nil, err
		}
	}

	dataLabel := make([]int, len(data))
	var inlinePatches []patch

	for i := 0; i < len(data); i++ {
		c := data[i]
		dataLabel[i] = bs.Position()

		if err := writeField(bs, abstractIdx, uint64(c.Op)); err != nil {
			return nil, err
		}
		switch c.Op {
		case alphacode.OpWriteDelta:
			if err := writeField(bs, controlIdx, uint64(c.Control)); err != nil {
				return nil, err
			}
			if err := bs.WriteBits(uint64(c.Frequency), frequencyBits); err != nil {
				return nil, err
			}
			if err := writeField(bs, volumeIdx, uint64(c.Volume)); err != nil {
				return nil, err
			}
		case alphacode.OpPause, alphacode.OpSustain:
			if err := writeField(bs, durationIdx, uint64(c.Duration)); err != nil {
				return nil, err
			}
		case alphacode.OpBranchPoint, alphacode.OpTakeDataJump:
			i++
			p, has, err := writeJump(bs, int(data[i].Address), tableIdx, indexBits)
			if err != nil {
				return nil, err
			}
			if has {
				inlinePatches = append(inlinePatches, p)
			}
		}
	}

	for i := 0; i < len(spanStream); i++ {
		c := spanStream[i]
		if err := writeField(bs, spanIdx, uint64(c.Op)); err != nil {
			return nil, err
		}
		if c.Op == alphacode.OpTakeTrackJump {
			i++
			p, has, err := writeJump(bs, int(spanStream[i].Address), tableIdx, indexBits)
			if err != nil {
				return nil, err
			}
			if has {
				inlinePatches = append(inlinePatches, p)
			}
		}
	}

	for k, target := range tableTargets {
		bs.Seek(k * inlineAddrBits)
		if err := bs.WriteBits(uint64(dataLabel[target]), inlineAddrBits); err != nil {
			return nil, err
		}
	}
	for _, p := range inlinePatches {
		bs.Seek(p.bitPos)
		if err := bs.WriteBits(uint64(dataLabel[p.target]), inlineAddrBits); err != nil {
			return nil, err
		}
	}

	return bs, nil
}

// writeField writes value's path through a Huffman tree, falling back to
// the literal-escape leaf's path followed by value's raw bits when value
// never earned its own leaf.
func writeField(bs *bitstream.Bitstream, idx map[uint64][]bool, value uint64) error {
	path, ok := idx[value]
	if !ok {
		path = idx[literalEscape]
		if err := writePath(bs, path); err != nil {
			return err
		}
		return bs.WriteBits(value, rawFieldBits)
	}
	return writePath(bs, path)
}

func writePath(bs *bitstream.Bitstream, path []bool) error {
	for _, bit := range path {
		if err := bs.WriteBit(bit); err != nil {
			return err
		}
	}
	return nil
}

type patch struct {
	bitPos int
	target int
}

// writeJump writes one jump operand: a single in-table flag bit, then
// either a table index or a raw-address placeholder patched in later, once
// every data position's final bit offset is known.
func writeJump(bs *bitstream.Bitstream, target int, tableIdx map[int]int, indexBits uint8) (patch, bool, error) {
	if idx, ok := tableIdx[target]; ok {
		if err := bs.WriteBit(true); err != nil {
			return patch{}, false, err
		}
		return patch{}, false, bs.WriteBits(uint64(idx), indexBits)
	}
	if err := bs.WriteBit(false); err != nil {
		return patch{}, false, err
	}
	pos := bs.Position()
	if err := bs.WriteBits(0, inlineAddrBits); err != nil {
		return patch{}, false, err
	}
	return patch{bitPos: pos, target: target}, true, nil
}

func collectJumpTargets(data, spanStream []alphacode.Code) map[int]int {
	counts := make(map[int]int)
	for i := 0; i < len(data); i++ {
		switch data[i].Op {
		case alphacode.OpBranchPoint, alphacode.OpTakeDataJump:
			i++
			counts[int(data[i].Address)]++
		}
	}
	for i := 0; i < len(spanStream); i++ {
		if spanStream[i].Op == alphacode.OpTakeTrackJump {
			i++
			counts[int(spanStream[i].Address)]++
		}
	}
	return counts
}

// topTargets picks the limit most-frequently-jumped-to addresses, ties
// broken by ascending address so two builds over the same input produce
// the same table.
func topTargets(counts map[int]int, limit int) []int {
	targets := make([]int, 0, len(counts))
	for t := range counts {
		targets = append(targets, t)
	}
	sort.Slice(targets, func(i, j int) bool {
		ti, tj := targets[i], targets[j]
		if counts[ti] != counts[tj] {
			return counts[ti] > counts[tj]
		}
		return ti < tj
	})
	if len(targets) > limit {
		targets = targets[:limit]
	}
	return targets
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
