// Package alphabet implements the Alphabet Indexer: it assigns a small
// integer AlphaChar to each distinct AlphaCode that appears, in a
// deterministic total order (descending frequency, ties by code value)
// so that two runs on identical input produce an identical alphabet.
package alphabet

import "sort"

// AlphaChar is a small integer index into Alphabet.
type AlphaChar int

// Index is the Alphabet Indexer's output: the ordered alphabet and its
// inverse (wire code -> AlphaChar).
type Index struct {
	Alphabet []uint64
	ToChar   map[uint64]AlphaChar
}

// Build assigns AlphaChars to every distinct wire-encoded AlphaCode
// observed in frequencyMap, ordered by descending count and then by
// ascending code value.
func Build(frequencyMap map[uint64]int) Index {
	codes := make([]uint64, 0, len(frequencyMap))
	for c := range frequencyMap {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool {
		ci, cj := codes[i], codes[j]
		if frequencyMap[ci] != frequencyMap[cj] {
			return frequencyMap[ci] > frequencyMap[cj]
		}
		return ci < cj
	})

	idx := Index{
		Alphabet: codes,
		ToChar:   make(map[uint64]AlphaChar, len(codes)),
	}
	for i, c := range codes {
		idx.ToChar[c] = AlphaChar(i)
	}
	return idx
}

// Chars maps a wire-encoded code sequence into its AlphaChar sequence,
// using this Index.
func (idx Index) Chars(codes []uint64) []AlphaChar {
	out := make([]AlphaChar, len(codes))
	for i, c := range codes {
		out[i] = idx.ToChar[c]
	}
	return out
}
