// Package analysis reports how well one channel's code sequence
// compressed: the alphabet's Shannon entropy against the raw AlphaCode
// count, and the theoretical minimum size that entropy implies, alongside
// the size the encoder actually produced.
//
// Built as a structured report rather than a direct print, so the CLI
// can choose to show it under --debug.
package analysis

import (
	"math"
	"sort"

	"github.com/musclesoft/tiazip/internal/alphacode"
)

// FrequencyMap counts how often each wire-encoded AlphaCode appears in a
// code sequence.
func FrequencyMap(codes []alphacode.Code) map[uint64]int {
	freq := make(map[uint64]int, len(codes))
	for _, c := range codes {
		freq[c.Wire()]++
	}
	return freq
}

// Entropy returns the Shannon entropy, in bits per symbol, of freq.
func Entropy(freq map[uint64]int) float64 {
	total := 0
	for _, count := range freq {
		total += count
	}
	if total == 0 {
		return 0
	}
	var h float64
	for _, count := range freq {
		p := float64(count) / float64(total)
		h -= p * math.Log2(p)
	}
	return h
}

// FrequencyEntry is one code's observed count, the unit SHOW_FREQUENCIES
// dumps one line per.
type FrequencyEntry struct {
	Code  uint64
	Count int
}

// DumpFrequencies sorts freq by descending count, ties broken by
// ascending code, mirroring SHOW_FREQUENCIES's sort-then-log loop over
// the original exporter's frequency map.
func DumpFrequencies(freq map[uint64]int) []FrequencyEntry {
	entries := make([]FrequencyEntry, 0, len(freq))
	for code, count := range freq {
		entries = append(entries, FrequencyEntry{Code: code, Count: count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Code < entries[j].Code
	})
	return entries
}

// Report summarizes one channel's compression outcome.
type Report struct {
	Subsong         int
	Channel         int
	Symbols         int
	DistinctSymbols int
	EntropyBits     float64
	MinimumBytes    float64 // symbols * entropy / 8, the information-theoretic floor
	ActualBytes     int
}

// Summarize builds a Report from a channel's uncompressed code sequence and
// the encoder's final byte count.
func Summarize(subsong, channel int, codes []alphacode.Code, actualBytes int) Report {
	freq := FrequencyMap(codes)
	h := Entropy(freq)
	return Report{
		Subsong:         subsong,
		Channel:         channel,
		Symbols:         len(codes),
		DistinctSymbols: len(freq),
		EntropyBits:     h,
		MinimumBytes:    h * float64(len(codes)) / 8,
		ActualBytes:     actualBytes,
	}
}
