package analysis

import (
	"math"
	"testing"

	"github.com/musclesoft/tiazip/internal/alphacode"
)

func TestEntropyZeroForSingleSymbol(t *testing.T) {
	freq := map[uint64]int{1: 10}
	if h := Entropy(freq); h != 0 {
		t.Errorf("Entropy = %v, want 0 for a single symbol", h)
	}
}

func TestEntropyOneBitForUniformTwoSymbols(t *testing.T) {
	freq := map[uint64]int{1: 5, 2: 5}
	h := Entropy(freq)
	if math.Abs(h-1.0) > 1e-9 {
		t.Errorf("Entropy = %v, want 1.0 for a uniform 2-symbol distribution", h)
	}
}

func TestEntropyEmptyIsZero(t *testing.T) {
	if h := Entropy(map[uint64]int{}); h != 0 {
		t.Errorf("Entropy = %v, want 0 for no observations", h)
	}
}

func TestFrequencyMapCountsWireEncodedCodes(t *testing.T) {
	codes := []alphacode.Code{alphacode.Sustain(1), alphacode.Sustain(1), alphacode.Stop}
	freq := FrequencyMap(codes)
	if freq[alphacode.Sustain(1).Wire()] != 2 {
		t.Errorf("Sustain(1) count = %d, want 2", freq[alphacode.Sustain(1).Wire()])
	}
	if freq[alphacode.Stop.Wire()] != 1 {
		t.Errorf("Stop count = %d, want 1", freq[alphacode.Stop.Wire()])
	}
}

func TestDumpFrequenciesSortsByDescendingCountThenAscendingCode(t *testing.T) {
	freq := map[uint64]int{5: 3, 1: 3, 9: 10, 2: 1}
	entries := DumpFrequencies(freq)

	want := []FrequencyEntry{{Code: 9, Count: 10}, {Code: 1, Count: 3}, {Code: 5, Count: 3}, {Code: 2, Count: 1}}
	if len(entries) != len(want) {
		t.Fatalf("got %d entries, want %d", len(entries), len(want))
	}
	for i, e := range want {
		if entries[i] != e {
			t.Errorf("entries[%d] = %+v, want %+v", i, entries[i], e)
		}
	}
}

func TestSummarizeComputesMinimumBytesFromEntropy(t *testing.T) {
	codes := []alphacode.Code{alphacode.Sustain(1), alphacode.Sustain(2)}
	report := Summarize(0, 1, codes, 42)

	if report.Symbols != 2 {
		t.Errorf("Symbols = %d, want 2", report.Symbols)
	}
	if report.DistinctSymbols != 2 {
		t.Errorf("DistinctSymbols = %d, want 2", report.DistinctSymbols)
	}
	wantMin := report.EntropyBits * 2 / 8
	if math.Abs(report.MinimumBytes-wantMin) > 1e-9 {
		t.Errorf("MinimumBytes = %v, want %v", report.MinimumBytes, wantMin)
	}
	if report.ActualBytes != 42 {
		t.Errorf("ActualBytes = %d, want 42", report.ActualBytes)
	}
}
