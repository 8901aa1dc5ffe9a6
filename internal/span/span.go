// Package span implements the span compressor: a greedy left-to-right
// parse of the alphabet-indexed code sequence into literal spans and
// back-reference spans, producing copyMap (leftmost origin) and
// branchFrequencyMap (successor histograms) for the control-flow
// rewriter.
package span

import (
	"github.com/musclesoft/tiazip/internal/alphabet"
	"github.com/musclesoft/tiazip/internal/suffixtree"
)

// Span is a half-open interval into a code sequence: literal (freshly
// emitted) if discovered by falling through the parse, back-reference
// (copy of an earlier span) if discovered via find_prior.
type Span struct {
	Subsong int
	Channel int
	Start   int
	Length  int
}

// MinBackrefLength is the parse's commit threshold (3): a back-reference is
// committed only when its length exceeds this value, so the shortest
// committed back-reference is 4 codes long. Kept fixed so property tests
// stay stable.
const MinBackrefLength = 3

// Result is the Span Compressor's output.
type Result struct {
	// CopyMap[i] is the leftmost occurrence of the length-one prefix
	// starting at position i. CopyMap[i] <= i always; CopyMap[i] == i
	// when i is the first position of a literal span.
	CopyMap []int

	// BranchFrequencyMap[src] holds successor->count, summed over every
	// traversal of src, pruned to nil wherever fewer than two distinct
	// successors were observed.
	BranchFrequencyMap []map[int]int

	// SkipMap[src] is the successor with the highest count that is not
	// the physical neighbor src+1, or src+1 itself when
	// BranchFrequencyMap[src] (pre-prune) had fewer than two entries.
	SkipMap []int

	// Spans records literal and back-reference spans in parse order.
	Spans []Span
}

// Parse performs the greedy left-to-right literal/back-reference split.
func Parse(alphaSeq []alphabet.AlphaChar, tree *suffixtree.Tree, subsong, channel int) Result {
	n := len(alphaSeq)
	copyMap := make([]int, n)
	branchFreq := make([]map[int]int, n)

	var spans []Span
	current := Span{Subsong: subsong, Channel: channel, Start: 0, Length: 0}

	for i := 0; i < n; {
		prior := tree.FindPrior(i)
		if prior.Length > MinBackrefLength {
			if current.Length > 0 {
				spans = append(spans, current)
			}
			spans = append(spans, Span{Subsong: subsong, Channel: channel, Start: prior.Start, Length: prior.Length})

			end := i + prior.Length
			for j := prior.Start; i < end; j, i = j+1, i+1 {
				nextCodeAddr := copyMap[j]
				copyMap[i] = nextCodeAddr
				if i > 0 {
					lastCodeAddr := copyMap[i-1]
					incr(branchFreq, lastCodeAddr, nextCodeAddr)
				}
			}
			current = Span{Subsong: subsong, Channel: channel, Start: i, Length: 0}
		} else {
			if i > 0 {
				lastCodeAddr := copyMap[i-1]
				incr(branchFreq, lastCodeAddr, i)
			}
			copyMap[i] = i
			current.Length++
			i++
		}
	}
	if current.Length > 0 {
		spans = append(spans, current)
	}

	skipMap := computeSkipMap(branchFreq)
	for i, freqs := range branchFreq {
		if len(freqs) < 2 {
			branchFreq[i] = nil
		}
	}

	return Result{
		CopyMap:            copyMap,
		BranchFrequencyMap: branchFreq,
		SkipMap:            skipMap,
		Spans:              spans,
	}
}

func incr(branchFreq []map[int]int, src, dst int) {
	if branchFreq[src] == nil {
		branchFreq[src] = make(map[int]int)
	}
	branchFreq[src][dst]++
}

func computeSkipMap(branchFreq []map[int]int) []int {
	skip := make([]int, len(branchFreq))
	for src, freqs := range branchFreq {
		if len(freqs) < 2 {
			skip[src] = src + 1
			continue
		}
		best, bestCount := -1, -1
		for succ, count := range freqs {
			if succ == src+1 {
				continue
			}
			if count > bestCount {
				bestCount, best = count, succ
			}
		}
		if best == -1 {
			best = src + 1
		}
		skip[src] = best
	}
	return skip
}
