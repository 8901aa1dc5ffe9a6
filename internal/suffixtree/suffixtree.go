// Package suffixtree builds a generalized suffix tree over one (subsong,
// channel)'s alphabet-indexed code sequence and answers the single query
// the span compressor needs: find_prior(i) -> the longest prefix of
// seq[i..] that also occurs starting at some j < i.
//
// Nodes live in a flat arena addressed by index rather than raw owning
// pointers: edges are (child-index, label-slice) pairs, and tearing the
// tree down is dropping the arena — no parent/child ownership cycle to
// reason about.
package suffixtree

import "github.com/musclesoft/tiazip/internal/alphabet"

// terminal is a sentinel appended once to the working sequence so no
// suffix is ever a prefix of another (the classic "$" trick) — every
// inserted suffix then ends in a unique leaf.
const terminal = alphabet.AlphaChar(-1)

type node struct {
	children     map[alphabet.AlphaChar]int
	start, end   int // edge label from parent is seq[start:end)
	leafStart    int // -1 unless this node is a leaf; then the suffix start it represents
	minLeafStart int // minimum leaf start in this node's subtree, computed after insertion
}

// Tree is the arena-backed suffix tree for one (subsong, channel)'s
// sequence. Owned exclusively by the Span Compressor invocation that
// built it; dropping the Tree value reclaims the arena.
type Tree struct {
	seq     []alphabet.AlphaChar // working sequence, with terminal appended
	realLen int                  // length of the real sequence, excluding terminal
	nodes   []node
}

func (t *Tree) newNode(start, end, leafStart int) int {
	t.nodes = append(t.nodes, node{
		children:     make(map[alphabet.AlphaChar]int),
		start:        start,
		end:          end,
		leafStart:    leafStart,
		minLeafStart: leafStart,
	})
	return len(t.nodes) - 1
}

// Build constructs the suffix tree over seq. Construction is a direct
// suffix-by-suffix trie insertion with edge compression: each insertion
// walks from the root and may compare up to the rest of the sequence, so
// the worst case (long repeated runs) is quadratic in len(seq). It is not
// a linear-time build.
func Build(seq []alphabet.AlphaChar) *Tree {
	t := &Tree{realLen: len(seq)}
	t.seq = make([]alphabet.AlphaChar, len(seq)+1)
	copy(t.seq, seq)
	t.seq[len(seq)] = terminal

	t.newNode(0, 0, -1) // root

	for i := 0; i < len(t.seq); i++ {
		t.insertSuffix(i)
	}
	t.computeMinLeafStarts(0)
	return t
}

func (t *Tree) insertSuffix(i int) {
	cur := 0
	pos := i
	n := len(t.seq)

	for pos < n {
		c := t.seq[pos]
		childIdx, ok := t.nodes[cur].children[c]
		if !ok {
			leaf := t.newNode(pos, n, i)
			t.nodes[cur].children[c] = leaf
			return
		}

		child := t.nodes[childIdx]
		edgeLen := child.end - child.start
		j := 0
		for j < edgeLen && pos+j < n && t.seq[child.start+j] == t.seq[pos+j] {
			j++
		}

		if j == edgeLen {
			pos += edgeLen
			cur = childIdx
			continue
		}

		// Mismatch partway through the edge: split it.
		splitIdx := t.newNode(child.start, child.start+j, -1)
		t.nodes[cur].children[c] = splitIdx
		t.nodes[childIdx].start += j
		t.nodes[splitIdx].children[t.seq[t.nodes[childIdx].start]] = childIdx

		newLeaf := t.newNode(pos+j, n, i)
		t.nodes[splitIdx].children[t.seq[pos+j]] = newLeaf
		return
	}
}

func (t *Tree) computeMinLeafStarts(idx int) int {
	n := &t.nodes[idx]
	if len(n.children) == 0 {
		return n.leafStart
	}
	min := -1
	for _, childIdx := range n.children {
		m := t.computeMinLeafStarts(childIdx)
		if min == -1 || m < min {
			min = m
		}
	}
	n.minLeafStart = min
	return min
}

// Span is the result of a find_prior query: the earlier occurrence's
// start position and the matched length. Length is 0 if no such prefix
// of length >= 1 exists.
type Span struct {
	Start  int
	Length int
}

// FindPrior returns the longest prefix of seq[i:] that also occurs
// starting at some j < i, reporting the leftmost such j it can establish
// via the subtree's minimum leaf start. Candidate branches whose only
// leaves start at >= i are not descended into.
func (t *Tree) FindPrior(i int) Span {
	cur := 0
	pos := i
	length := 0
	start := -1

	for pos < t.realLen {
		c := t.seq[pos]
		childIdx, ok := t.nodes[cur].children[c]
		if !ok {
			break
		}
		child := t.nodes[childIdx]
		if child.minLeafStart < 0 || child.minLeafStart >= i {
			break
		}

		edgeLen := child.end - child.start
		usable := edgeLen
		if pos+usable > t.realLen {
			usable = t.realLen - pos
		}
		if usable <= 0 {
			break
		}

		length += usable
		start = child.minLeafStart
		if usable < edgeLen {
			break
		}
		pos += edgeLen
		cur = childIdx
	}

	if length == 0 {
		return Span{Start: 0, Length: 0}
	}
	return Span{Start: start, Length: length}
}
