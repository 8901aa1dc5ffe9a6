// Package huffman builds one canonical-by-construction Huffman tree per
// field (abstract opcode, control byte, volume, duration, span) for the
// bitstream encoder, and writes/reads bit paths through it.
//
// Construction is a greedy weighted merge over a min-heap: codes seen
// exactly once are folded into a shared literal-escape bucket up front,
// and if the remaining leaf count still exceeds the
// configured cap, the lowest-weight survivors are folded into that same
// bucket until it fits.
package huffman

import (
	"container/heap"
	"sort"
)

type node struct {
	code        uint64
	weight      int
	left, right *node
}

func (n *node) isLeaf() bool {
	return n.left == nil && n.right == nil
}

// Tree is one field's Huffman coding.
type Tree struct {
	root    *node
	Literal uint64
}

// Build constructs a tree over frequencyMap. Codes observed exactly once,
// and whichever lowest-weight codes remain once distinct leaves exceed
// limit, are folded into a single literal-escape leaf instead of each
// earning their own path; the encoder is expected to follow a literal
// escape with the code's raw bits.
func Build(frequencyMap map[uint64]int, limit int, literal uint64) *Tree {
	codes := make([]uint64, 0, len(frequencyMap))
	for code := range frequencyMap {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })

	var literalWeight int
	pq := make(nodeHeap, 0, len(codes))

	for _, code := range codes {
		count := frequencyMap[code]
		if count == 1 {
			literalWeight++
			continue
		}
		pq = append(pq, &node{code: code, weight: count})
	}
	heap.Init(&pq)

	for pq.Len() > limit {
		n := heap.Pop(&pq).(*node)
		literalWeight += n.weight
	}

	if literalWeight > 0 {
		heap.Push(&pq, &node{code: literal, weight: literalWeight})
	}

	if pq.Len() == 0 {
		heap.Push(&pq, &node{code: literal, weight: 0})
	}

	for pq.Len() > 1 {
		left := heap.Pop(&pq).(*node)
		right := heap.Pop(&pq).(*node)
		heap.Push(&pq, &node{left: left, right: right, weight: left.weight + right.weight})
	}

	return &Tree{root: heap.Pop(&pq).(*node), Literal: literal}
}

// Index maps every leaf code to its root-to-leaf path (true = take the
// right child), ready to be written bit by bit in that order.
func (t *Tree) Index() map[uint64][]bool {
	index := make(map[uint64][]bool)
	var walk func(n *node, path []bool)
	walk = func(n *node, path []bool) {
		if n.isLeaf() {
			cp := make([]bool, len(path))
			copy(cp, path)
			index[n.code] = cp
			return
		}
		walk(n.left, append(path, false))
		walk(n.right, append(path, true))
	}
	walk(t.root, nil)
	return index
}

// Decode descends from the root, calling readBit for each branch, until it
// reaches a leaf, returning that leaf's code.
func (t *Tree) Decode(readBit func() bool) uint64 {
	cur := t.root
	for !cur.isLeaf() {
		if readBit() {
			cur = cur.right
		} else {
			cur = cur.left
		}
	}
	return cur.code
}

// nodeHeap is a min-heap by weight, ties among leaves broken by ascending
// code. Merged internal nodes carry no code identity (the zero value), so
// a weight tie between two internal nodes, or between an internal node
// and a leaf whose code happens to be zero, can't be broken this way;
// Build seeds the heap from frequencyMap's keys in sorted order precisely
// so that remaining case still resolves the same way on every run, since
// every heap operation after that point is a deterministic function of
// the seed order.
type nodeHeap []*node

func (h nodeHeap) Len() int { return len(h) }
func (h nodeHeap) Less(i, j int) bool {
	if h[i].weight != h[j].weight {
		return h[i].weight < h[j].weight
	}
	return h[i].code < h[j].code
}
func (h nodeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *nodeHeap) Push(x any)   { *h = append(*h, x.(*node)) }
func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
