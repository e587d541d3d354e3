package hashtree

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/gordian-engine/hashtree/hdigest"
	"github.com/gordian-engine/hashtree/internal/hpath"
)

// MaxTreeSize is the largest tree size accepted when verifying proofs
// or creating a [Witness]. Larger sizes are reported as a [MalformedProofError].
const MaxTreeSize = hpath.MaxSize

// Leaf is a single input item and its leaf hash.
type Leaf struct {
	Data []byte
	Hash hdigest.Digest
}

// Tree is an immutable binary Merkle tree.
//
// Create a Tree with [Build], extend it with [*Tree.Append],
// or reload a stored one with [FromLevels].
type Tree struct {
	h hdigest.Hasher

	leaves []Leaf

	// levels[0] holds the leaf hashes and the final level holds only the root.
	// Each level is half the width of the one below, rounded up.
	levels [][]hdigest.Digest
}

// Build hashes every item of leafData, in order, into a new Tree.
// Build returns [EmptyInputError] if leafData is empty.
//
// The leaf data is copied, so the caller may reuse leafData afterwards.
func Build(h hdigest.Hasher, leafData [][]byte) (*Tree, error) {
	if h == nil {
		panic("BUG: Build requires a non-nil hasher")
	}
	if len(leafData) == 0 {
		return nil, EmptyInputError{}
	}

	leaves, base := hashLeaves(h, nil, nil, leafData)

	return &Tree{
		h:      h,
		leaves: leaves,
		levels: fillLevels(h, base, nil, 0),
	}, nil
}

// Append returns a new Tree containing t's leaves followed by leafData.
// t is not modified.
//
// Only the nodes on and right of the old tree's right edge are recomputed;
// everything left of that edge is shared with t.
func (t *Tree) Append(leafData ...[]byte) *Tree {
	if len(leafData) == 0 {
		return t
	}

	leaves, base := hashLeaves(t.h, t.leaves, t.levels[0], leafData)

	return &Tree{
		h:      t.h,
		leaves: leaves,
		levels: fillLevels(t.h, base, t.levels, uint64(len(t.leaves))),
	}
}

// hashLeaves returns copies of prevLeaves and prevHashes
// extended by the hashes of leafData.
func hashLeaves(
	h hdigest.Hasher,
	prevLeaves []Leaf, prevHashes []hdigest.Digest,
	leafData [][]byte,
) ([]Leaf, []hdigest.Digest) {
	n := len(prevLeaves) + len(leafData)

	leaves := make([]Leaf, len(prevLeaves), n)
	copy(leaves, prevLeaves)

	hashes := make([]hdigest.Digest, len(prevHashes), n)
	copy(hashes, prevHashes)

	for _, d := range leafData {
		data := bytes.Clone(d)
		if data == nil {
			data = []byte{}
		}
		lh := h.Leaf(data)

		leaves = append(leaves, Leaf{Data: data, Hash: lh})
		hashes = append(hashes, lh)
	}

	return leaves, hashes
}

// fillLevels builds every level above base.
//
// Nodes on level i with an index below from>>i are copied from prev;
// they only cover leaves before from, which are unchanged.
// All other nodes are recomputed, pairing the final node of an odd level with itself.
func fillLevels(
	h hdigest.Hasher,
	base []hdigest.Digest,
	prev [][]hdigest.Digest,
	from uint64,
) [][]hdigest.Digest {
	widths := hpath.Widths(uint64(len(base)))

	levels := make([][]hdigest.Digest, len(widths))
	levels[0] = base

	for i := 1; i < len(widths); i++ {
		cur := make([]hdigest.Digest, widths[i])

		keep := from >> i
		if keep > 0 {
			// A non-zero keep implies prev has this level,
			// since the old tree was at least from leaves wide.
			copy(cur[:keep], prev[i])
		}

		below := levels[i-1]
		for j := keep; j < widths[i]; j++ {
			left := 2 * j
			right, _ := hpath.Sibling(left, widths[i-1])
			cur[j] = h.Node(below[left], below[right])
		}

		levels[i] = cur
	}

	return levels
}

// FromLevels reassembles a Tree from previously stored leaf data and levels
// without recomputing any hashes.
// The shape of levels is validated, but the hashes are trusted;
// call [*Tree.Check] to recompute and compare every node.
func FromLevels(h hdigest.Hasher, leafData [][]byte, levels [][]hdigest.Digest) (*Tree, error) {
	if h == nil {
		panic("BUG: FromLevels requires a non-nil hasher")
	}
	if len(leafData) == 0 {
		return nil, EmptyInputError{}
	}

	widths := hpath.Widths(uint64(len(leafData)))
	if len(levels) != len(widths) {
		return nil, MalformedTreeError{Reason: fmt.Sprintf(
			"%d leaves require %d levels, got %d", len(leafData), len(widths), len(levels),
		)}
	}
	for i, w := range widths {
		if uint64(len(levels[i])) != w {
			return nil, MalformedTreeError{Reason: fmt.Sprintf(
				"level %d must have %d nodes, got %d", i, w, len(levels[i]),
			)}
		}
	}

	t := &Tree{
		h:      h,
		leaves: make([]Leaf, len(leafData)),
		levels: make([][]hdigest.Digest, len(levels)),
	}
	for i, lvl := range levels {
		t.levels[i] = slices.Clone(lvl)
	}
	for i, d := range leafData {
		data := bytes.Clone(d)
		if data == nil {
			data = []byte{}
		}
		t.leaves[i] = Leaf{Data: data, Hash: t.levels[0][i]}
	}

	return t, nil
}

// Check recomputes every hash in t and reports the first mismatch
// as a [MalformedTreeError].
// Trees created by [Build] or [*Tree.Append] always pass;
// Check is meant for trees loaded through [FromLevels].
func (t *Tree) Check() error {
	for i, l := range t.leaves {
		if got := t.h.Leaf(l.Data); got != l.Hash {
			return MalformedTreeError{Reason: fmt.Sprintf(
				"leaf %d hash is %s, data hashes to %s", i, l.Hash, got,
			)}
		}
	}

	want := fillLevels(t.h, t.levels[0], nil, 0)
	for i := range want {
		for j := range want[i] {
			if want[i][j] != t.levels[i][j] {
				return MalformedTreeError{Reason: fmt.Sprintf(
					"node %d on level %d is %s, children hash to %s",
					j, i, t.levels[i][j], want[i][j],
				)}
			}
		}
	}

	return nil
}

// Hasher returns the hasher t was built with.
func (t *Tree) Hasher() hdigest.Hasher {
	return t.h
}

// Size returns the number of leaves in t.
func (t *Tree) Size() uint64 {
	return uint64(len(t.leaves))
}

// Depth returns the number of levels above the leaves.
// A single-leaf tree has depth zero.
func (t *Tree) Depth() int {
	return len(t.levels) - 1
}

// Root returns the root digest.
// The root of a single-leaf tree is that leaf's hash.
func (t *Tree) Root() hdigest.Digest {
	return t.levels[len(t.levels)-1][0]
}

// Leaf returns a copy of the leaf at idx.
func (t *Tree) Leaf(idx uint64) Leaf {
	if idx >= t.Size() {
		panic(fmt.Errorf(
			"BUG: attempted to get leaf at index %d; must be in range [0, %d)",
			idx, t.Size(),
		))
	}

	l := t.leaves[idx]
	return Leaf{Data: bytes.Clone(l.Data), Hash: l.Hash}
}

// LeafData returns copies of every leaf's data, in order.
func (t *Tree) LeafData() [][]byte {
	out := make([][]byte, len(t.leaves))
	for i, l := range t.leaves {
		out[i] = bytes.Clone(l.Data)
	}
	return out
}

// Level returns a copy of the digests on level i,
// where level 0 holds the leaf hashes.
func (t *Tree) Level(i int) []hdigest.Digest {
	if i < 0 || i >= len(t.levels) {
		panic(fmt.Errorf(
			"BUG: attempted to get level %d; must be in range [0, %d)",
			i, len(t.levels),
		))
	}
	return slices.Clone(t.levels[i])
}

// Levels returns a copy of every level, leaf hashes first.
func (t *Tree) Levels() [][]hdigest.Digest {
	out := make([][]hdigest.Digest, len(t.levels))
	for i, lvl := range t.levels {
		out[i] = slices.Clone(lvl)
	}
	return out
}

// IndexOf returns the index of the first leaf whose data equals data.
func (t *Tree) IndexOf(data []byte) (uint64, bool) {
	for i, l := range t.leaves {
		if bytes.Equal(l.Data, data) {
			return uint64(i), true
		}
	}
	return 0, false
}
