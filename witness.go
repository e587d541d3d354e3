package hashtree

import (
	"errors"
	"fmt"

	"github.com/bits-and-blooms/bitset"
	"github.com/gordian-engine/hashtree/hdigest"
	"github.com/gordian-engine/hashtree/internal/hpath"
)

// Witness is a partially known tree anchored at a trusted root,
// which confirms leaves one at a time through inclusion proofs.
//
// Every node confirmed by an accepted proof becomes trusted,
// so later proofs only have to be folded until they reach a trusted node.
// A Witness never holds leaf data; store confirmed data externally.
//
// A Witness is not safe for concurrent use.
type Witness struct {
	h hdigest.Hasher

	size uint64

	// Level widths and the index in nodes where each level starts.
	widths  []uint64
	offsets []uint64

	// Every node of the tree, leaf level first, root last.
	nodes []hdigest.Digest

	// Which entries of nodes are trusted.
	haveNodes *bitset.BitSet

	// Which leaves have been confirmed through AddLeaf;
	// a leaf hash may be trusted as some other leaf's sibling
	// before its data has been seen.
	haveLeaves *bitset.BitSet
}

// NewWitness returns a Witness for a tree of size leaves with the given trusted root.
func NewWitness(h hdigest.Hasher, root hdigest.Digest, size uint64) *Witness {
	if h == nil {
		panic("BUG: NewWitness requires a non-nil hasher")
	}
	if size == 0 || size > MaxTreeSize {
		panic(fmt.Errorf(
			"BUG: NewWitness requires a tree size in range [1, %d] (got %d)",
			MaxTreeSize, size,
		))
	}

	widths := hpath.Widths(size)
	offsets := make([]uint64, len(widths))
	var total uint64
	for i, w := range widths {
		offsets[i] = total
		total += w
	}

	w := &Witness{
		h: h,

		size: size,

		widths:  widths,
		offsets: offsets,

		nodes: make([]hdigest.Digest, total),

		haveNodes:  bitset.MustNew(uint(total)),
		haveLeaves: bitset.MustNew(uint(size)),
	}

	w.nodes[total-1] = root
	w.haveNodes.Set(uint(total - 1))

	return w
}

var ErrAlreadyHadProof = errors.New("already had proof for given leaf")

var ErrIncorrectLeafData = errors.New("leaf data did not match expected hash")

var ErrInsufficientProof = errors.New("insufficient proof to add leaf")

var ErrProofMismatch = errors.New("proof does not reach a trusted hash")

// AddLeaf confirms that data is the leaf at proof.LeafIndex.
//
// The proof is folded upwards only until it reaches an already trusted node,
// so its trailing siblings may be omitted once enough of the tree is known.
//
// If the leaf was already confirmed, AddLeaf returns [ErrAlreadyHadProof],
// or [ErrIncorrectLeafData] if data hashes differently than before.
// A proof that folds to a value other than the trusted node
// results in an error wrapping [ErrProofMismatch].
func (w *Witness) AddLeaf(data []byte, proof InclusionProof) error {
	if proof.TreeSize != w.size {
		return MalformedProofError{Reason: fmt.Sprintf(
			"proof is for tree size %d, witness has size %d", proof.TreeSize, w.size,
		)}
	}
	if proof.LeafIndex >= w.size {
		return MalformedProofError{Reason: fmt.Sprintf(
			"leaf index %d out of range for tree of size %d", proof.LeafIndex, w.size,
		)}
	}
	if len(proof.Siblings) > len(w.widths)-1 {
		return MalformedProofError{Reason: fmt.Sprintf(
			"tree of size %d has at most %d siblings, got %d",
			w.size, len(w.widths)-1, len(proof.Siblings),
		)}
	}

	leafIdx := proof.LeafIndex
	leafHash := w.h.Leaf(data)

	if w.haveLeaves.Test(uint(leafIdx)) {
		if w.nodes[leafIdx] != leafHash {
			return ErrIncorrectLeafData
		}
		return ErrAlreadyHadProof
	}

	// Nodes discovered while folding, committed only once the fold
	// reaches a trusted node.
	type discovered struct {
		pos  uint64
		hash hdigest.Digest
	}
	found := make([]discovered, 0, 2*len(proof.Siblings))

	cur := leafHash
	idx := leafIdx
	for level := 0; ; level++ {
		pos := w.offsets[level] + idx
		if w.haveNodes.Test(uint(pos)) {
			if w.nodes[pos] == cur {
				break
			}
			if level == 0 {
				return ErrIncorrectLeafData
			}
			return fmt.Errorf(
				"%w: level %d index %d calculated %s, expected %s",
				ErrProofMismatch, level, idx, cur, w.nodes[pos],
			)
		}

		// The root is always trusted,
		// so reaching this point means there is a level above.
		if level >= len(proof.Siblings) {
			return ErrInsufficientProof
		}

		sibHash := proof.Siblings[level]
		sibIdx, side := hpath.Sibling(idx, w.widths[level])

		found = append(found, discovered{pos: pos, hash: cur})

		switch side {
		case hpath.SideLeft:
			found = append(found, discovered{pos: w.offsets[level] + sibIdx, hash: sibHash})
			cur = w.h.Node(sibHash, cur)
		case hpath.SideRight:
			found = append(found, discovered{pos: w.offsets[level] + sibIdx, hash: sibHash})
			cur = w.h.Node(cur, sibHash)
		case hpath.SideSelf:
			if sibHash != cur {
				return fmt.Errorf(
					"%w: level %d index %d is self-paired but sibling differs",
					ErrProofMismatch, level, idx,
				)
			}
			cur = w.h.Node(cur, cur)
		}

		idx = hpath.Parent(idx)
	}

	for _, d := range found {
		w.nodes[d.pos] = d.hash
		w.haveNodes.Set(uint(d.pos))
	}
	w.haveLeaves.Set(uint(leafIdx))

	return nil
}

// HasLeaf reports whether the leaf at idx has been confirmed through [*Witness.AddLeaf].
// HasLeaf reports false if idx is out of bounds.
func (w *Witness) HasLeaf(idx uint64) bool {
	return w.haveLeaves.Test(uint(idx))
}

// ConfirmedLeaves returns how many leaves have been confirmed.
func (w *Witness) ConfirmedLeaves() uint {
	return w.haveLeaves.Count()
}

// Complete reports whether every leaf has been confirmed.
func (w *Witness) Complete() bool {
	return w.haveLeaves.All()
}

// Root returns the trusted root.
func (w *Witness) Root() hdigest.Digest {
	return w.nodes[len(w.nodes)-1]
}

// Size returns the number of leaves in the witnessed tree.
func (w *Witness) Size() uint64 {
	return w.size
}
