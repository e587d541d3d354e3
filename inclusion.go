package hashtree

import (
	"bytes"
	"fmt"

	"github.com/gordian-engine/hashtree/hdigest"
	"github.com/gordian-engine/hashtree/internal/hpath"
)

// InclusionProof is the audit path for a single leaf.
// It is verifiable with [VerifyInclusion] without access to the tree.
type InclusionProof struct {
	LeafIndex uint64

	// TreeSize is the number of leaves in the tree the proof was made against.
	// It fixes the expected path length and the self-paired positions.
	TreeSize uint64

	// Siblings are ordered from the leaf level upwards.
	// Where a node is the unpaired final node of its level,
	// its sibling entry is the node's own digest.
	Siblings []hdigest.Digest
}

// ProveInclusion returns the inclusion proof for the first leaf in t
// whose data equals data.
// Duplicate data always resolves to the earliest leaf.
// If no leaf matches, ProveInclusion returns [LeafNotFoundError].
func ProveInclusion(t *Tree, data []byte) (InclusionProof, error) {
	idx, ok := t.IndexOf(data)
	if !ok {
		return InclusionProof{}, LeafNotFoundError{Data: bytes.Clone(data)}
	}
	return t.InclusionProof(idx)
}

// InclusionProof returns the inclusion proof for the leaf at idx.
func (t *Tree) InclusionProof(idx uint64) (InclusionProof, error) {
	if idx >= t.Size() {
		return InclusionProof{}, MalformedProofError{Reason: fmt.Sprintf(
			"leaf index %d out of range for tree of size %d", idx, t.Size(),
		)}
	}

	p := InclusionProof{
		LeafIndex: idx,
		TreeSize:  t.Size(),
		Siblings:  make([]hdigest.Digest, 0, t.Depth()),
	}

	for _, lvl := range t.levels[:t.Depth()] {
		sib, _ := hpath.Sibling(idx, uint64(len(lvl)))
		p.Siblings = append(p.Siblings, lvl[sib])
		idx = hpath.Parent(idx)
	}

	return p, nil
}

// VerifyInclusion reports whether proof shows that data is a leaf
// of the tree with the given root.
//
// A false result with a nil error is the normal outcome for a proof that does not match.
// A [MalformedProofError] is returned when the proof cannot describe any tree of its claimed size.
func VerifyInclusion(h hdigest.Hasher, root hdigest.Digest, data []byte, proof InclusionProof) (bool, error) {
	return VerifyInclusionHash(h, root, h.Leaf(data), proof)
}

// VerifyInclusionHash is like [VerifyInclusion]
// but accepts an already computed leaf hash instead of the leaf data.
func VerifyInclusionHash(h hdigest.Hasher, root, leafHash hdigest.Digest, proof InclusionProof) (bool, error) {
	if err := proof.validate(); err != nil {
		return false, err
	}

	cur := leafHash
	idx := proof.LeafIndex
	w := proof.TreeSize
	for _, sib := range proof.Siblings {
		// An even index means the running hash is the left operand.
		switch _, side := hpath.Sibling(idx, w); side {
		case hpath.SideLeft:
			cur = h.Node(sib, cur)
		case hpath.SideRight:
			cur = h.Node(cur, sib)
		case hpath.SideSelf:
			if sib != cur {
				return false, nil
			}
			cur = h.Node(cur, cur)
		}

		idx = hpath.Parent(idx)
		w = hpath.ParentWidth(w)
	}

	return cur == root, nil
}

func (p InclusionProof) validate() error {
	if p.TreeSize == 0 {
		return MalformedProofError{Reason: "tree size must be positive"}
	}
	if p.TreeSize > MaxTreeSize {
		return MalformedProofError{Reason: fmt.Sprintf(
			"tree size %d exceeds maximum %d", p.TreeSize, MaxTreeSize,
		)}
	}
	if p.LeafIndex >= p.TreeSize {
		return MalformedProofError{Reason: fmt.Sprintf(
			"leaf index %d out of range for tree of size %d", p.LeafIndex, p.TreeSize,
		)}
	}
	if want := hpath.Depth(p.TreeSize); len(p.Siblings) != want {
		return MalformedProofError{Reason: fmt.Sprintf(
			"tree of size %d requires %d siblings, got %d", p.TreeSize, want, len(p.Siblings),
		)}
	}
	return nil
}
