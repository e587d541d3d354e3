package hashtree

import (
	"fmt"

	"github.com/gordian-engine/hashtree/hdigest"
	"github.com/gordian-engine/hashtree/internal/hpath"
)

// ConsistencyProof shows that the first OldSize leaves of a tree of NewSize leaves
// form the tree of OldSize leaves.
//
// Path begins with the leaf hash at OldSize-1,
// followed by one digest for every level where the walk from that leaf
// to the new root has a real sibling.
type ConsistencyProof struct {
	OldSize, NewSize uint64

	Path []hdigest.Digest
}

// ProveConsistency returns a proof that old's leaves are a prefix of newTree's leaves.
//
// Only leaf hashes are compared, never leaf data.
// If old is larger than newTree or any leaf hash differs,
// ProveConsistency returns [NotAPrefixError].
func ProveConsistency(old, newTree *Tree) (ConsistencyProof, error) {
	if old.Size() > newTree.Size() {
		return ConsistencyProof{}, NotAPrefixError{
			OldSize: old.Size(),
			NewSize: newTree.Size(),
			Index:   newTree.Size(),
		}
	}

	for i, lh := range old.levels[0] {
		if lh != newTree.levels[0][i] {
			return ConsistencyProof{}, NotAPrefixError{
				OldSize: old.Size(),
				NewSize: newTree.Size(),
				Index:   uint64(i),
			}
		}
	}

	return newTree.ConsistencyProof(old.Size())
}

// ConsistencyProof returns the proof that the first oldSize leaves of t
// form a tree consistent with t.
// It needs nothing from the older tree but its size.
func (t *Tree) ConsistencyProof(oldSize uint64) (ConsistencyProof, error) {
	if oldSize == 0 || oldSize > t.Size() {
		return ConsistencyProof{}, MalformedProofError{Reason: fmt.Sprintf(
			"old size %d out of range for tree of size %d", oldSize, t.Size(),
		)}
	}

	steps := hpath.ConsistencySteps(oldSize, t.Size())

	p := ConsistencyProof{
		OldSize: oldSize,
		NewSize: t.Size(),
		Path:    make([]hdigest.Digest, 1, 1+len(steps)),
	}
	p.Path[0] = t.levels[0][oldSize-1]

	for _, s := range steps {
		switch s.Side {
		case hpath.SideLeft:
			p.Path = append(p.Path, t.levels[s.Level][s.Index-1])
		case hpath.SideRight:
			p.Path = append(p.Path, t.levels[s.Level][s.Index+1])
		}
	}

	return p, nil
}

// VerifyConsistency reports whether proof shows that the tree with oldRoot and oldSize leaves
// is a prefix of the tree with newRoot and newSize leaves.
//
// Both roots are recomputed from the proof alone.
// A false result with a nil error is the normal "inconsistent" outcome.
// A [MalformedProofError] is returned when the sizes are invalid,
// disagree with the proof, or the path length does not fit the sizes.
func VerifyConsistency(
	h hdigest.Hasher,
	oldRoot hdigest.Digest, oldSize uint64,
	newRoot hdigest.Digest, newSize uint64,
	proof ConsistencyProof,
) (bool, error) {
	if proof.OldSize != oldSize || proof.NewSize != newSize {
		return false, MalformedProofError{Reason: fmt.Sprintf(
			"proof covers sizes %d to %d, expected %d to %d",
			proof.OldSize, proof.NewSize, oldSize, newSize,
		)}
	}
	if oldSize == 0 || oldSize > newSize {
		return false, MalformedProofError{Reason: fmt.Sprintf(
			"invalid sizes: old %d, new %d", oldSize, newSize,
		)}
	}
	if newSize > MaxTreeSize {
		return false, MalformedProofError{Reason: fmt.Sprintf(
			"new size %d exceeds maximum %d", newSize, MaxTreeSize,
		)}
	}
	if want := hpath.ConsistencyPathLen(oldSize, newSize); len(proof.Path) != want {
		return false, MalformedProofError{Reason: fmt.Sprintf(
			"sizes %d to %d require a path of %d digests, got %d",
			oldSize, newSize, want, len(proof.Path),
		)}
	}

	oldHash := proof.Path[0]
	newHash := proof.Path[0]
	rest := proof.Path[1:]

	for _, s := range hpath.ConsistencySteps(oldSize, newSize) {
		switch s.Side {
		case hpath.SideLeft:
			// The left sibling is a complete subtree of old leaves,
			// so both trees fold it in.
			sib := rest[0]
			rest = rest[1:]

			oldHash = h.Node(sib, oldHash)
			newHash = h.Node(sib, newHash)

		case hpath.SideRight:
			// The right sibling only exists in the new tree;
			// on the old tree the path node is the last of its level.
			sib := rest[0]
			rest = rest[1:]

			if s.OldLive {
				oldHash = h.Node(oldHash, oldHash)
			}
			newHash = h.Node(newHash, sib)

		case hpath.SideSelf:
			if s.OldLive {
				oldHash = h.Node(oldHash, oldHash)
			}
			newHash = h.Node(newHash, newHash)
		}
	}

	return oldHash == oldRoot && newHash == newRoot, nil
}
