package hpath

import "fmt"

// Step is one level of the walk from the last leaf of an old tree
// to the root of a new tree that extends it.
type Step struct {
	// Level is the level the path node sits on; zero is the leaf level.
	Level int

	// Index is the path node's index within its level.
	// It is identical in the old and the new tree.
	Index uint64

	// Side is the position of the sibling within the new tree.
	Side Side

	// OldLive is false once the old tree's root has been reached,
	// which happens when Index reaches zero.
	// Steps past that point only contribute to the new root.
	OldLive bool
}

// ConsistencySteps returns the walk used by both the consistency prover and verifier,
// one Step per level below the new tree's root.
//
// Nodes left of the path are complete subtrees of old leaves,
// so the old and new tree share them.
// Nodes right of the path cover only leaves appended after the old tree.
// On the old tree the path node is always the last node of its level,
// so wherever the new tree has a right sibling the old tree pairs the node with itself.
//
// ConsistencySteps panics unless 0 < oldSize <= newSize.
func ConsistencySteps(oldSize, newSize uint64) []Step {
	if oldSize == 0 || oldSize > newSize {
		panic(fmt.Errorf(
			"BUG: invalid consistency sizes old=%d new=%d", oldSize, newSize,
		))
	}

	widths := Widths(newSize)
	steps := make([]Step, 0, len(widths)-1)

	idx := oldSize - 1
	for level, w := range widths[:len(widths)-1] {
		_, side := Sibling(idx, w)
		steps = append(steps, Step{
			Level:   level,
			Index:   idx,
			Side:    side,
			OldLive: idx > 0,
		})
		idx = Parent(idx)
	}

	return steps
}

// ConsistencyPathLen returns the number of digests in a consistency proof
// between trees of the given sizes:
// the seed leaf hash plus one digest per step with a real sibling.
func ConsistencyPathLen(oldSize, newSize uint64) int {
	n := 1
	for _, s := range ConsistencySteps(oldSize, newSize) {
		if s.Side != SideSelf {
			n++
		}
	}
	return n
}
