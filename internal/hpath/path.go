// Package hpath contains the index arithmetic shared by tree construction,
// proof generation, and proof verification.
//
// A level of odd width pairs its final node with itself.
// Every component walks levels through [Sibling] and [Parent]
// so that builders, provers, and verifiers agree on that policy bit-for-bit.
package hpath

import (
	"fmt"
	"math/bits"
)

// Side describes where a node's sibling sits relative to the node.
type Side uint8

const (
	// SideSelf means the node is the final, unpaired node of an odd-width level
	// and is paired with itself.
	SideSelf Side = iota

	// SideLeft means the sibling is at index-1.
	SideLeft

	// SideRight means the sibling is at index+1.
	SideRight
)

func (s Side) String() string {
	switch s {
	case SideSelf:
		return "self"
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	default:
		return fmt.Sprintf("Side(%d)", uint8(s))
	}
}

// Sibling returns the index of the node paired with idx
// in a level containing width nodes.
func Sibling(idx, width uint64) (uint64, Side) {
	if idx >= width {
		panic(fmt.Errorf(
			"BUG: index %d out of range for level width %d", idx, width,
		))
	}

	if idx&1 == 1 {
		return idx - 1, SideLeft
	}
	if idx+1 < width {
		return idx + 1, SideRight
	}
	return idx, SideSelf
}

// MaxSize is the largest tree size the arithmetic in this package supports.
// Every level width of such a tree fits in a uint64 with room to spare.
const MaxSize uint64 = 1 << 63

// Parent returns the index of idx's parent on the next level up.
func Parent(idx uint64) uint64 {
	return idx >> 1
}

// ParentWidth returns the width of the level above a level of the given width.
func ParentWidth(width uint64) uint64 {
	return width>>1 + width&1
}

// Widths returns the width of every level of a tree with n leaves,
// from the leaf level up to the single root.
// Widths panics if n is zero.
func Widths(n uint64) []uint64 {
	if n == 0 {
		panic("BUG: tree must have at least one leaf")
	}

	out := make([]uint64, 0, Depth(n)+1)
	for w := n; ; w = ParentWidth(w) {
		out = append(out, w)
		if w == 1 {
			return out
		}
	}
}

// Depth returns the number of levels above the leaf level
// in a tree with n leaves.
// It is also the length of every inclusion proof in that tree.
func Depth(n uint64) int {
	if n == 0 {
		panic("BUG: tree must have at least one leaf")
	}

	// Halving with round-up reaches 1 after ceil(log2(n)) steps.
	return bits.Len64(n - 1)
}
