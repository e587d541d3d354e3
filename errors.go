package hashtree

import (
	"fmt"
	"strconv"
)

// EmptyInputError is returned from [Build] and [FromLevels]
// when no leaves are given.
type EmptyInputError struct{}

func (EmptyInputError) Error() string {
	return "hash tree requires at least one leaf"
}

// LeafNotFoundError is returned from [ProveInclusion]
// when no leaf in the tree holds the requested data.
type LeafNotFoundError struct {
	Data []byte
}

func (e LeafNotFoundError) Error() string {
	return "no leaf with data " + strconv.Quote(string(e.Data))
}

// NotAPrefixError is returned from [ProveConsistency]
// when the old tree's leaf hashes are not a prefix of the new tree's leaf hashes.
type NotAPrefixError struct {
	OldSize, NewSize uint64

	// Index of the first differing leaf hash.
	// Equal to NewSize when the old tree is larger than the new tree.
	Index uint64
}

func (e NotAPrefixError) Error() string {
	if e.OldSize > e.NewSize {
		return fmt.Sprintf(
			"old tree of size %d cannot be a prefix of new tree of size %d",
			e.OldSize, e.NewSize,
		)
	}
	return fmt.Sprintf(
		"old tree of size %d is not a prefix of new tree of size %d: leaf %d differs",
		e.OldSize, e.NewSize, e.Index,
	)
}

// MalformedProofError is returned by proof generation and verification
// when a proof's shape is inconsistent with the sizes it claims,
// for instance a path of the wrong length for the implied tree depth.
type MalformedProofError struct {
	Reason string
}

func (e MalformedProofError) Error() string {
	return "malformed proof: " + e.Reason
}

// MalformedTreeError is returned from [FromLevels] and [*Tree.Check]
// when stored levels do not describe a valid tree.
type MalformedTreeError struct {
	Reason string
}

func (e MalformedTreeError) Error() string {
	return "malformed tree: " + e.Reason
}
