// Package hashtree builds append-friendly binary Merkle trees
// over ordered sequences of opaque data items,
// and produces and verifies two kinds of proofs against them.
//
// An inclusion proof (or audit path) shows that a leaf
// is a member of the tree committed to by a root digest.
// A consistency proof shows that an older tree's leaves
// are a prefix of a newer tree's leaves,
// using only the two roots, the two sizes, and the proof digests.
// This is the primitive behind certificate-transparency-style logs.
//
// Leaves hash as H(0x00 || data) and interior nodes as H(0x01 || left || right),
// with H supplied by an [hdigest.Hasher].
// When a level has an odd number of nodes,
// its final node is paired with itself to form its parent.
// Note that this policy differs from RFC 6962, which promotes the final node unchanged;
// proofs from the two schemes are not interchangeable
// except for trees whose size is a power of two.
//
// Trees and proofs are immutable values.
// Extending a tree with [*Tree.Append] returns a new tree,
// so every value in this package is safe for concurrent use.
package hashtree
