// Package hdigest defines the digest type and the hashing interface
// used to build and verify hash trees.
//
// Concrete hashers live in the hsha256 and hblake2b subpackages.
// Every Hasher must domain-separate leaf hashes from interior node hashes,
// so that a leaf can never be reinterpreted as an interior node
// (or the other way around) when verifying a proof.
package hdigest

import (
	"encoding/hex"
	"fmt"
)

// Size is the width in bytes of every [Digest].
const Size = 32

// Tags prefixed to hash input to separate the leaf and node domains.
const (
	LeafTag byte = 0x00
	NodeTag byte = 0x01
)

// Digest is a fixed-width hash output.
// Digests are compared byte-exact with ==.
type Digest [Size]byte

// Hasher is the interface for hashing leaves and interior nodes.
//
// The tree passes the raw leaf data to the Leaf method to create a leaf digest,
// and it passes two child digests to the Node method to create their parent.
//
// Hasher methods must be pure and safe to call concurrently.
type Hasher interface {
	Leaf(data []byte) Digest
	Node(left, right Digest) Digest

	// Name identifies the hash function in serialized trees and configuration.
	Name() string
}

// String returns the lowercase hex encoding of d.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// MarshalText implements [encoding.TextMarshaler], encoding d as hex.
func (d Digest) MarshalText() ([]byte, error) {
	out := make([]byte, hex.EncodedLen(Size))
	hex.Encode(out, d[:])
	return out, nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (d *Digest) UnmarshalText(text []byte) error {
	parsed, err := ParseDigest(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseDigest parses a hex-encoded digest.
func ParseDigest(s string) (Digest, error) {
	var d Digest
	if hex.DecodedLen(len(s)) != Size {
		return d, fmt.Errorf(
			"digest must be %d hex characters (got %d)", hex.EncodedLen(Size), len(s),
		)
	}
	if _, err := hex.Decode(d[:], []byte(s)); err != nil {
		return d, fmt.Errorf("invalid digest hex: %w", err)
	}
	return d, nil
}
