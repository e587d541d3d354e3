package htest

import (
	"crypto/sha256"
	"fmt"
	"math/rand/v2"
	"testing"
)

// RandomDataForTest returns sz pseudorandom bytes.
// The bytes depend only on the test name,
// so a failing test sees the same leaves on every run.
func RandomDataForTest(t *testing.T, sz int) []byte {
	// A SHA-256 digest is exactly a ChaCha8 seed,
	// and hashing the name lifts any limit on its length.
	src := rand.NewChaCha8(sha256.Sum256([]byte(t.Name())))

	out := make([]byte, sz)
	if _, err := src.Read(out); err != nil {
		panic(fmt.Errorf("BUG: ChaCha8 read failed: %w", err))
	}
	return out
}

// RandomLeavesForTest returns n distinct leaf values of leafSize bytes each,
// derived from the test name like [RandomDataForTest].
func RandomLeavesForTest(t *testing.T, n, leafSize int) [][]byte {
	if leafSize < 8 {
		panic(fmt.Errorf("BUG: leafSize must be at least 8 (got %d)", leafSize))
	}

	mem := RandomDataForTest(t, n*leafSize)
	out := make([][]byte, n)
	for i := range n {
		leaf := mem[i*leafSize : (i+1)*leafSize : (i+1)*leafSize]

		// Stamp the index into the leaf so values are always distinct.
		for b := range 8 {
			leaf[b] = byte(uint64(i) >> (8 * b))
		}
		out[i] = leaf
	}
	return out
}

// StringLeaves converts each string to a leaf value.
func StringLeaves(ss ...string) [][]byte {
	out := make([][]byte, len(ss))
	for i, s := range ss {
		out[i] = []byte(s)
	}
	return out
}
