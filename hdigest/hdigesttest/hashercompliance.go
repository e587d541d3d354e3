package hdigesttest

import (
	"testing"

	"github.com/gordian-engine/hashtree/hdigest"
	"github.com/stretchr/testify/require"
)

type HasherFactory func() hdigest.Hasher

// TestHasherCompliance runs the behaviors every [hdigest.Hasher] must satisfy.
func TestHasherCompliance(t *testing.T, f HasherFactory) {
	t.Run("leaf is deterministic", func(t *testing.T) {
		t.Parallel()

		h := f()

		require.Equal(t, h.Leaf([]byte("deterministic_data")), h.Leaf([]byte("deterministic_data")))
	})

	t.Run("leaf respects content", func(t *testing.T) {
		t.Parallel()

		h := f()

		require.NotEqual(t, h.Leaf([]byte("hello")), h.Leaf([]byte("hellp")))
		require.NotEqual(t, h.Leaf(nil), h.Leaf([]byte{0}))
	})

	t.Run("node is deterministic", func(t *testing.T) {
		t.Parallel()

		h := f()
		l := h.Leaf([]byte("left"))
		r := h.Leaf([]byte("right"))

		require.Equal(t, h.Node(l, r), h.Node(l, r))
	})

	t.Run("node respects order", func(t *testing.T) {
		t.Parallel()

		h := f()
		l := h.Leaf([]byte("left"))
		r := h.Leaf([]byte("right"))

		require.NotEqual(t, h.Node(l, r), h.Node(r, l))
	})

	t.Run("leaf and node domains are separate", func(t *testing.T) {
		t.Parallel()

		h := f()
		l := h.Leaf([]byte("left"))
		r := h.Leaf([]byte("right"))

		// Hashing the concatenated children as leaf data
		// must not reproduce the interior node.
		concat := make([]byte, 0, 2*hdigest.Size)
		concat = append(concat, l[:]...)
		concat = append(concat, r[:]...)
		require.NotEqual(t, h.Node(l, r), h.Leaf(concat))

		// Same for a leaf whose data begins with the node tag.
		tagged := append([]byte{hdigest.NodeTag}, concat...)
		require.NotEqual(t, h.Node(l, r), h.Leaf(tagged))
	})

	t.Run("name is set", func(t *testing.T) {
		t.Parallel()

		require.NotEmpty(t, f().Name())
	})
}
