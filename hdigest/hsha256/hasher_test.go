package hsha256_test

import (
	"crypto/sha256"
	"testing"

	"github.com/gordian-engine/hashtree/hdigest"
	"github.com/gordian-engine/hashtree/hdigest/hdigesttest"
	"github.com/gordian-engine/hashtree/hdigest/hsha256"
	"github.com/stretchr/testify/require"
)

func TestCompliance(t *testing.T) {
	t.Parallel()

	hdigesttest.TestHasherCompliance(t, func() hdigest.Hasher {
		return hsha256.Hasher{}
	})
}

func TestHasher_tags(t *testing.T) {
	t.Parallel()

	h := hsha256.Hasher{}

	leaf := h.Leaf([]byte("a"))
	require.Equal(t, hdigest.Digest(sha256.Sum256([]byte("\x00a"))), leaf)

	in := append([]byte{0x01}, leaf[:]...)
	in = append(in, leaf[:]...)
	require.Equal(t, hdigest.Digest(sha256.Sum256(in)), h.Node(leaf, leaf))
}
