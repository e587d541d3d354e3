package hashtree_test

import (
	"math"
	"testing"

	"github.com/gordian-engine/hashtree"
	"github.com/gordian-engine/hashtree/hdigest"
	"github.com/gordian-engine/hashtree/internal/htest"
	"github.com/stretchr/testify/require"
)

func TestProveInclusion_abcd(t *testing.T) {
	t.Parallel()

	tree := mustBuild(t, "a", "b", "c", "d")

	p, err := hashtree.ProveInclusion(tree, []byte("c"))
	require.NoError(t, err)

	ab := h.Node(leafHash("a"), leafHash("b"))
	require.Equal(t, hashtree.InclusionProof{
		LeafIndex: 2,
		TreeSize:  4,
		Siblings:  []hdigest.Digest{leafHash("d"), ab},
	}, p)

	// Folding by hand: c is on the left of d, and cd is on the right of ab.
	cd := h.Node(leafHash("c"), leafHash("d"))
	require.Equal(t, tree.Root(), h.Node(ab, cd))

	ok, err := hashtree.VerifyInclusion(h, tree.Root(), []byte("c"), p)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestProveInclusion_selfPairedSibling(t *testing.T) {
	t.Parallel()

	tree := mustBuild(t, "a", "b", "c")

	p, err := hashtree.ProveInclusion(tree, []byte("c"))
	require.NoError(t, err)

	// c is the unpaired final leaf, so its own hash is its sibling.
	ab := h.Node(leafHash("a"), leafHash("b"))
	require.Equal(t, []hdigest.Digest{leafHash("c"), ab}, p.Siblings)

	ok, err := hashtree.VerifyInclusion(h, tree.Root(), []byte("c"), p)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestProveInclusion_notFound(t *testing.T) {
	t.Parallel()

	tree := mustBuild(t, "a", "b", "c")

	_, err := hashtree.ProveInclusion(tree, []byte("z"))
	var lnf hashtree.LeafNotFoundError
	require.ErrorAs(t, err, &lnf)
	require.Equal(t, []byte("z"), lnf.Data)
}

func TestProveInclusion_duplicateDataUsesFirstLeaf(t *testing.T) {
	t.Parallel()

	tree := mustBuild(t, "x", "y", "x")

	p, err := hashtree.ProveInclusion(tree, []byte("x"))
	require.NoError(t, err)
	require.Zero(t, p.LeafIndex)
}

func TestVerifyInclusion_everyLeafEverySize(t *testing.T) {
	t.Parallel()

	leaves := htest.RandomLeavesForTest(t, 33, 16)
	for n := 1; n <= len(leaves); n++ {
		tree, err := hashtree.Build(h, leaves[:n])
		require.NoError(t, err)

		for i, leaf := range leaves[:n] {
			p, err := hashtree.ProveInclusion(tree, leaf)
			require.NoError(t, err)
			require.Equal(t, uint64(i), p.LeafIndex)
			require.Len(t, p.Siblings, tree.Depth())

			ok, err := hashtree.VerifyInclusion(h, tree.Root(), leaf, p)
			require.NoError(t, err)
			require.True(t, ok, "n=%d i=%d", n, i)
		}

		// Data outside the tree never verifies, even with a valid proof.
		p, err := tree.InclusionProof(0)
		require.NoError(t, err)
		ok, err := hashtree.VerifyInclusion(h, tree.Root(), []byte("not a leaf"), p)
		require.NoError(t, err)
		require.False(t, ok)
	}
}

func TestVerifyInclusion_tampering(t *testing.T) {
	t.Parallel()

	leaves := htest.RandomLeavesForTest(t, 11, 16)
	tree, err := hashtree.Build(h, leaves)
	require.NoError(t, err)

	for i, leaf := range leaves {
		p, err := tree.InclusionProof(uint64(i))
		require.NoError(t, err)

		for s := range p.Siblings {
			for bit := 0; bit < 8*hdigest.Size; bit += 37 {
				tampered := p
				tampered.Siblings = append([]hdigest.Digest(nil), p.Siblings...)
				tampered.Siblings[s][bit/8] ^= 1 << (bit % 8)

				ok, err := hashtree.VerifyInclusion(h, tree.Root(), leaf, tampered)
				require.NoError(t, err)
				require.False(t, ok, "leaf=%d sibling=%d bit=%d", i, s, bit)
			}
		}

		// Moving the proof to a different index does not verify either.
		moved := p
		moved.LeafIndex = (p.LeafIndex + 1) % p.TreeSize
		ok, err := hashtree.VerifyInclusion(h, tree.Root(), leaf, moved)
		require.NoError(t, err)
		require.False(t, ok)
	}
}

func TestVerifyInclusion_malformed(t *testing.T) {
	t.Parallel()

	tree := mustBuild(t, "a", "b", "c", "d", "e")
	p, err := hashtree.ProveInclusion(tree, []byte("b"))
	require.NoError(t, err)

	for name, mutate := range map[string]func(*hashtree.InclusionProof){
		"zero size":      func(p *hashtree.InclusionProof) { p.TreeSize = 0 },
		"index too big":  func(p *hashtree.InclusionProof) { p.LeafIndex = 5 },
		"path too short": func(p *hashtree.InclusionProof) { p.Siblings = p.Siblings[:2] },
		"path too long": func(p *hashtree.InclusionProof) {
			p.Siblings = append(append([]hdigest.Digest(nil), p.Siblings...), hdigest.Digest{})
		},
		"size implies shallower tree": func(p *hashtree.InclusionProof) { p.TreeSize = 4 },
		"size above maximum": func(p *hashtree.InclusionProof) {
			p.TreeSize = hashtree.MaxTreeSize + 1
			p.Siblings = make([]hdigest.Digest, 64)
		},
		"max uint64 size": func(p *hashtree.InclusionProof) {
			p.TreeSize = math.MaxUint64
			p.Siblings = make([]hdigest.Digest, 64)
		},
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			bad := p
			mutate(&bad)

			ok, err := hashtree.VerifyInclusion(h, tree.Root(), []byte("b"), bad)
			require.ErrorAs(t, err, new(hashtree.MalformedProofError))
			require.False(t, ok)
		})
	}
}

func TestTree_InclusionProof_outOfRange(t *testing.T) {
	t.Parallel()

	tree := mustBuild(t, "a", "b")

	_, err := tree.InclusionProof(2)
	require.ErrorAs(t, err, new(hashtree.MalformedProofError))
}
