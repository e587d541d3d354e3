package hashtree_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/gordian-engine/hashtree"
	"github.com/gordian-engine/hashtree/hdigest"
	"github.com/gordian-engine/hashtree/internal/htest"
	"github.com/stretchr/testify/require"
)

func TestProveConsistency_abc_to_abcde(t *testing.T) {
	t.Parallel()

	old := mustBuild(t, "a", "b", "c")
	newTree := mustBuild(t, "a", "b", "c", "d", "e")

	p, err := hashtree.ProveConsistency(old, newTree)
	require.NoError(t, err)

	ab := h.Node(leafHash("a"), leafHash("b"))
	ee := h.Node(leafHash("e"), leafHash("e"))
	require.Equal(t, hashtree.ConsistencyProof{
		OldSize: 3,
		NewSize: 5,
		Path: []hdigest.Digest{
			leafHash("c"),  // Seed.
			leafHash("d"),  // Right of c, only in the new tree.
			ab,             // Left of cd, shared by both trees.
			h.Node(ee, ee), // Right of abcd, only in the new tree.
		},
	}, p)

	ok, err := hashtree.VerifyConsistency(h, old.Root(), 3, newTree.Root(), 5, p)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestProveConsistency_notAPrefix(t *testing.T) {
	t.Parallel()

	old := mustBuild(t, "a", "b", "c")

	_, err := hashtree.ProveConsistency(old, mustBuild(t, "a", "x", "c", "d"))
	var nap hashtree.NotAPrefixError
	require.ErrorAs(t, err, &nap)
	require.Equal(t, uint64(1), nap.Index)

	_, err = hashtree.ProveConsistency(old, mustBuild(t, "a", "b"))
	require.ErrorAs(t, err, &nap)
	require.Equal(t, uint64(3), nap.OldSize)
	require.Equal(t, uint64(2), nap.NewSize)
}

func TestVerifyConsistency_rejectsNonExtension(t *testing.T) {
	t.Parallel()

	old := mustBuild(t, "a", "b", "c")
	honest := mustBuild(t, "a", "b", "c", "d")
	forked := mustBuild(t, "a", "x", "c", "d")

	p, err := hashtree.ProveConsistency(old, honest)
	require.NoError(t, err)

	// The honest proof does not carry over to a tree that rewrote history.
	ok, err := hashtree.VerifyConsistency(h, old.Root(), 3, forked.Root(), 4, p)
	require.NoError(t, err)
	require.False(t, ok)

	// Nor can the forked tree produce a proof against the old root.
	fp, err := forked.ConsistencyProof(3)
	require.NoError(t, err)
	ok, err = hashtree.VerifyConsistency(h, old.Root(), 3, forked.Root(), 4, fp)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestVerifyConsistency_everyPrefix(t *testing.T) {
	t.Parallel()

	leaves := htest.RandomLeavesForTest(t, 40, 16)

	trees := make([]*hashtree.Tree, len(leaves)+1)
	for n := 1; n <= len(leaves); n++ {
		tree, err := hashtree.Build(h, leaves[:n])
		require.NoError(t, err)
		trees[n] = tree
	}

	for m := 1; m <= len(leaves); m++ {
		for n := m; n <= len(leaves); n++ {
			p, err := hashtree.ProveConsistency(trees[m], trees[n])
			require.NoError(t, err)

			ok, err := hashtree.VerifyConsistency(h, trees[m].Root(), uint64(m), trees[n].Root(), uint64(n), p)
			require.NoError(t, err)
			require.True(t, ok, "m=%d n=%d", m, n)

			// The proof is bound to both roots.
			if m > 1 {
				ok, err = hashtree.VerifyConsistency(h, trees[m-1].Root(), uint64(m), trees[n].Root(), uint64(n), p)
				require.NoError(t, err)
				require.False(t, ok, "m=%d n=%d with wrong old root", m, n)
			}
			if n > m {
				ok, err = hashtree.VerifyConsistency(h, trees[m].Root(), uint64(m), trees[n-1].Root(), uint64(n), p)
				require.NoError(t, err)
				require.False(t, ok, "m=%d n=%d with wrong new root", m, n)
			}
		}
	}
}

func TestVerifyConsistency_tampering(t *testing.T) {
	t.Parallel()

	leaves := htest.RandomLeavesForTest(t, 19, 16)
	newTree, err := hashtree.Build(h, leaves)
	require.NoError(t, err)

	for m := 1; m <= len(leaves); m++ {
		old, err := hashtree.Build(h, leaves[:m])
		require.NoError(t, err)

		p, err := hashtree.ProveConsistency(old, newTree)
		require.NoError(t, err)

		for i := range p.Path {
			for bit := 0; bit < 8*hdigest.Size; bit += 53 {
				tampered := p
				tampered.Path = append([]hdigest.Digest(nil), p.Path...)
				tampered.Path[i][bit/8] ^= 1 << (bit % 8)

				ok, err := hashtree.VerifyConsistency(
					h, old.Root(), old.Size(), newTree.Root(), newTree.Size(), tampered,
				)
				require.NoError(t, err)
				require.False(t, ok, "m=%d path=%d bit=%d", m, i, bit)
			}
		}
	}
}

func TestVerifyConsistency_malformed(t *testing.T) {
	t.Parallel()

	old := mustBuild(t, "a", "b", "c")
	newTree := mustBuild(t, "a", "b", "c", "d", "e", "f")

	p, err := hashtree.ProveConsistency(old, newTree)
	require.NoError(t, err)

	t.Run("sizes disagree with proof", func(t *testing.T) {
		t.Parallel()

		_, err := hashtree.VerifyConsistency(h, old.Root(), 2, newTree.Root(), 6, p)
		require.ErrorAs(t, err, new(hashtree.MalformedProofError))
	})

	t.Run("old larger than new", func(t *testing.T) {
		t.Parallel()

		bad := p
		bad.OldSize, bad.NewSize = 6, 3
		_, err := hashtree.VerifyConsistency(h, old.Root(), 6, newTree.Root(), 3, bad)
		require.ErrorAs(t, err, new(hashtree.MalformedProofError))
	})

	t.Run("zero old size", func(t *testing.T) {
		t.Parallel()

		bad := p
		bad.OldSize = 0
		_, err := hashtree.VerifyConsistency(h, old.Root(), 0, newTree.Root(), 6, bad)
		require.ErrorAs(t, err, new(hashtree.MalformedProofError))
	})

	for _, newSize := range []uint64{hashtree.MaxTreeSize + 1, math.MaxUint64} {
		t.Run(fmt.Sprintf("new size %d", newSize), func(t *testing.T) {
			t.Parallel()

			bad := hashtree.ConsistencyProof{
				OldSize: 1,
				NewSize: newSize,
				Path:    make([]hdigest.Digest, 65),
			}
			ok, err := hashtree.VerifyConsistency(h, old.Root(), 1, newTree.Root(), newSize, bad)
			require.ErrorAs(t, err, new(hashtree.MalformedProofError))
			require.False(t, ok)
		})
	}

	t.Run("path too short", func(t *testing.T) {
		t.Parallel()

		bad := p
		bad.Path = p.Path[:len(p.Path)-1]
		_, err := hashtree.VerifyConsistency(h, old.Root(), 3, newTree.Root(), 6, bad)
		require.ErrorAs(t, err, new(hashtree.MalformedProofError))
	})

	t.Run("empty path", func(t *testing.T) {
		t.Parallel()

		bad := p
		bad.Path = nil
		_, err := hashtree.VerifyConsistency(h, old.Root(), 3, newTree.Root(), 6, bad)
		require.ErrorAs(t, err, new(hashtree.MalformedProofError))
	})
}

func TestTree_ConsistencyProof_sizeOutOfRange(t *testing.T) {
	t.Parallel()

	tree := mustBuild(t, "a", "b")

	_, err := tree.ConsistencyProof(0)
	require.ErrorAs(t, err, new(hashtree.MalformedProofError))

	_, err = tree.ConsistencyProof(3)
	require.ErrorAs(t, err, new(hashtree.MalformedProofError))
}
