package hpath_test

import (
	"testing"

	"github.com/gordian-engine/hashtree/internal/hpath"
	"github.com/stretchr/testify/require"
)

func TestConsistencySteps_3_to_5(t *testing.T) {
	t.Parallel()

	/* New tree of 5 leaves, old tree of 3:

	level 3: R
	level 2: A           B
	level 1: ab    cd    ee
	level 0: a  b  c  d  e

	The path starts at c (index 2).
	*/
	steps := hpath.ConsistencySteps(3, 5)
	require.Equal(t, []hpath.Step{
		{Level: 0, Index: 2, Side: hpath.SideRight, OldLive: true},
		{Level: 1, Index: 1, Side: hpath.SideLeft, OldLive: true},
		{Level: 2, Index: 0, Side: hpath.SideRight, OldLive: false},
	}, steps)

	// Seed plus three siblings.
	require.Equal(t, 4, hpath.ConsistencyPathLen(3, 5))
}

func TestConsistencySteps_sameSize(t *testing.T) {
	t.Parallel()

	for _, st := range hpath.ConsistencySteps(6, 6) {
		require.NotEqual(t, hpath.SideRight, st.Side)
	}

	// Single leaf trees only carry the seed.
	require.Empty(t, hpath.ConsistencySteps(1, 1))
	require.Equal(t, 1, hpath.ConsistencyPathLen(1, 1))
}

func TestConsistencySteps_invalid(t *testing.T) {
	t.Parallel()

	require.Panics(t, func() { hpath.ConsistencySteps(0, 4) })
	require.Panics(t, func() { hpath.ConsistencySteps(5, 4) })
}
