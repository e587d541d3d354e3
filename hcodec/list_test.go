package hcodec_test

import (
	"testing"

	"github.com/gordian-engine/hashtree/hcodec"
	"github.com/gordian-engine/hashtree/internal/htest"
	"github.com/stretchr/testify/require"
)

func TestParseList(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		in   string
		want [][]byte
	}{
		{in: "[a, b, c]", want: htest.StringLeaves("a", "b", "c")},
		{in: "a,b,c", want: htest.StringLeaves("a", "b", "c")},
		{in: "  [ alice ,bob smith,  ]  ", want: htest.StringLeaves("alice", "bob smith")},
		{in: "[x]", want: htest.StringLeaves("x")},
		{in: "[a, a]", want: htest.StringLeaves("a", "a")},
		{in: "[]", want: nil},
		{in: "", want: nil},
		{in: " , ,", want: nil},
		{in: "[a, b", want: htest.StringLeaves("[a", "b")},
		{in: "a, b]", want: htest.StringLeaves("a", "b]")},
		{in: "[", want: htest.StringLeaves("[")},
	} {
		require.Equal(t, tc.want, hcodec.ParseList(tc.in), "input %q", tc.in)
	}
}
