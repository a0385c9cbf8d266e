package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"UW Robotics Team", "uw-robotics-team"},
		{"  Data Science Club!! ", "data-science-club"},
		{"Tech+", "tech"},
		{"A---B", "a-b"},
		{"Club (Waterloo) / 2024", "club-waterloo-2024"},
		{"", ""},
	}
	for _, c := range cases {
		require.Equal(t, c.want, Slugify(c.in))
		// idempotent: slugifying a slug changes nothing
		require.Equal(t, c.want, Slugify(Slugify(c.in)))
	}
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "abc", Truncate("abc", 10))
	require.Equal(t, "ab", Truncate("abcd", 2))
	// never splits a multi-byte rune
	require.Equal(t, "a", Truncate("aé", 2))
}

func TestCollapseWhitespace(t *testing.T) {
	require.Equal(t, "a b c", CollapseWhitespace("  a\n\tb   c "))
}
