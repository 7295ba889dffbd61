package collision

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIndex(t *testing.T) {
	x := NewIndex(4)

	require.True(t, x.Track("Default Group", "Intensity", Location{0, 0}))
	require.True(t, x.Track("Default Group", "StdDev", Location{0, 1}))
	require.True(t, x.Track("Other", "Intensity", Location{1, 0}))
	require.Equal(t, 3, x.Count())
	require.False(t, x.HasCollision())

	loc, ok := x.Lookup("Default Group", "StdDev")
	require.True(t, ok)
	require.Equal(t, Location{0, 1}, loc)

	loc, ok = x.Lookup("Other", "Intensity")
	require.True(t, ok)
	require.Equal(t, Location{1, 0}, loc)

	_, ok = x.Lookup("Default Group", "Pixel")
	require.False(t, ok)

	t.Run("separator keeps pairs apart", func(t *testing.T) {
		x := NewIndex(0)
		require.True(t, x.Track("ab", "c", Location{0, 0}))
		require.True(t, x.Track("a", "bc", Location{1, 0}))

		loc, ok := x.Lookup("a", "bc")
		require.True(t, ok)
		require.Equal(t, 1, loc.Group)
	})

	t.Run("first occurrence wins", func(t *testing.T) {
		x := NewIndex(0)
		require.True(t, x.Track("g", "d", Location{0, 0}))
		require.False(t, x.Track("g", "d", Location{0, 3}))
		require.Equal(t, 1, x.Count())

		loc, _ := x.Lookup("g", "d")
		require.Equal(t, Location{0, 0}, loc)
	})

	t.Run("reset", func(t *testing.T) {
		x.Reset()
		require.Zero(t, x.Count())
		_, ok := x.Lookup("Default Group", "Intensity")
		require.False(t, ok)
	})
}

func TestIndex_Overflow(t *testing.T) {
	x := NewIndex(0)
	require.True(t, x.Track("g", "a", Location{0, 0}))

	// force a digest clash by planting a different pair under b's digest
	h := digest("g", "b")
	x.byHash[h] = entry{key: key{group: "g", name: "planted"}, loc: Location{9, 9}}

	require.True(t, x.Track("g", "b", Location{0, 1}))
	require.False(t, x.Track("g", "b", Location{0, 2}))
	require.True(t, x.HasCollision())

	loc, ok := x.Lookup("g", "b")
	require.True(t, ok)
	require.Equal(t, Location{0, 1}, loc)
}
