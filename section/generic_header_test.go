package section

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/genfile/endian"
	"github.com/arloliu/genfile/errs"
)

func TestNewGenericDataHeader(t *testing.T) {
	h := NewGenericDataHeader("affymetrix-calvin-intensity")

	require.Equal(t, "affymetrix-calvin-intensity", h.FileTypeID)
	require.Equal(t, DefaultLocale, h.Locale)
	_, err := uuid.Parse(h.FileID)
	require.NoError(t, err)

	ts, err := h.CreationTimeAsTime()
	require.NoError(t, err)
	require.False(t, ts.IsZero())

	other := NewGenericDataHeader("affymetrix-calvin-intensity")
	require.NotEqual(t, h.FileID, other.FileID)
}

func TestGenericDataHeader_SetLocale(t *testing.T) {
	h := NewGenericDataHeader("x")

	require.NoError(t, h.SetLocale("ja-jp"))
	require.Equal(t, "ja-JP", h.Locale)

	tag, err := h.LanguageTag()
	require.NoError(t, err)
	require.Equal(t, "ja-JP", tag.String())

	err = h.SetLocale("not a locale!")
	require.ErrorIs(t, err, errs.ErrInvalidLocale)
	require.Equal(t, "ja-JP", h.Locale)
}

func provenanceTree() *GenericDataHeader {
	root := &GenericDataHeader{FileTypeID: "chp", FileID: "c1", Locale: "en-US"}
	cel := &GenericDataHeader{FileTypeID: "cel", FileID: "p1", Locale: "en-US"}
	dat := &GenericDataHeader{FileTypeID: "dat", FileID: "g1", Locale: "en-US"}
	arr := &GenericDataHeader{FileTypeID: "array", FileID: "p2", Locale: "en-US"}

	cel.AddParent(dat)
	root.AddParent(cel)
	root.AddParent(arr)

	return root
}

func TestGenericDataHeader_Parents(t *testing.T) {
	root := provenanceTree()
	require.Equal(t, 2, root.ParentCount())

	var direct []string
	for p := range root.Parents() {
		direct = append(direct, p.FileTypeID)
	}
	require.Equal(t, []string{"cel", "array"}, direct)

	t.Run("walk depth first", func(t *testing.T) {
		var visited []string
		var depths []int
		root.WalkParents(func(p *GenericDataHeader, depth int) bool {
			visited = append(visited, p.FileTypeID)
			depths = append(depths, depth)
			return true
		})
		require.Equal(t, []string{"cel", "dat", "array"}, visited)
		require.Equal(t, []int{1, 2, 1}, depths)
	})

	t.Run("walk stops early", func(t *testing.T) {
		n := 0
		root.WalkParents(func(*GenericDataHeader, int) bool {
			n++
			return false
		})
		require.Equal(t, 1, n)
	})

	t.Run("find parent", func(t *testing.T) {
		p, ok := root.FindParent("dat")
		require.True(t, ok)
		require.Equal(t, "g1", p.FileID)

		_, ok = root.FindParent("chp")
		require.False(t, ok, "the header itself is not its own parent")
	})
}

func TestGenericDataHeader_RoundTrip(t *testing.T) {
	engine := endian.Default()
	root := provenanceTree()
	root.CreationTime = "2024-01-02T03:04:05Z"
	root.AddParameter(NewTextParameter("affymetrix-scanner", "S-100", 0))
	p, err := NewParameter("affymetrix-pixel-size", float32(0.7))
	require.NoError(t, err)
	root.AddParameter(p)

	buf, err := root.AppendTo(nil, engine)
	require.NoError(t, err)
	require.Len(t, buf, root.HeaderSize())

	got, err := ParseGenericDataHeader(cursorOf(buf))
	require.NoError(t, err)
	require.Equal(t, root.FileTypeID, got.FileTypeID)
	require.Equal(t, root.FileID, got.FileID)
	require.Equal(t, root.CreationTime, got.CreationTime)
	require.Equal(t, root.Locale, got.Locale)
	require.Equal(t, 2, got.ParentCount())

	px, ok := got.FindParameter("affymetrix-pixel-size")
	require.True(t, ok)
	require.Equal(t, float32(0.7), px.Value)

	dat, ok := got.FindParent("dat")
	require.True(t, ok)
	require.Equal(t, "g1", dat.FileID)

	again, err := got.AppendTo(nil, engine)
	require.NoError(t, err)
	require.Equal(t, buf, again)
}

func TestGenericDataHeader_ParameterValuePos(t *testing.T) {
	engine := endian.Default()
	h := &GenericDataHeader{FileTypeID: "t", FileID: "f", Locale: "en-US"}
	h.AddParameter(NewTextParameter("a", "first", 0))
	h.AddParameter(NewASCIIParameter("b", "second", 12))

	buf, err := h.AppendTo(nil, engine)
	require.NoError(t, err)

	off, size, ok := h.ParameterValuePos("b")
	require.True(t, ok)
	require.Equal(t, 12, size)
	require.Equal(t, "second\x00\x00\x00\x00\x00\x00", string(buf[off:off+size]))

	_, _, ok = h.ParameterValuePos("c")
	require.False(t, ok)
}

func TestParseGenericDataHeader_Truncated(t *testing.T) {
	engine := endian.Default()
	h := provenanceTree()

	buf, err := h.AppendTo(nil, engine)
	require.NoError(t, err)

	for _, cut := range []int{0, 3, 10, len(buf) / 2, len(buf) - 1} {
		_, err := ParseGenericDataHeader(cursorOf(buf[:cut]))
		require.ErrorIs(t, err, errs.ErrTruncatedFile, "cut at %d", cut)
	}
}
