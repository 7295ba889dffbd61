package container

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/genfile/errs"
	"github.com/arloliu/genfile/format"
	"github.com/arloliu/genfile/section"
)

func newUpdater(t *testing.T, path string) *Updater {
	t.Helper()

	u, err := NewUpdater(path, WithSync(false))
	require.NoError(t, err)
	t.Cleanup(func() { _ = u.Close() })

	return u
}

func TestUpdater_AppendToExistingGroup(t *testing.T) {
	path := scenarioFile(t, 10, 20, 30)

	f, err := Open(path)
	require.NoError(t, err)
	defer f.Close()

	d, err := f.DataSet("G", "D")
	require.NoError(t, err)
	got, err := Range[int32](d, 0, 0, 3, nil)
	require.NoError(t, err)
	require.Equal(t, []int32{10, 20, 30}, got)

	before, err := os.ReadFile(path)
	require.NoError(t, err)

	u := newUpdater(t, path)
	e := section.NewDataSetHeader("E", 2, section.NewColumnInfo("y", format.TypeFloat32, 0))
	require.NoError(t, u.AppendDataSets("G", NewDataSet{Header: e, Columns: Columns{[]float32{1.5, 2.5}}}))
	require.NoError(t, u.Close())

	require.NoError(t, f.Reload())

	g, ok := f.Header().FindDataGroup("G")
	require.True(t, ok)
	require.Equal(t, 2, g.DataSetCount())

	d, err = f.DataSet("G", "D")
	require.NoError(t, err)
	got, err = Range[int32](d, 0, 0, 3, nil)
	require.NoError(t, err)
	require.Equal(t, []int32{10, 20, 30}, got)

	ev, err := f.DataSet("G", "E")
	require.NoError(t, err)
	ys, err := Range[float32](ev, 0, 0, 2, nil)
	require.NoError(t, err)
	require.Equal(t, []float32{1.5, 2.5}, ys)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Greater(t, len(after), len(before))

	// only the patched count and next fields differ in the prior region
	dsh := g.DataSets[0]
	for i := range before {
		if inField(int64(i), g.CountFieldPos()) || inField(int64(i), dsh.NextFieldPos()) {
			continue
		}
		require.Equal(t, before[i], after[i], "byte %d moved", i)
	}
	require.Equal(t, int64(len(before)), int64(dsh.NextOffset))
}

func inField(i, pos int64) bool {
	return i >= pos && i < pos+4
}

func TestUpdater_AppendToInnerGroup(t *testing.T) {
	h, payloads := sampleHeader()
	path := writeFile(t, h, payloads)

	u := newUpdater(t, path)
	extra := section.NewDataSetHeader("Extra", 2, section.NewColumnInfo("v", format.TypeInt32, 0))
	require.NoError(t, u.AppendDataSets("Default Group", NewDataSet{Header: extra, Columns: Columns{[]int32{7, 8}}}))

	first := section.NewDataSetHeader("First", 1, section.NewColumnInfo("s", format.TypeASCII, 4))
	require.NoError(t, u.AppendDataSets("Nothing Here", NewDataSet{Header: first, Columns: Columns{[]string{"ok"}}}))

	zero := section.NewDataSetHeader("Zero", 0, section.NewColumnInfo("x", format.TypeUint16, 0))
	require.NoError(t, u.AppendDataSets("New", NewDataSet{Header: zero}))
	require.NoError(t, u.Close())

	f, err := Open(path)
	require.NoError(t, err)
	defer f.Close()

	got := f.Header()
	require.NoError(t, got.Validate())
	require.Equal(t, []string{"Default Group", "Nothing Here", "Outliers", "New"},
		[]string{got.Groups[0].Name, got.Groups[1].Name, got.Groups[2].Name, got.Groups[3].Name})
	require.Equal(t, 4, got.Groups[0].DataSetCount())
	require.Equal(t, 1, got.Groups[1].DataSetCount())

	// appended datasets sit past the later groups, at the end of the file
	outliers := got.Groups[2]
	require.Greater(t, got.Groups[0].DataSets[3].Offset, outliers.DataSets[0].Offset)
	require.Greater(t, got.Groups[1].DataSets[0].Offset, got.Groups[0].DataSets[3].Offset)
	require.Zero(t, got.Groups[0].DataSets[3].NextOffset)

	idx, err := f.DataSet("Outliers", "Indices")
	require.NoError(t, err)
	indices, err := Range[uint32](idx, 0, 0, 2, nil)
	require.NoError(t, err)
	require.Equal(t, []uint32{10, 20}, indices)

	ev, err := f.DataSet("Default Group", "Extra")
	require.NoError(t, err)
	vs, err := Range[int32](ev, 0, 0, 2, nil)
	require.NoError(t, err)
	require.Equal(t, []int32{7, 8}, vs)

	fv, err := f.DataSet("Nothing Here", "First")
	require.NoError(t, err)
	s, err := fv.String(0, 0)
	require.NoError(t, err)
	require.Equal(t, "ok", s)

	zv, err := f.DataSet("New", "Zero")
	require.NoError(t, err)
	empty, err := Range[uint16](zv, 0, 0, 10, nil)
	require.NoError(t, err)
	require.Empty(t, empty)

	// earlier datasets of the extended group are untouched
	nv, err := f.DataSet("Default Group", "Numeric")
	require.NoError(t, err)
	f32, err := Range[float32](nv, 6, 0, 3, nil)
	require.NoError(t, err)
	require.Equal(t, []float32{-1.5, 0, 2.25}, f32)
}

func TestUpdater_AppendCreatesGroup(t *testing.T) {
	h, payloads := sampleHeader()
	path := writeFile(t, h, payloads)

	u := newUpdater(t, path)
	one := section.NewDataSetHeader("one", 2, section.NewColumnInfo("v", format.TypeInt16, 0))
	two := section.NewDataSetHeader("two", 1, section.NewColumnInfo("s", format.TypeUnicode, 3))
	two.AddParameter(section.NewTextParameter("note", "hi", 4))
	require.NoError(t, u.AppendDataSets("Added",
		NewDataSet{Header: one, Columns: Columns{[]int16{-1, 1}}},
		NewDataSet{Header: two, Columns: Columns{[]string{"abc"}}},
	))

	// a second call sees the first append
	three := section.NewDataSetHeader("three", 1, section.NewColumnInfo("v", format.TypeUint8, 0))
	require.NoError(t, u.AppendDataSets("Added", NewDataSet{Header: three, Columns: Columns{[]uint8{9}}}))
	require.NoError(t, u.Close())

	f, err := Open(path)
	require.NoError(t, err)
	defer f.Close()

	got := f.Header()
	require.NoError(t, got.Validate())
	require.Equal(t, 4, got.GroupCount())
	require.Equal(t, "Added", got.Groups[3].Name)
	require.Equal(t, 3, got.Groups[3].DataSetCount())
	require.Equal(t, got.Groups[3].Offset, got.Groups[2].NextOffset)
	require.Zero(t, got.Groups[3].NextOffset)

	v, err := f.DataSet("Added", "two")
	require.NoError(t, err)
	s, err := v.String(0, 0)
	require.NoError(t, err)
	require.Equal(t, "abc", s)
	note, ok := v.Header().FindParameter("note")
	require.True(t, ok)
	require.Equal(t, "hi", note.Value)

	v, err = f.DataSet("Added", "three")
	require.NoError(t, err)
	b, err := v.Uint8(0, 0)
	require.NoError(t, err)
	require.Equal(t, uint8(9), b)

	// prior content untouched
	idx, err := f.DataSet("Outliers", "Indices")
	require.NoError(t, err)
	xs, err := Range[uint32](idx, 0, 0, 2, nil)
	require.NoError(t, err)
	require.Equal(t, []uint32{10, 20}, xs)
}

func TestUpdater_AppendToEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.cc1")
	_, err := Create(path, section.NewFileHeader(section.NewGenericDataHeader("empty")), nil, WithSync(false))
	require.NoError(t, err)

	u := newUpdater(t, path)
	require.NoError(t, u.AppendDataSets("G"))
	require.NoError(t, u.AppendDataSets("G",
		NewDataSet{Header: section.NewDataSetHeader("zero", 0, section.NewColumnInfo("x", format.TypeInt32, 0))},
	))
	require.NoError(t, u.Close())

	h, err := ReadHeaderFile(path)
	require.NoError(t, err)
	require.NoError(t, h.Validate())
	require.Equal(t, 1, h.GroupCount())
	require.Equal(t, h.Groups[0].Offset, h.FirstGroupOffset)
	require.Equal(t, 1, h.Groups[0].DataSetCount())
	require.Zero(t, h.Groups[0].DataSets[0].Rows)
}

func TestUpdater_SentinelsStayUnique(t *testing.T) {
	path := scenarioFile(t, 1)

	u := newUpdater(t, path)
	for _, name := range []string{"a", "b", "c"} {
		ds := section.NewDataSetHeader(name, 1, section.NewColumnInfo("x", format.TypeInt32, 0))
		require.NoError(t, u.AppendDataSets("G", NewDataSet{Header: ds, Columns: Columns{[]int32{1}}}))
	}
	require.NoError(t, u.AppendDataSets("H"))
	require.NoError(t, u.Close())

	h, err := ReadHeaderFile(path)
	require.NoError(t, err)
	require.NoError(t, h.Validate())

	terminal := 0
	for _, g := range h.Groups {
		if g.NextOffset == 0 {
			terminal++
		}
		ends := 0
		for _, ds := range g.DataSets {
			if ds.NextOffset == 0 {
				ends++
			}
		}
		if len(g.DataSets) > 0 {
			require.Equal(t, 1, ends, "group %q", g.Name)
		}
	}
	require.Equal(t, 1, terminal)
	require.Equal(t, 4, h.Groups[0].DataSetCount())
}

func TestUpdater_AppendValidation(t *testing.T) {
	path := scenarioFile(t, 1, 2)
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	u := newUpdater(t, path)

	good := NewDataSet{
		Header:  section.NewDataSetHeader("ok", 1, section.NewColumnInfo("x", format.TypeInt32, 0)),
		Columns: Columns{[]int32{1}},
	}
	bad := NewDataSet{
		Header:  section.NewDataSetHeader("bad", 2, section.NewColumnInfo("x", format.TypeInt32, 0)),
		Columns: Columns{[]int32{1}},
	}
	require.ErrorIs(t, u.AppendDataSets("G", good, bad), errs.ErrIndexOutOfBounds)
	require.ErrorIs(t, u.AppendDataSets("G", NewDataSet{}), errs.ErrCorrupt)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, before, after, "nothing is written when validation fails")

	require.NoError(t, u.Close())
	require.ErrorIs(t, u.AppendDataSets("G", good), errs.ErrDataSetNotOpen)
}

func TestUpdater_Parameters(t *testing.T) {
	h, payloads := sampleHeader()
	path := writeFile(t, h, payloads)
	u := newUpdater(t, path)

	t.Run("file text parameter", func(t *testing.T) {
		require.NoError(t, u.UpdateFileParameter(section.NewTextParameter("affymetrix-scanner", "S-2", 0)))
	})

	t.Run("file numeric parameter", func(t *testing.T) {
		p, err := section.NewParameter("affymetrix-pixel-size", float32(1.25))
		require.NoError(t, err)
		require.NoError(t, u.UpdateFileParameter(p))
	})

	t.Run("data set parameter", func(t *testing.T) {
		require.NoError(t, u.UpdateDataSetParameter("Default Group", "Numeric",
			section.NewTextParameter("units", "volts", 0)))
	})

	t.Run("too long", func(t *testing.T) {
		err := u.UpdateDataSetParameter("Default Group", "Numeric",
			section.NewTextParameter("units", "kilovolt-hours", 0))
		require.ErrorIs(t, err, errs.ErrValueTooLong)
	})

	t.Run("type mismatch", func(t *testing.T) {
		p, err := section.NewParameter("affymetrix-pixel-size", int32(1))
		require.NoError(t, err)
		require.ErrorIs(t, u.UpdateFileParameter(p), errs.ErrUnsupportedType)
	})

	t.Run("missing", func(t *testing.T) {
		err := u.UpdateFileParameter(section.NewTextParameter("nope", "x", 0))
		require.ErrorIs(t, err, errs.ErrParameterNotFound)
		require.True(t, errs.IsAbsent(err))

		err = u.UpdateDataSetParameter("Default Group", "Nope", section.NewTextParameter("units", "x", 0))
		require.ErrorIs(t, err, errs.ErrDataSetNotFound)
	})

	require.NoError(t, u.Close())

	got, err := ReadHeaderFile(path)
	require.NoError(t, err)

	scanner, ok := got.Generic.FindParameter("affymetrix-scanner")
	require.True(t, ok)
	require.Equal(t, "S-2", scanner.Value)

	px, ok := got.Generic.FindParameter("affymetrix-pixel-size")
	require.True(t, ok)
	require.Equal(t, float32(1.25), px.Value)

	ds, err := got.FindDataSet("Default Group", "Numeric")
	require.NoError(t, err)
	units, ok := ds.FindParameter("units")
	require.True(t, ok)
	require.Equal(t, "volts", units.Value)

	// parameter rewrites never move anything
	require.Equal(t, h.Groups[2].Offset, got.Groups[2].Offset)
}

func TestUpdater_UpdateCells(t *testing.T) {
	h, payloads := sampleHeader()
	path := writeFile(t, h, payloads)
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	u := newUpdater(t, path)
	require.NoError(t, u.UpdateCells("Default Group", "Numeric", 4, 1, []int32{5, 6}))
	require.NoError(t, u.UpdateCells("Default Group", "Text", 1, 0, []string{"ωω"}))

	require.ErrorIs(t, u.UpdateCells("Default Group", "Numeric", 4, 2, []int32{5, 6}), errs.ErrIndexOutOfBounds)
	require.ErrorIs(t, u.UpdateCells("Default Group", "Numeric", 9, 0, []int32{1}), errs.ErrIndexOutOfBounds)
	require.ErrorIs(t, u.UpdateCells("Default Group", "Numeric", 4, 0, []float32{1}), errs.ErrUnsupportedType)
	require.ErrorIs(t, u.UpdateCells("Default Group", "Numeric", 4, 0, 7), errs.ErrUnsupportedType)
	require.ErrorIs(t, u.UpdateCells("Default Group", "Text", 1, 0, []string{"toolong"}), errs.ErrValueTooLong)
	require.NoError(t, u.Close())

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, after, len(before), "cell updates never grow the file")
	require.False(t, bytes.Equal(before, after))

	f, err := Open(path)
	require.NoError(t, err)
	defer f.Close()

	v, err := f.DataSet("Default Group", "Numeric")
	require.NoError(t, err)
	got, err := Range[int32](v, 4, 0, 3, nil)
	require.NoError(t, err)
	require.Equal(t, []int32{-70000, 5, 6}, got)

	i8, err := v.Int8(1, 0)
	require.NoError(t, err)
	require.Equal(t, int8(0), i8, "neighbouring columns untouched")

	tv, err := f.DataSet("Default Group", "Text")
	require.NoError(t, err)
	strs, err := Range[string](tv, 1, 0, 2, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"ωω", "x"}, strs)
}

func TestNewUpdater_Missing(t *testing.T) {
	_, err := NewUpdater(filepath.Join(t.TempDir(), "missing.cc1"))
	require.ErrorIs(t, err, errs.ErrFileNotFound)
}
