package genfile

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/genfile/check"
	"github.com/arloliu/genfile/container"
	"github.com/arloliu/genfile/dialect"
	"github.com/arloliu/genfile/errs"
	"github.com/arloliu/genfile/format"
	"github.com/arloliu/genfile/section"
)

func create(t *testing.T, fileTypeID string, values []float32) string {
	t.Helper()

	h := NewFileHeader(fileTypeID)
	h.Generic.AddParameter(section.Parameter{Name: dialect.RowsParameter, Value: int32(1), Type: format.TypeInt32})
	h.Generic.AddParameter(section.Parameter{Name: dialect.ColsParameter, Value: int32(len(values)), Type: format.TypeInt32}) //nolint:gosec
	ds := section.NewDataSetHeader(dialect.IntensityDataSet, len(values),
		section.NewColumnInfo("Intensity", format.TypeFloat32, 0))
	h.AddDataGroup(dialect.IntensityGroup).AddDataSet(ds)

	path := filepath.Join(t.TempDir(), "file.dat")
	_, err := Create(path, h, container.Payloads{{{values}}}, container.WithSync(false))
	require.NoError(t, err)

	return path
}

func TestNewFileHeader(t *testing.T) {
	h := NewFileHeader("custom-type")
	require.Equal(t, "custom-type", h.Generic.FileTypeID)
	require.NotEmpty(t, h.Generic.FileID)
	require.NotEmpty(t, h.Generic.CreationTime)
	require.Equal(t, section.DefaultLocale, h.Generic.Locale)
	require.Zero(t, h.GroupCount())
}

func TestOpen(t *testing.T) {
	path := create(t, dialect.IntensityFileTypeID, []float32{1, 2, 3})

	f, err := Open(path)
	require.NoError(t, err)
	defer f.Close()

	v, err := f.DataSet(dialect.IntensityGroup, dialect.IntensityDataSet)
	require.NoError(t, err)
	got, err := container.Range[float32](v, 0, 0, v.Rows(), nil)
	require.NoError(t, err)
	require.Equal(t, []float32{1, 2, 3}, got)
}

func TestOpenIntensity(t *testing.T) {
	cel, err := OpenIntensity(create(t, dialect.IntensityFileTypeID, []float32{1, 2}))
	require.NoError(t, err)
	defer cel.Close()
	require.Equal(t, 2, cel.NumCells())

	_, err = OpenIntensity(create(t, "custom-type", []float32{1}))
	require.ErrorIs(t, err, errs.ErrFileTypeMismatch)

	d, err := OpenDialect(create(t, "custom-type", []float32{1}))
	require.NoError(t, err)
	defer d.Close()
	require.IsType(t, &dialect.Generic{}, d)
}

func TestNewUpdater(t *testing.T) {
	path := create(t, "custom-type", []float32{1, 2})

	u, err := NewUpdater(path, container.WithSync(false))
	require.NoError(t, err)
	require.NoError(t, u.UpdateCells(dialect.IntensityGroup, dialect.IntensityDataSet, 0, 1, []float32{9}))
	require.NoError(t, u.Close())

	f, err := Open(path)
	require.NoError(t, err)
	defer f.Close()
	v, err := f.DataSet(dialect.IntensityGroup, dialect.IntensityDataSet)
	require.NoError(t, err)
	got, err := v.Float32(1, 0)
	require.NoError(t, err)
	require.Equal(t, float32(9), got)
}

func TestCompareFiles(t *testing.T) {
	a := create(t, dialect.IntensityFileTypeID, []float32{1, 2})
	b := create(t, dialect.IntensityFileTypeID, []float32{1, 2.5})

	r, err := CompareFiles(context.Background(), a, a, nil)
	require.NoError(t, err)
	require.True(t, r.Equal())

	r, err = CompareFiles(context.Background(), a, b, nil)
	require.NoError(t, err)
	require.False(t, r.Equal())

	r, err = CompareFiles(context.Background(), a, b, []container.Option{container.WithMmap()}, check.WithTolerance(1))
	require.NoError(t, err)
	require.True(t, r.Equal())

	_, err = CompareFiles(context.Background(), a, filepath.Join(t.TempDir(), "missing"), nil)
	require.ErrorIs(t, err, errs.ErrFileNotFound)
}
