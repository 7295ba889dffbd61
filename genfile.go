// Package genfile reads, writes and updates generic data files: a
// self-describing hierarchical binary container of data groups holding
// datasets, with typed columns, named parameters and a provenance header.
//
// A file is laid out as
//
//	file header | generic data header | group header | data set header | payload | ...
//
// All multi-byte values are big-endian. Groups and datasets form singly
// linked chains of absolute offsets, so a file can be extended at its end
// without rewriting what is already there.
//
// # Basic Usage
//
// Writing a file:
//
//	h := genfile.NewFileHeader("affymetrix-calvin-intensity")
//	ds := section.NewDataSetHeader("Intensity", 4,
//	    section.NewColumnInfo("Intensity", format.TypeFloat32, 0))
//	h.AddDataGroup("Default Group").AddDataSet(ds)
//
//	_, err := genfile.Create("scan.dat", h, container.Payloads{{{[]float32{1, 2, 3, 4}}}})
//
// Reading it back:
//
//	f, err := genfile.Open("scan.dat")
//	defer f.Close()
//
//	v, _ := f.DataSet("Default Group", "Intensity")
//	values, _ := container.Range[float32](v, 0, 0, v.Rows(), nil)
//
// # Package Structure
//
// This package provides top-level wrappers for the most common tasks. The
// container package holds the reader, writer and updater, section the header
// model, dialect the typed file views, check the file comparison and extract
// the text reports.
package genfile

import (
	"context"

	"github.com/arloliu/genfile/check"
	"github.com/arloliu/genfile/container"
	"github.com/arloliu/genfile/dialect"
	"github.com/arloliu/genfile/section"
)

// NewFileHeader creates an empty file header for the given file type with a
// fresh file id, the current creation time and the default locale.
func NewFileHeader(fileTypeID string) *section.FileHeader {
	return section.NewFileHeader(section.NewGenericDataHeader(fileTypeID))
}

// Create writes a complete file at path.
//
// Parameters:
//   - path: The destination, created or truncated
//   - h: The header model; its offsets are filled in as the file is written
//   - payloads: One typed slice per column for every dataset
//   - opts: Optional settings (see container.Option)
//
// Returns the offset patch plan that was applied.
func Create(path string, h *section.FileHeader, payloads container.Payloads, opts ...container.Option) (*container.Plan, error) {
	return container.Create(path, h, payloads, opts...)
}

// Open opens the file at path and reads its header.
//
// Payload bytes are read on demand unless container.WithEagerLoad is given;
// container.WithMmap maps the file instead.
func Open(path string, opts ...container.Option) (*container.File, error) {
	return container.Open(path, opts...)
}

// OpenDialect opens the file at path with the dialect registered for its file
// type, falling back to the generic view.
func OpenDialect(path string, opts ...container.Option) (dialect.Dialect, error) {
	return dialect.Default().Open(path, opts...)
}

// OpenIntensity opens an intensity file. Files of any other type fail with
// errs.ErrFileTypeMismatch.
func OpenIntensity(path string, opts ...container.Option) (*dialect.Intensity, error) {
	d, err := dialect.Default().OpenAs(path, dialect.IntensityFileTypeID, opts...)
	if err != nil {
		return nil, err
	}

	return d.(*dialect.Intensity), nil
}

// NewUpdater opens the file at path for in-place appends and updates.
func NewUpdater(path string, opts ...container.Option) (*container.Updater, error) {
	return container.NewUpdater(path, opts...)
}

// CompareFiles opens both files and compares them.
//
// Example:
//
//	r, err := genfile.CompareFiles(ctx, "expected.dat", "actual.dat", nil,
//	    check.WithTolerance(1e-5))
//	if err == nil && !r.Equal() {
//	    r.WriteTo(os.Stdout)
//	}
func CompareFiles(ctx context.Context, expectedPath, actualPath string, openOpts []container.Option,
	opts ...check.Option,
) (*check.Report, error) {
	expected, err := container.Open(expectedPath, openOpts...)
	if err != nil {
		return nil, err
	}
	defer expected.Close()

	actual, err := container.Open(actualPath, openOpts...)
	if err != nil {
		return nil, err
	}
	defer actual.Close()

	return check.Compare(ctx, expected, actual, opts...)
}
