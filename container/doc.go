// Package container reads, writes and updates generic data files.
//
// A generic data file is a self-describing hierarchical container: a file
// header and a generic data header with provenance parents, followed by a
// chain of data groups, each holding a chain of datasets. Every dataset is a
// fixed-schema table whose payload is stored column by column.
//
// # Core Types
//
//   - File: an opened file, its header model bound to a byte source
//   - DataSetView: typed cell and range access to one dataset of a File
//   - Updater: in-place appends and value rewrites of an existing file
//   - Plan: the offset patches applied by Write
//
// # Reading
//
//	f, err := container.Open("scan.cc1", container.WithMmap())
//	if err != nil {
//	    return err
//	}
//	defer f.Close()
//
//	v, err := f.DataSet("Default Group", "Intensities")
//	if err != nil {
//	    return err
//	}
//	values, err := container.Range[float32](v, 0, 0, v.Rows(), nil)
//
// Payloads are read lazily by default. WithMmap maps the file read-only and
// WithEagerLoad reads every payload at open time. Views hold no bytes of
// their own; after Close or Reload they return errs.ErrDataSetNotOpen.
//
// # Writing
//
// Write takes a header model and one typed slice per column ([]int8 ...
// []float32, []string for both text types). Headers are streamed with zero
// offset placeholders and patched once every position is known:
//
//	h := section.NewFileHeader(section.NewGenericDataHeader("affymetrix-calvin-intensity"))
//	h.AddDataGroup("G").AddDataSet(section.NewDataSetHeader("D", 3,
//	    section.NewColumnInfo("x", format.TypeInt32, 0)))
//	_, err := container.Create("out.cc1", h, container.Payloads{{{[]int32{10, 20, 30}}}})
//
// # Updating
//
// An Updater appends datasets and groups at the end of the file and patches
// the predecessor offset and the owning count. Existing bytes never move.
// The steps are not atomic; see Updater.
package container
