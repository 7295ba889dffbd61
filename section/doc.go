// Package section defines the header model of the generic data file format
// and its binary serialization.
//
// # File Structure
//
// A generic data file is a fixed file header, a generic data header, then a
// forward chain of data groups, each owning a forward chain of datasets:
//
//	┌─────────────────────────────────────────────────────────┐
//	│ File Header (10 bytes, fixed)                           │
//	│  - magic (1) = 59, version (1) = 1                      │
//	│  - data group count (4), first group offset (4)         │
//	├─────────────────────────────────────────────────────────┤
//	│ Generic Data Header (variable, recursive)               │
//	│  - file type id, file id, creation time, locale         │
//	│  - parameters                                           │
//	│  - parent generic data headers                          │
//	├─────────────────────────────────────────────────────────┤
//	│ Data Group Header                                       │
//	│  - next group (4), first data set (4), count (4), name  │
//	├─────────────────────────────────────────────────────────┤
//	│ Data Set Header                                         │
//	│  - data start (4), next data set (4), name, parameters  │
//	│  - columns (name, type tag, width), row count           │
//	│ Data Set Payload (columnar, rows × row width)           │
//	├─────────────────────────────────────────────────────────┤
//	│ ... more data sets, more groups ...                     │
//	└─────────────────────────────────────────────────────────┘
//
// All multi-byte fields of a version 1 file are big-endian. Chains are walked
// by offset. The last element of every chain has a next offset of 0, and
// offsets strictly increase along a chain. Groups or datasets appended later
// are placed at the end of the file, so offsets of different chains may
// interleave.
//
// # Header Model
//
// FileHeader, GenericDataHeader, DataGroupHeader and DataSetHeader carry both
// their content and the offsets they occupy in the file. Offsets are zero
// until a header is read from a file or written by the container package.
// Parse functions read through an internal binio.Cursor; AppendTo methods
// serialize using the current offset fields, so a writer can emit zero
// placeholders and patch them afterwards.
//
// # Parameters
//
// Parameters are ordered (name, typed value, MIME type) triples. Duplicate
// names are legal; lookups return the first match. Text parameters may reserve
// a fixed width so a later in-place update can replace them.
package section
