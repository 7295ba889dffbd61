package section

import "math"

const (
	Magic         uint8 = 59 // Magic is the first byte of every generic data file.
	Version       uint8 = 1  // Version is the format version written by this package.
	DefaultLocale       = "en-US"
)

// offset and field positions in the file
const (
	FileHeaderSize    = 10 // fixed file header size in bytes
	GenericHeaderPos  = FileHeaderSize
	GroupCountPos     = 2 // byte offset of the data group count in the file header
	FirstGroupPos     = 6 // byte offset of the first data group offset in the file header
	MaxOffset         = math.MaxUint32
	MaxParentDepth    = 256 // maximum nesting of parent generic data headers
	CreationTimeFormat = "2006-01-02T15:04:05Z"
)

// field offsets relative to the start of a data group header
const (
	GroupNextField         = 0
	GroupFirstDataSetField = 4
	GroupDataSetCountField = 8
	groupFixedSize         = 12
)

// field offsets relative to the start of a dataset header
const (
	DataSetDataStartField = 0
	DataSetNextField      = 4
	dataSetFixedSize      = 8
)
