package section

import (
	"fmt"

	"github.com/arloliu/genfile/encoding"
	"github.com/arloliu/genfile/endian"
	"github.com/arloliu/genfile/errs"
	"github.com/arloliu/genfile/internal/binio"
)

// DataSetHeader describes one dataset: its columns, row count, parameters and
// where its header and payload live in the file.
//
// The payload is columnar: all rows of column 0, then all rows of column 1,
// and so on. It starts at DataStartOffset, immediately after the header.
type DataSetHeader struct {
	Name    string
	Params  Parameters
	Columns []ColumnInfo
	Rows    int

	// Offset is the position of this header in the file, 0 until read or written.
	Offset uint32
	// DataStartOffset is the position of the first payload byte.
	DataStartOffset uint32
	// NextOffset is the position of the next dataset in the group, 0 for the last one.
	NextOffset uint32
}

// NewDataSetHeader creates a dataset header with the given row count and columns.
func NewDataSetHeader(name string, rows int, cols ...ColumnInfo) *DataSetHeader {
	return &DataSetHeader{Name: name, Rows: rows, Columns: cols}
}

// AddColumn appends a column description.
func (h *DataSetHeader) AddColumn(col ColumnInfo) {
	h.Columns = append(h.Columns, col)
}

// ColumnCount returns the number of columns.
func (h *DataSetHeader) ColumnCount() int {
	return len(h.Columns)
}

// ColumnIndex returns the index of the first column named name, or -1.
func (h *DataSetHeader) ColumnIndex(name string) int {
	for i, c := range h.Columns {
		if c.Name == name {
			return i
		}
	}

	return -1
}

// FindParameter returns the first parameter named name.
func (h *DataSetHeader) FindParameter(name string) (Parameter, bool) {
	return h.Params.Find(name)
}

// FindParametersWithPrefix returns the parameters whose names start with prefix.
func (h *DataSetHeader) FindParametersWithPrefix(prefix string) []Parameter {
	return h.Params.FindWithPrefix(prefix)
}

// AddParameter appends p. Duplicate names are kept.
func (h *DataSetHeader) AddParameter(p Parameter) {
	h.Params.Add(p)
}

// SetParameter replaces the first parameter named p.Name or appends p.
func (h *DataSetHeader) SetParameter(p Parameter) {
	h.Params.Set(p)
}

// RowWidth returns the sum of all column widths.
func (h *DataSetHeader) RowWidth() int {
	n := 0
	for _, c := range h.Columns {
		n += c.Width
	}

	return n
}

// PayloadSize returns the payload size in bytes.
func (h *DataSetHeader) PayloadSize() int64 {
	return int64(h.Rows) * int64(h.RowWidth())
}

// ColumnOffset returns the offset of column col's region relative to the payload start.
func (h *DataSetHeader) ColumnOffset(col int) int64 {
	n := 0
	for _, c := range h.Columns[:col] {
		n += c.Width
	}

	return int64(h.Rows) * int64(n)
}

// CellOffset returns the offset of one cell relative to the payload start.
func (h *DataSetHeader) CellOffset(row, col int) int64 {
	return h.ColumnOffset(col) + int64(row)*int64(h.Columns[col].Width)
}

// HeaderSize returns the encoded header size. DataStartOffset is Offset + HeaderSize.
func (h *DataSetHeader) HeaderSize() int {
	n := dataSetFixedSize + encoding.String16Size(h.Name) + h.Params.Size() + 4
	for _, c := range h.Columns {
		n += c.size()
	}

	return n + 4
}

// End returns the offset just past the payload.
func (h *DataSetHeader) End() int64 {
	return int64(h.DataStartOffset) + h.PayloadSize()
}

// DataStartFieldPos returns the absolute position of the data start field.
func (h *DataSetHeader) DataStartFieldPos() int64 {
	return int64(h.Offset) + DataSetDataStartField
}

// NextFieldPos returns the absolute position of the next dataset field.
func (h *DataSetHeader) NextFieldPos() int64 {
	return int64(h.Offset) + DataSetNextField
}

// ParameterValuePos returns the absolute position of the named parameter's
// value bytes and the size of the stored value.
func (h *DataSetHeader) ParameterValuePos(name string) (int64, int, bool) {
	off, size, ok := h.Params.ValuePos(name)
	if !ok {
		return 0, 0, false
	}
	base := int64(h.Offset) + dataSetFixedSize + int64(encoding.String16Size(h.Name))

	return base + int64(off), size, true
}

// Validate checks the columns and the row count.
func (h *DataSetHeader) Validate() error {
	if h.Rows < 0 {
		return fmt.Errorf("%w: dataset %q has %d rows", errs.ErrCorrupt, h.Name, h.Rows)
	}
	for _, c := range h.Columns {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("dataset %q: %w", h.Name, err)
		}
	}

	return nil
}

// AppendTo appends the encoded header with its current offset fields to dst.
func (h *DataSetHeader) AppendTo(dst []byte, engine endian.EndianEngine) ([]byte, error) {
	if err := h.Validate(); err != nil {
		return dst, err
	}

	out := engine.AppendUint32(dst, h.DataStartOffset)
	out = engine.AppendUint32(out, h.NextOffset)

	var err error
	if out, err = encoding.AppendString16(out, h.Name, engine); err != nil {
		return dst, err
	}
	if out, err = h.Params.AppendTo(out, engine); err != nil {
		return dst, err
	}

	out = engine.AppendUint32(out, uint32(len(h.Columns))) //nolint:gosec
	for _, c := range h.Columns {
		if out, err = c.appendTo(out, engine); err != nil {
			return dst, err
		}
	}

	return engine.AppendUint32(out, uint32(h.Rows)), nil //nolint:gosec
}

// ParseDataSetHeader reads a dataset header at the cursor position and records
// that position as its offset. The payload is not read.
func ParseDataSetHeader(c *binio.Cursor) (*DataSetHeader, error) {
	h := &DataSetHeader{Offset: uint32(c.Pos())} //nolint:gosec

	var err error
	if h.DataStartOffset, err = c.Uint32(); err != nil {
		return nil, err
	}
	if h.NextOffset, err = c.Uint32(); err != nil {
		return nil, err
	}
	if h.Name, err = c.String16(); err != nil {
		return nil, err
	}
	if h.Params, err = ParseParameters(c); err != nil {
		return nil, err
	}

	count, err := c.Uint32()
	if err != nil {
		return nil, err
	}
	// a column description takes at least 9 bytes
	if int64(count)*9 > c.Size()-c.Pos() {
		return nil, fmt.Errorf("%w: %d columns exceed file", errs.ErrTruncatedFile, count)
	}

	h.Columns = make([]ColumnInfo, 0, count)
	for range count {
		col, err := parseColumnInfo(c)
		if err != nil {
			return nil, err
		}
		h.Columns = append(h.Columns, col)
	}

	rows, err := c.Int32()
	if err != nil {
		return nil, err
	}
	if rows < 0 {
		return nil, fmt.Errorf("%w: dataset %q has %d rows", errs.ErrCorrupt, h.Name, rows)
	}
	h.Rows = int(rows)

	if int64(h.DataStartOffset) < c.Pos() {
		return nil, fmt.Errorf("%w: dataset %q data start %d inside its header", errs.ErrCorrupt, h.Name, h.DataStartOffset)
	}

	return h, nil
}
