package container

import (
	"fmt"
	"iter"

	"github.com/arloliu/genfile/encoding"
	"github.com/arloliu/genfile/endian"
	"github.com/arloliu/genfile/errs"
	"github.com/arloliu/genfile/format"
	"github.com/arloliu/genfile/internal/hash"
	"github.com/arloliu/genfile/internal/pool"
	"github.com/arloliu/genfile/section"
)

// columnChunkRows is the number of rows Column decodes per read.
const columnChunkRows = 1024

// DataSetView gives random access to the cells of one dataset.
//
// A view is bound to the payload region [data start, data start + rows × row
// width) of its file. Every method is safe for concurrent use; errors are
// scoped to the call and never invalidate the view. After the file is closed
// or reloaded every method returns ErrDataSetNotOpen.
type DataSetView struct {
	file   *File
	header *section.DataSetHeader
	group  string
	gen    uint64
}

// Header returns the dataset header. It must be treated as read-only.
func (v *DataSetView) Header() *section.DataSetHeader {
	return v.header
}

// Name returns the dataset name.
func (v *DataSetView) Name() string {
	return v.header.Name
}

// Group returns the name of the group holding the dataset.
func (v *DataSetView) Group() string {
	return v.group
}

// Rows returns the row count.
func (v *DataSetView) Rows() int {
	return v.header.Rows
}

// Columns returns the column descriptions.
func (v *DataSetView) Columns() []section.ColumnInfo {
	return v.header.Columns
}

func (v *DataSetView) engine() endian.EndianEngine {
	return endian.Default()
}

func (v *DataSetView) column(col int) (section.ColumnInfo, error) {
	if col < 0 || col >= len(v.header.Columns) {
		return section.ColumnInfo{}, fmt.Errorf("%w: column %d of %d in %q",
			errs.ErrIndexOutOfBounds, col, len(v.header.Columns), v.header.Name)
	}

	return v.header.Columns[col], nil
}

func (v *DataSetView) cell(row, col int) (section.ColumnInfo, error) {
	c, err := v.column(col)
	if err != nil {
		return c, err
	}
	if row < 0 || row >= v.header.Rows {
		return c, fmt.Errorf("%w: row %d of %d in %q", errs.ErrIndexOutOfBounds, row, v.header.Rows, v.header.Name)
	}

	return c, nil
}

// withBytes hands fn the payload bytes [off, off+n) relative to the data start.
// fn runs under the file's read lock and must not retain the slice.
func (v *DataSetView) withBytes(off int64, n int, fn func([]byte) error) error {
	f := v.file
	f.mu.RLock()
	defer f.mu.RUnlock()

	if err := f.usable(); err != nil {
		return err
	}
	if v.gen != f.gen {
		return fmt.Errorf("%w: file was reloaded", errs.ErrDataSetNotOpen)
	}
	if n == 0 {
		return fn(nil)
	}

	if payload, ok := f.eager[v.header]; ok {
		return fn(payload[off : off+int64(n)])
	}

	abs := int64(v.header.DataStartOffset) + off
	if b, ok := f.src.Slice(abs, n); ok {
		return fn(b)
	}

	bb := pool.GetPayloadBuffer()
	defer pool.PutPayloadBuffer(bb)

	bb.Grow(n)
	buf := bb.B[:n]
	if _, err := f.src.ReadAt(buf, abs); err != nil {
		return errs.IO("read payload", err)
	}

	return fn(buf)
}

// Get returns the cell at row, col as its typed Go value.
func (v *DataSetView) Get(row, col int) (any, error) {
	c, err := v.cell(row, col)
	if err != nil {
		return nil, err
	}

	var out any
	err = v.withBytes(v.header.CellOffset(row, col), c.Width, func(b []byte) error {
		var derr error
		out, derr = encoding.Decode(b, c.Type, c.Width, v.engine())

		return derr
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

func cellAs[T encoding.Cell](v *DataSetView, row, col int) (T, error) {
	var zero T
	if _, err := v.cell(row, col); err != nil {
		return zero, err
	}

	var buf [1]T
	out, err := Range(v, col, row, 1, buf[:0])
	if err != nil {
		return zero, err
	}

	return out[0], nil
}

// Int8 returns an int8 cell. Other column types are ErrUnsupportedType.
func (v *DataSetView) Int8(row, col int) (int8, error) { return cellAs[int8](v, row, col) }

// Uint8 returns a uint8 cell.
func (v *DataSetView) Uint8(row, col int) (uint8, error) { return cellAs[uint8](v, row, col) }

// Int16 returns an int16 cell.
func (v *DataSetView) Int16(row, col int) (int16, error) { return cellAs[int16](v, row, col) }

// Uint16 returns a uint16 cell.
func (v *DataSetView) Uint16(row, col int) (uint16, error) { return cellAs[uint16](v, row, col) }

// Int32 returns an int32 cell.
func (v *DataSetView) Int32(row, col int) (int32, error) { return cellAs[int32](v, row, col) }

// Uint32 returns a uint32 cell.
func (v *DataSetView) Uint32(row, col int) (uint32, error) { return cellAs[uint32](v, row, col) }

// Float32 returns a float32 cell.
func (v *DataSetView) Float32(row, col int) (float32, error) { return cellAs[float32](v, row, col) }

// String returns a text cell of either text type.
func (v *DataSetView) String(row, col int) (string, error) { return cellAs[string](v, row, col) }

// clip validates a row range and clips it to the row count.
func (v *DataSetView) clip(col, start, count int) (section.ColumnInfo, int, error) {
	c, err := v.column(col)
	if err != nil {
		return c, 0, err
	}
	if v.header.Rows == 0 {
		return c, 0, nil
	}
	if start < 0 || count < 0 {
		return c, 0, fmt.Errorf("%w: range start %d count %d", errs.ErrIndexOutOfBounds, start, count)
	}
	if start >= v.header.Rows {
		return c, 0, nil
	}

	return c, min(count, v.header.Rows-start), nil
}

// Range decodes up to count cells of column col starting at row start and
// appends them to dst. The range is clipped to the row count, so a range past
// the end yields dst unchanged. Any span of a zero-row dataset, even a
// negative one, yields dst unchanged.
//
// T must match the column type exactly; string serves both text types.
func Range[T encoding.Cell](v *DataSetView, col, start, count int, dst []T) ([]T, error) {
	c, n, err := v.clip(col, start, count)
	if err != nil {
		return dst, err
	}
	if !encoding.Compatible(dst, c.Type) {
		return dst, fmt.Errorf("%w: %T for %s column %q", errs.ErrUnsupportedType, dst, c.Type, c.Name)
	}
	if n == 0 {
		return dst, nil
	}

	out := dst
	err = v.withBytes(v.header.CellOffset(start, col), n*c.Width, func(b []byte) error {
		var derr error
		out, derr = encoding.DecodeColumn(b, c.Type, c.Width, n, v.engine(), dst)

		return derr
	})
	if err != nil {
		return dst, err
	}

	return out, nil
}

// GetRange decodes up to count cells of column col starting at row start into
// a new typed slice ([]int8 ... []float32, or []string). The range is clipped
// like Range.
func (v *DataSetView) GetRange(col, start, count int) (any, error) {
	c, n, err := v.clip(col, start, count)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return encoding.DecodeColumnAny(nil, c.Type, c.Width, 0, v.engine())
	}

	var out any
	err = v.withBytes(v.header.CellOffset(start, col), n*c.Width, func(b []byte) error {
		var derr error
		out, derr = encoding.DecodeColumnAny(b, c.Type, c.Width, n, v.engine())

		return derr
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// Column iterates over every cell of column col in row order. The iteration
// stops after yielding the first error.
func (v *DataSetView) Column(col int) iter.Seq2[any, error] {
	return func(yield func(any, error) bool) {
		if _, err := v.column(col); err != nil {
			yield(nil, err)
			return
		}

		for start := 0; start < v.header.Rows; start += columnChunkRows {
			values, err := v.GetRange(col, start, columnChunkRows)
			if err != nil {
				yield(nil, err)
				return
			}
			if !yieldEach(values, yield) {
				return
			}
		}
	}
}

func yieldEach(values any, yield func(any, error) bool) bool {
	switch s := values.(type) {
	case []int8:
		return yieldSlice(s, yield)
	case []uint8:
		return yieldSlice(s, yield)
	case []int16:
		return yieldSlice(s, yield)
	case []uint16:
		return yieldSlice(s, yield)
	case []int32:
		return yieldSlice(s, yield)
	case []uint32:
		return yieldSlice(s, yield)
	case []float32:
		return yieldSlice(s, yield)
	case []string:
		return yieldSlice(s, yield)
	default:
		return yield(nil, fmt.Errorf("%w: %T", errs.ErrUnsupportedType, values))
	}
}

func yieldSlice[T encoding.Cell](s []T, yield func(any, error) bool) bool {
	for _, x := range s {
		if !yield(x, nil) {
			return false
		}
	}

	return true
}

// Checksum returns the xxHash64 of the raw payload region.
func (v *DataSetView) Checksum() (uint64, error) {
	d := hash.New()
	total := v.header.PayloadSize()

	for off := int64(0); ; off += pool.PayloadBufferDefaultSize {
		n := int(min(total-off, pool.PayloadBufferDefaultSize))
		err := v.withBytes(off, n, func(b []byte) error {
			_, werr := d.Write(b)
			return werr
		})
		if err != nil {
			return 0, err
		}
		if off+int64(n) >= total {
			break
		}
	}

	return d.Sum64(), nil
}

// ColumnType returns the type tag of column col.
func (v *DataSetView) ColumnType(col int) (format.ColumnType, error) {
	c, err := v.column(col)
	return c.Type, err
}
