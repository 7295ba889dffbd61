package encoding

import (
	"fmt"
	"math"

	"github.com/arloliu/genfile/endian"
	"github.com/arloliu/genfile/errs"
	"github.com/arloliu/genfile/format"
)

// Cell is the set of Go types a column cell decodes to.
type Cell interface {
	int8 | uint8 | int16 | uint16 | int32 | uint32 | float32 | string
}

// TypeFor returns the column type tag matching a Go value or typed slice.
// Strings map to TypeUnicode; callers holding ASCII columns must say so.
func TypeFor(v any) (format.ColumnType, bool) {
	switch v.(type) {
	case int8, []int8:
		return format.TypeInt8, true
	case uint8, []uint8:
		return format.TypeUint8, true
	case int16, []int16:
		return format.TypeInt16, true
	case uint16, []uint16:
		return format.TypeUint16, true
	case int32, []int32:
		return format.TypeInt32, true
	case uint32, []uint32:
		return format.TypeUint32, true
	case float32, []float32:
		return format.TypeFloat32, true
	case string, []string:
		return format.TypeUnicode, true
	default:
		return 0, false
	}
}

// Compatible reports whether the Go value or slice v can be stored in a column of tag t.
func Compatible(v any, t format.ColumnType) bool {
	got, ok := TypeFor(v)
	if !ok {
		return false
	}
	if got == format.TypeUnicode {
		return t.IsText()
	}

	return got == t
}

// ColumnLen returns the number of rows in a typed column slice.
func ColumnLen(values any) (int, bool) {
	switch v := values.(type) {
	case []int8:
		return len(v), true
	case []uint8:
		return len(v), true
	case []int16:
		return len(v), true
	case []uint16:
		return len(v), true
	case []int32:
		return len(v), true
	case []uint32:
		return len(v), true
	case []float32:
		return len(v), true
	case []string:
		return len(v), true
	default:
		return 0, false
	}
}

// AppendColumn appends every value of a typed column slice to dst, one cell
// of the declared width per row.
//
// The type dispatch happens once per call. Numeric columns append without
// per-row allocation.
func AppendColumn(dst []byte, values any, t format.ColumnType, width int, engine endian.EndianEngine) ([]byte, error) {
	if err := CheckWidth(t, width); err != nil {
		return dst, err
	}
	if !Compatible(values, t) {
		return dst, fmt.Errorf("%w: %T for %s column", errs.ErrUnsupportedType, values, t)
	}

	switch v := values.(type) {
	case []int8:
		for _, x := range v {
			dst = append(dst, byte(x))
		}
	case []uint8:
		dst = append(dst, v...)
	case []int16:
		for _, x := range v {
			dst = engine.AppendUint16(dst, uint16(x)) //nolint:gosec
		}
	case []uint16:
		for _, x := range v {
			dst = engine.AppendUint16(dst, x)
		}
	case []int32:
		for _, x := range v {
			dst = engine.AppendUint32(dst, uint32(x)) //nolint:gosec
		}
	case []uint32:
		for _, x := range v {
			dst = engine.AppendUint32(dst, x)
		}
	case []float32:
		for _, x := range v {
			dst = engine.AppendUint32(dst, math.Float32bits(x))
		}
	case []string:
		var err error
		for _, s := range v {
			if dst, err = appendText(dst, s, t, width, engine); err != nil {
				return dst, err
			}
		}
	}

	return dst, nil
}

// DecodeColumn decodes count consecutive cells from src and appends them to dst.
//
// T must match the column tag exactly; string serves both text tags. src must
// hold at least count*width bytes.
//
// Parameters:
//   - src: start of the first cell
//   - t, width: column type tag and declared width
//   - count: number of rows to decode
//   - engine: byte order of the file
//   - dst: destination slice, reused when it has capacity
//
// Returns:
//   - []T: dst extended by count values
//   - error: ErrUnsupportedType, ErrTruncatedBuffer or ErrValueTooLong
func DecodeColumn[T Cell](src []byte, t format.ColumnType, width, count int, engine endian.EndianEngine, dst []T) ([]T, error) {
	if err := CheckWidth(t, width); err != nil {
		return dst, err
	}
	if !Compatible(dst, t) {
		return dst, fmt.Errorf("%w: %T for %s column", errs.ErrUnsupportedType, dst, t)
	}
	if count < 0 {
		return dst, fmt.Errorf("%w: negative row count %d", errs.ErrIndexOutOfBounds, count)
	}
	if len(src) < count*width {
		return dst, fmt.Errorf("%w: %d rows need %d bytes, have %d", errs.ErrTruncatedBuffer, count, count*width, len(src))
	}

	var out any
	switch d := any(dst).(type) {
	case []int8:
		for i := range count {
			d = append(d, int8(src[i])) //nolint:gosec
		}
		out = d
	case []uint8:
		out = append(d, src[:count]...)
	case []int16:
		for i := range count {
			d = append(d, int16(engine.Uint16(src[i*2:]))) //nolint:gosec
		}
		out = d
	case []uint16:
		for i := range count {
			d = append(d, engine.Uint16(src[i*2:]))
		}
		out = d
	case []int32:
		for i := range count {
			d = append(d, int32(engine.Uint32(src[i*4:]))) //nolint:gosec
		}
		out = d
	case []uint32:
		for i := range count {
			d = append(d, engine.Uint32(src[i*4:]))
		}
		out = d
	case []float32:
		for i := range count {
			d = append(d, math.Float32frombits(engine.Uint32(src[i*4:])))
		}
		out = d
	case []string:
		for i := range count {
			s, err := decodeText(src[i*width:(i+1)*width], t, width, engine)
			if err != nil {
				return dst, fmt.Errorf("row %d: %w", i, err)
			}
			d = append(d, s)
		}
		out = d
	}

	return out.([]T), nil //nolint:forcetypeassert
}

// DecodeColumnAny decodes count cells into a freshly allocated slice of the
// Go type matching t ([]int8 ... []float32, or []string).
func DecodeColumnAny(src []byte, t format.ColumnType, width, count int, engine endian.EndianEngine) (any, error) {
	switch t {
	case format.TypeInt8:
		return DecodeColumn(src, t, width, count, engine, make([]int8, 0, count))
	case format.TypeUint8:
		return DecodeColumn(src, t, width, count, engine, make([]uint8, 0, count))
	case format.TypeInt16:
		return DecodeColumn(src, t, width, count, engine, make([]int16, 0, count))
	case format.TypeUint16:
		return DecodeColumn(src, t, width, count, engine, make([]uint16, 0, count))
	case format.TypeInt32:
		return DecodeColumn(src, t, width, count, engine, make([]int32, 0, count))
	case format.TypeUint32:
		return DecodeColumn(src, t, width, count, engine, make([]uint32, 0, count))
	case format.TypeFloat32:
		return DecodeColumn(src, t, width, count, engine, make([]float32, 0, count))
	case format.TypeASCII, format.TypeUnicode:
		return DecodeColumn(src, t, width, count, engine, make([]string, 0, count))
	default:
		return nil, fmt.Errorf("%w: type tag %d", errs.ErrUnsupportedType, t)
	}
}
