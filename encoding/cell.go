package encoding

import (
	"fmt"
	"math"

	"github.com/arloliu/genfile/endian"
	"github.com/arloliu/genfile/errs"
	"github.com/arloliu/genfile/format"
)

// TextPrefixSize is the size of the i32 length prefix of a text cell.
const TextPrefixSize = 4

// CheckWidth validates a declared column width against its type tag.
//
// Numeric tags must declare exactly their fixed size. Text tags must leave room
// for the length prefix, and 16-bit text must declare an even character area.
func CheckWidth(t format.ColumnType, width int) error {
	if !t.Valid() {
		return fmt.Errorf("%w: type tag %d", errs.ErrUnsupportedType, t)
	}

	switch t {
	case format.TypeASCII:
		if width < TextPrefixSize {
			return fmt.Errorf("%w: %s width %d", errs.ErrUnsupportedType, t, width)
		}
	case format.TypeUnicode:
		if width < TextPrefixSize || (width-TextPrefixSize)%2 != 0 {
			return fmt.Errorf("%w: %s width %d", errs.ErrUnsupportedType, t, width)
		}
	default:
		if width != t.FixedSize() {
			return fmt.Errorf("%w: %s width %d, want %d", errs.ErrUnsupportedType, t, width, t.FixedSize())
		}
	}

	return nil
}

// MaxChars returns the character capacity of a text column of the given width,
// or 0 for numeric tags.
func MaxChars(t format.ColumnType, width int) int {
	switch t {
	case format.TypeASCII:
		return width - TextPrefixSize
	case format.TypeUnicode:
		return (width - TextPrefixSize) / 2
	default:
		return 0
	}
}

// TextWidth returns the declared width of a text column holding up to maxLen characters.
func TextWidth(t format.ColumnType, maxLen int) int {
	if t == format.TypeUnicode {
		return TextPrefixSize + 2*maxLen
	}

	return TextPrefixSize + maxLen
}

// Encode appends one cell holding v to dst.
//
// The Go type of v must match the tag exactly: int8, uint8, int16, uint16,
// int32, uint32, float32, or string for both text tags. Text shorter than the
// declared width is zero padded.
//
// Returns:
//   - []byte: dst extended by exactly width bytes
//   - error: ErrUnsupportedType on type or width mismatch, ErrValueTooLong when
//     text exceeds the declared width
func Encode(dst []byte, v any, t format.ColumnType, width int, engine endian.EndianEngine) ([]byte, error) {
	if err := CheckWidth(t, width); err != nil {
		return dst, err
	}

	switch t {
	case format.TypeInt8:
		if x, ok := v.(int8); ok {
			return append(dst, byte(x)), nil
		}
	case format.TypeUint8:
		if x, ok := v.(uint8); ok {
			return append(dst, x), nil
		}
	case format.TypeInt16:
		if x, ok := v.(int16); ok {
			return engine.AppendUint16(dst, uint16(x)), nil //nolint:gosec
		}
	case format.TypeUint16:
		if x, ok := v.(uint16); ok {
			return engine.AppendUint16(dst, x), nil
		}
	case format.TypeInt32:
		if x, ok := v.(int32); ok {
			return engine.AppendUint32(dst, uint32(x)), nil //nolint:gosec
		}
	case format.TypeUint32:
		if x, ok := v.(uint32); ok {
			return engine.AppendUint32(dst, x), nil
		}
	case format.TypeFloat32:
		if x, ok := v.(float32); ok {
			return engine.AppendUint32(dst, math.Float32bits(x)), nil
		}
	case format.TypeASCII, format.TypeUnicode:
		if s, ok := v.(string); ok {
			return appendText(dst, s, t, width, engine)
		}
	}

	return dst, fmt.Errorf("%w: %T for %s column", errs.ErrUnsupportedType, v, t)
}

func appendText(dst []byte, s string, t format.ColumnType, width int, engine endian.EndianEngine) ([]byte, error) {
	raw := []byte(s)
	units := len(raw)
	if t == format.TypeUnicode {
		var err error
		if raw, err = EncodeUTF16(s); err != nil {
			return dst, err
		}
		units = len(raw) / 2
	}

	if maxLen := MaxChars(t, width); units > maxLen {
		return dst, fmt.Errorf("%w: %d characters, column holds %d", errs.ErrValueTooLong, units, maxLen)
	}

	dst = engine.AppendUint32(dst, uint32(units)) //nolint:gosec
	dst = append(dst, raw...)

	return appendZeros(dst, width-TextPrefixSize-len(raw)), nil
}

func appendZeros(dst []byte, n int) []byte {
	for range n {
		dst = append(dst, 0)
	}

	return dst
}

// Decode reads one cell of the given tag and width from the start of src.
//
// Returns:
//   - any: the typed value (int8 ... float32, or string for text tags)
//   - error: ErrTruncatedBuffer when src is shorter than width, ErrValueTooLong
//     when a text length prefix lies outside [0, max characters]
func Decode(src []byte, t format.ColumnType, width int, engine endian.EndianEngine) (any, error) {
	if err := CheckWidth(t, width); err != nil {
		return nil, err
	}
	if len(src) < width {
		return nil, fmt.Errorf("%w: cell needs %d bytes, have %d", errs.ErrTruncatedBuffer, width, len(src))
	}

	switch t {
	case format.TypeInt8:
		return int8(src[0]), nil //nolint:gosec
	case format.TypeUint8:
		return src[0], nil
	case format.TypeInt16:
		return int16(engine.Uint16(src)), nil //nolint:gosec
	case format.TypeUint16:
		return engine.Uint16(src), nil
	case format.TypeInt32:
		return int32(engine.Uint32(src)), nil //nolint:gosec
	case format.TypeUint32:
		return engine.Uint32(src), nil
	case format.TypeFloat32:
		return math.Float32frombits(engine.Uint32(src)), nil
	default:
		return decodeText(src, t, width, engine)
	}
}

func decodeText(src []byte, t format.ColumnType, width int, engine endian.EndianEngine) (string, error) {
	n := int32(engine.Uint32(src)) //nolint:gosec
	maxLen := MaxChars(t, width)
	if n < 0 || int(n) > maxLen {
		return "", fmt.Errorf("%w: length prefix %d, column holds %d", errs.ErrValueTooLong, n, maxLen)
	}

	body := src[TextPrefixSize:]
	if t == format.TypeASCII {
		return string(body[:n]), nil
	}

	return DecodeUTF16(body[:2*int(n)])
}
