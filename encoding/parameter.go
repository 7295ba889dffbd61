package encoding

import (
	"bytes"
	"fmt"
	"math"

	"github.com/arloliu/genfile/endian"
	"github.com/arloliu/genfile/errs"
	"github.com/arloliu/genfile/format"
)

// NumericParameterSize is the blob size of every numeric parameter value.
const NumericParameterSize = 16

// EncodeParameterValue encodes a parameter value into its blob and MIME type.
//
// Numeric values are written as a 32-bit word at the start of a 16-byte blob,
// signed values sign extended. Text values are the raw characters (UTF-16BE for
// TypeUnicode). When reserved is positive the text blob is exactly reserved
// bytes, zero padded.
//
// Returns ErrUnsupportedType when v does not match t and ErrValueTooLong when
// the text does not fit the reserved width.
func EncodeParameterValue(v any, t format.ColumnType, reserved int, engine endian.EndianEngine) ([]byte, string, error) {
	if !t.Valid() {
		return nil, "", fmt.Errorf("%w: type tag %d", errs.ErrUnsupportedType, t)
	}
	if !Compatible(v, t) {
		return nil, "", fmt.Errorf("%w: %T for %s parameter", errs.ErrUnsupportedType, v, t)
	}

	if !t.IsText() {
		var word uint32
		switch x := v.(type) {
		case int8:
			word = uint32(int32(x)) //nolint:gosec
		case uint8:
			word = uint32(x)
		case int16:
			word = uint32(int32(x)) //nolint:gosec
		case uint16:
			word = uint32(x)
		case int32:
			word = uint32(x) //nolint:gosec
		case uint32:
			word = x
		case float32:
			word = math.Float32bits(x)
		}

		blob := make([]byte, NumericParameterSize)
		engine.PutUint32(blob, word)

		return blob, t.MIMEType(), nil
	}

	s, _ := v.(string)
	raw := []byte(s)
	if t == format.TypeUnicode {
		var err error
		if raw, err = EncodeUTF16(s); err != nil {
			return nil, "", err
		}
	}

	if reserved > 0 {
		if len(raw) > reserved {
			return nil, "", fmt.Errorf("%w: %d bytes, reserved %d", errs.ErrValueTooLong, len(raw), reserved)
		}
		raw = appendZeros(raw, reserved-len(raw))
	}

	return raw, t.MIMEType(), nil
}

// DecodeParameterValue decodes a parameter blob according to its MIME type.
// Trailing zero padding of text values is trimmed.
//
// Returns ErrUnsupportedType for unknown MIME types and ErrTruncatedBuffer for
// numeric blobs shorter than four bytes.
func DecodeParameterValue(blob []byte, mime string, engine endian.EndianEngine) (any, format.ColumnType, error) {
	t, ok := format.ParseMIMEType(mime)
	if !ok {
		return nil, 0, fmt.Errorf("%w: MIME type %q", errs.ErrUnsupportedType, mime)
	}

	switch t {
	case format.TypeASCII:
		return string(bytes.TrimRight(blob, "\x00")), t, nil
	case format.TypeUnicode:
		s, err := DecodeUTF16(trimZeroUnits(blob))
		return s, t, err
	}

	if len(blob) < 4 {
		return nil, t, fmt.Errorf("%w: numeric parameter needs 4 bytes, have %d", errs.ErrTruncatedBuffer, len(blob))
	}

	word := engine.Uint32(blob)
	switch t {
	case format.TypeInt8:
		return int8(word), t, nil //nolint:gosec
	case format.TypeUint8:
		return uint8(word), t, nil //nolint:gosec
	case format.TypeInt16:
		return int16(word), t, nil //nolint:gosec
	case format.TypeUint16:
		return uint16(word), t, nil //nolint:gosec
	case format.TypeInt32:
		return int32(word), t, nil //nolint:gosec
	case format.TypeUint32:
		return word, t, nil
	default:
		return math.Float32frombits(word), t, nil
	}
}

// trimZeroUnits drops trailing zero UTF-16 code units.
func trimZeroUnits(b []byte) []byte {
	n := len(b) &^ 1
	for n >= 2 && b[n-2] == 0 && b[n-1] == 0 {
		n -= 2
	}

	return b[:n]
}
