package encoding

import (
	"fmt"
	"math"
	"unicode/utf16"

	"golang.org/x/text/encoding/unicode"

	"github.com/arloliu/genfile/endian"
	"github.com/arloliu/genfile/errs"
)

// utf16BE converts between Go strings and UTF-16BE code units. Encoders and
// decoders created from it are not safe for concurrent use, so one is created
// per call.
var utf16BE = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)

// String16Len returns the number of UTF-16 code units needed to encode s.
// Invalid UTF-8 sequences count as one replacement character each.
func String16Len(s string) int {
	n := 0
	for _, r := range s {
		if l := utf16.RuneLen(r); l > 0 {
			n += l
		} else {
			n++
		}
	}

	return n
}

// EncodeUTF16 returns s as UTF-16BE bytes.
func EncodeUTF16(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}

	b, err := utf16BE.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("%w: utf-16 encode: %w", errs.ErrUnsupportedType, err)
	}

	return b, nil
}

// DecodeUTF16 converts UTF-16BE bytes to a Go string.
func DecodeUTF16(b []byte) (string, error) {
	if len(b)%2 != 0 {
		return "", fmt.Errorf("%w: odd utf-16 byte length %d", errs.ErrTruncatedBuffer, len(b))
	}
	if len(b) == 0 {
		return "", nil
	}

	out, err := utf16BE.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("%w: utf-16 decode: %w", errs.ErrUnsupportedType, err)
	}

	return string(out), nil
}

// AppendString8 appends s as an i32 byte length followed by its bytes.
func AppendString8(dst []byte, s string, engine endian.EndianEngine) []byte {
	dst = engine.AppendUint32(dst, uint32(len(s))) //nolint:gosec

	return append(dst, s...)
}

// AppendString16 appends s as an i32 code-unit length followed by UTF-16BE code units.
func AppendString16(dst []byte, s string, engine endian.EndianEngine) ([]byte, error) {
	b, err := EncodeUTF16(s)
	if err != nil {
		return dst, err
	}

	dst = engine.AppendUint32(dst, uint32(len(b)/2)) //nolint:gosec

	return append(dst, b...), nil
}

// AppendBlob appends b as an i32 byte length followed by the bytes.
func AppendBlob(dst []byte, b []byte, engine endian.EndianEngine) []byte {
	dst = engine.AppendUint32(dst, uint32(len(b))) //nolint:gosec

	return append(dst, b...)
}

// String8Size returns the encoded size of s as a string8.
func String8Size(s string) int {
	return 4 + len(s)
}

// String16Size returns the encoded size of s as a string16.
func String16Size(s string) int {
	return 4 + 2*String16Len(s)
}

// ParseLength reads an i32 length prefix and checks it against the remaining buffer.
//
// Parameters:
//   - src: buffer starting at the length prefix
//   - unit: bytes per counted element (1 for string8 and blobs, 2 for string16)
//   - engine: byte order of the file
//
// Returns:
//   - int: payload size in bytes
//   - error: ErrTruncatedBuffer when the prefix or payload does not fit in src,
//     ErrCorrupt for negative lengths
func ParseLength(src []byte, unit int, engine endian.EndianEngine) (int, error) {
	if len(src) < 4 {
		return 0, fmt.Errorf("%w: length prefix needs 4 bytes, have %d", errs.ErrTruncatedBuffer, len(src))
	}

	n := int32(engine.Uint32(src)) //nolint:gosec
	if n < 0 {
		return 0, fmt.Errorf("%w: negative length %d", errs.ErrCorrupt, n)
	}
	if int64(n)*int64(unit) > math.MaxInt32 {
		return 0, fmt.Errorf("%w: length %d too large", errs.ErrCorrupt, n)
	}

	size := int(n) * unit
	if len(src)-4 < size {
		return 0, fmt.Errorf("%w: need %d bytes, have %d", errs.ErrTruncatedBuffer, size, len(src)-4)
	}

	return size, nil
}

// ParseString8 decodes a string8 at the start of src and returns it with the
// number of bytes consumed.
func ParseString8(src []byte, engine endian.EndianEngine) (string, int, error) {
	size, err := ParseLength(src, 1, engine)
	if err != nil {
		return "", 0, err
	}

	return string(src[4 : 4+size]), 4 + size, nil
}

// ParseString16 decodes a string16 at the start of src and returns it with the
// number of bytes consumed.
func ParseString16(src []byte, engine endian.EndianEngine) (string, int, error) {
	size, err := ParseLength(src, 2, engine)
	if err != nil {
		return "", 0, err
	}

	s, err := DecodeUTF16(src[4 : 4+size])
	if err != nil {
		return "", 0, err
	}

	return s, 4 + size, nil
}

// ParseBlob decodes a blob at the start of src. The returned slice aliases src.
func ParseBlob(src []byte, engine endian.EndianEngine) ([]byte, int, error) {
	size, err := ParseLength(src, 1, engine)
	if err != nil {
		return nil, 0, err
	}

	return src[4 : 4+size : 4+size], 4 + size, nil
}
