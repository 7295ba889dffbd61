package encoding

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/genfile/endian"
	"github.com/arloliu/genfile/errs"
	"github.com/arloliu/genfile/format"
)

func TestParameterValue_Numeric(t *testing.T) {
	engine := endian.Default()

	tests := []struct {
		name  string
		value any
		typ   format.ColumnType
		word  []byte
	}{
		{"int8 sign extended", int8(-1), format.TypeInt8, []byte{0xFF, 0xFF, 0xFF, 0xFF}},
		{"uint8", uint8(200), format.TypeUint8, []byte{0, 0, 0, 200}},
		{"int16", int16(-2), format.TypeInt16, []byte{0xFF, 0xFF, 0xFF, 0xFE}},
		{"uint16", uint16(0x1234), format.TypeUint16, []byte{0, 0, 0x12, 0x34}},
		{"int32", int32(7), format.TypeInt32, []byte{0, 0, 0, 7}},
		{"uint32", uint32(0xDEADBEEF), format.TypeUint32, []byte{0xDE, 0xAD, 0xBE, 0xEF}},
		{"float32", float32(1), format.TypeFloat32, []byte{0x3F, 0x80, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blob, mime, err := EncodeParameterValue(tt.value, tt.typ, 0, engine)
			require.NoError(t, err)
			require.Len(t, blob, NumericParameterSize)
			require.Equal(t, tt.word, blob[:4])
			require.Equal(t, make([]byte, 12), blob[4:])
			require.Equal(t, tt.typ.MIMEType(), mime)

			got, typ, err := DecodeParameterValue(blob, mime, engine)
			require.NoError(t, err)
			require.Equal(t, tt.typ, typ)
			require.Equal(t, tt.value, got)
		})
	}
}

func TestParameterValue_Text(t *testing.T) {
	engine := endian.Default()

	t.Run("unicode", func(t *testing.T) {
		blob, mime, err := EncodeParameterValue("ab", format.TypeUnicode, 0, engine)
		require.NoError(t, err)
		require.Equal(t, format.MIMEUnicode, mime)
		require.Equal(t, []byte{0, 'a', 0, 'b'}, blob)

		got, typ, err := DecodeParameterValue(blob, mime, engine)
		require.NoError(t, err)
		require.Equal(t, format.TypeUnicode, typ)
		require.Equal(t, "ab", got)
	})

	t.Run("ascii reserved", func(t *testing.T) {
		blob, mime, err := EncodeParameterValue("abc", format.TypeASCII, 8, engine)
		require.NoError(t, err)
		require.Equal(t, format.MIMEASCII, mime)
		require.Equal(t, []byte{'a', 'b', 'c', 0, 0, 0, 0, 0}, blob)

		got, _, err := DecodeParameterValue(blob, mime, engine)
		require.NoError(t, err)
		require.Equal(t, "abc", got)
	})

	t.Run("unicode reserved", func(t *testing.T) {
		blob, _, err := EncodeParameterValue("x", format.TypeUnicode, 6, engine)
		require.NoError(t, err)
		require.Equal(t, []byte{0, 'x', 0, 0, 0, 0}, blob)

		got, _, err := DecodeParameterValue(blob, format.MIMEUnicode, engine)
		require.NoError(t, err)
		require.Equal(t, "x", got)
	})

	t.Run("exceeds reserved", func(t *testing.T) {
		_, _, err := EncodeParameterValue("abcdef", format.TypeASCII, 4, engine)
		require.ErrorIs(t, err, errs.ErrValueTooLong)
	})
}

func TestParameterValue_Errors(t *testing.T) {
	engine := endian.Default()

	_, _, err := EncodeParameterValue("x", format.TypeInt32, 0, engine)
	require.ErrorIs(t, err, errs.ErrUnsupportedType)

	_, _, err = DecodeParameterValue([]byte{1}, "application/octet-stream", engine)
	require.ErrorIs(t, err, errs.ErrUnsupportedType)

	_, _, err = DecodeParameterValue([]byte{1, 2}, format.MIMEInt32, engine)
	require.ErrorIs(t, err, errs.ErrTruncatedBuffer)
}
