package encoding

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/genfile/endian"
	"github.com/arloliu/genfile/errs"
)

func TestString16Len(t *testing.T) {
	require.Equal(t, 0, String16Len(""))
	require.Equal(t, 5, String16Len("hello"))
	require.Equal(t, 2, String16Len("é€"))
	require.Equal(t, 2, String16Len("😀"), "astral code points use a surrogate pair")
}

func TestString8(t *testing.T) {
	engine := endian.Default()

	buf := AppendString8(nil, "abc", engine)
	require.Equal(t, []byte{0, 0, 0, 3, 'a', 'b', 'c'}, buf)
	require.Equal(t, len(buf), String8Size("abc"))

	s, n, err := ParseString8(append(buf, 0xFF), engine)
	require.NoError(t, err)
	require.Equal(t, "abc", s)
	require.Equal(t, 7, n)
}

func TestString16(t *testing.T) {
	engine := endian.Default()

	buf, err := AppendString16(nil, "Aé😀", engine)
	require.NoError(t, err)
	require.Equal(t, []byte{0, 0, 0, 4, 0x00, 'A', 0x00, 0xE9, 0xD8, 0x3D, 0xDE, 0x00}, buf)
	require.Equal(t, len(buf), String16Size("Aé😀"))

	s, n, err := ParseString16(buf, engine)
	require.NoError(t, err)
	require.Equal(t, "Aé😀", s)
	require.Equal(t, len(buf), n)

	empty, err := AppendString16(nil, "", engine)
	require.NoError(t, err)
	require.Equal(t, []byte{0, 0, 0, 0}, empty)
}

func TestBlob(t *testing.T) {
	engine := endian.Default()

	buf := AppendBlob(nil, []byte{9, 8, 7}, engine)
	b, n, err := ParseBlob(buf, engine)
	require.NoError(t, err)
	require.Equal(t, []byte{9, 8, 7}, b)
	require.Equal(t, 7, n)
}

func TestParseLength_Errors(t *testing.T) {
	engine := endian.Default()

	t.Run("short prefix", func(t *testing.T) {
		_, _, err := ParseString8([]byte{0, 0}, engine)
		require.ErrorIs(t, err, errs.ErrTruncatedBuffer)
	})

	t.Run("short body", func(t *testing.T) {
		_, _, err := ParseString8([]byte{0, 0, 0, 5, 'a'}, engine)
		require.ErrorIs(t, err, errs.ErrTruncatedBuffer)
	})

	t.Run("string16 counts code units", func(t *testing.T) {
		_, _, err := ParseString16([]byte{0, 0, 0, 2, 0, 'a', 0}, engine)
		require.ErrorIs(t, err, errs.ErrTruncatedBuffer)
	})

	t.Run("negative length", func(t *testing.T) {
		_, _, err := ParseBlob([]byte{0xFF, 0xFF, 0xFF, 0xFF}, engine)
		require.ErrorIs(t, err, errs.ErrCorrupt)
	})
}

func TestDecodeUTF16_OddLength(t *testing.T) {
	_, err := DecodeUTF16([]byte{0, 'a', 0})
	require.ErrorIs(t, err, errs.ErrTruncatedBuffer)
}
