package section

import (
	"bytes"

	"github.com/arloliu/genfile/endian"
	"github.com/arloliu/genfile/internal/binio"
)

func cursorOf(b []byte) *binio.Cursor {
	return binio.NewCursor(bytes.NewReader(b), int64(len(b)), endian.Default())
}
