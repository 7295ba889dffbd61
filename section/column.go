package section

import (
	"fmt"

	"github.com/arloliu/genfile/encoding"
	"github.com/arloliu/genfile/endian"
	"github.com/arloliu/genfile/errs"
	"github.com/arloliu/genfile/format"
	"github.com/arloliu/genfile/internal/binio"
)

// ColumnInfo describes one dataset column.
type ColumnInfo struct {
	Name  string
	Width int // declared cell width in bytes
	Type  format.ColumnType
}

// NewColumnInfo creates a column description. maxLen is the character capacity
// of text columns and is ignored for numeric columns.
func NewColumnInfo(name string, t format.ColumnType, maxLen int) ColumnInfo {
	width := t.FixedSize()
	if t.IsText() {
		width = encoding.TextWidth(t, maxLen)
	}

	return ColumnInfo{Name: name, Type: t, Width: width}
}

// MaxChars returns the character capacity of a text column.
func (c ColumnInfo) MaxChars() int {
	return encoding.MaxChars(c.Type, c.Width)
}

// Validate checks the declared width against the type tag.
func (c ColumnInfo) Validate() error {
	if err := encoding.CheckWidth(c.Type, c.Width); err != nil {
		return fmt.Errorf("column %q: %w", c.Name, err)
	}

	return nil
}

func (c ColumnInfo) size() int {
	return encoding.String16Size(c.Name) + 1 + 4
}

func (c ColumnInfo) appendTo(dst []byte, engine endian.EndianEngine) ([]byte, error) {
	out, err := encoding.AppendString16(dst, c.Name, engine)
	if err != nil {
		return dst, err
	}
	out = append(out, byte(c.Type))

	return engine.AppendUint32(out, uint32(c.Width)), nil //nolint:gosec
}

func parseColumnInfo(c *binio.Cursor) (ColumnInfo, error) {
	name, err := c.String16()
	if err != nil {
		return ColumnInfo{}, err
	}

	tag, err := c.Uint8()
	if err != nil {
		return ColumnInfo{}, err
	}

	width, err := c.Int32()
	if err != nil {
		return ColumnInfo{}, err
	}

	col := ColumnInfo{Name: name, Type: format.ColumnType(tag), Width: int(width)}
	if err := col.Validate(); err != nil {
		return ColumnInfo{}, fmt.Errorf("%w: %w", errs.ErrCorrupt, err)
	}

	return col, nil
}
