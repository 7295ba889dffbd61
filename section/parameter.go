package section

import (
	"fmt"
	"strings"

	"github.com/arloliu/genfile/encoding"
	"github.com/arloliu/genfile/endian"
	"github.com/arloliu/genfile/errs"
	"github.com/arloliu/genfile/format"
	"github.com/arloliu/genfile/internal/binio"
)

// Parameter is a named, typed value attached to a generic data header or a dataset header.
type Parameter struct {
	// Value holds the typed value: int8, uint8, int16, uint16, int32, uint32, float32 or string.
	Value any
	Name  string
	// Reserved is the blob width in bytes reserved for text values, 0 for an exact fit.
	// Reserving space allows the value to be replaced in place later.
	//
	// A parsed text parameter always carries the stored blob width here, so a
	// parameter written with Reserved 0 reads back with Reserved == ValueSize().
	// Both forms serialize to the same bytes.
	Reserved int
	Type     format.ColumnType
}

// NewParameter creates a parameter whose type tag follows the Go type of value.
// Strings become 16-bit text.
func NewParameter(name string, value any) (Parameter, error) {
	t, ok := encoding.TypeFor(value)
	if !ok {
		return Parameter{}, fmt.Errorf("%w: parameter %q has Go type %T", errs.ErrUnsupportedType, name, value)
	}

	return Parameter{Name: name, Value: value, Type: t}, nil
}

// NewTextParameter creates a 16-bit text parameter reserving room for maxLen code units.
// A maxLen of 0 stores the text exactly.
func NewTextParameter(name, value string, maxLen int) Parameter {
	return Parameter{Name: name, Value: value, Type: format.TypeUnicode, Reserved: 2 * maxLen}
}

// NewASCIIParameter creates an 8-bit text parameter reserving room for maxLen bytes.
func NewASCIIParameter(name, value string, maxLen int) Parameter {
	return Parameter{Name: name, Value: value, Type: format.TypeASCII, Reserved: maxLen}
}

// MIMEType returns the MIME type stored with the parameter.
func (p Parameter) MIMEType() string {
	return p.Type.MIMEType()
}

// ValueSize returns the size in bytes of the encoded value blob.
func (p Parameter) ValueSize() int {
	switch p.Type {
	case format.TypeASCII, format.TypeUnicode:
		s, _ := p.Value.(string)
		n := len(s)
		if p.Type == format.TypeUnicode {
			n = 2 * encoding.String16Len(s)
		}

		return max(n, p.Reserved)
	default:
		return encoding.NumericParameterSize
	}
}

// Size returns the encoded size of the whole parameter.
func (p Parameter) Size() int {
	return encoding.String16Size(p.Name) + 4 + p.ValueSize() + encoding.String16Size(p.MIMEType())
}

// ValueOffset returns the offset of the value bytes relative to the start of the parameter.
func (p Parameter) ValueOffset() int {
	return encoding.String16Size(p.Name) + 4
}

// EncodeValue returns the encoded value blob.
func (p Parameter) EncodeValue(engine endian.EndianEngine) ([]byte, error) {
	blob, _, err := encoding.EncodeParameterValue(p.Value, p.Type, p.Reserved, engine)
	if err != nil {
		return nil, fmt.Errorf("parameter %q: %w", p.Name, err)
	}

	return blob, nil
}

// AppendTo appends the encoded parameter to dst.
func (p Parameter) AppendTo(dst []byte, engine endian.EndianEngine) ([]byte, error) {
	blob, err := p.EncodeValue(engine)
	if err != nil {
		return dst, err
	}

	out, err := encoding.AppendString16(dst, p.Name, engine)
	if err != nil {
		return dst, err
	}
	out = encoding.AppendBlob(out, blob, engine)

	return encoding.AppendString16(out, p.MIMEType(), engine)
}

// String formats the parameter as name=value.
func (p Parameter) String() string {
	return fmt.Sprintf("%s=%v", p.Name, p.Value)
}

// ParseParameter reads one parameter at the cursor position.
//
// Text values keep their stored blob width as the reserved width so that the
// parameter serializes back to identical bytes.
func ParseParameter(c *binio.Cursor) (Parameter, error) {
	name, err := c.String16()
	if err != nil {
		return Parameter{}, err
	}

	blob, err := c.Blob()
	if err != nil {
		return Parameter{}, err
	}

	mime, err := c.String16()
	if err != nil {
		return Parameter{}, err
	}

	value, t, err := encoding.DecodeParameterValue(blob, mime, c.Engine())
	if err != nil {
		return Parameter{}, fmt.Errorf("%w: parameter %q: %w", errs.ErrCorrupt, name, err)
	}

	p := Parameter{Name: name, Value: value, Type: t}
	if t.IsText() {
		p.Reserved = len(blob)
	}

	return p, nil
}

// Parameters is an ordered parameter list. Duplicate names are allowed;
// lookups return the first match.
type Parameters []Parameter

// Find returns the first parameter named name.
func (ps Parameters) Find(name string) (Parameter, bool) {
	if i := ps.index(name); i >= 0 {
		return ps[i], true
	}

	return Parameter{}, false
}

// FindWithPrefix returns every parameter whose name starts with prefix, in insertion order.
func (ps Parameters) FindWithPrefix(prefix string) []Parameter {
	var out []Parameter
	for _, p := range ps {
		if strings.HasPrefix(p.Name, prefix) {
			out = append(out, p)
		}
	}

	return out
}

// Add appends p without checking for duplicates.
func (ps *Parameters) Add(p Parameter) {
	*ps = append(*ps, p)
}

// Set replaces the first parameter with the same name or appends p.
func (ps *Parameters) Set(p Parameter) {
	if i := ps.index(p.Name); i >= 0 {
		(*ps)[i] = p
		return
	}
	*ps = append(*ps, p)
}

// Size returns the encoded size of the list, count field included.
func (ps Parameters) Size() int {
	n := 4
	for _, p := range ps {
		n += p.Size()
	}

	return n
}

// ValuePos returns the offset of the named parameter's value bytes relative to
// the start of the list's count field, and the current value blob size.
func (ps Parameters) ValuePos(name string) (int, int, bool) {
	off := 4
	for _, p := range ps {
		if p.Name == name {
			return off + p.ValueOffset(), p.ValueSize(), true
		}
		off += p.Size()
	}

	return 0, 0, false
}

// AppendTo appends the count field and every parameter to dst.
func (ps Parameters) AppendTo(dst []byte, engine endian.EndianEngine) ([]byte, error) {
	out := engine.AppendUint32(dst, uint32(len(ps))) //nolint:gosec
	for _, p := range ps {
		var err error
		if out, err = p.AppendTo(out, engine); err != nil {
			return dst, err
		}
	}

	return out, nil
}

// ParseParameters reads a count field and that many parameters.
func ParseParameters(c *binio.Cursor) (Parameters, error) {
	count, err := c.Uint32()
	if err != nil {
		return nil, err
	}

	// every parameter takes at least 12 bytes
	if int64(count)*12 > c.Size()-c.Pos() {
		return nil, fmt.Errorf("%w: %d parameters at offset %d exceed file", errs.ErrTruncatedFile, count, c.Pos()-4)
	}

	ps := make(Parameters, 0, count)
	for range count {
		p, err := ParseParameter(c)
		if err != nil {
			return nil, err
		}
		ps = append(ps, p)
	}

	return ps, nil
}

func (ps Parameters) index(name string) int {
	for i, p := range ps {
		if p.Name == name {
			return i
		}
	}

	return -1
}
