package section

import (
	"fmt"

	"github.com/arloliu/genfile/endian"
	"github.com/arloliu/genfile/errs"
	"github.com/arloliu/genfile/internal/binio"
)

// FileHeader is the root of the header model: the fixed file header, the
// generic data header and the chain of data groups.
type FileHeader struct {
	Generic *GenericDataHeader
	Groups  []*DataGroupHeader

	// FirstGroupOffset is the position of the first data group, 0 when there are none.
	FirstGroupOffset uint32
	Magic            uint8
	Version          uint8
}

// NewFileHeader creates a version 1 file header around generic.
func NewFileHeader(generic *GenericDataHeader) *FileHeader {
	return &FileHeader{Magic: Magic, Version: Version, Generic: generic}
}

// AddDataGroup appends a new empty group and returns it.
func (h *FileHeader) AddDataGroup(name string) *DataGroupHeader {
	g := NewDataGroupHeader(name)
	h.Groups = append(h.Groups, g)

	return g
}

// GroupCount returns the number of data groups.
func (h *FileHeader) GroupCount() int {
	return len(h.Groups)
}

// FindDataGroup returns the first group named name, scanning in chain order.
func (h *FileHeader) FindDataGroup(name string) (*DataGroupHeader, bool) {
	for _, g := range h.Groups {
		if g.Name == name {
			return g, true
		}
	}

	return nil, false
}

// GroupIndex returns the chain index of the first group named name, or -1.
func (h *FileHeader) GroupIndex(name string) int {
	for i, g := range h.Groups {
		if g.Name == name {
			return i
		}
	}

	return -1
}

// FindDataSet looks up a dataset by group and dataset name.
func (h *FileHeader) FindDataSet(group, name string) (*DataSetHeader, error) {
	g, ok := h.FindDataGroup(group)
	if !ok {
		return nil, fmt.Errorf("%w: %q", errs.ErrDataGroupNotFound, group)
	}

	ds, ok := g.FindDataSet(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q in group %q", errs.ErrDataSetNotFound, name, group)
	}

	return ds, nil
}

// HeaderEnd returns the offset just past the generic data header.
func (h *FileHeader) HeaderEnd() int64 {
	return FileHeaderSize + int64(h.Generic.HeaderSize())
}

// AppendTo appends the fixed 10-byte file header with its current offset fields to dst.
func (h *FileHeader) AppendTo(dst []byte, engine endian.EndianEngine) []byte {
	out := append(dst, h.Magic, h.Version)
	out = engine.AppendUint32(out, uint32(len(h.Groups))) //nolint:gosec

	return engine.AppendUint32(out, h.FirstGroupOffset)
}

// Validate checks the chain invariants of a header whose offsets were assigned
// by a read or a write:
//   - the first group offset points at the first group, or is 0 without groups
//   - group and dataset offsets strictly increase along each chain
//   - every next pointer names its successor and only the last one is 0
func (h *FileHeader) Validate() error {
	if h.Magic != Magic {
		return fmt.Errorf("%w: magic %d", errs.ErrInvalidFileType, h.Magic)
	}
	if _, err := endian.ForVersion(h.Version); err != nil {
		return fmt.Errorf("%w: %w", errs.ErrInvalidFileType, err)
	}
	if h.Generic == nil {
		return fmt.Errorf("%w: missing generic data header", errs.ErrCorrupt)
	}

	if len(h.Groups) == 0 {
		if h.FirstGroupOffset != 0 {
			return fmt.Errorf("%w: first group offset %d without groups", errs.ErrCorrupt, h.FirstGroupOffset)
		}

		return nil
	}
	if h.FirstGroupOffset != h.Groups[0].Offset {
		return fmt.Errorf("%w: first group offset %d, group at %d", errs.ErrCorrupt, h.FirstGroupOffset, h.Groups[0].Offset)
	}

	prev := h.HeaderEnd() - 1
	for i, g := range h.Groups {
		if int64(g.Offset) <= prev {
			return fmt.Errorf("%w: group %q at %d not after %d", errs.ErrCorrupt, g.Name, g.Offset, prev)
		}
		prev = int64(g.Offset)

		want := uint32(0)
		if i+1 < len(h.Groups) {
			want = h.Groups[i+1].Offset
		}
		if g.NextOffset != want {
			return fmt.Errorf("%w: group %q next %d, want %d", errs.ErrCorrupt, g.Name, g.NextOffset, want)
		}

		if err := g.validateChain(); err != nil {
			return err
		}
	}

	return nil
}

func (g *DataGroupHeader) validateChain() error {
	if len(g.DataSets) == 0 {
		if g.FirstDataSetOffset != 0 {
			return fmt.Errorf("%w: group %q first data set %d without data sets", errs.ErrCorrupt, g.Name, g.FirstDataSetOffset)
		}

		return nil
	}
	if g.FirstDataSetOffset != g.DataSets[0].Offset {
		return fmt.Errorf("%w: group %q first data set %d, data set at %d", errs.ErrCorrupt, g.Name, g.FirstDataSetOffset, g.DataSets[0].Offset)
	}

	prev := int64(g.Offset)
	for i, ds := range g.DataSets {
		if int64(ds.Offset) <= prev {
			return fmt.Errorf("%w: data set %q at %d not after %d", errs.ErrCorrupt, ds.Name, ds.Offset, prev)
		}
		prev = int64(ds.Offset)

		want := uint32(0)
		if i+1 < len(g.DataSets) {
			want = g.DataSets[i+1].Offset
		}
		if ds.NextOffset != want {
			return fmt.Errorf("%w: data set %q next %d, want %d", errs.ErrCorrupt, ds.Name, ds.NextOffset, want)
		}
		if err := ds.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// ParseFileHeader reads the fixed file header at offset 0 and switches the
// cursor to the byte order of the file version. It returns the declared group count.
func ParseFileHeader(c *binio.Cursor) (*FileHeader, uint32, error) {
	if err := c.Seek(0); err != nil {
		return nil, 0, err
	}

	b, err := c.Bytes(2)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", errs.ErrInvalidFileType, err)
	}

	h := &FileHeader{Magic: b[0], Version: b[1]}
	if h.Magic != Magic {
		return nil, 0, fmt.Errorf("%w: magic %d", errs.ErrInvalidFileType, h.Magic)
	}

	engine, err := endian.ForVersion(h.Version)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", errs.ErrInvalidFileType, err)
	}
	c.SetEngine(engine)

	count, err := c.Uint32()
	if err != nil {
		return nil, 0, err
	}
	if h.FirstGroupOffset, err = c.Uint32(); err != nil {
		return nil, 0, err
	}

	return h, count, nil
}
