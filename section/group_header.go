package section

import (
	"fmt"

	"github.com/arloliu/genfile/encoding"
	"github.com/arloliu/genfile/endian"
	"github.com/arloliu/genfile/internal/binio"
)

// DataGroupHeader is a named group of datasets.
type DataGroupHeader struct {
	Name     string
	DataSets []*DataSetHeader

	// Offset is the position of this header in the file, 0 until read or written.
	Offset uint32
	// NextOffset is the position of the next group, 0 for the last one.
	NextOffset uint32
	// FirstDataSetOffset is the position of the first dataset, 0 when the group is empty.
	FirstDataSetOffset uint32
}

// NewDataGroupHeader creates an empty group.
func NewDataGroupHeader(name string) *DataGroupHeader {
	return &DataGroupHeader{Name: name}
}

// AddDataSet appends a dataset to the group.
func (g *DataGroupHeader) AddDataSet(ds *DataSetHeader) {
	g.DataSets = append(g.DataSets, ds)
}

// DataSetCount returns the number of datasets in the group.
func (g *DataGroupHeader) DataSetCount() int {
	return len(g.DataSets)
}

// FindDataSet returns the first dataset named name, scanning in chain order.
func (g *DataGroupHeader) FindDataSet(name string) (*DataSetHeader, bool) {
	for _, ds := range g.DataSets {
		if ds.Name == name {
			return ds, true
		}
	}

	return nil, false
}

// DataSetIndex returns the chain index of the first dataset named name, or -1.
func (g *DataGroupHeader) DataSetIndex(name string) int {
	for i, ds := range g.DataSets {
		if ds.Name == name {
			return i
		}
	}

	return -1
}

// HeaderSize returns the encoded size of the group header alone.
func (g *DataGroupHeader) HeaderSize() int {
	return groupFixedSize + encoding.String16Size(g.Name)
}

// NextFieldPos returns the absolute position of the next group field.
func (g *DataGroupHeader) NextFieldPos() int64 {
	return int64(g.Offset) + GroupNextField
}

// FirstDataSetFieldPos returns the absolute position of the first dataset field.
func (g *DataGroupHeader) FirstDataSetFieldPos() int64 {
	return int64(g.Offset) + GroupFirstDataSetField
}

// CountFieldPos returns the absolute position of the dataset count field.
func (g *DataGroupHeader) CountFieldPos() int64 {
	return int64(g.Offset) + GroupDataSetCountField
}

// AppendTo appends the encoded group header with its current offset fields to dst.
func (g *DataGroupHeader) AppendTo(dst []byte, engine endian.EndianEngine) ([]byte, error) {
	out := engine.AppendUint32(dst, g.NextOffset)
	out = engine.AppendUint32(out, g.FirstDataSetOffset)
	out = engine.AppendUint32(out, uint32(len(g.DataSets))) //nolint:gosec

	return encoding.AppendString16(out, g.Name, engine)
}

// ParseDataGroupHeader reads a group header at the cursor position. It returns
// the group with no datasets and the declared dataset count.
func ParseDataGroupHeader(c *binio.Cursor) (*DataGroupHeader, uint32, error) {
	g := &DataGroupHeader{Offset: uint32(c.Pos())} //nolint:gosec

	var err error
	if g.NextOffset, err = c.Uint32(); err != nil {
		return nil, 0, err
	}
	if g.FirstDataSetOffset, err = c.Uint32(); err != nil {
		return nil, 0, err
	}

	count, err := c.Uint32()
	if err != nil {
		return nil, 0, err
	}

	if g.Name, err = c.String16(); err != nil {
		return nil, 0, err
	}

	return g, count, nil
}

func (g *DataGroupHeader) String() string {
	return fmt.Sprintf("%s (%d data sets)", g.Name, len(g.DataSets))
}
