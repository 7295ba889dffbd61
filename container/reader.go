package container

import (
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/arloliu/genfile/endian"
	"github.com/arloliu/genfile/errs"
	"github.com/arloliu/genfile/internal/binio"
	"github.com/arloliu/genfile/section"
)

// minimum encoded sizes used to reject absurd counts before allocating
const (
	minGroupHeaderSize   = 16
	minDataSetHeaderSize = 24
)

// ReadHeader reads the complete header model of a generic data file without
// touching any dataset payload: the file header, the generic data header with
// its parent tree, every data group and every dataset header.
//
// Chains are walked by offset and checked as they are read. The group and
// dataset counts drive the walk; offsets must strictly increase along each
// chain and only the last element may carry a next offset of 0.
//
// Returns:
//   - *section.FileHeader: the header model with all offsets filled in
//   - error: ErrInvalidFileType, ErrTruncatedFile or ErrCorrupt. No partial
//     model is returned on error.
func ReadHeader(r io.ReaderAt, size int64) (*section.FileHeader, error) {
	return readHeader(r, size, zap.NewNop())
}

// ReadHeaderFile reads the header model of the file at path.
func ReadHeaderFile(path string) (*section.FileHeader, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", errs.ErrFileNotFound, path)
		}

		return nil, errs.IO("open", err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, errs.IO("stat", err)
	}

	return ReadHeader(f, st.Size())
}

func readHeader(r io.ReaderAt, size int64, logger *zap.Logger) (*section.FileHeader, error) {
	c := binio.NewCursor(r, size, endian.Default())

	h, groupCount, err := section.ParseFileHeader(c)
	if err != nil {
		return nil, err
	}

	if h.Generic, err = section.ParseGenericDataHeader(c); err != nil {
		return nil, err
	}

	if int64(groupCount)*minGroupHeaderSize > size {
		return nil, fmt.Errorf("%w: %d data groups in a file of %d bytes", errs.ErrTruncatedFile, groupCount, size)
	}

	prev := c.Pos() - 1
	pos := h.FirstGroupOffset
	h.Groups = make([]*section.DataGroupHeader, 0, groupCount)
	for i := range groupCount {
		if pos == 0 {
			return nil, fmt.Errorf("%w: group chain ends after %d of %d groups", errs.ErrCorrupt, i, groupCount)
		}
		if int64(pos) <= prev {
			return nil, fmt.Errorf("%w: group %d at offset %d does not follow offset %d", errs.ErrCorrupt, i, pos, prev)
		}
		if err := c.Seek(int64(pos)); err != nil {
			return nil, err
		}

		g, err := readGroup(c)
		if err != nil {
			return nil, err
		}
		h.Groups = append(h.Groups, g)

		prev = int64(pos)
		pos = g.NextOffset
	}
	if pos != 0 {
		return nil, fmt.Errorf("%w: last group points at offset %d", errs.ErrCorrupt, pos)
	}

	logger.Debug("read header",
		zap.String("file_type", h.Generic.FileTypeID),
		zap.Int("groups", len(h.Groups)),
		zap.Int64("size", size))

	return h, nil
}

func readGroup(c *binio.Cursor) (*section.DataGroupHeader, error) {
	g, count, err := section.ParseDataGroupHeader(c)
	if err != nil {
		return nil, err
	}

	if int64(count)*minDataSetHeaderSize > c.Size() {
		return nil, fmt.Errorf("%w: group %q declares %d data sets", errs.ErrTruncatedFile, g.Name, count)
	}

	prev := c.Pos() - 1
	pos := g.FirstDataSetOffset
	g.DataSets = make([]*section.DataSetHeader, 0, count)
	for i := range count {
		if pos == 0 {
			return nil, fmt.Errorf("%w: group %q data set chain ends after %d of %d", errs.ErrCorrupt, g.Name, i, count)
		}
		if int64(pos) <= prev {
			return nil, fmt.Errorf("%w: group %q data set %d at offset %d does not follow offset %d", errs.ErrCorrupt, g.Name, i, pos, prev)
		}
		if err := c.Seek(int64(pos)); err != nil {
			return nil, err
		}

		ds, err := section.ParseDataSetHeader(c)
		if err != nil {
			return nil, err
		}
		g.DataSets = append(g.DataSets, ds)

		prev = int64(pos)
		pos = ds.NextOffset
	}
	if pos != 0 {
		return nil, fmt.Errorf("%w: last data set of group %q points at offset %d", errs.ErrCorrupt, g.Name, pos)
	}

	return g, nil
}
