package container

import (
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/arloliu/genfile/encoding"
	"github.com/arloliu/genfile/endian"
	"github.com/arloliu/genfile/errs"
	"github.com/arloliu/genfile/internal/pool"
	"github.com/arloliu/genfile/section"
)

// NewDataSet is a dataset to append: its header and one typed slice per column.
type NewDataSet struct {
	Header  *section.DataSetHeader
	Columns Columns
}

// Updater modifies an existing file in place without rewriting it.
//
// Appends always go to the end of the file: the predecessor's offset field is
// patched to point at the new entry, the owning count is bumped, then the new
// header and payload are written with a next offset of 0. These steps are not
// atomic. A failure after a patch and before the new entry is fully written
// leaves the file inconsistent, and readers will report ErrTruncatedFile or
// ErrCorrupt.
//
// Every operation re-reads the header from disk first, so earlier appends,
// including those of other processes, are always taken into account.
// An Updater is not safe for concurrent use.
type Updater struct {
	file   *os.File
	cfg    *config
	logger *zap.Logger
	path   string
	engine endian.EndianEngine
}

// NewUpdater opens the file at path for in-place updates.
func NewUpdater(path string, opts ...Option) (*Updater, error) {
	cfg, err := buildConfig(opts)
	if err != nil {
		return nil, err
	}

	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", errs.ErrFileNotFound, path)
		}

		return nil, errs.IO("open", err)
	}

	return &Updater{
		file:   f,
		cfg:    cfg,
		logger: cfg.logger.With(zap.String("path", path)),
		path:   path,
		engine: endian.Default(),
	}, nil
}

// Close flushes and closes the file.
func (u *Updater) Close() error {
	if u.file == nil {
		return nil
	}

	var err error
	if u.cfg.sync {
		err = errs.IO("sync", u.file.Sync())
	}
	if cerr := u.file.Close(); cerr != nil && err == nil {
		err = errs.IO("close", cerr)
	}
	u.file = nil

	return err
}

// locate reads the current on-disk header and the end of file.
func (u *Updater) locate() (*section.FileHeader, int64, error) {
	if u.file == nil {
		return nil, 0, errs.ErrDataSetNotOpen
	}

	st, err := u.file.Stat()
	if err != nil {
		return nil, 0, errs.IO("stat", err)
	}

	h, err := readHeader(u.file, st.Size(), u.logger)
	if err != nil {
		return nil, 0, err
	}

	engine, err := endian.ForVersion(h.Version)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", errs.ErrInvalidFileType, err)
	}
	u.engine = engine

	u.logger.Debug("located end of file", zap.Int64("eof", st.Size()), zap.Int("groups", len(h.Groups)))

	return h, st.Size(), nil
}

func (u *Updater) patch(pos int64, value uint32, field PatchField) error {
	var b [4]byte
	u.engine.PutUint32(b[:], value)
	if _, err := u.file.WriteAt(b[:], pos); err != nil {
		return errs.IO("patch "+field.String(), err)
	}

	u.logger.Debug("patched field", zap.Stringer("field", field), zap.Int64("pos", pos), zap.Uint32("value", value))

	return nil
}

func (u *Updater) writeAt(b []byte, pos int64) error {
	if _, err := u.file.WriteAt(b, pos); err != nil {
		return errs.IO("write", err)
	}

	return nil
}

// AppendDataSets appends sets to the named group, creating the group at the
// end of the file when it does not exist. Existing bytes are never moved;
// only offset and count fields are patched.
//
// All sets are validated before the file is touched.
func (u *Updater) AppendDataSets(group string, sets ...NewDataSet) error {
	for _, s := range sets {
		if s.Header == nil {
			return fmt.Errorf("%w: data set without header", errs.ErrCorrupt)
		}
		if err := validateColumns(s.Header, s.Columns); err != nil {
			return err
		}
	}

	h, eof, err := u.locate()
	if err != nil {
		return err
	}

	g, ok := h.FindDataGroup(group)
	if !ok {
		if g, eof, err = u.appendGroup(h, group, eof); err != nil {
			return err
		}
	}

	for _, s := range sets {
		if eof, err = u.appendDataSet(g, s, eof); err != nil {
			return err
		}
	}

	return nil
}

func (u *Updater) appendGroup(h *section.FileHeader, name string, eof int64) (*section.DataGroupHeader, int64, error) {
	if err := checkOffset(eof); err != nil {
		return nil, eof, err
	}

	g := section.NewDataGroupHeader(name)
	g.Offset = uint32(eof) //nolint:gosec

	u.logger.Debug("creating group", zap.String("group", name), zap.Int64("offset", eof))

	if n := len(h.Groups); n > 0 {
		last := h.Groups[n-1]
		if err := u.patch(last.NextFieldPos(), g.Offset, FieldGroupNext); err != nil {
			return nil, eof, err
		}
		last.NextOffset = g.Offset
	} else {
		if err := u.patch(section.FirstGroupPos, g.Offset, FieldFirstGroup); err != nil {
			return nil, eof, err
		}
		h.FirstGroupOffset = g.Offset
	}

	if err := u.patch(section.GroupCountPos, uint32(len(h.Groups)+1), FieldGroupCount); err != nil { //nolint:gosec
		return nil, eof, err
	}

	hb := pool.GetHeaderBuffer()
	defer pool.PutHeaderBuffer(hb)

	var err error
	if hb.B, err = g.AppendTo(hb.B, u.engine); err != nil {
		return nil, eof, err
	}
	if err := u.writeAt(hb.Bytes(), eof); err != nil {
		return nil, eof, err
	}
	h.Groups = append(h.Groups, g)

	return g, eof + int64(hb.Len()), nil
}

func (u *Updater) appendDataSet(g *section.DataGroupHeader, s NewDataSet, eof int64) (int64, error) {
	if err := checkOffset(eof); err != nil {
		return eof, err
	}

	ds := s.Header
	ds.Offset = uint32(eof) //nolint:gosec
	ds.DataStartOffset = ds.Offset + uint32(ds.HeaderSize()) //nolint:gosec
	ds.NextOffset = 0
	if err := checkOffset(ds.End()); err != nil {
		return eof, err
	}

	u.logger.Debug("appending data set",
		zap.String("group", g.Name),
		zap.String("data_set", ds.Name),
		zap.Int64("offset", eof),
		zap.Int("rows", ds.Rows))

	if n := len(g.DataSets); n > 0 {
		last := g.DataSets[n-1]
		if err := u.patch(last.NextFieldPos(), ds.Offset, FieldDataSetNext); err != nil {
			return eof, err
		}
		last.NextOffset = ds.Offset
	} else {
		if err := u.patch(g.FirstDataSetFieldPos(), ds.Offset, FieldGroupFirstDataSet); err != nil {
			return eof, err
		}
		g.FirstDataSetOffset = ds.Offset
	}

	if err := u.patch(g.CountFieldPos(), uint32(len(g.DataSets)+1), FieldGroupDataSetCount); err != nil { //nolint:gosec
		return eof, err
	}

	hb := pool.GetHeaderBuffer()
	defer pool.PutHeaderBuffer(hb)

	var err error
	if hb.B, err = ds.AppendTo(hb.B, u.engine); err != nil {
		return eof, err
	}
	if err := u.writeAt(hb.Bytes(), eof); err != nil {
		return eof, err
	}

	w := io.NewOffsetWriter(u.file, int64(ds.DataStartOffset))
	if err := writePayload(w, ds, s.Columns, u.engine); err != nil {
		return eof, err
	}
	g.DataSets = append(g.DataSets, ds)

	return ds.End(), nil
}

// UpdateFileParameter overwrites the value of an existing generic data header
// parameter in place. The type must match and the new value must fit the
// stored value blob.
func (u *Updater) UpdateFileParameter(p section.Parameter) error {
	h, _, err := u.locate()
	if err != nil {
		return err
	}

	current, ok := h.Generic.FindParameter(p.Name)
	if !ok {
		return fmt.Errorf("%w: file parameter %q", errs.ErrParameterNotFound, p.Name)
	}

	off, size, _ := h.Generic.ParameterValuePos(p.Name)

	return u.overwriteParameter(current, p, section.GenericHeaderPos+int64(off), size)
}

// UpdateDataSetParameter overwrites the value of an existing dataset
// parameter in place.
func (u *Updater) UpdateDataSetParameter(group, set string, p section.Parameter) error {
	h, _, err := u.locate()
	if err != nil {
		return err
	}

	ds, err := h.FindDataSet(group, set)
	if err != nil {
		return err
	}

	current, ok := ds.FindParameter(p.Name)
	if !ok {
		return fmt.Errorf("%w: data set %q parameter %q", errs.ErrParameterNotFound, set, p.Name)
	}

	pos, size, _ := ds.ParameterValuePos(p.Name)

	return u.overwriteParameter(current, p, pos, size)
}

func (u *Updater) overwriteParameter(current, p section.Parameter, pos int64, size int) error {
	if current.Type != p.Type {
		return fmt.Errorf("%w: parameter %q is %s, not %s", errs.ErrUnsupportedType, p.Name, current.Type, p.Type)
	}

	reserved := 0
	if p.Type.IsText() {
		reserved = size
	}

	blob, _, err := encoding.EncodeParameterValue(p.Value, p.Type, reserved, u.engine)
	if err != nil {
		return fmt.Errorf("parameter %q: %w", p.Name, err)
	}
	if len(blob) != size {
		return fmt.Errorf("%w: parameter %q needs %d bytes, %d stored", errs.ErrValueTooLong, p.Name, len(blob), size)
	}

	u.logger.Debug("updating parameter", zap.String("name", p.Name), zap.Int64("pos", pos), zap.Int("size", size))

	return u.writeAt(blob, pos)
}

// UpdateCells overwrites existing cells of column col starting at startRow
// with values, a typed slice matching the column type. The dataset never grows.
func (u *Updater) UpdateCells(group, set string, col, startRow int, values any) error {
	h, _, err := u.locate()
	if err != nil {
		return err
	}

	ds, err := h.FindDataSet(group, set)
	if err != nil {
		return err
	}
	if col < 0 || col >= len(ds.Columns) {
		return fmt.Errorf("%w: column %d of %d in %q", errs.ErrIndexOutOfBounds, col, len(ds.Columns), set)
	}

	c := ds.Columns[col]
	n, ok := encoding.ColumnLen(values)
	if !ok {
		return fmt.Errorf("%w: %T", errs.ErrUnsupportedType, values)
	}
	if startRow < 0 || startRow+n > ds.Rows {
		return fmt.Errorf("%w: rows [%d, %d) of %d in %q", errs.ErrIndexOutOfBounds, startRow, startRow+n, ds.Rows, set)
	}
	if n == 0 {
		return nil
	}

	pb := pool.GetPayloadBuffer()
	defer pool.PutPayloadBuffer(pb)

	if pb.B, err = encoding.AppendColumn(pb.B, values, c.Type, c.Width, u.engine); err != nil {
		return fmt.Errorf("data set %q column %q: %w", set, c.Name, err)
	}

	pos := int64(ds.DataStartOffset) + ds.CellOffset(startRow, col)
	u.logger.Debug("updating cells",
		zap.String("data_set", set),
		zap.Int("column", col),
		zap.Int("start_row", startRow),
		zap.Int("rows", n))

	return u.writeAt(pb.Bytes(), pos)
}
