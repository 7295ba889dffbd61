package container

import (
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

// Sink is the destination of Write. Headers and payloads are streamed with
// Write; offset placeholders are patched afterwards with WriteAt.
type Sink interface {
	io.Writer
	io.WriterAt
}

// Columns holds the payload of one dataset: one typed slice per column
// ([]int8 ... []float32, or []string for text columns).
type Columns []any

// Payloads holds the payload of every dataset, indexed like the header's
// groups and datasets. Datasets with zero rows may be omitted.
type Payloads [][]Columns

// PatchField names the offset field a Patch fills in.
type PatchField uint8

const (
	FieldFirstGroup        PatchField = iota + 1 // file header first group offset
	FieldGroupNext                               // group next group offset
	FieldGroupFirstDataSet                       // group first dataset offset
	FieldGroupDataSetCount                       // group dataset count
	FieldGroupCount                              // file header group count
	FieldDataSetDataStart                        // dataset payload start offset
	FieldDataSetNext                             // dataset next dataset offset
)

func (f PatchField) String() string {
	switch f {
	case FieldFirstGroup:
		return "first-group"
	case FieldGroupNext:
		return "group-next"
	case FieldGroupFirstDataSet:
		return "group-first-data-set"
	case FieldGroupDataSetCount:
		return "group-data-set-count"
	case FieldGroupCount:
		return "group-count"
	case FieldDataSetDataStart:
		return "data-set-data-start"
	case FieldDataSetNext:
		return "data-set-next"
	default:
		return "unknown"
	}
}

// Patch is one 32-bit field overwritten in place after layout.
type Patch struct {
	Pos   int64
	Value uint32
	Field PatchField
}

// Plan records the placeholders written during layout and the values that
// replace them.
type Plan struct {
	patches []Patch
	size    int64
}

// Patches returns the recorded patches in application order.
func (p *Plan) Patches() []Patch {
	return p.patches
}

// Size returns the number of bytes written during layout.
func (p *Plan) Size() int64 {
	return p.size
}

func (p *Plan) add(pos int64, value uint32, field PatchField) {
	p.patches = append(p.patches, Patch{Pos: pos, Value: value, Field: field})
}

// Apply writes every patch with WriteAt.
func (p *Plan) Apply(w io.WriterAt, engine endian.EndianEngine) error {
	var b [4]byte
	for _, patch := range p.patches {
		engine.PutUint32(b[:], patch.Value)
		if _, err := w.WriteAt(b[:], patch.Pos); err != nil {
			return errs.IO("patch "+patch.Field.String(), err)
		}
	}

	return nil
}

// countingWriter tracks the absolute position of a sequential write stream.
type countingWriter struct {
	w   io.Writer
	pos int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.pos += int64(n)

	return n, err
}

// Write serializes h and payloads to dst, which must be empty and positioned at offset 0.
//
// Writing happens in two stages. Layout streams every header with zero offset
// placeholders, followed by its payload in columnar order, and records where
// each header landed. Finalize derives the real offsets from those positions
// and patches them in with WriteAt. On success the header model carries the
// final offsets and the returned Plan lists every patch applied.
//
// Partial output after an error is not a valid file.
func Write(dst Sink, h *section.FileHeader, payloads Payloads, opts ...Option) (*Plan, error) {
	cfg, err := buildConfig(opts)
	if err != nil {
		return nil, err
	}

	if err := validatePayloads(h, payloads); err != nil {
		return nil, err
	}

	engine, err := endian.ForVersion(h.Version)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrInvalidFileType, err)
	}

	plan := &Plan{}
	if err := layout(dst, h, payloads, engine, plan); err != nil {
		return nil, err
	}
	finalize(h, plan)

	if err := plan.Apply(dst, engine); err != nil {
		return nil, err
	}

	cfg.logger.Debug("wrote file",
		zap.Int("groups", len(h.Groups)),
		zap.Int("patches", len(plan.patches)),
		zap.Int64("size", plan.size))

	return plan, nil
}

// Create writes a new file at path, truncating any existing file.
func Create(path string, h *section.FileHeader, payloads Payloads, opts ...Option) (*Plan, error) {
	cfg, err := buildConfig(opts)
	if err != nil {
		return nil, err
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, errs.IO("create", err)
	}

	plan, err := Write(f, h, payloads, opts...)
	if err == nil && cfg.sync {
		err = errs.IO("sync", f.Sync())
	}
	if cerr := f.Close(); cerr != nil && err == nil {
		err = errs.IO("close", cerr)
	}
	if err != nil {
		return nil, err
	}

	return plan, nil
}

func payloadFor(payloads Payloads, gi, di int) Columns {
	if gi >= len(payloads) || di >= len(payloads[gi]) {
		return nil
	}

	return payloads[gi][di]
}

func validatePayloads(h *section.FileHeader, payloads Payloads) error {
	if h.Generic == nil {
		return fmt.Errorf("%w: missing generic data header", errs.ErrCorrupt)
	}
	if len(payloads) > len(h.Groups) {
		return fmt.Errorf("%w: %d payload groups for %d data groups", errs.ErrIndexOutOfBounds, len(payloads), len(h.Groups))
	}

	for gi, g := range h.Groups {
		if gi < len(payloads) && len(payloads[gi]) > len(g.DataSets) {
			return fmt.Errorf("%w: %d payloads for %d data sets in group %q",
				errs.ErrIndexOutOfBounds, len(payloads[gi]), len(g.DataSets), g.Name)
		}
		for di, ds := range g.DataSets {
			if err := validateColumns(ds, payloadFor(payloads, gi, di)); err != nil {
				return err
			}
		}
	}

	return nil
}

func validateColumns(ds *section.DataSetHeader, cols Columns) error {
	if err := ds.Validate(); err != nil {
		return err
	}

	if cols == nil {
		if ds.Rows == 0 {
			return nil
		}

		return fmt.Errorf("%w: data set %q has %d rows but no payload", errs.ErrIndexOutOfBounds, ds.Name, ds.Rows)
	}

	if len(cols) != len(ds.Columns) {
		return fmt.Errorf("%w: data set %q has %d columns, payload has %d",
			errs.ErrIndexOutOfBounds, ds.Name, len(ds.Columns), len(cols))
	}

	for i, c := range ds.Columns {
		n, ok := encoding.ColumnLen(cols[i])
		if !ok || !encoding.Compatible(cols[i], c.Type) {
			return fmt.Errorf("%w: data set %q column %q: %T for %s",
				errs.ErrUnsupportedType, ds.Name, c.Name, cols[i], c.Type)
		}
		if n != ds.Rows {
			return fmt.Errorf("%w: data set %q column %q has %d rows, want %d",
				errs.ErrIndexOutOfBounds, ds.Name, c.Name, n, ds.Rows)
		}
	}

	return nil
}

// layout streams headers with zero placeholders and payloads, recording the
// offset of every header in the model.
func layout(dst io.Writer, h *section.FileHeader, payloads Payloads, engine endian.EndianEngine, plan *Plan) error {
	cw := &countingWriter{w: dst}

	hb := pool.GetHeaderBuffer()
	defer pool.PutHeaderBuffer(hb)

	h.FirstGroupOffset = 0
	hb.B = h.AppendTo(hb.B, engine)

	var err error
	if hb.B, err = h.Generic.AppendTo(hb.B, engine); err != nil {
		return err
	}
	if err := flush(cw, hb); err != nil {
		return err
	}

	for gi, g := range h.Groups {
		if err := checkOffset(cw.pos); err != nil {
			return err
		}
		g.Offset = uint32(cw.pos) //nolint:gosec
		g.NextOffset = 0
		g.FirstDataSetOffset = 0
		if hb.B, err = g.AppendTo(hb.B, engine); err != nil {
			return err
		}
		if err := flush(cw, hb); err != nil {
			return err
		}

		for di, ds := range g.DataSets {
			if err := writeDataSet(cw, hb, ds, payloadFor(payloads, gi, di), engine); err != nil {
				return err
			}
		}
	}

	plan.size = cw.pos

	return checkOffset(cw.pos)
}

func writeDataSet(cw *countingWriter, hb *pool.ByteBuffer, ds *section.DataSetHeader, cols Columns, engine endian.EndianEngine) error {
	if err := checkOffset(cw.pos); err != nil {
		return err
	}
	ds.Offset = uint32(cw.pos) //nolint:gosec
	ds.DataStartOffset = 0
	ds.NextOffset = 0

	var err error
	if hb.B, err = ds.AppendTo(hb.B, engine); err != nil {
		return err
	}
	if err := flush(cw, hb); err != nil {
		return err
	}

	return writePayload(cw, ds, cols, engine)
}

func writePayload(w io.Writer, ds *section.DataSetHeader, cols Columns, engine endian.EndianEngine) error {
	if ds.Rows == 0 {
		return nil
	}

	pb := pool.GetPayloadBuffer()
	defer pool.PutPayloadBuffer(pb)

	for i, c := range ds.Columns {
		var err error
		if pb.B, err = encoding.AppendColumn(pb.B, cols[i], c.Type, c.Width, engine); err != nil {
			return fmt.Errorf("data set %q column %q: %w", ds.Name, c.Name, err)
		}
		if err := flush(w, pb); err != nil {
			return err
		}
	}

	return nil
}

func flush(w io.Writer, bb *pool.ByteBuffer) error {
	defer bb.Reset()
	if _, err := w.Write(bb.Bytes()); err != nil {
		return errs.IO("write", err)
	}

	return nil
}

func checkOffset(pos int64) error {
	if pos > section.MaxOffset {
		return fmt.Errorf("%w: offset %d exceeds the 32-bit offset range", errs.ErrValueTooLong, pos)
	}

	return nil
}

// finalize resolves every placeholder from the recorded header offsets.
// Zero placeholders that stay zero, the chain sentinels, are not patched.
func finalize(h *section.FileHeader, plan *Plan) {
	if len(h.Groups) > 0 {
		h.FirstGroupOffset = h.Groups[0].Offset
		plan.add(section.FirstGroupPos, h.FirstGroupOffset, FieldFirstGroup)
	}

	for gi, g := range h.Groups {
		if gi+1 < len(h.Groups) {
			g.NextOffset = h.Groups[gi+1].Offset
			plan.add(g.NextFieldPos(), g.NextOffset, FieldGroupNext)
		}
		if len(g.DataSets) > 0 {
			g.FirstDataSetOffset = g.DataSets[0].Offset
			plan.add(g.FirstDataSetFieldPos(), g.FirstDataSetOffset, FieldGroupFirstDataSet)
		}

		for di, ds := range g.DataSets {
			ds.DataStartOffset = ds.Offset + uint32(ds.HeaderSize()) //nolint:gosec
			plan.add(ds.DataStartFieldPos(), ds.DataStartOffset, FieldDataSetDataStart)

			if di+1 < len(g.DataSets) {
				ds.NextOffset = g.DataSets[di+1].Offset
				plan.add(ds.NextFieldPos(), ds.NextOffset, FieldDataSetNext)
			}
		}
	}
}
