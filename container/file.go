package container

import (
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/arloliu/genfile/errs"
	"github.com/arloliu/genfile/internal/collision"
	"github.com/arloliu/genfile/section"
)

var fileSeq atomic.Uint64

// File is an opened generic data file: its header model bound to a byte source.
//
// A File is safe for concurrent use. Dataset views read through the file's
// source under a read lock; Close and Reload take the write lock, so a mapping
// is never released while a view is reading it.
type File struct {
	header *section.FileHeader
	src    source
	eager  map[*section.DataSetHeader][]byte
	names  *collision.Index
	cfg    *config
	logger *zap.Logger
	path   string
	data   []byte
	id     uint64
	gen    uint64
	mu     sync.RWMutex
	closed bool
}

// DataSetRef identifies a dataset of a specific File generation. Refs are
// cheap to copy and stay valid until the file is reloaded.
type DataSetRef struct {
	file  uint64
	gen   uint64
	group int
	index int
}

// Group returns the group index of the referenced dataset.
func (r DataSetRef) Group() int {
	return r.group
}

// Index returns the index of the referenced dataset within its group.
func (r DataSetRef) Index() int {
	return r.index
}

// Open reads the header of the file at path and keeps the file open for dataset access.
//
// By default payloads are read lazily with positioned reads. WithMmap maps the
// file read-only instead; WithEagerLoad reads every payload at open time.
func Open(path string, opts ...Option) (*File, error) {
	cfg, err := buildConfig(opts)
	if err != nil {
		return nil, err
	}

	f := &File{cfg: cfg, logger: cfg.logger, path: path, id: fileSeq.Add(1)}
	if err := f.load(); err != nil {
		return nil, err
	}

	return f, nil
}

// OpenBytes parses a generic data file held in memory. data must not be
// modified while the File is in use.
func OpenBytes(data []byte, opts ...Option) (*File, error) {
	cfg, err := buildConfig(opts)
	if err != nil {
		return nil, err
	}

	f := &File{cfg: cfg, logger: cfg.logger, data: data, id: fileSeq.Add(1)}
	if err := f.load(); err != nil {
		return nil, err
	}

	return f, nil
}

// FromHeader wraps a header model that has no payload source. Header queries
// work; dataset access returns ErrDataSetNotOpen.
func FromHeader(h *section.FileHeader) *File {
	cfg, _ := buildConfig(nil)

	return &File{header: h, cfg: cfg, logger: cfg.logger, id: fileSeq.Add(1)}
}

// load opens the source and parses the header. The caller holds the write lock
// or owns f exclusively.
func (f *File) load() error {
	var src source
	if f.path != "" {
		var err error
		if src, err = openSource(f.path, f.cfg.mmap); err != nil {
			return err
		}
	} else {
		src = &memSource{data: f.data}
	}

	h, err := readHeader(src, src.Size(), f.logger)
	if err != nil {
		_ = src.Close()
		return err
	}

	var eager map[*section.DataSetHeader][]byte
	if f.cfg.eager {
		if eager, err = loadPayloads(src, h); err != nil {
			_ = src.Close()
			return err
		}
	}

	f.header = h
	f.src = src
	f.eager = eager
	f.names = indexNames(h)
	f.gen++

	f.logger.Debug("opened file",
		zap.String("path", f.path),
		zap.Uint64("generation", f.gen),
		zap.Int("data_sets", f.names.Count()),
		zap.Bool("mmap", f.cfg.mmap),
		zap.Bool("eager", f.cfg.eager))

	return nil
}

func loadPayloads(src source, h *section.FileHeader) (map[*section.DataSetHeader][]byte, error) {
	out := make(map[*section.DataSetHeader][]byte)
	for _, g := range h.Groups {
		for _, ds := range g.DataSets {
			if err := checkRegion(src, ds); err != nil {
				return nil, err
			}

			buf := make([]byte, ds.PayloadSize())
			if _, err := src.ReadAt(buf, int64(ds.DataStartOffset)); err != nil && len(buf) > 0 {
				return nil, errs.IO("read payload", err)
			}
			out[ds] = buf
		}
	}

	return out, nil
}

func checkRegion(src source, ds *section.DataSetHeader) error {
	if ds.End() > src.Size() {
		return fmt.Errorf("%w: data set %q payload ends at %d, file has %d bytes",
			errs.ErrTruncatedFile, ds.Name, ds.End(), src.Size())
	}

	return nil
}

// Header returns the header model. It must be treated as read-only.
func (f *File) Header() *section.FileHeader {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return f.header
}

// Path returns the path the file was opened from, or "" for in-memory files.
func (f *File) Path() string {
	return f.path
}

// Reload re-reads the header and reopens the source, typically after an
// Updater appended to the file. Refs and views created before the reload
// become stale.
func (f *File) Reload() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed || f.src == nil {
		return errs.ErrDataSetNotOpen
	}

	old := f.src
	f.src = nil
	if err := old.Close(); err != nil {
		return errs.IO("close", err)
	}

	if err := f.load(); err != nil {
		f.closed = true
		return err
	}

	return nil
}

// Close releases the source. Views of a closed file return ErrDataSetNotOpen.
func (f *File) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil
	}
	f.closed = true
	f.eager = nil

	if f.src == nil {
		return nil
	}

	err := f.src.Close()
	f.src = nil
	if err != nil {
		return errs.IO("close", err)
	}

	return nil
}

// DataSet opens a view on the named dataset of the named group.
func (f *File) DataSet(group, name string) (*DataSetView, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if err := f.usable(); err != nil {
		return nil, err
	}

	loc, ok := f.names.Lookup(group, name)
	if !ok {
		if f.header.GroupIndex(group) < 0 {
			return nil, fmt.Errorf("%w: data set %q in missing group %q", errs.ErrDataSetNotFound, name, group)
		}

		return nil, fmt.Errorf("%w: %q in group %q", errs.ErrDataSetNotFound, name, group)
	}

	return f.view(loc.Group, loc.DataSet)
}

// indexNames indexes the datasets of the first group of each name, so lookups
// resolve like a scan in chain order.
func indexNames(h *section.FileHeader) *collision.Index {
	n := 0
	for _, g := range h.Groups {
		n += len(g.DataSets)
	}

	x := collision.NewIndex(n)
	for gi, g := range h.Groups {
		if h.GroupIndex(g.Name) != gi {
			continue
		}
		for di, ds := range g.DataSets {
			x.Track(g.Name, ds.Name, collision.Location{Group: gi, DataSet: di})
		}
	}

	return x
}

// DataSetAt opens a view on dataset di of group gi.
func (f *File) DataSetAt(gi, di int) (*DataSetView, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if err := f.usable(); err != nil {
		return nil, err
	}
	if gi < 0 || gi >= len(f.header.Groups) || di < 0 || di >= len(f.header.Groups[gi].DataSets) {
		return nil, fmt.Errorf("%w: data set %d of group %d", errs.ErrDataSetNotFound, di, gi)
	}

	return f.view(gi, di)
}

// Ref returns a reference to dataset di of group gi for the current generation.
func (f *File) Ref(gi, di int) DataSetRef {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return DataSetRef{file: f.id, gen: f.gen, group: gi, index: di}
}

// OpenRef opens the dataset named by ref. Refs from another File or from an
// earlier generation are ErrDataSetNotFound.
func (f *File) OpenRef(ref DataSetRef) (*DataSetView, error) {
	f.mu.RLock()
	gen := f.gen
	f.mu.RUnlock()

	if ref.file != f.id || ref.gen != gen {
		return nil, fmt.Errorf("%w: stale data set reference", errs.ErrDataSetNotFound)
	}

	v, err := f.DataSetAt(ref.group, ref.index)
	if err != nil {
		return nil, err
	}
	if v.gen != ref.gen {
		return nil, fmt.Errorf("%w: stale data set reference", errs.ErrDataSetNotFound)
	}

	return v, nil
}

func (f *File) usable() error {
	if f.closed || f.src == nil {
		return errs.ErrDataSetNotOpen
	}

	return nil
}

// view builds a view; the caller holds the read lock.
func (f *File) view(gi, di int) (*DataSetView, error) {
	ds := f.header.Groups[gi].DataSets[di]
	if err := checkRegion(f.src, ds); err != nil {
		return nil, err
	}

	return &DataSetView{file: f, header: ds, group: f.header.Groups[gi].Name, gen: f.gen}, nil
}
