package dialect

import (
	"fmt"
	"slices"

	"github.com/arloliu/genfile/container"
	"github.com/arloliu/genfile/errs"
)

// Dialect is a typed interpretation of a generic data file of one file type.
type Dialect interface {
	// FileTypeID returns the file type id of the underlying file.
	FileTypeID() string
	// File returns the underlying container file.
	File() *container.File
	// Close closes the underlying file.
	Close() error
}

// Constructor binds an opened file to a dialect. It reports missing required
// groups or datasets as errors and leaves the file open.
type Constructor func(f *container.File) (Dialect, error)

// Entry associates a file type id with its constructor.
type Entry struct {
	FileTypeID string
	New        Constructor
}

// Registry dispatches opened files to dialects by file type id. Files with an
// unregistered type fall back to the Generic dialect.
//
// A Registry is immutable after NewRegistry and safe for concurrent use.
type Registry struct {
	constructors map[string]Constructor
	ids          []string
}

// NewRegistry builds a registry from entries. A later entry for the same
// file type id replaces an earlier one.
func NewRegistry(entries ...Entry) *Registry {
	r := &Registry{constructors: make(map[string]Constructor, len(entries))}
	for _, e := range entries {
		if _, ok := r.constructors[e.FileTypeID]; !ok {
			r.ids = append(r.ids, e.FileTypeID)
		}
		r.constructors[e.FileTypeID] = e.New
	}

	return r
}

// Default returns a registry with every built-in dialect.
func Default() *Registry {
	return NewRegistry(
		Entry{FileTypeID: IntensityFileTypeID, New: NewIntensity},
	)
}

// FileTypes returns the registered file type ids in registration order.
func (r *Registry) FileTypes() []string {
	return slices.Clone(r.ids)
}

// Bind interprets an opened file with the dialect registered for its file
// type id, or with Generic.
func (r *Registry) Bind(f *container.File) (Dialect, error) {
	id := f.Header().Generic.FileTypeID
	if ctor, ok := r.constructors[id]; ok {
		return ctor(f)
	}

	return NewGeneric(f)
}

// Open opens the file at path and binds it. The file is closed again when
// binding fails.
func (r *Registry) Open(path string, opts ...container.Option) (Dialect, error) {
	f, err := container.Open(path, opts...)
	if err != nil {
		return nil, err
	}

	d, err := r.Bind(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	return d, nil
}

// OpenAs opens the file at path and requires its file type id to be
// fileTypeID. A different type is ErrFileTypeMismatch.
func (r *Registry) OpenAs(path, fileTypeID string, opts ...container.Option) (Dialect, error) {
	f, err := container.Open(path, opts...)
	if err != nil {
		return nil, err
	}

	if got := f.Header().Generic.FileTypeID; got != fileTypeID {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %s is %q, not %q", errs.ErrFileTypeMismatch, path, got, fileTypeID)
	}

	d, err := r.Bind(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	return d, nil
}

// Generic exposes a file of any type through the container API only.
type Generic struct {
	file *container.File
}

var _ Dialect = (*Generic)(nil)

// NewGeneric binds f without any structural requirement.
func NewGeneric(f *container.File) (Dialect, error) {
	return &Generic{file: f}, nil
}

func (g *Generic) FileTypeID() string {
	return g.file.Header().Generic.FileTypeID
}

func (g *Generic) File() *container.File {
	return g.file
}

func (g *Generic) Close() error {
	return g.file.Close()
}
