package section

import (
	"fmt"
	"iter"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/language"

	"github.com/arloliu/genfile/encoding"
	"github.com/arloliu/genfile/endian"
	"github.com/arloliu/genfile/errs"
	"github.com/arloliu/genfile/internal/binio"
)

// GenericDataHeader identifies a file and records its provenance.
//
// The header names the file type and a unique file id, carries a parameter
// list, and embeds the generic data headers of the files it was derived from.
// Parents form a tree: each parent may itself have parents.
type GenericDataHeader struct {
	// FileTypeID identifies the kind of file, e.g. "affymetrix-calvin-intensity".
	FileTypeID string
	// FileID uniquely identifies this file.
	FileID string
	// CreationTime is the ISO-8601 creation timestamp as stored in the file.
	CreationTime string
	// Locale is a BCP 47 language tag.
	Locale string
	// Params holds the header parameters in file order.
	Params Parameters

	parents []*GenericDataHeader
}

// NewGenericDataHeader creates a header with a fresh file id, the current UTC
// time and the default locale.
func NewGenericDataHeader(fileTypeID string) *GenericDataHeader {
	return &GenericDataHeader{
		FileTypeID:   fileTypeID,
		FileID:       uuid.NewString(),
		CreationTime: time.Now().UTC().Format(CreationTimeFormat),
		Locale:       DefaultLocale,
	}
}

// SetLocale validates tag as a BCP 47 language tag and stores its canonical form.
func (h *GenericDataHeader) SetLocale(tag string) error {
	parsed, err := language.Parse(tag)
	if err != nil {
		return fmt.Errorf("%w: %q: %w", errs.ErrInvalidLocale, tag, err)
	}
	h.Locale = parsed.String()

	return nil
}

// LanguageTag parses the stored locale.
func (h *GenericDataHeader) LanguageTag() (language.Tag, error) {
	tag, err := language.Parse(h.Locale)
	if err != nil {
		return language.Und, fmt.Errorf("%w: %q: %w", errs.ErrInvalidLocale, h.Locale, err)
	}

	return tag, nil
}

// CreationTimeAsTime parses CreationTime. An empty creation time yields the zero time.
func (h *GenericDataHeader) CreationTimeAsTime() (time.Time, error) {
	if h.CreationTime == "" {
		return time.Time{}, nil
	}

	return time.Parse(time.RFC3339, h.CreationTime)
}

// FindParameter returns the first parameter named name.
func (h *GenericDataHeader) FindParameter(name string) (Parameter, bool) {
	return h.Params.Find(name)
}

// FindParametersWithPrefix returns the parameters whose names start with prefix.
func (h *GenericDataHeader) FindParametersWithPrefix(prefix string) []Parameter {
	return h.Params.FindWithPrefix(prefix)
}

// AddParameter appends p. Duplicate names are kept.
func (h *GenericDataHeader) AddParameter(p Parameter) {
	h.Params.Add(p)
}

// SetParameter replaces the first parameter named p.Name or appends p.
func (h *GenericDataHeader) SetParameter(p Parameter) {
	h.Params.Set(p)
}

// AddParent records parent as a direct ancestor of this header.
func (h *GenericDataHeader) AddParent(parent *GenericDataHeader) {
	h.parents = append(h.parents, parent)
}

// ParentCount returns the number of direct parents.
func (h *GenericDataHeader) ParentCount() int {
	return len(h.parents)
}

// Parents iterates over the direct parents in file order.
func (h *GenericDataHeader) Parents() iter.Seq[*GenericDataHeader] {
	return func(yield func(*GenericDataHeader) bool) {
		for _, p := range h.parents {
			if !yield(p) {
				return
			}
		}
	}
}

// WalkParents visits every ancestor depth first, in file order, with its depth
// (1 for direct parents). Walking stops when fn returns false.
func (h *GenericDataHeader) WalkParents(fn func(p *GenericDataHeader, depth int) bool) {
	h.walk(fn, 1)
}

func (h *GenericDataHeader) walk(fn func(*GenericDataHeader, int) bool, depth int) bool {
	for _, p := range h.parents {
		if !fn(p, depth) || !p.walk(fn, depth+1) {
			return false
		}
	}

	return true
}

// FindParent returns the first ancestor, depth first, whose file type id is fileTypeID.
func (h *GenericDataHeader) FindParent(fileTypeID string) (*GenericDataHeader, bool) {
	var found *GenericDataHeader
	h.WalkParents(func(p *GenericDataHeader, _ int) bool {
		if p.FileTypeID == fileTypeID {
			found = p
			return false
		}

		return true
	})

	return found, found != nil
}

// HeaderSize returns the encoded size of the header including all parents.
func (h *GenericDataHeader) HeaderSize() int {
	n := h.fixedSize() + h.Params.Size() + 4
	for _, p := range h.parents {
		n += p.HeaderSize()
	}

	return n
}

func (h *GenericDataHeader) fixedSize() int {
	return encoding.String8Size(h.FileTypeID) +
		encoding.String8Size(h.FileID) +
		encoding.String16Size(h.CreationTime) +
		encoding.String16Size(h.Locale)
}

// ParameterValuePos returns the offset of the named parameter's value bytes
// relative to the start of the header, and the size of the stored value.
func (h *GenericDataHeader) ParameterValuePos(name string) (int, int, bool) {
	off, size, ok := h.Params.ValuePos(name)
	if !ok {
		return 0, 0, false
	}

	return h.fixedSize() + off, size, true
}

// AppendTo appends the encoded header, parents included, to dst.
func (h *GenericDataHeader) AppendTo(dst []byte, engine endian.EndianEngine) ([]byte, error) {
	out := encoding.AppendString8(dst, h.FileTypeID, engine)
	out = encoding.AppendString8(out, h.FileID, engine)

	var err error
	if out, err = encoding.AppendString16(out, h.CreationTime, engine); err != nil {
		return dst, err
	}
	if out, err = encoding.AppendString16(out, h.Locale, engine); err != nil {
		return dst, err
	}
	if out, err = h.Params.AppendTo(out, engine); err != nil {
		return dst, err
	}

	out = engine.AppendUint32(out, uint32(len(h.parents))) //nolint:gosec
	for _, p := range h.parents {
		if out, err = p.AppendTo(out, engine); err != nil {
			return dst, err
		}
	}

	return out, nil
}

// ParseGenericDataHeader reads a generic data header and its parent tree at the cursor position.
func ParseGenericDataHeader(c *binio.Cursor) (*GenericDataHeader, error) {
	return parseGenericDataHeader(c, 0)
}

func parseGenericDataHeader(c *binio.Cursor, depth int) (*GenericDataHeader, error) {
	if depth > MaxParentDepth {
		return nil, fmt.Errorf("%w: parent headers nested deeper than %d", errs.ErrCorrupt, MaxParentDepth)
	}

	h := &GenericDataHeader{}
	var err error
	if h.FileTypeID, err = c.String8(); err != nil {
		return nil, err
	}
	if h.FileID, err = c.String8(); err != nil {
		return nil, err
	}
	if h.CreationTime, err = c.String16(); err != nil {
		return nil, err
	}
	if h.Locale, err = c.String16(); err != nil {
		return nil, err
	}
	if h.Params, err = ParseParameters(c); err != nil {
		return nil, err
	}

	count, err := c.Uint32()
	if err != nil {
		return nil, err
	}

	// an empty parent header takes 24 bytes
	if int64(count)*24 > c.Size()-c.Pos() {
		return nil, fmt.Errorf("%w: %d parent headers exceed file", errs.ErrTruncatedFile, count)
	}

	for range count {
		parent, err := parseGenericDataHeader(c, depth+1)
		if err != nil {
			return nil, err
		}
		h.parents = append(h.parents, parent)
	}

	return h, nil
}
