// Package binio provides a buffered, byte-order aware read cursor over an
// io.ReaderAt. Header parsing walks the file through a Cursor so that short
// reads surface as ErrTruncatedFile instead of io errors.
package binio

import (
	"errors"
	"fmt"
	"io"

	"github.com/arloliu/genfile/encoding"
	"github.com/arloliu/genfile/endian"
	"github.com/arloliu/genfile/errs"
)

// DefaultWindowSize is the number of bytes fetched per underlying ReadAt call.
const DefaultWindowSize = 4096

// Cursor reads primitives sequentially from an io.ReaderAt of known size.
//
// The cursor keeps one read-ahead window. Slices returned by Bytes are only
// valid until the next call on the cursor. A Cursor is not safe for concurrent use.
type Cursor struct {
	r      io.ReaderAt
	engine endian.EndianEngine
	window []byte
	winPos int64
	pos    int64
	size   int64
}

// NewCursor creates a cursor positioned at offset 0.
func NewCursor(r io.ReaderAt, size int64, engine endian.EndianEngine) *Cursor {
	return &Cursor{
		r:      r,
		size:   size,
		engine: engine,
		window: make([]byte, 0, DefaultWindowSize),
	}
}

// Engine returns the byte order used for multi-byte values.
func (c *Cursor) Engine() endian.EndianEngine {
	return c.engine
}

// SetEngine switches the byte order, typically after the version byte is known.
func (c *Cursor) SetEngine(engine endian.EndianEngine) {
	c.engine = engine
}

// Pos returns the absolute offset of the next byte to read.
func (c *Cursor) Pos() int64 {
	return c.pos
}

// Size returns the size of the underlying source.
func (c *Cursor) Size() int64 {
	return c.size
}

// Seek moves the cursor to an absolute offset. Offsets past the end of the
// source are ErrTruncatedFile.
func (c *Cursor) Seek(pos int64) error {
	if pos < 0 || pos > c.size {
		return fmt.Errorf("%w: offset %d outside file of %d bytes", errs.ErrTruncatedFile, pos, c.size)
	}
	c.pos = pos

	return nil
}

// Bytes returns the next n bytes and advances the cursor.
func (c *Cursor) Bytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative length %d", errs.ErrCorrupt, n)
	}
	if c.size-c.pos < int64(n) {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, file has %d", errs.ErrTruncatedFile, n, c.pos, c.size)
	}

	winEnd := c.winPos + int64(len(c.window))
	if c.pos < c.winPos || c.pos+int64(n) > winEnd {
		if err := c.fill(n); err != nil {
			return nil, err
		}
	}

	off := int(c.pos - c.winPos)
	c.pos += int64(n)

	return c.window[off : off+n : off+n], nil
}

func (c *Cursor) fill(n int) error {
	want := max(n, DefaultWindowSize)
	if rest := c.size - c.pos; int64(want) > rest {
		want = int(rest)
	}
	if cap(c.window) < want {
		c.window = make([]byte, want)
	}
	c.window = c.window[:want]

	got, err := c.r.ReadAt(c.window, c.pos)
	if got < n {
		c.window = c.window[:0]
		if err == nil || errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: short read at offset %d", errs.ErrTruncatedFile, c.pos)
		}

		return errs.IO("read", err)
	}

	c.window = c.window[:got]
	c.winPos = c.pos

	return nil
}

// Skip advances the cursor by n bytes.
func (c *Cursor) Skip(n int64) error {
	return c.Seek(c.pos + n)
}

// Uint8 reads one byte.
func (c *Cursor) Uint8() (uint8, error) {
	b, err := c.Bytes(1)
	if err != nil {
		return 0, err
	}

	return b[0], nil
}

// Uint32 reads a 32-bit unsigned integer.
func (c *Cursor) Uint32() (uint32, error) {
	b, err := c.Bytes(4)
	if err != nil {
		return 0, err
	}

	return c.engine.Uint32(b), nil
}

// Int32 reads a 32-bit signed integer.
func (c *Cursor) Int32() (int32, error) {
	v, err := c.Uint32()

	return int32(v), err //nolint:gosec
}

// Length reads an i32 length prefix counting elements of unit bytes and
// returns the payload size in bytes. Negative lengths are ErrCorrupt.
func (c *Cursor) Length(unit int) (int, error) {
	n, err := c.Int32()
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: negative length %d at offset %d", errs.ErrCorrupt, n, c.pos-4)
	}

	size := int64(n) * int64(unit)
	if size > c.size-c.pos {
		return 0, fmt.Errorf("%w: length %d at offset %d exceeds file", errs.ErrTruncatedFile, n, c.pos-4)
	}

	return int(size), nil
}

// String8 reads an i32 byte length followed by that many bytes.
func (c *Cursor) String8() (string, error) {
	size, err := c.Length(1)
	if err != nil {
		return "", err
	}

	b, err := c.Bytes(size)
	if err != nil {
		return "", err
	}

	return string(b), nil
}

// String16 reads an i32 code-unit length followed by UTF-16BE code units.
func (c *Cursor) String16() (string, error) {
	size, err := c.Length(2)
	if err != nil {
		return "", err
	}

	b, err := c.Bytes(size)
	if err != nil {
		return "", err
	}

	return encoding.DecodeUTF16(b)
}

// Blob reads an i32 byte length followed by the bytes. The result is a copy.
func (c *Cursor) Blob() ([]byte, error) {
	size, err := c.Length(1)
	if err != nil {
		return nil, err
	}

	b, err := c.Bytes(size)
	if err != nil {
		return nil, err
	}

	return append([]byte(nil), b...), nil
}
