package container

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/edsrzf/mmap-go"

	"github.com/arloliu/genfile/errs"
)

// source is the byte source behind a File.
type source interface {
	io.ReaderAt
	Size() int64
	// Slice returns [off, off+n) without copying when the source is memory resident.
	Slice(off int64, n int) ([]byte, bool)
	Close() error
}

type memSource struct {
	data []byte
}

func (s *memSource) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off >= int64(len(s.data)) {
		return 0, io.EOF
	}

	n := copy(p, s.data[off:])
	if n < len(p) {
		return n, io.EOF
	}

	return n, nil
}

func (s *memSource) Size() int64 {
	return int64(len(s.data))
}

func (s *memSource) Slice(off int64, n int) ([]byte, bool) {
	return s.data[off : off+int64(n) : off+int64(n)], true
}

func (s *memSource) Close() error {
	return nil
}

type fileSource struct {
	file *os.File
	size int64
}

func (s *fileSource) ReadAt(p []byte, off int64) (int, error) {
	return s.file.ReadAt(p, off)
}

func (s *fileSource) Size() int64 {
	return s.size
}

func (s *fileSource) Slice(int64, int) ([]byte, bool) {
	return nil, false
}

func (s *fileSource) Close() error {
	return s.file.Close()
}

type mmapSource struct {
	memSource
	file *os.File
	data mmap.MMap
}

func (s *mmapSource) Close() error {
	var errList []error
	if s.data != nil {
		errList = append(errList, s.data.Unmap())
	}
	errList = append(errList, s.file.Close())

	s.data = nil
	s.memSource.data = nil

	return errors.Join(errList...)
}

func openSource(path string, useMmap bool) (source, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", errs.ErrFileNotFound, path)
		}

		return nil, errs.IO("open", err)
	}

	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, errs.IO("stat", err)
	}

	// an empty file cannot be mapped; it fails header parsing either way
	if !useMmap || st.Size() == 0 {
		return &fileSource{file: f, size: st.Size()}, nil
	}

	data, err := mmap.MapRegion(f, int(st.Size()), mmap.RDONLY, 0, 0)
	if err != nil {
		_ = f.Close()
		return nil, errs.IO("mmap", err)
	}

	return &mmapSource{memSource: memSource{data: data}, file: f, data: data}, nil
}
