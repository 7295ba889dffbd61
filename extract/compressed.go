package extract

import (
	"bufio"
	"errors"
	"io"

	"github.com/arloliu/genfile/compress"
	"github.com/arloliu/genfile/errs"
	"github.com/arloliu/genfile/format"
)

// CompressedWriter compresses everything written to it as a stream onto the
// underlying writer. Output is flushed block by block, so a dump never has
// to fit in memory.
//
// With format.CompressionNone the bytes are passed through unchanged.
type CompressedWriter struct {
	out    *countingWriter
	stream io.WriteCloser
	stats  compress.Stats
	closed bool
}

var _ io.WriteCloser = (*CompressedWriter)(nil)

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	if err != nil {
		return n, errs.IO("write compressed", err)
	}

	return n, nil
}

// NewCompressedWriter wraps w with a stream of the given compression.
func NewCompressedWriter(w io.Writer, compression format.CompressionType) (*CompressedWriter, error) {
	codec, err := compress.GetCodec(compression)
	if err != nil {
		return nil, err
	}

	out := &countingWriter{w: w}
	stream, err := codec.NewWriter(out)
	if err != nil {
		return nil, err
	}

	return &CompressedWriter{
		out:    out,
		stream: stream,
		stats:  compress.Stats{Algorithm: compression},
	}, nil
}

// Write compresses p.
func (cw *CompressedWriter) Write(p []byte) (int, error) {
	if cw.closed {
		return 0, compress.ErrStreamClosed
	}

	n, err := cw.stream.Write(p)
	cw.stats.OriginalSize += int64(n)

	return n, err
}

// Close finishes the stream. It does not close the underlying writer and may
// be called more than once.
func (cw *CompressedWriter) Close() error {
	if cw.closed {
		return nil
	}
	cw.closed = true

	err := cw.stream.Close()
	cw.stats.CompressedSize = cw.out.n

	return err
}

// Stats reports the bytes written so far; CompressedSize is final after Close.
func (cw *CompressedWriter) Stats() compress.Stats {
	s := cw.stats
	if !cw.closed {
		s.CompressedSize = cw.out.n
	}

	return s
}

// NewDecompressedReader detects the compression of r from its leading bytes
// and returns a reader of the decompressed stream. Input that is not a known
// stream is returned unchanged with format.CompressionNone. Closing the
// reader does not close r.
func NewDecompressedReader(r io.Reader) (io.ReadCloser, format.CompressionType, error) {
	br := bufio.NewReader(r)
	prefix, err := br.Peek(compress.DetectLen)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, 0, errs.IO("read", err)
	}

	ct := compress.Detect(prefix)
	codec, err := compress.GetCodec(ct)
	if err != nil {
		return nil, 0, err
	}

	zr, err := codec.NewReader(br)
	if err != nil {
		return nil, 0, err
	}

	return zr, ct, nil
}
