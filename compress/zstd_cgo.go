//go:build cgo && gozstd

package compress

import (
	"io"

	"github.com/valyala/gozstd"
)

const gozstdLevel = 3

// ZstdCompressor compresses with Zstandard through libzstd.
type ZstdCompressor struct{}

var _ Codec = ZstdCompressor{}

// NewZstdCompressor returns a Zstd codec with the default level.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}

type gozstdWriter struct {
	zw *gozstd.Writer
}

func (g *gozstdWriter) Write(p []byte) (int, error) {
	return g.zw.Write(p)
}

// Close ends the frame and frees the libzstd context.
func (g *gozstdWriter) Close() error {
	err := g.zw.Close()
	g.zw.Release()

	return err
}

type gozstdReader struct {
	zr *gozstd.Reader
}

func (g *gozstdReader) Read(p []byte) (int, error) {
	return g.zr.Read(p)
}

func (g *gozstdReader) Close() error {
	g.zr.Release()
	return nil
}

// NewWriter opens a Zstandard frame on w.
func (ZstdCompressor) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return guard(&gozstdWriter{zw: gozstd.NewWriterLevel(w, gozstdLevel)}), nil
}

// NewReader decodes Zstandard frames from r.
func (ZstdCompressor) NewReader(r io.Reader) (io.ReadCloser, error) {
	return &gozstdReader{zr: gozstd.NewReader(r)}, nil
}
