package compress

import (
	"io"

	"github.com/klauspost/compress/s2"
)

// S2Compressor compresses with S2, trading ratio for speed.
type S2Compressor struct{}

var _ Codec = S2Compressor{}

// NewS2Compressor returns an S2 codec.
func NewS2Compressor() S2Compressor {
	return S2Compressor{}
}

// NewWriter opens an S2 stream on w. Blocks are compressed as they fill.
func (S2Compressor) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return guard(s2.NewWriter(w, s2.WriterConcurrency(1))), nil
}

// NewReader decodes an S2 stream from r. CRCs of every block are checked.
func (S2Compressor) NewReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(s2.NewReader(r)), nil
}
