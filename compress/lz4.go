package compress

import (
	"io"

	"github.com/pierrec/lz4/v4"
)

// LZ4Compressor compresses with LZ4 frames. Decompression is the fastest of
// the built-in codecs.
type LZ4Compressor struct{}

var _ Codec = LZ4Compressor{}

// NewLZ4Compressor returns an LZ4 codec.
func NewLZ4Compressor() LZ4Compressor {
	return LZ4Compressor{}
}

// NewWriter opens an LZ4 frame on w with a content checksum.
func (LZ4Compressor) NewWriter(w io.Writer) (io.WriteCloser, error) {
	zw := lz4.NewWriter(w)
	if err := zw.Apply(lz4.ChecksumOption(true), lz4.ConcurrencyOption(1)); err != nil {
		return nil, err
	}

	return guard(zw), nil
}

// NewReader decodes LZ4 frames from r.
func (LZ4Compressor) NewReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(lz4.NewReader(r)), nil
}
