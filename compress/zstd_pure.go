//go:build !(cgo && gozstd)

package compress

import (
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// ZstdCompressor compresses with Zstandard. It gives the best ratio of the
// built-in codecs and suits archived dumps.
//
// The pure Go implementation is used unless the module is built with cgo and
// the gozstd build tag, which switches to the libzstd binding.
type ZstdCompressor struct{}

var _ Codec = ZstdCompressor{}

// NewZstdCompressor returns a Zstd codec with the default level.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}

// Encoders are pooled and reset onto each destination; they run allocation
// free after warmup.
var zstdEncoderPool = sync.Pool{
	New: func() any {
		encoder, err := zstd.NewWriter(nil,
			zstd.WithEncoderLevel(zstd.SpeedDefault),
			zstd.WithEncoderCRC(true),
			zstd.WithEncoderConcurrency(1),
		)
		if err != nil {
			panic(fmt.Sprintf("failed to create zstd encoder for pool: %v", err))
		}

		return encoder
	},
}

type zstdWriter struct {
	enc *zstd.Encoder
}

func (z *zstdWriter) Write(p []byte) (int, error) {
	return z.enc.Write(p)
}

// Close ends the frame and returns the encoder to the pool.
func (z *zstdWriter) Close() error {
	err := z.enc.Close()
	z.enc.Reset(nil)
	zstdEncoderPool.Put(z.enc)
	z.enc = nil

	return err
}

// NewWriter opens a Zstandard frame on w.
func (ZstdCompressor) NewWriter(w io.Writer) (io.WriteCloser, error) {
	enc, _ := zstdEncoderPool.Get().(*zstd.Encoder)
	enc.Reset(w)

	return guard(&zstdWriter{enc: enc}), nil
}

// NewReader decodes Zstandard frames from r. Frame checksums are verified.
func (ZstdCompressor) NewReader(r io.Reader) (io.ReadCloser, error) {
	dec, err := zstd.NewReader(r,
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderLowmem(false),
	)
	if err != nil {
		return nil, fmt.Errorf("zstd reader: %w", err)
	}

	return dec.IOReadCloser(), nil
}
