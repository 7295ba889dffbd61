package compress

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/arloliu/genfile/format"
)

// ErrStreamClosed is returned by Write after Close.
var ErrStreamClosed = errors.New("compressed stream is closed")

// Codec opens streaming writers and readers of one algorithm.
//
// Streams use each library's standard framing, so output can be read by the
// matching command line tools:
//   - Zstd: Zstandard frames with content checksum
//   - S2: S2 stream format, readable by the Snappy framing readers of s2
//   - LZ4: LZ4 frame format
//
// Closing a writer finishes the stream without closing the destination.
// Closing a reader releases decoder resources without closing the source.
// Codecs are safe for concurrent use; the streams they open are not.
type Codec interface {
	NewWriter(w io.Writer) (io.WriteCloser, error)
	NewReader(r io.Reader) (io.ReadCloser, error)
}

// Stats describes one compression run, for reporting by dump tooling.
type Stats struct {
	Algorithm      format.CompressionType
	OriginalSize   int64
	CompressedSize int64
}

// Ratio returns compressed size / original size, or 0 for empty input.
func (s Stats) Ratio() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return float64(s.CompressedSize) / float64(s.OriginalSize)
}

// SpaceSavings returns the saved space as a percentage.
func (s Stats) SpaceSavings() float64 {
	return (1.0 - s.Ratio()) * 100.0
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec returns the built-in codec for compressionType.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("unsupported compression type: %s", compressionType)
}

// ByName returns the built-in codec for a lower-case algorithm name
// ("none", "zstd", "s2", "lz4"), as accepted on the command line.
func ByName(name string) (Codec, format.CompressionType, error) {
	ct, ok := format.ParseCompressionType(name)
	if !ok {
		return nil, 0, fmt.Errorf("unknown compression %q", name)
	}

	codec, err := GetCodec(ct)
	if err != nil {
		return nil, 0, err
	}

	return codec, ct, nil
}

// Stream magics as written at offset 0 by each writer.
var (
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
	s2Magic   = []byte("\xff\x06\x00\x00S2sTwO")
)

// DetectLen is the number of leading bytes Detect needs.
const DetectLen = 10

// Detect identifies a compressed stream by its leading bytes. Anything
// unrecognized is CompressionNone.
func Detect(prefix []byte) format.CompressionType {
	switch {
	case bytes.HasPrefix(prefix, zstdMagic):
		return format.CompressionZstd
	case bytes.HasPrefix(prefix, lz4Magic):
		return format.CompressionLZ4
	case bytes.HasPrefix(prefix, s2Magic):
		return format.CompressionS2
	default:
		return format.CompressionNone
	}
}

// onceWriter makes Close idempotent and rejects writes after it. Some
// stream writers append a second end mark when closed twice.
type onceWriter struct {
	io.WriteCloser
	closed bool
}

func guard(wc io.WriteCloser) io.WriteCloser {
	return &onceWriter{WriteCloser: wc}
}

func (o *onceWriter) Write(p []byte) (int, error) {
	if o.closed {
		return 0, ErrStreamClosed
	}

	return o.WriteCloser.Write(p)
}

func (o *onceWriter) Close() error {
	if o.closed {
		return nil
	}
	o.closed = true

	return o.WriteCloser.Close()
}
