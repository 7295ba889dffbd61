package compress

import "io"

// NoOpCompressor passes data through unchanged. It backs the "none"
// compression choice of the dump tooling.
type NoOpCompressor struct{}

var _ Codec = NoOpCompressor{}

// NewNoOpCompressor returns the pass-through codec.
func NewNoOpCompressor() NoOpCompressor {
	return NoOpCompressor{}
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// NewWriter returns w with a no-op Close.
func (NoOpCompressor) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return guard(nopWriteCloser{w}), nil
}

// NewReader returns r with a no-op Close.
func (NoOpCompressor) NewReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(r), nil
}
