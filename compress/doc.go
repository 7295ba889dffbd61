// Package compress provides the streaming codecs used to compress extracted
// dataset dumps.
//
// Generic data files themselves are never compressed; these codecs only
// apply to text produced from them by the extract package and the genfile
// command.
//
// # Algorithms
//
//   - None: pass-through
//   - Zstd: best ratio, moderate speed
//   - S2: balanced
//   - LZ4: fastest decompression
//
// Every stream uses the standard framing of its library, so a dump written
// with zstd, s2 or lz4 can be read back by the zstd, s2d and lz4 tools.
// Zstd uses github.com/klauspost/compress/zstd by default. Building with cgo
// and the gozstd tag switches it to github.com/valyala/gozstd.
//
// # Usage
//
//	codec, _, err := compress.ByName("zstd")
//	if err != nil {
//	    return err
//	}
//	zw, err := codec.NewWriter(out)
//	if err != nil {
//	    return err
//	}
//	defer zw.Close()
//
// Detect recognizes a stream from its first DetectLen bytes.
package compress
