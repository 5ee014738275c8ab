// Package numpack provides a compact binary codec for numeric data streams.
//
// Integers are packed into a dense LSB-first bitstream with interchangeable
// variable-length encodings: plain varints, zero-flagged varints, zigzag
// signed varints, decimal-trailing-zero stripping, and base-relative variants
// of each. The produced bytes can be routed through a streaming compressor
// before reaching their destination.
//
// # Basic Usage
//
// Encoding a handful of fields into memory:
//
//	data, _ := numpack.Encode(func(w *bitstream.Writer) {
//	    w.PutVarZero(count)
//	    w.PutVarDecZeros(price)          // 1_500_000 costs 13 bits
//	    w.PutVarSignZero(delta)
//	}, numpack.WithCompression(format.CompressionZstd))
//
// Decoding reads the fields back in the same order:
//
//	r, _ := numpack.Decode(data, format.CompressionZstd)
//	count, _ := r.GetVar64Zero()
//	price, _ := r.GetVar64DecZeros()
//	delta, _ := r.GetVar64SignZero()
//
// The stream carries no header or schema; writer and reader must agree on the
// field sequence.
//
// # Package Structure
//
// This package provides convenient top-level wrappers. For streaming output,
// custom destinations or explicit flushing use the packages directly:
//
//   - bitstream: bit-level Writer and Reader
//   - compress: streaming Compressor and decompression
//   - sink: destinations (stream, growable buffer, fixed buffer, checksum)
//   - format: compression and encoding type identifiers
package numpack

import (
	"fmt"

	"github.com/arloliu/numpack/bitstream"
	"github.com/arloliu/numpack/compress"
	"github.com/arloliu/numpack/format"
	"github.com/arloliu/numpack/internal/options"
	"github.com/arloliu/numpack/sink"
)

type encodeConfig struct {
	compression format.CompressionType
	level       int
}

// EncodeOption configures Encode.
type EncodeOption = options.Option[*encodeConfig]

// WithCompression compresses the encoded stream. Default is no compression.
func WithCompression(t format.CompressionType) EncodeOption {
	return options.NoError(func(c *encodeConfig) {
		c.compression = t
	})
}

// WithCompressionLevel sets the compression level. Default is compress.DefaultLevel.
func WithCompressionLevel(level int) EncodeOption {
	return options.NoError(func(c *encodeConfig) {
		c.level = level
	})
}

// Encode runs fn against a fresh bitstream writer and returns the finished,
// optionally compressed, stream.
//
// Parameters:
//   - fn: writes the fields; it must not call Flush or Finish
//   - opts: WithCompression, WithCompressionLevel
//
// Returns:
//   - []byte: the encoded stream, owned by the caller
//   - error: compressor construction or encoding error
func Encode(fn func(w *bitstream.Writer), opts ...EncodeOption) ([]byte, error) {
	cfg := &encodeConfig{
		compression: format.CompressionNone,
		level:       compress.DefaultLevel,
	}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	buf := sink.NewBufferSink()
	defer buf.Release()

	var dst sink.Sink = buf
	if cfg.compression != format.CompressionNone {
		c, err := compress.NewCompressor(buf,
			compress.WithAlgorithm(cfg.compression),
			compress.WithLevel(cfg.level),
		)
		if err != nil {
			return nil, err
		}
		defer c.Close()
		dst = c
	}

	w, err := bitstream.NewWriter(dst)
	if err != nil {
		return nil, err
	}

	fn(w)
	if err := w.Finish(); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}

	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())

	return out, nil
}

// Decode decompresses data if needed and returns a reader positioned at its
// first bit.
//
// For format.CompressionNone the reader aliases data.
func Decode(data []byte, t format.CompressionType) (*bitstream.Reader, error) {
	raw, err := compress.Decompress(t, data)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	return bitstream.NewReader(raw), nil
}
