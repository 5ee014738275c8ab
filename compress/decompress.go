package compress

import (
	"bytes"
	"fmt"
	"io"

	"github.com/arloliu/numpack/errs"
	"github.com/arloliu/numpack/format"
)

// NewReader returns a reader that decompresses a stream produced by a
// Compressor configured with the same algorithm.
//
// The stream may be read while it is still being produced: everything up to
// the last Flush of the compressor is decodable.
//
// Parameters:
//   - t: compression algorithm of the stream
//   - r: compressed input
//
// Returns:
//   - io.ReadCloser: decompressed output; Close releases decoder resources, never r
//   - error: errs.ErrUnsupportedCompression or a decoder construction error
func NewReader(t format.CompressionType, r io.Reader) (io.ReadCloser, error) {
	switch t {
	case format.CompressionNone:
		return io.NopCloser(r), nil
	case format.CompressionZstd:
		return newZstdReader(r)
	case format.CompressionS2:
		return newS2Reader(r), nil
	case format.CompressionLZ4:
		return newLZ4Reader(r), nil
	case format.CompressionSnappy:
		return newSnappyReader(r), nil
	default:
		return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedCompression, t)
	}
}

// Decompress decodes a complete compressed stream held in memory.
//
// For CompressionNone the input slice is returned as is, without copying.
func Decompress(t format.CompressionType, data []byte) ([]byte, error) {
	switch t {
	case format.CompressionNone:
		return data, nil
	case format.CompressionZstd:
		return decompressZstd(data)
	}

	rc, err := NewReader(t, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	out, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("%s decompression failed: %w", t, err)
	}

	return out, nil
}
