package compress

import (
	"github.com/arloliu/numpack/format"
)

// DefaultLevel is the compression level used when WithLevel is not given.
const DefaultLevel = 3

// CompressionStats provides detailed information about a compression session.
//
// This is useful for monitoring and tuning the choice of algorithm and level
// for a given numeric stream.
type CompressionStats struct {
	// Algorithm identifies the compression algorithm used
	Algorithm format.CompressionType

	// OriginalSize is the number of bytes accepted by Write
	OriginalSize int64

	// CompressedSize is the number of bytes handed to the downstream sink
	CompressedSize int64
}

// CompressionRatio returns the compression ratio (compressed size / original size).
//
// Values less than 1.0 indicate successful compression.
// Values equal to 1.0 indicate no compression benefit.
// Values greater than 1.0 indicate framing overhead, common for tiny streams.
//
// Returns:
//   - float64: Compression ratio (0.0 if original size is zero)
func (s CompressionStats) CompressionRatio() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return float64(s.CompressedSize) / float64(s.OriginalSize)
}

// SpaceSavings returns the space savings as a percentage.
//
// Higher values indicate better compression. The value is negative when the
// framing overhead exceeds the savings.
//
// Returns:
//   - float64: Space savings percentage
func (s CompressionStats) SpaceSavings() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return (1.0 - s.CompressionRatio()) * 100.0
}
