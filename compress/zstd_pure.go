//go:build !gozstd

package compress

import (
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// zstdDecoderPool pools zstd decoders for reuse in Decompress.
// Decoders run without allocations after a warmup, so keeping them pays off.
var zstdDecoderPool = sync.Pool{
	New: func() any {
		decoder, err := zstd.NewReader(nil,
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderLowmem(false),
		)
		if err != nil {
			// This should never happen with valid options
			panic(fmt.Sprintf("failed to create zstd decoder for pool: %v", err))
		}

		return decoder
	},
}

// newZstdEngine creates a Zstandard stream engine.
//
// The zstd level is mapped to the closest klauspost encoder speed. Encoder
// concurrency is fixed at one, which makes stream compression synchronous.
// Zero frames are enabled so a session without input still ends with a
// complete, empty frame, as the native library produces.
func newZstdEngine(level int) (*streamEngine, error) {
	if err := checkZstdLevel(level); err != nil {
		return nil, err
	}

	return newStreamEngine(func(w io.Writer) (streamEncoder, error) {
		return zstd.NewWriter(w,
			zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)),
			zstd.WithEncoderConcurrency(1),
			zstd.WithZeroFrames(true),
		)
	})
}

// decompressZstd decodes a whole zstd frame with a pooled decoder.
func decompressZstd(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	decoder, _ := zstdDecoderPool.Get().(*zstd.Decoder)
	defer zstdDecoderPool.Put(decoder)

	// DecodeAll is stateless, so a failed call leaves the decoder reusable
	decompressed, err := decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decompression failed: %w", err)
	}

	return decompressed, nil
}

func newZstdReader(r io.Reader) (io.ReadCloser, error) {
	decoder, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, err
	}

	return decoder.IOReadCloser(), nil
}
