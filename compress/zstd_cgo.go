//go:build gozstd

package compress

import (
	"fmt"
	"io"

	"github.com/valyala/gozstd"
)

// newZstdEngine creates a Zstandard stream engine backed by the native
// library. The native writer is released together with the engine.
func newZstdEngine(level int) (*streamEngine, error) {
	if err := checkZstdLevel(level); err != nil {
		return nil, err
	}

	var zw *gozstd.Writer
	e, err := newStreamEngine(func(w io.Writer) (streamEncoder, error) {
		zw = gozstd.NewWriterLevel(w, level)
		return zw, nil
	})
	if err != nil {
		return nil, err
	}
	e.release = zw.Release

	return e, nil
}

// decompressZstd decodes a whole zstd frame.
func decompressZstd(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	decompressed, err := gozstd.Decompress(nil, data)
	if err != nil {
		return nil, fmt.Errorf("zstd decompression failed: %w", err)
	}

	return decompressed, nil
}

type gozstdReadCloser struct {
	*gozstd.Reader
}

func (r gozstdReadCloser) Close() error {
	r.Release()
	return nil
}

func newZstdReader(r io.Reader) (io.ReadCloser, error) {
	return gozstdReadCloser{gozstd.NewReader(r)}, nil
}
