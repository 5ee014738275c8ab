package compress

import (
	"io"

	"github.com/golang/snappy"
)

// newSnappyEngine creates a Snappy framed-format engine. Snappy has no levels.
func newSnappyEngine() *streamEngine {
	e, _ := newStreamEngine(func(w io.Writer) (streamEncoder, error) {
		return snappy.NewBufferedWriter(w), nil
	})

	return e
}

func newSnappyReader(r io.Reader) io.ReadCloser {
	return io.NopCloser(snappy.NewReader(r))
}
