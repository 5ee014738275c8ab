package compress

import "io"

// passthroughEncoder copies input to its output unchanged.
type passthroughEncoder struct {
	w io.Writer
}

func (p passthroughEncoder) Write(b []byte) (int, error) {
	return p.w.Write(b)
}

func (p passthroughEncoder) Flush() error { return nil }

func (p passthroughEncoder) Close() error { return nil }

// newNoOpEngine creates an engine that forwards bytes without compressing them.
//
// It is useful as a baseline and for debugging a stream with a hex dump.
func newNoOpEngine() *streamEngine {
	e, _ := newStreamEngine(func(w io.Writer) (streamEncoder, error) {
		return passthroughEncoder{w: w}, nil
	})

	return e
}
