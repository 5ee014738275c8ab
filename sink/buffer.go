package sink

import (
	"github.com/arloliu/numpack/internal/pool"
)

// BufferSink appends every block to a growable in-memory buffer.
//
// The buffer comes from an internal pool. Call Release once the bytes returned
// by Bytes are no longer referenced to hand the memory back.
type BufferSink struct {
	buf      *pool.ByteBuffer
	finished bool
}

var _ Sink = (*BufferSink)(nil)

// NewBufferSink creates an empty growable sink.
func NewBufferSink() *BufferSink {
	return &BufferSink{buf: pool.GetSinkBuffer()}
}

// Write appends p to the buffer. It never fails before Release.
func (s *BufferSink) Write(p []byte) (int, error) {
	if s.buf == nil {
		panic("buffer sink already released")
	}

	return s.buf.Write(p)
}

// Flush is a no-op; the buffer is the physical medium.
func (s *BufferSink) Flush() error {
	return nil
}

// Finish marks the sink finished.
func (s *BufferSink) Finish() error {
	s.finished = true
	return nil
}

// Finished reports whether Finish has been called.
func (s *BufferSink) Finished() bool {
	return s.finished
}

// Bytes returns the accumulated bytes. The slice aliases the internal buffer
// and is valid until the next Write, Reset or Release.
func (s *BufferSink) Bytes() []byte {
	if s.buf == nil {
		return nil
	}

	return s.buf.Bytes()
}

// Len returns the number of accumulated bytes.
func (s *BufferSink) Len() int {
	if s.buf == nil {
		return 0
	}

	return s.buf.Len()
}

// Reset discards the accumulated bytes and clears the finished flag.
func (s *BufferSink) Reset() {
	if s.buf != nil {
		s.buf.Reset()
	}
	s.finished = false
}

// Release returns the internal buffer to the pool. The sink is unusable afterwards.
func (s *BufferSink) Release() {
	if s.buf == nil {
		return
	}

	pool.PutSinkBuffer(s.buf)
	s.buf = nil
}
