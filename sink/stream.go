package sink

import "io"

// StreamSink writes blocks to an io.Writer.
//
// Flush and Finish call the writer's Flush method when it has one
// (bufio.Writer, for example); otherwise they do nothing. The writer is never
// closed.
type StreamSink struct {
	w io.Writer
}

var _ Sink = (*StreamSink)(nil)

// NewStreamSink creates a sink that forwards to w.
func NewStreamSink(w io.Writer) *StreamSink {
	return &StreamSink{w: w}
}

// Write writes p to the underlying writer.
func (s *StreamSink) Write(p []byte) (int, error) {
	return s.w.Write(p)
}

// Flush flushes the underlying writer if it buffers.
func (s *StreamSink) Flush() error {
	if f, ok := s.w.(flusher); ok {
		return f.Flush()
	}

	return nil
}

// Finish flushes the underlying writer if it buffers.
func (s *StreamSink) Finish() error {
	return s.Flush()
}
