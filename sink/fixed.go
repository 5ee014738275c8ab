package sink

import (
	"fmt"

	"github.com/arloliu/numpack/errs"
)

// FixedSink copies blocks into a caller-provided slice of fixed capacity.
//
// A write that does not fit in the remaining capacity fails with
// errs.ErrOverflow and copies nothing.
type FixedSink struct {
	dst       []byte
	pos       int
	finalSize int
	finished  bool
}

var _ Sink = (*FixedSink)(nil)

// NewFixedSink creates a sink that fills dst[:len(dst)].
func NewFixedSink(dst []byte) *FixedSink {
	return &FixedSink{dst: dst, finalSize: -1}
}

// Write copies p into the remaining space.
func (s *FixedSink) Write(p []byte) (int, error) {
	if s.finished {
		return 0, errs.ErrSinkFinished
	}
	if len(p) > len(s.dst)-s.pos {
		return 0, fmt.Errorf("%w: write of %d bytes exceeds remaining capacity %d",
			errs.ErrOverflow, len(p), len(s.dst)-s.pos)
	}

	n := copy(s.dst[s.pos:], p)
	s.pos += n

	return n, nil
}

// Flush is a no-op.
func (s *FixedSink) Flush() error {
	return nil
}

// Finish records the final size and makes the sink reject further writes.
func (s *FixedSink) Finish() error {
	s.finished = true
	s.finalSize = s.pos

	return nil
}

// Size returns the number of bytes written so far.
func (s *FixedSink) Size() int {
	return s.pos
}

// Cap returns the total capacity.
func (s *FixedSink) Cap() int {
	return len(s.dst)
}

// FinalSize returns the size recorded by Finish, or -1 if Finish was not called.
func (s *FixedSink) FinalSize() int {
	return s.finalSize
}

// Bytes returns the written prefix of the destination slice.
func (s *FixedSink) Bytes() []byte {
	return s.dst[:s.pos]
}
