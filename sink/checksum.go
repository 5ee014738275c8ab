package sink

import (
	"github.com/cespare/xxhash/v2"
)

// ChecksumSink forwards every block to another Sink and keeps an xxHash64
// digest of the bytes that were accepted downstream.
//
// Nothing is added to the stream. The digest is meant to be stored or compared
// out of band, e.g. next to a compressed frame.
type ChecksumSink struct {
	next   Sink
	digest *xxhash.Digest
	n      int64
}

var _ Sink = (*ChecksumSink)(nil)

// NewChecksumSink wraps next.
func NewChecksumSink(next Sink) *ChecksumSink {
	return &ChecksumSink{next: next, digest: xxhash.New()}
}

// Write forwards p and hashes the bytes the downstream sink accepted.
func (s *ChecksumSink) Write(p []byte) (int, error) {
	n, err := s.next.Write(p)
	if n > 0 {
		_, _ = s.digest.Write(p[:n])
		s.n += int64(n)
	}

	return n, err
}

// Flush forwards to the wrapped sink.
func (s *ChecksumSink) Flush() error {
	return s.next.Flush()
}

// Finish forwards to the wrapped sink.
func (s *ChecksumSink) Finish() error {
	return s.next.Finish()
}

// Sum64 returns the xxHash64 of all bytes forwarded so far.
func (s *ChecksumSink) Sum64() uint64 {
	return s.digest.Sum64()
}

// Count returns the number of bytes forwarded so far.
func (s *ChecksumSink) Count() int64 {
	return s.n
}
