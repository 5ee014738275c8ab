// Package sink defines the destination capability consumed by the bit writer
// and the streaming compressor, together with its basic adapters.
//
// A Sink accepts raw byte blocks (Write), pushes any buffering it performs
// downstream (Flush), and marks the end of the current logical unit (Finish).
// Components that write into a Sink never own it: its lifetime must exceed
// theirs.
//
// Adapters:
//   - StreamSink: forwards to an io.Writer
//   - BufferSink: appends to a growable in-memory buffer
//   - FixedSink: copies into a caller-provided fixed-capacity slice and
//     fails with errs.ErrOverflow instead of growing
//   - ChecksumSink: forwards to another Sink while hashing every byte
package sink

import "io"

// Sink is the three-operation destination capability.
//
// Write follows io.Writer semantics, so every Sink can be handed to code that
// expects an io.Writer. Implementations must not retain p.
type Sink interface {
	io.Writer
	// Flush pushes any bytes buffered by the sink itself to the physical medium.
	Flush() error
	// Finish signals end of stream. The sink stays inert afterwards.
	Finish() error
}

// flusher is implemented by writers that buffer internally, such as bufio.Writer.
type flusher interface {
	Flush() error
}
