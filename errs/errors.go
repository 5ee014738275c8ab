// Package errs defines the sentinel errors returned by numpack packages.
//
// Callers should compare with errors.Is, since most errors are wrapped with
// additional context (for example the compression engine's own diagnostic).
package errs

import "errors"

// Sink errors.
var (
	// ErrOverflow is returned when a fixed-capacity sink cannot hold a write.
	ErrOverflow = errors.New("sink overflow")
	// ErrSinkFinished is returned when a sink is written after Finish.
	ErrSinkFinished = errors.New("sink already finished")
)

// Bitstream errors.
var (
	// ErrUnderflow is returned when a reader runs out of bytes before a request is satisfied.
	ErrUnderflow = errors.New("bitstream underflow")
	// ErrMalformedVarint is returned when a varint continuation chain exceeds 64 bits.
	ErrMalformedVarint = errors.New("malformed varint")
)

// Compression errors.
var (
	// ErrContextInit is returned when a compression engine cannot be created or configured.
	ErrContextInit = errors.New("compression context initialization failed")
	// ErrEncoder is returned when a compression engine fails while compressing.
	ErrEncoder = errors.New("compression encoder error")
	// ErrStreamFinished is returned when a compressor is used after Finish.
	ErrStreamFinished = errors.New("compression stream already finished")
	// ErrUnsupportedCompression is returned for an unknown compression type.
	ErrUnsupportedCompression = errors.New("unsupported compression type")
)

// Configuration errors.
var (
	// ErrInvalidBufferSize is returned when a buffer size option is not positive.
	ErrInvalidBufferSize = errors.New("invalid buffer size")
	// ErrInvalidLevel is returned when a compression level is out of range for the algorithm.
	ErrInvalidLevel = errors.New("invalid compression level")
	// ErrNilSink is returned when a component is constructed without a destination.
	ErrNilSink = errors.New("nil sink")
)
