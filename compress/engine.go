package compress

import (
	"errors"
	"fmt"
	"io"

	"github.com/arloliu/numpack/errs"
	"github.com/arloliu/numpack/format"
	"github.com/arloliu/numpack/internal/pool"
)

// Mode tells an Engine how much of its internal state to push out in a step.
type Mode uint8

const (
	// ModeContinue compresses input and emits whatever output is ready.
	ModeContinue Mode = iota
	// ModeFlush makes all input given so far decodable, keeping the stream open.
	ModeFlush
	// ModeEnd terminates the stream; no more input is accepted.
	ModeEnd
)

func (m Mode) String() string {
	switch m {
	case ModeContinue:
		return "continue"
	case ModeFlush:
		return "flush"
	case ModeEnd:
		return "end"
	default:
		return fmt.Sprintf("Mode(%d)", m)
	}
}

// Engine is a stateful streaming compressor driven one step at a time.
//
// Each Step consumes a prefix of src, writes at most len(dst) bytes of
// compressed output into dst, and reports how many output bytes are still
// pending inside the engine. Callers keep stepping with the unconsumed rest
// of src; calling Step with an empty src and the same mode drains the rest.
// A flush or end is only applied in the step that consumes the last of src.
//
// In ModeFlush the engine makes everything consumed so far decodable. In
// ModeEnd it terminates the stream; once remaining reaches zero the stream is
// complete. Both are idempotent: repeating them only drains pending output.
//
// Release frees the engine's resources. It is called exactly once by the
// owner; the engine must not be used afterwards.
type Engine interface {
	Step(dst, src []byte, mode Mode) (written, consumed, remaining int, err error)
	Release()
}

// NewEngine creates the streaming engine for a compression algorithm.
//
// Parameters:
//   - t: compression algorithm
//   - level: algorithm specific level; ignored by None and Snappy
//
// Returns:
//   - Engine: a fresh engine owning its own pending buffer
//   - error: errs.ErrUnsupportedCompression, errs.ErrInvalidLevel, or the library's construction error
func NewEngine(t format.CompressionType, level int) (Engine, error) {
	switch t {
	case format.CompressionNone:
		return newNoOpEngine(), nil
	case format.CompressionZstd:
		return newZstdEngine(level)
	case format.CompressionS2:
		return newS2Engine(level)
	case format.CompressionLZ4:
		return newLZ4Engine(level)
	case format.CompressionSnappy:
		return newSnappyEngine(), nil
	default:
		return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedCompression, t)
	}
}

// streamBlockSize is the block size requested from encoders that let the
// caller choose it. It bounds how much output one encoder write can produce.
const streamBlockSize = 64 * 1024

var errEngineEnded = errors.New("engine already ended")

// streamEncoder is the shape shared by the streaming writers of every
// supported compression library.
type streamEncoder interface {
	io.Writer
	Flush() error
	Close() error
}

// streamEngine adapts a streamEncoder to the Engine step protocol.
//
// The encoder writes into a pooled pending buffer; Step copies from it into
// the caller's dst and keeps track of what has not been drained yet.
type streamEngine struct {
	enc     streamEncoder
	release func() // optional, frees native resources
	pending *pool.ByteBuffer
	off     int  // drained prefix of pending
	dirty   bool // input written since the last flush
	ended   bool
}

var _ Engine = (*streamEngine)(nil)

// newStreamEngine builds an engine around an encoder created by newEnc, which
// receives the pending buffer as its output.
func newStreamEngine(newEnc func(w io.Writer) (streamEncoder, error)) (*streamEngine, error) {
	pending := pool.GetPendingBuffer()
	enc, err := newEnc(pending)
	if err != nil {
		pool.PutPendingBuffer(pending)
		return nil, err
	}

	return &streamEngine{enc: enc, pending: pending}, nil
}

func (e *streamEngine) Step(dst, src []byte, mode Mode) (written, consumed, remaining int, err error) {
	if len(src) > 0 && e.ended {
		return 0, 0, e.remaining(), errEngineEnded
	}

	// Input is accepted at most len(dst) bytes at a time and only while the
	// undrained output is smaller than dst, which keeps pending bounded by
	// the caller's staging buffer plus one encoder block.
	if len(src) > 0 && e.remaining() < len(dst) {
		e.compact()
		chunk := src[:min(len(src), len(dst))]
		if _, err := e.enc.Write(chunk); err != nil {
			return 0, 0, e.remaining(), err
		}
		consumed = len(chunk)
		e.dirty = true
	}

	switch mode {
	case ModeContinue:
	case ModeFlush:
		if consumed == len(src) && e.dirty && !e.ended {
			if err := e.enc.Flush(); err != nil {
				return 0, consumed, e.remaining(), err
			}
			e.dirty = false
		}
	case ModeEnd:
		if consumed == len(src) && !e.ended {
			if err := e.enc.Close(); err != nil {
				return 0, consumed, e.remaining(), err
			}
			e.ended = true
			e.dirty = false
		}
	default:
		return 0, consumed, e.remaining(), fmt.Errorf("invalid mode %s", mode)
	}

	written = copy(dst, e.pending.B[e.off:])
	e.off += written
	if e.off == e.pending.Len() {
		e.pending.Reset()
		e.off = 0
	}

	return written, consumed, e.remaining(), nil
}

func (e *streamEngine) Release() {
	if e.pending == nil {
		return
	}

	if e.release != nil {
		e.release()
	}
	pool.PutPendingBuffer(e.pending)
	e.pending = nil
}

// compact moves undrained output to the front of the pending buffer.
func (e *streamEngine) compact() {
	if e.off == 0 {
		return
	}

	n := copy(e.pending.B, e.pending.B[e.off:])
	e.pending.B = e.pending.B[:n]
	e.off = 0
}

func (e *streamEngine) remaining() int {
	return e.pending.Len() - e.off
}
