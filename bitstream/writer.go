package bitstream

import (
	"fmt"

	"github.com/arloliu/numpack/errs"
	"github.com/arloliu/numpack/internal/options"
	"github.com/arloliu/numpack/internal/pool"
	"github.com/arloliu/numpack/sink"
)

// maxStepBits is the widest field folded into the accumulator in one step.
// Up to 7 bits are carried between calls, so 56+7 still fits in 64 bits.
const maxStepBits = 56

// Writer packs bit fields and variable-length integers into an LSB-first
// bitstream and hands whole bytes to a sink.
//
// Bytes are staged in an internal buffer (64KiB by default) and written to the
// sink only when the buffer fills or on Flush and Finish. The sink is
// referenced, never owned.
//
// Errors from the sink are sticky, as with bufio.Writer: the first failure is
// recorded, later sink writes are skipped, and Err, Flush and Finish report it.
// Bit accounting keeps running so BitsWritten stays exact.
//
// Misuse panics: a width outside [0, 64], a base greater than the value in
// the unsigned base-relative methods, or any call after Finish.
type Writer struct {
	acc     uint64 // pending bits, LSB first
	bits    uint   // valid bits in acc, always < 8 between calls
	buf     *pool.ByteBuffer
	bufCap  int
	emitted uint64 // bytes flushed out of buf
	dst     sink.Sink
	err     error
}

type writerConfig struct {
	bufferSize int
}

// WriterOption configures a Writer.
type WriterOption = options.Option[*writerConfig]

// WithBufferSize sets the staging buffer capacity in bytes. Default is 64KiB.
func WithBufferSize(n int) WriterOption {
	return options.New(func(c *writerConfig) error {
		if n <= 0 {
			return fmt.Errorf("%w: %d", errs.ErrInvalidBufferSize, n)
		}
		c.bufferSize = n

		return nil
	})
}

// NewWriter creates a Writer that emits bytes to dst.
//
// Parameters:
//   - dst: destination for whole bytes; must outlive the writer
//   - opts: optional configuration (WithBufferSize)
//
// Returns:
//   - *Writer: a writer positioned at bit 0
//   - error: errs.ErrNilSink or an option error
func NewWriter(dst sink.Sink, opts ...WriterOption) (*Writer, error) {
	if dst == nil {
		return nil, errs.ErrNilSink
	}

	cfg := &writerConfig{bufferSize: pool.StagingBufferDefaultSize}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	w := &Writer{bufCap: cfg.bufferSize}
	w.Reset(dst)

	return w, nil
}

// Reset discards all state and starts a new stream into dst.
// A finished writer becomes usable again.
func (w *Writer) Reset(dst sink.Sink) {
	if w.buf == nil {
		w.buf = pool.GetStagingBuffer()
		w.buf.Grow(w.bufCap)
	}
	w.buf.Reset()
	w.acc = 0
	w.bits = 0
	w.emitted = 0
	w.dst = dst
	w.err = nil
}

// Err returns the first sink error encountered, if any.
func (w *Writer) Err() error {
	return w.err
}

// BitsWritten returns the total number of bits written so far, including bits
// still staged or not yet byte aligned.
func (w *Writer) BitsWritten() uint64 {
	buffered := 0
	if w.buf != nil {
		buffered = w.buf.Len()
	}

	return (w.emitted+uint64(buffered))<<3 + uint64(w.bits)
}

// Put appends the low width bits of v. Bits of v above width are ignored.
//
// Parameters:
//   - v: value whose low bits are written
//   - width: number of bits, 0-64; zero is a no-op
func (w *Writer) Put(v uint64, width int) {
	w.mustBeOpen()
	if width == 0 {
		return
	}
	if width < 0 || width > 64 {
		panic(fmt.Sprintf("bitstream: invalid bit width %d", width))
	}

	if width > maxStepBits {
		w.put(v, 32)
		w.put(v>>32, width-32)

		return
	}
	w.put(v, width)
}

// PutVar appends v as a base-128 varint (1-10 bytes).
func (w *Writer) PutVar(v uint64) {
	w.mustBeOpen()
	w.putVar(v)
}

// PutVar32 appends v as a base-128 varint.
func (w *Writer) PutVar32(v uint32) {
	w.PutVar(uint64(v))
}

// PutVar16 appends v as a base-128 varint.
func (w *Writer) PutVar16(v uint16) {
	w.PutVar(uint64(v))
}

// PutVar8 appends v as a base-128 varint.
func (w *Writer) PutVar8(v uint8) {
	w.PutVar(uint64(v))
}

// PutVarZero appends a zero flag bit and, for non-zero v, its varint.
// A zero costs exactly one bit.
func (w *Writer) PutVarZero(v uint64) {
	if w.putZeroFlag(v == 0) {
		return
	}
	w.putVar(v)
}

// PutVarSignZero appends a zero flag bit and, for non-zero v, the varint of
// its zigzag mapping.
func (w *Writer) PutVarSignZero(v int64) {
	if w.putZeroFlag(v == 0) {
		return
	}
	w.putVar(ZigZagEncode(v))
}

// PutVarDecZeros appends a zero flag bit and, for non-zero v, the number of
// stripped trailing decimal zeros in 4 bits followed by the varint of the
// remainder.
//
// At most 15 zeros are stripped. For v = 10^16 the count is 15 and the
// remainder 10 is written as is.
func (w *Writer) PutVarDecZeros(v uint64) {
	if w.putZeroFlag(v == 0) {
		return
	}

	rem, k := TrimDecimalZeros(v)
	w.put(uint64(k), decZerosBits)
	w.putVar(rem)
}

// PutVarSignDecZeros is PutVarDecZeros for signed values; the remainder is
// zigzag mapped before the varint.
func (w *Writer) PutVarSignDecZeros(v int64) {
	if w.putZeroFlag(v == 0) {
		return
	}

	rem, k := TrimSignedDecimalZeros(v)
	w.put(uint64(k), decZerosBits)
	w.putVar(ZigZagEncode(rem))
}

// PutVarBase appends v-base with PutVar and returns v. Panics if v < base.
func (w *Writer) PutVarBase(v, base uint64) uint64 {
	mustNotBeBelow(v, base)
	w.PutVar(v - base)

	return v
}

// PutVarZeroBase appends v-base with PutVarZero and returns v. Panics if v < base.
func (w *Writer) PutVarZeroBase(v, base uint64) uint64 {
	mustNotBeBelow(v, base)
	w.PutVarZero(v - base)

	return v
}

// PutVarDecZerosBase appends v-base with PutVarDecZeros and returns v. Panics if v < base.
func (w *Writer) PutVarDecZerosBase(v, base uint64) uint64 {
	mustNotBeBelow(v, base)
	w.PutVarDecZeros(v - base)

	return v
}

// PutVarSignDecZerosBase appends the signed difference v-base with
// PutVarSignDecZeros and returns v. v may be below base; the difference is
// taken modulo 2^64 and read as int64.
func (w *Writer) PutVarSignDecZerosBase(v, base uint64) uint64 {
	w.PutVarSignDecZeros(int64(v - base)) //nolint:gosec

	return v
}

// PutVarSignZeroBase appends v-base with PutVarSignZero and returns v.
func (w *Writer) PutVarSignZeroBase(v, base int64) int64 {
	w.PutVarSignZero(v - base)

	return v
}

// AlignToByte pads the pending bits with zeros up to the next byte boundary.
func (w *Writer) AlignToByte() {
	w.mustBeOpen()
	w.alignToByte()
}

// Flush hands all staged whole bytes to the sink and calls its Flush.
//
// A partial byte stays pending; call AlignToByte first to push it out.
func (w *Writer) Flush() error {
	w.mustBeOpen()
	w.emit()
	if w.err != nil {
		return w.err
	}

	if err := w.dst.Flush(); err != nil {
		w.err = fmt.Errorf("bitstream: flush sink: %w", err)
	}

	return w.err
}

// Finish aligns to a byte boundary, hands the remaining bytes to the sink and
// calls its Finish. The staging buffer goes back to the pool and the writer
// must not be used again, except for BitsWritten, Err and Reset.
func (w *Writer) Finish() error {
	w.mustBeOpen()
	w.alignToByte()
	w.emit()

	if w.err == nil {
		if err := w.dst.Finish(); err != nil {
			w.err = fmt.Errorf("bitstream: finish sink: %w", err)
		}
	}

	pool.PutStagingBuffer(w.buf)
	w.buf = nil

	return w.err
}

func (w *Writer) mustBeOpen() {
	if w.buf == nil {
		panic("bitstream: writer already finished")
	}
}

// putZeroFlag writes the zero flag and reports whether the value was zero.
func (w *Writer) putZeroFlag(zero bool) bool {
	w.mustBeOpen()
	if zero {
		w.put(1, 1)
		return true
	}
	w.put(0, 1)

	return false
}

func (w *Writer) putVar(v uint64) {
	for v >= 0x80 {
		w.put(v&0x7F|0x80, 8)
		v >>= 7
	}
	w.put(v, 8)
}

// put folds at most maxStepBits bits into the accumulator and drains whole bytes.
func (w *Writer) put(v uint64, width int) {
	w.acc |= (v & (uint64(1)<<width - 1)) << w.bits
	w.bits += uint(width) //nolint:gosec
	for w.bits >= 8 {
		w.writeByte(byte(w.acc))
		w.acc >>= 8
		w.bits -= 8
	}
}

func (w *Writer) alignToByte() {
	if w.bits == 0 {
		return
	}

	w.writeByte(byte(w.acc))
	w.acc = 0
	w.bits = 0
}

func (w *Writer) writeByte(b byte) {
	_ = w.buf.WriteByte(b)
	if w.buf.Len() >= w.bufCap {
		w.emit()
	}
}

// emit hands the staged bytes to the sink. After a sink error the bytes are
// dropped but still counted.
func (w *Writer) emit() {
	n := w.buf.Len()
	if n == 0 {
		return
	}

	if w.err == nil {
		if _, err := w.buf.WriteTo(w.dst); err != nil {
			w.err = fmt.Errorf("bitstream: write sink: %w", err)
		}
	}
	w.emitted += uint64(n)
	w.buf.Reset()
}

func mustNotBeBelow(v, base uint64) {
	if v < base {
		panic(fmt.Sprintf("bitstream: value %d is below base %d", v, base))
	}
}
