package bitstream

import (
	"fmt"

	"github.com/arloliu/numpack/errs"
)

// Reader decodes a bitstream produced by Writer from an in-memory byte slice.
//
// Every GetXxx method is the exact inverse of the matching PutXxx method.
// Base-relative values are returned as the stored delta; the caller adds the
// base back.
//
// The reader never modifies data and never reads past its end. Once a method
// returns an error the stream should be abandoned.
type Reader struct {
	data []byte
	pos  int    // next unread byte
	acc  uint64 // consumed bits not yet returned, LSB first
	bits uint   // valid bits in acc
}

// NewReader creates a Reader over data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Reset starts reading data from its first bit.
func (r *Reader) Reset(data []byte) {
	r.data = data
	r.pos = 0
	r.acc = 0
	r.bits = 0
}

// BitsRead returns the number of bits returned so far.
func (r *Reader) BitsRead() uint64 {
	return uint64(r.pos)<<3 - uint64(r.bits) //nolint:gosec
}

// Remaining returns the number of unread bits, including any zero padding
// the writer added on Finish.
func (r *Reader) Remaining() uint64 {
	return uint64(len(r.data)-r.pos)<<3 + uint64(r.bits) //nolint:gosec
}

// Get reads a width-bit field written by Writer.Put.
//
// Parameters:
//   - width: number of bits, 0-64; zero returns 0 without consuming anything
//
// Returns:
//   - uint64: the field value
//   - error: errs.ErrUnderflow if fewer than width bits remain; nothing is consumed in that case
func (r *Reader) Get(width int) (uint64, error) {
	if width == 0 {
		return 0, nil
	}
	if width < 0 || width > 64 {
		panic(fmt.Sprintf("bitstream: invalid bit width %d", width))
	}
	if uint64(width) > r.Remaining() {
		return 0, fmt.Errorf("%w: need %d bits, %d left", errs.ErrUnderflow, width, r.Remaining())
	}

	if width > maxStepBits {
		lo, err := r.get(32)
		if err != nil {
			return 0, err
		}
		hi, err := r.get(width - 32)
		if err != nil {
			return 0, err
		}

		return lo | hi<<32, nil
	}

	return r.get(width)
}

// GetVar64 reads a base-128 varint written by Writer.PutVar.
//
// Returns errs.ErrMalformedVarint when the continuation chain runs past ten
// bytes, or when the tenth byte carries payload bits beyond bit 63.
func (r *Reader) GetVar64() (uint64, error) {
	var v uint64
	var shift uint
	for {
		b, err := r.get(8)
		if err != nil {
			return 0, err
		}

		// only one payload bit of the tenth byte fits in a uint64
		if shift == 63 && b > 1 {
			return 0, errs.ErrMalformedVarint
		}
		v |= (b & 0x7F) << shift
		if b&0x80 == 0 {
			return v, nil
		}

		shift += 7
		if shift >= 64 {
			return 0, errs.ErrMalformedVarint
		}
	}
}

// GetVar64Zero reads a value written by Writer.PutVarZero.
func (r *Reader) GetVar64Zero() (uint64, error) {
	zero, err := r.getZeroFlag()
	if err != nil || zero {
		return 0, err
	}

	return r.GetVar64()
}

// GetVar64SignZero reads a value written by Writer.PutVarSignZero.
func (r *Reader) GetVar64SignZero() (int64, error) {
	zero, err := r.getZeroFlag()
	if err != nil || zero {
		return 0, err
	}

	z, err := r.GetVar64()
	if err != nil {
		return 0, err
	}

	return ZigZagDecode(z), nil
}

// GetVar64DecZeros reads a value written by Writer.PutVarDecZeros.
func (r *Reader) GetVar64DecZeros() (uint64, error) {
	zero, err := r.getZeroFlag()
	if err != nil || zero {
		return 0, err
	}

	k, err := r.get(decZerosBits)
	if err != nil {
		return 0, err
	}

	v, err := r.GetVar64()
	if err != nil {
		return 0, err
	}

	return v * Pow10[k], nil
}

// GetVar64SignDecZeros reads a value written by Writer.PutVarSignDecZeros.
func (r *Reader) GetVar64SignDecZeros() (int64, error) {
	zero, err := r.getZeroFlag()
	if err != nil || zero {
		return 0, err
	}

	k, err := r.get(decZerosBits)
	if err != nil {
		return 0, err
	}

	z, err := r.GetVar64()
	if err != nil {
		return 0, err
	}

	return ZigZagDecode(z) * int64(Pow10[k]), nil //nolint:gosec
}

// AlignToByte drops the rest of the current partial byte, mirroring
// Writer.AlignToByte.
func (r *Reader) AlignToByte() {
	r.acc = 0
	r.bits = 0
}

func (r *Reader) getZeroFlag() (bool, error) {
	flag, err := r.get(1)
	if err != nil {
		return false, err
	}

	return flag == 1, nil
}

// get reads at most maxStepBits bits.
func (r *Reader) get(width int) (uint64, error) {
	n := uint(width) //nolint:gosec
	for r.bits < n {
		if r.pos == len(r.data) {
			return 0, errs.ErrUnderflow
		}
		r.acc |= uint64(r.data[r.pos]) << r.bits
		r.pos++
		r.bits += 8
	}

	v := r.acc & (uint64(1)<<n - 1)
	r.acc >>= n
	r.bits -= n

	return v, nil
}
