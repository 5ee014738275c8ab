package bitstream

import (
	"bytes"
	"encoding/binary"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/numpack/errs"
	"github.com/arloliu/numpack/sink"
)

// recordingSink keeps a copy of every block and counts Flush/Finish calls.
type recordingSink struct {
	blocks   [][]byte
	data     []byte
	flushes  int
	finishes int
}

func (s *recordingSink) Write(p []byte) (int, error) {
	s.blocks = append(s.blocks, append([]byte(nil), p...))
	s.data = append(s.data, p...)

	return len(p), nil
}

func (s *recordingSink) Flush() error {
	s.flushes++
	return nil
}

func (s *recordingSink) Finish() error {
	s.finishes++
	return nil
}

func newTestWriter(t *testing.T, opts ...WriterOption) (*Writer, *recordingSink) {
	t.Helper()

	dst := &recordingSink{}
	w, err := NewWriter(dst, opts...)
	require.NoError(t, err)

	return w, dst
}

func mask(width int) uint64 {
	if width == 64 {
		return math.MaxUint64
	}

	return uint64(1)<<width - 1
}

func TestScenario_PutFinishGet(t *testing.T) {
	w, dst := newTestWriter(t)

	w.Put(5, 3)
	w.Put(1, 1)
	require.NoError(t, w.Finish())

	require.Equal(t, []byte{0x0D}, dst.data)
	require.Equal(t, 1, dst.finishes)

	r := NewReader(dst.data)
	a, err := r.Get(3)
	require.NoError(t, err)
	require.Equal(t, uint64(5), a)
	b, err := r.Get(1)
	require.NoError(t, err)
	require.Equal(t, uint64(1), b)
}

func TestPutGet_AllWidths(t *testing.T) {
	patterns := []uint64{0, 1, math.MaxUint64, 0xDEADBEEFCAFEBABE, 0x8000000000000001}

	for _, carried := range []int{0, 1, 3, 7} {
		for width := 0; width <= 64; width++ {
			w, dst := newTestWriter(t)
			w.Put(0x55, carried)
			for _, p := range patterns {
				w.Put(p, width)
			}
			require.NoError(t, w.Finish())

			r := NewReader(dst.data)
			lead, err := r.Get(carried)
			require.NoError(t, err)
			require.Equal(t, uint64(0x55)&mask(carried), lead)
			for _, p := range patterns {
				got, err := r.Get(width)
				require.NoError(t, err)
				require.Equal(t, p&mask(width), got, "carried=%d width=%d value=%#x", carried, width, p)
			}
		}
	}
}

func TestPut_LSBFirstLayout(t *testing.T) {
	w, dst := newTestWriter(t)

	w.Put(0x1, 1)
	w.Put(0x0, 1)
	w.Put(0x3F, 6)
	w.Put(0xABCD, 16)
	w.Put(0x1, 4)
	require.NoError(t, w.Finish())

	require.Equal(t, []byte{0xFD, 0xCD, 0xAB, 0x01}, dst.data)
}

func TestPutVar_WireFormat(t *testing.T) {
	values := []uint64{0, 1, 127, 128, 300, 16_383, 16_384, math.MaxUint32, 1 << 56, math.MaxUint64}

	for _, v := range values {
		w, dst := newTestWriter(t)
		w.PutVar(v)
		require.NoError(t, w.Finish())

		require.Equal(t, binary.AppendUvarint(nil, v), dst.data, "value %d", v)
		require.Len(t, dst.data, VarintLen(v))

		got, err := NewReader(dst.data).GetVar64()
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

func TestPutVar_NarrowForms(t *testing.T) {
	w, dst := newTestWriter(t)
	w.PutVar8(math.MaxUint8)
	w.PutVar16(math.MaxUint16)
	w.PutVar32(math.MaxUint32)
	require.NoError(t, w.Finish())

	want := binary.AppendUvarint(nil, math.MaxUint8)
	want = binary.AppendUvarint(want, math.MaxUint16)
	want = binary.AppendUvarint(want, math.MaxUint32)
	require.Equal(t, want, dst.data)
}

func TestPutVar_RoundTripUnaligned(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	values := make([]uint64, 2000)
	for i := range values {
		values[i] = rng.Uint64() >> rng.Intn(64)
	}

	w, dst := newTestWriter(t)
	var wantBits uint64
	for _, v := range values {
		w.Put(1, 1)
		w.PutVar(v)
		wantBits += 1 + 8*uint64(VarintLen(v))
		require.Equal(t, wantBits, w.BitsWritten())
	}
	require.NoError(t, w.Finish())

	r := NewReader(dst.data)
	for _, v := range values {
		flag, err := r.Get(1)
		require.NoError(t, err)
		require.Equal(t, uint64(1), flag)
		got, err := r.GetVar64()
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

func TestPutVarZero(t *testing.T) {
	t.Run("zero costs one bit", func(t *testing.T) {
		w, dst := newTestWriter(t)
		w.PutVarZero(0)
		require.Equal(t, uint64(1), w.BitsWritten())
		require.NoError(t, w.Finish())
		require.Equal(t, []byte{0x01}, dst.data)

		r := NewReader(dst.data)
		got, err := r.GetVar64Zero()
		require.NoError(t, err)
		require.Equal(t, uint64(0), got)
		require.Equal(t, uint64(1), r.BitsRead())
	})

	t.Run("non-zero costs flag plus varint", func(t *testing.T) {
		for _, v := range []uint64{1, 127, 128, math.MaxUint64} {
			w, dst := newTestWriter(t)
			w.PutVarZero(v)
			want := 1 + 8*uint64(VarintLen(v))
			require.Equal(t, want, w.BitsWritten())
			require.NoError(t, w.Finish())

			r := NewReader(dst.data)
			got, err := r.GetVar64Zero()
			require.NoError(t, err)
			require.Equal(t, v, got)
			require.Equal(t, want, r.BitsRead())
		}
	})
}

func TestPutVarSignZero(t *testing.T) {
	values := []int64{0, 1, -1, 2, -2, 63, -64, 64, -65, math.MaxInt64, math.MinInt64}

	w, dst := newTestWriter(t)
	for _, v := range values {
		w.PutVarSignZero(v)
	}
	require.NoError(t, w.Finish())

	r := NewReader(dst.data)
	for _, v := range values {
		got, err := r.GetVar64SignZero()
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

func TestPutVarDecZeros(t *testing.T) {
	values := []uint64{
		0, 1, 10, 100, 7, 1_500_000, 123_000, 1_000_000_000_000_000,
		10_000_000_000_000_000, 10_000_000_000_000_000_000, math.MaxUint64,
	}

	w, dst := newTestWriter(t)
	for _, v := range values {
		w.PutVarDecZeros(v)
	}
	require.NoError(t, w.Finish())

	r := NewReader(dst.data)
	for _, v := range values {
		got, err := r.GetVar64DecZeros()
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

func TestPutVarDecZeros_Layout(t *testing.T) {
	w, dst := newTestWriter(t)
	w.PutVarDecZeros(1_500_000)
	require.Equal(t, uint64(1+4+8), w.BitsWritten())
	require.NoError(t, w.Finish())

	r := NewReader(dst.data)
	flag, _ := r.Get(1)
	require.Equal(t, uint64(0), flag)
	k, _ := r.Get(4)
	require.Equal(t, uint64(5), k)
	rem, err := r.GetVar64()
	require.NoError(t, err)
	require.Equal(t, uint64(15), rem)
}

func TestPutVarDecZeros_SaturatesAtFifteen(t *testing.T) {
	const v = 10_000_000_000_000_000 // 10^16

	w, dst := newTestWriter(t)
	w.PutVarDecZeros(v)
	require.NoError(t, w.Finish())

	r := NewReader(dst.data)
	flag, _ := r.Get(1)
	require.Equal(t, uint64(0), flag)
	k, _ := r.Get(4)
	require.Equal(t, uint64(MaxDecimalZeros), k)
	rem, err := r.GetVar64()
	require.NoError(t, err)
	require.Equal(t, uint64(10), rem, "remainder keeps the unstripped zero")

	got, err := NewReader(dst.data).GetVar64DecZeros()
	require.NoError(t, err)
	require.Equal(t, (v/Pow10[15])*Pow10[15], got)
}

func TestPutVarSignDecZeros(t *testing.T) {
	values := []int64{
		0, 1, -1, 10, -10, -1500, 2000, 999, -1_000_000_000_000_000_000,
		math.MinInt64, math.MaxInt64, -9_000_000_000_000_000_000,
	}

	w, dst := newTestWriter(t)
	for _, v := range values {
		w.PutVarSignDecZeros(v)
	}
	require.NoError(t, w.Finish())

	r := NewReader(dst.data)
	for _, v := range values {
		got, err := r.GetVar64SignDecZeros()
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

func TestBaseRelative(t *testing.T) {
	w, dst := newTestWriter(t)

	require.Equal(t, uint64(1000), w.PutVarBase(1000, 990))
	require.Equal(t, uint64(500), w.PutVarZeroBase(500, 500))
	require.Equal(t, uint64(2_000_100), w.PutVarDecZerosBase(2_000_100, 100))
	require.Equal(t, uint64(100), w.PutVarSignDecZerosBase(100, 1100))
	require.Equal(t, int64(5), w.PutVarSignZeroBase(5, 10))
	require.NoError(t, w.Finish())

	r := NewReader(dst.data)

	d1, err := r.GetVar64()
	require.NoError(t, err)
	require.Equal(t, uint64(1000), d1+990)

	d2, err := r.GetVar64Zero()
	require.NoError(t, err)
	require.Equal(t, uint64(500), d2+500)

	d3, err := r.GetVar64DecZeros()
	require.NoError(t, err)
	require.Equal(t, uint64(2_000_100), d3+100)

	d4, err := r.GetVar64SignDecZeros()
	require.NoError(t, err)
	require.Equal(t, int64(-1000), d4)
	require.Equal(t, uint64(100), uint64(1100+d4))

	d5, err := r.GetVar64SignZero()
	require.NoError(t, err)
	require.Equal(t, int64(5), d5+10)
}

func TestBaseRelative_BelowBasePanics(t *testing.T) {
	w, _ := newTestWriter(t)

	require.Panics(t, func() { w.PutVarBase(1, 2) })
	require.Panics(t, func() { w.PutVarZeroBase(1, 2) })
	require.Panics(t, func() { w.PutVarDecZerosBase(1, 2) })
	require.Equal(t, uint64(0), w.BitsWritten())
}

func TestBitsWritten_Accounting(t *testing.T) {
	w, _ := newTestWriter(t, WithBufferSize(3))

	var want uint64
	steps := []struct {
		op   func()
		bits uint64
	}{
		{func() { w.Put(0, 0) }, 0},
		{func() { w.Put(3, 2) }, 2},
		{func() { w.Put(math.MaxUint64, 64) }, 64},
		{func() { w.PutVar(300) }, 16},
		{func() { w.PutVarZero(0) }, 1},
		{func() { w.PutVarZero(5) }, 9},
		{func() { w.PutVarSignZero(-1) }, 9},
		{func() { w.PutVarDecZeros(1_000) }, 1 + 4 + 8},
		{func() { w.PutVarSignDecZeros(-20) }, 1 + 4 + 8},
		{func() { w.Put(1, 5) }, 5},
	}

	for i, step := range steps {
		step.op()
		want += step.bits
		require.Equal(t, want, w.BitsWritten(), "step %d", i)
	}

	w.AlignToByte()
	require.Equal(t, (want+7)/8*8, w.BitsWritten())
}

func TestWriter_BufferFillsEmitBlocks(t *testing.T) {
	w, dst := newTestWriter(t, WithBufferSize(4))

	for i := 0; i < 10; i++ {
		w.PutVar8(uint8(i))
	}
	require.Len(t, dst.blocks, 2)
	require.Equal(t, []byte{0, 1, 2, 3}, dst.blocks[0])
	require.Equal(t, []byte{4, 5, 6, 7}, dst.blocks[1])
	require.Equal(t, uint64(80), w.BitsWritten())

	require.NoError(t, w.Finish())
	require.Len(t, dst.blocks, 3)
	require.Equal(t, []byte{8, 9}, dst.blocks[2])
}

func TestWriter_FlushKeepsPartialByte(t *testing.T) {
	w, dst := newTestWriter(t)

	w.Put(1, 3)
	w.Put(0xFF, 8)
	require.NoError(t, w.Flush())

	require.Equal(t, []byte{0xF9}, dst.data)
	require.Equal(t, 1, dst.flushes)
	require.Equal(t, uint64(11), w.BitsWritten())

	require.NoError(t, w.Finish())
	require.Equal(t, []byte{0xF9, 0x07}, dst.data)
	require.Equal(t, uint64(16), w.BitsWritten())
}

func TestWriter_AlignToByte(t *testing.T) {
	w, dst := newTestWriter(t)

	w.AlignToByte()
	require.Equal(t, uint64(0), w.BitsWritten())

	w.Put(1, 1)
	w.AlignToByte()
	w.PutVar(300)
	require.NoError(t, w.Finish())
	require.Equal(t, []byte{0x01, 0xAC, 0x02}, dst.data)

	r := NewReader(dst.data)
	bit, err := r.Get(1)
	require.NoError(t, err)
	require.Equal(t, uint64(1), bit)
	r.AlignToByte()
	v, err := r.GetVar64()
	require.NoError(t, err)
	require.Equal(t, uint64(300), v)
	require.Equal(t, uint64(0), r.Remaining())
}

func TestWriter_StickySinkError(t *testing.T) {
	fixed := sink.NewFixedSink(make([]byte, 2))
	w, err := NewWriter(fixed, WithBufferSize(1))
	require.NoError(t, err)

	w.PutVar8(1)
	w.PutVar8(2)
	require.NoError(t, w.Err())

	w.PutVar8(3)
	require.ErrorIs(t, w.Err(), errs.ErrOverflow)
	require.Equal(t, []byte{1, 2}, fixed.Bytes())

	w.PutVar8(4)
	require.Equal(t, uint64(32), w.BitsWritten())

	require.ErrorIs(t, w.Flush(), errs.ErrOverflow)
	require.ErrorIs(t, w.Finish(), errs.ErrOverflow)
	require.Equal(t, -1, fixed.FinalSize(), "sink must not be finished after a failed write")
}

func TestWriter_UseAfterFinishPanics(t *testing.T) {
	w, _ := newTestWriter(t)
	require.NoError(t, w.Finish())

	require.Panics(t, func() { w.Put(1, 1) })
	require.Panics(t, func() { w.PutVar(1) })
	require.Panics(t, func() { w.PutVarZero(0) })
	require.Panics(t, func() { _ = w.Flush() })
	require.Panics(t, func() { _ = w.Finish() })
}

func TestWriter_InvalidWidthPanics(t *testing.T) {
	w, _ := newTestWriter(t)

	require.Panics(t, func() { w.Put(0, 65) })
	require.Panics(t, func() { w.Put(0, -1) })
	require.Panics(t, func() { _, _ = NewReader([]byte{0}).Get(65) })
}

func TestWriter_Reset(t *testing.T) {
	w, first := newTestWriter(t)
	w.PutVar(1)
	require.NoError(t, w.Finish())

	second := &recordingSink{}
	w.Reset(second)
	require.Equal(t, uint64(0), w.BitsWritten())
	w.PutVar(2)
	require.NoError(t, w.Finish())

	require.Equal(t, []byte{1}, first.data)
	require.Equal(t, []byte{2}, second.data)
}

func TestNewWriter_Errors(t *testing.T) {
	_, err := NewWriter(nil)
	require.ErrorIs(t, err, errs.ErrNilSink)

	_, err = NewWriter(&recordingSink{}, WithBufferSize(0))
	require.ErrorIs(t, err, errs.ErrInvalidBufferSize)
}

func TestReader_Underflow(t *testing.T) {
	t.Run("empty range", func(t *testing.T) {
		_, err := NewReader(nil).Get(1)
		require.ErrorIs(t, err, errs.ErrUnderflow)

		_, err = NewReader([]byte{}).GetVar64()
		require.ErrorIs(t, err, errs.ErrUnderflow)
	})

	t.Run("nothing consumed on failure", func(t *testing.T) {
		r := NewReader([]byte{0xAB})
		_, err := r.Get(9)
		require.ErrorIs(t, err, errs.ErrUnderflow)

		v, err := r.Get(8)
		require.NoError(t, err)
		require.Equal(t, uint64(0xAB), v)
	})

	t.Run("truncated varint", func(t *testing.T) {
		_, err := NewReader([]byte{0x80}).GetVar64()
		require.ErrorIs(t, err, errs.ErrUnderflow)
	})

	t.Run("zero request", func(t *testing.T) {
		v, err := NewReader(nil).Get(0)
		require.NoError(t, err)
		require.Equal(t, uint64(0), v)
	})
}

func TestReader_MalformedVarint(t *testing.T) {
	data := make([]byte, 16)
	for i := range data {
		data[i] = 0xFF
	}

	_, err := NewReader(data).GetVar64()
	require.ErrorIs(t, err, errs.ErrMalformedVarint)

	_, err = NewReader(data[:MaxVarintLen64]).GetVar64()
	require.ErrorIs(t, err, errs.ErrMalformedVarint)
}

func TestReader_TenthVarintByte(t *testing.T) {
	maxVarint := append(bytes.Repeat([]byte{0xFF}, 9), 0x01)
	v, err := NewReader(maxVarint).GetVar64()
	require.NoError(t, err)
	require.Equal(t, uint64(math.MaxUint64), v)

	for _, last := range []byte{0x02, 0x7F} {
		data := append(bytes.Repeat([]byte{0xFF}, 9), last)
		_, err := NewReader(data).GetVar64()
		require.ErrorIs(t, err, errs.ErrMalformedVarint, "tenth byte %#x", last)
	}
}

func TestReader_Reset(t *testing.T) {
	r := NewReader([]byte{0x01})
	_, err := r.Get(8)
	require.NoError(t, err)
	require.Equal(t, uint64(8), r.BitsRead())

	r.Reset([]byte{0x02, 0x03})
	require.Equal(t, uint64(0), r.BitsRead())
	require.Equal(t, uint64(16), r.Remaining())
	v, err := r.Get(16)
	require.NoError(t, err)
	require.Equal(t, uint64(0x0302), v)
}

// TestRoundTrip_MixedEncodings writes a random sequence of fields with every
// encoding and reads it back with the same sequence.
func TestRoundTrip_MixedEncodings(t *testing.T) {
	type field struct {
		kind  int
		u     uint64
		s     int64
		width int
	}

	rng := rand.New(rand.NewSource(1234))
	fields := make([]field, 5000)
	for i := range fields {
		f := field{kind: rng.Intn(6)}
		f.u = rng.Uint64() >> rng.Intn(64)
		if rng.Intn(4) == 0 {
			f.u = 0
		}
		if rng.Intn(3) == 0 {
			f.u = (f.u % 1_000_000) * Pow10[rng.Intn(10)]
		}
		f.s = int64(f.u) //nolint:gosec
		if rng.Intn(2) == 0 {
			f.s = -f.s
		}
		f.width = rng.Intn(65)
		fields[i] = f
	}

	w, dst := newTestWriter(t, WithBufferSize(17))
	for _, f := range fields {
		switch f.kind {
		case 0:
			w.Put(f.u, f.width)
		case 1:
			w.PutVar(f.u)
		case 2:
			w.PutVarZero(f.u)
		case 3:
			w.PutVarSignZero(f.s)
		case 4:
			w.PutVarDecZeros(f.u)
		case 5:
			w.PutVarSignDecZeros(f.s)
		}
	}
	total := w.BitsWritten()
	require.NoError(t, w.Finish())
	require.Equal(t, (total+7)/8, uint64(len(dst.data)))

	r := NewReader(dst.data)
	for i, f := range fields {
		switch f.kind {
		case 0:
			got, err := r.Get(f.width)
			require.NoError(t, err)
			require.Equal(t, f.u&mask(f.width), got, "field %d", i)
		case 1:
			got, err := r.GetVar64()
			require.NoError(t, err)
			require.Equal(t, f.u, got, "field %d", i)
		case 2:
			got, err := r.GetVar64Zero()
			require.NoError(t, err)
			require.Equal(t, f.u, got, "field %d", i)
		case 3:
			got, err := r.GetVar64SignZero()
			require.NoError(t, err)
			require.Equal(t, f.s, got, "field %d", i)
		case 4:
			got, err := r.GetVar64DecZeros()
			require.NoError(t, err)
			require.Equal(t, f.u, got, "field %d", i)
		case 5:
			got, err := r.GetVar64SignDecZeros()
			require.NoError(t, err)
			require.Equal(t, f.s, got, "field %d", i)
		}
	}
	require.Equal(t, total, r.BitsRead())
}

func BenchmarkWriter_PutVar(b *testing.B) {
	dst := sink.NewBufferSink()
	defer dst.Release()

	b.ReportAllocs()
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		dst.Reset()
		w, _ := NewWriter(dst)
		for i := uint64(0); i < 1024; i++ {
			w.PutVarZero(i * 37)
		}
		_ = w.Finish()
	}
}

func BenchmarkReader_GetVar64(b *testing.B) {
	dst := sink.NewBufferSink()
	defer dst.Release()
	w, _ := NewWriter(dst)
	for i := uint64(0); i < 1024; i++ {
		w.PutVarZero(i * 37)
	}
	_ = w.Finish()
	data := dst.Bytes()

	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		r := NewReader(data)
		for j := 0; j < 1024; j++ {
			_, _ = r.GetVar64Zero()
		}
	}
}
