package bitstream

// MaxDecimalZeros is the largest trailing decimal zero count a 4-bit field can carry.
const MaxDecimalZeros = 15

// decZerosBits is the width of the trailing decimal zero count field.
const decZerosBits = 4

// MaxVarintLen64 is the maximum number of bytes a varint-encoded uint64 occupies.
const MaxVarintLen64 = 10

// Pow10 holds 10^k for every count a decimal-trim field can carry.
var Pow10 = [MaxDecimalZeros + 1]uint64{
	1,
	10,
	100,
	1_000,
	10_000,
	100_000,
	1_000_000,
	10_000_000,
	100_000_000,
	1_000_000_000,
	10_000_000_000,
	100_000_000_000,
	1_000_000_000_000,
	10_000_000_000_000,
	100_000_000_000_000,
	1_000_000_000_000_000,
}

// ZigZagEncode maps a signed integer onto the unsigned domain so that small
// magnitudes stay small: 0->0, -1->1, 1->2, -2->3.
func ZigZagEncode(v int64) uint64 {
	return uint64(v<<1) ^ uint64(v>>63) //nolint:gosec
}

// ZigZagDecode is the inverse of ZigZagEncode.
func ZigZagDecode(z uint64) int64 {
	return int64(z>>1) ^ -int64(z&1) //nolint:gosec
}

// TrimDecimalZeros strips trailing decimal zeros from a non-zero v.
//
// At most MaxDecimalZeros digits are stripped; the remainder may still be a
// multiple of ten when v has more trailing zeros than that. For v == 0 the
// result is (0, 0).
func TrimDecimalZeros(v uint64) (uint64, uint) {
	if v == 0 {
		return 0, 0
	}

	var k uint
	for k < MaxDecimalZeros && v%10 == 0 {
		v /= 10
		k++
	}

	return v, k
}

// TrimSignedDecimalZeros is TrimDecimalZeros for signed values. The sign is
// kept on the remainder (division truncates toward zero).
func TrimSignedDecimalZeros(v int64) (int64, uint) {
	if v == 0 {
		return 0, 0
	}

	var k uint
	for k < MaxDecimalZeros && v%10 == 0 {
		v /= 10
		k++
	}

	return v, k
}

// VarintLen returns the number of 7-bit groups (bytes) the varint encoding of v uses.
func VarintLen(v uint64) int {
	n := 1
	for v >= 0x80 {
		v >>= 7
		n++
	}

	return n
}
