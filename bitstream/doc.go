// Package bitstream packs integers into a dense LSB-first bitstream and reads
// them back.
//
// # Wire format
//
// Bits are ordered least-significant first, within a byte and across Put
// calls. On top of raw bit fields the Writer offers a family of
// variable-length integer encodings:
//
//   - Var: base-128 varint, 7 payload bits per byte, bit 7 set when another
//     byte follows, low groups first (1-10 bytes for a uint64)
//   - VarZero: 1 flag bit (1 when the value is zero), then Var for non-zero values
//   - VarSignZero: the zero flag, then Var of the zigzag mapped value
//     (0->0, -1->1, 1->2, -2->3, ...)
//   - VarDecZeros: the zero flag, then a 4-bit count of stripped trailing
//     decimal zeros (at most 15) and Var of the remaining value
//   - VarSignDecZeros: like VarDecZeros for signed values, with the remainder
//     zigzag mapped
//
// Every encoding also has a base-relative form that encodes value-base, for
// values clustered near a known baseline.
//
// The stream carries no header, tags or lengths: the reader must apply the
// same sequence of encodings the writer used.
//
// # Usage
//
//	out := sink.NewBufferSink()
//	w, _ := bitstream.NewWriter(out)
//	w.Put(5, 3)
//	w.PutVarSignZero(-42)
//	w.PutVarDecZeros(1_500_000)
//	if err := w.Finish(); err != nil {
//	    return err
//	}
//
//	r := bitstream.NewReader(out.Bytes())
//	a, _ := r.Get(3)             // 5
//	b, _ := r.GetVar64SignZero() // -42
//	c, _ := r.GetVar64DecZeros() // 1500000
//
// Writers and readers are not safe for concurrent use.
package bitstream
