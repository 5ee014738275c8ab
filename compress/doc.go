// Package compress provides streaming compression for numpack bitstreams.
//
// A Compressor is itself a sink.Sink, so it can sit between a bitstream.Writer
// and any final destination:
//
//	dst := sink.NewBufferSink()
//	c, _ := compress.NewCompressor(dst, compress.WithAlgorithm(format.CompressionS2))
//	defer c.Close()
//
//	w, _ := bitstream.NewWriter(c)
//	w.PutVarZero(42)
//	_ = w.Finish() // ends the compressed stream and finishes dst
//
// # Supported Algorithms
//
//   - None: bytes pass through unchanged
//   - Zstd: best ratio, moderate speed (levels 1-22, default 3)
//   - S2: balanced speed and ratio (levels 0-3)
//   - LZ4: very fast decompression (levels 0-9, 0 is the fast mode)
//   - Snappy: framed Snappy, no levels
//
// Zstd is implemented with github.com/klauspost/compress/zstd. Building with
// the gozstd tag switches to the cgo binding github.com/valyala/gozstd; the
// wire format is identical.
//
// # Stream Protocol
//
// Each algorithm is wrapped in an Engine, a stateful compressor driven in
// steps with one of three modes:
//
//   - ModeContinue: compress input, emit whatever is ready
//   - ModeFlush: make all input so far decodable, keep the stream open
//   - ModeEnd: terminate the stream
//
// The Compressor runs a drain loop around every step so the downstream sink
// receives all produced output through a fixed-size staging buffer. Its
// lifecycle is StateStreaming, StateFlushed (after Flush, back to streaming
// on the next Write) and StateEnded (after Finish or Close).
//
// # Decoding
//
// NewReader wraps an io.Reader with the matching decompressor, and Decompress
// decodes a complete in-memory stream. A stream cut after any Flush is
// decodable up to that point.
package compress
