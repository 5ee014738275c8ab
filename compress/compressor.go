package compress

import (
	"fmt"
	"io"

	"github.com/arloliu/numpack/errs"
	"github.com/arloliu/numpack/format"
	"github.com/arloliu/numpack/internal/options"
	"github.com/arloliu/numpack/sink"
)

// DefaultOutputBufferSize is the default size of the compressor's staging
// output buffer.
const DefaultOutputBufferSize = 1024 * 128 // 128KiB

// State is the lifecycle state of a Compressor.
type State uint8

const (
	// StateStreaming means input has been accepted since the last flush.
	StateStreaming State = iota
	// StateFlushed means everything written so far has reached the downstream sink.
	StateFlushed
	// StateEnded means the stream is terminated; the compressor only accepts Close.
	StateEnded
)

func (s State) String() string {
	switch s {
	case StateStreaming:
		return "streaming"
	case StateFlushed:
		return "flushed"
	case StateEnded:
		return "ended"
	default:
		return fmt.Sprintf("State(%d)", s)
	}
}

type compressorConfig struct {
	algorithm  format.CompressionType
	level      int
	outputSize int
	engine     Engine
}

// CompressorOption configures a Compressor.
type CompressorOption = options.Option[*compressorConfig]

// WithAlgorithm selects the compression algorithm. Default is Zstd.
func WithAlgorithm(t format.CompressionType) CompressorOption {
	return options.NoError(func(c *compressorConfig) {
		c.algorithm = t
	})
}

// WithLevel sets the algorithm specific compression level. Default is 3.
//
// The level is validated when the engine is created: zstd accepts 1-22,
// s2 0-3, lz4 0-9; none and snappy ignore it.
func WithLevel(level int) CompressorOption {
	return options.NoError(func(c *compressorConfig) {
		c.level = level
	})
}

// WithOutputBufferSize sets the size of the staging buffer that compressed
// output is drained through. Default is 128KiB.
func WithOutputBufferSize(n int) CompressorOption {
	return options.New(func(c *compressorConfig) error {
		if n <= 0 {
			return fmt.Errorf("%w: %d", errs.ErrInvalidBufferSize, n)
		}
		c.outputSize = n

		return nil
	})
}

// WithEngine uses a caller supplied engine instead of creating one from the
// algorithm and level. The compressor takes ownership and releases it on Close.
func WithEngine(e Engine) CompressorOption {
	return options.NoError(func(c *compressorConfig) {
		c.engine = e
	})
}

// Compressor is a Sink decorator that compresses every byte written to it
// and forwards the compressed output to a downstream Sink.
//
// Flush makes everything written so far decodable downstream without ending
// the stream. Finish terminates the stream and finishes the downstream sink;
// after that only Close is meaningful, every other call returns
// errs.ErrStreamFinished.
//
// Close releases the engine and must be called exactly once the compressor is
// no longer needed, whether or not Finish succeeded. It is idempotent.
//
// A Compressor is not safe for concurrent use.
type Compressor struct {
	dst    sink.Sink
	engine Engine
	out    []byte
	state  State
	stats  CompressionStats
}

var _ sink.Sink = (*Compressor)(nil)

// NewCompressor creates a compressor that writes compressed output to dst.
//
// Parameters:
//   - dst: downstream sink; referenced, not owned
//   - opts: WithAlgorithm, WithLevel, WithOutputBufferSize, WithEngine
//
// Returns:
//   - *Compressor: a compressor in StateStreaming
//   - error: errs.ErrNilSink, an option error, or errs.ErrContextInit when the engine cannot be created
func NewCompressor(dst sink.Sink, opts ...CompressorOption) (*Compressor, error) {
	if dst == nil {
		return nil, errs.ErrNilSink
	}

	cfg := &compressorConfig{
		algorithm:  format.CompressionZstd,
		level:      DefaultLevel,
		outputSize: DefaultOutputBufferSize,
	}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	engine := cfg.engine
	if engine == nil {
		var err error
		engine, err = NewEngine(cfg.algorithm, cfg.level)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errs.ErrContextInit, err)
		}
	}

	return &Compressor{
		dst:    dst,
		engine: engine,
		out:    make([]byte, cfg.outputSize),
		state:  StateStreaming,
		stats:  CompressionStats{Algorithm: cfg.algorithm},
	}, nil
}

// State returns the current lifecycle state.
func (c *Compressor) State() State {
	return c.state
}

// Stats returns the byte counters of the session so far.
func (c *Compressor) Stats() CompressionStats {
	return c.stats
}

// Write compresses p and forwards all output the engine produces.
//
// The loop keeps stepping until the input is consumed and a drain leaves
// room in the staging buffer, so no ready output is held back.
func (c *Compressor) Write(p []byte) (int, error) {
	if c.state == StateEnded {
		return 0, errs.ErrStreamFinished
	}
	c.state = StateStreaming

	total := 0
	for {
		written, consumed, _, err := c.engine.Step(c.out, p, ModeContinue)
		total += consumed
		c.stats.OriginalSize += int64(consumed)
		if err != nil {
			return total, fmt.Errorf("%w: %w", errs.ErrEncoder, err)
		}
		if err := c.forward(written); err != nil {
			return total, err
		}

		p = p[consumed:]
		if len(p) == 0 && written < len(c.out) {
			return total, nil
		}
		if consumed == 0 && written == 0 {
			return total, fmt.Errorf("%w: %w", errs.ErrEncoder, io.ErrNoProgress)
		}
	}
}

// Flush pushes everything written so far through the engine and calls the
// downstream Flush.
func (c *Compressor) Flush() error {
	if c.state == StateEnded {
		return errs.ErrStreamFinished
	}

	for {
		written, _, _, err := c.engine.Step(c.out, nil, ModeFlush)
		if err != nil {
			return fmt.Errorf("%w: %w", errs.ErrEncoder, err)
		}
		if err := c.forward(written); err != nil {
			return err
		}
		if written < len(c.out) {
			break
		}
	}
	c.state = StateFlushed

	return c.dst.Flush()
}

// Finish terminates the compressed stream, forwards the trailer and calls the
// downstream Finish. The compressor is ended even if the downstream sink fails.
func (c *Compressor) Finish() error {
	if c.state == StateEnded {
		return errs.ErrStreamFinished
	}

	for {
		written, _, remaining, err := c.engine.Step(c.out, nil, ModeEnd)
		if err != nil {
			return fmt.Errorf("%w: %w", errs.ErrEncoder, err)
		}
		if err := c.forward(written); err != nil {
			return err
		}
		if remaining == 0 {
			break
		}
		if written == 0 {
			return fmt.Errorf("%w: %w", errs.ErrEncoder, io.ErrNoProgress)
		}
	}
	c.state = StateEnded

	return c.dst.Finish()
}

// Close releases the engine. Later calls do nothing; any other operation
// after Close returns errs.ErrStreamFinished.
func (c *Compressor) Close() error {
	if c.engine == nil {
		return nil
	}

	c.engine.Release()
	c.engine = nil
	c.state = StateEnded

	return nil
}

func (c *Compressor) forward(n int) error {
	if n == 0 {
		return nil
	}

	written, err := c.dst.Write(c.out[:n])
	c.stats.CompressedSize += int64(written)

	return err
}
