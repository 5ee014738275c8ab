package compress

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/s2"

	"github.com/arloliu/numpack/errs"
)

// S2 levels accepted by WithLevel.
const (
	S2LevelDefault = 1
	S2LevelBetter  = 2
	S2LevelBest    = 3
)

// newS2Engine creates an S2 stream engine.
//
// Levels 0 and 1 use the default encoder, 2 the better and 3 the best one.
// The writer runs with a concurrency of one so all output is produced
// synchronously inside Step, in blocks of streamBlockSize.
func newS2Engine(level int) (*streamEngine, error) {
	opts := []s2.WriterOption{s2.WriterConcurrency(1), s2.WriterBlockSize(streamBlockSize)}
	switch {
	case level < 0 || level > S2LevelBest:
		return nil, fmt.Errorf("%w: s2 level %d", errs.ErrInvalidLevel, level)
	case level == S2LevelBetter:
		opts = append(opts, s2.WriterBetterCompression())
	case level == S2LevelBest:
		opts = append(opts, s2.WriterBestCompression())
	}

	return newStreamEngine(func(w io.Writer) (streamEncoder, error) {
		return s2.NewWriter(w, opts...), nil
	})
}

func newS2Reader(r io.Reader) io.ReadCloser {
	return io.NopCloser(s2.NewReader(r))
}
