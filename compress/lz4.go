package compress

import (
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"

	"github.com/arloliu/numpack/errs"
)

var lz4Levels = [...]lz4.CompressionLevel{
	lz4.Fast,
	lz4.Level1, lz4.Level2, lz4.Level3,
	lz4.Level4, lz4.Level5, lz4.Level6,
	lz4.Level7, lz4.Level8, lz4.Level9,
}

// newLZ4Engine creates an LZ4 frame engine. Level 0 is the fast mode,
// 1 through 9 select the high compression levels.
func newLZ4Engine(level int) (*streamEngine, error) {
	if level < 0 || level >= len(lz4Levels) {
		return nil, fmt.Errorf("%w: lz4 level %d", errs.ErrInvalidLevel, level)
	}

	return newStreamEngine(func(w io.Writer) (streamEncoder, error) {
		zw := lz4.NewWriter(w)
		if err := zw.Apply(
			lz4.CompressionLevelOption(lz4Levels[level]),
			lz4.ConcurrencyOption(1),
			lz4.BlockSizeOption(lz4.Block64Kb),
		); err != nil {
			return nil, err
		}

		return zw, nil
	})
}

func newLZ4Reader(r io.Reader) io.ReadCloser {
	return io.NopCloser(lz4.NewReader(r))
}
