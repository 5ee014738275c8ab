package compress

import (
	"fmt"

	"github.com/arloliu/numpack/errs"
)

// Zstandard level range accepted by WithLevel.
const (
	ZstdMinLevel = 1
	ZstdMaxLevel = 22
)

func checkZstdLevel(level int) error {
	if level < ZstdMinLevel || level > ZstdMaxLevel {
		return fmt.Errorf("%w: zstd level %d", errs.ErrInvalidLevel, level)
	}

	return nil
}
