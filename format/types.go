// Package format defines the enumerations shared across numpack packages.
package format

import (
	"fmt"
	"strings"
)

type (
	EncodingType    uint8
	CompressionType uint8
)

// Integer encoding families understood by bitstream.Writer and bitstream.Reader.
//
// The bitstream itself never stores these values; they exist so that callers
// can describe their own field layout and dispatch on it.
const (
	EncodingBits            EncodingType = 0x1 // EncodingBits is a fixed-width bit field.
	EncodingVar             EncodingType = 0x2 // EncodingVar is a plain base-128 varint.
	EncodingVarZero         EncodingType = 0x3 // EncodingVarZero is a zero flag followed by a varint.
	EncodingVarSignZero     EncodingType = 0x4 // EncodingVarSignZero is a zero flag followed by a zigzag varint.
	EncodingVarDecZeros     EncodingType = 0x5 // EncodingVarDecZeros is a zero flag, 4-bit decimal zero count and varint.
	EncodingVarSignDecZeros EncodingType = 0x6 // EncodingVarSignDecZeros is the signed variant of EncodingVarDecZeros.
)

const (
	CompressionNone   CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd   CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2     CompressionType = 0x3 // CompressionS2 represents S2 stream compression.
	CompressionLZ4    CompressionType = 0x4 // CompressionLZ4 represents LZ4 frame compression.
	CompressionSnappy CompressionType = 0x5 // CompressionSnappy represents Snappy framed compression.
)

func (e EncodingType) String() string {
	switch e {
	case EncodingBits:
		return "Bits"
	case EncodingVar:
		return "Var"
	case EncodingVarZero:
		return "VarZero"
	case EncodingVarSignZero:
		return "VarSignZero"
	case EncodingVarDecZeros:
		return "VarDecZeros"
	case EncodingVarSignDecZeros:
		return "VarSignDecZeros"
	default:
		return "Unknown"
	}
}

// Signed reports whether the encoding carries signed values.
func (e EncodingType) Signed() bool {
	return e == EncodingVarSignZero || e == EncodingVarSignDecZeros
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	case CompressionSnappy:
		return "Snappy"
	default:
		return "Unknown"
	}
}

// ParseCompressionType converts a case-insensitive name such as "zstd" or "none"
// into a CompressionType.
func ParseCompressionType(name string) (CompressionType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "none", "":
		return CompressionNone, nil
	case "zstd":
		return CompressionZstd, nil
	case "s2":
		return CompressionS2, nil
	case "lz4":
		return CompressionLZ4, nil
	case "snappy":
		return CompressionSnappy, nil
	default:
		return 0, fmt.Errorf("unknown compression type %q", name)
	}
}

// ParseEncodingType converts a case-insensitive encoding name into an EncodingType.
func ParseEncodingType(name string) (EncodingType, error) {
	for e := EncodingBits; e <= EncodingVarSignDecZeros; e++ {
		if strings.EqualFold(e.String(), strings.TrimSpace(name)) {
			return e, nil
		}
	}

	return 0, fmt.Errorf("unknown encoding type %q", name)
}
