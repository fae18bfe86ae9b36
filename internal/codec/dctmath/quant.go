package dctmath

import "github.com/google/wuffs/lib/lowleveljpeg"

// LumaQuantTable returns the 64 standard luminance quantization steps a
// baseline JPEG encoder at the given quality (1..100) will actually divide
// each FDCT coefficient by, addressed in the same row-major (non-zig-zag)
// layout as Block. It reuses the library's libjpeg-compatible
// SetToStandardValues scaling algorithm rather than re-deriving Table K.1's
// quality scaling by hand.
func LumaQuantTable(quality int) [64]int {
	var quants lowleveljpeg.Array2QuantizationFactors
	quants.SetToStandardValues(quality)

	var out [64]int
	for i, v := range quants[0] {
		out[i] = int(v)
	}
	return out
}

// QuantStepAt returns table's quantization step at zig-zag position zz.
func QuantStepAt(table [64]int, zz int) int {
	r, c := ZigZagRowCol(zz)
	return table[r*N+c]
}
