package dctmath

import (
	"math"
	"sort"
)

// Coord identifies one candidate coefficient's location across the whole
// block grid.
type Coord struct {
	BlockRow, BlockCol int
	ZigZag             int
}

// EligibleOrder computes the total order over eligible, non-zero
// coefficients fixed by spec.md §4.5: within band [bandLo, bandHi]
// (inclusive, zig-zag indices, DC at 0 always excluded), magnitude cost
// kappa = 1/|round(c)| ascending, ties broken by block-row, block-col, then
// zig-zag index ascending. get(blockRow, blockCol, zigzag) must return the
// post-forward-DCT coefficient value.
func EligibleOrder(blockRows, blockCols, bandLo, bandHi int, get func(br, bc, zz int) float64) []Coord {
	type candidate struct {
		coord Coord
		cost  float64
	}
	var cands []candidate

	for br := 0; br < blockRows; br++ {
		for bc := 0; bc < blockCols; bc++ {
			for zz := bandLo; zz <= bandHi; zz++ {
				v := get(br, bc, zz)
				mag := math.Abs(math.Round(v))
				if mag < 1 {
					continue
				}
				cands = append(cands, candidate{
					coord: Coord{BlockRow: br, BlockCol: bc, ZigZag: zz},
					cost:  1.0 / mag,
				})
			}
		}
	}

	sort.Slice(cands, func(i, j int) bool {
		a, b := cands[i], cands[j]
		if a.cost != b.cost {
			return a.cost < b.cost
		}
		if a.coord.BlockRow != b.coord.BlockRow {
			return a.coord.BlockRow < b.coord.BlockRow
		}
		if a.coord.BlockCol != b.coord.BlockCol {
			return a.coord.BlockCol < b.coord.BlockCol
		}
		return a.coord.ZigZag < b.coord.ZigZag
	})

	out := make([]Coord, len(cands))
	for i, c := range cands {
		out[i] = c.coord
	}
	return out
}

// UsedCount computes ceil(rate * len(eligible)), the capacity formula from
// spec.md §4.5.
func UsedCount(eligibleCount int, rate float64) int {
	return int(math.Ceil(rate * float64(eligibleCount)))
}

// ModulateBit sets the LSB of the coefficient's quantization level,
// level = round(c/step), to bit (0 or 1), preserving sign, then dequantizes
// back to coefficient space: c' = sign(level) * ((|level| & ~1) | b) * step.
//
// step is the quantization divisor the persisted JPEG will actually apply
// at this position (pass 1 for the raw, unquantized domain). Modulating
// the LSB of the raw coefficient instead of the level it is equivalent to
// throwing the bit away whenever the JPEG encoder's table has any step
// above 1: the dequantized coefficient is always a multiple of step, so an
// even step forces an even magnitude regardless of what was written.
//
// A level that would vanish to 0 is bumped to 2 instead of dropped,
// preserving the EligibleOrder >=1 eligibility floor so a modulated
// coefficient never silently exits the candidate set re-derived on
// extract.
func ModulateBit(c float64, step int, bit int) float64 {
	if step < 1 {
		step = 1
	}
	level := math.Round(c / float64(step))
	if level == 0 {
		level = 1
	}
	sign := 1.0
	mag := level
	if level < 0 {
		sign = -1.0
		mag = -level
	}
	magInt := (uint64(mag) &^ 1) | uint64(bit&1)
	if magInt == 0 {
		magInt = 2
	}
	return sign * float64(magInt) * float64(step)
}

// ExtractBit reads the LSB of the coefficient's quantization level,
// round(c/step). step must match the value ModulateBit was called with.
func ExtractBit(c float64, step int) int {
	if step < 1 {
		step = 1
	}
	level := math.Round(c / float64(step))
	mag := uint64(math.Abs(level))
	return int(mag & 1)
}
