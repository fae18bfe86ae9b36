package dctmath

// zigzagLinear maps a zig-zag scan index (0..63) to a row-major linear index
// (row*8+col) within an 8x8 block, the standard JPEG scan order.
var zigzagLinear = [64]int{
	0, 1, 8, 16, 9, 2, 3, 10,
	17, 24, 32, 25, 18, 11, 4, 5,
	12, 19, 26, 33, 40, 48, 41, 34,
	27, 20, 13, 6, 7, 14, 21, 28,
	35, 42, 49, 56, 57, 50, 43, 36,
	29, 22, 15, 23, 30, 37, 44, 51,
	58, 59, 52, 45, 38, 31, 39, 46,
	53, 60, 61, 54, 47, 55, 62, 63,
}

// ZigZagRowCol converts a zig-zag index (0=DC, 1..63 AC) into (row, col)
// within an 8x8 block.
func ZigZagRowCol(zz int) (row, col int) {
	lin := zigzagLinear[zz]
	return lin / N, lin % N
}

// At reads the coefficient at zig-zag position zz from blk.
func At(blk Block, zz int) float64 {
	r, c := ZigZagRowCol(zz)
	return blk[r][c]
}

// Set writes v at zig-zag position zz in blk.
func Set(blk *Block, zz int, v float64) {
	r, c := ZigZagRowCol(zz)
	blk[r][c] = v
}
