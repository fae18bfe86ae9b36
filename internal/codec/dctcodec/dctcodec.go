// Package dctcodec implements the content-adaptive DCT codec from
// spec.md §4.5: the framed blob is embedded into the LSB of the quantized
// level of mid-frequency AC coefficients of 8x8 luminance blocks, ordered by
// a deterministic magnitude-cost total order.
//
// Embed writes directly to the coefficient domain the persisted JPEG will
// use, via lowleveljpeg.Encoder, instead of handing pixels to a pixel-domain
// encoder that would re-run its own FDCT and quantization over whatever bits
// were written. A second, independent quantization pass is exactly what
// would throw modulated bits away: every coefficient that survives to the
// wire is an exact multiple of its position's quantization step, which is
// the only way the embedded LSB is guaranteed recoverable at extract time.
package dctcodec

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/google/wuffs/lib/lowleveljpeg"

	"github.com/barnettlynn/stegoform/internal/codec/dctmath"
	"github.com/barnettlynn/stegoform/internal/config"
	"github.com/barnettlynn/stegoform/internal/imageio"
	"github.com/barnettlynn/stegoform/internal/stegoerr"
)

// headerBits is the fixed-width big-endian length prefix placed at the
// front of the embed sequence (spec.md §4.5 "Header placement").
const headerBits = 32

// Options controls one embed or extract call.
type Options struct {
	Preset config.Preset
	Rate   float64 // clamped to Preset.RateCap by the caller before Embed
}

// blockGrid holds the forward-DCT coefficients of every 8x8 block of a
// plane, addressable as (blockRow, blockCol, zigzag).
type blockGrid struct {
	rows, cols int
	blocks     [][]dctmath.Block
}

func newBlockGrid(p *imageio.Plane) *blockGrid {
	g := &blockGrid{rows: p.BlockRows(), cols: p.BlockCols()}
	g.blocks = make([][]dctmath.Block, g.rows)
	for br := 0; br < g.rows; br++ {
		g.blocks[br] = make([]dctmath.Block, g.cols)
		for bc := 0; bc < g.cols; bc++ {
			g.blocks[br][bc] = dctmath.Forward2D(p.GetBlock(br, bc))
		}
	}
	return g
}

func (g *blockGrid) get(br, bc, zz int) float64 { return dctmath.At(g.blocks[br][bc], zz) }

func (g *blockGrid) set(br, bc, zz int, v float64) { dctmath.Set(&g.blocks[br][bc], zz, v) }

// Capacity reports the luminance block-grid size and the number of
// coefficients Embed would draw candidates from for cover under opts,
// without touching any payload bits. Both values depend only on the cover
// image and opts, not on blob length, so callers that must know them ahead
// of frame.Build (spec.md §3's block_count/used_coefs metadata fields) call
// this before constructing the frame whose bytes Embed will then carry.
func Capacity(cover []byte, opts Options) (blockCount, usedCoefs int, err error) {
	img, err := imageio.DecodeJPEGBytes(cover)
	if err != nil {
		return 0, 0, err
	}
	y, _, _ := imageio.ToYCbCr(img)
	grid := newBlockGrid(y)
	order := dctmath.EligibleOrder(grid.rows, grid.cols, opts.Preset.BandLo, opts.Preset.BandHi, grid.get)
	used := dctmath.UsedCount(len(order), opts.Rate)
	return grid.rows * grid.cols, used, nil
}

// Embed writes blob's bits into cover's luminance plane and re-encodes the
// result as a JPEG at opts.Preset.Quality. It returns the stego JPEG bytes,
// or a RuntimeError (capacity shortfall or encode failure) / IOError (cover
// decode failure).
func Embed(cover []byte, blob []byte, opts Options) ([]byte, error) {
	img, err := imageio.DecodeJPEGBytes(cover)
	if err != nil {
		return nil, err
	}

	y, cb, cr := imageio.ToYCbCr(img)
	yGrid := newBlockGrid(y)
	cbGrid := newBlockGrid(cb)
	crGrid := newBlockGrid(cr)

	quantLuma := dctmath.LumaQuantTable(opts.Preset.Quality)

	order := dctmath.EligibleOrder(yGrid.rows, yGrid.cols, opts.Preset.BandLo, opts.Preset.BandHi, yGrid.get)
	used := dctmath.UsedCount(len(order), opts.Rate)

	required := headerBits + 8*len(blob)
	if used < required {
		return nil, stegoerr.CapacityError(required, used)
	}

	bits := toBits(blob)
	allBits := make([]int, 0, headerBits+len(bits))
	allBits = append(allBits, lengthBits(len(blob))...)
	allBits = append(allBits, bits...)

	for i, bit := range allBits {
		c := order[i]
		step := dctmath.QuantStepAt(quantLuma, c.ZigZag)
		v := yGrid.get(c.BlockRow, c.BlockCol, c.ZigZag)
		yGrid.set(c.BlockRow, c.BlockCol, c.ZigZag, dctmath.ModulateBit(v, step, bit))
	}

	return encodeCoefficientJPEG(yGrid, cbGrid, crGrid, y.OrigW, y.OrigH, opts.Preset.Quality)
}

// Extract re-derives the eligible coefficient order from the stego JPEG,
// reads the 32-bit length header, then the framed blob's bytes. No list of
// embedded positions is stored, so the blob comes back intact only when this
// re-derived order matches the order Embed computed from the cover.
func Extract(stego []byte, opts Options) ([]byte, error) {
	img, err := imageio.DecodeJPEGBytes(stego)
	if err != nil {
		return nil, err
	}

	y, _, _ := imageio.ToYCbCr(img)
	grid := newBlockGrid(y)
	quantLuma := dctmath.LumaQuantTable(opts.Preset.Quality)

	order := dctmath.EligibleOrder(grid.rows, grid.cols, opts.Preset.BandLo, opts.Preset.BandHi, grid.get)
	if len(order) < headerBits {
		return nil, stegoerr.Integrity("stego image too small to contain a length header")
	}

	headerBitVals := make([]int, headerBits)
	for i := 0; i < headerBits; i++ {
		c := order[i]
		step := dctmath.QuantStepAt(quantLuma, c.ZigZag)
		headerBitVals[i] = dctmath.ExtractBit(grid.get(c.BlockRow, c.BlockCol, c.ZigZag), step)
	}
	blobLen := int(bitsToUint32(headerBitVals))

	required := headerBits + 8*blobLen
	if len(order) < required {
		return nil, stegoerr.Integrity("stego image does not contain enough coefficients for the declared length %d", blobLen)
	}

	dataBits := make([]int, 8*blobLen)
	for i := 0; i < 8*blobLen; i++ {
		c := order[headerBits+i]
		step := dctmath.QuantStepAt(quantLuma, c.ZigZag)
		dataBits[i] = dctmath.ExtractBit(grid.get(c.BlockRow, c.BlockCol, c.ZigZag), step)
	}
	return fromBits(dataBits), nil
}

// encodeCoefficientJPEG writes a baseline 4:4:4 JPEG directly from
// already-computed DCT coefficients, bypassing any second FDCT/quantization
// pass over pixels. yGrid, cbGrid and crGrid must share the same block
// dimensions.
func encodeCoefficientJPEG(yGrid, cbGrid, crGrid *blockGrid, width, height, quality int) ([]byte, error) {
	var quants lowleveljpeg.Array2QuantizationFactors
	quants.SetToStandardValues(quality)
	encOpts := &lowleveljpeg.EncoderOptions{QuantizationFactors: &quants}

	var buf bytes.Buffer
	var enc lowleveljpeg.Encoder
	if err := enc.Reset(&buf, lowleveljpeg.ColorTypeYCbCr444, width, height, encOpts); err != nil {
		return nil, stegoerr.RuntimeWrap(err, "reset coefficient-level JPEG encoder")
	}

	var mcu lowleveljpeg.Array3BlockI16
	for br := 0; br < yGrid.rows; br++ {
		for bc := 0; bc < yGrid.cols; bc++ {
			writeBlockI16(&mcu[0], yGrid.blocks[br][bc])
			writeBlockI16(&mcu[1], cbGrid.blocks[br][bc])
			writeBlockI16(&mcu[2], crGrid.blocks[br][bc])
			if err := enc.Add3(&buf, &mcu); err != nil {
				return nil, stegoerr.RuntimeWrap(err, "encode MCU at block (%d,%d)", br, bc)
			}
		}
	}
	return buf.Bytes(), nil
}

// writeBlockI16 rounds and clamps blk's coefficients into dst, addressed in
// the same row-major layout lowleveljpeg uses for its quantization tables.
func writeBlockI16(dst *lowleveljpeg.BlockI16, blk dctmath.Block) {
	for r := 0; r < dctmath.N; r++ {
		for c := 0; c < dctmath.N; c++ {
			dst[r*dctmath.N+c] = clampInt16(blk[r][c], r == 0 && c == 0)
		}
	}
}

// clampInt16 rounds v to the nearest integer and clamps it to the range
// BlockI16.IsValid accepts: [-1024, 1023] for the DC term, [-1023, 1023]
// for AC terms.
func clampInt16(v float64, isDC bool) int16 {
	r := math.Round(v)
	lo := -1023.0
	if isDC {
		lo = -1024.0
	}
	if r < lo {
		r = lo
	} else if r > 1023 {
		r = 1023
	}
	return int16(r)
}

func lengthBits(n int) []int {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], uint32(n))
	bits := make([]int, 0, headerBits)
	for _, b := range buf {
		for i := 7; i >= 0; i-- {
			bits = append(bits, int((b>>uint(i))&1))
		}
	}
	return bits
}

func bitsToUint32(bits []int) uint32 {
	var v uint32
	for _, b := range bits {
		v = (v << 1) | uint32(b&1)
	}
	return v
}

func toBits(data []byte) []int {
	bits := make([]int, 0, 8*len(data))
	for _, b := range data {
		for i := 7; i >= 0; i-- {
			bits = append(bits, int((b>>uint(i))&1))
		}
	}
	return bits
}

func fromBits(bits []int) []byte {
	out := make([]byte, len(bits)/8)
	for i := range out {
		var b byte
		for j := 0; j < 8; j++ {
			b = (b << 1) | byte(bits[i*8+j]&1)
		}
		out[i] = b
	}
	return out
}
