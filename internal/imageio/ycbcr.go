package imageio

// Plane is a row-major grid of float64 samples padded up to a multiple of 8
// in each dimension by edge replication, per spec.md §4.5 ("right/bottom
// edges padded by replication to a multiple of 8"). OrigW/OrigH record the
// true image dimensions so the plane can be cropped back on reassembly.
type Plane struct {
	Width, Height int // padded, multiples of 8
	OrigW, OrigH  int
	Data          []float64 // len == Width*Height
}

func (p *Plane) at(x, y int) float64     { return p.Data[y*p.Width+x] }
func (p *Plane) set(x, y int, v float64) { p.Data[y*p.Width+x] = v }

// BlockRows and BlockCols report the 8x8 block grid dimensions.
func (p *Plane) BlockRows() int { return p.Height / 8 }
func (p *Plane) BlockCols() int { return p.Width / 8 }

// GetBlock copies the 8x8 block at (blockRow, blockCol) into a fresh array.
func (p *Plane) GetBlock(blockRow, blockCol int) [8][8]float64 {
	var blk [8][8]float64
	baseY, baseX := blockRow*8, blockCol*8
	for i := 0; i < 8; i++ {
		for j := 0; j < 8; j++ {
			blk[i][j] = p.at(baseX+j, baseY+i)
		}
	}
	return blk
}

// SetBlock writes blk back into the plane at (blockRow, blockCol).
func (p *Plane) SetBlock(blockRow, blockCol int, blk [8][8]float64) {
	baseY, baseX := blockRow*8, blockCol*8
	for i := 0; i < 8; i++ {
		for j := 0; j < 8; j++ {
			p.set(baseX+j, baseY+i, blk[i][j])
		}
	}
}

func paddedSize(n int) int {
	if n%8 == 0 {
		return n
	}
	return n + (8 - n%8)
}

// ToYCbCr converts an RGBImage to three padded Y/Cb/Cr planes using the
// ITU-R BT.601 full-range formulas named in spec.md §4.5.
func ToYCbCr(img *RGBImage) (y, cb, cr *Plane) {
	pw, ph := paddedSize(img.Width), paddedSize(img.Height)
	y = &Plane{Width: pw, Height: ph, OrigW: img.Width, OrigH: img.Height, Data: make([]float64, pw*ph)}
	cb = &Plane{Width: pw, Height: ph, OrigW: img.Width, OrigH: img.Height, Data: make([]float64, pw*ph)}
	cr = &Plane{Width: pw, Height: ph, OrigW: img.Width, OrigH: img.Height, Data: make([]float64, pw*ph)}

	for py := 0; py < ph; py++ {
		sy := py
		if sy >= img.Height {
			sy = img.Height - 1
		}
		for px := 0; px < pw; px++ {
			sx := px
			if sx >= img.Width {
				sx = img.Width - 1
			}
			r, g, b := img.At(sx, sy)
			fr, fg, fb := float64(r), float64(g), float64(b)

			yy := 0.299*fr + 0.587*fg + 0.114*fb
			cbv := -0.168736*fr - 0.331264*fg + 0.5*fb + 128
			crv := 0.5*fr - 0.418688*fg - 0.081312*fb + 128

			y.set(px, py, yy)
			cb.set(px, py, cbv)
			cr.set(px, py, crv)
		}
	}
	return y, cb, cr
}

// FromYCbCr reassembles an RGBImage from the three planes, cropping back to
// the original (unpadded) dimensions.
func FromYCbCr(y, cb, cr *Plane) *RGBImage {
	w, h := y.OrigW, y.OrigH
	out := &RGBImage{Width: w, Height: h, Pix: make([]byte, w*h*3)}

	for py := 0; py < h; py++ {
		for px := 0; px < w; px++ {
			yy := y.at(px, py)
			cbv := cb.at(px, py) - 128
			crv := cr.at(px, py) - 128

			r := yy + 1.402*crv
			g := yy - 0.344136*cbv - 0.714136*crv
			b := yy + 1.772*cbv

			i := (py*w + px) * 3
			out.Pix[i] = clampByte(r)
			out.Pix[i+1] = clampByte(g)
			out.Pix[i+2] = clampByte(b)
		}
	}
	return out
}

func clampByte(v float64) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v + 0.5)
}
