// Package imageio implements the image file I/O collaborator (spec.md §1:
// "treated as a decoder/encoder that returns pixel planes or raw bytes").
// Decode and the RGB<->YCbCr color math here are plain pixel-domain work
// with no quantization decisions to get right, so they stay on the standard
// library's image/jpeg and image/color; EncodeJPEG is kept as a
// general-purpose pixel-domain encoder for building test-fixture JPEGs and
// for any future caller that wants an ordinary re-encode. The DCT codec
// does not call it: a persisted JPEG's own FDCT+quantization pass would
// silently overwrite whatever bits were modulated into pixel-domain
// coefficients, so internal/codec/dctcodec encodes directly in coefficient
// space via github.com/google/wuffs/lib/lowleveljpeg instead.
package imageio

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"io"

	"github.com/barnettlynn/stegoform/internal/stegoerr"
)

// RGBImage is a rectangular grid of 8-bit R,G,B triples, row-major.
type RGBImage struct {
	Width, Height int
	Pix           []byte // len == Width*Height*3
}

// DecodeJPEG decodes r into an RGBImage, converting from whatever native
// color model the source uses.
func DecodeJPEG(r io.Reader) (*RGBImage, error) {
	img, err := jpeg.Decode(r)
	if err != nil {
		return nil, stegoerr.IOWrap(err, "decode JPEG carrier")
	}
	return fromImage(img), nil
}

// DecodeJPEGBytes is a convenience wrapper around DecodeJPEG for in-memory
// cover bytes.
func DecodeJPEGBytes(b []byte) (*RGBImage, error) {
	return DecodeJPEG(bytes.NewReader(b))
}

// EncodeJPEG encodes img as a JPEG at the given quality (1-100).
func EncodeJPEG(w io.Writer, img *RGBImage, quality int) error {
	nrgba := img.toNRGBA()
	if err := jpeg.Encode(w, nrgba, &jpeg.Options{Quality: quality}); err != nil {
		return stegoerr.RuntimeWrap(err, "encode stego JPEG")
	}
	return nil
}

func fromImage(img image.Image) *RGBImage {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := &RGBImage{Width: w, Height: h, Pix: make([]byte, w*h*3)}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			i := (y*w + x) * 3
			out.Pix[i] = byte(r >> 8)
			out.Pix[i+1] = byte(g >> 8)
			out.Pix[i+2] = byte(bl >> 8)
		}
	}
	return out
}

func (img *RGBImage) toNRGBA() *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, img.Width, img.Height))
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			i := (y*img.Width + x) * 3
			out.SetNRGBA(x, y, color.NRGBA{
				R: img.Pix[i], G: img.Pix[i+1], B: img.Pix[i+2], A: 0xFF,
			})
		}
	}
	return out
}

// At returns the RGB triple at (x,y).
func (img *RGBImage) At(x, y int) (r, g, b byte) {
	i := (y*img.Width + x) * 3
	return img.Pix[i], img.Pix[i+1], img.Pix[i+2]
}
