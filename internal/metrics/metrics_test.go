package metrics

import (
	"math"
	"testing"

	"github.com/barnettlynn/stegoform/internal/imageio"
)

func makeImg(w, h int, fill func(i int) byte) *imageio.RGBImage {
	img := &imageio.RGBImage{Width: w, Height: h, Pix: make([]byte, w*h*3)}
	for i := range img.Pix {
		img.Pix[i] = fill(i)
	}
	return img
}

func TestCompareIdenticalImagesGivesInfPSNR(t *testing.T) {
	a := makeImg(4, 4, func(i int) byte { return byte(i % 256) })
	b := makeImg(4, 4, func(i int) byte { return byte(i % 256) })

	r, err := Compare(a, b)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if r.MSE != 0 {
		t.Errorf("expected MSE 0, got %v", r.MSE)
	}
	if !math.IsInf(r.PSNR, 1) {
		t.Errorf("expected PSNR +Inf, got %v", r.PSNR)
	}
	if r.PSNRString() != "inf" {
		t.Errorf("expected PSNRString 'inf', got %q", r.PSNRString())
	}
}

func TestCompareDifferingImagesGivesFiniteMetrics(t *testing.T) {
	a := makeImg(2, 2, func(i int) byte { return 100 })
	b := makeImg(2, 2, func(i int) byte { return 110 })

	r, err := Compare(a, b)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if r.MSE != 100 {
		t.Errorf("expected MSE 100, got %v", r.MSE)
	}
	if r.RMSE != 10 {
		t.Errorf("expected RMSE 10, got %v", r.RMSE)
	}
	if math.IsInf(r.PSNR, 0) {
		t.Errorf("expected finite PSNR, got %v", r.PSNR)
	}
}

func TestCompareDimensionMismatchErrors(t *testing.T) {
	a := makeImg(2, 2, func(i int) byte { return 0 })
	b := makeImg(3, 3, func(i int) byte { return 0 })

	_, err := Compare(a, b)
	if err == nil {
		t.Fatal("expected error on dimension mismatch, got nil")
	}
}
