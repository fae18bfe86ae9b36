// Package metrics computes PSNR and RMSE between a cover image and its
// stego counterpart, over the RGB triple-channel mean squared error
// (spec.md §6: "metrics --cover A --stego B").
package metrics

import (
	"math"
	"strconv"

	"github.com/barnettlynn/stegoform/internal/imageio"
	"github.com/barnettlynn/stegoform/internal/stegoerr"
)

// Result holds a computed PSNR/RMSE pair. PSNR is math.Inf(1) when MSE is 0.
type Result struct {
	MSE  float64
	RMSE float64
	PSNR float64 // dB; +Inf when MSE == 0
}

// Compare computes MSE/RMSE/PSNR between cover and stego over every RGB
// sample. The two images must share dimensions.
func Compare(cover, stego *imageio.RGBImage) (Result, error) {
	if cover.Width != stego.Width || cover.Height != stego.Height {
		return Result{}, stegoerr.Arg("cover and stego dimensions differ: %dx%d vs %dx%d",
			cover.Width, cover.Height, stego.Width, stego.Height)
	}

	var sumSq float64
	n := len(cover.Pix)
	for i := 0; i < n; i++ {
		d := float64(cover.Pix[i]) - float64(stego.Pix[i])
		sumSq += d * d
	}
	mse := sumSq / float64(n)

	var psnr float64
	if mse == 0 {
		psnr = math.Inf(1)
	} else {
		psnr = 10 * math.Log10((255*255)/mse)
	}

	return Result{MSE: mse, RMSE: math.Sqrt(mse), PSNR: psnr}, nil
}

// PSNRString formats the PSNR value the way the metrics CLI prints it:
// "inf" when unbounded, otherwise fixed to two decimal places.
func (r Result) PSNRString() string {
	if math.IsInf(r.PSNR, 1) {
		return "inf"
	}
	return strconv.FormatFloat(r.PSNR, 'f', 2, 64)
}

// RMSEString formats RMSE to four decimal places.
func (r Result) RMSEString() string {
	return strconv.FormatFloat(r.RMSE, 'f', 4, 64)
}
