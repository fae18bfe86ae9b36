package main

import (
	"fmt"

	"github.com/barnettlynn/stegoform/internal/imageio"
	"github.com/barnettlynn/stegoform/internal/metrics"
	"github.com/barnettlynn/stegoform/internal/stegoerr"
)

func runMetrics(args []string) error {
	fs, v, vv, logFormat := newFlagSet("metrics")
	coverPath := fs.String("cover", "", "cover image path")
	stegoPath := fs.String("stego", "", "stego image path")
	if err := fs.Parse(args); err != nil {
		return stegoerr.ArgWrap(err, "parse metrics flags")
	}
	configureLogging(*v, *vv, *logFormat)

	if *coverPath == "" || *stegoPath == "" {
		return stegoerr.Arg("metrics requires --cover and --stego")
	}

	cover, err := loadJPEG(*coverPath)
	if err != nil {
		return err
	}
	stego, err := loadJPEG(*stegoPath)
	if err != nil {
		return err
	}

	result, err := metrics.Compare(cover, stego)
	if err != nil {
		return err
	}

	fmt.Printf("PSNR: %s dB\n", result.PSNRString())
	fmt.Printf("RMSE: %s\n", result.RMSEString())
	return nil
}

func loadJPEG(path string) (*imageio.RGBImage, error) {
	f, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return imageio.DecodeJPEG(f)
}
