package main

import (
	"fmt"
	"os"

	"github.com/barnettlynn/stegoform/internal/aead"
	"github.com/barnettlynn/stegoform/internal/config"
	"github.com/barnettlynn/stegoform/internal/frame"
	"github.com/barnettlynn/stegoform/internal/pipeline"
	"github.com/barnettlynn/stegoform/internal/stegoerr"
)

func runExtract(args []string) error {
	fs, v, vv, logFormat := newFlagSet("extract")
	stego := fs.String("s", "", "stego file path")
	outDir := fs.String("o", "", "output directory")
	channel := fs.String("channel", "none", "channel preset used at embed time (DCT mode only)")
	channelConfig := fs.String("config", "", "optional YAML file of additional/overriding channel presets")
	password := fs.String("password", "", "password literal")
	passEnv := fs.String("pass-env", "", "name of an environment variable holding the password")
	if err := fs.Parse(args); err != nil {
		return stegoerr.ArgWrap(err, "parse extract flags")
	}
	configureLogging(*v, *vv, *logFormat)

	if *stego == "" || *outDir == "" {
		return stegoerr.Arg("extract requires -s and -o")
	}

	mode, err := detectMode(*stego)
	if err != nil {
		return err
	}

	table := config.DefaultTable()
	if *channelConfig != "" {
		if err := table.LoadOverrides(*channelConfig); err != nil {
			return err
		}
	}
	preset, err := table.Lookup(*channel)
	if err != nil {
		return err
	}

	opts := pipeline.ExtractOptions{Preset: preset}
	pw, err := resolvePassword(*password, *passEnv, false, "")
	if err != nil {
		return err
	}
	if len(pw) > 0 {
		defer aead.Zero(pw)
		opts.Password = pw
	}

	if err := pipeline.Extract(*stego, *outDir, mode, opts); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "extracted %s into %s (%s)\n", *stego, *outDir, mode)
	return nil
}

// detectMode distinguishes append-mode stego files (plain JPEG + trailing
// framed blob, last-occurrence marker present near the end of the raw
// bytes) from DCT-mode stego files (marker recoverable only after decoding
// pixel coefficients, absent from the raw byte stream) by checking for the
// marker directly in the file bytes.
func detectMode(path string) (pipeline.Mode, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", stegoerr.IOWrap(err, "read stego %s", path)
	}
	if frame.ContainsMarker(raw) {
		return pipeline.ModeAppend, nil
	}
	return pipeline.ModeDCT, nil
}
