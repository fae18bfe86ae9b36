package main

import (
	"fmt"
	"os"

	"github.com/barnettlynn/stegoform/internal/aead"
	"github.com/barnettlynn/stegoform/internal/config"
	"github.com/barnettlynn/stegoform/internal/pipeline"
	"github.com/barnettlynn/stegoform/internal/stegoerr"
)

func runEmbed(args []string) error {
	fs, v, vv, logFormat := newFlagSet("embed")
	mode := fs.String("m", "", "embedding mode: append or dct")
	cover := fs.String("c", "", "cover image path")
	payloadPath := fs.String("p", "", "payload file or directory path")
	out := fs.String("o", "", "output stego file path")
	rate := fs.Float64("rate", 0.05, "DCT bits-per-eligible-coefficient rate, clamped to the preset's rate_cap")
	channel := fs.String("channel", "none", "channel preset: none, whatsapp, or telegram")
	channelConfig := fs.String("config", "", "optional YAML file of additional/overriding channel presets")
	encrypt := fs.Bool("encrypt", false, "encrypt the framed payload with AES-256-GCM")
	password := fs.String("password", "", "password literal (insecure on shared machines; prefer --pass-env)")
	passEnv := fs.String("pass-env", "", "name of an environment variable holding the password")
	if err := fs.Parse(args); err != nil {
		return stegoerr.ArgWrap(err, "parse embed flags")
	}
	configureLogging(*v, *vv, *logFormat)

	if *cover == "" || *payloadPath == "" || *out == "" {
		return stegoerr.Arg("embed requires -c, -p, and -o")
	}

	var pmode pipeline.Mode
	switch *mode {
	case "append":
		pmode = pipeline.ModeAppend
	case "dct":
		pmode = pipeline.ModeDCT
	default:
		return stegoerr.Arg("unknown mode %q, want append or dct", *mode)
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

	opts := pipeline.EmbedOptions{
		Mode:   pmode,
		Rate:   preset.ClampRate(*rate),
		Preset: preset,
	}

	if *encrypt {
		pw, err := resolvePassword(*password, *passEnv, true, "Encryption password: ")
		if err != nil {
			return err
		}
		if len(pw) == 0 {
			return stegoerr.Arg("--encrypt requires a non-empty password")
		}
		defer aead.Zero(pw)
		opts.Encrypt = true
		opts.Password = pw
	}

	if err := pipeline.Embed(*cover, *payloadPath, *out, opts); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "embedded %s into %s (%s, rate=%.3f)\n", *payloadPath, *out, *mode, opts.Rate)
	return nil
}
