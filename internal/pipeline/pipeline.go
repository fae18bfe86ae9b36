// Package pipeline orchestrates the end-to-end embed/extract flow from
// spec.md §4.6: payload loading, adaptive compression, optional AEAD
// encryption, framing, codec dispatch, and — on extract — the reverse
// sequence ending in a SHA-256 integrity check. This is the glue the
// teacher's sdmconfig/main.go and ro/main.go play for their own
// load-config/open-device/act/report sequences, generalized to stegoform's
// strict seven-stage pipeline.
package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/barnettlynn/stegoform/internal/aead"
	"github.com/barnettlynn/stegoform/internal/codec/appendcodec"
	"github.com/barnettlynn/stegoform/internal/codec/dctcodec"
	"github.com/barnettlynn/stegoform/internal/compress"
	"github.com/barnettlynn/stegoform/internal/config"
	"github.com/barnettlynn/stegoform/internal/frame"
	"github.com/barnettlynn/stegoform/internal/payload"
	"github.com/barnettlynn/stegoform/internal/stegoerr"
)

// Mode selects the embedding codec.
type Mode string

const (
	ModeAppend Mode = "append"
	ModeDCT    Mode = "dct"
)

// EmbedOptions bundles every call-time tunable for Embed.
type EmbedOptions struct {
	Mode     Mode
	Rate     float64 // DCT only; ignored for append
	Preset   config.Preset
	Encrypt  bool
	Password []byte // required iff Encrypt
}

// ExtractOptions bundles every call-time tunable for Extract.
type ExtractOptions struct {
	Preset   config.Preset // DCT only; ignored for append
	Password []byte        // required iff the framed blob was encrypted
}

// Embed runs the full pipeline: load payload -> compress -> optional
// encrypt -> frame -> codec embed -> write stego bytes to outPath.
func Embed(coverPath, payloadPath, outPath string, opts EmbedOptions) error {
	loaded, err := payload.Load(payloadPath)
	if err != nil {
		return err
	}
	defer aead.Zero(loaded.Bytes)
	slog.Info("payload loaded", "path", payloadPath, "kind", loaded.Kind, "size", len(loaded.Bytes))

	sum := sha256.Sum256(loaded.Bytes)
	plainSize := len(loaded.Bytes)

	comp, err := compress.CompressAuto(loaded.Bytes)
	if err != nil {
		return err
	}
	slog.Debug("compressed payload", "method", comp.Method, "ratio", comp.Ratio, "blob_size", len(comp.Blob))

	blob := comp.Blob
	encrypted := false
	if opts.Encrypt {
		if len(opts.Password) == 0 {
			return stegoerr.Arg("encryption requested but no password supplied")
		}
		key := aead.DeriveKey(opts.Password)
		defer aead.Zero(key[:])
		blob, err = aead.Encrypt(key, comp.Blob)
		if err != nil {
			return err
		}
		encrypted = true
		slog.Debug("payload encrypted", "blob_size", len(blob))
	}

	cover, err := os.ReadFile(coverPath)
	if err != nil {
		return stegoerr.IOWrap(err, "read cover %s", coverPath)
	}

	meta := frame.Metadata{
		Mode:       string(opts.Mode),
		Encrypted:  encrypted,
		Comp:       string(comp.Method),
		CompRatio:  comp.Ratio,
		PlainSize:  plainSize,
		BlobSize:   len(blob),
		SHA256:     hex.EncodeToString(sum[:]),
		SourceKind: string(loaded.Kind),
		SourceName: loaded.Name,
	}
	if opts.Mode == ModeDCT {
		meta.Rate = opts.Rate
		meta.ChannelPreset = opts.Preset.Name
		blockCount, usedCoefs, cerr := dctcodec.Capacity(cover, dctcodec.Options{Preset: opts.Preset, Rate: opts.Rate})
		if cerr != nil {
			return cerr
		}
		meta.BlockCount = blockCount
		meta.UsedCoefs = usedCoefs
	}

	framed, err := frame.Build(meta, blob)
	if err != nil {
		return err
	}

	var stego []byte
	switch opts.Mode {
	case ModeAppend:
		stego, err = appendcodec.Embed(cover, framed)
	case ModeDCT:
		stego, err = dctcodec.Embed(cover, framed, dctcodec.Options{Preset: opts.Preset, Rate: opts.Rate})
	default:
		return stegoerr.Arg("unknown mode %q", opts.Mode)
	}
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return stegoerr.IOWrap(err, "create output directory for %s", outPath)
	}
	if err := os.WriteFile(outPath, stego, 0o644); err != nil {
		return stegoerr.IOWrap(err, "write stego file %s", outPath)
	}
	slog.Info("embed complete", "mode", opts.Mode, "out", outPath, "stego_size", len(stego))
	return nil
}

// Extract runs the pipeline in reverse: read stego -> codec extract ->
// decrypt -> decompress -> verify SHA-256 -> write recovered payload.
func Extract(stegoPath, outDir string, mode Mode, opts ExtractOptions) error {
	stego, err := os.ReadFile(stegoPath)
	if err != nil {
		return stegoerr.IOWrap(err, "read stego %s", stegoPath)
	}
	slog.Info("stego read", "path", stegoPath, "mode", mode, "size", len(stego))

	var meta frame.Metadata
	var blob []byte
	switch mode {
	case ModeAppend:
		meta, blob, err = appendcodec.Extract(stego)
	case ModeDCT:
		blob, err = dctcodec.Extract(stego, dctcodec.Options{Preset: opts.Preset})
		if err == nil {
			meta, blob, err = frame.Parse(blob, frame.FindFirst)
		}
	default:
		return stegoerr.Arg("unknown mode %q", mode)
	}
	if err != nil {
		return err
	}
	slog.Debug("framed blob recovered", "comp", meta.Comp, "encrypted", meta.Encrypted, "blob_size", len(blob))

	if meta.Encrypted {
		if len(opts.Password) == 0 {
			return stegoerr.Arg("stego payload is encrypted but no password supplied")
		}
		key := aead.DeriveKey(opts.Password)
		defer aead.Zero(key[:])
		blob, err = aead.Decrypt(key, blob)
		if err != nil {
			return err
		}
	}

	plaintext, err := compress.Decompress(blob)
	if err != nil {
		return err
	}
	defer aead.Zero(plaintext)

	sum := sha256.Sum256(plaintext)
	if hex.EncodeToString(sum[:]) != meta.SHA256 {
		return stegoerr.Integrity("recovered plaintext SHA-256 mismatch")
	}
	slog.Info("integrity verified", "plain_size", len(plaintext), "source_kind", meta.SourceKind)

	return payload.WriteOut(payload.SourceKind(meta.SourceKind), meta.SourceName, plaintext, outDir)
}
