package dctcodec

import (
	"bytes"
	"testing"

	"github.com/barnettlynn/stegoform/internal/config"
	"github.com/barnettlynn/stegoform/internal/imageio"
)

func gradientCoverJPEG(t *testing.T, w, h, quality int) []byte {
	t.Helper()
	img := &imageio.RGBImage{Width: w, Height: h, Pix: make([]byte, w*h*3)}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := (y*w + x) * 3
			img.Pix[i] = byte((x * 7) % 256)
			img.Pix[i+1] = byte((y * 13) % 256)
			img.Pix[i+2] = byte((x + y*3) % 256)
		}
	}
	var buf bytes.Buffer
	if err := imageio.EncodeJPEG(&buf, img, quality); err != nil {
		t.Fatalf("EncodeJPEG: %v", err)
	}
	return buf.Bytes()
}

func TestEmbedExtractRoundTripSmallPayload(t *testing.T) {
	cover := gradientCoverJPEG(t, 256, 256, 95)
	opts := Options{Preset: config.Preset{Quality: 95, BandLo: 6, BandHi: 28, RateCap: 1.0}, Rate: 1.0}

	blob := []byte("small payload bytes for DCT embedding test")
	stego, err := Embed(cover, blob, opts)
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}

	got, err := Extract(stego, opts)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if !bytes.Equal(got, blob) {
		t.Errorf("round trip mismatch: got %q want %q", got, blob)
	}
}

func TestEmbedFailsOnInsufficientCapacity(t *testing.T) {
	cover := gradientCoverJPEG(t, 16, 16, 95)
	opts := Options{Preset: config.Preset{Quality: 95, BandLo: 6, BandHi: 28, RateCap: 1.0}, Rate: 0.01}

	blob := make([]byte, 10000)
	_, err := Embed(cover, blob, opts)
	if err == nil {
		t.Fatal("expected capacity error, got nil")
	}
}

func TestEmbedExtractWithWhatsappPreset(t *testing.T) {
	cover := gradientCoverJPEG(t, 256, 256, 95)
	preset := config.Preset{Name: "whatsapp", Quality: 85, BandLo: 10, BandHi: 24, RateCap: 0.05}
	opts := Options{Preset: preset, Rate: preset.ClampRate(1.0)}

	blob := []byte("whatsapp-sized payload")
	stego, err := Embed(cover, blob, opts)
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	got, err := Extract(stego, opts)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if !bytes.Equal(got, blob) {
		t.Errorf("round trip mismatch under whatsapp preset: got %q want %q", got, blob)
	}
}

func TestLengthBitsRoundTrip(t *testing.T) {
	for _, n := range []int{0, 1, 255, 256, 70000} {
		bits := lengthBits(n)
		if len(bits) != headerBits {
			t.Fatalf("lengthBits(%d) returned %d bits, want %d", n, len(bits), headerBits)
		}
		got := bitsToUint32(bits)
		if int(got) != n {
			t.Errorf("lengthBits/bitsToUint32 round trip: got %d want %d", got, n)
		}
	}
}

func TestToBitsFromBitsRoundTrip(t *testing.T) {
	data := []byte{0x00, 0xFF, 0x5A, 0x01, 0x80}
	bits := toBits(data)
	got := fromBits(bits)
	if !bytes.Equal(got, data) {
		t.Errorf("toBits/fromBits round trip: got %v want %v", got, data)
	}
}
