package appendcodec

import (
	"bytes"
	"testing"

	"github.com/barnettlynn/stegoform/internal/frame"
)

func TestEmbedExtractRoundTrip(t *testing.T) {
	cover := []byte("fake jpeg bytes, not really a jpeg but that's fine for this test")
	meta := frame.Metadata{
		Mode:       "append",
		Comp:       "lz77",
		PlainSize:  11,
		BlobSize:   5,
		SHA256:     "deadbeef",
		SourceKind: "file",
		SourceName: "hello.txt",
	}
	blob, err := frame.Build(meta, []byte("hello"))
	if err != nil {
		t.Fatalf("frame.Build: %v", err)
	}

	stego, err := Embed(cover, blob)
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if !bytes.HasPrefix(stego, cover) {
		t.Fatalf("stego does not start with cover bytes")
	}

	gotMeta, gotBlob, err := Extract(stego)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if string(gotBlob) != "hello" {
		t.Errorf("got blob %q, want %q", gotBlob, "hello")
	}
	if gotMeta.SourceName != "hello.txt" {
		t.Errorf("got source name %q", gotMeta.SourceName)
	}
}

func TestEmbedRejectsMarkerCollision(t *testing.T) {
	cover := []byte("prefix " + frame.Marker + " suffix")
	_, err := Embed(cover, []byte("blob"))
	if err == nil {
		t.Fatal("expected error on marker collision, got nil")
	}
}

func TestExtractUsesLastOccurrence(t *testing.T) {
	meta := frame.Metadata{Mode: "append", SourceKind: "file", SourceName: "x"}
	blob, err := frame.Build(meta, []byte("payload"))
	if err != nil {
		t.Fatalf("frame.Build: %v", err)
	}

	// A decoy marker-lookalike earlier in the bytes, followed by the real
	// framed blob appended after genuine cover content.
	cover := append([]byte(frame.Marker+"decoy, not a real frame"), []byte("real cover content")...)
	stego, err := embedIgnoringCollisionCheck(cover, blob)
	if err != nil {
		t.Fatalf("embed: %v", err)
	}

	_, gotBlob, err := Extract(stego)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if string(gotBlob) != "payload" {
		t.Errorf("got %q, want %q", gotBlob, "payload")
	}
}

// embedIgnoringCollisionCheck bypasses Embed's collision guard, used only to
// exercise Extract's FindLast behavior against a deliberately crafted decoy.
func embedIgnoringCollisionCheck(cover, blob []byte) ([]byte, error) {
	out := make([]byte, 0, len(cover)+len(blob))
	out = append(out, cover...)
	out = append(out, blob...)
	return out, nil
}
