package payload

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFile(t *testing.T) {
	tmp := t.TempDir()
	p := filepath.Join(tmp, "a.txt")
	if err := os.WriteFile(p, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Kind != SourceFile || loaded.Name != "a.txt" {
		t.Errorf("unexpected loaded: %+v", loaded)
	}
	if !bytes.Equal(loaded.Bytes, []byte("hello")) {
		t.Errorf("bytes mismatch: %q", loaded.Bytes)
	}
}

func TestLoadEmptyFileRejected(t *testing.T) {
	tmp := t.TempDir()
	p := filepath.Join(tmp, "empty.txt")
	if err := os.WriteFile(p, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(p); err == nil {
		t.Errorf("Load(empty) should fail")
	}
}

func TestDirRoundTripAndDeterminism(t *testing.T) {
	tmp := t.TempDir()
	srcDir := filepath.Join(tmp, "src")
	if err := os.MkdirAll(filepath.Join(srcDir, "b"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(srcDir, "a.txt"), []byte("hi\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(srcDir, "b", "bin"), []byte{0x00, 0x01, 0x02, 0x03}, 0o644); err != nil {
		t.Fatal(err)
	}

	first, err := Load(srcDir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if first.Kind != SourceDir {
		t.Fatalf("expected SourceDir, got %v", first.Kind)
	}

	second, err := Load(srcDir)
	if err != nil {
		t.Fatalf("Load (second): %v", err)
	}
	if !bytes.Equal(first.Bytes, second.Bytes) {
		t.Errorf("archive is not deterministic across loads")
	}

	outDir := filepath.Join(tmp, "out")
	if err := WriteOut(SourceDir, first.Name, first.Bytes, outDir); err != nil {
		t.Fatalf("WriteOut: %v", err)
	}

	gotA, err := os.ReadFile(filepath.Join(outDir, "a.txt"))
	if err != nil || string(gotA) != "hi\n" {
		t.Errorf("a.txt mismatch: %q, err=%v", gotA, err)
	}
	gotB, err := os.ReadFile(filepath.Join(outDir, "b", "bin"))
	if err != nil || !bytes.Equal(gotB, []byte{0x00, 0x01, 0x02, 0x03}) {
		t.Errorf("b/bin mismatch: %v, err=%v", gotB, err)
	}
}

func TestWriteOutFile(t *testing.T) {
	tmp := t.TempDir()
	outDir := filepath.Join(tmp, "out")
	if err := WriteOut(SourceFile, "report.bin", []byte("payload"), outDir); err != nil {
		t.Fatalf("WriteOut: %v", err)
	}
	got, err := os.ReadFile(filepath.Join(outDir, "report.bin"))
	if err != nil || string(got) != "payload" {
		t.Errorf("unexpected output: %q, err=%v", got, err)
	}
}
