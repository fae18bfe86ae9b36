package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/barnettlynn/stegoform/internal/stegoerr"
)

func TestDefaultTableHasThreeBuiltins(t *testing.T) {
	tbl := DefaultTable()
	for _, name := range []string{"none", "whatsapp", "telegram"} {
		if _, err := tbl.Lookup(name); err != nil {
			t.Errorf("Lookup(%q) failed: %v", name, err)
		}
	}
	if _, err := tbl.Lookup("signal"); !stegoerr.IsArg(err) {
		t.Errorf("Lookup(unknown) = %v, want ArgError", err)
	}
}

func TestWhatsappPresetMatchesSpec(t *testing.T) {
	tbl := DefaultTable()
	p, err := tbl.Lookup("whatsapp")
	if err != nil {
		t.Fatal(err)
	}
	if p.Quality != 85 || p.BandLo != 10 || p.BandHi != 24 || p.RateCap != 0.05 {
		t.Errorf("unexpected whatsapp preset: %+v", p)
	}
}

func TestClampRate(t *testing.T) {
	p := Preset{RateCap: 0.05}
	if got := p.ClampRate(0.9); got != 0.05 {
		t.Errorf("ClampRate(0.9) = %v, want 0.05", got)
	}
	if got := p.ClampRate(0.02); got != 0.02 {
		t.Errorf("ClampRate(0.02) = %v, want 0.02", got)
	}
}

func TestLoadOverridesAddsAndOverrides(t *testing.T) {
	tmp := t.TempDir()
	cfgPath := filepath.Join(tmp, "channels.yaml")
	doc := `
presets:
  signal:
    quality: 90
    band_lo: 8
    band_hi: 20
    rate_cap: 0.1
  whatsapp:
    quality: 80
    band_lo: 10
    band_hi: 24
    rate_cap: 0.05
`
	if err := os.WriteFile(cfgPath, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	tbl := DefaultTable()
	if err := tbl.LoadOverrides(cfgPath); err != nil {
		t.Fatalf("LoadOverrides: %v", err)
	}

	sig, err := tbl.Lookup("signal")
	if err != nil || sig.Quality != 90 {
		t.Errorf("signal preset not added: %+v, err=%v", sig, err)
	}
	wa, err := tbl.Lookup("whatsapp")
	if err != nil || wa.Quality != 80 {
		t.Errorf("whatsapp preset not overridden: %+v, err=%v", wa, err)
	}
}

func TestLoadOverridesRejectsBadPreset(t *testing.T) {
	tmp := t.TempDir()
	cfgPath := filepath.Join(tmp, "channels.yaml")
	doc := `
presets:
  broken:
    quality: 500
    band_lo: 8
    band_hi: 20
    rate_cap: 0.1
`
	if err := os.WriteFile(cfgPath, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	tbl := DefaultTable()
	if err := tbl.LoadOverrides(cfgPath); !stegoerr.IsArg(err) {
		t.Errorf("LoadOverrides(bad quality) = %v, want ArgError", err)
	}
}

func TestLoadOverridesRejectsUnknownField(t *testing.T) {
	tmp := t.TempDir()
	cfgPath := filepath.Join(tmp, "channels.yaml")
	doc := `
presets:
  signal:
    quality: 90
    band_lo: 8
    band_hi: 20
    rate_cap: 0.1
    bogus_field: true
`
	if err := os.WriteFile(cfgPath, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	tbl := DefaultTable()
	if err := tbl.LoadOverrides(cfgPath); err == nil {
		t.Errorf("LoadOverrides with unknown field should fail")
	}
}
