// Package config holds the DCT channel preset table (spec.md §4.5) and the
// optional YAML override file that lets a deployment add or adjust presets
// without recompiling, following the teacher's sdmconfig/internal/config
// loader (yaml.Decoder with KnownFields and an explicit validation pass).
// The file holds no paths, so nothing is resolved relative to it.
package config

import (
	"bytes"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/barnettlynn/stegoform/internal/stegoerr"
)

// Preset bundles the per-transport tunables from spec.md §4.5.
type Preset struct {
	Name     string  `yaml:"-"`
	Quality  int     `yaml:"quality"`
	BandLo   int     `yaml:"band_lo"`
	BandHi   int     `yaml:"band_hi"`
	RateCap  float64 `yaml:"rate_cap"`
}

// builtin is the closed mapping required by spec.md §4.5.
var builtin = map[string]Preset{
	"none":     {Name: "none", Quality: 95, BandLo: 6, BandHi: 28, RateCap: 1.0},
	"whatsapp": {Name: "whatsapp", Quality: 85, BandLo: 10, BandHi: 24, RateCap: 0.05},
	"telegram": {Name: "telegram", Quality: 87, BandLo: 10, BandHi: 26, RateCap: 0.08},
}

// Table is a name -> Preset mapping, seeded from the built-ins and optionally
// extended/overridden by a YAML file.
type Table struct {
	presets map[string]Preset
}

// DefaultTable returns the three built-in presets with no overrides.
func DefaultTable() *Table {
	t := &Table{presets: make(map[string]Preset, len(builtin))}
	for name, p := range builtin {
		t.presets[name] = p
	}
	return t
}

// Lookup returns the named preset, or an ArgError if unrecognized.
func (t *Table) Lookup(name string) (Preset, error) {
	p, ok := t.presets[name]
	if !ok {
		return Preset{}, stegoerr.Arg("unknown channel preset %q", name)
	}
	return p, nil
}

// fileDoc is the on-disk YAML shape: a map of preset name to tunables.
type fileDoc struct {
	Presets map[string]Preset `yaml:"presets"`
}

// LoadOverrides reads a YAML file of additional/overriding presets and merges
// it into t. Unknown top-level keys are rejected (KnownFields) so a typo in
// the config file surfaces immediately rather than being silently ignored.
func (t *Table) LoadOverrides(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return stegoerr.IOWrap(err, "read channel config %s", path)
	}

	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)

	var doc fileDoc
	if err := dec.Decode(&doc); err != nil {
		return stegoerr.ArgWrap(err, "parse channel config %s", path)
	}

	for name, p := range doc.Presets {
		if err := validatePreset(name, p); err != nil {
			return err
		}
		p.Name = name
		t.presets[name] = p
	}
	return nil
}

func validatePreset(name string, p Preset) error {
	if p.Quality < 1 || p.Quality > 100 {
		return stegoerr.Arg("preset %q: quality must be 1..100, got %d", name, p.Quality)
	}
	if p.BandLo < 1 || p.BandHi > 63 || p.BandLo > p.BandHi {
		return stegoerr.Arg("preset %q: band [%d,%d] invalid (must be within [1,63])", name, p.BandLo, p.BandHi)
	}
	if p.RateCap <= 0 || p.RateCap > 1.0 {
		return stegoerr.Arg("preset %q: rate_cap must be in (0,1], got %v", name, p.RateCap)
	}
	return nil
}

// ClampRate applies the preset's rate_cap to a user-supplied rate.
func (p Preset) ClampRate(rate float64) float64 {
	if rate > p.RateCap {
		return p.RateCap
	}
	return rate
}

