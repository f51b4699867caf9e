package bundle

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	errs "github.com/matzehuels/edgebundle/pkg/errors"
)

func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v, want nil", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name  string
		mod   func(*Config)
		field string
	}{
		{"negative k", func(c *Config) { c.K = -1 }, "k"},
		{"nan e", func(c *Config) { c.E = math.NaN() }, "e"},
		{"inf step", func(c *Config) { c.Step = math.Inf(1) }, "step"},
		{"negative cycles", func(c *Config) { c.Cycles = -1 }, "cycles"},
		{"zero subdivisions", func(c *Config) { c.Subdivisions = 0 }, "subdivisions"},
		{"zero step rate", func(c *Config) { c.StepRate = 0 }, "step_rate"},
		{"step rate above one", func(c *Config) { c.StepRate = 1.5 }, "step_rate"},
		{"shrinking subdivisions", func(c *Config) { c.SubdivisionRate = 0.5 }, "subdivision_rate"},
		{"negative iterations", func(c *Config) { c.Iterations = -3 }, "iterations"},
		{"iteration rate above one", func(c *Config) { c.IterationRate = 2 }, "iteration_rate"},
		{"threshold above one", func(c *Config) { c.CompatibilityThreshold = 1.1 }, "compatibility_threshold"},
		{"threshold nan", func(c *Config) { c.CompatibilityThreshold = math.NaN() }, "compatibility_threshold"},
		{"zero eps", func(c *Config) { c.Eps = 0 }, "eps"},
		{"unknown mode", func(c *Config) { c.Subdivision = "spline" }, "subdivision_mode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mod(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !errs.Is(err, errs.ErrCodeInvalidConfig) {
				t.Errorf("code = %q, want %q", errs.GetCode(err), errs.ErrCodeInvalidConfig)
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error %q does not name %q", err, tt.field)
			}
		})
	}
}

func TestConfigValidateBoundaries(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*Config)
	}{
		{"zero k", func(c *Config) { c.K = 0 }},
		{"zero e", func(c *Config) { c.E = 0 }},
		{"zero cycles", func(c *Config) { c.Cycles = 0 }},
		{"zero step", func(c *Config) { c.Step = 0 }},
		{"unit step rate", func(c *Config) { c.StepRate = 1 }},
		{"unit subdivision rate", func(c *Config) { c.SubdivisionRate = 1 }},
		{"zero iterations", func(c *Config) { c.Iterations = 0 }},
		{"threshold zero", func(c *Config) { c.CompatibilityThreshold = 0 }},
		{"threshold one", func(c *Config) { c.CompatibilityThreshold = 1 }},
		{"midpoint mode", func(c *Config) { c.Subdivision = SubdivisionMidpoint }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mod(&cfg)
			if err := cfg.Validate(); err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
		})
	}
}

func TestWithDefaults(t *testing.T) {
	got := Config{K: 2, Cycles: 0, CompatibilityThreshold: 0}.WithDefaults()
	want := Config{
		K:               2,
		Subdivisions:    DefaultSubdivisions,
		StepRate:        DefaultStepRate,
		SubdivisionRate: DefaultSubdivisionRate,
		IterationRate:   DefaultIterationRate,
		Eps:             DefaultEps,
		Subdivision:     SubdivisionArcLength,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("WithDefaults() mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeConfig(t *testing.T) {
	doc := `
k = 0.5
cycles = 3
compatibility_threshold = 0.8
subdivision_mode = "midpoint"
`
	got, err := DecodeConfig(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("DecodeConfig: %v", err)
	}
	want := DefaultConfig()
	want.K = 0.5
	want.Cycles = 3
	want.CompatibilityThreshold = 0.8
	want.Subdivision = SubdivisionMidpoint
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DecodeConfig() mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		code errs.Code
	}{
		{"syntax", "k = = 1", errs.ErrCodeInvalidFormat},
		{"wrong type", `cycles = "many"`, errs.ErrCodeInvalidFormat},
		{"unknown key", "spring = 2", errs.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeConfig(strings.NewReader(tt.doc))
			if got := errs.GetCode(err); got != tt.code {
				t.Errorf("code = %q, want %q (err: %v)", got, tt.code, err)
			}
		})
	}
}

func TestConfigTOMLRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.K = 0.25
	cfg.Iterations = 12

	var buf bytes.Buffer
	if err := EncodeConfig(&buf, cfg); err != nil {
		t.Fatalf("EncodeConfig: %v", err)
	}
	got, err := DecodeConfig(&buf)
	if err != nil {
		t.Fatalf("DecodeConfig: %v", err)
	}
	if diff := cmp.Diff(cfg, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bundle.toml")
	if err := os.WriteFile(path, []byte("iterations = 7\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Iterations != 7 {
		t.Errorf("Iterations = %d, want 7", cfg.Iterations)
	}
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("LoadConfig(missing) = nil error, want error")
	}
}
