package bundle

import (
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/edgebundle/pkg/bundle/force"
	errs "github.com/matzehuels/edgebundle/pkg/errors"
)

// Subdivision modes.
const (
	SubdivisionArcLength = "arclength"
	SubdivisionMidpoint  = "midpoint"
)

// Default values for every tunable.
const (
	DefaultK                      = 1.0
	DefaultE                      = 1.0
	DefaultCycles                 = 6
	DefaultSubdivisions           = 1
	DefaultStep                   = 0.04
	DefaultStepRate               = 0.5
	DefaultSubdivisionRate        = 2.0
	DefaultIterations             = 50
	DefaultIterationRate          = 2.0 / 3.0
	DefaultCompatibilityThreshold = 0.6
	DefaultEps                    = 1e-8
)

// Config holds the bundling parameters.
type Config struct {
	K                      float64 `toml:"k" json:"k" validate:"gte=0"`
	E                      float64 `toml:"e" json:"e" validate:"gte=0"`
	Cycles                 int     `toml:"cycles" json:"cycles" validate:"gte=0"`
	Subdivisions           int     `toml:"subdivisions" json:"subdivisions" validate:"gte=1"`
	Step                   float64 `toml:"step" json:"step" validate:"gte=0"`
	StepRate               float64 `toml:"step_rate" json:"step_rate" validate:"gt=0,lte=1"`
	SubdivisionRate        float64 `toml:"subdivision_rate" json:"subdivision_rate" validate:"gte=1"`
	Iterations             int     `toml:"iterations" json:"iterations" validate:"gte=0"`
	IterationRate          float64 `toml:"iteration_rate" json:"iteration_rate" validate:"gt=0,lte=1"`
	CompatibilityThreshold float64 `toml:"compatibility_threshold" json:"compatibility_threshold" validate:"gte=0,lte=1"`
	Eps                    float64 `toml:"eps" json:"eps" validate:"gt=0"`
	Subdivision            string  `toml:"subdivision_mode" json:"subdivision_mode" validate:"oneof=arclength midpoint"`
}

// DefaultConfig returns the standard parameters.
func DefaultConfig() Config {
	return Config{
		K:                      DefaultK,
		E:                      DefaultE,
		Cycles:                 DefaultCycles,
		Subdivisions:           DefaultSubdivisions,
		Step:                   DefaultStep,
		StepRate:               DefaultStepRate,
		SubdivisionRate:        DefaultSubdivisionRate,
		Iterations:             DefaultIterations,
		IterationRate:          DefaultIterationRate,
		CompatibilityThreshold: DefaultCompatibilityThreshold,
		Eps:                    DefaultEps,
		Subdivision:            SubdivisionArcLength,
	}
}

// WithDefaults returns c with defaults filled in for every field whose zero
// value is not a legal setting. Fields where zero is meaningful (K, E,
// Cycles, Step, Iterations, CompatibilityThreshold) are left alone.
func (c Config) WithDefaults() Config {
	if c.Subdivisions == 0 {
		c.Subdivisions = DefaultSubdivisions
	}
	if c.StepRate == 0 {
		c.StepRate = DefaultStepRate
	}
	if c.SubdivisionRate == 0 {
		c.SubdivisionRate = DefaultSubdivisionRate
	}
	if c.IterationRate == 0 {
		c.IterationRate = DefaultIterationRate
	}
	if c.Eps == 0 {
		c.Eps = DefaultEps
	}
	if c.Subdivision == "" {
		c.Subdivision = SubdivisionArcLength
	}
	return c
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("toml"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// Validate reports the first invalid parameter as an INVALID_CONFIG error.
func (c Config) Validate() error {
	floats := []struct {
		name string
		v    float64
	}{
		{"k", c.K},
		{"e", c.E},
		{"step", c.Step},
		{"step_rate", c.StepRate},
		{"subdivision_rate", c.SubdivisionRate},
		{"iteration_rate", c.IterationRate},
		{"compatibility_threshold", c.CompatibilityThreshold},
		{"eps", c.Eps},
	}
	for _, f := range floats {
		if err := errs.ValidateFinite(f.name, f.v); err != nil {
			return err
		}
	}

	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return errs.New(errs.ErrCodeInvalidConfig, "%s: %s", fe.Field(), describe(fe))
		}
		return errs.Wrap(errs.ErrCodeInvalidConfig, err, "invalid config")
	}
	return nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "gte":
		return fmt.Sprintf("must be >= %s, got %v", fe.Param(), fe.Value())
	case "gt":
		return fmt.Sprintf("must be > %s, got %v", fe.Param(), fe.Value())
	case "lte":
		return fmt.Sprintf("must be <= %s, got %v", fe.Param(), fe.Value())
	case "oneof":
		return fmt.Sprintf("must be one of [%s], got %q", fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("failed %s check, got %v", fe.Tag(), fe.Value())
	}
}

// LoadConfig reads a TOML file on top of the defaults.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	return DecodeConfig(f)
}

// DecodeConfig decodes TOML from r on top of the defaults. Keys absent from
// the document keep their default values; unknown keys are rejected.
func DecodeConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return Config{}, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode config")
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return Config{}, errs.New(errs.ErrCodeInvalidConfig, "unknown config key %q", undec[0].String())
	}
	return cfg.WithDefaults(), nil
}

// EncodeConfig writes c as TOML.
func EncodeConfig(w io.Writer, c Config) error {
	return toml.NewEncoder(w).Encode(c)
}

// params converts c into simulation constants.
func (c Config) params() force.Params {
	return force.Params{
		K:               c.K,
		E:               c.E,
		Cycles:          c.Cycles,
		Subdivisions:    c.Subdivisions,
		Step:            c.Step,
		StepRate:        c.StepRate,
		SubdivisionRate: c.SubdivisionRate,
		Iterations:      c.Iterations,
		IterationRate:   c.IterationRate,
		Eps:             c.Eps,
		Midpoint:        c.Subdivision == SubdivisionMidpoint,
	}
}
