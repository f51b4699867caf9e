package cache

// Keyer derives cache keys.
type Keyer interface {
	// BundleKey returns the key for a bundling run over the edges with the
	// given digest.
	BundleKey(digest string, opts BundleKeyOpts) string
}

// BundleKeyOpts lists every parameter that changes a bundling result.
// Worker count and prefiltering are absent since they never change output.
type BundleKeyOpts struct {
	K                      float64 `json:"k"`
	E                      float64 `json:"e"`
	Cycles                 int     `json:"cycles"`
	Subdivisions           int     `json:"subdivisions"`
	Step                   float64 `json:"step"`
	StepRate               float64 `json:"step_rate"`
	SubdivisionRate        float64 `json:"subdivision_rate"`
	Iterations             int     `json:"iterations"`
	IterationRate          float64 `json:"iteration_rate"`
	CompatibilityThreshold float64 `json:"compatibility_threshold"`
	Eps                    float64 `json:"eps"`
	Subdivision            string  `json:"subdivision_mode"`
}

// DefaultKeyer produces unscoped keys of the form "bundle:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// BundleKey hashes the digest together with the options.
func (DefaultKeyer) BundleKey(digest string, opts BundleKeyOpts) string {
	return hashKey("bundle", digest, opts)
}
