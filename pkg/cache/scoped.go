package cache

// ScopedKeyer prefixes every key of an inner Keyer, so several deployments
// or tenants can share one backend without seeing each other's entries.
//
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// A nil inner keyer falls back to the default.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// BundleKey generates a prefixed bundle key.
func (k *ScopedKeyer) BundleKey(digest string, opts BundleKeyOpts) string {
	return k.prefix + k.inner.BundleKey(digest, opts)
}
