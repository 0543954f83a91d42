package cache

// ScopedKeyer wraps a Keyer with a prefix.
// The pipeline scopes keys by payload version so that a change to the cached
// encoding never reads entries written by an older build:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "v1:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// ImageKey generates a prefixed key for decoded images.
func (k *ScopedKeyer) ImageKey(contentHash string) string {
	return k.prefix + k.inner.ImageKey(contentHash)
}

// PackKey generates a prefixed key for packing results.
func (k *ScopedKeyer) PackKey(catalogHash string, opts PackKeyOpts) string {
	return k.prefix + k.inner.PackKey(catalogHash, opts)
}
