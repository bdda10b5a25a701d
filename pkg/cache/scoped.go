package cache

// ScopedKeyer wraps a Keyer with a prefix, separating entries that must not
// be shared (for example results computed by different annotator
// deployments).
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "staging:")
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

// AnnotateKey generates a prefixed annotation key.
func (k *ScopedKeyer) AnnotateKey(sentence string, opts AnnotateKeyOpts) string {
	return k.prefix + k.inner.AnnotateKey(sentence, opts)
}

// DiffKey generates a prefixed comparison key.
func (k *ScopedKeyer) DiffKey(payloadHash string, opts DiffKeyOpts) string {
	return k.prefix + k.inner.DiffKey(payloadHash, opts)
}
