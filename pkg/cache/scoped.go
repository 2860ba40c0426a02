package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// The serve mode uses it so that entries written on behalf of HTTP
// clients never collide with entries from local CLI runs sharing the
// same Redis instance.
//
// Example usage:
//
//	serveKeyer := NewScopedKeyer(NewDefaultKeyer(), "serve:")
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

// ReduceKey generates a prefixed key for a serialized reduction result.
func (k *ScopedKeyer) ReduceKey(graphHash string, opts ReduceKeyOpts) string {
	return k.prefix + k.inner.ReduceKey(graphHash, opts)
}
