package cache

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation.
// Server deployments serving several workspaces give each one its own
// namespace so plans computed for one never leak into another.
//
// Example usage:
//
//	// Workspace-specific keys
//	wsKeyer := NewScopedKeyer(NewDefaultKeyer(), "ws:abc123:")
//
//	// Shared keys
//	globalKeyer := NewDefaultKeyer()
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

// PlanKey generates a prefixed key for plan caching.
func (k *ScopedKeyer) PlanKey(infoHash string, opts PlanKeyOpts) string {
	return k.prefix + k.inner.PlanKey(infoHash, opts)
}

// DocumentKey generates a prefixed key for document snapshot caching.
func (k *ScopedKeyer) DocumentKey(namespace, id string) string {
	return k.prefix + k.inner.DocumentKey(namespace, id)
}
