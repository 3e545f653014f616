package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// Server instances that share one redis use it to keep their entries apart
// when they run with different size constants or releases.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "adaptiveflow:v1:")
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

// BoundaryKey generates a prefixed key for boundary caching.
func (k *ScopedKeyer) BoundaryKey(sizesFingerprint, contentHash string) string {
	return k.prefix + k.inner.BoundaryKey(sizesFingerprint, contentHash)
}

// SceneKey generates a prefixed key for scene caching.
func (k *ScopedKeyer) SceneKey(documentHash string, opts SceneKeyOpts) string {
	return k.prefix + k.inner.SceneKey(documentHash, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(sceneHash, opts)
}
