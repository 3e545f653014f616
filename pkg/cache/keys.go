package cache

// Keyer derives cache keys. Keys are namespaced by entry type and hash
// every option that changes the cached value.
type Keyer interface {
	// BoundaryKey keys a measured boundary by the fingerprint of the size
	// constants and the content hash of the construct.
	BoundaryKey(sizesFingerprint, contentHash string) string
	// SceneKey keys a laid-out document.
	SceneKey(documentHash string, opts SceneKeyOpts) string
	// ArtifactKey keys a rendered output.
	ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string
}

// SceneKeyOpts are the options that change a scene.
type SceneKeyOpts struct {
	Trigger          int     `json:"trigger"`
	SizesFingerprint string  `json:"sizes"`
	Smart            bool    `json:"smart"`
	FontSize         float64 `json:"font_size"`
}

// ArtifactKeyOpts are the options that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format    string  `json:"format"`
	Style     string  `json:"style"`
	Scale     float64 `json:"scale"`
	ShowMenus bool    `json:"show_menus"`
	Selected  string  `json:"selected,omitempty"`
	Detailed  bool    `json:"detailed,omitempty"`
}

// DefaultKeyer is the standard key layout.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// BoundaryKey returns "boundary:<hash>".
func (DefaultKeyer) BoundaryKey(sizesFingerprint, contentHash string) string {
	return hashKey("boundary", sizesFingerprint, contentHash)
}

// SceneKey returns "scene:<hash>".
func (DefaultKeyer) SceneKey(documentHash string, opts SceneKeyOpts) string {
	return hashKey("scene", documentHash, opts)
}

// ArtifactKey returns "artifact:<hash>".
func (DefaultKeyer) ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", sceneHash, opts)
}

var _ Keyer = DefaultKeyer{}
