package assets

import "errors"

// Resolver reads each defaults file from the custom directory when it has
// one, and from the embedded copy otherwise. A directory that overrides
// only panwrap.yaml still gets the embedded variables.yaml.
type Resolver struct {
	custom   Loader // nil if no custom directory configured
	embedded Loader
}

// NewResolver creates a Resolver. An empty customDir means embedded only.
// Returns an error if customDir is set but not a readable directory.
func NewResolver(customDir string) (*Resolver, error) {
	r := &Resolver{embedded: NewEmbeddedLoader()}
	if customDir != "" {
		fsLoader, err := NewFilesystemLoader(customDir)
		if err != nil {
			return nil, err
		}
		r.custom = fsLoader
	}
	return r, nil
}

// Load reads name from the custom directory, falling back to the embedded
// copy only when the file is missing there.
func (r *Resolver) Load(name string) ([]byte, error) {
	if r.custom == nil {
		return r.embedded.Load(name)
	}
	content, err := r.custom.Load(name)
	if err == nil {
		return content, nil
	}
	// Validation and I/O errors are not a reason to fall back.
	if !errors.Is(err, ErrAssetNotFound) {
		return nil, err
	}
	return r.embedded.Load(name)
}

// Dir returns the custom directory, or "" when only embedded files are used.
func (r *Resolver) Dir() string {
	if r.custom == nil {
		return ""
	}
	return r.custom.Dir()
}

// HasCustomLoader returns true if a custom directory is configured.
func (r *Resolver) HasCustomLoader() bool {
	return r.custom != nil
}

// Compile-time interface check.
var _ Loader = (*Resolver)(nil)
