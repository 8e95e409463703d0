package assets

// Well-known defaults files.
const (
	// DefaultsFile defines every per-document setting and its default.
	DefaultsFile = "panwrap.yaml"
	// VariablesFile holds the variables appended to every working copy.
	VariablesFile = "variables.yaml"
)

// Loader reads defaults files by name.
// Implementations may read from the embedded copy or a directory on disk.
type Loader interface {
	// Load returns the content of the named file.
	// Returns ErrAssetNotFound if the file doesn't exist.
	// Returns ErrInvalidAssetName if the name is not a plain file name.
	Load(name string) ([]byte, error)

	// Dir is the directory the files come from, or "" for the embedded copy.
	Dir() string
}
