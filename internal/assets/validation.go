package assets

import (
	"fmt"
	"strings"
)

// ValidateAssetName checks that a defaults file name is a plain file name.
// Returns ErrInvalidAssetName if the name is empty, contains a path
// separator, or is a dot-only name such as "..".
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, "/\\\x00") || strings.Trim(name, ".") == "" {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}
