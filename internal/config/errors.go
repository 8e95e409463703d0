package config

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for configuration resolution.
var (
	ErrUnknownSetting = errors.New("unknown setting")
	ErrSettingType    = errors.New("setting has the wrong shape")
	ErrDefaultsParse  = errors.New("failed to parse defaults")
	ErrVariablesLoad  = errors.New("failed to load template variables")
	ErrNoDefaultsDir  = errors.New(DefaultsDirPlaceholder + " needs a defaults directory")
)

// UnknownSettingError lists document keys that the defaults do not define.
// It matches ErrUnknownSetting with errors.Is.
type UnknownSettingError struct {
	Keys  []string
	Known []string
}

func (e *UnknownSettingError) Error() string {
	quoted := make([]string, len(e.Keys))
	for i, k := range e.Keys {
		quoted[i] = fmt.Sprintf("%q", k)
	}
	return fmt.Sprintf("%s: %s", ErrUnknownSetting, strings.Join(quoted, ", "))
}

func (e *UnknownSettingError) Unwrap() error { return ErrUnknownSetting }
