package main

import (
	"errors"
	"os"

	panwrap "github.com/alnah/go-panwrap"
	"github.com/alnah/go-panwrap/internal/assets"
	"github.com/alnah/go-panwrap/internal/config"
)

// Exit codes for the panwrap CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess   = 0 // Every requested format was produced
	ExitGeneral   = 1 // General/unexpected error
	ExitUsage     = 2 // Invalid flags, settings, or document configuration
	ExitIO        = 3 // Source or bibliography unreadable
	ExitConverter = 4 // At least one converter run failed
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, panwrap.ErrConverterInvocation) {
		return ExitConverter
	}

	if errors.Is(err, panwrap.ErrSourceRead) ||
		errors.Is(err, panwrap.ErrBibliographyNotFound) ||
		errors.Is(err, panwrap.ErrOutputNotFound) ||
		errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) {
		return ExitIO
	}

	if errors.Is(err, ErrNoInput) ||
		errors.Is(err, panwrap.ErrNoDocument) ||
		errors.Is(err, panwrap.ErrFrontMatterNotFound) ||
		errors.Is(err, panwrap.ErrMalformedBlock) ||
		errors.Is(err, panwrap.ErrUnknownSetting) ||
		errors.Is(err, panwrap.ErrSettingType) ||
		errors.Is(err, panwrap.ErrVariablesLoad) ||
		errors.Is(err, panwrap.ErrDefaultsParse) ||
		errors.Is(err, panwrap.ErrNoDefaultsDir) ||
		errors.Is(err, panwrap.ErrInvalidOutput) ||
		errors.Is(err, config.ErrSettingsNotFound) ||
		errors.Is(err, config.ErrSettingsParse) ||
		errors.Is(err, config.ErrInvalidLocale) ||
		errors.Is(err, assets.ErrInvalidBasePath) {
		return ExitUsage
	}

	return ExitGeneral
}
