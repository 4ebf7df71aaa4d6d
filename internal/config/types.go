// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"

	"github.com/invowk/deliver/pkg/cmdtree"
)

const (
	// LogLevelDebug logs everything including assembly decisions.
	LogLevelDebug LogLevel = "debug"
	// LogLevelInfo is the default level.
	LogLevelInfo LogLevel = "info"
	// LogLevelWarn logs only conflict warnings and errors.
	LogLevelWarn LogLevel = "warn"
	// LogLevelError logs only errors.
	LogLevelError LogLevel = "error"

	// ColorSchemeAuto detects the terminal background.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces the dark palette.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces the light palette.
	ColorSchemeLight ColorScheme = "light"
)

var (
	// ErrInvalidLogLevel is returned when a LogLevel value is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidSearchPath is returned for an empty search path entry.
	ErrInvalidSearchPath = errors.New("invalid search path")
)

type (
	// LogLevel is the minimum level written by the CLI logger.
	LogLevel string

	// ColorScheme selects the palette used for styled output.
	ColorScheme string

	// InvalidLogLevelError is returned when a LogLevel value is not recognized.
	// It wraps ErrInvalidLogLevel for errors.Is() compatibility.
	InvalidLogLevelError struct {
		Value LogLevel
	}

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// Config holds the application configuration.
	Config struct {
		// SearchPaths are extra directories scanned for agent manifests,
		// after the user agents directory and the project .deliver directory.
		// Relative paths resolve against the working directory.
		SearchPaths []string `json:"search_paths" mapstructure:"search_paths"`
		// DefaultConflict applies to manifest commands that omit a policy.
		DefaultConflict cmdtree.ResolutionKind `json:"default_conflict" mapstructure:"default_conflict"`
		// LogLevel is the minimum level logged to stderr.
		LogLevel LogLevel `json:"log_level" mapstructure:"log_level"`
		// UI configures the user interface.
		UI UIConfig `json:"ui" mapstructure:"ui"`

		// Source is the file the configuration was read from, empty when
		// only defaults apply.
		Source string `json:"-" mapstructure:"-"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Theme is the huh theme used by the command chooser.
		Theme string `json:"theme" mapstructure:"theme"`
		// Verbose lowers the log level to debug.
		Verbose bool `json:"verbose" mapstructure:"verbose"`
		// Accessible switches the chooser to plain line prompts.
		Accessible bool `json:"accessible" mapstructure:"accessible"`
	}
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		SearchPaths:     []string{},
		DefaultConflict: cmdtree.KindUniqueOrFail,
		LogLevel:        LogLevelInfo,
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Theme:       "charm",
		},
	}
}

func (l LogLevel) String() string { return string(l) }

// IsValid returns whether the LogLevel is one of the defined levels,
// and a list of validation errors if it is not.
func (l LogLevel) IsValid() (bool, []error) {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return true, nil
	default:
		return false, []error{&InvalidLogLevelError{Value: l}}
	}
}

func (c ColorScheme) String() string { return string(c) }

// IsValid returns whether the ColorScheme is one of the defined schemes,
// and a list of validation errors if it is not.
func (c ColorScheme) IsValid() (bool, []error) {
	switch c {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: c}}
	}
}

// IsValid checks values that bypass the CUE schema, such as environment
// overrides.
func (c *Config) IsValid() (bool, []error) {
	var errs []error
	for i, p := range c.SearchPaths {
		if p == "" {
			errs = append(errs, fmt.Errorf("search_paths[%d]: %w", i, ErrInvalidSearchPath))
		}
	}
	if ok, kindErrs := c.DefaultConflict.IsValid(); !ok {
		errs = append(errs, kindErrs...)
	}
	if ok, levelErrs := c.LogLevel.IsValid(); !ok {
		errs = append(errs, levelErrs...)
	}
	if ok, schemeErrs := c.UI.ColorScheme.IsValid(); !ok {
		errs = append(errs, schemeErrs...)
	}
	return len(errs) == 0, errs
}

// EffectiveLogLevel folds ui.verbose into the configured level.
func (c *Config) EffectiveLogLevel() LogLevel {
	if c.UI.Verbose {
		return LogLevelDebug
	}
	return c.LogLevel
}

func (e *InvalidLogLevelError) Error() string {
	return fmt.Sprintf("invalid log level %q (valid: debug, info, warn, error)", e.Value)
}

func (e *InvalidLogLevelError) Unwrap() error { return ErrInvalidLogLevel }

func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }
