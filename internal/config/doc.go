// SPDX-License-Identifier: MPL-2.0

// Package config handles deliver configuration using Viper with CUE as the
// file format.
//
// Configuration is read from config.cue in ConfigDir (XDG on Linux,
// ~/Library/Application Support on macOS, %APPDATA% on Windows), from a
// project-local deliver.cue, or from an explicit --config path. Files are
// validated against the embedded #Config schema; DELIVER_* environment
// variables override file values.
package config
