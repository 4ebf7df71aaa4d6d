// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

const (
	// SeverityWarning indicates a skipped file or directory.
	SeverityWarning Severity = "warning"
	// SeverityError indicates a manifest that failed to load.
	SeverityError Severity = "error"
)

type (
	// Severity represents diagnostic severity.
	Severity string

	// Diagnostic is a non-fatal discovery problem returned to the caller
	// rather than written to stderr.
	Diagnostic struct {
		Severity Severity
		// Code is a machine-readable identifier such as "manifest_load_failed".
		Code    string
		Message string
		Path    string
		Cause   error
	}

	// Result holds the manifests found by Discover, in load order.
	Result struct {
		Manifests   []*Manifest
		Diagnostics []Diagnostic
	}
)

// Discover loads every manifest file directly inside dirs. Directories are
// visited in order and files by name; missing directories are skipped
// silently. A manifest whose agent name was already loaded is skipped with a
// warning.
func Discover(dirs []string) Result {
	var res Result
	seenDirs := make(map[string]bool)
	agents := make(map[string]string)

	for _, dir := range dirs {
		abs, err := filepath.Abs(dir)
		if err != nil {
			res.warn("scan_path_invalid", dir, err, "failed to resolve manifest directory %q: %v", dir, err)
			continue
		}
		if seenDirs[abs] {
			continue
		}
		seenDirs[abs] = true

		entries, err := os.ReadDir(abs)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				res.warn("scan_failed", abs, err, "failed to list %s while scanning manifests: %v", abs, err)
			}
			continue
		}

		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			path := filepath.Join(abs, entry.Name())
			if _, ok := FormatOf(path); !ok {
				continue
			}

			m, err := Load(path)
			if err != nil {
				res.Diagnostics = append(res.Diagnostics, Diagnostic{
					Severity: SeverityError,
					Code:     "manifest_load_failed",
					Message:  fmt.Sprintf("skipping agent manifest %s: %v", path, err),
					Path:     path,
					Cause:    err,
				})
				continue
			}
			if first, dup := agents[m.Agent]; dup {
				res.warn("duplicate_agent", path, nil, "skipping %s: agent %q is already defined in %s", path, m.Agent, first)
				continue
			}
			agents[m.Agent] = path

			slog.Debug("loaded agent manifest", "agent", m.Agent, "path", path,
				"commands", len(m.Commands), "intents", len(m.Intents))
			res.Manifests = append(res.Manifests, m)
		}
	}
	return res
}

func (r *Result) warn(code, path string, cause error, format string, args ...any) {
	r.Diagnostics = append(r.Diagnostics, Diagnostic{
		Severity: SeverityWarning,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Path:     path,
		Cause:    cause,
	})
}
