// SPDX-License-Identifier: MPL-2.0

// Package manifest loads agent manifests and registers their commands and
// intents with a cmdtree.Collector.
//
// A manifest describes one automation agent: the commands it contributes,
// how each command resolves a name collision with another agent, and the
// intents (free-form phrases) it answers. Manifests may be written in TOML,
// YAML or CUE; the format is chosen by file extension.
package manifest
