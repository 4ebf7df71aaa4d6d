// SPDX-License-Identifier: MPL-2.0

// Package cmdtree composes command trees contributed by independent sources
// and resolves the name collisions between them.
//
// Assembly is a two-phase pipeline. A Registry collects Descriptors into a
// raw forest in which siblings may share a name. Optimize then combines every
// group of same-named siblings according to each command's
// ConflictResolution and returns an immutable, conflict-free tree ready for
// Render. Validate reports the same conflicts without building anything.
package cmdtree
