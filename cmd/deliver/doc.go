// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the deliver command-line interface.
//
// The command tree is assembled at startup from built-in commands and agent
// manifests. Collisions between them are resolved by each command's conflict
// policy; unresolvable ones are reported before any command runs.
package cmd
