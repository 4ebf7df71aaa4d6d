// SPDX-License-Identifier: MPL-2.0

// Package cobrarender renders an optimized cmdtree onto a cobra command
// tree. Options become typed pflag flags, positionals become argument
// validators, and conflict warnings are appended to the root help text.
package cobrarender
