// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides the CUE parsing flow shared by the configuration
// file and CUE agent manifests:
//
//  1. Compile the embedded schema
//  2. Compile user data and unify it with a schema definition
//  3. Validate and decode to a Go value
//
// Errors carry the JSON path of the offending field, e.g.
// "agent.cue: commands[0].conflict: 2 errors in empty disjunction".
package cueutil
