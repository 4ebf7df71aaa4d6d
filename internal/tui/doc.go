// SPDX-License-Identifier: MPL-2.0

// Package tui provides the interactive prompts used while running commands.
//
// Chooser asks the user to pick one of the implementations of a
// prompt-for-choice command. Confirmer asks yes/no questions. Both are
// charmbracelet/huh forms and refuse to prompt when input is not a terminal,
// unless accessible mode is on.
package tui
