// SPDX-License-Identifier: MPL-2.0

// Package shell runs manifest scripts in-process with the mvdan/sh POSIX
// interpreter, so agent commands behave the same on every platform.
package shell
