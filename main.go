// SPDX-License-Identifier: MPL-2.0

package main

import "github.com/invowk/deliver/cmd/deliver"

func main() {
	cmd.Execute()
}
