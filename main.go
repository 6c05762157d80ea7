// Package main is the entry point for the linktypes CLI.
package main

import "linktypes.dev/pkg/linktypes/cmd"

func main() {
	cmd.Execute()
}
