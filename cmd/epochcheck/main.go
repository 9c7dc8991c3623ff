// SPDX-License-Identifier: MIT

// Command epochcheck solves explicit epoch sequences described in YAML.
//
//	epochcheck solve model.yaml --env solver.yaml
//	epochcheck env --linear-method lu
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
